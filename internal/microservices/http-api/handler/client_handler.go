package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/service"
	"libraryhub/internal/workerpool"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	svc service.ClientService
	run runner
}

func NewClientHandler(svc service.ClientService, pool *workerpool.Pool, timeout time.Duration) *ClientHandler {
	return &ClientHandler{svc: svc, run: newRunner(pool, timeout)}
}

func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Register)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *ClientHandler) List(c *gin.Context) {
	clients, ok := call(c, h.run, h.svc.List)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) Register(c *gin.Context) {
	var req dto.ClientRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, ok := call(c, h.run, func(ctx context.Context) (*dto.ClientResponse, error) {
		return h.svc.Register(ctx, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	client, ok := call(c, h.run, func(ctx context.Context) (*dto.ClientResponse, error) {
		return h.svc.Get(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ClientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, ok := call(c, h.run, func(ctx context.Context) (*dto.ClientResponse, error) {
		return h.svc.Update(ctx, id, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if exec(c, h.run, func(ctx context.Context) error { return h.svc.Delete(ctx, id) }) {
		deleted(c)
	}
}
