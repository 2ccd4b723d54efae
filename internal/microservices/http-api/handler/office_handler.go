package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"
	"libraryhub/internal/workerpool"

	"github.com/gin-gonic/gin"
)

type OfficeHandler struct {
	svc service.OfficeService
	run runner
}

func NewOfficeHandler(svc service.OfficeService, pool *workerpool.Pool, timeout time.Duration) *OfficeHandler {
	return &OfficeHandler{svc: svc, run: newRunner(pool, timeout)}
}

func (h *OfficeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *OfficeHandler) List(c *gin.Context) {
	offices, ok := call(c, h.run, h.svc.List)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, offices)
}

func (h *OfficeHandler) Create(c *gin.Context) {
	var req dto.OfficeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	office, ok := call(c, h.run, func(ctx context.Context) (*models.Office, error) {
		return h.svc.Create(ctx, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, office)
}

func (h *OfficeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	office, ok := call(c, h.run, func(ctx context.Context) (*models.Office, error) {
		return h.svc.Get(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, office)
}

func (h *OfficeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.OfficeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	office, ok := call(c, h.run, func(ctx context.Context) (*models.Office, error) {
		return h.svc.Update(ctx, id, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, office)
}

func (h *OfficeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if exec(c, h.run, func(ctx context.Context) error { return h.svc.Delete(ctx, id) }) {
		deleted(c)
	}
}
