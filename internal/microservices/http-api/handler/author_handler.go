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

type AuthorHandler struct {
	svc service.AuthorService
	run runner
}

func NewAuthorHandler(svc service.AuthorService, pool *workerpool.Pool, timeout time.Duration) *AuthorHandler {
	return &AuthorHandler{svc: svc, run: newRunner(pool, timeout)}
}

func (h *AuthorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
}

func (h *AuthorHandler) List(c *gin.Context) {
	authors, ok := call(c, h.run, h.svc.List)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (h *AuthorHandler) Create(c *gin.Context) {
	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author, ok := call(c, h.run, func(ctx context.Context) (*dto.AuthorResponse, error) {
		return h.svc.Create(ctx, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, author)
}
