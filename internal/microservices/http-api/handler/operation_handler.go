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

// OperationHandler serves fines, loans, reservations and returns
type OperationHandler struct {
	svc service.OperationService
	run runner
}

func NewOperationHandler(svc service.OperationService, pool *workerpool.Pool, timeout time.Duration) *OperationHandler {
	return &OperationHandler{svc: svc, run: newRunner(pool, timeout)}
}

// RegisterRoutes mounts one group per resource under api
func (h *OperationHandler) RegisterRoutes(api *gin.RouterGroup) {
	fines := api.Group("/fines")
	fines.POST("", h.CreateFine)
	fines.GET("/:id", h.GetFine)
	fines.PATCH("/:id/status", h.UpdateFineStatus)
	fines.DELETE("/:id", h.DeleteFine)

	loans := api.Group("/loans")
	loans.POST("", h.CreateLoan)
	loans.GET("/:id", h.GetLoan)
	loans.PATCH("/:id", h.UpdateLoan)
	loans.DELETE("/:id", h.DeleteLoan)

	reservations := api.Group("/reservations")
	reservations.POST("", h.CreateReservation)
	reservations.GET("/:id", h.GetReservation)
	reservations.DELETE("/:id", h.DeleteReservation)

	returns := api.Group("/returns")
	returns.POST("", h.CreateReturn)
	returns.GET("/:id", h.GetReturn)
	returns.DELETE("/:id", h.DeleteReturn)
}

func (h *OperationHandler) CreateFine(c *gin.Context) {
	var req dto.FineCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fine, ok := call(c, h.run, func(ctx context.Context) (*models.Fine, error) {
		return h.svc.CreateFine(ctx, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, fine)
}

func (h *OperationHandler) GetFine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fine, ok := call(c, h.run, func(ctx context.Context) (*models.Fine, error) {
		return h.svc.GetFine(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fine)
}

func (h *OperationHandler) UpdateFineStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.FineUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fine, ok := call(c, h.run, func(ctx context.Context) (*models.Fine, error) {
		return h.svc.UpdateFineStatus(ctx, id, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fine)
}

func (h *OperationHandler) DeleteFine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if exec(c, h.run, func(ctx context.Context) error { return h.svc.DeleteFine(ctx, id) }) {
		deleted(c)
	}
}

func (h *OperationHandler) CreateLoan(c *gin.Context) {
	var req dto.LoanCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loan, ok := call(c, h.run, func(ctx context.Context) (*models.Loan, error) {
		return h.svc.CreateLoan(ctx, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, loan)
}

func (h *OperationHandler) GetLoan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	loan, ok := call(c, h.run, func(ctx context.Context) (*models.Loan, error) {
		return h.svc.GetLoan(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *OperationHandler) UpdateLoan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.LoanUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loan, ok := call(c, h.run, func(ctx context.Context) (*models.Loan, error) {
		return h.svc.UpdateLoan(ctx, id, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *OperationHandler) DeleteLoan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if exec(c, h.run, func(ctx context.Context) error { return h.svc.DeleteLoan(ctx, id) }) {
		deleted(c)
	}
}

func (h *OperationHandler) CreateReservation(c *gin.Context) {
	var req dto.ReservationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reservation, ok := call(c, h.run, func(ctx context.Context) (*models.Reservation, error) {
		return h.svc.CreateReservation(ctx, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

func (h *OperationHandler) GetReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reservation, ok := call(c, h.run, func(ctx context.Context) (*models.Reservation, error) {
		return h.svc.GetReservation(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *OperationHandler) DeleteReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if exec(c, h.run, func(ctx context.Context) error { return h.svc.DeleteReservation(ctx, id) }) {
		deleted(c)
	}
}

func (h *OperationHandler) CreateReturn(c *gin.Context) {
	var req dto.ReturnCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ret, ok := call(c, h.run, func(ctx context.Context) (*models.Return, error) {
		return h.svc.CreateReturn(ctx, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, ret)
}

func (h *OperationHandler) GetReturn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ret, ok := call(c, h.run, func(ctx context.Context) (*models.Return, error) {
		return h.svc.GetReturn(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ret)
}

func (h *OperationHandler) DeleteReturn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if exec(c, h.run, func(ctx context.Context) error { return h.svc.DeleteReturn(ctx, id) }) {
		deleted(c)
	}
}
