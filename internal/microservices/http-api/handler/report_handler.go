package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/docstore"
	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"
	"libraryhub/internal/workerpool"

	"github.com/gin-gonic/gin"
)

const defaultTopAuthors = 5

type ReportHandler struct {
	svc service.ReportService
	run runner
}

func NewReportHandler(svc service.ReportService, pool *workerpool.Pool, timeout time.Duration) *ReportHandler {
	return &ReportHandler{svc: svc, run: newRunner(pool, timeout)}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Relational reports
	rg.GET("/offices/available", h.AvailableCopiesByOffice)
	rg.GET("/offices/ranked", h.RankedAvailabilityByOffice)
	rg.GET("/loans/period", h.LoansInPeriodByOffice)
	rg.GET("/loans/overdue", h.OverdueLoansByOffice)
	rg.GET("/clients/active", h.ClientsByActiveLoans)
	rg.GET("/books/popular", h.BooksByLoanCount)

	// Document pipelines
	rg.GET("/books/:id/authors", h.BookWithAuthors)
	rg.GET("/authors/top", h.TopAuthors)
	rg.GET("/authors/rating-genres", h.AuthorsRatingAndGenres)
	rg.GET("/authors/top-cached", h.CachedTopAuthors)
	rg.POST("/authors/top-cached/refresh", h.MaterializeTopAuthors)
	rg.GET("/offices/availability-documents", h.AvailabilityByOfficeDocuments)
}

func (h *ReportHandler) AvailableCopiesByOffice(c *gin.Context) {
	rows, ok := call(c, h.run, h.svc.AvailableCopiesByOffice)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) RankedAvailabilityByOffice(c *gin.Context) {
	rows, ok := call(c, h.run, h.svc.RankedAvailabilityByOffice)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) LoansInPeriodByOffice(c *gin.Context) {
	var q dto.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, ok := call(c, h.run, func(ctx context.Context) ([]models.LoansByOffice, error) {
		return h.svc.LoansInPeriodByOffice(ctx, q.Start, q.End)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) OverdueLoansByOffice(c *gin.Context) {
	rows, ok := call(c, h.run, h.svc.OverdueLoansByOffice)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) ClientsByActiveLoans(c *gin.Context) {
	rows, ok := call(c, h.run, h.svc.ClientsByActiveLoans)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) BooksByLoanCount(c *gin.Context) {
	rows, ok := call(c, h.run, h.svc.BooksByLoanCount)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) BookWithAuthors(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	doc, ok := call(c, h.run, func(ctx context.Context) (docstore.Record, error) {
		return h.svc.BookWithAuthors(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ReportHandler) TopAuthors(c *gin.Context) {
	limit := defaultTopAuthors
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	rows, ok := call(c, h.run, func(ctx context.Context) ([]docstore.Record, error) {
		return h.svc.TopAuthors(ctx, limit)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) AuthorsRatingAndGenres(c *gin.Context) {
	res, ok := call(c, h.run, h.svc.AuthorsRatingAndGenres)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) CachedTopAuthors(c *gin.Context) {
	rows, ok := call(c, h.run, h.svc.CachedTopAuthors)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) MaterializeTopAuthors(c *gin.Context) {
	if !exec(c, h.run, h.svc.MaterializeTopAuthors) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ReportHandler) AvailabilityByOfficeDocuments(c *gin.Context) {
	rows, ok := call(c, h.run, h.svc.AvailabilityByOfficeDocuments)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}
