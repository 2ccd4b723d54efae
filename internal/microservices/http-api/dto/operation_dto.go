package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

type FineCreateRequest struct {
	LoanID int64   `json:"loan_id" binding:"required,gt=0"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type FineUpdateStatusRequest struct {
	Status models.FineStatus `json:"status" binding:"required"`
}

type LoanCreateRequest struct {
	BookCopyID     int64 `json:"book_copy_id" binding:"required,gt=0"`
	ClientID       int64 `json:"client_id" binding:"required,gt=0"`
	DurationInDays int   `json:"duration_in_days" binding:"required,gt=0"`
}

// LoanUpdateRequest: extending resets the start to now; both fields are optional
type LoanUpdateRequest struct {
	DurationInDays *int               `json:"duration_in_days" binding:"omitempty,gt=0"`
	Status         *models.LoanStatus `json:"status"`
}

type ReservationCreateRequest struct {
	BookCopyID     int64 `json:"book_copy_id" binding:"required,gt=0"`
	ClientID       int64 `json:"client_id" binding:"required,gt=0"`
	DurationInDays int   `json:"duration_in_days" binding:"required,gt=0"`
}

type ReturnCreateRequest struct {
	LoanID int64 `json:"loan_id" binding:"required,gt=0"`
}

// PeriodQuery: half-open range [start, end)
type PeriodQuery struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02"`
}
