package models

import "time"

type FineStatus string

const (
	FinePending   FineStatus = "PENDING"
	FinePaid      FineStatus = "PAID"
	FineCancelled FineStatus = "CANCELLED"
)

func IsValidFineStatus(status FineStatus) bool {
	switch status {
	case FinePending, FinePaid, FineCancelled:
		return true
	}
	return false
}

type Fine struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	LoanID    int64      `json:"loan_id" gorm:"not null;index"`
	Amount    float64    `json:"amount" gorm:"type:decimal(7,2);not null"`
	Status    FineStatus `json:"status" gorm:"size:32;not null"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`

	Loan *Loan `json:"-" gorm:"foreignKey:LoanID"`
}

func (Fine) TableName() string {
	return "fines"
}
