package models

import "time"

// Return closes a loan. A loan is returned iff a Return row references it.
type Return struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	LoanID     int64     `json:"loan_id" gorm:"not null;uniqueIndex"`
	ReturnDate time.Time `json:"return_date" gorm:"column:returned_at;not null"`
}

func (Return) TableName() string {
	return "returns"
}
