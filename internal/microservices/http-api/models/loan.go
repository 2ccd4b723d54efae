package models

import "time"

type LoanStatus string

const (
	LoanActive LoanStatus = "ACTIVE"
	LoanLoaned LoanStatus = "LOANED"
)

func IsValidLoanStatus(status LoanStatus) bool {
	return status == LoanActive || status == LoanLoaned
}

type Loan struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookCopyID int64      `json:"book_copy_id" gorm:"not null;index"`
	ClientID   int64      `json:"client_id" gorm:"not null;index"`
	Status     LoanStatus `json:"status" gorm:"size:32;not null"`
	StartDate  time.Time  `json:"start_date" gorm:"column:starts_at;not null"`
	EndDate    time.Time  `json:"end_date" gorm:"column:ends_at;not null"`

	// Returned is not a column: it is filled from EXISTS(returns.loan_id = id)
	Returned bool `json:"returned" gorm:"->;-:migration"`
	// IsOverdue is computed on read, see Overdue
	IsOverdue bool `json:"overdue" gorm:"-"`

	// Associations
	BookCopy *BookCopy `json:"-" gorm:"foreignKey:BookCopyID"`
	Client   *Client   `json:"-" gorm:"foreignKey:ClientID"`
}

func (Loan) TableName() string {
	return "loans"
}

// Schedule sets the loan window to [from, from+days). Days are counted in UTC
// so a window always spans days*24h, whatever zone from carries.
func (l *Loan) Schedule(from time.Time, days int) {
	from = from.UTC()
	l.StartDate = from
	l.EndDate = from.AddDate(0, 0, days)
}

// Overdue reports whether the loan is still open past its end date
func (l *Loan) Overdue(now time.Time) bool {
	return !l.Returned && l.EndDate.Before(now)
}
