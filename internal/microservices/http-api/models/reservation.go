package models

import "time"

type Reservation struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookCopyID int64     `json:"book_copy_id" gorm:"not null;index"`
	ClientID   int64     `json:"client_id" gorm:"not null;index"`
	StartDate  time.Time `json:"start_date" gorm:"column:starts_at;not null"`
	EndDate    time.Time `json:"end_date" gorm:"column:ends_at;not null"`
}

func (Reservation) TableName() string {
	return "reservations"
}
