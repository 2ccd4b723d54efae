package models

import "time"

type CopyStatus string

const (
	CopyAvailable   CopyStatus = "AVAILABLE"
	CopyReserved    CopyStatus = "RESERVED"
	CopyLoaned      CopyStatus = "LOANED"
	CopyUnavailable CopyStatus = "UNAVAILABLE"
)

var validCopyStatuses = map[CopyStatus]bool{
	CopyAvailable:   true,
	CopyReserved:    true,
	CopyLoaned:      true,
	CopyUnavailable: true,
}

func IsValidCopyStatus(status CopyStatus) bool {
	return validCopyStatuses[status]
}

type BookCopy struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookLinkID int64      `json:"book_id" gorm:"column:book_link_id;not null;index"`
	OfficeID   int64      `json:"office_id" gorm:"not null;index"`
	Status     CopyStatus `json:"status" gorm:"size:32;not null;default:AVAILABLE"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	BookLink *BookLink `json:"-" gorm:"foreignKey:BookLinkID"`
	Office   *Office   `json:"-" gorm:"foreignKey:OfficeID"`
}

func (BookCopy) TableName() string {
	return "book_copies"
}
