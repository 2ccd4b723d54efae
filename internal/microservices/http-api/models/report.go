package models

// Report rows produced by the relational reporting queries

type AvailableByOffice struct {
	OfficeID        int64  `json:"office_id" gorm:"column:office_id"`
	OfficeName      string `json:"office_name" gorm:"column:office_name"`
	AvailableCopies int64  `json:"available_copies" gorm:"column:available_copies"`
}

type OfficeAvailabilityRank struct {
	OfficeID        int64  `json:"office_id" gorm:"column:office_id"`
	OfficeName      string `json:"office_name" gorm:"column:office_name"`
	AvailableCopies int64  `json:"available_copies" gorm:"column:available_copies"`
	Rank            int64  `json:"rank" gorm:"column:rank_by_available"`
}

type LoansByOffice struct {
	OfficeID   int64  `json:"office_id" gorm:"column:office_id"`
	OfficeName string `json:"office_name" gorm:"column:office_name"`
	LoansCount int64  `json:"loans_count" gorm:"column:loans_count"`
}

type ClientLoanRank struct {
	ClientID    int64 `json:"client_id" gorm:"column:client_id"`
	ActiveLoans int64 `json:"active_loans" gorm:"column:active_loans"`
	Rank        int64 `json:"rank" gorm:"column:rank_by_active"`
}

// BookLoanRank.BookID is the relational book id (book_link.id)
type BookLoanRank struct {
	BookID     int64 `json:"book_id" gorm:"column:book_id"`
	LoansCount int64 `json:"loans_count" gorm:"column:loans_count"`
	Rank       int64 `json:"rank" gorm:"column:rank_by_popularity"`
}
