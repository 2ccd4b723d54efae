package repository

import (
	"context"
	"time"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReportRepository interface {
	AvailableCopiesByOffice(ctx context.Context) ([]models.AvailableByOffice, error)
	RankedAvailabilityByOffice(ctx context.Context) ([]models.OfficeAvailabilityRank, error)
	LoansInPeriodByOffice(ctx context.Context, start, end time.Time) ([]models.LoansByOffice, error)
	OverdueLoansByOffice(ctx context.Context, now time.Time) ([]models.LoansByOffice, error)
	ClientsByActiveLoans(ctx context.Context) ([]models.ClientLoanRank, error)
	BooksByLoanCount(ctx context.Context) ([]models.BookLoanRank, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func scanReport[T any](ctx context.Context, db *gorm.DB, name string, build func() (string, error)) ([]T, error) {
	query, err := build()
	if err != nil {
		return nil, err
	}
	rows := make([]T, 0)
	if err := db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, mapError(name, err)
	}
	return rows, nil
}

func (r *reportRepository) AvailableCopiesByOffice(ctx context.Context) ([]models.AvailableByOffice, error) {
	return scanReport[models.AvailableByOffice](ctx, r.db, "available copies by office", availableCopiesByOfficeQuery)
}

func (r *reportRepository) RankedAvailabilityByOffice(ctx context.Context) ([]models.OfficeAvailabilityRank, error) {
	return scanReport[models.OfficeAvailabilityRank](ctx, r.db, "ranked availability by office", rankedAvailabilityByOfficeQuery)
}

func (r *reportRepository) LoansInPeriodByOffice(ctx context.Context, start, end time.Time) ([]models.LoansByOffice, error) {
	return scanReport[models.LoansByOffice](ctx, r.db, "loans in period by office", func() (string, error) {
		return loansInPeriodByOfficeQuery(start, end)
	})
}

func (r *reportRepository) OverdueLoansByOffice(ctx context.Context, now time.Time) ([]models.LoansByOffice, error) {
	return scanReport[models.LoansByOffice](ctx, r.db, "overdue loans by office", func() (string, error) {
		return overdueLoansByOfficeQuery(now)
	})
}

func (r *reportRepository) ClientsByActiveLoans(ctx context.Context) ([]models.ClientLoanRank, error) {
	return scanReport[models.ClientLoanRank](ctx, r.db, "clients by active loans", clientsByActiveLoansQuery)
}

func (r *reportRepository) BooksByLoanCount(ctx context.Context) ([]models.BookLoanRank, error) {
	return scanReport[models.BookLoanRank](ctx, r.db, "books by loan count", booksByLoanCountQuery)
}
