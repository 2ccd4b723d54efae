package repository

import (
	"context"
	"database/sql"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OperationRepository covers the loan lifecycle tables. Use Transaction to run
// several calls atomically; the repository passed to fn is bound to the transaction.
type OperationRepository interface {
	Transaction(ctx context.Context, fn func(repo OperationRepository) error) error

	LockCopy(ctx context.Context, id int64) (*models.BookCopy, error)
	SetCopyStatus(ctx context.Context, id int64, status models.CopyStatus) error
	FindClient(ctx context.Context, id int64) (*models.Client, error)

	CreateLoan(ctx context.Context, loan *models.Loan) error
	FindLoan(ctx context.Context, id int64) (*models.Loan, error)
	UpdateLoan(ctx context.Context, loan *models.Loan) error
	DeleteLoan(ctx context.Context, id int64) error

	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	FindReservation(ctx context.Context, id int64) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error

	CreateReturn(ctx context.Context, ret *models.Return) error
	FindReturn(ctx context.Context, id int64) (*models.Return, error)
	DeleteReturn(ctx context.Context, id int64) error

	CreateFine(ctx context.Context, fine *models.Fine) error
	FindFine(ctx context.Context, id int64) (*models.Fine, error)
	UpdateFineStatus(ctx context.Context, id int64, status models.FineStatus) error
	DeleteFine(ctx context.Context, id int64) error
}

type operationRepository struct {
	db *gorm.DB
}

func NewOperationRepository(db *gorm.DB) OperationRepository {
	return &operationRepository{db: db}
}

// Transaction runs fn at REPEATABLE READ. Any error returned by fn rolls back
// every statement issued through the repository it received.
func (r *operationRepository) Transaction(ctx context.Context, fn func(repo OperationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&operationRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
}

// LockCopy reads the copy with FOR UPDATE so status changes in the same
// transaction are not lost to a concurrent writer
func (r *operationRepository) LockCopy(ctx context.Context, id int64) (*models.BookCopy, error) {
	var bookCopy models.BookCopy
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&bookCopy, id).Error; err != nil {
		return nil, mapError("find book copy", err)
	}
	return &bookCopy, nil
}

func (r *operationRepository) SetCopyStatus(ctx context.Context, id int64, status models.CopyStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.BookCopy{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return mapError("set copy status", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("set copy status %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *operationRepository) FindClient(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, mapError("find client", err)
	}
	return &client, nil
}

func (r *operationRepository) CreateLoan(ctx context.Context, loan *models.Loan) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(loan).Error; err != nil {
		return mapError("create loan", err)
	}
	return nil
}

// FindLoan fills Returned from the existence of a returns row
func (r *operationRepository) FindLoan(ctx context.Context, id int64) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("loans.*, EXISTS (SELECT 1 FROM returns r WHERE r.loan_id = loans.id) AS returned").
		Where("loans.id = ?", id).
		Take(&loan).Error; err != nil {
		return nil, mapError("find loan", err)
	}
	return &loan, nil
}

func (r *operationRepository) UpdateLoan(ctx context.Context, loan *models.Loan) error {
	err := r.db.WithContext(ctx).
		Model(&models.Loan{ID: loan.ID}).
		Updates(map[string]any{
			"status":    loan.Status,
			"starts_at": loan.StartDate,
			"ends_at":   loan.EndDate,
		}).Error
	if err != nil {
		return mapError("update loan", err)
	}
	return nil
}

func (r *operationRepository) DeleteLoan(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "loan", &models.Loan{}, id)
}

func (r *operationRepository) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return mapError("create reservation", err)
	}
	return nil
}

func (r *operationRepository) FindReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, id).Error; err != nil {
		return nil, mapError("find reservation", err)
	}
	return &reservation, nil
}

func (r *operationRepository) DeleteReservation(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "reservation", &models.Reservation{}, id)
}

func (r *operationRepository) CreateReturn(ctx context.Context, ret *models.Return) error {
	if err := r.db.WithContext(ctx).Create(ret).Error; err != nil {
		return mapError("create return", err)
	}
	return nil
}

func (r *operationRepository) FindReturn(ctx context.Context, id int64) (*models.Return, error) {
	var ret models.Return
	if err := r.db.WithContext(ctx).First(&ret, id).Error; err != nil {
		return nil, mapError("find return", err)
	}
	return &ret, nil
}

func (r *operationRepository) DeleteReturn(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "return", &models.Return{}, id)
}

func (r *operationRepository) CreateFine(ctx context.Context, fine *models.Fine) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(fine).Error; err != nil {
		return mapError("create fine", err)
	}
	return nil
}

func (r *operationRepository) FindFine(ctx context.Context, id int64) (*models.Fine, error) {
	var fine models.Fine
	if err := r.db.WithContext(ctx).First(&fine, id).Error; err != nil {
		return nil, mapError("find fine", err)
	}
	return &fine, nil
}

func (r *operationRepository) UpdateFineStatus(ctx context.Context, id int64, status models.FineStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Fine{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return mapError("update fine status", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update fine %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *operationRepository) DeleteFine(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "fine", &models.Fine{}, id)
}

func (r *operationRepository) deleteByID(ctx context.Context, kind string, model any, id int64) error {
	result := r.db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		return mapError("delete "+kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %s %d: %w", kind, id, shared.ErrNotFound)
	}
	return nil
}
