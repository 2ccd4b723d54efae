package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/shared"

	"gorm.io/gorm"
)

type BookCopyRepository interface {
	Create(ctx context.Context, bookCopy *models.BookCopy) error
	FindByID(ctx context.Context, id int64) (*models.BookCopy, error)
	ListByBook(ctx context.Context, bookLinkID int64) ([]models.BookCopy, error)
	Update(ctx context.Context, bookCopy *models.BookCopy) error
	Delete(ctx context.Context, id int64) error
}

type bookCopyRepository struct {
	db *gorm.DB
}

func NewBookCopyRepository(db *gorm.DB) BookCopyRepository {
	return &bookCopyRepository{db: db}
}

func (r *bookCopyRepository) Create(ctx context.Context, bookCopy *models.BookCopy) error {
	if err := r.db.WithContext(ctx).Omit("BookLink", "Office").Create(bookCopy).Error; err != nil {
		return mapError("create book copy", err)
	}
	return nil
}

func (r *bookCopyRepository) FindByID(ctx context.Context, id int64) (*models.BookCopy, error) {
	var bookCopy models.BookCopy
	if err := r.db.WithContext(ctx).First(&bookCopy, id).Error; err != nil {
		return nil, mapError("find book copy", err)
	}
	return &bookCopy, nil
}

func (r *bookCopyRepository) ListByBook(ctx context.Context, bookLinkID int64) ([]models.BookCopy, error) {
	var copies []models.BookCopy
	if err := r.db.WithContext(ctx).
		Where("book_link_id = ?", bookLinkID).
		Order("id").
		Find(&copies).Error; err != nil {
		return nil, mapError("list book copies", err)
	}
	return copies, nil
}

// Update writes only office and status; the owning book never changes
func (r *bookCopyRepository) Update(ctx context.Context, bookCopy *models.BookCopy) error {
	err := r.db.WithContext(ctx).
		Model(&models.BookCopy{ID: bookCopy.ID}).
		Select("office_id", "status").
		Updates(map[string]any{"office_id": bookCopy.OfficeID, "status": bookCopy.Status}).Error
	if err != nil {
		return mapError("update book copy", err)
	}
	return nil
}

func (r *bookCopyRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.BookCopy{}, id)
	if result.Error != nil {
		return mapError("delete book copy", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete book copy %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
