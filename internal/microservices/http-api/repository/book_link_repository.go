package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/shared"

	"gorm.io/gorm"
)

type BookLinkRepository interface {
	Create(ctx context.Context, mongoID string) (*models.BookLink, error)
	FindByID(ctx context.Context, id int64) (*models.BookLink, error)
	FindByMongoID(ctx context.Context, mongoID string) (*models.BookLink, error)
	FindByMongoIDs(ctx context.Context, mongoIDs []string) ([]models.BookLink, error)
	Delete(ctx context.Context, id int64) error
	CountCopies(ctx context.Context, id int64) (int64, error)
}

type bookLinkRepository struct {
	db *gorm.DB
}

func NewBookLinkRepository(db *gorm.DB) BookLinkRepository {
	return &bookLinkRepository{db: db}
}

func (r *bookLinkRepository) Create(ctx context.Context, mongoID string) (*models.BookLink, error) {
	link := &models.BookLink{MongoID: mongoID}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, mapError("create book link", err)
	}
	return link, nil
}

func (r *bookLinkRepository) FindByID(ctx context.Context, id int64) (*models.BookLink, error) {
	var link models.BookLink
	if err := r.db.WithContext(ctx).First(&link, id).Error; err != nil {
		return nil, mapError("find book link", err)
	}
	return &link, nil
}

func (r *bookLinkRepository) FindByMongoID(ctx context.Context, mongoID string) (*models.BookLink, error) {
	var link models.BookLink
	if err := r.db.WithContext(ctx).Where("mongo_id = ?", mongoID).First(&link).Error; err != nil {
		return nil, mapError("find book link by document", err)
	}
	return &link, nil
}

func (r *bookLinkRepository) FindByMongoIDs(ctx context.Context, mongoIDs []string) ([]models.BookLink, error) {
	var links []models.BookLink
	if len(mongoIDs) == 0 {
		return links, nil
	}
	if err := r.db.WithContext(ctx).Where("mongo_id IN ?", mongoIDs).Find(&links).Error; err != nil {
		return nil, mapError("find book links", err)
	}
	return links, nil
}

func (r *bookLinkRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.BookLink{}, id)
	if result.Error != nil {
		return mapError("delete book link", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete book link %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *bookLinkRepository) CountCopies(ctx context.Context, id int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookCopy{}).
		Where("book_link_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, mapError("count book copies", err)
	}
	return count, nil
}
