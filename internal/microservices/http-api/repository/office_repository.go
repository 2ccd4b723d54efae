package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/shared"

	"gorm.io/gorm"
)

type OfficeRepository interface {
	Create(ctx context.Context, office *models.Office) error
	FindByID(ctx context.Context, id int64) (*models.Office, error)
	List(ctx context.Context) ([]models.Office, error)
	Update(ctx context.Context, office *models.Office) error
	Delete(ctx context.Context, id int64) error
}

type officeRepository struct {
	db *gorm.DB
}

func NewOfficeRepository(db *gorm.DB) OfficeRepository {
	return &officeRepository{db: db}
}

func (r *officeRepository) Create(ctx context.Context, office *models.Office) error {
	if err := r.db.WithContext(ctx).Create(office).Error; err != nil {
		return mapError("create office", err)
	}
	return nil
}

func (r *officeRepository) FindByID(ctx context.Context, id int64) (*models.Office, error) {
	var office models.Office
	if err := r.db.WithContext(ctx).First(&office, id).Error; err != nil {
		return nil, mapError("find office", err)
	}
	return &office, nil
}

func (r *officeRepository) List(ctx context.Context) ([]models.Office, error) {
	var offices []models.Office
	if err := r.db.WithContext(ctx).Order("id").Find(&offices).Error; err != nil {
		return nil, mapError("list offices", err)
	}
	return offices, nil
}

func (r *officeRepository) Update(ctx context.Context, office *models.Office) error {
	if err := r.db.WithContext(ctx).Save(office).Error; err != nil {
		return mapError("update office", err)
	}
	return nil
}

func (r *officeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Office{}, id)
	if result.Error != nil {
		return mapError("delete office", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete office %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
