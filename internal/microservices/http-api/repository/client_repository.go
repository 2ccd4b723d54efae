package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/shared"

	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id int64) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id int64) error
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return mapError("create client", err)
	}
	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, mapError("find client", err)
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.WithContext(ctx).Order("id").Find(&clients).Error; err != nil {
		return nil, mapError("list clients", err)
	}
	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	if err := r.db.WithContext(ctx).Save(client).Error; err != nil {
		return mapError("update client", err)
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Client{}, id)
	if result.Error != nil {
		return mapError("delete client", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete client %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
