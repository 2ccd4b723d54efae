package service

import (
	"context"
	"log/slog"

	"libraryhub/internal/cache"
	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

type OfficeService interface {
	Create(ctx context.Context, req dto.OfficeCreateRequest) (*models.Office, error)
	Get(ctx context.Context, id int64) (*models.Office, error)
	List(ctx context.Context) ([]models.Office, error)
	Update(ctx context.Context, id int64, req dto.OfficeUpdateRequest) (*models.Office, error)
	Delete(ctx context.Context, id int64) error
}

type officeService struct {
	repo    repository.OfficeRepository
	reports *cache.ReportCache
	logger  *slog.Logger
}

func NewOfficeService(repo repository.OfficeRepository, reports *cache.ReportCache, logger *slog.Logger) OfficeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &officeService{repo: repo, reports: reports, logger: logger}
}

func (s *officeService) Create(ctx context.Context, req dto.OfficeCreateRequest) (*models.Office, error) {
	office := &models.Office{
		Name:        req.Name,
		Address:     req.Address,
		WorkingTime: req.WorkingTime,
	}
	if err := s.repo.Create(ctx, office); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return office, nil
}

func (s *officeService) Get(ctx context.Context, id int64) (*models.Office, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *officeService) List(ctx context.Context) ([]models.Office, error) {
	return s.repo.List(ctx)
}

func (s *officeService) Update(ctx context.Context, id int64, req dto.OfficeUpdateRequest) (*models.Office, error) {
	office, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		office.Name = *req.Name
	}
	if req.Address != nil {
		office.Address = *req.Address
	}
	if req.WorkingTime != nil {
		office.WorkingTime = *req.WorkingTime
	}
	if err := s.repo.Update(ctx, office); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return office, nil
}

// Delete fails with shared.ErrConflict while copies still reference the office
func (s *officeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *officeService) invalidate(ctx context.Context) {
	if err := s.reports.InvalidateReports(ctx); err != nil {
		s.logger.Warn("report_cache_invalidate_failed", "error", err)
	}
}
