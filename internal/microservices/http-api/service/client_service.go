package service

import (
	"context"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/shared"
)

type ClientService interface {
	Register(ctx context.Context, req dto.ClientRegisterRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id int64) (*dto.ClientResponse, error)
	List(ctx context.Context) ([]dto.ClientResponse, error)
	Update(ctx context.Context, id int64, req dto.ClientUpdateRequest) (*dto.ClientResponse, error)
	Delete(ctx context.Context, id int64) error
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

// Register stores only the bcrypt hash of the password
func (s *clientService) Register(ctx context.Context, req dto.ClientRegisterRequest) (*dto.ClientResponse, error) {
	hash, err := shared.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	client := &models.Client{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		City:         req.City,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	resp := dto.FromClient(*client)
	return &resp, nil
}

func (s *clientService) Get(ctx context.Context, id int64) (*dto.ClientResponse, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromClient(*client)
	return &resp, nil
}

func (s *clientService) List(ctx context.Context) ([]dto.ClientResponse, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, dto.FromClient(c))
	}
	return out, nil
}

func (s *clientService) Update(ctx context.Context, id int64, req dto.ClientUpdateRequest) (*dto.ClientResponse, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.City != nil {
		client.City = *req.City
	}
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	resp := dto.FromClient(*client)
	return &resp, nil
}

func (s *clientService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
