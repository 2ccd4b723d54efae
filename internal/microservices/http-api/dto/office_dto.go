package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

type OfficeCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	WorkingTime string `json:"working_time" binding:"required"`
}

// OfficeUpdateRequest: absent fields are left unchanged
type OfficeUpdateRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	WorkingTime *string `json:"working_time"`
}

type ClientRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	City     string `json:"city"`
}

// ClientUpdateRequest: absent fields are left unchanged
type ClientUpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	City  *string `json:"city"`
}

type ClientResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

func FromClient(c models.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		City:      c.City,
		CreatedAt: c.CreatedAt,
	}
}
