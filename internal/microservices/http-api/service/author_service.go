package service

import (
	"context"

	"libraryhub/internal/docstore"
	"libraryhub/internal/microservices/http-api/dto"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthorService interface {
	Create(ctx context.Context, req dto.AuthorRequest) (*dto.AuthorResponse, error)
	List(ctx context.Context) ([]dto.AuthorResponse, error)
}

type authorService struct {
	docs DocumentStore
}

func NewAuthorService(docs DocumentStore) AuthorService {
	return &authorService{docs: docs}
}

// Create fails with shared.ErrValidationRejected on a duplicate name
func (s *authorService) Create(ctx context.Context, req dto.AuthorRequest) (*dto.AuthorResponse, error) {
	author := docstore.Author{ID: primitive.NewObjectID(), Name: req.Name, Bio: req.Bio}
	if _, err := s.docs.InsertOne(ctx, docstore.AuthorsCollection, author); err != nil {
		return nil, err
	}
	resp := dto.FromAuthorDocument(author)
	return &resp, nil
}

func (s *authorService) List(ctx context.Context) ([]dto.AuthorResponse, error) {
	var authors []docstore.Author
	if err := s.docs.Find(ctx, docstore.AuthorsCollection, bson.D{}, nil, &authors); err != nil {
		return nil, err
	}
	out := make([]dto.AuthorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, dto.FromAuthorDocument(a))
	}
	return out, nil
}
