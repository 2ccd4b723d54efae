package dto

import (
	"libraryhub/internal/docstore"
	"libraryhub/internal/microservices/http-api/models"
)

// BookRequest: payload to create or update a book
type BookRequest struct {
	Title       string   `json:"title" binding:"required"`
	Genre       string   `json:"genre"`
	Year        int32    `json:"year" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	IsbnNumber  string   `json:"isbn_number" binding:"required"`
}

// BookResponse: a book addressed by its relational id
type BookResponse struct {
	ID          int64    `json:"id"`
	DocumentID  string   `json:"document_id"`
	Title       string   `json:"title"`
	Genre       string   `json:"genre,omitempty"`
	Year        int32    `json:"year"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	IsbnNumber  string   `json:"isbn_number"`
}

type BookListResponse struct {
	Items []BookResponse `json:"items"`
	Total int            `json:"total"`
}

// Document returns the document-store shape of the request
func (r BookRequest) Document() docstore.Book {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return docstore.Book{
		Title:       r.Title,
		Genre:       r.Genre,
		Year:        r.Year,
		Description: r.Description,
		Tags:        tags,
		IsbnNumber:  r.IsbnNumber,
	}
}

func FromBookDocument(linkID int64, b docstore.Book) BookResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return BookResponse{
		ID:          linkID,
		DocumentID:  b.ID.Hex(),
		Title:       b.Title,
		Genre:       b.Genre,
		Year:        b.Year,
		Description: b.Description,
		Tags:        tags,
		IsbnNumber:  b.IsbnNumber,
	}
}

// BookCopyCreateRequest: status defaults to AVAILABLE
type BookCopyCreateRequest struct {
	OfficeID int64             `json:"office_id" binding:"required,gt=0"`
	Status   models.CopyStatus `json:"status"`
}

// BookCopyUpdateRequest: absent fields are left unchanged
type BookCopyUpdateRequest struct {
	OfficeID *int64             `json:"office_id" binding:"omitempty,gt=0"`
	Status   *models.CopyStatus `json:"status"`
}

// BookSearchQuery: query string of GET /books/search
type BookSearchQuery struct {
	IncludeTags []string `form:"includeTags"`
	ExcludeTags []string `form:"excludeTags"`
	Genres      []string `form:"genres"`
	YearFrom    *int     `form:"yearFrom"`
	YearTo      *int     `form:"yearTo"`
}

func (q BookSearchQuery) Search() docstore.BookSearch {
	return docstore.BookSearch{
		IncludeTags: q.IncludeTags,
		ExcludeTags: q.ExcludeTags,
		GenresOr:    q.Genres,
		YearFrom:    q.YearFrom,
		YearTo:      q.YearTo,
	}
}

type EditionPagesRequest struct {
	Year  int32 `json:"year" binding:"required"`
	Pages int32 `json:"pages" binding:"required,gt=0"`
}

type AuthorRequest struct {
	Name string `json:"name" binding:"required"`
	Bio  string `json:"bio"`
}

type AuthorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

func FromAuthorDocument(a docstore.Author) AuthorResponse {
	return AuthorResponse{ID: a.ID.Hex(), Name: a.Name, Bio: a.Bio}
}

// CountResponse: number of documents touched by a multi-document write
type CountResponse struct {
	Count int64 `json:"count"`
}

// TransactionDemoResponse: ids written by the cross-collection transaction
type TransactionDemoResponse struct {
	BookID   string `json:"book_id"`
	AuthorID string `json:"author_id"`
	Status   string `json:"status"`
}
