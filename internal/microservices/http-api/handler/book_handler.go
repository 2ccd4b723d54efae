package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/docstore"
	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"
	"libraryhub/internal/workerpool"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc  service.BookService
	docs service.BookDocumentService
	run  runner
}

func NewBookHandler(svc service.BookService, docs service.BookDocumentService, pool *workerpool.Pool, timeout time.Duration) *BookHandler {
	return &BookHandler{svc: svc, docs: docs, run: newRunner(pool, timeout)}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Books addressed by relational id
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	// Copies
	rg.GET("/:id/copies", h.ListCopies)
	rg.POST("/:id/copies", h.CreateCopy)
	rg.GET("/copies/:copyID", h.GetCopy)
	rg.PATCH("/copies/:copyID", h.UpdateCopy)
	rg.DELETE("/copies/:copyID", h.DeleteCopy)

	// Document operations
	rg.GET("/search", h.Search)
	rg.POST("/batch", h.InsertMany)
	rg.POST("/bulk", h.BulkDemo)
	rg.POST("/tag-old", h.AddTagToOldBooks)
	rg.POST("/transaction-demo", h.TransactionDemo)
	rg.DELETE("/before/:year", h.DeleteBefore)
	rg.PUT("/upsert/:isbn", h.UpsertByIsbn)
	rg.PATCH("/doc/:docId/advanced", h.UpdateAdvanced)
	rg.PATCH("/doc/:docId/editions", h.UpdateEditionPages)
	rg.PUT("/doc/:docId/replace", h.Replace)
	rg.POST("/doc/:docId/authors/:authorId", h.LinkAuthor)
}

func (h *BookHandler) List(c *gin.Context) {
	books, ok := call(c, h.run, h.svc.List)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.BookListResponse{Items: books, Total: len(books)})
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, ok := call(c, h.run, func(ctx context.Context) (*dto.BookResponse, error) {
		return h.svc.Create(ctx, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	book, ok := call(c, h.run, func(ctx context.Context) (*dto.BookResponse, error) {
		return h.svc.Get(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, ok := call(c, h.run, func(ctx context.Context) (*dto.BookResponse, error) {
		return h.svc.Update(ctx, id, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if exec(c, h.run, func(ctx context.Context) error { return h.svc.Delete(ctx, id) }) {
		deleted(c)
	}
}

func (h *BookHandler) ListCopies(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	copies, ok := call(c, h.run, func(ctx context.Context) ([]models.BookCopy, error) {
		return h.svc.ListCopies(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, copies)
}

func (h *BookHandler) CreateCopy(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.BookCopyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bookCopy, ok := call(c, h.run, func(ctx context.Context) (*models.BookCopy, error) {
		return h.svc.CreateCopy(ctx, id, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, bookCopy)
}

func (h *BookHandler) GetCopy(c *gin.Context) {
	id, ok := parseID(c, "copyID")
	if !ok {
		return
	}
	bookCopy, ok := call(c, h.run, func(ctx context.Context) (*models.BookCopy, error) {
		return h.svc.GetCopy(ctx, id)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, bookCopy)
}

func (h *BookHandler) UpdateCopy(c *gin.Context) {
	id, ok := parseID(c, "copyID")
	if !ok {
		return
	}
	var req dto.BookCopyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bookCopy, ok := call(c, h.run, func(ctx context.Context) (*models.BookCopy, error) {
		return h.svc.UpdateCopy(ctx, id, req)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, bookCopy)
}

func (h *BookHandler) DeleteCopy(c *gin.Context) {
	id, ok := parseID(c, "copyID")
	if !ok {
		return
	}
	if exec(c, h.run, func(ctx context.Context) error { return h.svc.DeleteCopy(ctx, id) }) {
		deleted(c)
	}
}

func (h *BookHandler) Search(c *gin.Context) {
	var q dto.BookSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	found, ok := call(c, h.run, func(ctx context.Context) ([]docstore.Record, error) {
		return h.docs.Search(ctx, q.Search())
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *BookHandler) InsertMany(c *gin.Context) {
	var reqs []dto.BookRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty batch"})
		return
	}
	books, ok := call(c, h.run, func(ctx context.Context) ([]dto.BookResponse, error) {
		return h.docs.InsertMany(ctx, reqs)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, books)
}

func (h *BookHandler) BulkDemo(c *gin.Context) {
	res, ok := call(c, h.run, h.docs.BulkDemo)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookHandler) AddTagToOldBooks(c *gin.Context) {
	n, ok := call(c, h.run, h.docs.AddTagToOldBooks)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *BookHandler) TransactionDemo(c *gin.Context) {
	res, ok := call(c, h.run, h.docs.TransactionDemo)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *BookHandler) DeleteBefore(c *gin.Context) {
	year, err := strconv.ParseInt(c.Param("year"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	n, ok := call(c, h.run, func(ctx context.Context) (int64, error) {
		return h.docs.DeleteBefore(ctx, int32(year))
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *BookHandler) UpsertByIsbn(c *gin.Context) {
	isbn := c.Param("isbn")
	doc, ok := call(c, h.run, func(ctx context.Context) (docstore.Record, error) {
		return h.docs.UpsertByIsbn(ctx, isbn)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *BookHandler) UpdateAdvanced(c *gin.Context) {
	docID := c.Param("docId")
	doc, ok := call(c, h.run, func(ctx context.Context) (docstore.Record, error) {
		return h.docs.UpdateAdvanced(ctx, docID)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *BookHandler) UpdateEditionPages(c *gin.Context) {
	docID := c.Param("docId")
	var req dto.EditionPagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, ok := call(c, h.run, func(ctx context.Context) (docstore.Record, error) {
		return h.docs.UpdateEditionPages(ctx, docID, req.Year, req.Pages)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *BookHandler) Replace(c *gin.Context) {
	docID := c.Param("docId")
	doc, ok := call(c, h.run, func(ctx context.Context) (docstore.Record, error) {
		return h.docs.Replace(ctx, docID)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *BookHandler) LinkAuthor(c *gin.Context) {
	bookID, authorID := c.Param("docId"), c.Param("authorId")
	if !exec(c, h.run, func(ctx context.Context) error { return h.svc.LinkAuthor(ctx, bookID, authorID) }) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"book_id": bookID, "author_id": authorID})
}
