package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"libraryhub/internal/bridge"
	"libraryhub/internal/cache"
	"libraryhub/internal/docstore"
	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookService interface {
	Create(ctx context.Context, req dto.BookRequest) (*dto.BookResponse, error)
	Get(ctx context.Context, id int64) (*dto.BookResponse, error)
	List(ctx context.Context) ([]dto.BookResponse, error)
	Update(ctx context.Context, id int64, req dto.BookRequest) (*dto.BookResponse, error)
	Delete(ctx context.Context, id int64) error

	CreateCopy(ctx context.Context, bookID int64, req dto.BookCopyCreateRequest) (*models.BookCopy, error)
	GetCopy(ctx context.Context, copyID int64) (*models.BookCopy, error)
	ListCopies(ctx context.Context, bookID int64) ([]models.BookCopy, error)
	UpdateCopy(ctx context.Context, copyID int64, req dto.BookCopyUpdateRequest) (*models.BookCopy, error)
	DeleteCopy(ctx context.Context, copyID int64) error

	LinkAuthor(ctx context.Context, bookDocID, authorDocID string) error
}

type bookService struct {
	docs    DocumentStore
	bridge  bridge.IdentityBridge
	links   repository.BookLinkRepository
	copies  repository.BookCopyRepository
	offices repository.OfficeRepository
	topAuth TopAuthorsMaterializer
	reports *cache.ReportCache
	logger  *slog.Logger
}

func NewBookService(
	docs DocumentStore,
	identity bridge.IdentityBridge,
	links repository.BookLinkRepository,
	copies repository.BookCopyRepository,
	offices repository.OfficeRepository,
	topAuthors TopAuthorsMaterializer,
	reports *cache.ReportCache,
	logger *slog.Logger,
) BookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookService{
		docs:    docs,
		bridge:  identity,
		links:   links,
		copies:  copies,
		offices: offices,
		topAuth: topAuthors,
		reports: reports,
		logger:  logger,
	}
}

// documentRef decodes only the _id of a document
type documentRef struct {
	ID primitive.ObjectID `bson:"_id"`
}

func byID(id primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func idProjection() bson.D {
	return bson.D{{Key: "_id", Value: 1}}
}

// parseDocumentID turns a path parameter into an ObjectID
func parseDocumentID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("document id %q: %w", hex, shared.ErrNotFound)
	}
	return oid, nil
}

// Create inserts the book document and then its link row. The two writes are
// not atomic: when the link insert fails the document stays behind as an orphan
// and the call reports shared.ErrIdentityInconsistency.
func (s *bookService) Create(ctx context.Context, req dto.BookRequest) (*dto.BookResponse, error) {
	doc := req.Document()
	inserted, err := s.docs.InsertOne(ctx, docstore.BooksCollection, doc)
	if err != nil {
		return nil, err
	}

	docID, err := s.insertedBookID(ctx, inserted, doc.IsbnNumber)
	if err != nil {
		return nil, err
	}
	doc.ID = docID

	linkID, err := s.bridge.CreateLink(ctx, docID)
	if err != nil {
		s.logger.Error("book_link_failed", "document_id", docID.Hex(), "error", err)
		return nil, fmt.Errorf("link book %s: %w: %w", docID.Hex(), shared.ErrIdentityInconsistency, err)
	}

	s.invalidateReports(ctx)
	s.logger.Info("book_created", "book_id", linkID, "document_id", docID.Hex())
	resp := dto.FromBookDocument(linkID, doc)
	return &resp, nil
}

// insertedBookID falls back to reading the identity back by isbn when the
// insert did not report an ObjectID
func (s *bookService) insertedBookID(ctx context.Context, inserted any, isbn string) (primitive.ObjectID, error) {
	if oid, ok := inserted.(primitive.ObjectID); ok && !oid.IsZero() {
		return oid, nil
	}
	var stored documentRef
	err := s.docs.FindOne(ctx, docstore.BooksCollection, bson.D{{Key: "isbnNumber", Value: isbn}}, idProjection(), &stored)
	if err != nil || stored.ID.IsZero() {
		return primitive.NilObjectID, fmt.Errorf("read back book %s: %w", isbn, shared.ErrIdentityInconsistency)
	}
	return stored.ID, nil
}

// Get fails with shared.ErrNotFound when the link row is missing and with
// shared.ErrIdentityInconsistency when the link points at no document
func (s *bookService) Get(ctx context.Context, id int64) (*dto.BookResponse, error) {
	docID, err := s.bridge.ResolveDocumentID(ctx, id)
	if err != nil {
		return nil, err
	}
	book, err := s.findBook(ctx, id, docID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromBookDocument(id, *book)
	return &resp, nil
}

func (s *bookService) findBook(ctx context.Context, linkID int64, docID primitive.ObjectID) (*docstore.Book, error) {
	var book docstore.Book
	if err := s.docs.FindOne(ctx, docstore.BooksCollection, byID(docID), nil, &book); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("book %d links missing document %s: %w", linkID, docID.Hex(), shared.ErrIdentityInconsistency)
		}
		return nil, err
	}
	return &book, nil
}

// List returns every linked book; documents without a link row are skipped
func (s *bookService) List(ctx context.Context) ([]dto.BookResponse, error) {
	var books []docstore.Book
	if err := s.docs.Find(ctx, docstore.BooksCollection, bson.D{}, nil, &books); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	linkIDs, err := s.bridge.ResolveLinkIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		linkID, ok := linkIDs[b.ID]
		if !ok {
			s.logger.Warn("book_document_unlinked", "document_id", b.ID.Hex())
			continue
		}
		out = append(out, dto.FromBookDocument(linkID, b))
	}
	return out, nil
}

func (s *bookService) Update(ctx context.Context, id int64, req dto.BookRequest) (*dto.BookResponse, error) {
	docID, err := s.bridge.ResolveDocumentID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := req.Document()
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: doc.Title},
		{Key: "genre", Value: doc.Genre},
		{Key: "year", Value: doc.Year},
		{Key: "description", Value: doc.Description},
		{Key: "tags", Value: doc.Tags},
		{Key: "isbnNumber", Value: doc.IsbnNumber},
	}}}
	res, err := s.docs.UpdateOne(ctx, docstore.BooksCollection, byID(docID), update)
	if err != nil {
		return nil, err
	}
	if res.Matched == 0 {
		return nil, fmt.Errorf("book %d links missing document %s: %w", id, docID.Hex(), shared.ErrIdentityInconsistency)
	}
	return s.Get(ctx, id)
}

// Delete refuses books that still own copies, then removes the document, its
// author links and finally the link row
func (s *bookService) Delete(ctx context.Context, id int64) error {
	docID, err := s.bridge.ResolveDocumentID(ctx, id)
	if err != nil {
		return err
	}
	copies, err := s.links.CountCopies(ctx, id)
	if err != nil {
		return err
	}
	if copies > 0 {
		return fmt.Errorf("book %d has %d copies: %w", id, copies, shared.ErrConflict)
	}

	if _, err := s.docs.DeleteOne(ctx, docstore.BooksCollection, byID(docID)); err != nil {
		return err
	}
	if _, err := s.docs.DeleteMany(ctx, docstore.BookAuthorsCollection, bson.D{{Key: "bookId", Value: docID}}); err != nil {
		return err
	}
	if err := s.bridge.DeleteLink(ctx, id); err != nil {
		return err
	}

	s.invalidateReports(ctx)
	s.rebuildTopAuthors(ctx)
	s.logger.Info("book_deleted", "book_id", id, "document_id", docID.Hex())
	return nil
}

func (s *bookService) CreateCopy(ctx context.Context, bookID int64, req dto.BookCopyCreateRequest) (*models.BookCopy, error) {
	if _, err := s.links.FindByID(ctx, bookID); err != nil {
		return nil, err
	}
	if _, err := s.offices.FindByID(ctx, req.OfficeID); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = models.CopyAvailable
	}
	if !models.IsValidCopyStatus(status) {
		return nil, fmt.Errorf("copy status %q: %w", status, shared.ErrValidationRejected)
	}

	bookCopy := &models.BookCopy{BookLinkID: bookID, OfficeID: req.OfficeID, Status: status}
	if err := s.copies.Create(ctx, bookCopy); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return bookCopy, nil
}

func (s *bookService) GetCopy(ctx context.Context, copyID int64) (*models.BookCopy, error) {
	return s.copies.FindByID(ctx, copyID)
}

func (s *bookService) ListCopies(ctx context.Context, bookID int64) ([]models.BookCopy, error) {
	if _, err := s.links.FindByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.copies.ListByBook(ctx, bookID)
}

// UpdateCopy applies only the fields present in req
func (s *bookService) UpdateCopy(ctx context.Context, copyID int64, req dto.BookCopyUpdateRequest) (*models.BookCopy, error) {
	bookCopy, err := s.copies.FindByID(ctx, copyID)
	if err != nil {
		return nil, err
	}
	if req.OfficeID != nil {
		if _, err := s.offices.FindByID(ctx, *req.OfficeID); err != nil {
			return nil, err
		}
		bookCopy.OfficeID = *req.OfficeID
	}
	if req.Status != nil {
		if !models.IsValidCopyStatus(*req.Status) {
			return nil, fmt.Errorf("copy status %q: %w", *req.Status, shared.ErrValidationRejected)
		}
		bookCopy.Status = *req.Status
	}
	if err := s.copies.Update(ctx, bookCopy); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return bookCopy, nil
}

func (s *bookService) DeleteCopy(ctx context.Context, copyID int64) error {
	if err := s.copies.Delete(ctx, copyID); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// LinkAuthor links two existing documents and rebuilds the top authors cache
func (s *bookService) LinkAuthor(ctx context.Context, bookDocID, authorDocID string) error {
	bookOID, err := parseDocumentID(bookDocID)
	if err != nil {
		return err
	}
	authorOID, err := parseDocumentID(authorDocID)
	if err != nil {
		return err
	}

	var found bson.D
	if err := s.docs.FindOne(ctx, docstore.BooksCollection, byID(bookOID), idProjection(), &found); err != nil {
		return err
	}
	if err := s.docs.FindOne(ctx, docstore.AuthorsCollection, byID(authorOID), idProjection(), &found); err != nil {
		return err
	}

	link := docstore.BookAuthor{BookID: bookOID, AuthorID: authorOID, Role: docstore.RoleAuthor}
	if _, err := s.docs.InsertOne(ctx, docstore.BookAuthorsCollection, link); err != nil {
		return err
	}
	s.rebuildTopAuthors(ctx)
	s.invalidateReports(ctx)
	return nil
}

// rebuildTopAuthors refreshes the cache collection; a failed rebuild leaves the
// previous materialization readable and does not fail the write that caused it
func (s *bookService) rebuildTopAuthors(ctx context.Context) {
	if s.topAuth == nil {
		return
	}
	if err := s.topAuth.MaterializeTopAuthors(ctx); err != nil {
		s.logger.Warn("cache_materialize_failed", "error", err)
	}
}

func (s *bookService) invalidateReports(ctx context.Context) {
	if err := s.reports.InvalidateReports(ctx); err != nil {
		s.logger.Warn("report_cache_invalidate_failed", "error", err)
	}
}
