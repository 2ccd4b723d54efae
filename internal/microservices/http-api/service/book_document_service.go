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
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/shared"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	oldBooksBefore    = 1990
	defaultEditionLen = 300
)

// BookDocumentService works on book documents directly, addressed by their
// document ids. Every book document it creates also gets a link row.
type BookDocumentService interface {
	Search(ctx context.Context, q docstore.BookSearch) ([]docstore.Record, error)
	InsertMany(ctx context.Context, reqs []dto.BookRequest) ([]dto.BookResponse, error)
	UpdateAdvanced(ctx context.Context, docID string) (docstore.Record, error)
	UpdateEditionPages(ctx context.Context, docID string, year, pages int32) (docstore.Record, error)
	AddTagToOldBooks(ctx context.Context) (int64, error)
	Replace(ctx context.Context, docID string) (docstore.Record, error)
	UpsertByIsbn(ctx context.Context, isbn string) (docstore.Record, error)
	DeleteBefore(ctx context.Context, year int32) (int64, error)
	BulkDemo(ctx context.Context) (docstore.BulkResult, error)
	TransactionDemo(ctx context.Context) (*dto.TransactionDemoResponse, error)
}

type bookDocumentService struct {
	docs    DocumentStore
	bridge  bridge.IdentityBridge
	links   repository.BookLinkRepository
	reports *cache.ReportCache
	logger  *slog.Logger
}

func NewBookDocumentService(docs DocumentStore, identity bridge.IdentityBridge, links repository.BookLinkRepository, reports *cache.ReportCache, logger *slog.Logger) BookDocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookDocumentService{docs: docs, bridge: identity, links: links, reports: reports, logger: logger}
}

func (s *bookDocumentService) Search(ctx context.Context, q docstore.BookSearch) ([]docstore.Record, error) {
	var found []bson.D
	if err := s.docs.Find(ctx, docstore.BooksCollection, q.Filter(), docstore.SearchProjection(), &found); err != nil {
		return nil, err
	}
	return docstore.Records(found), nil
}

// InsertMany seeds views and a single edition per book and links every document
func (s *bookDocumentService) InsertMany(ctx context.Context, reqs []dto.BookRequest) ([]dto.BookResponse, error) {
	books := make([]docstore.Book, 0, len(reqs))
	docs := make([]any, 0, len(reqs))
	for _, req := range reqs {
		b := req.Document()
		b.ID = primitive.NewObjectID()
		b.Editions = []docstore.Edition{{Year: b.Year, Pages: defaultEditionLen}}
		books = append(books, b)
		docs = append(docs, b)
	}
	if _, err := s.docs.InsertMany(ctx, docstore.BooksCollection, docs); err != nil {
		return nil, err
	}

	out := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		linkID, err := s.bridge.CreateLink(ctx, b.ID)
		if err != nil {
			s.logger.Error("book_link_failed", "document_id", b.ID.Hex(), "error", err)
			return nil, fmt.Errorf("link book %s: %w: %w", b.ID.Hex(), shared.ErrIdentityInconsistency, err)
		}
		out = append(out, dto.FromBookDocument(linkID, b))
	}
	s.invalidateReports(ctx)
	return out, nil
}

// UpdateAdvanced combines $set, $inc and $addToSet in one update
func (s *bookDocumentService) UpdateAdvanced(ctx context.Context, docID string) (docstore.Record, error) {
	oid, err := parseDocumentID(docID)
	if err != nil {
		return nil, err
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "description", Value: "Updated description"}}},
		{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}},
		{Key: "$addToSet", Value: bson.D{{Key: "tags", Value: "updated"}}},
	}
	if _, err := s.docs.UpdateOne(ctx, docstore.BooksCollection, byID(oid), update); err != nil {
		return nil, err
	}
	return s.read(ctx, byID(oid))
}

// UpdateEditionPages sets pages on every edition of the given year
func (s *bookDocumentService) UpdateEditionPages(ctx context.Context, docID string, year, pages int32) (docstore.Record, error) {
	oid, err := parseDocumentID(docID)
	if err != nil {
		return nil, err
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "editions.$[e].pages", Value: pages}}}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []any{bson.D{{Key: "e.year", Value: year}}},
	})
	if _, err := s.docs.UpdateOne(ctx, docstore.BooksCollection, byID(oid), update, opts); err != nil {
		return nil, err
	}
	return s.read(ctx, byID(oid))
}

func (s *bookDocumentService) AddTagToOldBooks(ctx context.Context) (int64, error) {
	res, err := s.docs.UpdateMany(ctx, docstore.BooksCollection,
		bson.D{{Key: "year", Value: bson.D{{Key: "$lt", Value: oldBooksBefore}}}},
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "tags", Value: "old"}}}},
	)
	if err != nil {
		return 0, err
	}
	return res.Modified, nil
}

// Replace swaps the whole document for a fixed one; the _id and link survive
func (s *bookDocumentService) Replace(ctx context.Context, docID string) (docstore.Record, error) {
	oid, err := parseDocumentID(docID)
	if err != nil {
		return nil, err
	}
	replacement := bson.D{
		{Key: "_id", Value: oid},
		{Key: "title", Value: "Replaced book"},
		{Key: "genre", Value: "replaced"},
		{Key: "year", Value: int32(2024)},
		{Key: "tags", Value: bson.A{"replace"}},
		{Key: "isbnNumber", Value: "REPLACED-" + oid.Hex()},
		{Key: "views", Value: int32(0)},
	}
	res, err := s.docs.ReplaceOne(ctx, docstore.BooksCollection, byID(oid), replacement, false)
	if err != nil {
		return nil, err
	}
	if res.Matched == 0 {
		return nil, fmt.Errorf("replace book %s: %w", docID, shared.ErrNotFound)
	}
	return docstore.Record(replacement), nil
}

// UpsertByIsbn links the document when the upsert inserted it
func (s *bookDocumentService) UpsertByIsbn(ctx context.Context, isbn string) (docstore.Record, error) {
	filter := bson.D{{Key: "isbnNumber", Value: isbn}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: "Upserted book"},
		{Key: "year", Value: int32(2024)},
	}}}
	res, err := s.docs.UpdateOne(ctx, docstore.BooksCollection, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	if oid, ok := res.Upserted.(primitive.ObjectID); ok {
		if _, err := s.bridge.CreateLink(ctx, oid); err != nil {
			return nil, fmt.Errorf("link upserted book %s: %w: %w", oid.Hex(), shared.ErrIdentityInconsistency, err)
		}
		s.invalidateReports(ctx)
	}
	return s.read(ctx, filter)
}

// DeleteBefore removes books published before year together with their link
// rows. Books that still own copies are kept.
func (s *bookDocumentService) DeleteBefore(ctx context.Context, year int32) (int64, error) {
	var old []documentRef
	filter := bson.D{{Key: "year", Value: bson.D{{Key: "$lt", Value: year}}}}
	if err := s.docs.Find(ctx, docstore.BooksCollection, filter, idProjection(), &old); err != nil {
		return 0, err
	}
	if len(old) == 0 {
		return 0, nil
	}
	ids := make([]primitive.ObjectID, 0, len(old))
	for _, d := range old {
		ids = append(ids, d.ID)
	}
	linkIDs, err := s.bridge.ResolveLinkIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	deletable := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if linkID, ok := linkIDs[id]; ok {
			n, err := s.links.CountCopies(ctx, linkID)
			if err != nil {
				return 0, err
			}
			if n > 0 {
				continue
			}
		}
		deletable = append(deletable, id)
	}
	if len(deletable) == 0 {
		return 0, nil
	}

	inIDs := bson.D{{Key: "$in", Value: deletable}}
	deleted, err := s.docs.DeleteMany(ctx, docstore.BooksCollection, bson.D{{Key: "_id", Value: inIDs}})
	if err != nil {
		return 0, err
	}
	defer s.invalidateReports(ctx)
	if _, err := s.docs.DeleteMany(ctx, docstore.BookAuthorsCollection, bson.D{{Key: "bookId", Value: inIDs}}); err != nil {
		return deleted, err
	}
	for _, id := range deletable {
		linkID, ok := linkIDs[id]
		if !ok {
			continue
		}
		if err := s.bridge.DeleteLink(ctx, linkID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return deleted, err
		}
	}
	return deleted, nil
}

// BulkDemo runs one ordered batch mixing every write model kind. Documents it
// inserts are linked afterwards.
func (s *bookDocumentService) BulkDemo(ctx context.Context) (docstore.BulkResult, error) {
	insertedID := primitive.NewObjectID()
	models := []mongo.WriteModel{
		mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "isbnNumber", Value: "ISBN-978-1"}}).
			SetUpdate(bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}}),
		mongo.NewUpdateManyModel().
			SetFilter(bson.D{{Key: "year", Value: bson.D{{Key: "$lt", Value: oldBooksBefore}}}}).
			SetUpdate(bson.D{{Key: "$addToSet", Value: bson.D{{Key: "tags", Value: "bulk-old"}}}}),
		mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "isbnNumber", Value: "BULK-REPLACE"}}).
			SetReplacement(bson.D{
				{Key: "isbnNumber", Value: "BULK-REPLACE"},
				{Key: "title", Value: "Bulk Replaced"},
				{Key: "year", Value: int32(2024)},
			}).
			SetUpsert(true),
		mongo.NewDeleteOneModel().SetFilter(bson.D{{Key: "isbnNumber", Value: "BULK-DELETE"}}),
		mongo.NewInsertOneModel().SetDocument(bson.D{
			{Key: "_id", Value: insertedID},
			{Key: "isbnNumber", Value: "BULK-INSERT-" + uuid.NewString()},
			{Key: "title", Value: "Bulk Insert"},
			{Key: "year", Value: int32(2024)},
		}),
	}

	res, err := s.docs.BulkWrite(ctx, docstore.BooksCollection, models)
	if err != nil {
		return docstore.BulkResult{}, err
	}

	if res.Inserted > 0 {
		s.ensureLink(ctx, insertedID)
	}
	if res.Upserted > 0 {
		var replaced documentRef
		err := s.docs.FindOne(ctx, docstore.BooksCollection, bson.D{{Key: "isbnNumber", Value: "BULK-REPLACE"}}, idProjection(), &replaced)
		if err == nil {
			s.ensureLink(ctx, replaced.ID)
		}
	}
	s.invalidateReports(ctx)
	return res, nil
}

// TransactionDemo inserts an author, a book and their link in one document
// transaction. The book is linked relationally only after the commit.
func (s *bookDocumentService) TransactionDemo(ctx context.Context) (*dto.TransactionDemoResponse, error) {
	author := docstore.Author{ID: primitive.NewObjectID(), Name: "Tx Author " + uuid.NewString()[:8], Bio: "created in tx"}
	book := docstore.Book{
		ID:         primitive.NewObjectID(),
		Title:      "Tx Book",
		Genre:      "tx",
		Year:       2024,
		Tags:       []string{"tx"},
		IsbnNumber: "TX-" + uuid.NewString(),
	}

	err := s.docs.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.docs.InsertOne(txCtx, docstore.AuthorsCollection, author); err != nil {
			return err
		}
		if _, err := s.docs.InsertOne(txCtx, docstore.BooksCollection, book); err != nil {
			return err
		}
		link := docstore.BookAuthor{BookID: book.ID, AuthorID: author.ID, Role: docstore.RoleAuthor}
		_, err := s.docs.InsertOne(txCtx, docstore.BookAuthorsCollection, link)
		return err
	})
	if err != nil {
		s.logger.Warn("document_transaction_aborted", "error", err)
		return nil, err
	}

	if _, err := s.bridge.CreateLink(ctx, book.ID); err != nil {
		return nil, fmt.Errorf("link book %s: %w: %w", book.ID.Hex(), shared.ErrIdentityInconsistency, err)
	}
	s.invalidateReports(ctx)
	return &dto.TransactionDemoResponse{
		BookID:   book.ID.Hex(),
		AuthorID: author.ID.Hex(),
		Status:   "committed",
	}, nil
}

func (s *bookDocumentService) read(ctx context.Context, filter bson.D) (docstore.Record, error) {
	var doc bson.D
	if err := s.docs.FindOne(ctx, docstore.BooksCollection, filter, nil, &doc); err != nil {
		return nil, err
	}
	return docstore.Record(doc), nil
}

func (s *bookDocumentService) ensureLink(ctx context.Context, id primitive.ObjectID) {
	if _, err := s.bridge.ResolveLinkID(ctx, id); err == nil {
		return
	}
	if _, err := s.bridge.CreateLink(ctx, id); err != nil {
		s.logger.Error("book_link_failed", "document_id", id.Hex(), "error", err)
	}
}

func (s *bookDocumentService) invalidateReports(ctx context.Context) {
	if err := s.reports.InvalidateReports(ctx); err != nil {
		s.logger.Warn("report_cache_invalidate_failed", "error", err)
	}
}
