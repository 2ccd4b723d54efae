package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"libraryhub/internal/bridge"
	"libraryhub/internal/cache"
	"libraryhub/internal/docstore"
	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/shared"

	"go.mongodb.org/mongo-driver/bson"
)

const periodLayout = "2006-01-02"

type ReportService interface {
	AvailableCopiesByOffice(ctx context.Context) ([]models.AvailableByOffice, error)
	RankedAvailabilityByOffice(ctx context.Context) ([]models.OfficeAvailabilityRank, error)
	LoansInPeriodByOffice(ctx context.Context, start, end time.Time) ([]models.LoansByOffice, error)
	OverdueLoansByOffice(ctx context.Context) ([]models.LoansByOffice, error)
	ClientsByActiveLoans(ctx context.Context) ([]models.ClientLoanRank, error)
	BooksByLoanCount(ctx context.Context) ([]models.BookLoanRank, error)

	BookWithAuthors(ctx context.Context, bookID int64) (docstore.Record, error)
	TopAuthors(ctx context.Context, limit int) ([]docstore.Record, error)
	AuthorsRatingAndGenres(ctx context.Context) (*dto.AuthorsRatingAndGenres, error)
	AvailabilityByOfficeDocuments(ctx context.Context) ([]docstore.Record, error)
	CachedTopAuthors(ctx context.Context) ([]docstore.TopAuthor, error)

	TopAuthorsMaterializer
}

type reportService struct {
	reports repository.ReportRepository
	docs    DocumentStore
	bridge  bridge.IdentityBridge
	cache   *cache.ReportCache
	logger  *slog.Logger
	now     func() time.Time
}

func NewReportService(reports repository.ReportRepository, docs DocumentStore, identity bridge.IdentityBridge, reportCache *cache.ReportCache, logger *slog.Logger) ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportService{
		reports: reports,
		docs:    docs,
		bridge:  identity,
		cache:   reportCache,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *reportService) AvailableCopiesByOffice(ctx context.Context) ([]models.AvailableByOffice, error) {
	return cache.Load(ctx, s.cache, cache.ReportKey("available_by_office"), s.reports.AvailableCopiesByOffice)
}

func (s *reportService) RankedAvailabilityByOffice(ctx context.Context) ([]models.OfficeAvailabilityRank, error) {
	return cache.Load(ctx, s.cache, cache.ReportKey("ranked_availability"), s.reports.RankedAvailabilityByOffice)
}

// LoansInPeriodByOffice counts loans starting in [start, end)
func (s *reportService) LoansInPeriodByOffice(ctx context.Context, start, end time.Time) ([]models.LoansByOffice, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("period %s..%s is empty: %w", start.Format(periodLayout), end.Format(periodLayout), shared.ErrValidationRejected)
	}
	key := cache.ReportKey("loans_in_period", start.Format(periodLayout), end.Format(periodLayout))
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) ([]models.LoansByOffice, error) {
		return s.reports.LoansInPeriodByOffice(ctx, start, end)
	})
}

// OverdueLoansByOffice depends on the current time and is never cached
func (s *reportService) OverdueLoansByOffice(ctx context.Context) ([]models.LoansByOffice, error) {
	return s.reports.OverdueLoansByOffice(ctx, s.now())
}

func (s *reportService) ClientsByActiveLoans(ctx context.Context) ([]models.ClientLoanRank, error) {
	return cache.Load(ctx, s.cache, cache.ReportKey("clients_by_active_loans"), s.reports.ClientsByActiveLoans)
}

func (s *reportService) BooksByLoanCount(ctx context.Context) ([]models.BookLoanRank, error) {
	return cache.Load(ctx, s.cache, cache.ReportKey("books_by_loan_count"), s.reports.BooksByLoanCount)
}

// BookWithAuthors returns shared.ErrNotFound when the book has no document or
// no linked author
func (s *reportService) BookWithAuthors(ctx context.Context, bookID int64) (docstore.Record, error) {
	docID, err := s.bridge.ResolveDocumentID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	var out []bson.D
	if err := s.docs.Aggregate(ctx, docstore.BooksCollection, docstore.BookWithAuthorsPipeline(docID), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("book %d with authors: %w", bookID, shared.ErrNotFound)
	}
	return docstore.Record(out[0]), nil
}

func (s *reportService) TopAuthors(ctx context.Context, limit int) ([]docstore.Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("top authors limit %d: %w", limit, shared.ErrValidationRejected)
	}
	key := cache.ReportKey("top_authors", strconv.Itoa(limit))
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) ([]docstore.Record, error) {
		var out []bson.D
		if err := s.docs.Aggregate(ctx, docstore.AuthorsCollection, docstore.TopAuthorsPipeline(limit), &out); err != nil {
			return nil, err
		}
		return docstore.Records(out), nil
	})
}

// AuthorsRatingAndGenres runs both facets in one pipeline
func (s *reportService) AuthorsRatingAndGenres(ctx context.Context) (*dto.AuthorsRatingAndGenres, error) {
	var out []struct {
		AuthorsRating      []bson.D `bson:"authorsRating"`
		GenresDistribution []bson.D `bson:"genresDistribution"`
	}
	if err := s.docs.Aggregate(ctx, docstore.AuthorsCollection, docstore.AuthorsRatingAndGenresPipeline(), &out); err != nil {
		return nil, err
	}
	resp := &dto.AuthorsRatingAndGenres{
		AuthorsRating:      []docstore.Record{},
		GenresDistribution: []docstore.Record{},
	}
	if len(out) > 0 {
		resp.AuthorsRating = docstore.Records(out[0].AuthorsRating)
		resp.GenresDistribution = docstore.Records(out[0].GenresDistribution)
	}
	return resp, nil
}

func (s *reportService) AvailabilityByOfficeDocuments(ctx context.Context) ([]docstore.Record, error) {
	var out []bson.D
	if err := s.docs.Aggregate(ctx, docstore.BookCopiesCollection, docstore.AvailabilityByOfficePipeline(), &out); err != nil {
		return nil, err
	}
	return docstore.Records(out), nil
}

// CachedTopAuthors reads the materialized collection, most books first
func (s *reportService) CachedTopAuthors(ctx context.Context) ([]docstore.TopAuthor, error) {
	var out []docstore.TopAuthor
	if err := s.docs.Find(ctx, docstore.TopAuthorsCacheCollection, bson.D{}, nil, &out); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BooksCount != out[j].BooksCount {
			return out[i].BooksCount > out[j].BooksCount
		}
		return out[i].Name < out[j].Name
	})
	if out == nil {
		out = []docstore.TopAuthor{}
	}
	return out, nil
}

// MaterializeTopAuthors merges a fresh rating into the cache collection and
// then drops entries stamped before this run, so authors that lost their last
// book disappear while a concurrent later run keeps its rows
func (s *reportService) MaterializeTopAuthors(ctx context.Context) error {
	stamp := s.now().UTC().Truncate(time.Millisecond)
	var discard []bson.D
	if err := s.docs.Aggregate(ctx, docstore.AuthorsCollection, docstore.MaterializeTopAuthorsPipeline(stamp), &discard); err != nil {
		return fmt.Errorf("materialize top authors: %w", err)
	}
	stale, err := s.docs.DeleteMany(ctx, docstore.TopAuthorsCacheCollection, docstore.StaleCacheFilter(stamp))
	if err != nil {
		return fmt.Errorf("prune top authors cache: %w", err)
	}
	s.logger.Info("cache_materialized", "collection", docstore.TopAuthorsCacheCollection, "stale_removed", stale)
	return nil
}
