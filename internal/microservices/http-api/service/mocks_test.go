package service

import (
	"context"
	"time"

	"libraryhub/internal/docstore"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MockDocumentStore: Find, FindOne and Aggregate fill their out argument
// through .Run on the expectation
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) InsertOne(ctx context.Context, coll string, doc any) (any, error) {
	args := m.Called(ctx, coll, doc)
	return args.Get(0), args.Error(1)
}

func (m *MockDocumentStore) InsertMany(ctx context.Context, coll string, docs []any) ([]any, error) {
	args := m.Called(ctx, coll, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]any), args.Error(1)
}

func (m *MockDocumentStore) Find(ctx context.Context, coll string, filter, projection, out any) error {
	args := m.Called(ctx, coll, filter, projection, out)
	return args.Error(0)
}

func (m *MockDocumentStore) FindOne(ctx context.Context, coll string, filter, projection, out any) error {
	args := m.Called(ctx, coll, filter, projection, out)
	return args.Error(0)
}

func (m *MockDocumentStore) UpdateOne(ctx context.Context, coll string, filter, update any, opts ...*options.UpdateOptions) (docstore.UpdateResult, error) {
	args := m.Called(ctx, coll, filter, update, opts)
	return args.Get(0).(docstore.UpdateResult), args.Error(1)
}

func (m *MockDocumentStore) UpdateMany(ctx context.Context, coll string, filter, update any, opts ...*options.UpdateOptions) (docstore.UpdateResult, error) {
	args := m.Called(ctx, coll, filter, update, opts)
	return args.Get(0).(docstore.UpdateResult), args.Error(1)
}

func (m *MockDocumentStore) ReplaceOne(ctx context.Context, coll string, filter, replacement any, upsert bool) (docstore.UpdateResult, error) {
	args := m.Called(ctx, coll, filter, replacement, upsert)
	return args.Get(0).(docstore.UpdateResult), args.Error(1)
}

func (m *MockDocumentStore) DeleteOne(ctx context.Context, coll string, filter any) (int64, error) {
	args := m.Called(ctx, coll, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentStore) DeleteMany(ctx context.Context, coll string, filter any) (int64, error) {
	args := m.Called(ctx, coll, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentStore) BulkWrite(ctx context.Context, coll string, models []mongo.WriteModel) (docstore.BulkResult, error) {
	args := m.Called(ctx, coll, models)
	return args.Get(0).(docstore.BulkResult), args.Error(1)
}

func (m *MockDocumentStore) Aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, out any) error {
	args := m.Called(ctx, coll, pipeline, out)
	return args.Error(0)
}

// WithTransaction runs fn unless the expectation returns an error
func (m *MockDocumentStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

type MockIdentityBridge struct {
	mock.Mock
}

func (m *MockIdentityBridge) CreateLink(ctx context.Context, documentID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdentityBridge) ResolveDocumentID(ctx context.Context, linkID int64) (primitive.ObjectID, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockIdentityBridge) ResolveLinkID(ctx context.Context, documentID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdentityBridge) ResolveLinkIDs(ctx context.Context, documentIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	args := m.Called(ctx, documentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]int64), args.Error(1)
}

func (m *MockIdentityBridge) DeleteLink(ctx context.Context, linkID int64) error {
	args := m.Called(ctx, linkID)
	return args.Error(0)
}

type MockBookLinkRepository struct {
	mock.Mock
}

func (m *MockBookLinkRepository) Create(ctx context.Context, mongoID string) (*models.BookLink, error) {
	args := m.Called(ctx, mongoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookLink), args.Error(1)
}

func (m *MockBookLinkRepository) FindByID(ctx context.Context, id int64) (*models.BookLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookLink), args.Error(1)
}

func (m *MockBookLinkRepository) FindByMongoID(ctx context.Context, mongoID string) (*models.BookLink, error) {
	args := m.Called(ctx, mongoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookLink), args.Error(1)
}

func (m *MockBookLinkRepository) FindByMongoIDs(ctx context.Context, mongoIDs []string) ([]models.BookLink, error) {
	args := m.Called(ctx, mongoIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookLink), args.Error(1)
}

func (m *MockBookLinkRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookLinkRepository) CountCopies(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookCopyRepository struct {
	mock.Mock
}

func (m *MockBookCopyRepository) Create(ctx context.Context, bookCopy *models.BookCopy) error {
	args := m.Called(ctx, bookCopy)
	return args.Error(0)
}

func (m *MockBookCopyRepository) FindByID(ctx context.Context, id int64) (*models.BookCopy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookCopy), args.Error(1)
}

func (m *MockBookCopyRepository) ListByBook(ctx context.Context, bookID int64) ([]models.BookCopy, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookCopy), args.Error(1)
}

func (m *MockBookCopyRepository) Update(ctx context.Context, bookCopy *models.BookCopy) error {
	args := m.Called(ctx, bookCopy)
	return args.Error(0)
}

func (m *MockBookCopyRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOfficeRepository struct {
	mock.Mock
}

func (m *MockOfficeRepository) Create(ctx context.Context, office *models.Office) error {
	args := m.Called(ctx, office)
	return args.Error(0)
}

func (m *MockOfficeRepository) FindByID(ctx context.Context, id int64) (*models.Office, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Office), args.Error(1)
}

func (m *MockOfficeRepository) List(ctx context.Context) ([]models.Office, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Office), args.Error(1)
}

func (m *MockOfficeRepository) Update(ctx context.Context, office *models.Office) error {
	args := m.Called(ctx, office)
	return args.Error(0)
}

func (m *MockOfficeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id int64) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOperationRepository runs Transaction callbacks against itself
type MockOperationRepository struct {
	mock.Mock
}

func (m *MockOperationRepository) Transaction(ctx context.Context, fn func(repo repository.OperationRepository) error) error {
	return fn(m)
}

func (m *MockOperationRepository) LockCopy(ctx context.Context, id int64) (*models.BookCopy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookCopy), args.Error(1)
}

func (m *MockOperationRepository) SetCopyStatus(ctx context.Context, id int64, status models.CopyStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOperationRepository) FindClient(ctx context.Context, id int64) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockOperationRepository) CreateLoan(ctx context.Context, loan *models.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockOperationRepository) FindLoan(ctx context.Context, id int64) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockOperationRepository) UpdateLoan(ctx context.Context, loan *models.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockOperationRepository) DeleteLoan(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOperationRepository) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockOperationRepository) FindReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockOperationRepository) DeleteReservation(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOperationRepository) CreateReturn(ctx context.Context, ret *models.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}

func (m *MockOperationRepository) FindReturn(ctx context.Context, id int64) (*models.Return, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Return), args.Error(1)
}

func (m *MockOperationRepository) DeleteReturn(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOperationRepository) CreateFine(ctx context.Context, fine *models.Fine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}

func (m *MockOperationRepository) FindFine(ctx context.Context, id int64) (*models.Fine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Fine), args.Error(1)
}

func (m *MockOperationRepository) UpdateFineStatus(ctx context.Context, id int64, status models.FineStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOperationRepository) DeleteFine(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) AvailableCopiesByOffice(ctx context.Context) ([]models.AvailableByOffice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailableByOffice), args.Error(1)
}

func (m *MockReportRepository) RankedAvailabilityByOffice(ctx context.Context) ([]models.OfficeAvailabilityRank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OfficeAvailabilityRank), args.Error(1)
}

func (m *MockReportRepository) LoansInPeriodByOffice(ctx context.Context, start, end time.Time) ([]models.LoansByOffice, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LoansByOffice), args.Error(1)
}

func (m *MockReportRepository) OverdueLoansByOffice(ctx context.Context, now time.Time) ([]models.LoansByOffice, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LoansByOffice), args.Error(1)
}

func (m *MockReportRepository) ClientsByActiveLoans(ctx context.Context) ([]models.ClientLoanRank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ClientLoanRank), args.Error(1)
}

func (m *MockReportRepository) BooksByLoanCount(ctx context.Context) ([]models.BookLoanRank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookLoanRank), args.Error(1)
}

type MockTopAuthorsMaterializer struct {
	mock.Mock
}

func (m *MockTopAuthorsMaterializer) MaterializeTopAuthors(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
