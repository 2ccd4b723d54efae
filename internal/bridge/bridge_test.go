package bridge

import (
	"context"
	"fmt"
	"testing"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

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

func TestIdentityBridge_RoundTrip(t *testing.T) {
	repo := new(MockBookLinkRepository)
	b := NewIdentityBridge(repo)
	ctx := context.Background()
	doc := primitive.NewObjectID()

	repo.On("Create", ctx, doc.Hex()).Return(&models.BookLink{ID: 7, MongoID: doc.Hex()}, nil)
	repo.On("FindByID", ctx, int64(7)).Return(&models.BookLink{ID: 7, MongoID: doc.Hex()}, nil)

	linkID, err := b.CreateLink(ctx, doc)
	require.NoError(t, err)

	resolved, err := b.ResolveDocumentID(ctx, linkID)
	require.NoError(t, err)
	assert.Equal(t, doc, resolved)
	repo.AssertExpectations(t)
}

func TestIdentityBridge_CreateLinkRejectsEmptyID(t *testing.T) {
	repo := new(MockBookLinkRepository)
	b := NewIdentityBridge(repo)

	_, err := b.CreateLink(context.Background(), primitive.NilObjectID)

	assert.ErrorIs(t, err, shared.ErrIdentityInconsistency)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIdentityBridge_ResolveDocumentID(t *testing.T) {
	ctx := context.Background()

	t.Run("missing link is not found", func(t *testing.T) {
		repo := new(MockBookLinkRepository)
		repo.On("FindByID", ctx, int64(99)).Return(nil, fmt.Errorf("find book link: %w", shared.ErrNotFound))

		_, err := NewIdentityBridge(repo).ResolveDocumentID(ctx, 99)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("malformed stored id is an inconsistency", func(t *testing.T) {
		repo := new(MockBookLinkRepository)
		repo.On("FindByID", ctx, int64(3)).Return(&models.BookLink{ID: 3, MongoID: "not-hex"}, nil)

		_, err := NewIdentityBridge(repo).ResolveDocumentID(ctx, 3)

		assert.ErrorIs(t, err, shared.ErrIdentityInconsistency)
	})
}

func TestIdentityBridge_ResolveLinkID(t *testing.T) {
	ctx := context.Background()
	doc := primitive.NewObjectID()

	t.Run("found", func(t *testing.T) {
		repo := new(MockBookLinkRepository)
		repo.On("FindByMongoID", ctx, doc.Hex()).Return(&models.BookLink{ID: 12, MongoID: doc.Hex()}, nil)

		id, err := NewIdentityBridge(repo).ResolveLinkID(ctx, doc)

		require.NoError(t, err)
		assert.Equal(t, int64(12), id)
	})

	t.Run("unlinked document is an inconsistency", func(t *testing.T) {
		repo := new(MockBookLinkRepository)
		repo.On("FindByMongoID", ctx, doc.Hex()).Return(nil, fmt.Errorf("find: %w", shared.ErrNotFound))

		_, err := NewIdentityBridge(repo).ResolveLinkID(ctx, doc)

		assert.ErrorIs(t, err, shared.ErrIdentityInconsistency)
	})
}

func TestIdentityBridge_ResolveLinkIDs(t *testing.T) {
	ctx := context.Background()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	repo := new(MockBookLinkRepository)
	repo.On("FindByMongoIDs", ctx, []string{a.Hex(), b.Hex()}).
		Return([]models.BookLink{{ID: 1, MongoID: a.Hex()}}, nil)

	ids, err := NewIdentityBridge(repo).ResolveLinkIDs(ctx, []primitive.ObjectID{a, b})

	require.NoError(t, err)
	assert.Equal(t, map[primitive.ObjectID]int64{a: 1}, ids)
}
