package service

import (
	"context"

	"libraryhub/internal/docstore"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentStore is the part of *docstore.Store the services use
type DocumentStore interface {
	InsertOne(ctx context.Context, coll string, doc any) (any, error)
	InsertMany(ctx context.Context, coll string, docs []any) ([]any, error)
	Find(ctx context.Context, coll string, filter, projection, out any) error
	FindOne(ctx context.Context, coll string, filter, projection, out any) error
	UpdateOne(ctx context.Context, coll string, filter, update any, opts ...*options.UpdateOptions) (docstore.UpdateResult, error)
	UpdateMany(ctx context.Context, coll string, filter, update any, opts ...*options.UpdateOptions) (docstore.UpdateResult, error)
	ReplaceOne(ctx context.Context, coll string, filter, replacement any, upsert bool) (docstore.UpdateResult, error)
	DeleteOne(ctx context.Context, coll string, filter any) (int64, error)
	DeleteMany(ctx context.Context, coll string, filter any) (int64, error)
	BulkWrite(ctx context.Context, coll string, models []mongo.WriteModel) (docstore.BulkResult, error)
	Aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, out any) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ DocumentStore = (*docstore.Store)(nil)

// TopAuthorsMaterializer rebuilds the top authors cache collection
type TopAuthorsMaterializer interface {
	MaterializeTopAuthors(ctx context.Context) error
}
