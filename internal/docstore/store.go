package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateResult mirrors the driver result without leaking driver types
type UpdateResult struct {
	Matched  int64
	Modified int64
	Upserted any
}

// BulkResult holds per-kind counts of an ordered bulk write
type BulkResult struct {
	Inserted int64 `json:"inserted"`
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
	Deleted  int64 `json:"deleted"`
	Upserted int64 `json:"upserted"`
}

// Store is the document store adapter. Every operation names its collection.
type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// InsertOne returns the identity reported by the driver, which may be nil
func (s *Store) InsertOne(ctx context.Context, coll string, doc any) (any, error) {
	res, err := s.coll(coll).InsertOne(ctx, doc)
	if err != nil {
		return nil, mapError("insert "+coll, err)
	}
	return res.InsertedID, nil
}

func (s *Store) InsertMany(ctx context.Context, coll string, docs []any) ([]any, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	res, err := s.coll(coll).InsertMany(ctx, docs)
	if err != nil {
		return nil, mapError("insert many "+coll, err)
	}
	return res.InsertedIDs, nil
}

// Find decodes all matching documents into out (a pointer to a slice).
// A nil projection returns whole documents.
func (s *Store) Find(ctx context.Context, coll string, filter, projection, out any) error {
	if filter == nil {
		filter = bson.D{}
	}
	opts := options.Find()
	if projection != nil {
		opts.SetProjection(projection)
	}
	cursor, err := s.coll(coll).Find(ctx, filter, opts)
	if err != nil {
		return mapError("find "+coll, err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return mapError("decode "+coll, err)
	}
	return nil
}

// FindOne decodes the first match into out; no match is shared.ErrNotFound
func (s *Store) FindOne(ctx context.Context, coll string, filter, projection, out any) error {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}
	err := s.coll(coll).FindOne(ctx, filter, opts).Decode(out)
	return mapError("find one "+coll, err)
}

func (s *Store) UpdateOne(ctx context.Context, coll string, filter, update any, opts ...*options.UpdateOptions) (UpdateResult, error) {
	res, err := s.coll(coll).UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return UpdateResult{}, mapError("update "+coll, err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount, Upserted: res.UpsertedID}, nil
}

func (s *Store) UpdateMany(ctx context.Context, coll string, filter, update any, opts ...*options.UpdateOptions) (UpdateResult, error) {
	res, err := s.coll(coll).UpdateMany(ctx, filter, update, opts...)
	if err != nil {
		return UpdateResult{}, mapError("update many "+coll, err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount, Upserted: res.UpsertedID}, nil
}

func (s *Store) ReplaceOne(ctx context.Context, coll string, filter, replacement any, upsert bool) (UpdateResult, error) {
	res, err := s.coll(coll).ReplaceOne(ctx, filter, replacement, options.Replace().SetUpsert(upsert))
	if err != nil {
		return UpdateResult{}, mapError("replace "+coll, err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount, Upserted: res.UpsertedID}, nil
}

func (s *Store) DeleteOne(ctx context.Context, coll string, filter any) (int64, error) {
	res, err := s.coll(coll).DeleteOne(ctx, filter)
	if err != nil {
		return 0, mapError("delete "+coll, err)
	}
	return res.DeletedCount, nil
}

func (s *Store) DeleteMany(ctx context.Context, coll string, filter any) (int64, error) {
	res, err := s.coll(coll).DeleteMany(ctx, filter)
	if err != nil {
		return 0, mapError("delete many "+coll, err)
	}
	return res.DeletedCount, nil
}

// BulkWrite executes a heterogeneous ordered batch
func (s *Store) BulkWrite(ctx context.Context, coll string, models []mongo.WriteModel) (BulkResult, error) {
	if len(models) == 0 {
		return BulkResult{}, nil
	}
	res, err := s.coll(coll).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return BulkResult{}, mapError("bulk write "+coll, err)
	}
	return BulkResult{
		Inserted: res.InsertedCount,
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Deleted:  res.DeletedCount,
		Upserted: res.UpsertedCount,
	}, nil
}

// Aggregate runs pipeline against coll and decodes every output document into out
func (s *Store) Aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, out any) error {
	cursor, err := s.coll(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return mapError("aggregate "+coll, err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return mapError("decode aggregate "+coll, err)
	}
	return nil
}

// RunCommand executes a database command and decodes the reply into out (may be nil)
func (s *Store) RunCommand(ctx context.Context, cmd bson.D, out any) error {
	res := s.db.RunCommand(ctx, cmd)
	if out == nil {
		return mapError("command", res.Err())
	}
	return mapError("command", res.Decode(out))
}

func (s *Store) Drop(ctx context.Context, coll string) error {
	return mapError("drop "+coll, s.coll(coll).Drop(ctx))
}

// ExplainFind reports the winning plan stage and the wall time of explaining filter on coll
func (s *Store) ExplainFind(ctx context.Context, coll string, filter any) (string, time.Duration, error) {
	var reply struct {
		QueryPlanner struct {
			WinningPlan bson.M `bson:"winningPlan"`
		} `bson:"queryPlanner"`
	}
	start := time.Now()
	err := s.RunCommand(ctx, bson.D{
		{Key: "explain", Value: bson.D{{Key: "find", Value: coll}, {Key: "filter", Value: filter}}},
		{Key: "verbosity", Value: "queryPlanner"},
	}, &reply)
	elapsed := time.Since(start)
	if err != nil {
		return "", elapsed, err
	}
	stage, _ := reply.QueryPlanner.WinningPlan["stage"].(string)
	if stage == "" {
		return "", elapsed, fmt.Errorf("explain %s: no winning plan stage", coll)
	}
	return stage, elapsed, nil
}
