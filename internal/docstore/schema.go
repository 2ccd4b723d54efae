package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Indexes returns the index set of every document collection, keyed by collection
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		BooksCollection: {
			{Keys: bson.D{{Key: "isbnNumber", Value: 1}}, Options: options.Index().SetUnique(true).SetName("ux_isbn")},
			{Keys: bson.D{{Key: "title", Value: "text"}}, Options: options.Index().SetName("tx_title")},
			{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("ix_tags")},
			{Keys: bson.D{{Key: "tags", Value: 1}, {Key: "year", Value: 1}}, Options: options.Index().SetName("ix_tags_year")},
			{
				Keys: bson.D{{Key: "year", Value: 1}},
				Options: options.Index().SetName("ix_year_recent").
					SetPartialFilterExpression(bson.D{{Key: "year", Value: bson.D{{Key: "$gt", Value: 2020}}}}),
			},
		},
		AuthorsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetName("ux_author_name")},
		},
		BookAuthorsCollection: {
			{Keys: bson.D{{Key: "bookId", Value: 1}, {Key: "authorId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("ux_book_author")},
			{Keys: bson.D{{Key: "bookId", Value: 1}}, Options: options.Index().SetName("ix_book")},
			{Keys: bson.D{{Key: "authorId", Value: 1}}, Options: options.Index().SetName("ix_author")},
		},
	}
}

// EnsureIndexes creates every index from Indexes; existing ones are left alone
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for coll, models := range Indexes() {
		if _, err := s.coll(coll).Indexes().CreateMany(ctx, models); err != nil {
			return mapError("create indexes "+coll, err)
		}
	}
	return nil
}

// BooksValidator is the $jsonSchema enforced on the books collection
func BooksValidator() bson.D {
	return bson.D{{Key: "$jsonSchema", Value: bson.D{
		{Key: "bsonType", Value: "object"},
		{Key: "required", Value: bson.A{"title", "isbnNumber", "year"}},
		{Key: "properties", Value: bson.D{
			{Key: "title", Value: bson.D{{Key: "bsonType", Value: "string"}, {Key: "minLength", Value: 1}}},
			{Key: "isbnNumber", Value: bson.D{{Key: "bsonType", Value: "string"}, {Key: "minLength", Value: 5}}},
			{Key: "year", Value: bson.D{{Key: "bsonType", Value: "int"}, {Key: "minimum", Value: 1500}, {Key: "maximum", Value: 2025}}},
			{Key: "tags", Value: bson.D{
				{Key: "bsonType", Value: "array"},
				{Key: "maxItems", Value: 20},
				{Key: "items", Value: bson.D{{Key: "bsonType", Value: "string"}}},
			}},
		}},
	}}}
}

// ApplyBooksValidation attaches BooksValidator to the books collection.
// Existing documents are not re-checked (moderate); violating writes fail.
func (s *Store) ApplyBooksValidation(ctx context.Context) error {
	cmd := bson.D{
		{Key: "collMod", Value: BooksCollection},
		{Key: "validator", Value: BooksValidator()},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := s.RunCommand(ctx, cmd, nil); err != nil {
		return fmt.Errorf("apply books validation: %w", err)
	}
	return nil
}

// EnsureCollections creates the collections the validator and transactions
// need to exist up front; already-existing collections are skipped
func (s *Store) EnsureCollections(ctx context.Context) error {
	existing, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return mapError("list collections", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}
	for _, name := range []string{BooksCollection, AuthorsCollection, BookAuthorsCollection, BookCopiesCollection, OfficesCollection} {
		if have[name] {
			continue
		}
		if err := s.db.CreateCollection(ctx, name); err != nil {
			return mapError("create collection "+name, err)
		}
	}
	return nil
}
