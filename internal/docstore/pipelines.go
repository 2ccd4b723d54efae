package docstore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthorsRatingLimit caps the authorsRating facet
const AuthorsRatingLimit = 10

// UnknownGenre groups books without a genre in the genre distribution
const UnknownGenre = "unknown"

func lookup(from, localField, foreignField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}}
}

func unwind(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: path}}
}

// authorBookPairs expands every author into one document per linked book:
// authors -> book_authors -> books
func authorBookPairs() []bson.D {
	return []bson.D{
		lookup(BookAuthorsCollection, "_id", "authorId", "links"),
		unwind("$links"),
		lookup(BooksCollection, "links.bookId", "_id", "books"),
		unwind("$books"),
	}
}

func groupBooksPerAuthor() bson.D {
	return bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$_id"},
		{Key: "name", Value: bson.D{{Key: "$first", Value: "$name"}}},
		{Key: "booksCount", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}}
}

func sortByBooksCount() bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{
		{Key: "booksCount", Value: -1},
		{Key: "name", Value: 1},
	}}}
}

func projectAuthorRating() bson.D {
	return bson.D{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 0},
		{Key: "authorId", Value: "$_id"},
		{Key: "name", Value: 1},
		{Key: "booksCount", Value: 1},
	}}}
}

// BookWithAuthorsPipeline runs on books and folds the linked authors of one
// book into an authors array. An unknown id yields no output document.
func BookWithAuthorsPipeline(bookID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: bookID}}}},
		lookup(BookAuthorsCollection, "_id", "bookId", "links"),
		unwind("$links"),
		lookup(AuthorsCollection, "links.authorId", "_id", "author"),
		unwind("$author"),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id"},
			{Key: "title", Value: bson.D{{Key: "$first", Value: "$title"}}},
			{Key: "isbnNumber", Value: bson.D{{Key: "$first", Value: "$isbnNumber"}}},
			{Key: "year", Value: bson.D{{Key: "$first", Value: "$year"}}},
			{Key: "genre", Value: bson.D{{Key: "$first", Value: "$genre"}}},
			{Key: "description", Value: bson.D{{Key: "$first", Value: "$description"}}},
			{Key: "tags", Value: bson.D{{Key: "$first", Value: "$tags"}}},
			{Key: "authors", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "_id", Value: "$author._id"},
				{Key: "name", Value: "$author.name"},
				{Key: "bio", Value: "$author.bio"},
				{Key: "role", Value: "$links.role"},
			}}}},
		}}},
	}
}

// TopAuthorsPipeline runs on authors and ranks them by linked book count
func TopAuthorsPipeline(limit int) mongo.Pipeline {
	p := mongo.Pipeline(authorBookPairs())
	p = append(p,
		groupBooksPerAuthor(),
		sortByBooksCount(),
		bson.D{{Key: "$limit", Value: limit}},
		projectAuthorRating(),
	)
	return p
}

// AuthorsRatingAndGenresPipeline runs on authors and produces, from a single
// traversal of the (author, book) pairs, one document with two arrays:
// authorsRating (top authors) and genresDistribution (pairs per genre).
func AuthorsRatingAndGenresPipeline() mongo.Pipeline {
	p := mongo.Pipeline(authorBookPairs())
	p = append(p, bson.D{{Key: "$facet", Value: bson.D{
		{Key: "authorsRating", Value: bson.A{
			groupBooksPerAuthor(),
			sortByBooksCount(),
			bson.D{{Key: "$limit", Value: AuthorsRatingLimit}},
			projectAuthorRating(),
		}},
		{Key: "genresDistribution", Value: bson.A{
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$books.genre", UnknownGenre}}}},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
			bson.D{{Key: "$project", Value: bson.D{
				{Key: "_id", Value: 0},
				{Key: "genre", Value: "$_id"},
				{Key: "count", Value: 1},
			}}},
		}},
	}}})
	return p
}

// AvailabilityByOfficePipeline runs on book_copies documents
func AvailabilityByOfficePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: "AVAILABLE"}}}},
		lookup(OfficesCollection, "officeId", "_id", "office"),
		unwind("$office"),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$office._id"},
			{Key: "officeName", Value: bson.D{{Key: "$first", Value: "$office.name"}}},
			{Key: "availableCopies", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "availableCopies", Value: -1}, {Key: "officeName", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "officeId", Value: "$_id"},
			{Key: "officeName", Value: 1},
			{Key: "availableCopies", Value: 1},
		}}},
	}
}

// MaterializeTopAuthorsPipeline runs on authors and merges every author's
// rating into the cache collection keyed by author id, stamped with stamp.
// Entries carrying an older stamp are stale and removed after the merge.
func MaterializeTopAuthorsPipeline(stamp time.Time) mongo.Pipeline {
	p := mongo.Pipeline(authorBookPairs())
	p = append(p,
		groupBooksPerAuthor(),
		sortByBooksCount(),
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: "$_id"},
			{Key: "authorId", Value: "$_id"},
			{Key: "name", Value: 1},
			{Key: "booksCount", Value: 1},
			{Key: "materializedAt", Value: bson.D{{Key: "$literal", Value: primitive.NewDateTimeFromTime(stamp)}}},
		}}},
		bson.D{{Key: "$merge", Value: bson.D{
			{Key: "into", Value: TopAuthorsCacheCollection},
			{Key: "on", Value: "_id"},
			{Key: "whenMatched", Value: "replace"},
			{Key: "whenNotMatched", Value: "insert"},
		}}},
	)
	return p
}

// StaleCacheFilter matches cache entries written by runs older than stamp.
// Entries of a concurrent newer run are left alone.
func StaleCacheFilter(stamp time.Time) bson.D {
	return bson.D{{Key: "materializedAt", Value: bson.D{{Key: "$lt", Value: primitive.NewDateTimeFromTime(stamp)}}}}
}
