package docstore

import "go.mongodb.org/mongo-driver/bson/primitive"

// collection names
const (
	BooksCollection           = "books"
	AuthorsCollection         = "authors"
	BookAuthorsCollection     = "book_authors"
	BookCopiesCollection      = "book_copies"
	OfficesCollection         = "offices"
	TopAuthorsCacheCollection = "top_authors_cache"
)

// Book is the document-store side of a book. Its relational identity lives in
// the book_link table and is only reachable through the identity bridge.
type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Genre       string             `bson:"genre,omitempty"`
	Year        int32              `bson:"year"`
	Description string             `bson:"description,omitempty"`
	Tags        []string           `bson:"tags"`
	IsbnNumber  string             `bson:"isbnNumber"`
	Views       int32              `bson:"views"`
	Editions    []Edition          `bson:"editions,omitempty"`
}

type Edition struct {
	Year  int32 `bson:"year"`
	Pages int32 `bson:"pages"`
}

type Author struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	Bio  string             `bson:"bio,omitempty"`
}

// BookAuthor is the many-to-many link between books and authors
type BookAuthor struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	BookID   primitive.ObjectID `bson:"bookId"`
	AuthorID primitive.ObjectID `bson:"authorId"`
	Role     string             `bson:"role"`
}

const RoleAuthor = "author"

// TopAuthor is one materialized entry of the top authors cache collection
type TopAuthor struct {
	AuthorID       primitive.ObjectID `bson:"authorId" json:"authorId"`
	Name           string             `bson:"name" json:"name"`
	BooksCount     int64              `bson:"booksCount" json:"booksCount"`
	MaterializedAt primitive.DateTime `bson:"materializedAt" json:"materializedAt"`
}
