package docstore

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SeedSize controls how many documents Seed generates
type SeedSize struct {
	Authors int
	Books   int
	Links   int
}

var DefaultSeedSize = SeedSize{Authors: 80, Books: 400, Links: 600}

// SeedSet is one generated data set, ready to insert
type SeedSet struct {
	Authors []Author
	Books   []Book
	Links   []BookAuthor
}

// GenerateSeed builds a data set of the given size. Link pairs are distinct so the
// unique bookId+authorId index can be created after seeding.
func GenerateSeed(size SeedSize, rng *rand.Rand) (SeedSet, error) {
	if pairs := size.Authors * size.Books; size.Links > pairs {
		return SeedSet{}, fmt.Errorf("cannot draw %d distinct links from %d pairs", size.Links, pairs)
	}

	set := SeedSet{
		Authors: make([]Author, size.Authors),
		Books:   make([]Book, size.Books),
		Links:   make([]BookAuthor, 0, size.Links),
	}
	for i := range set.Authors {
		set.Authors[i] = Author{
			ID:   primitive.NewObjectID(),
			Name: fmt.Sprintf("Author %d", i+1),
			Bio:  fmt.Sprintf("Bio %d", i+1),
		}
	}
	for i := range set.Books {
		tags := []string{"classic", "science"}
		rng.Shuffle(len(tags), func(a, b int) { tags[a], tags[b] = tags[b], tags[a] })
		set.Books[i] = Book{
			ID:          primitive.NewObjectID(),
			Title:       fmt.Sprintf("Book %d", i+1),
			IsbnNumber:  fmt.Sprintf("ISBN-978-%d", i+1),
			Year:        int32(1980 + rng.IntN(45)),
			Description: fmt.Sprintf("Description for book %d", i+1),
			Tags:        tags,
		}
	}

	type pair struct{ book, author int }
	seen := make(map[pair]bool, size.Links)
	for len(set.Links) < size.Links {
		p := pair{rng.IntN(size.Books), rng.IntN(size.Authors)}
		if seen[p] {
			continue
		}
		seen[p] = true
		set.Links = append(set.Links, BookAuthor{
			BookID:   set.Books[p.book].ID,
			AuthorID: set.Authors[p.author].ID,
			Role:     RoleAuthor,
		})
	}
	return set, nil
}

// Seed inserts set into the authors, books and book_authors collections
func (s *Store) Seed(ctx context.Context, set SeedSet) error {
	if _, err := s.InsertMany(ctx, AuthorsCollection, toAny(set.Authors)); err != nil {
		return fmt.Errorf("seed authors: %w", err)
	}
	if _, err := s.InsertMany(ctx, BooksCollection, toAny(set.Books)); err != nil {
		return fmt.Errorf("seed books: %w", err)
	}
	if _, err := s.InsertMany(ctx, BookAuthorsCollection, toAny(set.Links)); err != nil {
		return fmt.Errorf("seed book authors: %w", err)
	}
	return nil
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}
