package service

import (
	"context"
	"sort"
	"testing"

	"libraryhub/internal/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type authorBookPair struct {
	author string
	genre  string
}

// facetReply builds the single document the $facet stage returns for pairs
func facetReply(pairs []authorBookPair) bson.D {
	perAuthor := map[string]int32{}
	perGenre := map[string]int32{}
	for _, p := range pairs {
		perAuthor[p.author]++
		genre := p.genre
		if genre == "" {
			genre = docstore.UnknownGenre
		}
		perGenre[genre]++
	}

	rating := bson.A{}
	for name, n := range perAuthor {
		rating = append(rating, bson.D{{Key: "name", Value: name}, {Key: "booksCount", Value: n}})
	}
	genres := make([]string, 0, len(perGenre))
	for g := range perGenre {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	distribution := bson.A{}
	for _, g := range genres {
		distribution = append(distribution, bson.D{{Key: "genre", Value: g}, {Key: "count", Value: perGenre[g]}})
	}
	return bson.D{
		{Key: "authorsRating", Value: rating},
		{Key: "genresDistribution", Value: distribution},
	}
}

func countOf(t *testing.T, r docstore.Record, key string) int {
	t.Helper()
	v, ok := r.Get(key)
	require.True(t, ok, "missing %s", key)
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	default:
		t.Fatalf("%s has type %T", key, v)
		return 0
	}
}

func TestReportService_AuthorsRatingAndGenres_Store(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("genre counts cover every pair", func(mt *mtest.T) {
		pairs := []authorBookPair{
			{"Asimov", "sci-fi"},
			{"Asimov", "sci-fi"},
			{"Asimov", "mystery"},
			{"Le Guin", "sci-fi"},
			{"Le Guin", "fantasy"},
			{"Banks", ""},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "library.authors", mtest.FirstBatch, facetReply(pairs)))
		svc := NewReportService(nil, docstore.New(mt.DB), nil, nil, nil)

		got, err := svc.AuthorsRatingAndGenres(context.Background())

		require.NoError(t, err)
		require.Len(t, got.GenresDistribution, 4)
		total := 0
		for _, r := range got.GenresDistribution {
			total += countOf(t, r, "count")
		}
		assert.Equal(t, len(pairs), total)

		books := 0
		for _, r := range got.AuthorsRating {
			books += countOf(t, r, "booksCount")
		}
		assert.Equal(t, len(pairs), books)

		first, _ := got.GenresDistribution[0].Get("genre")
		assert.Equal(t, "fantasy", first)
	})

	mt.Run("no authors yields empty facets", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "library.authors", mtest.FirstBatch, facetReply(nil)))
		svc := NewReportService(nil, docstore.New(mt.DB), nil, nil, nil)

		got, err := svc.AuthorsRatingAndGenres(context.Background())

		require.NoError(t, err)
		assert.Empty(t, got.AuthorsRating)
		assert.Empty(t, got.GenresDistribution)
	})
}
