package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func intPtr(v int) *int { return &v }

func TestBookSearch_Filter(t *testing.T) {
	t.Run("no criteria gives empty filter", func(t *testing.T) {
		assert.Equal(t, bson.D{}, BookSearch{}.Filter())
	})

	t.Run("single criterion is not wrapped", func(t *testing.T) {
		f := BookSearch{IncludeTags: []string{"classic"}}.Filter()

		require.Len(t, f, 1)
		assert.Equal(t, "tags", f[0].Key)
		assert.Equal(t, bson.D{{Key: "$in", Value: []string{"classic"}}}, f[0].Value)
	})

	t.Run("several criteria combine under and", func(t *testing.T) {
		f := BookSearch{
			IncludeTags: []string{"a"},
			ExcludeTags: []string{"b"},
			YearFrom:    intPtr(1990),
		}.Filter()

		require.Len(t, f, 1)
		assert.Equal(t, "$and", f[0].Key)
		clauses, ok := f[0].Value.(bson.A)
		require.True(t, ok)
		require.Len(t, clauses, 3)
		assert.Equal(t, bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: []string{"a"}}}}}, clauses[0])
		assert.Equal(t, bson.D{{Key: "tags", Value: bson.D{{Key: "$nin", Value: []string{"b"}}}}}, clauses[1])
		assert.Equal(t, bson.D{{Key: "year", Value: bson.D{{Key: "$gte", Value: 1990}}}}, clauses[2])
	})

	t.Run("genres become alternatives", func(t *testing.T) {
		f := BookSearch{GenresOr: []string{"Fantasy", "Drama"}}.Filter()

		require.Len(t, f, 1)
		assert.Equal(t, "$or", f[0].Key)
		assert.Equal(t, bson.A{
			bson.D{{Key: "genre", Value: "Fantasy"}},
			bson.D{{Key: "genre", Value: "Drama"}},
		}, f[0].Value)
	})

	t.Run("year range shares one clause", func(t *testing.T) {
		f := BookSearch{YearFrom: intPtr(1950), YearTo: intPtr(1999)}.Filter()

		assert.Equal(t, bson.D{{Key: "year", Value: bson.D{
			{Key: "$gte", Value: 1950},
			{Key: "$lte", Value: 1999},
		}}}, f)
	})
}
