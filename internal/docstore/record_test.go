package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecord_MarshalJSONKeepsOrder(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	r := Record{
		{Key: "title", Value: "Dune"},
		{Key: "_id", Value: id},
		{Key: "authors", Value: bson.A{bson.D{{Key: "name", Value: "Herbert"}, {Key: "role", Value: "author"}}}},
		{Key: "at", Value: primitive.NewDateTimeFromTime(at)},
	}

	out, err := json.Marshal(r)
	require.NoError(t, err)

	assert.Equal(t,
		`{"title":"Dune","_id":"64b7f0c2a1b2c3d4e5f60718","authors":[{"name":"Herbert","role":"author"}],"at":"2024-03-01T12:00:00Z"}`,
		string(out))
}

func TestRecord_GetAndKeys(t *testing.T) {
	r := Records([]bson.D{{{Key: "a", Value: 1}, {Key: "b", Value: "x"}}})[0]

	v, ok := r.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.Keys())
}
