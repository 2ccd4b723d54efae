package docstore

import (
	"bytes"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is an open, ordered document used for pipeline and projection output
// whose shape varies per query. JSON encoding keeps the field order.
type Record bson.D

// Records converts decoded documents into records
func Records(docs []bson.D) []Record {
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, Record(d))
	}
	return out
}

// Get returns the value stored under key
func (r Record) Get(key string) (any, bool) {
	for _, e := range r {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the field names in document order
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, e := range r {
		keys = append(keys, e.Key)
	}
	return keys
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(normalize(e.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// normalize turns driver value types into JSON-friendly ones
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case primitive.Decimal128:
		return t.String()
	case bson.D:
		return Record(t)
	case Record:
		return t
	case bson.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case bson.A:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, normalize(val))
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, normalize(val))
		}
		return out
	}
	return v
}
