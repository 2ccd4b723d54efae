package docstore

import "go.mongodb.org/mongo-driver/bson"

// BookSearch describes a books query. Zero-valued criteria are ignored.
type BookSearch struct {
	IncludeTags []string
	ExcludeTags []string
	GenresOr    []string
	YearFrom    *int
	YearTo      *int
}

// Filter builds the books filter. Criteria are combined under a top-level $and
// only when there is more than one of them; with none the filter is empty.
func (q BookSearch) Filter() bson.D {
	clauses := make([]bson.D, 0, 4)

	if len(q.IncludeTags) > 0 {
		clauses = append(clauses, bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: q.IncludeTags}}}})
	}
	if len(q.ExcludeTags) > 0 {
		clauses = append(clauses, bson.D{{Key: "tags", Value: bson.D{{Key: "$nin", Value: q.ExcludeTags}}}})
	}
	if len(q.GenresOr) > 0 {
		alternatives := make(bson.A, 0, len(q.GenresOr))
		for _, g := range q.GenresOr {
			alternatives = append(alternatives, bson.D{{Key: "genre", Value: g}})
		}
		clauses = append(clauses, bson.D{{Key: "$or", Value: alternatives}})
	}
	if q.YearFrom != nil || q.YearTo != nil {
		yearCond := bson.D{}
		if q.YearFrom != nil {
			yearCond = append(yearCond, bson.E{Key: "$gte", Value: *q.YearFrom})
		}
		if q.YearTo != nil {
			yearCond = append(yearCond, bson.E{Key: "$lte", Value: *q.YearTo})
		}
		clauses = append(clauses, bson.D{{Key: "year", Value: yearCond}})
	}

	switch len(clauses) {
	case 0:
		return bson.D{}
	case 1:
		return clauses[0]
	}
	all := make(bson.A, 0, len(clauses))
	for _, c := range clauses {
		all = append(all, c)
	}
	return bson.D{{Key: "$and", Value: all}}
}

// SearchProjection limits search results to the listing fields
func SearchProjection() bson.D {
	return bson.D{
		{Key: "title", Value: 1},
		{Key: "year", Value: 1},
		{Key: "genre", Value: 1},
		{Key: "tags", Value: 1},
	}
}
