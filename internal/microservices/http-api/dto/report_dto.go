package dto

import "libraryhub/internal/docstore"

// AuthorsRatingAndGenres: both facets of one pipeline run
type AuthorsRatingAndGenres struct {
	AuthorsRating      []docstore.Record `json:"authorsRating"`
	GenresDistribution []docstore.Record `json:"genresDistribution"`
}
