package model

import "math"

// Movie is the central catalog entity.  Every movie references exactly one
// genre and one director; list and detail payloads embed both objects.
//
// Rating is stored as integer tenths (0–100) to keep exactly one decimal
// place and avoid float drift, the same way prices are kept in cents.  The
// JSON payload exposes the derived one-decimal float.
type Movie struct {
	ID           uint64    `json:"id"`                    // movies.id
	Title        string    `json:"title"`                 // movies.title (indexed)
	Description  *string   `json:"description,omitempty"` // movies.description
	ReleaseYear  int       `json:"releaseYear"`           // movies.release_year (indexed)
	Duration     *int      `json:"duration,omitempty"`    // movies.duration (minutes)
	RatingTenths *int64    `json:"-"`                     // movies.rating_tenths
	Rating       *float64  `json:"rating,omitempty"`      // derived: RatingTenths / 10
	PosterURL    *string   `json:"posterUrl,omitempty"`   // movies.poster_url
	Synopsis     *string   `json:"synopsis,omitempty"`    // movies.synopsis
	GenreID      uint64    `json:"-"`                     // movies.genre_id
	DirectorID   uint64    `json:"-"`                     // movies.director_id
	Genre        *Genre    `json:"genre,omitempty"`       // embedded genre
	Director     *Director `json:"director,omitempty"`    // embedded director
	CreatedAt    string    `json:"createdAt"`             // movies.created_at
	UpdatedAt    string    `json:"updatedAt"`             // movies.updated_at
}

// ComputeRating refreshes the derived Rating field from RatingTenths.
// Repositories call this after every scan.
func (m *Movie) ComputeRating() {
	if m.RatingTenths == nil {
		m.Rating = nil
		return
	}
	r := float64(*m.RatingTenths) / 10.0
	m.Rating = &r
}

// RatingToTenths converts an input rating to its fixed-point representation,
// rounding half away from zero to one decimal place.  The second return is
// false when the rounded value falls outside [0.0, 10.0].
func RatingToTenths(rating float64) (int64, bool) {
	tenths := int64(math.Round(rating * 10))
	if tenths < 0 || tenths > 100 {
		return 0, false
	}
	return tenths, true
}
