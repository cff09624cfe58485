// Package facts resolves classified intents into authoritative text blocks
// backed by the marketplace data store.
package facts

import (
	"context"
	"time"
)

// BlocksPerHour converts the stored per-block rate into an hourly price.
// The marketplace models pricing per 10-minute block, so six blocks make
// one hour.
const BlocksPerHour = 6

// Tutor is the marketplace tutor record as exposed to the chat core.
// PricePerHour and RatePerUnit are both optional; when only RatePerUnit is
// set the hourly price is derived via BlocksPerHour.
type Tutor struct {
	Name         string
	Subjects     []string
	PricePerHour *float64
	RatePerUnit  *float64
	Rating       *string
	ReviewsCount int
	Availability string
	Bio          string
	Education    string
}

// Ratings is the review summary for one tutor.
type Ratings struct {
	Rating       *string
	ReviewsCount int
	LastReviewAt *time.Time
}

// Pricing is the platform-wide price summary.
type Pricing struct {
	MinPrice   float64
	MaxPrice   float64
	AvgPrice   float64
	TutorCount int
}

// Store is the structured-fact lookup collaborator. Absent entities are
// (nil, nil) or ("", nil), never errors; errors mean the lookup itself
// failed.
type Store interface {
	// TutorByName finds a tutor by case-insensitive exact name match.
	TutorByName(ctx context.Context, name string) (*Tutor, error)
	// TutorsBySubject lists tutors whose specialty list matches subject
	// (case-insensitive, substring-tolerant). limit <= 0 means no limit.
	TutorsBySubject(ctx context.Context, subject string, limit int) ([]Tutor, error)
	// AllTutors lists registered tutors. limit <= 0 means no limit.
	AllTutors(ctx context.Context, limit int) ([]Tutor, error)
	// TutorRatings returns the review summary for a tutor.
	TutorRatings(ctx context.Context, name string) (*Ratings, error)
	// PricingSummary aggregates hourly prices across all tutors.
	PricingSummary(ctx context.Context) (*Pricing, error)
	// Policy returns the policy text for a fixed key.
	Policy(ctx context.Context, key string) (string, error)
}
