package facts

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"tutorbot/internal/intent"
)

// listLimit caps how many tutors a single answer may enumerate.
const listLimit = 20

// Resolver turns classified intents into compact fact blocks. Every block
// that enumerates results states its exact count: the stated count and the
// number of listed entries always agree, which is what lets the model be
// instructed to mirror them instead of guessing.
type Resolver struct {
	store  Store
	logger *log.Logger
}

// NewResolver creates a resolver over the given store. logger may be nil
// to use the default logger.
func NewResolver(store Store, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve produces the DB-context block for an intent, or "" when the
// intent needs no structured lookup. Store failures are logged and degrade
// to "": retrieval can still answer, so a data-layer error is never fatal
// for the request.
func (r *Resolver) Resolve(ctx context.Context, it intent.Intent) string {
	switch it.Type {
	case intent.TutorPriceByName:
		return r.tutorPrice(ctx, it.Slots[intent.SlotName])
	case intent.TutorsBySubject:
		subject, ok := it.Slots[intent.SlotSubject]
		if !ok {
			return r.listAll(ctx)
		}
		return r.tutorsBySubject(ctx, subject)
	case intent.TutorRatingByName:
		return r.tutorRating(ctx, it.Slots[intent.SlotName])
	case intent.PricingSummary:
		return r.pricingSummary(ctx)
	case intent.Policy:
		return r.policy(ctx, it.Slots[intent.SlotKey])
	case intent.Freeform:
		return ""
	}
	return ""
}

func (r *Resolver) tutorPrice(ctx context.Context, name string) string {
	if name == "" {
		return ""
	}
	t, err := r.store.TutorByName(ctx, name)
	if err != nil {
		r.logger.Printf("facts: tutor lookup %q failed: %v", name, err)
		return ""
	}
	if t == nil {
		// Tell the model the entity does not exist; silence would invite
		// a guess.
		return fmt.Sprintf("No tutor named %q is registered on the platform.", name)
	}
	return formatTutorLine(t)
}

func (r *Resolver) tutorsBySubject(ctx context.Context, subject string) string {
	tutors, err := r.store.TutorsBySubject(ctx, subject, listLimit)
	if err != nil {
		r.logger.Printf("facts: subject lookup %q failed: %v", subject, err)
		return ""
	}
	if len(tutors) == 0 {
		return fmt.Sprintf("Found 0 tutors for %q. No tutors currently teach this subject.", subject)
	}
	header := fmt.Sprintf("Found %d tutors for %q:", len(tutors), subject)
	return formatTutorList(header, tutors)
}

func (r *Resolver) listAll(ctx context.Context) string {
	tutors, err := r.store.AllTutors(ctx, listLimit)
	if err != nil {
		r.logger.Printf("facts: list tutors failed: %v", err)
		return ""
	}
	if len(tutors) == 0 {
		return "Found 0 tutors. No tutors are registered on the platform yet."
	}
	header := fmt.Sprintf("Found %d tutors on the platform:", len(tutors))
	return formatTutorList(header, tutors)
}

func (r *Resolver) tutorRating(ctx context.Context, name string) string {
	if name == "" {
		return ""
	}
	ratings, err := r.store.TutorRatings(ctx, name)
	if err != nil {
		r.logger.Printf("facts: ratings lookup %q failed: %v", name, err)
		return ""
	}
	if ratings == nil {
		return fmt.Sprintf("No tutor named %q is registered on the platform.", name)
	}
	if ratings.Rating == nil || ratings.ReviewsCount == 0 {
		return fmt.Sprintf("%s has no reviews yet.", name)
	}
	line := fmt.Sprintf("%s has a rating of %s based on %d reviews.", name, *ratings.Rating, ratings.ReviewsCount)
	if ratings.LastReviewAt != nil {
		line += fmt.Sprintf(" Most recent review: %s.", ratings.LastReviewAt.Format("2006-01-02"))
	}
	return line
}

func (r *Resolver) pricingSummary(ctx context.Context) string {
	p, err := r.store.PricingSummary(ctx)
	if err != nil {
		r.logger.Printf("facts: pricing summary failed: %v", err)
		return ""
	}
	if p == nil || p.TutorCount == 0 {
		return "Found 0 tutors. No pricing information is available yet."
	}
	return fmt.Sprintf("Across %d tutors, hourly prices range from $%d to $%d, averaging $%d.",
		p.TutorCount, roundPrice(p.MinPrice), roundPrice(p.MaxPrice), roundPrice(p.AvgPrice))
}

func (r *Resolver) policy(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	text, err := r.store.Policy(ctx, key)
	if err != nil {
		r.logger.Printf("facts: policy lookup %q failed: %v", key, err)
		return ""
	}
	if text == "" {
		// No stored policy: defer entirely to retrieval.
		return ""
	}
	return fmt.Sprintf("Platform policy (%s): %s", key, text)
}

// formatTutorLine renders one tutor as a single compact line.
func formatTutorLine(t *Tutor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tutor %s", t.Name)
	if len(t.Subjects) > 0 {
		fmt.Fprintf(&b, " teaches %s", strings.Join(t.Subjects, ", "))
	}
	if price, ok := HourlyPrice(t); ok {
		fmt.Fprintf(&b, "; hourly price: $%d", price)
	} else {
		b.WriteString("; hourly price: not listed")
	}
	if t.Rating != nil && t.ReviewsCount > 0 {
		fmt.Fprintf(&b, "; rating: %s (%d reviews)", *t.Rating, t.ReviewsCount)
	} else {
		b.WriteString("; no reviews yet")
	}
	if t.Availability != "" {
		fmt.Fprintf(&b, "; availability: %s", t.Availability)
	}
	b.WriteString(".")
	return b.String()
}

// formatTutorList renders a count header followed by exactly as many
// numbered entries as the header states.
func formatTutorList(header string, tutors []Tutor) string {
	var b strings.Builder
	b.WriteString(header)
	for i := range tutors {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s", i+1, formatTutorLine(&tutors[i]))
	}
	return b.String()
}

// HourlyPrice derives a tutor's hourly price in whole dollars. It prefers
// an explicit hourly price and falls back to the per-block rate times
// BlocksPerHour. Returns false for missing or non-finite values rather
// than formatting garbage into model-visible text.
func HourlyPrice(t *Tutor) (int, bool) {
	var price float64
	switch {
	case t.PricePerHour != nil:
		price = *t.PricePerHour
	case t.RatePerUnit != nil:
		price = *t.RatePerUnit * BlocksPerHour
	default:
		return 0, false
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, false
	}
	return roundPrice(price), true
}

func roundPrice(v float64) int {
	return int(math.Round(v))
}
