package facts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"tutorbot/internal/intent"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }

// fakeStore serves canned data and can be forced to fail.
type fakeStore struct {
	tutors   []Tutor
	policies map[string]string
	err      error
}

func (f *fakeStore) TutorByName(_ context.Context, name string) (*Tutor, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.tutors {
		if strings.EqualFold(f.tutors[i].Name, name) {
			return &f.tutors[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) TutorsBySubject(_ context.Context, subject string, limit int) ([]Tutor, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Tutor
	for _, t := range f.tutors {
		for _, s := range t.Subjects {
			if strings.EqualFold(s, subject) {
				out = append(out, t)
				break
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) AllTutors(_ context.Context, limit int) ([]Tutor, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.tutors
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) TutorRatings(_ context.Context, name string) (*Ratings, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, _ := f.TutorByName(context.Background(), name)
	if t == nil {
		return nil, nil
	}
	return &Ratings{Rating: t.Rating, ReviewsCount: t.ReviewsCount}, nil
}

func (f *fakeStore) PricingSummary(_ context.Context) (*Pricing, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := &Pricing{}
	var sum float64
	for i := range f.tutors {
		price, ok := HourlyPrice(&f.tutors[i])
		if !ok {
			continue
		}
		v := float64(price)
		if p.TutorCount == 0 || v < p.MinPrice {
			p.MinPrice = v
		}
		if v > p.MaxPrice {
			p.MaxPrice = v
		}
		sum += v
		p.TutorCount++
	}
	if p.TutorCount > 0 {
		p.AvgPrice = sum / float64(p.TutorCount)
	}
	return p, nil
}

func (f *fakeStore) Policy(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.policies[key], nil
}

func testStore() *fakeStore {
	return &fakeStore{
		tutors: []Tutor{
			{Name: "Mehak", Subjects: []string{"Python", "Mathematics"}, RatePerUnit: floatPtr(5), Rating: strPtr("4.8"), ReviewsCount: 12},
			{Name: "John", Subjects: []string{"Python"}, PricePerHour: floatPtr(45), Rating: strPtr("4.5"), ReviewsCount: 7},
			{Name: "Priya", Subjects: []string{"Chemistry"}, PricePerHour: floatPtr(60)},
		},
		policies: map[string]string{
			"refund": "Full refund within 24 hours of booking.",
		},
	}
}

func newTestResolver(store Store) *Resolver {
	return NewResolver(store, log.New(io.Discard, "", 0))
}

func TestResolveTutorPriceDerivedFromBlocks(t *testing.T) {
	r := newTestResolver(testStore())
	got := r.Resolve(context.Background(), intent.Intent{
		Type:  intent.TutorPriceByName,
		Slots: map[string]string{intent.SlotName: "Mehak"},
	})
	// Per-block rate of 5 means 30 per hour.
	if !strings.Contains(got, "$30") {
		t.Fatalf("Resolve price block = %q, want derived hourly price $30", got)
	}
	if !strings.Contains(got, "Mehak") {
		t.Errorf("Resolve price block = %q, missing tutor name", got)
	}
}

func TestResolveTutorPriceNotFound(t *testing.T) {
	r := newTestResolver(testStore())
	got := r.Resolve(context.Background(), intent.Intent{
		Type:  intent.TutorPriceByName,
		Slots: map[string]string{intent.SlotName: "Nobody"},
	})
	want := `No tutor named "Nobody" is registered on the platform.`
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveSubjectCountMatchesEntries(t *testing.T) {
	tests := []struct {
		subject string
		want    int
	}{
		{"Python", 2},
		{"Chemistry", 1},
		{"Latin", 0},
	}
	r := newTestResolver(testStore())
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got := r.Resolve(context.Background(), intent.Intent{
				Type:  intent.TutorsBySubject,
				Slots: map[string]string{intent.SlotSubject: tt.subject},
			})
			header := fmt.Sprintf("Found %d tutors for %q", tt.want, tt.subject)
			if !strings.HasPrefix(got, header) {
				t.Fatalf("Resolve = %q, want prefix %q", got, header)
			}
			entries := 0
			for _, line := range strings.Split(got, "\n")[1:] {
				if strings.TrimSpace(line) != "" {
					entries++
				}
			}
			if entries != tt.want {
				t.Errorf("stated count %d but listed %d entries:\n%s", tt.want, entries, got)
			}
		})
	}
}

func TestResolveSubjectZeroMatches(t *testing.T) {
	r := newTestResolver(testStore())
	got := r.Resolve(context.Background(), intent.Intent{
		Type:  intent.TutorsBySubject,
		Slots: map[string]string{intent.SlotSubject: "Latin"},
	})
	want := `Found 0 tutors for "Latin". No tutors currently teach this subject.`
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveListAllTutors(t *testing.T) {
	r := newTestResolver(testStore())
	got := r.Resolve(context.Background(), intent.Intent{
		Type:  intent.TutorsBySubject,
		Slots: map[string]string{},
	})
	if !strings.HasPrefix(got, "Found 3 tutors on the platform:") {
		t.Fatalf("Resolve = %q, want list-all header for 3 tutors", got)
	}
}

func TestResolveRating(t *testing.T) {
	r := newTestResolver(testStore())
	got := r.Resolve(context.Background(), intent.Intent{
		Type:  intent.TutorRatingByName,
		Slots: map[string]string{intent.SlotName: "Mehak"},
	})
	if !strings.Contains(got, "4.8") || !strings.Contains(got, "12 reviews") {
		t.Fatalf("Resolve rating = %q, want rating 4.8 with 12 reviews", got)
	}

	got = r.Resolve(context.Background(), intent.Intent{
		Type:  intent.TutorRatingByName,
		Slots: map[string]string{intent.SlotName: "Priya"},
	})
	if got != "Priya has no reviews yet." {
		t.Fatalf("Resolve rating = %q, want no-reviews sentence", got)
	}
}

func TestResolvePricingSummary(t *testing.T) {
	r := newTestResolver(testStore())
	got := r.Resolve(context.Background(), intent.Intent{Type: intent.PricingSummary, Slots: map[string]string{}})
	want := "Across 3 tutors, hourly prices range from $30 to $60, averaging $45."
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolvePolicy(t *testing.T) {
	r := newTestResolver(testStore())
	got := r.Resolve(context.Background(), intent.Intent{
		Type:  intent.Policy,
		Slots: map[string]string{intent.SlotKey: "refund"},
	})
	want := "Platform policy (refund): Full refund within 24 hours of booking."
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}

	// Unknown key has no stored text and yields nothing.
	got = r.Resolve(context.Background(), intent.Intent{
		Type:  intent.Policy,
		Slots: map[string]string{intent.SlotKey: "booking"},
	})
	if got != "" {
		t.Fatalf("Resolve unknown policy = %q, want empty", got)
	}
}

func TestResolveFreeform(t *testing.T) {
	r := newTestResolver(testStore())
	got := r.Resolve(context.Background(), intent.Intent{Type: intent.Freeform, Slots: map[string]string{}})
	if got != "" {
		t.Fatalf("Resolve freeform = %q, want empty", got)
	}
}

func TestResolveStoreErrorDegrades(t *testing.T) {
	r := newTestResolver(&fakeStore{err: errors.New("db gone")})
	intents := []intent.Intent{
		{Type: intent.TutorPriceByName, Slots: map[string]string{intent.SlotName: "Mehak"}},
		{Type: intent.TutorsBySubject, Slots: map[string]string{intent.SlotSubject: "Python"}},
		{Type: intent.TutorsBySubject, Slots: map[string]string{}},
		{Type: intent.TutorRatingByName, Slots: map[string]string{intent.SlotName: "Mehak"}},
		{Type: intent.PricingSummary, Slots: map[string]string{}},
		{Type: intent.Policy, Slots: map[string]string{intent.SlotKey: "refund"}},
	}
	for _, it := range intents {
		if got := r.Resolve(context.Background(), it); got != "" {
			t.Errorf("Resolve(%s) with failing store = %q, want empty", it.Type, got)
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := newTestResolver(testStore())
	it := intent.Intent{
		Type:  intent.TutorsBySubject,
		Slots: map[string]string{intent.SlotSubject: "Python"},
	}
	first := r.Resolve(context.Background(), it)
	for i := 0; i < 5; i++ {
		if got := r.Resolve(context.Background(), it); got != first {
			t.Fatalf("Resolve not idempotent:\n%q\nvs\n%q", got, first)
		}
	}
}

func TestHourlyPrice(t *testing.T) {
	tests := []struct {
		name  string
		tutor Tutor
		want  int
		ok    bool
	}{
		{"hourly set", Tutor{PricePerHour: floatPtr(45)}, 45, true},
		{"per block only", Tutor{RatePerUnit: floatPtr(5)}, 30, true},
		{"hourly wins over block", Tutor{PricePerHour: floatPtr(50), RatePerUnit: floatPtr(5)}, 50, true},
		{"rounded", Tutor{PricePerHour: floatPtr(39.6)}, 40, true},
		{"none", Tutor{}, 0, false},
		{"negative", Tutor{PricePerHour: floatPtr(-3)}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HourlyPrice(&tt.tutor)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("HourlyPrice = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
