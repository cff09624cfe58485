package facts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store over the marketplace's SQLite snapshot.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS tutors (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL UNIQUE,
	role           TEXT NOT NULL DEFAULT 'tutor',
	subjects       TEXT NOT NULL DEFAULT '',
	price_per_hour REAL,
	rate_per_unit  REAL,
	rating         TEXT,
	reviews_count  INTEGER NOT NULL DEFAULT 0,
	last_review_at TIMESTAMP,
	availability   TEXT NOT NULL DEFAULT '',
	bio            TEXT NOT NULL DEFAULT '',
	education      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS policies (
	key     TEXT PRIMARY KEY,
	content TEXT NOT NULL
);
`

// OpenSQLite creates or opens the fact database at path and ensures the
// schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open fact db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init fact schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

const tutorColumns = `name, subjects, price_per_hour, rate_per_unit, rating, reviews_count, availability, bio, education`

func (s *SQLiteStore) TutorByName(ctx context.Context, name string) (*Tutor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tutorColumns+` FROM tutors WHERE role = 'tutor' AND LOWER(name) = LOWER(?)`, name)
	t, err := scanTutor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SQLiteStore) TutorsBySubject(ctx context.Context, subject string, limit int) ([]Tutor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tutorColumns+` FROM tutors
		 WHERE role = 'tutor' AND LOWER(subjects) LIKE '%' || LOWER(?) || '%'
		 ORDER BY name LIMIT ?`, subject, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	return collectTutors(rows)
}

func (s *SQLiteStore) AllTutors(ctx context.Context, limit int) ([]Tutor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tutorColumns+` FROM tutors WHERE role = 'tutor' ORDER BY name LIMIT ?`,
		sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	return collectTutors(rows)
}

func (s *SQLiteStore) TutorRatings(ctx context.Context, name string) (*Ratings, error) {
	var (
		rating sql.NullString
		count  int
		last   sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT rating, reviews_count, last_review_at FROM tutors
		 WHERE role = 'tutor' AND LOWER(name) = LOWER(?)`, name).
		Scan(&rating, &count, &last)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := &Ratings{ReviewsCount: count}
	if rating.Valid {
		r.Rating = &rating.String
	}
	if last.Valid {
		r.LastReviewAt = &last.Time
	}
	return r, nil
}

// PricingSummary aggregates hourly prices in Go so the per-block
// conversion lives in exactly one place (BlocksPerHour), not in SQL.
func (s *SQLiteStore) PricingSummary(ctx context.Context) (*Pricing, error) {
	tutors, err := s.AllTutors(ctx, 0)
	if err != nil {
		return nil, err
	}
	p := &Pricing{}
	var sum float64
	for i := range tutors {
		price, ok := HourlyPrice(&tutors[i])
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

func (s *SQLiteStore) Policy(ctx context.Context, key string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM policies WHERE key = ?`, key).Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

// UpsertTutor inserts or replaces a tutor record. Used by the marketplace
// sync job and by tests.
func (s *SQLiteStore) UpsertTutor(ctx context.Context, t Tutor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tutors (name, role, subjects, price_per_hour, rate_per_unit, rating, reviews_count, availability, bio, education)
		VALUES (?, 'tutor', ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			subjects = excluded.subjects,
			price_per_hour = excluded.price_per_hour,
			rate_per_unit = excluded.rate_per_unit,
			rating = excluded.rating,
			reviews_count = excluded.reviews_count,
			availability = excluded.availability,
			bio = excluded.bio,
			education = excluded.education`,
		t.Name, strings.Join(t.Subjects, ","),
		nullFloat(t.PricePerHour), nullFloat(t.RatePerUnit), nullString(t.Rating),
		t.ReviewsCount, t.Availability, t.Bio, t.Education)
	return err
}

// SetPolicy stores policy text under a fixed key.
func (s *SQLiteStore) SetPolicy(ctx context.Context, key, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO policies (key, content) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET content = excluded.content`, key, content)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTutor(row rowScanner) (*Tutor, error) {
	var (
		t        Tutor
		subjects string
		price    sql.NullFloat64
		rate     sql.NullFloat64
		rating   sql.NullString
	)
	err := row.Scan(&t.Name, &subjects, &price, &rate, &rating,
		&t.ReviewsCount, &t.Availability, &t.Bio, &t.Education)
	if err != nil {
		return nil, err
	}
	if subjects != "" {
		for _, s := range strings.Split(subjects, ",") {
			if s = strings.TrimSpace(s); s != "" {
				t.Subjects = append(t.Subjects, s)
			}
		}
	}
	if price.Valid {
		t.PricePerHour = &price.Float64
	}
	if rate.Valid {
		t.RatePerUnit = &rate.Float64
	}
	if rating.Valid {
		t.Rating = &rating.String
	}
	return &t, nil
}

func collectTutors(rows *sql.Rows) ([]Tutor, error) {
	defer rows.Close()
	var tutors []Tutor
	for rows.Next() {
		t, err := scanTutor(rows)
		if err != nil {
			return nil, err
		}
		tutors = append(tutors, *t)
	}
	return tutors, rows.Err()
}

// sqlLimit maps "no limit" onto SQLite's negative-LIMIT convention.
// Aggregates like PricingSummary must see every row; only enumerating
// answers pass a positive cap.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
