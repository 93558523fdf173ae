package trip

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresRepository implements Repository using PostgreSQL.
// Itinerary and cost breakdown are stored as JSONB columns.
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new trip with a generated UUID.
func (r *PostgresRepository) Create(ctx context.Context, t *Trip) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	itineraryJSON, err := marshalNullable(t.Itinerary)
	if err != nil {
		return fmt.Errorf("failed to marshal itinerary: %w", err)
	}
	costJSON, err := marshalNullable(t.CostBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal cost breakdown: %w", err)
	}

	styles := make([]string, len(t.TravelStyle))
	for i, s := range t.TravelStyle {
		styles[i] = string(s)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO trips (
			id, user_id, title, source, destination, days,
			budget_min, budget_max, travel_style,
			itinerary, cost_breakdown, completed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.UserID, t.Title, t.Source, t.Destination, t.Days,
		t.BudgetMin, t.BudgetMax, pq.Array(styles),
		itineraryJSON, costJSON, t.CompletedAt, t.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert trip",
			slog.String("trip_id", t.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Trip, error) {
	row := r.db.QueryRowContext(ctx, selectTripQuery+` WHERE id = $1`, id)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query trip: %w", err)
	}
	return t, nil
}

// GetByIDs retrieves trips in bulk, omitting missing IDs.
func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*Trip, error) {
	if len(ids) == 0 {
		return map[string]*Trip{}, nil
	}

	rows, err := r.db.QueryContext(ctx, selectTripQuery+` WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*Trip, len(ids))
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		result[t.ID] = t
	}
	return result, rows.Err()
}

// ListByUser retrieves all trips owned by a user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTripQuery+` WHERE user_id = $1 ORDER BY created_at DESC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// CompletedCountsByUser returns completed trip counts for the given users.
func (r *PostgresRepository) CompletedCountsByUser(ctx context.Context, userIDs []string) (map[string]int, error) {
	if len(userIDs) == 0 {
		return map[string]int{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, COUNT(*)
		FROM trips
		WHERE user_id = ANY($1) AND completed_at IS NOT NULL
		GROUP BY user_id`, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query completed counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan completed count: %w", err)
		}
		counts[userID] = count
	}
	return counts, rows.Err()
}

// MarkCompleted stamps a trip's completion timestamp.
func (r *PostgresRepository) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE trips SET completed_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		r.logger.Error("failed to mark trip completed",
			slog.String("trip_id", id),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to mark trip completed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTripNotFound
	}
	return nil
}

const selectTripQuery = `
	SELECT id, user_id, title, source, destination, days,
	       budget_min, budget_max, travel_style,
	       itinerary, cost_breakdown, completed_at, created_at
	FROM trips`

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTrip scans one trip row, decoding the JSONB payloads.
// A malformed itinerary payload is logged as absent, not an error; scoring
// degrades gracefully on missing itinerary data.
func scanTrip(row rowScanner) (*Trip, error) {
	var t Trip
	var title sql.NullString
	var styles pq.StringArray
	var itineraryJSON, costJSON []byte

	err := row.Scan(
		&t.ID, &t.UserID, &title, &t.Source, &t.Destination, &t.Days,
		&t.BudgetMin, &t.BudgetMax, &styles,
		&itineraryJSON, &costJSON, &t.CompletedAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Title = title.String
	t.TravelStyle = make([]TravelStyle, len(styles))
	for i, s := range styles {
		t.TravelStyle[i] = TravelStyle(s)
	}

	if len(itineraryJSON) > 0 {
		var it Itinerary
		if err := json.Unmarshal(itineraryJSON, &it); err == nil {
			t.Itinerary = &it
		} else {
			slog.Warn("malformed itinerary payload, treating as absent",
				"trip_id", t.ID, "error", err)
		}
	}
	if len(costJSON) > 0 {
		var cb CostBreakdown
		if err := json.Unmarshal(costJSON, &cb); err == nil {
			t.CostBreakdown = &cb
		}
	}

	return &t, nil
}

// marshalNullable marshals a pointer value to JSON, mapping nil to SQL NULL.
func marshalNullable[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
