package trip

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common errors for trip operations.
var (
	ErrTripNotFound = errors.New("trip not found")
)

// Repository defines the interface for trip data operations.
type Repository interface {
	// Create inserts a new trip with a generated UUID.
	Create(ctx context.Context, t *Trip) error

	// GetByID retrieves a trip by its UUID.
	GetByID(ctx context.Context, id string) (*Trip, error)

	// GetByIDs retrieves trips in bulk. Missing IDs are silently omitted
	// from the result map; a candidate without trip data scores zero
	// downstream rather than failing the whole feed.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Trip, error)

	// ListByUser retrieves all trips owned by a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Trip, error)

	// CompletedCountsByUser returns, per user ID, the number of trips that
	// user has completed. Users with no completed trips are omitted.
	CompletedCountsByUser(ctx context.Context, userIDs []string) (map[string]int, error)

	// MarkCompleted stamps a trip's completion timestamp.
	MarkCompleted(ctx context.Context, id string, at time.Time) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// Thread-safe via RWMutex.
type InMemoryRepository struct {
	mu    sync.RWMutex
	trips map[string]*Trip
}

// NewInMemoryRepository creates a new in-memory trip repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		trips: make(map[string]*Trip),
	}
}

// Create inserts a new trip with a generated UUID.
func (r *InMemoryRepository) Create(ctx context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	tripCopy := *t
	r.trips[t.ID] = &tripCopy
	return nil
}

// GetByID retrieves a trip by its UUID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}

	tripCopy := *t
	return &tripCopy, nil
}

// GetByIDs retrieves trips in bulk, omitting missing IDs.
func (r *InMemoryRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Trip, len(ids))
	for _, id := range ids {
		if t, ok := r.trips[id]; ok {
			tripCopy := *t
			result[id] = &tripCopy
		}
	}
	return result, nil
}

// ListByUser retrieves all trips owned by a user, newest first.
func (r *InMemoryRepository) ListByUser(ctx context.Context, userID string) ([]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Trip
	for _, t := range r.trips {
		if t.UserID != userID {
			continue
		}
		tripCopy := *t
		result = append(result, &tripCopy)
	}

	// Newest first; ID ascending on equal timestamps for stable output.
	sortTripsByCreatedDesc(result)
	return result, nil
}

// CompletedCountsByUser returns completed trip counts for the given users.
func (r *InMemoryRepository) CompletedCountsByUser(ctx context.Context, userIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}

	counts := make(map[string]int)
	for _, t := range r.trips {
		if t.CompletedAt == nil || !wanted[t.UserID] {
			continue
		}
		counts[t.UserID]++
	}
	return counts, nil
}

// MarkCompleted stamps a trip's completion timestamp.
func (r *InMemoryRepository) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok {
		return ErrTripNotFound
	}

	completed := at
	t.CompletedAt = &completed
	return nil
}

// sortTripsByCreatedDesc sorts trips by created_at DESC, then ID ASC for ties.
func sortTripsByCreatedDesc(trips []*Trip) {
	sort.Slice(trips, func(i, j int) bool {
		if trips[i].CreatedAt.After(trips[j].CreatedAt) {
			return true
		}
		if trips[i].CreatedAt.Before(trips[j].CreatedAt) {
			return false
		}
		return trips[i].ID < trips[j].ID
	})
}
