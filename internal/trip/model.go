// Package trip provides models and repositories for AI-generated travel trips.
package trip

import (
	"errors"
	"strings"
	"time"
)

// TravelStyle identifies one of the fixed travel style tags a trip can carry.
type TravelStyle string

// Valid travel styles.
const (
	StyleAdventure   TravelStyle = "ADVENTURE"
	StyleRelaxed     TravelStyle = "RELAXED"
	StyleCultural    TravelStyle = "CULTURAL"
	StyleLuxury      TravelStyle = "LUXURY"
	StyleBackpacking TravelStyle = "BACKPACKING"
)

// Trip constraints.
const (
	MinDays      = 1
	MaxDays      = 90
	MaxStyles    = 3
	MinNameChars = 2
)

// Validation errors.
var (
	ErrInvalidStyle     = errors.New("invalid travel style")
	ErrNoStyles         = errors.New("at least one travel style is required")
	ErrTooManyStyles    = errors.New("maximum 3 travel styles allowed")
	ErrInvalidDays      = errors.New("days must be between 1 and 90")
	ErrBudgetOrder      = errors.New("maximum budget must be greater than or equal to minimum budget")
	ErrBudgetNegative   = errors.New("budget cannot be negative")
	ErrMissingLocations = errors.New("source and destination are required")
)

// validStyles is the closed set of accepted travel style tags.
var validStyles = map[TravelStyle]bool{
	StyleAdventure:   true,
	StyleRelaxed:     true,
	StyleCultural:    true,
	StyleLuxury:      true,
	StyleBackpacking: true,
}

// ValidStyle reports whether a style tag is one of the accepted values.
func ValidStyle(s TravelStyle) bool {
	return validStyles[s]
}

// Activity is a single scheduled item within an itinerary day.
type Activity struct {
	Time          string  `json:"time,omitempty"`
	Activity      string  `json:"activity"`
	Location      string  `json:"location,omitempty"`
	Description   string  `json:"description,omitempty"`
	EstimatedCost float64 `json:"estimatedCost,omitempty"`
	Duration      string  `json:"duration,omitempty"`
}

// Accommodation describes where a day's night is spent.
type Accommodation struct {
	Name          string  `json:"name"`
	EstimatedCost float64 `json:"estimatedCost,omitempty"`
	Location      string  `json:"location,omitempty"`
}

// Meal is a meal suggestion within an itinerary day.
type Meal struct {
	Type          string  `json:"type"`
	Suggestion    string  `json:"suggestion,omitempty"`
	EstimatedCost float64 `json:"estimatedCost,omitempty"`
}

// ItineraryDay is one day of a generated itinerary.
type ItineraryDay struct {
	Day           int            `json:"day"`
	Title         string         `json:"title,omitempty"`
	Activities    []Activity     `json:"activities,omitempty"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
	Meals         []Meal         `json:"meals,omitempty"`
}

// Transportation describes how the traveler reaches and moves around the destination.
type Transportation struct {
	ToDestination     string  `json:"toDestination,omitempty"`
	WithinDestination string  `json:"withinDestination,omitempty"`
	EstimatedCost     float64 `json:"estimatedCost,omitempty"`
}

// Itinerary is the semi-structured plan generated for a trip.
// Any sub-field may be absent; consumers treat missing fields as empty
// rather than failing.
type Itinerary struct {
	Overview           string          `json:"overview,omitempty"`
	Days               []ItineraryDay  `json:"days,omitempty"`
	Transportation     *Transportation `json:"transportation,omitempty"`
	Tips               []string        `json:"tips,omitempty"`
	TotalEstimatedCost float64         `json:"totalEstimatedCost,omitempty"`
}

// CostBreakdown aggregates estimated costs across itinerary categories.
type CostBreakdown struct {
	Accommodation  float64 `json:"accommodation"`
	Activities     float64 `json:"activities"`
	Meals          float64 `json:"meals"`
	Transportation float64 `json:"transportation"`
	Total          float64 `json:"total"`
}

// Trip represents a generated or completed travel plan owned by a user.
// Trips are immutable once handed to the ranking engine; scoring never
// mutates them.
type Trip struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Title       string        `json:"title,omitempty"`
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	Days        int           `json:"days"`
	BudgetMin   *float64      `json:"budget_min,omitempty"`
	BudgetMax   *float64      `json:"budget_max,omitempty"`
	TravelStyle []TravelStyle `json:"travel_style"`

	Itinerary     *Itinerary     `json:"itinerary,omitempty"`
	CostBreakdown *CostBreakdown `json:"cost_breakdown,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// trekKeyword marks destinations whose content decays slower in the feed.
const trekKeyword = "trek"

// IsEvergreen reports whether a trip's content is evergreen: adventure-tagged
// or targeting a trekking destination. The classification is computed here,
// outside the freshness scorer, and supplied to it by the ranker.
func IsEvergreen(t *Trip) bool {
	if t == nil {
		return false
	}
	for _, s := range t.TravelStyle {
		if s == StyleAdventure {
			return true
		}
	}
	return strings.Contains(strings.ToLower(t.Destination), trekKeyword)
}

// BudgetAverage returns the midpoint of the trip's budget range.
// Returns false when either bound is absent.
func (t *Trip) BudgetAverage() (float64, bool) {
	if t.BudgetMin == nil || t.BudgetMax == nil {
		return 0, false
	}
	return (*t.BudgetMin + *t.BudgetMax) / 2, true
}

// Validate checks the trip's user-supplied fields against the accepted bounds.
// Itinerary contents are intentionally not validated: malformed or partial
// itineraries degrade gracefully during scoring.
func (t *Trip) Validate() error {
	if strings.TrimSpace(t.Source) == "" || strings.TrimSpace(t.Destination) == "" {
		return ErrMissingLocations
	}
	if t.Days < MinDays || t.Days > MaxDays {
		return ErrInvalidDays
	}
	if len(t.TravelStyle) == 0 {
		return ErrNoStyles
	}
	if len(t.TravelStyle) > MaxStyles {
		return ErrTooManyStyles
	}
	for _, s := range t.TravelStyle {
		if !ValidStyle(s) {
			return ErrInvalidStyle
		}
	}
	if t.BudgetMin != nil && *t.BudgetMin < 0 {
		return ErrBudgetNegative
	}
	if t.BudgetMax != nil && *t.BudgetMax < 0 {
		return ErrBudgetNegative
	}
	if t.BudgetMin != nil && t.BudgetMax != nil && *t.BudgetMax < *t.BudgetMin {
		return ErrBudgetOrder
	}
	return nil
}
