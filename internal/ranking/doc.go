// Package ranking implements the feed ranking engine: five sub-scorers
// combined into a weighted composite score per feed mode, with calibration
// support for deploy-time weight tuning.
//
// Basic Usage:
//
//	// Load calibration (typically at startup)
//	profiles, err := ranking.LoadCalibration("configs/feed.calibration.json")
//	if err != nil {
//		slog.Warn("using default weight profiles", "error", err)
//	}
//
//	ranker := ranking.NewRanker(geo.NewStaticResolver(), profiles)
//	items := ranker.Rank(candidates, viewer, ranking.ModeBalanced)
//
// Sub-scores:
//
// Each of the five sub-scores (trip quality, engagement, relevance, trust,
// freshness) is in the [0, 100] range and computed by a pure function. The
// composite total is the convex combination given by the active mode's
// weight profile, so totals stay in [0, 100] too.
//
// The engine performs no I/O and holds no mutable state: all inputs are
// immutable snapshots and Rank is safe to call concurrently. Missing or
// malformed data (absent trip, partial itinerary, unresolved destination)
// degrades to a documented neutral or zero sub-score rather than failing.
//
// Calibration:
//
// Weight profiles are overridable per mode from a JSON file loaded at
// startup. Partial configurations merge over the built-in table; a profile
// whose weights do not sum to 1.0 is rejected and the default kept.
package ranking
