package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version  string                   `json:"version"`
	Profiles map[string]WeightProfile `json:"profiles"`
}

// LoadCalibration loads per-mode weight profiles from a JSON calibration
// file, merging them over the built-in table. Modes absent from the file
// keep their defaults. A profile that fails validation (weights not summing
// to 1.0) is rejected and the default kept, with a warning.
//
// On any file or parse error the built-in table is returned alongside the
// error so callers can degrade gracefully.
func LoadCalibration(filePath string) (Profiles, error) {
	if filePath == "" {
		return DefaultProfiles(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read feed calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultProfiles(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse feed calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultProfiles(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	return MergeCalibration(DefaultProfiles(), config.Profiles), nil
}

// MergeCalibration applies override profiles on top of the base table.
// Overrides for unknown modes are ignored; invalid overrides are rejected
// per mode. Applied overrides are logged for operational visibility.
func MergeCalibration(base Profiles, overrides map[string]WeightProfile) Profiles {
	merged := make(Profiles, len(base))
	for mode, w := range base {
		merged[mode] = w
	}

	var applied []string
	for name, w := range overrides {
		mode, err := ParseMode(name)
		if err != nil {
			slog.Warn("ignoring calibration override for unknown mode", "mode", name)
			continue
		}
		if err := w.Validate(); err != nil {
			slog.Warn("rejecting invalid calibration override, keeping default",
				"mode", name,
				"error", err)
			continue
		}
		if w != merged[mode] {
			applied = append(applied, name)
		}
		merged[mode] = w
	}

	if len(applied) > 0 {
		slog.Info("loaded feed calibration with overrides", "modes", applied)
	} else {
		slog.Info("loaded feed calibration (using all defaults)")
	}

	return merged
}
