// Package quantize snaps note onsets toward a beat grid at partial
// strength, preserving some of the performance's expressive timing.
package quantize

import (
	"math"

	"github.com/jsphweid/handel/model"
)

type Config struct {
	// Resolution is the grid in note values per whole note:
	// 4 = quarter notes, 8 = eighths, 16 = sixteenths.
	Resolution int
	// Strength is the fraction of the distance to the nearest grid
	// point each onset moves. 1.0 snaps fully, 0 leaves notes alone.
	Strength float64
	// MinDurationMs is the floor a quantized note may shrink to.
	MinDurationMs float64
}

func DefaultConfig() Config {
	return Config{Resolution: 16, Strength: 0.5, MinDurationMs: 10}
}

func (c Config) validate() error {
	if c.Resolution <= 0 {
		return model.ConfigErrorf("Resolution %d must be positive", c.Resolution)
	}
	if c.Strength < 0 || c.Strength > 1 {
		return model.ConfigErrorf("Strength %v must be within [0,1]", c.Strength)
	}
	if c.MinDurationMs < 0 {
		return model.ConfigErrorf("MinDurationMs %v must not be negative", c.MinDurationMs)
	}
	return nil
}

// Run returns a fresh sequence with each onset moved Strength of the way
// to its nearest grid point and the offset shifted by the same delta.
// Durations never drop below the configured floor.
func Run(notes []model.Note, tm model.TempoMap, cfg Config) ([]model.Note, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	gridTicks := float64(tm.TicksPerBeat) / (float64(cfg.Resolution) / 4.0)
	minDuration := int64(math.Ceil(tm.MsToTicks(cfg.MinDurationMs)))
	if minDuration < 1 {
		minDuration = 1
	}

	out := make([]model.Note, len(notes))
	copy(out, notes)

	for i := range out {
		start := float64(out[i].Start)
		nearest := math.Round(start/gridTicks) * gridTicks
		shifted := start + cfg.Strength*(nearest-start)

		newStart := int64(math.Round(shifted))
		if newStart < 0 {
			newStart = 0
		}
		out[i].Start = newStart
		if out[i].Duration < minDuration {
			out[i].Duration = minDuration
		}
	}

	model.SortNotes(out)
	return out, nil
}
