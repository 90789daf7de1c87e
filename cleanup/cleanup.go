// Package cleanup filters and repairs common transcription errors:
// spurious blips are dropped, truncated notes are extended, legato
// fragments of the same pitch are merged, and out-of-key notes are
// flagged for review (never removed).
package cleanup

import (
	"sort"

	"github.com/jsphweid/handel/constants"
	"github.com/jsphweid/handel/model"
)

type Config struct {
	// Enabled false passes the sequence through untouched.
	Enabled bool

	// Notes shorter than RemoveBelowMs are dropped as noise; notes
	// between the two thresholds are extended to MinDurationMs.
	RemoveBelowMs float64
	MinDurationMs float64

	MinVelocity uint8
	MinNote     uint8
	MaxNote     uint8

	MergeNotes bool
	MergeGapMs float64
}

func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		RemoveBelowMs: 50,
		MinDurationMs: 100,
		MinVelocity:   15,
		MinNote:       constants.MinPianoNote,
		MaxNote:       constants.MaxPianoNote,
		MergeNotes:    true,
		MergeGapMs:    50,
	}
}

func (c Config) validate() error {
	if c.RemoveBelowMs < 0 {
		return model.ConfigErrorf("RemoveBelowMs %v must not be negative", c.RemoveBelowMs)
	}
	if c.MinDurationMs < c.RemoveBelowMs {
		return model.ConfigErrorf("MinDurationMs %v must be >= RemoveBelowMs %v", c.MinDurationMs, c.RemoveBelowMs)
	}
	if c.MergeGapMs < 0 {
		return model.ConfigErrorf("MergeGapMs %v must not be negative", c.MergeGapMs)
	}
	if c.MinNote > c.MaxNote {
		return model.ConfigErrorf("MinNote %d must be <= MaxNote %d", c.MinNote, c.MaxNote)
	}
	return nil
}

// Run produces a fresh corrected sequence; the input is never mutated.
// The key is advisory only: out-of-key notes are flagged, not deleted.
func Run(notes []model.Note, tm model.TempoMap, key model.Key, cfg Config) ([]model.Note, model.CorrectionStats, error) {
	stats := model.CorrectionStats{
		TotalNotes:  len(notes),
		DetectedKey: key.String(),
		DetectedBPM: int(tm.BPM() + 0.5),
	}
	if err := cfg.validate(); err != nil {
		return nil, stats, err
	}

	out := make([]model.Note, len(notes))
	copy(out, notes)
	model.SortNotes(out)

	if !cfg.Enabled {
		flagOutOfKey(out, key, &stats)
		return out, stats, nil
	}

	out = filterAndExtend(out, tm, cfg, &stats)
	if cfg.MergeNotes {
		out = mergeConsecutive(out, tm, cfg, &stats)
	}
	flagOutOfKey(out, key, &stats)

	model.SortNotes(out)
	return out, stats, nil
}

// filterAndExtend applies the three duration bands computed from the
// actual tempo, plus the velocity and pitch-range filters.
func filterAndExtend(notes []model.Note, tm model.TempoMap, cfg Config, stats *model.CorrectionStats) []model.Note {
	removeBelow := tm.MsToTicks(cfg.RemoveBelowMs)
	extendBelow := tm.MsToTicks(cfg.MinDurationMs)

	filtered := notes[:0]
	for _, n := range notes {
		if n.Velocity < cfg.MinVelocity {
			stats.RemovedQuiet++
			continue
		}
		if n.Pitch < cfg.MinNote || n.Pitch > cfg.MaxNote {
			stats.RemovedRange++
			continue
		}
		switch {
		case float64(n.Duration) < removeBelow:
			stats.RemovedShort++
			continue
		case float64(n.Duration) < extendBelow:
			n.Duration = int64(extendBelow)
			stats.Extended++
		}
		filtered = append(filtered, n)
	}
	return filtered
}

// mergeConsecutive combines same-pitch notes whose gap is within the
// merge threshold into one legato note with the average velocity.
func mergeConsecutive(notes []model.Note, tm model.TempoMap, cfg Config, stats *model.CorrectionStats) []model.Note {
	if len(notes) == 0 {
		return notes
	}
	gapTicks := tm.MsToTicks(cfg.MergeGapMs)

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Pitch != notes[j].Pitch {
			return notes[i].Pitch < notes[j].Pitch
		}
		return notes[i].Start < notes[j].Start
	})

	var merged []model.Note
	i := 0
	for i < len(notes) {
		current := notes[i]
		j := i + 1
		for j < len(notes) && notes[j].Pitch == current.Pitch {
			gap := notes[j].Start - current.End()
			if gap < 0 || float64(gap) > gapTicks {
				break
			}
			end := notes[j].End()
			if end > current.End() {
				current.Duration = end - current.Start
			}
			current.Velocity = uint8((int(current.Velocity) + int(notes[j].Velocity)) / 2)
			stats.Merged++
			j++
		}
		merged = append(merged, current)
		i = j
	}

	model.SortNotes(merged)
	return merged
}

func flagOutOfKey(notes []model.Note, key model.Key, stats *model.CorrectionStats) {
	for i := range notes {
		if !key.Contains(notes[i].PitchClass()) {
			notes[i].OutOfKey = true
			stats.OutOfKey++
		}
	}
}
