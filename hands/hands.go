// Package hands assigns every note of a corrected sequence to the left
// or right hand. Notes are processed strictly in onset order in three
// phases: chord grouping, single-note assignment (hard pitch rule
// outside the hysteresis band, voice-stream scoring inside it), and
// whole-chord assignment with a span-based split fallback.
package hands

import (
	"math"
	"sort"

	"github.com/jsphweid/handel/model"
)

type Config struct {
	// SplitNote is the pitch dividing the keyboard (default middle C).
	SplitNote uint8
	// Hysteresis is the dead band around the split where assignment is
	// scored instead of forced, to stop rapid hand flipping.
	Hysteresis uint8
	// GroupWindowMs: onsets within this window form one chord unit.
	GroupWindowMs float64
	// MaxHandSpan is the widest comfortable chord, in semitones.
	MaxHandSpan uint8

	// ContinuityWeight scales the pitch-distance-to-stream cost;
	// VelocityWeight scales the loud-notes-favor-melody bonus.
	ContinuityWeight float64
	VelocityWeight   float64
	// SpanPenalty is added when taking a note would stretch the hand
	// past MaxHandSpan.
	SpanPenalty float64
	// CrossPenalty multiplies the distance-from-split cost for notes on
	// the wrong side of the split for a hand.
	CrossPenalty float64

	// StreamDepth notes of history per hand, decaying by StreamDecay
	// per processed chord unit.
	StreamDepth int
	StreamDecay float64

	// AdaptiveSplit derives the split from the median pitch (clamped to
	// [48,72]) instead of using SplitNote directly.
	AdaptiveSplit bool
}

func DefaultConfig() Config {
	return Config{
		SplitNote:        60,
		Hysteresis:       5,
		GroupWindowMs:    50,
		MaxHandSpan:      12,
		ContinuityWeight: 1.0,
		VelocityWeight:   10.0,
		SpanPenalty:      50.0,
		CrossPenalty:     2.0,
		StreamDepth:      5,
		StreamDecay:      0.9,
	}
}

func (c Config) validate() error {
	if c.SplitNote > 127 {
		return model.ConfigErrorf("SplitNote %d out of range", c.SplitNote)
	}
	if uint16(c.Hysteresis) >= uint16(c.SplitNote) {
		return model.ConfigErrorf("Hysteresis %d must be below SplitNote %d", c.Hysteresis, c.SplitNote)
	}
	if c.GroupWindowMs < 0 {
		return model.ConfigErrorf("GroupWindowMs %v must not be negative", c.GroupWindowMs)
	}
	if c.MaxHandSpan == 0 {
		return model.ConfigErrorf("MaxHandSpan must be positive")
	}
	if c.StreamDepth <= 0 {
		return model.ConfigErrorf("StreamDepth %d must be positive", c.StreamDepth)
	}
	if c.StreamDecay <= 0 || c.StreamDecay > 1 {
		return model.ConfigErrorf("StreamDecay %v must be within (0,1]", c.StreamDecay)
	}
	return nil
}

// voiceStream is one hand's rolling history of recent notes with
// exponentially decayed weights. Updates return a new stream value so no
// state leaks outside a single Separate call.
type voiceStream struct {
	pitches []float64
	weights []float64
}

func (v voiceStream) decayed(factor float64) voiceStream {
	next := voiceStream{
		pitches: append([]float64(nil), v.pitches...),
		weights: make([]float64, len(v.weights)),
	}
	for i, w := range v.weights {
		next.weights[i] = w * factor
	}
	return next
}

func (v voiceStream) push(pitch uint8, depth int) voiceStream {
	next := voiceStream{
		pitches: append(append([]float64(nil), v.pitches...), float64(pitch)),
		weights: append(append([]float64(nil), v.weights...), 1.0),
	}
	if len(next.pitches) > depth {
		next.pitches = next.pitches[len(next.pitches)-depth:]
		next.weights = next.weights[len(next.weights)-depth:]
	}
	return next
}

func (v voiceStream) empty() bool {
	return len(v.pitches) == 0
}

// average is the decay-weighted mean pitch of the stream.
func (v voiceStream) average() float64 {
	var sum, total float64
	for i, p := range v.pitches {
		sum += p * v.weights[i]
		total += v.weights[i]
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func (v voiceStream) span(pitch float64) float64 {
	lo, hi := pitch, pitch
	for _, p := range v.pitches {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return hi - lo
}

// Separate labels every note Left or Right and returns a fresh sequence.
// Identical input and configuration always yield identical labels.
func Separate(notes []model.Note, tm model.TempoMap, cfg Config) ([]model.Note, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	out := make([]model.Note, len(notes))
	copy(out, notes)
	model.SortNotes(out)

	if len(out) == 0 {
		return out, nil
	}

	split := float64(cfg.SplitNote)
	if cfg.AdaptiveSplit {
		split = adaptiveSplit(out)
	}
	hysteresis := float64(cfg.Hysteresis)
	windowTicks := tm.MsToTicks(cfg.GroupWindowMs)

	var left, right voiceStream

	for _, unit := range groupChordUnits(out, windowTicks) {
		if len(unit) == 1 {
			i := unit[0]
			out[i].Hand = assignSingle(out[i], split, hysteresis, left, right, cfg)
		} else {
			assignChord(out, unit, split, hysteresis, left, right, cfg)
		}

		// Older context matters less: decay once per chord unit, then
		// record this unit's assignments.
		left = left.decayed(cfg.StreamDecay)
		right = right.decayed(cfg.StreamDecay)
		for _, i := range unit {
			if out[i].Hand == model.HandLeft {
				left = left.push(out[i].Pitch, cfg.StreamDepth)
			} else {
				right = right.push(out[i].Pitch, cfg.StreamDepth)
			}
		}
	}

	return out, nil
}

// adaptiveSplit is the median pitch clamped to within an octave of
// middle C, a robust split for skewed registers.
func adaptiveSplit(notes []model.Note) float64 {
	pitches := make([]uint8, len(notes))
	for i, n := range notes {
		pitches[i] = n.Pitch
	}
	sort.Slice(pitches, func(i, j int) bool { return pitches[i] < pitches[j] })
	median := float64(pitches[len(pitches)/2])
	if median < 48 {
		return 48
	}
	if median > 72 {
		return 72
	}
	return median
}

// groupChordUnits collects indices whose onsets fall within the grouping
// window of the unit's first onset. Notes are already in onset order.
func groupChordUnits(notes []model.Note, windowTicks float64) [][]int {
	var units [][]int
	i := 0
	for i < len(notes) {
		unit := []int{i}
		j := i + 1
		for j < len(notes) && float64(notes[j].Start-notes[i].Start) <= windowTicks {
			unit = append(unit, j)
			j++
		}
		units = append(units, unit)
		i = j
	}
	return units
}

func assignSingle(n model.Note, split, hysteresis float64, left, right voiceStream, cfg Config) model.Hand {
	pitch := float64(n.Pitch)
	if pitch < split-hysteresis {
		return model.HandLeft
	}
	if pitch > split+hysteresis {
		return model.HandRight
	}

	leftCost := handCost(n, model.HandLeft, left, split, cfg)
	rightCost := handCost(n, model.HandRight, right, split, cfg)
	if leftCost < rightCost {
		return model.HandLeft
	}
	if rightCost < leftCost {
		return model.HandRight
	}
	// Tie: fall back to the raw pitch rule.
	if pitch < split {
		return model.HandLeft
	}
	return model.HandRight
}

// handCost scores taking a note with one hand; lower wins. Voice-leading
// distance is weighted by movement size (steps 1x, leaps 2x, large leaps
// 3x), stretching past the comfortable span costs a fixed penalty,
// louder notes earn the right hand a bonus, every note pays its raw
// distance from the split, and notes on a hand's wrong side of the split
// pay a crossing cost on top.
func handCost(n model.Note, hand model.Hand, stream voiceStream, split float64, cfg Config) float64 {
	pitch := float64(n.Pitch)
	var cost float64

	if !stream.empty() {
		dist := math.Abs(pitch - stream.average())
		mult := 1.0
		switch {
		case dist > 7:
			mult = 3.0
		case dist > 2:
			mult = 2.0
		}
		cost += cfg.ContinuityWeight * dist * mult

		if stream.span(pitch) > float64(cfg.MaxHandSpan) {
			cost += cfg.SpanPenalty
		}
	}

	cost += math.Abs(pitch - split)

	if hand == model.HandRight {
		cost -= cfg.VelocityWeight * float64(n.Velocity) / 127.0
		if pitch < split {
			cost += cfg.CrossPenalty * (split - pitch)
		}
	} else {
		if pitch > split {
			cost += cfg.CrossPenalty * (pitch - split)
		}
	}

	return cost
}

// assignChord handles a simultaneous unit: a chord within the hand span
// goes whole to the hand nearest its center pitch (ties go Left); a
// wider chord is split at the split pitch, each side assigned as in the
// single-note phase.
func assignChord(notes []model.Note, unit []int, split, hysteresis float64, left, right voiceStream, cfg Config) {
	lo, hi := notes[unit[0]].Pitch, notes[unit[0]].Pitch
	for _, i := range unit {
		if notes[i].Pitch < lo {
			lo = notes[i].Pitch
		}
		if notes[i].Pitch > hi {
			hi = notes[i].Pitch
		}
	}

	if hi-lo <= cfg.MaxHandSpan {
		center := (float64(lo) + float64(hi)) / 2.0
		hand := model.HandLeft
		if center > split {
			hand = model.HandRight
		}
		for _, i := range unit {
			notes[i].Hand = hand
		}
		return
	}

	for _, i := range unit {
		switch {
		case float64(notes[i].Pitch) < split:
			notes[i].Hand = model.HandLeft
		case float64(notes[i].Pitch) > split:
			notes[i].Hand = model.HandRight
		default:
			notes[i].Hand = assignSingle(notes[i], split, hysteresis, left, right, cfg)
		}
	}
}
