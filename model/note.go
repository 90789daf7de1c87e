package model

import "sort"

// Hand is the hand a note has been assigned to. Notes come out of
// transcription unassigned; the hands package sets the final label.
type Hand uint8

const (
	HandUnknown Hand = iota
	HandLeft
	HandRight
)

func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	default:
		return "unknown"
	}
}

// Note is the interchange unit of the whole pipeline. Times are in MIDI
// ticks relative to the start of the piece.
type Note struct {
	Pitch    uint8 `json:"pitch"`
	Start    int64 `json:"start"`
	Duration int64 `json:"duration"`
	Velocity uint8 `json:"velocity"`
	Hand     Hand  `json:"hand,omitempty"`
	OutOfKey bool  `json:"out_of_key,omitempty"`
}

func (n Note) End() int64 {
	return n.Start + n.Duration
}

// PitchClass returns the pitch class 0-11 (0 = C).
func (n Note) PitchClass() uint8 {
	return n.Pitch % 12
}

// SortNotes orders a sequence by start time, ties broken by ascending
// pitch. Every stage maintains this ordering on its output.
func SortNotes(notes []Note) {
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Pitch < notes[j].Pitch
	})
}
