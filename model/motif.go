package model

// MatchType tags how a motif group's members were matched.
type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchApproximate MatchType = "approximate"
)

// Motif is a recurring (or unique but significant) note subsequence,
// represented transposition-invariantly by its interval sequence and
// tempo-invariantly by its normalized rhythm pattern.
type Motif struct {
	Intervals []int `json:"intervals"`
	Rhythm    []int `json:"rhythm"`

	Frequency int `json:"frequency"`
	// Occurrences holds the start indices (into the source sequence) of
	// every occurrence across the whole group.
	Occurrences []int     `json:"occurrences"`
	Score       float64   `json:"score"`
	MatchType   MatchType `json:"match_type"`

	// Notes is the first occurrence's note run, exportable as its own
	// sequence.
	Notes []Note `json:"notes"`
}

// Length is the motif length in notes.
func (m Motif) Length() int {
	return len(m.Intervals) + 1
}
