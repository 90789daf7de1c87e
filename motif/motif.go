// Package motif finds the most musically significant repeated (or
// unique) note subsequences. Candidates are represented transposition-
// invariantly as interval sequences and tempo-invariantly as normalized
// rhythm patterns; approximate repeats are grouped by edit-distance
// similarity. Complexity is quadratic in note count, fine for
// single-piece inputs.
package motif

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jsphweid/handel/model"
)

type Config struct {
	MinLength int
	MaxLength int
	// MinFrequency 1 allows unique but significant phrases through.
	MinFrequency int
	// SimilarityThreshold groups lightly varied repeats: candidates
	// whose normalized interval edit distance stays above it merge.
	SimilarityThreshold float64
	// TopN phrases to return.
	TopN int
	// OptimalLength is where the length score peaks.
	OptimalLength int
	// LowRegister/HighRegister bound the comfortable melody register;
	// phrases starting outside it are penalized.
	LowRegister  uint8
	HighRegister uint8
}

func DefaultConfig() Config {
	return Config{
		MinLength:           8,
		MaxLength:           20,
		MinFrequency:        1,
		SimilarityThreshold: 0.75,
		TopN:                1,
		OptimalLength:       8,
		LowRegister:         36, // C2
		HighRegister:        84, // C6
	}
}

func (c Config) validate() error {
	if c.MinLength < 2 {
		return model.ConfigErrorf("MinLength %d must be at least 2", c.MinLength)
	}
	if c.MinLength > c.MaxLength {
		return model.ConfigErrorf("MinLength %d must be <= MaxLength %d", c.MinLength, c.MaxLength)
	}
	if c.MinFrequency < 1 {
		return model.ConfigErrorf("MinFrequency %d must be at least 1", c.MinFrequency)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return model.ConfigErrorf("SimilarityThreshold %v must be within [0,1]", c.SimilarityThreshold)
	}
	if c.TopN < 1 {
		return model.ConfigErrorf("TopN %d must be at least 1", c.TopN)
	}
	if c.OptimalLength < 1 {
		return model.ConfigErrorf("OptimalLength %d must be at least 1", c.OptimalLength)
	}
	return nil
}

// candidate is one exact pattern group: every window sharing the same
// interval sequence and normalized rhythm.
type candidate struct {
	intervals []int
	rhythm    []int
	starts    []int // window start indices in the source sequence
}

// Extract returns the top-N scored phrase groups. "No significant
// repeats" is a legitimate musical fact: an empty result, not an error.
func Extract(notes []model.Note, cfg Config) ([]model.Motif, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(notes) < cfg.MinLength {
		return nil, nil
	}

	groups := collectExact(notes, cfg)
	merged := suppressSeams(mergeSimilar(groups, cfg))

	var motifs []model.Motif
	for _, g := range merged {
		if len(g.starts) < cfg.MinFrequency {
			continue
		}
		first := g.members[0]
		length := len(first.intervals) + 1
		startPitch := notes[g.starts[0]].Pitch

		m := model.Motif{
			Intervals:   first.intervals,
			Rhythm:      first.rhythm,
			Frequency:   len(g.starts),
			Occurrences: g.starts,
			MatchType:   model.MatchExact,
			Notes:       append([]model.Note(nil), notes[g.starts[0]:g.starts[0]+length]...),
		}
		if len(g.members) > 1 {
			m.MatchType = model.MatchApproximate
		}
		m.Score = score(first.intervals, first.rhythm, len(g.starts), startPitch, cfg)
		motifs = append(motifs, m)
	}

	sort.Slice(motifs, func(i, j int) bool {
		if motifs[i].Score != motifs[j].Score {
			return motifs[i].Score > motifs[j].Score
		}
		if motifs[i].Frequency != motifs[j].Frequency {
			return motifs[i].Frequency > motifs[j].Frequency
		}
		return motifs[i].Occurrences[0] < motifs[j].Occurrences[0]
	})
	if len(motifs) > cfg.TopN {
		motifs = motifs[:cfg.TopN]
	}
	return motifs, nil
}

// collectExact enumerates every candidate window in the allowed length
// range and groups identical representations, keyed deterministically.
func collectExact(notes []model.Note, cfg Config) []candidate {
	byKey := make(map[string]*candidate)
	var keys []string

	maxLength := cfg.MaxLength
	if maxLength > len(notes) {
		maxLength = len(notes)
	}

	for length := cfg.MinLength; length <= maxLength; length++ {
		for i := 0; i+length <= len(notes); i++ {
			window := notes[i : i+length]
			intervals := intervalsOf(window)
			rhythm := rhythmOf(window)
			key := patternKey(intervals, rhythm)

			c, ok := byKey[key]
			if !ok {
				c = &candidate{intervals: intervals, rhythm: rhythm}
				byKey[key] = c
				keys = append(keys, key)
			}
			c.starts = append(c.starts, i)
		}
	}

	// keys preserve discovery order: shorter patterns first, then
	// earlier positions, keeping everything downstream deterministic.
	out := make([]candidate, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}

// intervalsOf is the successive pitch-difference sequence, which is
// invariant under transposition.
func intervalsOf(window []model.Note) []int {
	intervals := make([]int, len(window)-1)
	for i := 0; i < len(window)-1; i++ {
		intervals[i] = int(window[i+1].Pitch) - int(window[i].Pitch)
	}
	return intervals
}

// rhythmOf is the inter-onset interval sequence normalized to its
// smallest positive member, which is invariant under tempo.
func rhythmOf(window []model.Note) []int {
	iois := make([]int64, len(window)-1)
	min := int64(0)
	for i := 0; i < len(window)-1; i++ {
		iois[i] = window[i+1].Start - window[i].Start
		if iois[i] > 0 && (min == 0 || iois[i] < min) {
			min = iois[i]
		}
	}
	rhythm := make([]int, len(iois))
	for i, ioi := range iois {
		if min > 0 {
			rhythm[i] = int(math.Round(float64(ioi) / float64(min)))
		} else {
			rhythm[i] = int(ioi)
		}
	}
	return rhythm
}

func patternKey(intervals, rhythm []int) string {
	var b strings.Builder
	for _, v := range intervals {
		fmt.Fprintf(&b, "%d,", v)
	}
	b.WriteByte('|')
	for _, v := range rhythm {
		fmt.Fprintf(&b, "%d,", v)
	}
	return b.String()
}

type group struct {
	members []candidate
	starts  []int
}

// mergeSimilar folds candidates whose interval sequences are within the
// similarity threshold of an earlier candidate into that candidate's
// group. Similarity = 1 - editDistance/length, over equal-length
// interval sequences only.
func mergeSimilar(cands []candidate, cfg Config) []group {
	var groups []group
	used := make([]bool, len(cands))

	for i := range cands {
		if used[i] {
			continue
		}
		used[i] = true
		g := group{
			members: []candidate{cands[i]},
			starts:  append([]int(nil), cands[i].starts...),
		}

		for j := i + 1; j < len(cands); j++ {
			if used[j] || len(cands[j].intervals) != len(cands[i].intervals) {
				continue
			}
			dist := editDistance(cands[i].intervals, cands[j].intervals)
			maxLen := len(cands[i].intervals)
			if maxLen < 1 {
				maxLen = 1
			}
			similarity := 1.0 - float64(dist)/float64(maxLen)
			if similarity >= cfg.SimilarityThreshold {
				used[j] = true
				g.members = append(g.members, cands[j])
				g.starts = append(g.starts, cands[j].starts...)
			}
		}

		sort.Ints(g.starts)
		groups = append(groups, g)
	}
	return groups
}

// suppressSeams drops groups that exist only because candidate windows
// overlap: when every occurrence of a pattern straddles occurrences of a
// strictly more frequent pattern, it is a boundary slice of that
// pattern's repeats rather than a phrase of its own, and letting it
// compete would let a seam outrank the real repeat.
func suppressSeams(groups []group) []group {
	out := make([]group, 0, len(groups))
	for i, g := range groups {
		gLen := len(g.members[0].intervals) + 1
		seam := false
		for j, h := range groups {
			if j == i || len(h.starts) <= len(g.starts) {
				continue
			}
			hLen := len(h.members[0].intervals) + 1
			if straddles(g.starts, gLen, h.starts, hLen) {
				seam = true
				break
			}
		}
		if !seam {
			out = append(out, g)
		}
	}
	return out
}

// straddles reports whether every window in starts overlaps at least one
// window in others.
func straddles(starts []int, length int, others []int, otherLength int) bool {
	for _, s := range starts {
		overlapped := false
		for _, o := range others {
			if s < o+otherLength && o < s+length {
				overlapped = true
				break
			}
		}
		if !overlapped {
			return false
		}
	}
	return true
}

// editDistance is the standard Levenshtein dynamic program over two
// interval sequences, bounded by the max phrase length.
func editDistance(a, b []int) int {
	m, n := len(a), len(b)
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min3(prev[j], curr[j-1], prev[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// score combines log-scaled frequency, a length term peaking at the
// configured optimum, melodic interest (70% stepwise motion is ideal),
// rhythmic variety, octave-normalized pitch range, and penalties for
// monotone repetition and extreme registers.
func score(intervals []int, rhythm []int, frequency int, startPitch uint8, cfg Config) float64 {
	freqScore := math.Log1p(float64(frequency)) * 2.0

	length := float64(len(intervals) + 1)
	opt := float64(cfg.OptimalLength)
	lengthScore := math.Min(length/opt, opt/length) * 5.0

	var melodicScore float64
	if len(intervals) > 0 {
		steps, repeated := 0, 0
		for _, iv := range intervals {
			if iv == 0 {
				repeated++
			}
			if iv >= -2 && iv <= 2 {
				steps++
			}
		}
		stepRatio := float64(steps) / float64(len(intervals))
		melodicScore = (1 - math.Abs(stepRatio-0.7)) * 2.5

		repeatedRatio := float64(repeated) / float64(len(intervals))
		switch {
		case repeatedRatio > 0.5:
			melodicScore -= 3.0
		case repeatedRatio > 0.3:
			melodicScore -= 1.0
		}
	}

	unique := make(map[int]bool)
	for _, r := range rhythm {
		unique[r] = true
	}
	rhythmScore := math.Min(float64(len(unique))/3.0, 1.0) * 1.5

	var rangeScore float64
	if len(intervals) > 0 {
		rel, lo, hi := 0, 0, 0
		for _, iv := range intervals {
			rel += iv
			if rel < lo {
				lo = rel
			}
			if rel > hi {
				hi = rel
			}
		}
		pitchRange := float64(hi - lo)
		if pitchRange >= 3 {
			rangeScore = math.Min(pitchRange/12.0, 1.0) * 2.0
		} else {
			rangeScore = -1.0
		}
	}

	var registerPenalty float64
	if startPitch < cfg.LowRegister || startPitch > cfg.HighRegister {
		registerPenalty = -1.0
	}

	total := freqScore + lengthScore + melodicScore + rhythmScore + rangeScore + registerPenalty
	if total < 0 {
		return 0
	}
	return total
}
