package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/handel/model"
)

// TextChart renders the progression as a human-readable chart: one line
// per measure (4/4 assumed), followed by a short summary.
func TextChart(chords []model.ChordInstance, tm model.TempoMap) string {
	if len(chords) == 0 {
		return "No chords detected\n"
	}

	var b strings.Builder
	b.WriteString("CHORD CHART\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	const beatsPerMeasure = 4

	currentMeasure := -1
	var measureChords []string
	flush := func() {
		if currentMeasure > 0 && len(measureChords) > 0 {
			fmt.Fprintf(&b, "Measure %3d: | %s |\n", currentMeasure, strings.Join(measureChords, " | "))
		}
		measureChords = measureChords[:0]
	}

	for _, c := range chords {
		beat := float64(c.Start) / float64(tm.TicksPerBeat)
		measure := int(beat/beatsPerMeasure) + 1
		if measure != currentMeasure {
			flush()
			currentMeasure = measure
		}
		measureChords = append(measureChords, c.Name)
	}
	flush()

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Total chords: %d\n", len(chords))

	names := make(map[string]int)
	for _, c := range chords {
		names[c.Name]++
	}
	fmt.Fprintf(&b, "Unique chords: %d\n", len(names))

	type freq struct {
		name  string
		count int
	}
	var freqs []freq
	for name, count := range names {
		freqs = append(freqs, freq{name, count})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].count != freqs[j].count {
			return freqs[i].count > freqs[j].count
		}
		return freqs[i].name < freqs[j].name
	})
	if len(freqs) > 3 {
		freqs = freqs[:3]
	}
	var top []string
	for _, f := range freqs {
		top = append(top, fmt.Sprintf("%s(%dx)", f.name, f.count))
	}
	fmt.Fprintf(&b, "Most frequent: %s\n", strings.Join(top, ", "))

	return b.String()
}
