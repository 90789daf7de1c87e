// Package chord groups simultaneous notes into beat-grid cells,
// classifies each cell against a closed template set, and renders the
// result as a simplified chord track and a text chart.
package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/handel/model"
)

// template intervals are semitones from the root. Order matters: the
// matcher scans simple templates first, so score ties resolve to the
// simpler quality (triads over sevenths over ninths).
type template struct {
	quality   model.Quality
	intervals []uint8
}

var templates = []template{
	{model.QualityMajor, []uint8{0, 4, 7}},
	{model.QualityMinor, []uint8{0, 3, 7}},
	{model.QualityDim, []uint8{0, 3, 6}},
	{model.QualityAug, []uint8{0, 4, 8}},
	{model.QualitySus2, []uint8{0, 2, 7}},
	{model.QualitySus4, []uint8{0, 5, 7}},
	{model.QualitySixth, []uint8{0, 4, 7, 9}},
	{model.QualityMinSixth, []uint8{0, 3, 7, 9}},
	{model.QualityDom7, []uint8{0, 4, 7, 10}},
	{model.QualityMaj7, []uint8{0, 4, 7, 11}},
	{model.QualityMin7, []uint8{0, 3, 7, 10}},
	{model.QualityMinMaj7, []uint8{0, 3, 7, 11}},
	{model.QualityDim7, []uint8{0, 3, 6, 9}},
	{model.QualityHalfDim7, []uint8{0, 3, 6, 10}},
	{model.QualityDom9, []uint8{0, 2, 4, 7, 10}},
	{model.QualityMaj9, []uint8{0, 2, 4, 7, 11}},
}

// qualitySymbols maps qualities to chart suffixes.
var qualitySymbols = map[model.Quality]string{
	model.QualityMajor:    "",
	model.QualityMinor:    "m",
	model.QualityDim:      "dim",
	model.QualityAug:      "aug",
	model.QualitySus2:     "sus2",
	model.QualitySus4:     "sus4",
	model.QualitySixth:    "6",
	model.QualityMinSixth: "m6",
	model.QualityDom7:     "7",
	model.QualityMaj7:     "maj7",
	model.QualityMin7:     "m7",
	model.QualityMinMaj7:  "mM7",
	model.QualityDim7:     "dim7",
	model.QualityHalfDim7: "m7b5",
	model.QualityDom9:     "9",
	model.QualityMaj9:     "maj9",
}

type Config struct {
	// GridBeats is the quantization cell size in beats (1.0 = quarter
	// note grid).
	GridBeats float64
	// MinScore is the containment score a template must reach before a
	// cell is named; below it the cell is labeled unknown.
	MinScore float64
}

func DefaultConfig() Config {
	return Config{GridBeats: 1.0, MinScore: 0.6}
}

func (c Config) validate() error {
	if c.GridBeats <= 0 {
		return model.ConfigErrorf("GridBeats %v must be positive", c.GridBeats)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return model.ConfigErrorf("MinScore %v must be within [0,1]", c.MinScore)
	}
	return nil
}

// Detect quantizes note onsets to the beat grid and classifies each
// non-empty cell. Cells with fewer than two distinct pitch classes
// become single-note placeholders rather than guessed chords. A sequence
// with no qualifying cells yields an empty (not nil-error) result.
func Detect(notes []model.Note, tm model.TempoMap, cfg Config) ([]model.ChordInstance, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	gridTicks := int64(float64(tm.TicksPerBeat) * cfg.GridBeats)
	if gridTicks < 1 {
		gridTicks = 1
	}

	cells := make(map[int64][]uint8)
	for _, n := range notes {
		cell := (n.Start / gridTicks) * gridTicks
		cells[cell] = append(cells[cell], n.Pitch)
	}

	var instances []model.ChordInstance
	starts := make([]int64, 0, len(cells))
	for start := range cells {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	for _, start := range starts {
		pitches := dedupeSorted(cells[start])
		inst := identify(pitches, cfg.MinScore)
		inst.Start = start
		inst.Duration = gridTicks
		instances = append(instances, inst)
	}
	return instances, nil
}

// Identify names the chord formed by a set of held pitches, outside any
// grid. The input is copied, deduped and sorted first.
func Identify(pitches []uint8, minScore float64) model.ChordInstance {
	return identify(dedupeSorted(append([]uint8(nil), pitches...)), minScore)
}

func dedupeSorted(pitches []uint8) []uint8 {
	sort.Slice(pitches, func(i, j int) bool { return pitches[i] < pitches[j] })
	out := pitches[:0]
	for i, p := range pitches {
		if i == 0 || p != pitches[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// identify names the chord formed by a cell's pitches. Templates are
// scored by pitch-class-set containment (|intersection| / |union|, plus
// a bonus for an exact set match); a strict comparison over the fixed
// simple-first template order and ascending roots makes every tie-break
// deterministic: simpler type first, then lowest root pitch class.
func identify(pitches []uint8, minScore float64) model.ChordInstance {
	inst := model.ChordInstance{Notes: append(model.Notes{}, pitches...)}

	var present [12]bool
	count := 0
	for _, p := range pitches {
		if !present[p%12] {
			present[p%12] = true
			count++
		}
	}

	if count < 2 {
		inst.Quality = model.QualityNote
		if len(pitches) > 0 {
			inst.Root = pitches[0] % 12
			inst.Name = model.NoteNames[inst.Root]
		}
		return inst
	}

	bestScore := 0.0
	var bestQuality model.Quality
	var bestRoot uint8

	for _, tpl := range templates {
		for root := uint8(0); root < 12; root++ {
			var expected [12]bool
			for _, interval := range tpl.intervals {
				expected[(root+interval)%12] = true
			}

			matched, union := 0, 0
			exact := true
			for pc := 0; pc < 12; pc++ {
				switch {
				case present[pc] && expected[pc]:
					matched++
					union++
				case present[pc] || expected[pc]:
					union++
					exact = false
				}
			}

			score := float64(matched) / float64(union)
			if exact {
				score += 0.5
			}
			if score > bestScore {
				bestScore = score
				bestQuality = tpl.quality
				bestRoot = root
			}
		}
	}

	if bestScore >= minScore {
		inst.Quality = bestQuality
		inst.Root = bestRoot
		inst.Name = model.NoteNames[bestRoot] + qualitySymbols[bestQuality]
		return inst
	}

	// No template fits: spell out the pitch classes instead of guessing.
	inst.Quality = model.QualityUnknown
	inst.Root = inst.PitchClasses()[0]
	var names []string
	for _, pc := range inst.PitchClasses() {
		names = append(names, model.NoteNames[pc])
	}
	inst.Name = fmt.Sprintf("[%s]", strings.Join(names, "+"))
	return inst
}
