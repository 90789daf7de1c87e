// Package analysis derives the representative tempo and the musical key
// of a note sequence. Both are pure functions of their input; every
// downstream stage reads the results without mutating them.
package analysis

import (
	"math"

	"github.com/jsphweid/handel/constants"
	"github.com/jsphweid/handel/model"
)

// Krumhansl-Kessler key profiles.
var (
	majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// BuildTempoMap flattens the source's tempo events into the single
// representative tempo used for all downstream ms<->tick arithmetic.
// The most common tempo wins; the earliest wins a count tie. A source
// with no tempo events gets the 120 BPM default.
func BuildTempoMap(ticksPerBeat uint16, tempos []uint32) model.TempoMap {
	if ticksPerBeat == 0 {
		ticksPerBeat = constants.DefaultTicksPerBeat
	}
	tm := model.TempoMap{
		TicksPerBeat:  ticksPerBeat,
		MicrosPerBeat: constants.DefaultMicrosPerBeat,
	}
	if len(tempos) == 0 {
		return tm
	}

	counts := make(map[uint32]int)
	for _, t := range tempos {
		counts[t]++
	}
	best := tempos[0]
	for _, t := range tempos {
		if counts[t] > counts[best] {
			best = t
		}
	}
	if best > 0 {
		tm.MicrosPerBeat = best
	}
	return tm
}

// DetectKey runs the Krumhansl-Schmuckler algorithm: a duration-weighted
// pitch-class histogram is correlated against all 24 rotated key
// profiles and the argmax wins. Ties prefer major mode, then the lowest
// root pitch class. An empty sequence defaults to C major.
func DetectKey(notes []model.Note) model.Key {
	var histogram [12]float64
	var total float64
	for _, n := range notes {
		w := float64(n.Duration)
		histogram[n.PitchClass()] += w
		total += w
	}
	if total == 0 {
		return model.Key{Root: 0, Mode: model.ModeMajor}
	}
	for i := range histogram {
		histogram[i] /= total
	}

	best := model.Key{Root: 0, Mode: model.ModeMajor}
	bestCorr := math.Inf(-1)

	// Major roots are scanned before minor ones and low roots before
	// high ones, so a strict comparison encodes both tie-break rules.
	for _, mode := range []model.Mode{model.ModeMajor, model.ModeMinor} {
		profile := majorProfile
		if mode == model.ModeMinor {
			profile = minorProfile
		}
		for root := uint8(0); root < 12; root++ {
			corr := correlation(histogram, rotate(profile, root))
			if corr > bestCorr {
				bestCorr = corr
				best = model.Key{Root: root, Mode: mode}
			}
		}
	}
	return best
}

// rotate shifts a profile so index 0 lines up with the candidate root.
func rotate(profile [12]float64, root uint8) [12]float64 {
	var res [12]float64
	for i := 0; i < 12; i++ {
		res[(i+int(root))%12] = profile[i]
	}
	return res
}

// correlation is the Pearson correlation coefficient of two 12-bin vectors.
func correlation(x, y [12]float64) float64 {
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	n := float64(len(x))
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}
	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
