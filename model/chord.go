package model

type Notes = []uint8

// Quality is a chord type label from the detector's closed template set.
type Quality string

const (
	QualityMajor    Quality = "major"
	QualityMinor    Quality = "minor"
	QualityDim      Quality = "diminished"
	QualityAug      Quality = "augmented"
	QualitySus2     Quality = "sus2"
	QualitySus4     Quality = "sus4"
	QualitySixth    Quality = "sixth"
	QualityMinSixth Quality = "minorSixth"
	QualityDom7     Quality = "dominant7"
	QualityMaj7     Quality = "major7"
	QualityMin7     Quality = "minor7"
	QualityMinMaj7  Quality = "minorMaj7"
	QualityDim7     Quality = "diminished7"
	QualityHalfDim7 Quality = "halfDiminished7"
	QualityDom9     Quality = "dominant9"
	QualityMaj9     Quality = "major9"

	// QualityNote marks a grid cell with fewer than two distinct pitch
	// classes: a single-note placeholder, not a guessed chord.
	QualityNote Quality = "note"
	// QualityUnknown marks a cell that matched no template well enough.
	QualityUnknown Quality = "unknown"
)

// Voicing is the temporal arrangement of a rendered chord.
type Voicing string

const (
	VoicingBlock    Voicing = "block"
	VoicingArpeggio Voicing = "arpeggio"
	VoicingBroken   Voicing = "broken"
)

// ChordInstance is one detected chord occupying a single beat-grid cell.
type ChordInstance struct {
	Start    int64   `json:"start"`
	Duration int64   `json:"duration"`
	Root     uint8   `json:"root"`
	Quality  Quality `json:"quality"`
	Name     string  `json:"name"`
	Notes    Notes   `json:"notes"`
	Voicing  Voicing `json:"voicing,omitempty"`
}

// PitchClasses returns the distinct pitch classes of the cell, ascending.
func (c ChordInstance) PitchClasses() []uint8 {
	var seen [12]bool
	for _, n := range c.Notes {
		seen[n%12] = true
	}
	var res []uint8
	for pc := uint8(0); pc < 12; pc++ {
		if seen[pc] {
			res = append(res, pc)
		}
	}
	return res
}
