package pipeline

import (
	"testing"

	"github.com/jsphweid/handel/model"
	"github.com/stretchr/testify/assert"
)

func cMajorScale() []model.Note {
	pitches := []uint8{60, 62, 64, 65, 67, 69, 71, 72}
	var notes []model.Note
	for i, p := range pitches {
		notes = append(notes, model.Note{
			Pitch:    p,
			Start:    int64(i) * 480,
			Duration: 480,
			Velocity: 80,
		})
	}
	return notes
}

func TestEmptyInputIsRejected(t *testing.T) {
	_, err := Run(nil, 480, nil, DefaultConfig())

	assert := assert.New(t)
	assert.ErrorIs(err, model.ErrInvalidInput)
}

func TestMalformedNotesAreRejected(t *testing.T) {
	notes := []model.Note{{Pitch: 200, Start: 0, Duration: 480, Velocity: 80}}
	_, err := Run(notes, 480, nil, DefaultConfig())

	assert := assert.New(t)
	assert.ErrorIs(err, model.ErrInvalidInput)
}

func TestFullRunOverACMajorScale(t *testing.T) {
	res, err := Run(cMajorScale(), 480, nil, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("C major", res.Key.String())
	assert.Equal(120.0, res.TempoMap.BPM())
	assert.Equal(8, res.Stats.TotalNotes)
	assert.Len(res.Corrected, 8)
	assert.Equal(8, len(res.Right)+len(res.Left))
	assert.Len(res.Chords, 8)
	assert.NotNil(res.ChordTrack)
	assert.Contains(res.Chart, "CHORD CHART")
	assert.Empty(res.Motifs)
}

func TestTempoEventsDriveTheBPM(t *testing.T) {
	res, err := Run(cMajorScale(), 480, []uint32{400000}, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(150.0, res.TempoMap.BPM())
	assert.Equal(150, res.Stats.DetectedBPM)
}

func TestEveryOutputNoteCarriesAHand(t *testing.T) {
	res, err := Run(cMajorScale(), 480, nil, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	for _, n := range res.Right {
		assert.Equal(model.HandRight, n.Hand)
	}
	for _, n := range res.Left {
		assert.Equal(model.HandLeft, n.Hand)
	}
}

func TestIdenticalRunsProduceIdenticalResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExtractMotifs = true
	cfg.Motifs.MinLength = 4
	cfg.Motifs.MaxLength = 6
	cfg.QuantizeEnabled = true

	first, err1 := Run(cMajorScale(), 480, nil, cfg)
	second, err2 := Run(cMajorScale(), 480, nil, cfg)

	assert := assert.New(t)
	assert.NoError(err1)
	assert.NoError(err2)
	assert.Equal(first.Corrected, second.Corrected)
	assert.Equal(first.Right, second.Right)
	assert.Equal(first.Left, second.Left)
	assert.Equal(first.Chords, second.Chords)
	assert.Equal(first.Chart, second.Chart)
	assert.Equal(first.Motifs, second.Motifs)
}

func TestMotifExtractionIsOptIn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExtractMotifs = true
	cfg.Motifs.MinLength = 4
	cfg.Motifs.MaxLength = 6
	cfg.Motifs.MinFrequency = 1

	res, err := Run(cMajorScale(), 480, nil, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.NotEmpty(res.Motifs)
}

func TestQuantizedCountsOnlyMovedOnsets(t *testing.T) {
	notes := cMajorScale()
	notes[1].Start = 490 // the only off-grid onset

	cfg := DefaultConfig()
	cfg.QuantizeEnabled = true
	res, err := Run(notes, 480, nil, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(1, res.Stats.Quantized)
	assert.Equal(int64(485), res.Corrected[1].Start)
}

func TestQuantizeIsSkippedWhenDisabled(t *testing.T) {
	notes := cMajorScale()
	notes[1].Start = 490 // slightly off the grid

	res, err := Run(notes, 480, nil, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(int64(490), res.Corrected[1].Start)
	assert.Equal(0, res.Stats.Quantized)
}
