package motif

import (
	"testing"

	"github.com/jsphweid/handel/model"
	"github.com/stretchr/testify/assert"
)

// melody lays out pitch runs back to back, one note per beat.
func melody(runs ...[]uint8) []model.Note {
	var notes []model.Note
	i := 0
	for _, run := range runs {
		for _, p := range run {
			notes = append(notes, model.Note{
				Pitch:    p,
				Start:    int64(i) * 480,
				Duration: 400,
				Velocity: 80,
			})
			i++
		}
	}
	return notes
}

func TestFindsAnExactlyRepeatedPhrase(t *testing.T) {
	phrase := []uint8{60, 62, 64, 63, 65}
	notes := melody(phrase, phrase, phrase)

	cfg := DefaultConfig()
	cfg.MinLength = 5
	cfg.MaxLength = 5
	cfg.MinFrequency = 2
	cfg.TopN = 1
	motifs, err := Extract(notes, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	if assert.Len(motifs, 1) {
		assert.Equal(3, motifs[0].Frequency)
		assert.Equal([]int{2, 2, -1, 2}, motifs[0].Intervals)
		assert.Equal([]int{1, 1, 1, 1}, motifs[0].Rhythm)
		assert.Equal([]int{0, 5, 10}, motifs[0].Occurrences)
		assert.Equal(model.MatchExact, motifs[0].MatchType)
		assert.Len(motifs[0].Notes, 5)
	}
}

func TestBoundaryWindowsDoNotMasqueradeAsMotifs(t *testing.T) {
	// windows straddling two repeats also occur twice each, but they
	// are artifacts of the repetition, not phrases of their own
	phrase := []uint8{60, 62, 64, 63, 65}
	notes := melody(phrase, phrase, phrase)

	cfg := DefaultConfig()
	cfg.MinLength = 5
	cfg.MaxLength = 5
	cfg.MinFrequency = 2
	cfg.TopN = 10
	motifs, err := Extract(notes, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	if assert.Len(motifs, 1) {
		assert.Equal(3, motifs[0].Frequency)
	}
}

func TestRepeatsAreTranspositionInvariant(t *testing.T) {
	// the same contour a fifth apart still counts as one pattern
	notes := melody([]uint8{60, 62, 64, 65}, []uint8{67, 69, 71, 72})

	cfg := DefaultConfig()
	cfg.MinLength = 4
	cfg.MaxLength = 4
	cfg.MinFrequency = 2
	motifs, err := Extract(notes, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(motifs, 1)
	assert.Equal([]int{2, 2, 1}, motifs[0].Intervals)
	assert.Equal(2, motifs[0].Frequency)
	assert.Equal([]int{0, 4}, motifs[0].Occurrences)
}

func TestRepeatsAreTempoInvariant(t *testing.T) {
	// same phrase played twice as fast: normalized rhythm still matches
	phrase := []uint8{60, 62, 64, 65}
	var notes []model.Note
	for i, p := range phrase {
		notes = append(notes, model.Note{Pitch: p, Start: int64(i) * 240, Duration: 200, Velocity: 80})
	}
	for i, p := range phrase {
		notes = append(notes, model.Note{Pitch: p, Start: 5000 + int64(i)*480, Duration: 400, Velocity: 80})
	}

	cfg := DefaultConfig()
	cfg.MinLength = 4
	cfg.MaxLength = 4
	cfg.MinFrequency = 2
	motifs, err := Extract(notes, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(motifs, 1)
	assert.Equal(2, motifs[0].Frequency)
	assert.Equal(model.MatchExact, motifs[0].MatchType)
	assert.Equal([]int{1, 1, 1}, motifs[0].Rhythm)
}

func TestGroupsLightlyVariedRepeats(t *testing.T) {
	// one interval differs: similarity 4/5 clears the 0.75 threshold
	notes := melody([]uint8{60, 62, 64, 62, 60, 62}, []uint8{60, 62, 64, 62, 60, 64})

	cfg := DefaultConfig()
	cfg.MinLength = 6
	cfg.MaxLength = 6
	cfg.MinFrequency = 2
	cfg.TopN = 10
	motifs, err := Extract(notes, cfg)

	assert := assert.New(t)
	assert.NoError(err)

	var found *model.Motif
	for i := range motifs {
		if motifs[i].Occurrences[0] == 0 {
			found = &motifs[i]
			break
		}
	}
	if assert.NotNil(found) {
		assert.Equal(2, found.Frequency)
		assert.Equal(model.MatchApproximate, found.MatchType)
		assert.Equal([]int{0, 6}, found.Occurrences)
	}
}

func TestTooFewNotesYieldsNothing(t *testing.T) {
	motifs, err := Extract(melody([]uint8{60, 62, 64}), DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(motifs)
}

func TestNoRepeatsIsNotAnError(t *testing.T) {
	// strictly rising chromatic line: every window is the same pattern,
	// but nothing repeats at MinFrequency 2 except overlapping windows
	notes := melody([]uint8{60, 67, 61, 72, 58, 71, 65, 80, 62, 77})

	cfg := DefaultConfig()
	cfg.MinLength = 8
	cfg.MaxLength = 8
	cfg.MinFrequency = 2
	motifs, err := Extract(notes, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(motifs)
}

func TestTopNCapsTheResult(t *testing.T) {
	phrase := []uint8{60, 62, 64, 65}
	notes := melody(phrase, phrase)

	cfg := DefaultConfig()
	cfg.MinLength = 4
	cfg.MaxLength = 4
	cfg.MinFrequency = 1
	cfg.TopN = 1
	motifs, err := Extract(notes, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(motifs, 1)
}

func TestRejectsBadConfig(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.MinLength = 1
	_, err := Extract(nil, cfg)
	assert.ErrorIs(err, model.ErrConfig)

	cfg = DefaultConfig()
	cfg.SimilarityThreshold = 1.5
	_, err = Extract(nil, cfg)
	assert.ErrorIs(err, model.ErrConfig)
}
