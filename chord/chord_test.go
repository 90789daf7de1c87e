package chord

import (
	"testing"

	"github.com/jsphweid/handel/model"
	"github.com/stretchr/testify/assert"
)

var tm = model.TempoMap{TicksPerBeat: 480, MicrosPerBeat: 500000}

func cell(start int64, pitches ...uint8) []model.Note {
	var notes []model.Note
	for _, p := range pitches {
		notes = append(notes, model.Note{
			Pitch:    p,
			Start:    start,
			Duration: 480,
			Velocity: 80,
		})
	}
	return notes
}

func TestDetectsCMajorTriad(t *testing.T) {
	out, err := Detect(cell(0, 60, 64, 67), tm, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(out, 1)
	assert.Equal("C", out[0].Name)
	assert.Equal(model.QualityMajor, out[0].Quality)
	assert.Equal(uint8(0), out[0].Root)
}

func TestDetectsDominantSeventh(t *testing.T) {
	out, err := Detect(cell(0, 55, 59, 62, 65), tm, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(out, 1)
	assert.Equal("G7", out[0].Name)
	assert.Equal(model.QualityDom7, out[0].Quality)
	assert.Equal(uint8(7), out[0].Root)
}

func TestSingleNoteCellBecomesPlaceholder(t *testing.T) {
	out, err := Detect(cell(0, 60), tm, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(out, 1)
	assert.Equal(model.QualityNote, out[0].Quality)
	assert.Equal("C", out[0].Name)
}

func TestOctaveDoublingIsStillAPlaceholder(t *testing.T) {
	out, err := Detect(cell(0, 60, 72), tm, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(out, 1)
	assert.Equal(model.QualityNote, out[0].Quality)
}

func TestUnmatchedClusterIsSpelledOut(t *testing.T) {
	out, err := Detect(cell(0, 60, 61, 62), tm, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(out, 1)
	assert.Equal(model.QualityUnknown, out[0].Quality)
	assert.Equal("[C+C#+D]", out[0].Name)
}

func TestAmbiguousSetPrefersTheSimplerQuality(t *testing.T) {
	// C6 and Am7 share the same pitch classes; the sixth wins
	out, err := Detect(cell(0, 60, 64, 67, 69), tm, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("C6", out[0].Name)
	assert.Equal(model.QualitySixth, out[0].Quality)
}

func TestNotesInTheSameBeatShareACell(t *testing.T) {
	notes := append(cell(0, 60), append(cell(100, 64), cell(200, 67)...)...)
	out, err := Detect(notes, tm, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(out, 1)
	assert.Equal("C", out[0].Name)
}

func TestCellsComeOutInOnsetOrder(t *testing.T) {
	notes := append(cell(1920, 67, 71, 74), cell(0, 60, 64, 67)...)
	out, err := Detect(notes, tm, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(out, 2)
	assert.Equal("C", out[0].Name)
	assert.Equal("G", out[1].Name)
	assert.Equal(int64(0), out[0].Start)
	assert.Equal(int64(1920), out[1].Start)
}

func TestIdentifyHeldNotes(t *testing.T) {
	inst := Identify([]uint8{67, 60, 64, 60}, DefaultConfig().MinScore)

	assert := assert.New(t)
	assert.Equal("C", inst.Name)
	assert.Equal(model.QualityMajor, inst.Quality)
}

func TestEmptyInputYieldsNoChords(t *testing.T) {
	out, err := Detect(nil, tm, DefaultConfig())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(out)
}

func TestRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridBeats = 0
	_, err := Detect(nil, tm, cfg)

	assert := assert.New(t)
	assert.ErrorIs(err, model.ErrConfig)
}
