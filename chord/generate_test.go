package chord

import (
	"testing"

	"github.com/jsphweid/handel/model"
	"github.com/stretchr/testify/assert"
)

func cMajorInstance(start int64) model.ChordInstance {
	return model.ChordInstance{
		Start:   start,
		Root:    0,
		Quality: model.QualityMajor,
		Name:    "C",
		Notes:   model.Notes{60, 64, 67},
	}
}

func TestBlockVoicingSoundsEveryToneForTheWholeSpan(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	notes := VoiceChord(cMajorInstance(0), cfg, 1920)

	assert := assert.New(t)
	assert.Len(notes, 3)
	for _, n := range notes {
		assert.Equal(int64(0), n.Start)
		assert.Equal(int64(1920), n.Duration)
	}
	assert.Equal(uint8(60), notes[0].Pitch)
	assert.Equal(uint8(64), notes[1].Pitch)
	assert.Equal(uint8(67), notes[2].Pitch)
}

func TestArpeggioVoicingDealsTheSpanAcrossTones(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Voicing = model.VoicingArpeggio
	notes := VoiceChord(cMajorInstance(0), cfg, 1920)

	assert := assert.New(t)
	assert.Len(notes, 3)
	assert.Equal(int64(0), notes[0].Start)
	assert.Equal(int64(640), notes[1].Start)
	assert.Equal(int64(1280), notes[2].Start)
	for _, n := range notes {
		assert.Equal(int64(640), n.Duration)
	}
}

func TestBrokenVoicingAlternatesRootAndUpperTones(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Voicing = model.VoicingBroken
	notes := VoiceChord(cMajorInstance(0), cfg, 1920)

	assert := assert.New(t)
	// half-beat notes fill the span: root, third, root, fifth, ...
	assert.Len(notes, 8)
	pitches := make([]uint8, len(notes))
	for i, n := range notes {
		pitches[i] = n.Pitch
		assert.Equal(int64(240), n.Duration)
	}
	assert.Equal([]uint8{60, 64, 60, 67, 60, 64, 60, 67}, pitches)
}

func TestGenerateTagsACopyAndLeavesInputAlone(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Voicing = model.VoicingArpeggio
	input := []model.ChordInstance{cMajorInstance(0)}

	track, tagged, err := Generate(input, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.NotNil(track)
	assert.Equal(model.VoicingArpeggio, tagged[0].Voicing)
	assert.Equal(model.Voicing(""), input[0].Voicing)
}

func TestGenerateSkipsPlaceholders(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	input := []model.ChordInstance{
		{Start: 0, Quality: model.QualityNote, Name: "C", Notes: model.Notes{60}},
	}
	track, tagged, err := Generate(input, cfg)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(tagged, 1)
	// the track holds meta events only: name, tempo, meter, end-of-track
	assert.Len(track.Tracks, 1)
	assert.Len(track.Tracks[0], 4)
}

func TestGenerateRejectsBadVoicing(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Voicing = "strummed"
	_, _, err := Generate(nil, cfg)

	assert := assert.New(t)
	assert.ErrorIs(err, model.ErrConfig)
}

func TestNormalizeToOctaveDropsDoublingsAndSorts(t *testing.T) {
	// a spread voicing collapses to distinct pitch classes in one octave
	tones := normalizeToOctave(model.Notes{48, 64, 67, 72}, 4)

	assert := assert.New(t)
	assert.Equal([]uint8{60, 64, 67}, tones)
}

func TestChartListsMeasuresAndTotals(t *testing.T) {
	chords := []model.ChordInstance{
		{Start: 0, Name: "C"},
		{Start: 480, Name: "F"},
		{Start: 1920, Name: "G7"},
		{Start: 3840, Name: "C"},
	}
	chart := TextChart(chords, tm)

	assert := assert.New(t)
	assert.Contains(chart, "CHORD CHART")
	assert.Contains(chart, "Measure   1: | C | F |")
	assert.Contains(chart, "Measure   2: | G7 |")
	assert.Contains(chart, "Measure   3: | C |")
	assert.Contains(chart, "Total chords: 4")
	assert.Contains(chart, "Unique chords: 3")
	assert.Contains(chart, "C(2x)")
}

func TestChartWithNoChords(t *testing.T) {
	assert.Equal(t, "No chords detected\n", TextChart(nil, tm))
}
