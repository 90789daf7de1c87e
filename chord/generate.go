package chord

import (
	"github.com/jsphweid/handel/constants"
	"github.com/jsphweid/handel/midi"
	"github.com/jsphweid/handel/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

type GeneratorConfig struct {
	Voicing model.Voicing
	// Octave is the base octave chords are voiced in (4 = the middle C
	// octave).
	Octave   int
	Velocity uint8
	BPM      int
	// TicksPerBeat of the generated file.
	TicksPerBeat uint16
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Voicing:      model.VoicingBlock,
		Octave:       4,
		Velocity:     80,
		BPM:          120,
		TicksPerBeat: constants.DefaultTicksPerBeat,
	}
}

func (c GeneratorConfig) validate() error {
	switch c.Voicing {
	case model.VoicingBlock, model.VoicingArpeggio, model.VoicingBroken:
	default:
		return model.ConfigErrorf("unknown voicing style %q", c.Voicing)
	}
	if c.Velocity > 127 {
		return model.ConfigErrorf("Velocity %d out of range [0,127]", c.Velocity)
	}
	if c.BPM <= 0 {
		return model.ConfigErrorf("BPM %d must be positive", c.BPM)
	}
	if c.TicksPerBeat == 0 {
		return model.ConfigErrorf("TicksPerBeat must be positive")
	}
	return nil
}

// Generate renders detected chords as a simplified one-track chord SMF.
// It also returns a copy of the instances tagged with the voicing used;
// the input is never mutated. Single-note placeholder and empty cells
// are skipped in the rendered track.
func Generate(chords []model.ChordInstance, cfg GeneratorConfig) (*smf.SMF, []model.ChordInstance, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	tm := model.TempoMap{
		TicksPerBeat:  cfg.TicksPerBeat,
		MicrosPerBeat: uint32(60000000 / cfg.BPM),
	}

	tagged := make([]model.ChordInstance, len(chords))
	copy(tagged, chords)

	var notes []model.Note
	for i := range tagged {
		if tagged[i].Quality == model.QualityNote || len(tagged[i].Notes) == 0 {
			continue
		}
		tagged[i].Voicing = cfg.Voicing
		notes = append(notes, VoiceChord(tagged[i], cfg, chordSpanTicks(tagged, i, tm))...)
	}

	track := midi.TempoTrackFromNotes("Chord Progression", notes, tm)
	return midi.NewSMF(cfg.TicksPerBeat, track), tagged, nil
}

// chordSpanTicks is the time a chord has before the next one starts:
// the gap to the next cell, at least one beat, or four beats for the
// final chord.
func chordSpanTicks(chords []model.ChordInstance, i int, tm model.TempoMap) int64 {
	span := int64(tm.TicksPerBeat) * 4
	if i+1 < len(chords) {
		span = chords[i+1].Start - chords[i].Start
	}
	if min := int64(tm.TicksPerBeat); span < min {
		span = min
	}
	return span
}

// VoiceChord expands one chord into notes according to the voicing
// style. Block sounds every tone for the whole span; arpeggio deals the
// span equally across ascending tones; broken alternates the root with
// each upper tone in turn (root, tone1, root, tone2, ...), half a beat
// per note, until the span is used up.
func VoiceChord(c model.ChordInstance, cfg GeneratorConfig, span int64) []model.Note {
	tones := normalizeToOctave(c.Notes, cfg.Octave)
	if len(tones) == 0 {
		return nil
	}

	var notes []model.Note
	switch cfg.Voicing {
	case model.VoicingArpeggio:
		step := span / int64(len(tones))
		if step < 1 {
			step = 1
		}
		for i, tone := range tones {
			notes = append(notes, model.Note{
				Pitch:    tone,
				Start:    c.Start + int64(i)*step,
				Duration: step,
				Velocity: cfg.Velocity,
			})
		}

	case model.VoicingBroken:
		half := int64(cfg.TicksPerBeat) / 2
		if half < 1 {
			half = 1
		}
		root := tones[0]
		upper := tones[1:]
		for slot, at := 0, int64(0); at+half <= span; slot, at = slot+1, at+half {
			pitch := root
			if slot%2 == 1 && len(upper) > 0 {
				pitch = upper[(slot/2)%len(upper)]
			}
			notes = append(notes, model.Note{
				Pitch:    pitch,
				Start:    c.Start + at,
				Duration: half,
				Velocity: cfg.Velocity,
			})
		}

	default: // block
		for _, tone := range tones {
			notes = append(notes, model.Note{
				Pitch:    tone,
				Start:    c.Start,
				Duration: span,
				Velocity: cfg.Velocity,
			})
		}
	}
	return notes
}

// normalizeToOctave rebuilds the chord's distinct pitch classes inside
// the target octave, clamped to the piano range, ascending.
func normalizeToOctave(notes model.Notes, octave int) []uint8 {
	var present [12]bool
	for _, n := range notes {
		present[n%12] = true
	}

	base := 12 * (octave + 1) // C of the target octave
	var out []uint8
	for pc := 0; pc < 12; pc++ {
		if !present[pc] {
			continue
		}
		v := base + pc
		for v < constants.MinPianoNote {
			v += 12
		}
		for v > constants.MaxPianoNote {
			v -= 12
		}
		out = append(out, uint8(v))
	}
	return out
}
