package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/jsphweid/handel/constants"
	"github.com/jsphweid/handel/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ReadMidiFile parses an SMF from disk.
func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("error reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("error parsing midi file: %w", err)
	}
	return res, nil
}

// ExtractNotes reduces an SMF to the pipeline's interchange contract: an
// ordered note list plus raw tempo metadata (ticks per beat and every
// set_tempo event, in microseconds per beat). Notes missing a matching
// note-off are dropped, matching the transcription collaborators.
func ExtractNotes(s *smf.SMF) ([]model.Note, uint16, []uint32) {
	type onset struct {
		start    int64
		velocity uint8
	}

	var notes []model.Note
	var tempos []uint32

	for _, track := range s.Tracks {
		var absTicks int64
		active := make(map[uint8]onset)
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			var bpm float64
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				active[key] = onset{start: absTicks, velocity: velocity}
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				if on, ok := active[key]; ok {
					if absTicks > on.start {
						notes = append(notes, model.Note{
							Pitch:    key,
							Start:    on.start,
							Duration: absTicks - on.start,
							Velocity: on.velocity,
						})
					}
					delete(active, key)
				}
			case event.Message.GetMetaTempo(&bpm):
				if bpm > 0 {
					tempos = append(tempos, uint32(60000000.0/bpm))
				}
			}
		}
	}

	model.SortNotes(notes)

	ticksPerBeat := uint16(constants.DefaultTicksPerBeat)
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok && uint16(mt) > 0 {
		ticksPerBeat = uint16(mt)
	}

	return notes, ticksPerBeat, tempos
}
