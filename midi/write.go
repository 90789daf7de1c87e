package midi

import (
	"sort"

	"github.com/jsphweid/handel/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type noteEvent struct {
	tick     int64
	off      bool
	pitch    uint8
	velocity uint8
}

// noteEvents flattens notes into on/off events. Note-offs sort before
// note-ons at the same tick so repeated pitches never overlap.
func noteEvents(notes []model.Note) []noteEvent {
	events := make([]noteEvent, 0, len(notes)*2)
	for _, n := range notes {
		events = append(events,
			noteEvent{tick: n.Start, off: false, pitch: n.Pitch, velocity: n.Velocity},
			noteEvent{tick: n.End(), off: true, pitch: n.Pitch},
		)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		if events[i].off != events[j].off {
			return events[i].off
		}
		return events[i].pitch < events[j].pitch
	})
	return events
}

func addNoteEvents(track *smf.Track, notes []model.Note) {
	var prev int64
	for _, evt := range noteEvents(notes) {
		delta := uint32(evt.tick - prev)
		if evt.off {
			track.Add(delta, midi.NoteOff(0, evt.pitch))
		} else {
			track.Add(delta, midi.NoteOn(0, evt.pitch, evt.velocity))
		}
		prev = evt.tick
	}
}

// TrackFromNotes turns a note run into a named, closed SMF track.
func TrackFromNotes(name string, notes []model.Note) smf.Track {
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	addNoteEvents(&track, notes)
	track.Close(0)
	return track
}

// TempoTrackFromNotes is TrackFromNotes plus tempo and 4/4 meter meta
// messages at tick zero.
func TempoTrackFromNotes(name string, notes []model.Note, tm model.TempoMap) smf.Track {
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	track.Add(0, smf.MetaTempo(tm.BPM()))
	track.Add(0, smf.MetaMeter(4, 4))
	addNoteEvents(&track, notes)
	track.Close(0)
	return track
}

// NewSMF assembles tracks into a single SMF at the given resolution.
func NewSMF(ticksPerBeat uint16, tracks ...smf.Track) *smf.SMF {
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(ticksPerBeat)
	s.Tracks = append(s.Tracks, tracks...)
	return &s
}

// WriteScore writes the hand-separated output: track 0 right hand,
// track 1 left hand, both carrying the representative tempo.
func WriteScore(path string, right, left []model.Note, tm model.TempoMap) error {
	s := NewSMF(tm.TicksPerBeat,
		TempoTrackFromNotes("Right Hand", right, tm),
		TempoTrackFromNotes("Left Hand", left, tm),
	)
	return s.WriteFile(path)
}

// WritePhrase writes one extracted motif as a standalone SMF, its first
// onset normalized to tick zero.
func WritePhrase(path string, motif model.Motif, tm model.TempoMap) error {
	notes := make([]model.Note, len(motif.Notes))
	copy(notes, motif.Notes)
	if len(notes) > 0 {
		base := notes[0].Start
		for i := range notes {
			notes[i].Start -= base
		}
	}
	s := NewSMF(tm.TicksPerBeat, TempoTrackFromNotes("Musical Phrase", notes, tm))
	return s.WriteFile(path)
}
