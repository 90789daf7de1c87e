package model

// Mode is the mode of a detected key.
type Mode uint8

const (
	ModeMajor Mode = iota
	ModeMinor
)

func (m Mode) String() string {
	if m == ModeMinor {
		return "minor"
	}
	return "major"
}

// Key is the detected key of a piece: root pitch class 0-11 plus mode.
// Used only for advisory out-of-key flags, never to delete notes.
type Key struct {
	Root uint8
	Mode Mode
}

// Semitone offsets of the diatonic scale degrees from the root.
var (
	majorScale = [7]uint8{0, 2, 4, 5, 7, 9, 11}
	minorScale = [7]uint8{0, 2, 3, 5, 7, 8, 10}
)

// Contains reports whether a pitch class belongs to the key's diatonic set.
func (k Key) Contains(pitchClass uint8) bool {
	scale := majorScale
	if k.Mode == ModeMinor {
		scale = minorScale
	}
	for _, step := range scale {
		if (k.Root+step)%12 == pitchClass%12 {
			return true
		}
	}
	return false
}

func (k Key) String() string {
	return NoteNames[k.Root%12] + " " + k.Mode.String()
}

// NoteNames maps pitch classes to display names.
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
