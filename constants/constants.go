package constants

import "os"

func GetOutDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

// Piano range: A0 to C8.
const MinPianoNote = 21
const MaxPianoNote = 108

// Defaults used when the source carries no tempo metadata (120 BPM).
const DefaultMicrosPerBeat = 500000
const DefaultTicksPerBeat = 480
