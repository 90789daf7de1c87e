package model

// CorrectionStats reports what the cleanup stage did to a sequence.
type CorrectionStats struct {
	TotalNotes   int    `json:"total_notes"`
	RemovedShort int    `json:"removed_short"`
	RemovedQuiet int    `json:"removed_quiet"`
	RemovedRange int    `json:"removed_range"`
	Extended     int    `json:"extended"`
	Merged       int    `json:"merged"`
	Quantized    int    `json:"quantized"`
	OutOfKey     int    `json:"out_of_key"`
	DetectedKey  string `json:"detected_key"`
	DetectedBPM  int    `json:"detected_bpm"`
}

// Remaining is the note count surviving all removal filters.
func (s CorrectionStats) Remaining() int {
	return s.TotalNotes - s.RemovedShort - s.RemovedQuiet - s.RemovedRange
}
