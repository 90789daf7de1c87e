package model

// ProcessRequestBody is the serve endpoint's input contract: a raw note
// list plus optional tempo metadata.
type ProcessRequestBody struct {
	Notes         []Note `json:"notes"`
	TicksPerBeat  uint16 `json:"ticks_per_beat,omitempty"`
	MicrosPerBeat uint32 `json:"micros_per_beat,omitempty"`

	ExtractMotifs bool `json:"extract_motifs,omitempty"`
}

// ProcessResponse carries everything the pipeline produced for one request.
type ProcessResponse struct {
	ID    string          `json:"id"`
	Key   string          `json:"key"`
	BPM   float64         `json:"bpm"`
	Stats CorrectionStats `json:"stats"`

	Right  []Note          `json:"right"`
	Left   []Note          `json:"left"`
	Chords []ChordInstance `json:"chords"`
	Chart  string          `json:"chart"`
	Motifs []Motif         `json:"motifs,omitempty"`
}

// ReportsRequestBody asks for stored correction reports by filename.
type ReportsRequestBody struct {
	Filenames []string `json:"filenames"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
