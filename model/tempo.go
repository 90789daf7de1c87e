package model

// TempoMap carries the single representative tempo used for all ms<->tick
// arithmetic. Pieces with tempo changes are flattened to one value; the
// first/most common set_tempo event wins. Immutable after derivation.
type TempoMap struct {
	TicksPerBeat  uint16
	MicrosPerBeat uint32
}

func (t TempoMap) BPM() float64 {
	return 60000000.0 / float64(t.MicrosPerBeat)
}

func (t TempoMap) MsPerTick() float64 {
	msPerBeat := float64(t.MicrosPerBeat) / 1000.0
	return msPerBeat / float64(t.TicksPerBeat)
}

// MsToTicks converts a millisecond threshold into ticks at the
// representative tempo.
func (t TempoMap) MsToTicks(ms float64) float64 {
	return ms / t.MsPerTick()
}

func (t TempoMap) TicksToMs(ticks int64) float64 {
	return float64(ticks) * t.MsPerTick()
}
