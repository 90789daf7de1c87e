// Package pipeline chains the post-processing stages over a shared note
// sequence: analysis, cleanup, quantization, then the chord branch and
// the hand branch on the same corrected sequence, plus optional phrase
// extraction. Every stage is a pure function of its input; the two
// branches never touch each other's data, so they run concurrently.
package pipeline

import (
	"sync"

	"github.com/jsphweid/handel/analysis"
	"github.com/jsphweid/handel/chord"
	"github.com/jsphweid/handel/cleanup"
	"github.com/jsphweid/handel/hands"
	"github.com/jsphweid/handel/model"
	"github.com/jsphweid/handel/motif"
	"github.com/jsphweid/handel/quantize"
	"gitlab.com/gomidi/midi/v2/smf"
)

type Config struct {
	Cleanup  cleanup.Config
	Quantize quantize.Config
	// QuantizeEnabled false skips the quantizer entirely.
	QuantizeEnabled bool
	Hands           hands.Config
	Chords          chord.Config
	Generator       chord.GeneratorConfig
	Motifs          motif.Config
	ExtractMotifs   bool
}

func DefaultConfig() Config {
	return Config{
		Cleanup:   cleanup.DefaultConfig(),
		Quantize:  quantize.DefaultConfig(),
		Hands:     hands.DefaultConfig(),
		Chords:    chord.DefaultConfig(),
		Generator: chord.DefaultGeneratorConfig(),
		Motifs:    motif.DefaultConfig(),
	}
}

// Result is everything one invocation produces. Branch outputs are
// separate artifacts; nothing is merged back together.
type Result struct {
	TempoMap model.TempoMap
	Key      model.Key
	Stats    model.CorrectionStats

	// Corrected is the cleaned, quantized sequence both branches read.
	Corrected []model.Note

	Right []model.Note
	Left  []model.Note

	Chords     []model.ChordInstance
	ChordTrack *smf.SMF
	Chart      string

	Motifs []model.Motif
}

// Run executes the full pipeline. The input sequence is validated up
// front and never mutated; an empty sequence is rejected as invalid
// input (stages themselves tolerate empties, but a caller handing the
// pipeline nothing almost certainly lost its notes upstream).
func Run(notes []model.Note, ticksPerBeat uint16, tempos []uint32, cfg Config) (*Result, error) {
	if len(notes) == 0 {
		return nil, model.InputErrorf("note sequence is empty")
	}
	if err := model.ValidateNotes(notes); err != nil {
		return nil, err
	}

	tm := analysis.BuildTempoMap(ticksPerBeat, tempos)
	key := analysis.DetectKey(notes)

	// The chord track shares the source's time base.
	cfg.Generator.TicksPerBeat = tm.TicksPerBeat
	cfg.Generator.BPM = int(tm.BPM() + 0.5)

	corrected, stats, err := cleanup.Run(notes, tm, key, cfg.Cleanup)
	if err != nil {
		return nil, err
	}
	if cfg.QuantizeEnabled {
		quantized, err := quantize.Run(corrected, tm, cfg.Quantize)
		if err != nil {
			return nil, err
		}
		for i := range quantized {
			if quantized[i].Start != corrected[i].Start {
				stats.Quantized++
			}
		}
		corrected = quantized
	}

	res := &Result{
		TempoMap:  tm,
		Key:       key,
		Stats:     stats,
		Corrected: corrected,
	}

	// The chord branch and the hand branch read the same corrected
	// sequence and write disjoint results.
	var wg sync.WaitGroup
	var chordErr, handErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		chords, err := chord.Detect(corrected, tm, cfg.Chords)
		if err != nil {
			chordErr = err
			return
		}
		track, tagged, err := chord.Generate(chords, cfg.Generator)
		if err != nil {
			chordErr = err
			return
		}
		res.Chords = tagged
		res.ChordTrack = track
		res.Chart = chord.TextChart(chords, tm)
	}()
	go func() {
		defer wg.Done()
		labeled, err := hands.Separate(corrected, tm, cfg.Hands)
		if err != nil {
			handErr = err
			return
		}
		for _, n := range labeled {
			if n.Hand == model.HandRight {
				res.Right = append(res.Right, n)
			} else {
				res.Left = append(res.Left, n)
			}
		}
	}()
	wg.Wait()

	if chordErr != nil {
		return nil, chordErr
	}
	if handErr != nil {
		return nil, handErr
	}

	if cfg.ExtractMotifs {
		motifs, err := motif.Extract(corrected, cfg.Motifs)
		if err != nil {
			return nil, err
		}
		res.Motifs = motifs
	}

	return res, nil
}
