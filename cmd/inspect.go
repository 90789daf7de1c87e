package cmd

import (
	"fmt"

	"github.com/jsphweid/handel/analysis"
	"github.com/jsphweid/handel/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspects a midi file",
	Long:  `Inspects a midi file`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0])
	},
}

func inspect(path string) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		panic("Could not read midi file: " + err.Error())
	}
	notes, ticksPerBeat, tempos := midi.ExtractNotes(s)
	tm := analysis.BuildTempoMap(ticksPerBeat, tempos)

	fmt.Printf("tracks: %v\n", len(s.Tracks))
	fmt.Printf("ticks per beat: %v\n", ticksPerBeat)
	fmt.Printf("tempo events: %v (using %v bpm)\n", len(tempos), int(tm.BPM()+0.5))
	fmt.Printf("notes: %v\n", len(notes))
	if len(notes) == 0 {
		return
	}

	lo, hi := notes[0].Pitch, notes[0].Pitch
	for _, n := range notes {
		if n.Pitch < lo {
			lo = n.Pitch
		}
		if n.Pitch > hi {
			hi = n.Pitch
		}
	}
	fmt.Printf("pitch range: %v..%v\n", lo, hi)
	fmt.Printf("key: %v\n", analysis.DetectKey(notes))
	fmt.Printf("length: %v ticks (%.1fs)\n", notes[len(notes)-1].End(),
		tm.TicksToMs(notes[len(notes)-1].End())/1000)
}
