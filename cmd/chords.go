package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/handel/analysis"
	"github.com/jsphweid/handel/chord"
	"github.com/jsphweid/handel/cleanup"
	"github.com/jsphweid/handel/constants"
	"github.com/jsphweid/handel/midi"
	"github.com/jsphweid/handel/model"
	"github.com/spf13/cobra"
)

var chordsOpts struct {
	grid    float64
	voicing string
	write   bool
}

func init() {
	chordsCmd.Flags().Float64Var(&chordsOpts.grid, "grid", 1.0, "grid cell size in beats")
	chordsCmd.Flags().StringVar(&chordsOpts.voicing, "voicing", string(model.VoicingBlock), "chord voicing style (block, arpeggio, broken)")
	chordsCmd.Flags().BoolVar(&chordsOpts.write, "write", false, "also write a simplified chord midi file")
	rootCmd.AddCommand(chordsCmd)
}

var chordsCmd = &cobra.Command{
	Use:   "chords <file>",
	Short: "Prints a chord chart",
	Long:  `Prints a chord chart for one midi file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		chords(args[0])
	},
}

func chords(path string) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		panic("Could not read midi file: " + err.Error())
	}
	notes, ticksPerBeat, tempos := midi.ExtractNotes(s)
	tm := analysis.BuildTempoMap(ticksPerBeat, tempos)
	key := analysis.DetectKey(notes)

	corrected, _, err := cleanup.Run(notes, tm, key, cleanup.DefaultConfig())
	if err != nil {
		panic("Could not clean up notes: " + err.Error())
	}

	cfg := chord.DefaultConfig()
	cfg.GridBeats = chordsOpts.grid
	detected, err := chord.Detect(corrected, tm, cfg)
	if err != nil {
		panic("Could not detect chords: " + err.Error())
	}

	fmt.Print(chord.TextChart(detected, tm))

	if chordsOpts.write {
		gen := chord.DefaultGeneratorConfig()
		gen.Voicing = model.Voicing(chordsOpts.voicing)
		gen.TicksPerBeat = tm.TicksPerBeat
		gen.BPM = int(tm.BPM() + 0.5)
		track, _, err := chord.Generate(detected, gen)
		if err != nil {
			panic("Could not generate chord track: " + err.Error())
		}
		if err := os.MkdirAll(constants.GetOutDir(), 0755); err != nil {
			panic("Could not create output dir: " + err.Error())
		}
		out := outPath(path, ".chords.mid")
		if err := track.WriteFile(out); err != nil {
			panic("Could not write chord track: " + err.Error())
		}
		fmt.Printf("wrote %v\n", out)
	}
}
