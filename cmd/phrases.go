package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/handel/analysis"
	"github.com/jsphweid/handel/cleanup"
	"github.com/jsphweid/handel/constants"
	"github.com/jsphweid/handel/midi"
	"github.com/jsphweid/handel/motif"
	"github.com/spf13/cobra"
)

var phrasesOpts struct {
	top       int
	minLength int
	maxLength int
	write     bool
}

func init() {
	phrasesCmd.Flags().IntVar(&phrasesOpts.top, "top", 1, "how many phrases to report")
	phrasesCmd.Flags().IntVar(&phrasesOpts.minLength, "min-length", 8, "shortest phrase, in notes")
	phrasesCmd.Flags().IntVar(&phrasesOpts.maxLength, "max-length", 20, "longest phrase, in notes")
	phrasesCmd.Flags().BoolVar(&phrasesOpts.write, "write", false, "also write each phrase as a midi file")
	rootCmd.AddCommand(phrasesCmd)
}

var phrasesCmd = &cobra.Command{
	Use:   "phrases <file>",
	Short: "Extracts repeated phrases",
	Long:  `Extracts the most musically significant repeated phrases from one midi file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		phrases(args[0])
	},
}

func phrases(path string) {
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

	cfg := motif.DefaultConfig()
	cfg.TopN = phrasesOpts.top
	cfg.MinLength = phrasesOpts.minLength
	cfg.MaxLength = phrasesOpts.maxLength
	motifs, err := motif.Extract(corrected, cfg)
	if err != nil {
		panic("Could not extract phrases: " + err.Error())
	}

	if len(motifs) == 0 {
		fmt.Println("No significant phrases found")
		return
	}

	for i, m := range motifs {
		fmt.Printf("phrase %v: %v notes, %vx (%v), score %.2f\n", i+1, m.Length(), m.Frequency, m.MatchType, m.Score)
		fmt.Printf("  intervals: %v\n", m.Intervals)
		fmt.Printf("  rhythm: %v\n", m.Rhythm)
		fmt.Printf("  at notes: %v\n", m.Occurrences)
		if phrasesOpts.write {
			if err := os.MkdirAll(constants.GetOutDir(), 0755); err != nil {
				panic("Could not create output dir: " + err.Error())
			}
			out := outPath(path, fmt.Sprintf(".phrase%v.mid", i+1))
			if err := midi.WritePhrase(out, m, tm); err != nil {
				panic("Could not write phrase: " + err.Error())
			}
			fmt.Printf("  wrote %v\n", out)
		}
	}
}
