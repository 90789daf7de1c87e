package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/handel/constants"
	"github.com/jsphweid/handel/db"
	"github.com/jsphweid/handel/midi"
	"github.com/jsphweid/handel/model"
	"github.com/jsphweid/handel/pipeline"
	"github.com/jsphweid/handel/util"
	"github.com/spf13/cobra"
)

var convertOpts struct {
	voicing  string
	quantize bool
	motifs   bool
	split    int
	adaptive bool
	report   bool
	maxNum   int
}

func init() {
	convertCmd.Flags().StringVar(&convertOpts.voicing, "voicing", string(model.VoicingBlock), "chord voicing style (block, arpeggio, broken)")
	convertCmd.Flags().BoolVar(&convertOpts.quantize, "quantize", false, "snap onsets to the beat grid")
	convertCmd.Flags().BoolVar(&convertOpts.motifs, "motifs", false, "extract the most significant phrase")
	convertCmd.Flags().IntVar(&convertOpts.split, "split-note", 60, "pitch dividing left and right hand")
	convertCmd.Flags().BoolVar(&convertOpts.adaptive, "adaptive-split", false, "derive the split from the median pitch instead")
	convertCmd.Flags().BoolVar(&convertOpts.report, "report", false, "store correction stats in DynamoDB")
	convertCmd.Flags().IntVar(&convertOpts.maxNum, "max", 0, "max files to process in a directory (0 = all)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <file-or-dir>",
	Short: "Runs the full pipeline",
	Long:  `Runs the full pipeline over one midi file, or every midi file under a directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		convert(args[0])
	},
}

func convertConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.QuantizeEnabled = convertOpts.quantize
	cfg.ExtractMotifs = convertOpts.motifs
	cfg.Hands.SplitNote = uint8(convertOpts.split)
	cfg.Hands.AdaptiveSplit = convertOpts.adaptive
	cfg.Generator.Voicing = model.Voicing(convertOpts.voicing)
	return cfg
}

func convert(path string) {
	info, err := os.Stat(path)
	if err != nil {
		panic("Could not stat path: " + err.Error())
	}

	paths := []string{path}
	if info.IsDir() {
		paths = util.GatherAllMidiPaths(path, convertOpts.maxNum)
	}

	if err := os.MkdirAll(constants.GetOutDir(), 0755); err != nil {
		panic("Could not create output dir: " + err.Error())
	}

	cfg := convertConfig()
	for _, p := range paths {
		res, err := runFile(p, cfg)
		if err != nil {
			fmt.Printf("Skipping %v: %v\n", p, err)
			continue
		}
		writeArtifacts(p, res)
		printStats(p, res)
		if convertOpts.report {
			db.PutRunReport(filepath.Base(p), res.Stats)
		}
	}
}

func runFile(path string, cfg pipeline.Config) (*pipeline.Result, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	notes, ticksPerBeat, tempos := midi.ExtractNotes(s)
	return pipeline.Run(notes, ticksPerBeat, tempos, cfg)
}

func outPath(src, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(constants.GetOutDir(), base+suffix)
}

func writeArtifacts(src string, res *pipeline.Result) {
	if err := midi.WriteScore(outPath(src, ".score.mid"), res.Right, res.Left, res.TempoMap); err != nil {
		panic("Could not write score: " + err.Error())
	}
	if res.ChordTrack != nil {
		if err := res.ChordTrack.WriteFile(outPath(src, ".chords.mid")); err != nil {
			panic("Could not write chord track: " + err.Error())
		}
	}
	if err := os.WriteFile(outPath(src, ".chart.txt"), []byte(res.Chart), 0644); err != nil {
		panic("Could not write chart: " + err.Error())
	}
	for i, m := range res.Motifs {
		name := fmt.Sprintf(".phrase%v.mid", i+1)
		if err := midi.WritePhrase(outPath(src, name), m, res.TempoMap); err != nil {
			panic("Could not write phrase: " + err.Error())
		}
	}
}

func printStats(path string, res *pipeline.Result) {
	fmt.Printf("%v\n", path)
	fmt.Printf("  key: %v  bpm: %v\n", res.Key, int(res.TempoMap.BPM()+0.5))
	fmt.Printf("  notes: %v in, %v out\n", res.Stats.TotalNotes, len(res.Corrected))
	fmt.Printf("  removed: %v short, %v quiet, %v out of range\n",
		res.Stats.RemovedShort, res.Stats.RemovedQuiet, res.Stats.RemovedRange)
	fmt.Printf("  extended: %v  merged: %v  out of key: %v\n",
		res.Stats.Extended, res.Stats.Merged, res.Stats.OutOfKey)
	fmt.Printf("  hands: %v right, %v left\n", len(res.Right), len(res.Left))
	fmt.Printf("  chords: %v\n", len(res.Chords))
	for _, m := range res.Motifs {
		fmt.Printf("  phrase: %v notes, %vx, score %.2f\n", m.Length(), m.Frequency, m.Score)
	}
}
