package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "handel",
	Short: "Piano transcription post-processing",
	Long:  `Cleans up raw piano transcriptions: error correction, hand separation, chord charts, phrase extraction.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
