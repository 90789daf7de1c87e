package cmd

import (
	"fmt"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/handel/chord"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func init() {
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Names chords from a live midi input",
	Long:  `Names chords from a live midi input`,
	Run: func(cmd *cobra.Command, args []string) {
		listen()
	},
}

func heldKeys(held map[uint8]bool) []uint8 {
	keys := make([]uint8, 0, len(held))
	for k := range held {
		keys = append(keys, k)
	}
	return keys
}

func listen() {
	defer midi.CloseDriver()
	in, err := midi.InPort(0)
	if err != nil {
		fmt.Println("can't find a midi input")
		return
	}

	held := make(map[uint8]bool)
	minScore := chord.DefaultConfig().MinScore

	// short debounce so a rolled chord prints once, not once per note
	debounced := debounce.New(50 * time.Millisecond)

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			held[key] = true
			keys := heldKeys(held)
			if len(keys) >= 2 {
				debounced(func() {
					fmt.Printf("%v\n", chord.Identify(keys, minScore).Name)
				})
			}
		case msg.GetNoteEnd(&ch, &key):
			delete(held, key)
		default:
			// ignore
		}
	})

	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return
	}
	defer stop()

	select {}
}
