package cmd

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/handel/constants"
	"github.com/jsphweid/handel/db"
	"github.com/jsphweid/handel/model"
	"github.com/jsphweid/handel/pipeline"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the pipeline over http",
	Long:  `Serves the pipeline over http`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

// HandleProcess runs the full pipeline over a posted note list.
func HandleProcess(w http.ResponseWriter, r *http.Request) {
	var input model.ProcessRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, 400, "Could not unmarshal request body: "+err.Error())
		return
	}

	ticksPerBeat := input.TicksPerBeat
	if ticksPerBeat == 0 {
		ticksPerBeat = constants.DefaultTicksPerBeat
	}
	var tempos []uint32
	if input.MicrosPerBeat != 0 {
		tempos = append(tempos, input.MicrosPerBeat)
	}

	cfg := pipeline.DefaultConfig()
	cfg.ExtractMotifs = input.ExtractMotifs
	res, err := pipeline.Run(input.Notes, ticksPerBeat, tempos, cfg)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	resp := model.ProcessResponse{
		ID:     uuid.New().String(),
		Key:    res.Key.String(),
		BPM:    res.TempoMap.BPM(),
		Stats:  res.Stats,
		Right:  res.Right,
		Left:   res.Left,
		Chords: res.Chords,
		Chart:  res.Chart,
		Motifs: res.Motifs,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleReports looks up stored correction reports for up to 10 files
// indexed by earlier `convert --report` runs.
func HandleReports(w http.ResponseWriter, r *http.Request) {
	var input model.ReportsRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, 400, "Could not unmarshal request body: "+err.Error())
		return
	}
	if len(input.Filenames) == 0 || len(input.Filenames) > 10 {
		writeError(w, 400, "filenames must hold between 1 and 10 entries")
		return
	}

	reports := db.GetRunReports(input.Filenames)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reports)
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/process", HandleProcess).Methods("POST")
	router.HandleFunc("/reports", HandleReports).Methods("POST")
	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(":8080", handler))
}
