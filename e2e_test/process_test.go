//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsphweid/handel/cmd"
	"github.com/jsphweid/handel/model"
	"github.com/stretchr/testify/assert"
)

func createProcessReqBody(body model.ProcessRequestBody) io.Reader {
	data, err := json.Marshal(body)
	if err != nil {
		panic(err.Error())
	}
	return bytes.NewReader(data)
}

func cMajorScale() []model.Note {
	pitches := []uint8{60, 62, 64, 65, 67, 69, 71, 72}
	var notes []model.Note
	for i, p := range pitches {
		notes = append(notes, model.Note{
			Pitch:    p,
			Start:    int64(i) * 480,
			Duration: 480,
			Velocity: 80,
		})
	}
	return notes
}

func TestProcessCMajorScaleE2E(t *testing.T) {
	body := createProcessReqBody(model.ProcessRequestBody{
		Notes:        cMajorScale(),
		TicksPerBeat: 480,
	})
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	w := httptest.NewRecorder()
	cmd.HandleProcess(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(resp.StatusCode, 200)

	var pr model.ProcessResponse
	err := json.Unmarshal(respBody, &pr)
	if err != nil {
		panic(err.Error())
	}

	assert.NotEmpty(pr.ID)
	assert.Equal("C major", pr.Key)
	assert.Equal(120.0, pr.BPM)

	assert.Equal(8, pr.Stats.TotalNotes)
	assert.Equal(0, pr.Stats.RemovedShort)
	assert.Equal(0, pr.Stats.RemovedQuiet)
	assert.Equal(0, pr.Stats.RemovedRange)
	assert.Equal(0, pr.Stats.Merged)

	// every note survives and lands in exactly one hand
	assert.Equal(8, len(pr.Right)+len(pr.Left))

	// one note per beat: every grid cell is a single-note placeholder
	assert.Equal(8, len(pr.Chords))
	assert.Equal("C", pr.Chords[0].Name)
	assert.Contains(pr.Chart, "CHORD CHART")
}

func TestProcessEmptyNotesE2E(t *testing.T) {
	body := createProcessReqBody(model.ProcessRequestBody{})
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	w := httptest.NewRecorder()
	cmd.HandleProcess(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(resp.StatusCode, 400)

	var er model.ErrorResponse
	err := json.Unmarshal(respBody, &er)
	if err != nil {
		panic(err.Error())
	}
	assert.NotEmpty(er.Error)
}
