package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/version"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

// ConfigResponse describes the board and speed ramp served by /config.
type ConfigResponse struct {
	Cols             int   `json:"cols"`
	Rows             int   `json:"rows"`
	CellSize         int   `json:"cellSize"`
	InitialSpeedMs   int64 `json:"initialSpeedMs"`
	MinSpeedMs       int64 `json:"minSpeedMs"`
	SpeedDecrementMs int64 `json:"speedDecrementMs"`
	OriginX          int   `json:"originX"`
	OriginY          int   `json:"originY"`
}

// SessionCounter reports the number of live game sessions.
type SessionCounter interface {
	Count() int
}

func HandleHealth(sessions SessionCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, &HealthResponse{
			Status:   "ok",
			Sessions: sessions.Count(),
		})
	}
}

func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, &VersionResponse{Version: version.Get()})
	}
}

func HandleConfig(config game.Config) http.HandlerFunc {
	response := &ConfigResponse{
		Cols:             config.Cols,
		Rows:             config.Rows,
		CellSize:         config.CellSize,
		InitialSpeedMs:   config.InitialSpeed.Milliseconds(),
		MinSpeedMs:       config.MinSpeed.Milliseconds(),
		SpeedDecrementMs: config.SpeedDecrement.Milliseconds(),
		OriginX:          config.Origin.X,
		OriginY:          config.Origin.Y,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, response)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
