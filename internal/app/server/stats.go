package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pitchside/matchtrack/internal/analytics"
	"github.com/pitchside/matchtrack/internal/domains/dtos"
	"github.com/pitchside/matchtrack/pkg/utils"
)

// Read-only endpoints for the insight views. Season and player stats are
// recomputed per request; per-match stats go through the engine cache for
// completed matches.

func (s *server) handleClock(w http.ResponseWriter, _ *http.Request) {
	elapsed := s.store.ElapsedTime()
	running := false
	if active, ok := s.store.ActiveMatch(); ok {
		running = active.IsRunning
	}
	writeJSON(w, http.StatusOK, dtos.ClockResponse{
		ElapsedMs: elapsed.Milliseconds(),
		Display:   utils.FormatClock(elapsed),
		Export:    utils.FormatClockExport(elapsed),
		IsRunning: running,
	})
}

func (s *server) handleSeasonStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, analytics.AnalyzeSeason(s.store.History()))
}

func (s *server) handleMatchStats(w http.ResponseWriter, r *http.Request) {
	matchId := chi.URLParam(r, "matchId")

	if active, ok := s.store.ActiveMatch(); ok && active.Id == matchId {
		stats := s.engine.ActiveStats(active, s.store.ElapsedTime())
		writeJSON(w, http.StatusOK, struct {
			analytics.GameStats
			Insights []analytics.Insight `json:"insights"`
		}{stats, analytics.GenerateInsights(stats)})
		return
	}

	for _, match := range s.store.History() {
		if match.Id == matchId {
			stats := s.engine.MatchStats(match)
			writeJSON(w, http.StatusOK, struct {
				analytics.GameStats
				Insights []analytics.Insight `json:"insights"`
			}{stats, analytics.GenerateInsights(stats)})
			return
		}
	}
	http.NotFound(w, r)
}

func (s *server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	writeJSON(w, http.StatusOK, analytics.AnalyzePlayerPerformance(s.store.History(), name))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
