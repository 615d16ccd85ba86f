package server

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/pitchside/matchtrack/internal/domains/dtos"
	"github.com/pitchside/matchtrack/pkg/logging"
)

// handleCommand dispatches one websocket message. Failures go back to the
// sender as an error payload; the connection stays open.
func (s *server) handleCommand(c *connection, message []byte) {
	var cmd dtos.Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.writeError(c, "malformed payload")
		return
	}

	var err error
	switch cmd.Type {
	case "start_game":
		var req dtos.StartGameRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			_, err = s.store.StartGame(req.OpponentName)
		}
	case "finish_game":
		s.store.FinishGame()
	case "add_event":
		var req dtos.AddEventRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			_, err = s.store.AddEvent(req.Type, req.Team, req.Label, req.Meta)
		}
	case "update_event":
		var req dtos.UpdateEventRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			err = s.store.UpdateEvent(req.EventId, req.Patch)
		}
	case "undo_event":
		s.store.UndoLastEvent()
	case "delete_event":
		var req dtos.DeleteEventRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			s.store.DeleteEvent(req.EventId)
		}
	case "toggle_timer":
		s.store.ToggleTimer()
	case "reset_timer":
		s.store.ResetTimer()
	case "dismiss_reminder":
		s.store.DismissTimerReminder()
	case "add_roster":
		var req dtos.RosterRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			s.store.AddToRoster(req.Name)
		}
	case "clear_roster":
		s.store.ClearRoster()
	case "delete_match":
		var req dtos.MatchRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			s.store.DeleteMatch(req.MatchId)
			s.engine.Invalidate(req.MatchId)
		}
	case "add_history_event":
		var req dtos.HistoryEventRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			_, err = s.store.AddHistoricalEvent(
				req.MatchId,
				req.Type,
				req.Team,
				req.Label,
				req.Meta,
				time.Duration(req.GameTimeMs)*time.Millisecond,
			)
			s.engine.Invalidate(req.MatchId)
		}
	case "update_history_event":
		var req dtos.UpdateHistoryEventRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			err = s.store.UpdateHistoricalEvent(req.MatchId, req.EventId, req.Patch)
			s.engine.Invalidate(req.MatchId)
		}
	case "delete_history_event":
		var req dtos.DeleteHistoryEventRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			s.store.DeleteHistoricalEvent(req.MatchId, req.EventId)
			s.engine.Invalidate(req.MatchId)
		}
	case "update_match_metadata":
		var req dtos.MatchMetadataRequest
		if err = json.Unmarshal(cmd.Data, &req); err == nil {
			err = s.store.UpdateMatchMetadata(req.MatchId, req.OpponentName)
			s.engine.Invalidate(req.MatchId)
		}
	default:
		logging.Info("invalid command type", zap.String("type", cmd.Type))
		s.writeError(c, "unknown command: "+cmd.Type)
		return
	}

	if err != nil {
		s.writeError(c, err.Error())
	}
}

func (s *server) writeError(c *connection, message string) {
	if err := c.writeJSON(dtos.ErrorResponse{Type: "error", Error: message}); err != nil {
		logging.Error("couldn't send error response", zap.Error(err))
	}
}
