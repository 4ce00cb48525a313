package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/schemer-edu/schemer-server/internal/models"
	"github.com/schemer-edu/schemer-server/internal/scheduling"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// liveMessage is the envelope exchanged over the live validation socket.
// The client sends "validate" requests as it edits a draft schedule; the
// server answers each with a "report".
type liveMessage struct {
	Type    string                          `json:"type"`
	Request *models.ValidateScheduleRequest `json:"request,omitempty"`
	Report  *models.ScheduleValidation      `json:"report,omitempty"`
	Error   string                          `json:"error,omitempty"`
}

// handleLiveValidation streams validation reports as the client edits a
// schedule, avoiding a round-trip POST per keystroke.
func (s *Server) handleLiveValidation(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("live validation socket connected", "remote_addr", r.RemoteAddr)

	s.sendLiveMessage(conn, liveMessage{Type: "connected"})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			break
		}

		var msg liveMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			s.sendLiveMessage(conn, liveMessage{Type: "error", Error: "invalid message format"})
			continue
		}

		switch msg.Type {
		case "validate":
			if msg.Request == nil || msg.Request.StudentProfile == nil {
				s.sendLiveMessage(conn, liveMessage{Type: "error", Error: "request with studentProfile is required"})
				continue
			}

			report := scheduling.BuildValidationReport(msg.Request.Courses, msg.Request.StudentProfile)
			if err := s.sendLiveMessage(conn, liveMessage{Type: "report", Report: &report}); err != nil {
				return
			}
		case "ping":
			s.sendLiveMessage(conn, liveMessage{Type: "pong"})
		default:
			s.sendLiveMessage(conn, liveMessage{Type: "error", Error: "unknown message type: " + msg.Type})
		}
	}

	slog.Info("live validation socket disconnected", "remote_addr", r.RemoteAddr)
}

func (s *Server) sendLiveMessage(conn *websocket.Conn, msg liveMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal live message", "error", err)
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send live message", "error", err)
		return err
	}
	return nil
}
