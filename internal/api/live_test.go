package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/schemer-edu/schemer-server/internal/models"
)

func TestLiveValidationSocket(t *testing.T) {
	server, _ := newTestServer(t)

	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/schedule/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	defer conn.Close()

	var hello liveMessage
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("failed to read hello: %v", err)
	}
	if hello.Type != "connected" {
		t.Fatalf("got hello type %q, want connected", hello.Type)
	}

	clash1 := testCourse("a", "A 100", 3, models.TimeSlot{Day: models.Monday, StartTime: "10:00", EndTime: "11:00"})
	clash2 := testCourse("b", "B 100", 3, models.TimeSlot{Day: models.Monday, StartTime: "10:30", EndTime: "11:30"})

	err = conn.WriteJSON(liveMessage{
		Type: "validate",
		Request: &models.ValidateScheduleRequest{
			Courses:        []models.ScheduledCourse{scheduledCourse(clash1), scheduledCourse(clash2)},
			StudentProfile: &models.StudentProfile{ID: "stu-1"},
		},
	})
	if err != nil {
		t.Fatalf("failed to send validate: %v", err)
	}

	var reply liveMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if reply.Type != "report" || reply.Report == nil {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if reply.Report.Valid {
		t.Fatal("overlapping schedule reported valid over the socket")
	}

	// Missing profile comes back as an error message, not a closed socket
	if err := conn.WriteJSON(liveMessage{Type: "validate", Request: &models.ValidateScheduleRequest{}}); err != nil {
		t.Fatalf("failed to send bad validate: %v", err)
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read error reply: %v", err)
	}
	if reply.Type != "error" {
		t.Fatalf("got reply type %q, want error", reply.Type)
	}
}
