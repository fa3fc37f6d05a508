package notify

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trustedvehicles/dealerdesk/internal/common/logger"
)

func TestHubBroadcastsToConnectedClient(t *testing.T) {
	hub := NewHub(logger.NewNop())
	if err := hub.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = hub.Stop() }()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// 连接注册是异步完成的，等它出现在 Hub 里
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Emit(EventNewNotification, map[string]interface{}{"id": "INS-0000001"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Event != EventNewNotification {
		t.Fatalf("event mismatch: %s", ev.Event)
	}
}

func TestHubRejectsConnectionsBeforeStart(t *testing.T) {
	hub := NewHub(logger.NewNop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial should fail before Start")
	}
	if resp != nil && resp.StatusCode != 503 {
		t.Fatalf("status mismatch: %d", resp.StatusCode)
	}
}

// 没有连接时 Emit 只丢弃，不会崩也不会阻塞。
func TestHubEmitWithoutViewersIsDropped(t *testing.T) {
	hub := NewHub(logger.NewNop())
	hub.Emit(EventUpdateCounts, map[string]interface{}{"users": 3})

	_ = hub.Start()
	hub.Emit(EventUpdateCounts, map[string]interface{}{"users": 3})
	_ = hub.Stop()
}

func TestRecordingNotifier(t *testing.T) {
	rec := &Recording{}
	rec.Emit(EventNewNotification, "a")
	rec.Emit(EventUpdateCounts, "b")

	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Event != EventNewNotification || events[1].Event != EventUpdateCounts {
		t.Fatalf("events mismatch: %+v", events)
	}
}
