package web_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/learnbharat/learnbharat-ai/internal/ai"
	"github.com/learnbharat/learnbharat-ai/internal/planner"
	"github.com/learnbharat/learnbharat-ai/internal/web"
)

func dialPlanSocket(t *testing.T, provider ai.Provider) (*websocket.Conn, context.Context) {
	t.Helper()
	h, _ := newHandler(t, provider)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, srv.URL+"/api/v1/plans/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn, ctx
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) web.SocketMessage {
	t.Helper()
	var msg web.SocketMessage
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	return msg
}

func TestPlanSocket(t *testing.T) {
	conn, ctx := dialPlanSocket(t, ai.NewMockProvider("Socket notes"))

	if err := wsjson.Write(ctx, conn, planner.Input{CourseCode: "CS301", Focus: []string{"Notes"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if msg := readMessage(t, ctx, conn); msg.Type != web.MessageStatus {
		t.Errorf("first frame type = %q, want status", msg.Type)
	}
	msg := readMessage(t, ctx, conn)
	if msg.Type != web.MessageResult || msg.Plan == nil {
		t.Fatalf("second frame = %+v, want result with plan", msg)
	}
	if msg.Plan.Content != "Socket notes" || msg.Plan.Score != 35 {
		t.Errorf("plan = %+v", msg.Plan)
	}

	// The connection stays open for further requests.
	if err := wsjson.Write(ctx, conn, planner.Input{CourseCode: "CS301"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	_ = readMessage(t, ctx, conn)
	msg = readMessage(t, ctx, conn)
	if msg.Type != web.MessageWarning || msg.Message != "Please select at least one option" {
		t.Errorf("frame = %+v, want warning for missing focus", msg)
	}

	if err := conn.Close(websocket.StatusNormalClosure, ""); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestPlanSocket_InvalidFrameCloses(t *testing.T) {
	conn, ctx := dialPlanSocket(t, nil)

	if err := conn.Write(ctx, websocket.MessageText, []byte("not json")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	_, _, err := conn.Read(ctx)
	if websocket.CloseStatus(err) != websocket.StatusInvalidFramePayloadData {
		t.Errorf("close status = %v, want StatusInvalidFramePayloadData (err = %v)", websocket.CloseStatus(err), err)
	}
}
