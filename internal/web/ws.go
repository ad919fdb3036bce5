package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/learnbharat/learnbharat-ai/internal/planner"
)

const wsWriteTimeout = 10 * time.Second

// Socket message types.
const (
	MessageStatus  = "status"
	MessageResult  = "result"
	MessageWarning = "warning"
)

// SocketMessage is every frame the server sends on the plan socket.
type SocketMessage struct {
	Type    string        `json:"type"`
	Message string        `json:"message,omitempty"`
	Plan    *PlanResponse `json:"plan,omitempty"`
}

// handlePlanSocket accepts plan requests as JSON frames and answers each
// with a status frame followed by a result or warning frame.
func (s *Server) handlePlanSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxBodyBytes)

	ctx := r.Context()
	for {
		var in planner.Input
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			if status := websocket.CloseStatus(err); status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return
			}
			if errors.Is(err, context.Canceled) {
				return
			}
			// wsjson has already closed the socket if the frame was not JSON.
			slog.Debug("websocket read failed", "error", err)
			conn.Close(websocket.StatusInvalidFramePayloadData, "expected a JSON plan request")
			return
		}

		if err := s.send(ctx, conn, SocketMessage{Type: MessageStatus, Message: "Generating personalized study content..."}); err != nil {
			return
		}

		msg := s.planMessage(ctx, in)
		if err := s.send(ctx, conn, msg); err != nil {
			return
		}
	}
}

func (s *Server) planMessage(ctx context.Context, in planner.Input) SocketMessage {
	res, err := s.planner.Plan(ctx, in)
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			slog.Error("plan failed", "error", err)
			msg = "Something went wrong. Please try again."
		}
		return SocketMessage{Type: MessageWarning, Message: msg}
	}
	plan := newPlanResponse(res)
	return SocketMessage{Type: MessageResult, Plan: &plan}
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg SocketMessage) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		slog.Debug("websocket write failed", "type", msg.Type, "error", err)
		return err
	}
	return nil
}
