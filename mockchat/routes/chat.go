package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mockchat/mockchat/controllers"
	"mockchat/mockchat/middlewares"
	"mockchat/mockchat/utils/logging"
	"mockchat/mockchat/utils/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	EventDone        = "[DONE]"
	EventErrorPrefix = "[ERROR] "
)

func ChatRoutes(ctrl *controllers.ChatController, jwtSecret string) chi.Router {
	r := chi.NewRouter()
	// POST /api/chat : append messages, returns the conversation
	r.With(middleware.Timeout(JSONTimeout)).Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.UserID = userIDFor(r, req.UserID)
		resp, err := ctrl.Chat(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
	// GET /api/chat/sse : token stream as server-sent events
	r.Get("/sse", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req := types.StreamRequest{
			UserID:         userIDFor(r, q.Get("userId")),
			ConversationID: q.Get("conversationId"),
			Prompt:         q.Get("prompt"),
			SystemPrompt:   q.Get("systemPrompt"),
		}
		streamSSE(w, r, ctrl, req)
	})
	// GET /api/chat/ws : same stream over a websocket
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		streamWS(w, r, ctrl, jwtSecret)
	})
	return r
}

// drain discards what the producer still sends after the stream context was
// cancelled; the producer stops at its next tick.
func drain(ch <-chan string) {
	for range ch {
	}
}

func writeEvent(w http.ResponseWriter, data string) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

func logWriteFailure(transport, frame string, req types.StreamRequest, err error) {
	logging.AppLogger.Info("stream frame not delivered",
		zap.String("transport", transport),
		zap.String("frame", frame),
		zap.String("conversation_id", req.ConversationID),
		zap.Error(err))
}

// terminalFrame is the last frame of a stream: the done sentinel, or the
// error event when the stream failed.
func terminalFrame(err error) string {
	if err != nil {
		return EventErrorPrefix + err.Error()
	}
	return EventDone
}

func streamSSE(w http.ResponseWriter, r *http.Request, ctrl *controllers.ChatController, req types.StreamRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// A failed write ends the stream like a disconnect: nothing is stored.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch, errCh := ctrl.StreamReply(ctx, req)
	for tok := range ch {
		if err := writeEvent(w, tok); err != nil {
			logWriteFailure("sse", "token", req, err)
			cancel()
			break
		}
		flusher.Flush()
	}
	drain(ch)
	err := <-errCh
	if ctx.Err() != nil {
		return
	}
	frame := terminalFrame(err)
	if err := writeEvent(w, frame); err != nil {
		logWriteFailure("sse", frame, req, err)
		return
	}
	flusher.Flush()
}

// wsRequest is the first (and only) frame a websocket client sends. Browsers
// cannot set headers on websocket upgrades, so the token rides in the frame.
type wsRequest struct {
	Token string `json:"token,omitempty"`
	types.StreamRequest
}

func streamWS(w http.ResponseWriter, r *http.Request, ctrl *controllers.ChatController, jwtSecret string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	typ, data, err := conn.Read(r.Context())
	if err != nil {
		return
	}
	if typ != websocket.MessageText {
		conn.Close(websocket.StatusUnsupportedData, "unsupported data")
		return
	}
	var input wsRequest
	if err := json.Unmarshal(data, &input); err != nil {
		frame := EventErrorPrefix + "invalid json"
		if err := conn.Write(r.Context(), websocket.MessageText, []byte(frame)); err != nil {
			logWriteFailure("ws", frame, input.StreamRequest, err)
		}
		conn.Close(websocket.StatusUnsupportedData, "invalid json")
		return
	}
	req := input.StreamRequest
	req.UserID = userIDFor(r, req.UserID)
	if jwtSecret != "" && input.Token != "" {
		userID, err := middlewares.ParseToken(jwtSecret, input.Token)
		if err != nil {
			frame := EventErrorPrefix + "invalid token"
			if err := conn.Write(r.Context(), websocket.MessageText, []byte(frame)); err != nil {
				logWriteFailure("ws", frame, req, err)
			}
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}
		req.UserID = userID
	}

	// CloseRead keeps reading control frames; ctx ends when the peer goes away.
	ctx, cancel := context.WithCancel(conn.CloseRead(r.Context()))
	defer cancel()

	ch, errCh := ctrl.StreamReply(ctx, req)
	for tok := range ch {
		if err := conn.Write(ctx, websocket.MessageText, []byte(tok)); err != nil {
			logWriteFailure("ws", "token", req, err)
			cancel()
			break
		}
	}
	drain(ch)
	err = <-errCh
	if ctx.Err() != nil {
		return
	}
	frame := terminalFrame(err)
	if err := conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
		logWriteFailure("ws", frame, req, err)
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
