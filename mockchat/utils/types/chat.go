package types

import "mockchat/mockchat/sources/store"

type ChatRequest struct {
	UserID         string          `json:"userId,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	Messages       []store.Message `json:"messages"`
	SystemPrompt   string          `json:"systemPrompt,omitempty"`
}

type ChatResponse struct {
	ConversationID string          `json:"conversationId"`
	Messages       []store.Message `json:"messages"`
}

// StreamRequest carries the query of GET /api/chat/sse, or the first frame
// of a websocket stream.
type StreamRequest struct {
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
	Prompt         string `json:"prompt"`
	SystemPrompt   string `json:"systemPrompt"`
}

type TitleRequest struct {
	UserID string `json:"userId,omitempty"`
	Title  string `json:"title,omitempty"`
}

type TitleResponse struct {
	Title string `json:"title"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
