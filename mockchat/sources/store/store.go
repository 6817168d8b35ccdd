// Package store holds conversation history keyed by user and conversation.
package store

import (
	"context"
	"sort"
	"unicode/utf8"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// DefaultListTitle is shown for conversations that never got a title.
	DefaultListTitle = "Conversation"

	previewRunes = 60
)

type Message struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Content     string   `json:"content"`
	Ts          int64    `json:"ts"`
	Attachments []string `json:"attachments,omitempty"`
}

// Meta is the per-conversation metadata record.
type Meta struct {
	Title        string `json:"title"`
	SystemPrompt string `json:"systemPrompt"`
}

// Key addresses one conversation. UserID is empty in global scope.
type Key struct {
	UserID         string
	ConversationID string
}

// Summary is a sidebar row. Ts is nil for conversations without messages.
type Summary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Last  string `json:"last"`
	Ts    *int64 `json:"ts"`
}

// Store is implemented by every conversation backend. Unknown keys read as
// empty; they are never an error.
type Store interface {
	Append(ctx context.Context, key Key, msgs ...Message) ([]Message, error)
	Messages(ctx context.Context, key Key) ([]Message, error)
	List(ctx context.Context, userID string) ([]Summary, error)
	// Meta reports false for a conversation that was never created.
	Meta(ctx context.Context, key Key) (Meta, bool, error)
	SaveMeta(ctx context.Context, key Key, meta Meta) error
	// UpsertAssistant overwrites the trailing assistant message, or appends
	// msg when the conversation does not end with one.
	UpsertAssistant(ctx context.Context, key Key, msg Message) (Message, error)
	Clear(ctx context.Context) error
	Close() error
}

// Summarize builds the sidebar row for one conversation.
func Summarize(id string, meta Meta, msgs []Message) Summary {
	s := Summary{ID: id, Title: meta.Title}
	if s.Title == "" {
		s.Title = DefaultListTitle
	}
	if n := len(msgs); n > 0 {
		last := msgs[n-1]
		s.Last = preview(last.Content)
		ts := last.Ts
		s.Ts = &ts
	}
	return s
}

// SortSummaries orders by last activity, newest first. Rows without a
// timestamp count as 0; ties keep id order.
func SortSummaries(list []Summary) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	sort.SliceStable(list, func(i, j int) bool { return tsOf(list[i]) > tsOf(list[j]) })
}

func tsOf(s Summary) int64 {
	if s.Ts == nil {
		return 0
	}
	return *s.Ts
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewRunes {
		return content
	}
	return string([]rune(content)[:previewRunes])
}

// replaceOrAppend applies the UpsertAssistant rule to an in-memory slice.
func replaceOrAppend(msgs []Message, msg Message) ([]Message, Message) {
	if n := len(msgs); n > 0 && msgs[n-1].Role == RoleAssistant {
		msgs[n-1].Content = msg.Content
		msgs[n-1].Ts = msg.Ts
		return msgs, msgs[n-1]
	}
	return append(msgs, msg), msg
}

func cloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	for i := range out {
		if out[i].Attachments != nil {
			out[i].Attachments = append([]string(nil), out[i].Attachments...)
		}
	}
	return out
}
