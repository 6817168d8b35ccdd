package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mockchat/mockchat/config"
	"mockchat/mockchat/services/reply"
	"mockchat/mockchat/services/stream"
	"mockchat/mockchat/services/title"
	"mockchat/mockchat/sources/store"
	"mockchat/mockchat/utils/logging"
	"mockchat/mockchat/utils/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatController struct {
	store    store.Store
	scope    string
	producer stream.Producer
	streams  *stream.KeyedLock
	metas    *stream.KeyedLock
	now      func() time.Time
}

func NewChatController(s store.Store, cfg config.Config) *ChatController {
	return &ChatController{
		store:    s,
		scope:    cfg.Scope,
		producer: stream.NewProducer(cfg.StreamInterval),
		streams:  stream.NewKeyedLock(),
		metas:    stream.NewKeyedLock(),
		now:      time.Now,
	}
}

// resolveUser maps the caller's id to the store partition. In global scope
// everyone shares the "" partition.
func (c *ChatController) resolveUser(userID string) (string, error) {
	if c.scope == config.ScopeGlobal {
		return "", nil
	}
	if userID == "" {
		return "", ErrMissingUserID
	}
	return userID, nil
}

func lockKey(key store.Key) string {
	return key.UserID + "\x00" + key.ConversationID
}

func (c *ChatController) nowMillis() int64 {
	return c.now().UnixMilli()
}

// normalize checks roles and fills in ids and timestamps the client left out.
func (c *ChatController) normalize(msgs []store.Message) ([]store.Message, error) {
	out := make([]store.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != store.RoleUser && m.Role != store.RoleAssistant {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Ts == 0 {
			m.Ts = c.nowMillis()
		}
		out = append(out, m)
	}
	return out, nil
}

// Chat appends the incoming messages to a conversation, minting the
// conversation id when none is given, and refreshes the title while it is
// still a placeholder.
func (c *ChatController) Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	userID, err := c.resolveUser(req.UserID)
	if err != nil {
		return types.ChatResponse{}, err
	}
	msgs, err := c.normalize(req.Messages)
	if err != nil {
		return types.ChatResponse{}, err
	}
	convID := req.ConversationID
	if convID == "" {
		convID = fmt.Sprintf("c_%d", c.nowMillis())
	}
	key := store.Key{UserID: userID, ConversationID: convID}

	release, err := c.metas.Acquire(ctx, lockKey(key))
	if err != nil {
		return types.ChatResponse{}, err
	}
	defer release()

	all, err := c.store.Append(ctx, key, msgs...)
	if err != nil {
		return types.ChatResponse{}, err
	}
	meta, _, err := c.store.Meta(ctx, key)
	if err != nil {
		return types.ChatResponse{}, err
	}
	meta.SystemPrompt = req.SystemPrompt
	if title.IsPlaceholder(meta.Title) {
		meta.Title = title.Generate(all)
	}
	if err := c.store.SaveMeta(ctx, key, meta); err != nil {
		return types.ChatResponse{}, err
	}
	return types.ChatResponse{ConversationID: convID, Messages: all}, nil
}

// StreamReply streams the canned reply for req one token at a time on the
// first channel. When every token has been sent the reply is stored as the
// conversation's last assistant message (replacing one that is already
// there) and the channels are closed. The error channel carries at most one
// error; a cancelled ctx yields ctx.Err() and nothing is stored.
//
// Streams on the same conversation run one after another.
func (c *ChatController) StreamReply(ctx context.Context, req types.StreamRequest) (chan string, chan error) {
	errCh := make(chan error, 1)
	ch := make(chan string)

	userID, err := c.resolveUser(req.UserID)
	if err != nil || req.ConversationID == "" {
		errCh <- ErrMissingStreamIDs
		close(ch)
		close(errCh)
		return ch, errCh
	}
	key := store.Key{UserID: userID, ConversationID: req.ConversationID}

	go func() {
		defer close(errCh)
		defer close(ch)

		release, err := c.streams.Acquire(ctx, lockKey(key))
		if err != nil {
			errCh <- err
			return
		}
		defer release()

		tokens := reply.Tokenize(reply.Compose(req.Prompt, req.SystemPrompt))
		streamed, err := c.producer.Run(ctx, tokens, ch)
		if err != nil {
			logging.AppLogger.Info("stream stopped before completion",
				zap.String("conversation_id", key.ConversationID),
				zap.Int("streamed_chars", len(streamed)),
				zap.Error(err))
			errCh <- err
			return
		}

		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err = c.store.UpsertAssistant(saveCtx, key, store.Message{
			ID:      uuid.NewString(),
			Role:    store.RoleAssistant,
			Content: strings.TrimSpace(streamed),
			Ts:      c.nowMillis(),
		})
		if err != nil {
			logging.ErrorLogger.Error("failed to store assistant reply",
				zap.String("conversation_id", key.ConversationID), zap.Error(err))
			errCh <- err
			return
		}
		logging.AppLogger.Info("assistant reply stored",
			zap.String("conversation_id", key.ConversationID), zap.Int("tokens", len(tokens)))
	}()

	return ch, errCh
}

func (c *ChatController) ListConversations(ctx context.Context, userID string) ([]store.Summary, error) {
	userID, err := c.resolveUser(userID)
	if err != nil {
		return nil, err
	}
	return c.store.List(ctx, userID)
}

func (c *ChatController) GetConversation(ctx context.Context, userID, conversationID string) ([]store.Message, error) {
	userID, err := c.resolveUser(userID)
	if err != nil {
		return nil, err
	}
	return c.store.Messages(ctx, store.Key{UserID: userID, ConversationID: conversationID})
}

// SetTitle stores req.Title, or a title generated from the conversation when
// req.Title is empty. Unknown conversations get the title echoed back but
// nothing is stored; only Chat creates conversations.
func (c *ChatController) SetTitle(ctx context.Context, conversationID string, req types.TitleRequest) (types.TitleResponse, error) {
	userID, err := c.resolveUser(req.UserID)
	if err != nil {
		return types.TitleResponse{}, err
	}
	key := store.Key{UserID: userID, ConversationID: conversationID}

	release, err := c.metas.Acquire(ctx, lockKey(key))
	if err != nil {
		return types.TitleResponse{}, err
	}
	defer release()

	meta, found, err := c.store.Meta(ctx, key)
	if err != nil {
		return types.TitleResponse{}, err
	}
	meta.Title = strings.TrimSpace(req.Title)
	if meta.Title == "" {
		msgs, err := c.store.Messages(ctx, key)
		if err != nil {
			return types.TitleResponse{}, err
		}
		meta.Title = title.Generate(msgs)
	}
	if !found {
		return types.TitleResponse{Title: meta.Title}, nil
	}
	if err := c.store.SaveMeta(ctx, key, meta); err != nil {
		return types.TitleResponse{}, err
	}
	return types.TitleResponse{Title: meta.Title}, nil
}

func (c *ChatController) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	logging.AppLogger.Info("all conversations cleared")
	return nil
}
