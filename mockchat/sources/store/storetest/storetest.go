// Package storetest runs the same behavioural checks against every
// store.Store backend.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"mockchat/mockchat/sources/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMsg(id, content string, ts int64) store.Message {
	return store.Message{ID: id, Role: store.RoleUser, Content: content, Ts: ts}
}

func assistantMsg(id, content string, ts int64) store.Message {
	return store.Message{ID: id, Role: store.RoleAssistant, Content: content, Ts: ts}
}

// Run exercises newStore; each subtest gets a fresh, empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()
	key := store.Key{UserID: "u1", ConversationID: "c_1"}

	t.Run("UnknownKeysAreEmpty", func(t *testing.T) {
		s := newStore(t)
		msgs, err := s.Messages(ctx, key)
		require.NoError(t, err)
		assert.NotNil(t, msgs)
		assert.Empty(t, msgs)

		list, err := s.List(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)

		meta, found, err := s.Meta(ctx, key)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, store.Meta{}, meta)
	})

	t.Run("MetaReportsCreatedConversations", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Append(ctx, key)
		require.NoError(t, err)

		_, found, err := s.Meta(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)

		_, found, err = s.Meta(ctx, store.Key{UserID: key.UserID, ConversationID: "c_other"})
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = s.Meta(ctx, store.Key{UserID: "u2", ConversationID: key.ConversationID})
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("AppendGrowsInOrder", func(t *testing.T) {
		s := newStore(t)
		got, err := s.Append(ctx, key, userMsg("m1", "first", 1))
		require.NoError(t, err)
		require.Len(t, got, 1)

		got, err = s.Append(ctx, key, userMsg("m2", "second", 2), assistantMsg("m3", "third", 3))
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"m1", "m2", "m3"}, ids(got))

		stored, err := s.Messages(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, got, stored)
	})

	t.Run("AppendNothingCreatesConversation", func(t *testing.T) {
		s := newStore(t)
		got, err := s.Append(ctx, key)
		require.NoError(t, err)
		assert.Empty(t, got)

		list, err := s.List(ctx, key.UserID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, key.ConversationID, list[0].ID)
		assert.Equal(t, store.DefaultListTitle, list[0].Title)
		assert.Nil(t, list[0].Ts)
		assert.Equal(t, "", list[0].Last)
	})

	t.Run("AttachmentsRoundTrip", func(t *testing.T) {
		s := newStore(t)
		msg := userMsg("m1", "see file", 1)
		msg.Attachments = []string{"att-1", "att-2"}
		_, err := s.Append(ctx, key, msg)
		require.NoError(t, err)

		stored, err := s.Messages(ctx, key)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, []string{"att-1", "att-2"}, stored[0].Attachments)
	})

	t.Run("UsersAreIsolated", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Append(ctx, key, userMsg("m1", "mine", 1))
		require.NoError(t, err)

		other := store.Key{UserID: "u2", ConversationID: key.ConversationID}
		msgs, err := s.Messages(ctx, other)
		require.NoError(t, err)
		assert.Empty(t, msgs)

		list, err := s.List(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("MetaRoundTrip", func(t *testing.T) {
		s := newStore(t)
		meta := store.Meta{Title: "Travel Planning", SystemPrompt: "Be friendly and casual"}
		require.NoError(t, s.SaveMeta(ctx, key, meta))
		got, found, err := s.Meta(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, meta, got)

		require.NoError(t, s.SaveMeta(ctx, key, store.Meta{Title: "Renamed"}))
		got, _, err = s.Meta(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, store.Meta{Title: "Renamed"}, got)
	})

	t.Run("UpsertAppendsAfterUserMessage", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Append(ctx, key, userMsg("m1", "hello", 1))
		require.NoError(t, err)

		saved, err := s.UpsertAssistant(ctx, key, assistantMsg("a1", "reply", 2))
		require.NoError(t, err)
		assert.Equal(t, "a1", saved.ID)

		msgs, err := s.Messages(ctx, key)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, store.RoleAssistant, msgs[1].Role)
		assert.Equal(t, "reply", msgs[1].Content)
	})

	t.Run("UpsertReplacesTrailingAssistant", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Append(ctx, key, userMsg("m1", "hello", 1), assistantMsg("a1", "old", 2))
		require.NoError(t, err)

		saved, err := s.UpsertAssistant(ctx, key, assistantMsg("a2", "new", 9))
		require.NoError(t, err)
		assert.Equal(t, "a1", saved.ID)
		assert.Equal(t, "new", saved.Content)
		assert.Equal(t, int64(9), saved.Ts)

		msgs, err := s.Messages(ctx, key)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "a1", msgs[1].ID)
		assert.Equal(t, "new", msgs[1].Content)
		assert.Equal(t, int64(9), msgs[1].Ts)
	})

	t.Run("UpsertOnUnknownConversation", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UpsertAssistant(ctx, key, assistantMsg("a1", "hi", 5))
		require.NoError(t, err)
		msgs, err := s.Messages(ctx, key)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "hi", msgs[0].Content)
	})

	t.Run("ListSortsByLastActivity", func(t *testing.T) {
		s := newStore(t)
		for i, ts := range []int64{30, 10, 20} {
			k := store.Key{UserID: "u1", ConversationID: fmt.Sprintf("c_%d", i)}
			_, err := s.Append(ctx, k, userMsg(fmt.Sprintf("m%d", i), "msg", ts))
			require.NoError(t, err)
		}
		_, err := s.Append(ctx, store.Key{UserID: "u1", ConversationID: "c_empty"})
		require.NoError(t, err)
		require.NoError(t, s.SaveMeta(ctx, store.Key{UserID: "u1", ConversationID: "c_1"}, store.Meta{Title: "Named"}))

		list, err := s.List(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"c_0", "c_2", "c_1", "c_empty"}, summaryIDs(list))
		assert.Equal(t, "Named", list[2].Title)
		require.NotNil(t, list[0].Ts)
		assert.Equal(t, int64(30), *list[0].Ts)
	})

	t.Run("ListPreviewTruncates", func(t *testing.T) {
		s := newStore(t)
		long := strings.Repeat("é", 75)
		_, err := s.Append(ctx, key, userMsg("m1", long, 1))
		require.NoError(t, err)
		list, err := s.List(ctx, key.UserID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, strings.Repeat("é", 60), list[0].Last)
	})

	t.Run("ClearWipesEverything", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Append(ctx, key, userMsg("m1", "hello", 1))
		require.NoError(t, err)
		require.NoError(t, s.SaveMeta(ctx, key, store.Meta{Title: "x"}))
		require.NoError(t, s.Clear(ctx))

		msgs, err := s.Messages(ctx, key)
		require.NoError(t, err)
		assert.Empty(t, msgs)
		list, err := s.List(ctx, key.UserID)
		require.NoError(t, err)
		assert.Empty(t, list)

		_, err = s.Append(ctx, key, userMsg("m2", "again", 2))
		require.NoError(t, err)
	})
}

func ids(msgs []store.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func summaryIDs(list []store.Summary) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}
