package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"mockchat/mockchat/sources/store"
	"mockchat/mockchat/sources/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoltStore(t *testing.T) *store.BoltStore {
	s, err := store.NewBoltStore(filepath.Join(t.TempDir(), "data", "chat.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBoltStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newBoltStore(t)
	})
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chat.bolt")
	key := store.Key{UserID: "u1", ConversationID: "c_1"}

	s, err := store.NewBoltStore(path)
	require.NoError(t, err)
	_, err = s.Append(ctx, key, store.Message{ID: "m1", Role: store.RoleUser, Content: "persist me", Ts: 1})
	require.NoError(t, err)
	require.NoError(t, s.SaveMeta(ctx, key, store.Meta{Title: "Kept"}))
	require.NoError(t, s.Close())

	s, err = store.NewBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	msgs, err := s.Messages(ctx, key)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "persist me", msgs[0].Content)

	meta, found, err := s.Meta(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Kept", meta.Title)
}

func TestBoltStoreUserPrefixIsExact(t *testing.T) {
	ctx := context.Background()
	s := newBoltStore(t)
	_, err := s.Append(ctx, store.Key{UserID: "u1", ConversationID: "c_a"})
	require.NoError(t, err)
	_, err = s.Append(ctx, store.Key{UserID: "u10", ConversationID: "c_b"})
	require.NoError(t, err)

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c_a", list[0].ID)
}
