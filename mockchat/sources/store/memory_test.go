package store_test

import (
	"context"
	"sync"
	"testing"

	"mockchat/mockchat/sources/store"
	"mockchat/mockchat/sources/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	})
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	key := store.Key{UserID: "u1", ConversationID: "c_1"}
	got, err := s.Append(ctx, key, store.Message{ID: "m1", Role: store.RoleUser, Content: "hi", Attachments: []string{"a"}})
	require.NoError(t, err)

	got[0].Content = "mutated"
	got[0].Attachments[0] = "mutated"

	stored, err := s.Messages(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "hi", stored[0].Content)
	assert.Equal(t, []string{"a"}, stored[0].Attachments)
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	key := store.Key{UserID: "u1", ConversationID: "c_1"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Append(ctx, key, store.Message{Role: store.RoleUser, Content: "x"})
			_, _ = s.List(ctx, key.UserID)
		}()
	}
	wg.Wait()

	msgs, err := s.Messages(ctx, key)
	require.NoError(t, err)
	assert.Len(t, msgs, 50)
}
