package store

import (
	"context"
	"sync"
)

type conversation struct {
	messages []Message
	meta     Meta
}

// MemoryStore keeps everything in process memory; contents are lost on exit.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]*conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]map[string]*conversation)}
}

// entry returns the conversation for key, creating it. Caller holds mu.
func (s *MemoryStore) entry(key Key) *conversation {
	convs, ok := s.users[key.UserID]
	if !ok {
		convs = make(map[string]*conversation)
		s.users[key.UserID] = convs
	}
	c, ok := convs[key.ConversationID]
	if !ok {
		c = &conversation{}
		convs[key.ConversationID] = c
	}
	return c
}

func (s *MemoryStore) lookup(key Key) *conversation {
	return s.users[key.UserID][key.ConversationID]
}

func (s *MemoryStore) Append(_ context.Context, key Key, msgs ...Message) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.entry(key)
	c.messages = append(c.messages, cloneMessages(msgs)...)
	return cloneMessages(c.messages), nil
}

func (s *MemoryStore) Messages(_ context.Context, key Key) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.lookup(key)
	if c == nil {
		return []Message{}, nil
	}
	return cloneMessages(c.messages), nil
}

func (s *MemoryStore) List(_ context.Context, userID string) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Summary, 0, len(s.users[userID]))
	for id, c := range s.users[userID] {
		list = append(list, Summarize(id, c.meta, c.messages))
	}
	SortSummaries(list)
	return list, nil
}

func (s *MemoryStore) Meta(_ context.Context, key Key) (Meta, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.lookup(key); c != nil {
		return c.meta, true, nil
	}
	return Meta{}, false, nil
}

func (s *MemoryStore) SaveMeta(_ context.Context, key Key, meta Meta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(key).meta = meta
	return nil
}

func (s *MemoryStore) UpsertAssistant(_ context.Context, key Key, msg Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.entry(key)
	var saved Message
	c.messages, saved = replaceOrAppend(c.messages, msg)
	return saved, nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]map[string]*conversation)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
