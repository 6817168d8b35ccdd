package storage

import (
	"context"
	"sync"
	"time"

	"mockchat/mockchat/utils/logging"

	"go.uber.org/zap"
)

// Expirer deletes attachments a fixed time after upload.
type Expirer struct {
	files Attachments
	ttl   time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

func NewExpirer(files Attachments, ttl time.Duration) *Expirer {
	return &Expirer{files: files, ttl: ttl, pending: make(map[string]*time.Timer)}
}

// Schedule arranges for id to be deleted after the TTL.
func (e *Expirer) Schedule(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		go e.remove(id)
		return
	}
	if t, ok := e.pending[id]; ok {
		t.Stop()
	}
	e.pending[id] = time.AfterFunc(e.ttl, func() {
		e.mu.Lock()
		delete(e.pending, id)
		e.mu.Unlock()
		e.remove(id)
	})
}

func (e *Expirer) remove(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.files.Delete(ctx, id); err != nil {
		logging.ErrorLogger.Error("attachment cleanup failed", zap.String("attachment_id", id), zap.Error(err))
	}
}

// Pending reports how many deletions are still scheduled.
func (e *Expirer) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Close deletes every pending attachment now instead of waiting for its timer.
func (e *Expirer) Close() {
	e.mu.Lock()
	e.closed = true
	var ids []string
	for id, t := range e.pending {
		if t.Stop() {
			ids = append(ids, id)
		}
	}
	e.pending = map[string]*time.Timer{}
	e.mu.Unlock()

	for _, id := range ids {
		e.remove(id)
	}
}
