package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var conversationsBucket = []byte("conversations")

type boltRecord struct {
	Meta     Meta      `json:"meta"`
	Messages []Message `json:"messages"`
}

// BoltStore persists conversations in a single bbolt file, one JSON record
// per (user, conversation) key.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create bolt dir")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(conversationsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bucket")
	}
	return &BoltStore{db: db}, nil
}

func userPrefix(userID string) []byte {
	return append([]byte(userID), 0)
}

func boltKey(key Key) []byte {
	return append(userPrefix(key.UserID), key.ConversationID...)
}

func readRecord(b *bolt.Bucket, k []byte) (boltRecord, error) {
	var rec boltRecord
	v := b.Get(k)
	if len(v) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(v, &rec); err != nil {
		return rec, errors.Wrapf(err, "decode record %q", k)
	}
	return rec, nil
}

func writeRecord(b *bolt.Bucket, k []byte, rec boltRecord) error {
	enc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.Put(k, enc)
}

// update runs fn on the record for key inside one write transaction.
func (s *BoltStore) update(key Key, fn func(rec *boltRecord)) (boltRecord, error) {
	var out boltRecord
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(conversationsBucket)
		k := boltKey(key)
		rec, err := readRecord(b, k)
		if err != nil {
			return err
		}
		fn(&rec)
		out = rec
		return writeRecord(b, k, rec)
	})
	return out, err
}

func (s *BoltStore) view(key Key) (boltRecord, error) {
	var rec boltRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		rec, err = readRecord(tx.Bucket(conversationsBucket), boltKey(key))
		return err
	})
	return rec, err
}

func (s *BoltStore) Append(_ context.Context, key Key, msgs ...Message) ([]Message, error) {
	rec, err := s.update(key, func(rec *boltRecord) {
		rec.Messages = append(rec.Messages, msgs...)
	})
	if err != nil {
		return nil, errors.Wrap(err, "append messages")
	}
	if rec.Messages == nil {
		return []Message{}, nil
	}
	return rec.Messages, nil
}

func (s *BoltStore) Messages(_ context.Context, key Key) ([]Message, error) {
	rec, err := s.view(key)
	if err != nil {
		return nil, errors.Wrap(err, "load messages")
	}
	if rec.Messages == nil {
		return []Message{}, nil
	}
	return rec.Messages, nil
}

func (s *BoltStore) List(_ context.Context, userID string) ([]Summary, error) {
	list := []Summary{}
	prefix := userPrefix(userID)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(conversationsBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return errors.Wrapf(err, "decode record %q", k)
			}
			list = append(list, Summarize(string(k[len(prefix):]), rec.Meta, rec.Messages))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list conversations")
	}
	SortSummaries(list)
	return list, nil
}

func (s *BoltStore) Meta(_ context.Context, key Key) (Meta, bool, error) {
	var (
		rec   boltRecord
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(conversationsBucket)
		k := boltKey(key)
		if b.Get(k) == nil {
			return nil
		}
		found = true
		var err error
		rec, err = readRecord(b, k)
		return err
	})
	if err != nil {
		return Meta{}, false, errors.Wrap(err, "load meta")
	}
	return rec.Meta, found, nil
}

func (s *BoltStore) SaveMeta(_ context.Context, key Key, meta Meta) error {
	_, err := s.update(key, func(rec *boltRecord) { rec.Meta = meta })
	return errors.Wrap(err, "save meta")
}

func (s *BoltStore) UpsertAssistant(_ context.Context, key Key, msg Message) (Message, error) {
	var saved Message
	_, err := s.update(key, func(rec *boltRecord) {
		rec.Messages, saved = replaceOrAppend(rec.Messages, msg)
	})
	if err != nil {
		return Message{}, errors.Wrap(err, "upsert assistant message")
	}
	return saved, nil
}

func (s *BoltStore) Clear(context.Context) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(conversationsBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(conversationsBucket)
		return err
	})
	return errors.Wrap(err, "clear conversations")
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
