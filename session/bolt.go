package session

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

// Bolt is a Store backed by a BBolt database. Each visitor session maps
// to one bucket keyed by session ID, so session state survives restarts.
// Write failures are swallowed: a session store is advisory state and a
// failed write degrades to "no prior value", never to a request error.
type Bolt struct {
	db     *bbolt.DB
	bucket []byte
}

var _ Store = (*Bolt)(nil)

// NewBolt returns a Store for the given session ID backed by db.
func NewBolt(db *bbolt.DB, sessionID string) *Bolt {
	return &Bolt{db: db, bucket: []byte(sessionID)}
}

// OpenBoltDB opens a BBolt database at the given path for use with NewBolt.
func OpenBoltDB(path string, options *bbolt.Options) (*bbolt.DB, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return db, nil
}

func (s *Bolt) Get(key string) (any, bool) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if data := b.Get([]byte(key)); data != nil {
			raw = append(raw, data...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

func (s *Bolt) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

func (s *Bolt) Delete(key string) {
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

func (s *Bolt) Exists(key string) bool {
	found := false
	_ = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		found = b.Get([]byte(key)) != nil
		return nil
	})
	return found
}
