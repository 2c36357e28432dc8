package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketSessions = []byte("sessions")

// SessionStore persists sessions.
type SessionStore interface {
	Create(s *Session) error
	Get(token string) (*Session, error)
	Delete(token string) error
	DeleteUser(userID string) (int, error)
	CleanExpired(now time.Time) (int, error)
	Close() error
}

// BoltSessions stores sessions in a bbolt file, keyed by token.
type BoltSessions struct {
	db *bolt.DB
}

// OpenBoltSessions opens (or creates) the session database at path.
func OpenBoltSessions(path string) (*BoltSessions, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}
	return &BoltSessions{db: db}, nil
}

// Close closes the database file.
func (b *BoltSessions) Close() error {
	return b.db.Close()
}

// Create stores s under its token.
func (b *BoltSessions) Create(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(s.Token), data)
	})
}

// Get returns the session for token, or ErrInvalidToken.
func (b *BoltSessions) Get(token string) (*Session, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSessions).Get([]byte(token)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrInvalidToken
	}
	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// Delete removes the session for token. Missing tokens are not an error.
func (b *BoltSessions) Delete(token string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(token))
	})
}

// DeleteUser removes every session belonging to userID.
func (b *BoltSessions) DeleteUser(userID string) (int, error) {
	return b.deleteWhere(func(s *Session) bool { return s.UserID == userID })
}

// CleanExpired removes sessions that expired before now.
func (b *BoltSessions) CleanExpired(now time.Time) (int, error) {
	return b.deleteWhere(func(s *Session) bool { return s.Expired(now) })
}

func (b *BoltSessions) deleteWhere(match func(*Session) bool) (int, error) {
	n := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)
		var doomed [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var s Session
			if err := json.Unmarshal(v, &s); err != nil {
				// unreadable entries are dropped too
				doomed = append(doomed, append([]byte(nil), k...))
				return nil
			}
			if match(&s) {
				doomed = append(doomed, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range doomed {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		n = len(doomed)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
