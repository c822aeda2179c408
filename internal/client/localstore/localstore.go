// Package localstore persists client state on disk with Badger.
package localstore

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Keys of the values the client persists.
const (
	TokenKey     = "notekeeper_token"
	LastEmailKey = "notekeeper_last_email"
)

// Store is a small key/value store for client state. It implements
// api.TokenStore.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens or creates the store in dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions(dir), logger)
}

// OpenInMemory opens a store that keeps nothing on disk.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("local store opened", "dir", opts.Dir, "in_memory", opts.InMemory)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Token returns the stored access token, or "" when none is stored.
func (s *Store) Token() (string, error) {
	return s.get(TokenKey)
}

// SetToken stores the access token.
func (s *Store) SetToken(token string) error {
	return s.set(TokenKey, token)
}

// ClearToken removes the access token.
func (s *Store) ClearToken() error {
	return s.delete(TokenKey)
}

// LastEmail returns the email of the last successful login.
func (s *Store) LastEmail() (string, error) {
	return s.get(LastEmailKey)
}

// SetLastEmail remembers email for the next login prompt.
func (s *Store) SetLastEmail(email string) error {
	return s.set(LastEmailKey, email)
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(key, value string) error {
	if value == "" {
		return s.delete(key)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
