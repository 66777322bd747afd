// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package sentiment

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// modelKey is the single key holding the serialized classifier. One
// key, one gob blob: the model and its text transform persist and load
// as an atomic unit.
const modelKey = "sentiment:model:v1"

// ErrModelNotFound means no classifier has been persisted yet.
var ErrModelNotFound = errors.New("no persisted sentiment model")

// Store persists the fitted classifier in BadgerDB.
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) a badger database at dir.
func OpenStore(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open sentiment store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already open badger database.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveModel persists the fitted model.
func (s *Store) SaveModel(m *Model) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("encode sentiment model: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(modelKey), buf.Bytes())
	})
}

// LoadModel restores the persisted model. Returns ErrModelNotFound
// when nothing was saved; any decode failure is surfaced so the caller
// retrains rather than running a half-initialized scorer.
func (s *Store) LoadModel() (*Model, error) {
	var m Model

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(modelKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get sentiment model: %w", err)
		}

		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&m)
		})
	})
	if err != nil {
		return nil, err
	}

	if len(m.Vocabulary) == 0 || len(m.LogLikePos) != len(m.Vocabulary) || len(m.LogLikeNeg) != len(m.Vocabulary) {
		return nil, errors.New("persisted sentiment model is malformed")
	}

	return &m, nil
}

// LoadOrTrain returns a scorer backed by the persisted model, fitting
// and persisting a fresh one from the fixed training sample when none
// exists. A persistence failure after a successful fit is not fatal:
// the in-memory model still serves this process.
func LoadOrTrain(store *Store) (*Scorer, error) {
	scorer := NewScorer()

	model, err := store.LoadModel()
	if err == nil {
		scorer.SetModel(model)
		return scorer, nil
	}
	if !errors.Is(err, ErrModelNotFound) {
		return nil, err
	}

	model, err = Train(TrainingSamples())
	if err != nil {
		return nil, fmt.Errorf("fit sentiment model: %w", err)
	}

	if err := store.SaveModel(model); err != nil {
		return nil, fmt.Errorf("persist sentiment model: %w", err)
	}

	scorer.SetModel(model)
	return scorer, nil
}
