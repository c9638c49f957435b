// Copyright 2025 the Embedding Atlas Agent authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/storage"
)

// RunStore implements storage.RunStore on BadgerDB.
type RunStore struct {
	backend *Backend
}

var _ storage.RunStore = (*RunStore)(nil)

// NewRunStore opens a RunStore backed by a BadgerDB database at path.
//
// Returns storage.RunStore interface to enforce abstraction.
func NewRunStore(path string) (storage.RunStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &RunStore{backend: backend}, nil
}

// newRunStore wraps an existing backend; used by tests.
func newRunStore(backend *Backend) *RunStore {
	return &RunStore{backend: backend}
}

// SaveBatch persists the raw vectors of one successful batch under runID.
func (s *RunStore) SaveBatch(ctx context.Context, runID string, result core.BatchResult) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunBatchKey(runID, result.BatchIndex)
		if err := tx.Set(key, storage.MarshalBatchResult(&result)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadBatches returns every batch previously saved under runID.
func (s *RunStore) LoadBatches(ctx context.Context, runID string) (map[int]core.BatchResult, error) {
	results := make(map[int]core.BatchResult)

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRunPrefix(runID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				result, err := storage.UnmarshalBatchResult(val)
				if err != nil {
					return err
				}
				results[result.BatchIndex] = *result
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return results, nil
}

// DeleteRun removes all batches saved under runID.
func (s *RunStore) DeleteRun(ctx context.Context, runID string) error {
	// Collect keys first; deleting while iterating invalidates the iterator.
	var keys [][]byte
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRunPrefix(runID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.backend.Close()
}
