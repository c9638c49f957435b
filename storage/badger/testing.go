package badger

import "github.com/dataelvisliang/Embedding-Atlas-Agent/storage"

// NewMemoryRunStore creates an in-memory RunStore for testing.
// Caller must close the store when done.
func NewMemoryRunStore() (storage.RunStore, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newRunStore(backend), nil
}
