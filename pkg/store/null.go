package store

import "context"

// NullStore is a no-op store that never keeps anything.
// Useful for testing or when layouts should not persist.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Load always returns ErrNotFound.
func (s *NullStore) Load(ctx context.Context, id string) (*Document, error) {
	return nil, ErrNotFound
}

// Save does nothing.
func (s *NullStore) Save(ctx context.Context, doc *Document) error {
	return nil
}

// Delete does nothing.
func (s *NullStore) Delete(ctx context.Context, id string) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
