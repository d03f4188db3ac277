// Package store persists layout documents: the user-chosen column and cell
// sizes of a station, keyed by station ID.
//
// Backends:
//   - null: stores nothing, every load misses
//   - file: JSON files under a directory, for CLI usage
//   - redis: one key per station, for shared deployments
//   - mongo: one document per station, upserted by ID
//
// Use [Open] to pick a backend from a URL:
//
//	s, err := store.Open(ctx, "file:///home/me/.local/share/sidedock")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	doc, err := s.Load(ctx, "sidebar")
//	if errors.Is(err, store.ErrNotFound) {
//	    // nothing saved yet
//	}
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotFound is returned by Load when no document exists for the ID.
var ErrNotFound = errors.New("not found")

// Store is the interface for layout storage backends.
type Store interface {
	// Load returns the document saved for a station, or ErrNotFound.
	Load(ctx context.Context, id string) (*Document, error)

	// Save stores doc under doc.Station, replacing any previous one.
	Save(ctx context.Context, doc *Document) error

	// Delete removes a station's document. Deleting a missing one is not
	// an error.
	Delete(ctx context.Context, id string) error

	// Close releases the backend's connections.
	Close() error
}

// Open creates the backend selected by rawURL:
//
//	""  or "null"                      null store
//	"file:///path" or a plain path     file store
//	"redis://host:6379/0"              redis store
//	"mongodb://host:27017/db"          mongo store
func Open(ctx context.Context, rawURL string) (Store, error) {
	switch {
	case rawURL == "" || rawURL == "null":
		return NewNullStore(), nil
	case strings.HasPrefix(rawURL, "redis://"), strings.HasPrefix(rawURL, "rediss://"):
		return NewRedisStore(ctx, RedisConfig{URL: rawURL})
	case strings.HasPrefix(rawURL, "mongodb://"), strings.HasPrefix(rawURL, "mongodb+srv://"):
		return NewMongoStore(ctx, MongoConfig{URI: rawURL})
	case strings.HasPrefix(rawURL, "file://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse store url: %w", err)
		}
		return NewFileStore(u.Path)
	case !strings.Contains(rawURL, "://"):
		return NewFileStore(rawURL)
	}
	return nil, fmt.Errorf("unsupported store %q", rawURL)
}
