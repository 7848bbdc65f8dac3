// Package localstore provides the on-device store for clipboard items.
//
// The adapter wraps a key-value capability: each user's full item list
// is serialized as one JSON record under the user's key and fully
// overwritten on every write. The KV handle is injected, never a
// package-level singleton, so tests can substitute a fake.
package localstore

import (
	"context"
	"encoding/json"

	"github.com/emergingtrends/clipsync/internal/errors"
	"github.com/emergingtrends/clipsync/internal/models"
)

// KV is the persistent key-value capability the adapter is built on.
type KV interface {
	// Get returns the value under key, with ok=false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error
}

// Store adapts a KV into a per-user clipboard item store.
type Store struct {
	kv KV
}

// NewStore creates a Store over the given KV handle.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// LoadItems returns the user's stored item list. An absent key yields
// an empty list, not an error.
func (s *Store) LoadItems(ctx context.Context, userID string) ([]models.ClipboardItem, error) {
	raw, ok, err := s.kv.Get(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStoreRead, "failed to read local store", err)
	}
	if !ok {
		return []models.ClipboardItem{}, nil
	}

	var items []models.ClipboardItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, errors.Wrap(errors.ErrStoreRead, "corrupt local store record", err)
	}
	if items == nil {
		items = []models.ClipboardItem{}
	}
	return items, nil
}

// SaveItems overwrites the user's stored item list with items.
func (s *Store) SaveItems(ctx context.Context, userID string, items []models.ClipboardItem) error {
	if items == nil {
		items = []models.ClipboardItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(errors.ErrStoreWrite, "failed to serialize item list", err)
	}
	if err := s.kv.Put(ctx, userID, string(raw)); err != nil {
		return errors.Wrap(errors.ErrStoreWrite, "failed to write local store", err)
	}
	return nil
}
