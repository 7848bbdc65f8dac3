// Package localstore tests for the on-device item store.
package localstore

import (
	"context"
	"testing"

	"github.com/emergingtrends/clipsync/internal/errors"
	"github.com/emergingtrends/clipsync/internal/models"
)

// kvFactories lists the KV implementations under test.
var kvFactories = []struct {
	name string
	make func(t *testing.T) KV
}{
	{
		name: "memory",
		make: func(t *testing.T) KV {
			t.Helper()
			return NewMemoryKV()
		},
	},
	{
		name: "sqlite",
		make: func(t *testing.T) KV {
			t.Helper()
			kv, err := openSQLiteMemory()
			if err != nil {
				t.Fatalf("Failed to open in-memory sqlite: %v", err)
			}
			t.Cleanup(func() { kv.Close() })
			return kv
		},
	},
}

// TestStore_LoadEmpty verifies a missing user key yields an empty list.
func TestStore_LoadEmpty(t *testing.T) {
	for _, f := range kvFactories {
		t.Run(f.name, func(t *testing.T) {
			store := NewStore(f.make(t))

			items, err := store.LoadItems(context.Background(), "alice")
			if err != nil {
				t.Fatalf("LoadItems failed: %v", err)
			}
			if len(items) != 0 {
				t.Errorf("LoadItems = %v, want empty list", items)
			}
		})
	}
}

// TestStore_RoundTrip verifies save-then-load returns the saved list.
func TestStore_RoundTrip(t *testing.T) {
	for _, f := range kvFactories {
		t.Run(f.name, func(t *testing.T) {
			store := NewStore(f.make(t))
			ctx := context.Background()

			items := []models.ClipboardItem{
				{ID: 1, Value: "first"},
				{ID: 2, Value: "second"},
			}
			if err := store.SaveItems(ctx, "alice", items); err != nil {
				t.Fatalf("SaveItems failed: %v", err)
			}

			got, err := store.LoadItems(ctx, "alice")
			if err != nil {
				t.Fatalf("LoadItems failed: %v", err)
			}
			if len(got) != len(items) {
				t.Fatalf("LoadItems returned %d items, want %d", len(got), len(items))
			}
			for i := range items {
				if got[i] != items[i] {
					t.Errorf("item %d = %+v, want %+v", i, got[i], items[i])
				}
			}
		})
	}
}

// TestStore_FullOverwrite verifies every save replaces the whole list.
func TestStore_FullOverwrite(t *testing.T) {
	for _, f := range kvFactories {
		t.Run(f.name, func(t *testing.T) {
			store := NewStore(f.make(t))
			ctx := context.Background()

			first := []models.ClipboardItem{{ID: 1, Value: "old"}}
			second := []models.ClipboardItem{{ID: 2, Value: "new"}}

			if err := store.SaveItems(ctx, "alice", first); err != nil {
				t.Fatalf("SaveItems failed: %v", err)
			}
			if err := store.SaveItems(ctx, "alice", second); err != nil {
				t.Fatalf("SaveItems failed: %v", err)
			}

			got, err := store.LoadItems(ctx, "alice")
			if err != nil {
				t.Fatalf("LoadItems failed: %v", err)
			}
			if len(got) != 1 || got[0] != second[0] {
				t.Errorf("LoadItems = %v, want %v", got, second)
			}
		})
	}
}

// TestStore_PerUserIsolation verifies users do not share records.
func TestStore_PerUserIsolation(t *testing.T) {
	store := NewStore(NewMemoryKV())
	ctx := context.Background()

	if err := store.SaveItems(ctx, "alice", []models.ClipboardItem{{ID: 1, Value: "a"}}); err != nil {
		t.Fatalf("SaveItems failed: %v", err)
	}
	if err := store.SaveItems(ctx, "bob", []models.ClipboardItem{{ID: 2, Value: "b"}}); err != nil {
		t.Fatalf("SaveItems failed: %v", err)
	}

	aliceItems, err := store.LoadItems(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadItems failed: %v", err)
	}
	if len(aliceItems) != 1 || aliceItems[0].Value != "a" {
		t.Errorf("alice items = %v, want only her own", aliceItems)
	}
}

// TestStore_CorruptRecord verifies a non-JSON record reports a read error.
func TestStore_CorruptRecord(t *testing.T) {
	kv := NewMemoryKV()
	if err := kv.Put(context.Background(), "alice", "not json"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	store := NewStore(kv)
	_, err := store.LoadItems(context.Background(), "alice")
	if err == nil {
		t.Fatal("LoadItems succeeded on corrupt record, want error")
	}
	if !errors.Is(err, errors.ErrStoreRead) {
		t.Errorf("error code = %v, want ErrStoreRead", err)
	}
}
