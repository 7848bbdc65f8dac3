// Package db provides unit tests for the clipboard item repository.
package db

import (
	"testing"

	"github.com/emergingtrends/clipsync/internal/models"
)

// setupTestRepo creates a migrated in-memory database and repository.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	database, err := OpenMemory()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := Migrate(database.DB); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	repo := NewRepository(database.DB)
	t.Cleanup(func() { repo.Close() })
	return repo
}

// TestMigrate_idempotent verifies migrations can run twice.
func TestMigrate_idempotent(t *testing.T) {
	database, err := OpenMemory()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer database.Close()

	if err := Migrate(database.DB); err != nil {
		t.Fatalf("First Migrate failed: %v", err)
	}
	if err := Migrate(database.DB); err != nil {
		t.Fatalf("Second Migrate failed: %v", err)
	}

	m := NewMigrator(database.DB)
	version, err := m.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("CurrentVersion = %d, want 1", version)
	}
}

// TestUpsertItem verifies insert and the returned id.
func TestUpsertItem(t *testing.T) {
	repo := setupTestRepo(t)

	id, err := repo.UpsertItem("alice", models.ClipboardItem{ID: 100, Value: "hello"})
	if err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}
	if id != 100 {
		t.Errorf("UpsertItem returned id %d, want 100", id)
	}

	items, err := repo.ListItems("alice")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Value != "hello" {
		t.Errorf("ListItems = %v, want single hello item", items)
	}
}

// TestUpsertItem_replaces verifies upserting an existing id replaces
// the value without creating a duplicate row.
func TestUpsertItem_replaces(t *testing.T) {
	repo := setupTestRepo(t)

	if _, err := repo.UpsertItem("alice", models.ClipboardItem{ID: 100, Value: "old"}); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}
	if _, err := repo.UpsertItem("alice", models.ClipboardItem{ID: 100, Value: "new"}); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	items, err := repo.ListItems("alice")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("ListItems returned %d rows, want exactly 1", len(items))
	}
	if items[0].Value != "new" {
		t.Errorf("value = %q, want %q", items[0].Value, "new")
	}
}

// TestListItems_orderDescending verifies id-descending ordering.
func TestListItems_orderDescending(t *testing.T) {
	repo := setupTestRepo(t)

	for _, item := range []models.ClipboardItem{{ID: 1, Value: "a"}, {ID: 3, Value: "c"}, {ID: 2, Value: "b"}} {
		if _, err := repo.UpsertItem("alice", item); err != nil {
			t.Fatalf("UpsertItem failed: %v", err)
		}
	}

	items, err := repo.ListItems("alice")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	wantIDs := []int64{3, 2, 1}
	if len(items) != len(wantIDs) {
		t.Fatalf("ListItems returned %d rows, want %d", len(items), len(wantIDs))
	}
	for i, id := range wantIDs {
		if items[i].ID != id {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, id)
		}
	}
}

// TestListItems_empty verifies an unknown customer yields an empty
// non-nil list.
func TestListItems_empty(t *testing.T) {
	repo := setupTestRepo(t)

	items, err := repo.ListItems("nobody")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if items == nil {
		t.Fatal("ListItems returned nil, want empty list")
	}
	if len(items) != 0 {
		t.Errorf("ListItems = %v, want empty list", items)
	}
}

// TestDeleteItem verifies deletion and no-op success for missing ids.
func TestDeleteItem(t *testing.T) {
	repo := setupTestRepo(t)

	if _, err := repo.UpsertItem("alice", models.ClipboardItem{ID: 100, Value: "x"}); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	if err := repo.DeleteItem("alice", 100); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	items, err := repo.ListItems("alice")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("ListItems = %v, want empty after delete", items)
	}

	// deleting a non-existent id is a no-op success
	if err := repo.DeleteItem("alice", 999); err != nil {
		t.Errorf("DeleteItem of missing id failed: %v", err)
	}
}

// TestDeleteItem_customerScoped verifies identical ids across customers
// never cross-delete.
func TestDeleteItem_customerScoped(t *testing.T) {
	repo := setupTestRepo(t)

	if _, err := repo.UpsertItem("alice", models.ClipboardItem{ID: 100, Value: "alice-data"}); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}
	if _, err := repo.UpsertItem("bob", models.ClipboardItem{ID: 100, Value: "bob-data"}); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	if err := repo.DeleteItem("alice", 100); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}

	bobItems, err := repo.ListItems("bob")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(bobItems) != 1 || bobItems[0].Value != "bob-data" {
		t.Errorf("bob's items = %v, want his row untouched", bobItems)
	}
}

// TestCustomerIsolation verifies lists are partitioned per customer.
func TestCustomerIsolation(t *testing.T) {
	repo := setupTestRepo(t)

	if _, err := repo.UpsertItem("alice", models.ClipboardItem{ID: 1, Value: "a"}); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}
	if _, err := repo.UpsertItem("bob", models.ClipboardItem{ID: 2, Value: "b"}); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	aliceItems, err := repo.ListItems("alice")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(aliceItems) != 1 || aliceItems[0].ID != 1 {
		t.Errorf("alice items = %v, want only id 1", aliceItems)
	}
}
