// Package db provides CRUD repository operations for clipboard items.
package db

import (
	"database/sql"
	"sync"

	"github.com/emergingtrends/clipsync/internal/models"
)

// Repository provides item operations over the durable table.
type Repository struct {
	db *sql.DB

	// Prepared statement cache for frequently used queries.
	// Statements are prepared on first use and cached for reuse.
	stmtCache sync.Map // map[string]*sql.Stmt
}

// NewRepository creates a new Repository instance.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// PrepareStmt gets or creates a prepared statement from cache.
// Key is the query string, value is the prepared statement.
func (r *Repository) PrepareStmt(query string) (*sql.Stmt, error) {
	if stmt, ok := r.stmtCache.Load(query); ok {
		return stmt.(*sql.Stmt), nil
	}

	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, err
	}

	actual, loaded := r.stmtCache.LoadOrStore(query, stmt)
	if loaded {
		// Another goroutine already prepared this, close our duplicate
		stmt.Close()
		return actual.(*sql.Stmt), nil
	}

	return stmt, nil
}

// Close closes all cached prepared statements.
// Should be called when the Repository is no longer needed.
func (r *Repository) Close() error {
	var firstErr error
	r.stmtCache.Range(func(key, value interface{}) bool {
		stmt := value.(*sql.Stmt)
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}

// =====================================================
// ClipboardItem Operations
// =====================================================

// UpsertItem replaces the row for (item.ID, customerID), creating it if
// absent. The id is caller-supplied; the returned id always equals the
// input id.
func (r *Repository) UpsertItem(customerID string, item models.ClipboardItem) (int64, error) {
	query := `
	INSERT OR REPLACE INTO clipboard_items (id, customer_id, clipboard_data)
	VALUES (?, ?, ?)
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return 0, err
	}
	if _, err := stmt.Exec(item.ID, customerID, item.Value); err != nil {
		return 0, err
	}
	return item.ID, nil
}

// ListItems returns all items for customerID ordered by id descending.
func (r *Repository) ListItems(customerID string) ([]models.ClipboardItem, error) {
	query := `
	SELECT id, clipboard_data FROM clipboard_items
	WHERE customer_id = ? ORDER BY id DESC
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.ClipboardItem, 0)
	for rows.Next() {
		var item models.ClipboardItem
		if err := rows.Scan(&item.ID, &item.Value); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteItem removes the row for (id, customerID). Deleting an id that
// does not exist is a no-op success. The delete is scoped to the owning
// customer so colliding timestamp ids can never cross customers.
func (r *Repository) DeleteItem(customerID string, id int64) error {
	query := `DELETE FROM clipboard_items WHERE id = ? AND customer_id = ?`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(id, customerID)
	return err
}
