// Package unit provides per-customer durable units for the backend.
//
// Every customer identifier maps to exactly one unit: a single worker
// goroutine that executes all of that customer's operations strictly in
// sequence, so no two requests for the same customer ever run
// concurrently. Units for different customers are independent and run
// in parallel. Each unit carries a fast-access cache keyed by item id;
// the durable table is the single source of truth and list operations
// repair the cache from it.
package unit

import (
	"context"
	"sync"

	"github.com/emergingtrends/clipsync/internal/backend/db"
	"github.com/emergingtrends/clipsync/internal/logging"
	"github.com/emergingtrends/clipsync/internal/models"
)

// Registry routes operations to per-customer units, spawning a unit on
// first use.
type Registry struct {
	repo *db.Repository

	mu    sync.Mutex
	units map[string]*unit
	done  chan struct{}
}

// NewRegistry creates a Registry over the given repository.
func NewRegistry(repo *db.Repository) *Registry {
	return &Registry{
		repo:  repo,
		units: make(map[string]*unit),
		done:  make(chan struct{}),
	}
}

// unit is the isolated execution and storage context for one customer.
type unit struct {
	customerID string
	repo       *db.Repository
	cache      map[int64]string
	reqs       chan func()
}

// run executes queued operations one at a time until the registry
// closes.
func (u *unit) run(done <-chan struct{}) {
	for {
		select {
		case fn := <-u.reqs:
			fn()
		case <-done:
			return
		}
	}
}

// lookup returns the unit for customerID, spawning it on first use.
func (r *Registry) lookup(customerID string) *unit {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.units[customerID]
	if !ok {
		u = &unit{
			customerID: customerID,
			repo:       r.repo,
			cache:      make(map[int64]string),
			reqs:       make(chan func()),
		}
		r.units[customerID] = u
		go u.run(r.done)
		logging.Debug("spawned durable unit", map[string]interface{}{
			"customer_id": customerID,
		})
	}
	return u
}

// dispatch runs fn on the unit's worker and waits for it to finish.
// Once enqueued an operation always runs to completion; cancellation
// only applies while the request is still waiting for the worker.
func (r *Registry) dispatch(ctx context.Context, customerID string, fn func(*unit) error) error {
	u := r.lookup(customerID)

	errc := make(chan error, 1)
	select {
	case u.reqs <- func() { errc <- fn(u) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-errc
}

// Upsert replaces the item row in the durable table, then writes it
// into the unit's cache. Returns the assigned id, always equal to the
// caller-supplied id.
func (r *Registry) Upsert(ctx context.Context, customerID string, item models.ClipboardItem) (int64, error) {
	var id int64
	err := r.dispatch(ctx, customerID, func(u *unit) error {
		assigned, err := u.repo.UpsertItem(u.customerID, item)
		if err != nil {
			return err
		}
		id = assigned
		u.cache[item.ID] = item.Value
		return nil
	})
	return id, err
}

// List returns all of the customer's items ordered by id descending and
// repopulates the unit's cache from the authoritative table.
func (r *Registry) List(ctx context.Context, customerID string) ([]models.ClipboardItem, error) {
	var items []models.ClipboardItem
	err := r.dispatch(ctx, customerID, func(u *unit) error {
		rows, err := u.repo.ListItems(u.customerID)
		if err != nil {
			return err
		}
		// Self-healing cache: the table wins on any inconsistency.
		u.cache = make(map[int64]string, len(rows))
		for _, row := range rows {
			u.cache[row.ID] = row.Value
		}
		items = rows
		return nil
	})
	return items, err
}

// Delete removes the item from the cache first, then from the durable
// table. Deleting an id that does not exist is a no-op success.
func (r *Registry) Delete(ctx context.Context, customerID string, id int64) error {
	return r.dispatch(ctx, customerID, func(u *unit) error {
		delete(u.cache, id)
		return u.repo.DeleteItem(u.customerID, id)
	})
}

// Close stops all unit workers. In-flight operations complete; queued
// requests after Close may be dropped.
func (r *Registry) Close() {
	close(r.done)
}

// cachedValue reports the unit cache entry for id, for tests.
func (r *Registry) cachedValue(customerID string, id int64) (string, bool) {
	var value string
	var present bool
	err := r.dispatch(context.Background(), customerID, func(u *unit) error {
		value, present = u.cache[id]
		return nil
	})
	if err != nil {
		return "", false
	}
	return value, present
}
