// Package engine provides reconciliation between the local item store
// and the remote durable store.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emergingtrends/clipsync/internal/errors"
	"github.com/emergingtrends/clipsync/internal/localstore"
	"github.com/emergingtrends/clipsync/internal/logging"
	"github.com/emergingtrends/clipsync/internal/models"
)

// RemoteStore defines the operations the engine needs from the durable
// store backend.
type RemoteStore interface {
	// List fetches the user's full remote collection.
	List(ctx context.Context, userID string) ([]models.ClipboardItem, error)

	// Upsert pushes one item to the user's remote collection.
	Upsert(ctx context.Context, userID string, item models.ClipboardItem) error

	// Delete removes one item from the user's remote collection.
	Delete(ctx context.Context, userID string, id int64) error
}

// Engine sequences save, push, pull and delete operations across the
// local store adapter and the remote store client. Both collaborators
// are injected; the engine holds no hidden global state.
type Engine struct {
	store  *localstore.Store
	remote RemoteStore

	// id generation state; ids are millisecond timestamps nudged
	// forward when two saves land in the same millisecond.
	idMu   sync.Mutex
	lastID int64
	now    func() time.Time
}

// New creates an Engine over the given store and remote client.
func New(store *localstore.Store, remote RemoteStore) *Engine {
	return &Engine{
		store:  store,
		remote: remote,
		now:    time.Now,
	}
}

// freshID returns a new item id derived from the current time.
func (e *Engine) freshID() int64 {
	e.idMu.Lock()
	defer e.idMu.Unlock()

	id := e.now().UnixMilli()
	if id <= e.lastID {
		id = e.lastID + 1
	}
	e.lastID = id
	return id
}

// Merge combines a local and a remote item list into the authoritative
// merged view: all remote items in remote order, followed by every
// local item whose id does not appear in remote, in local order. For a
// shared id the remote copy always wins; timestamps are never compared.
// Neither input is mutated.
func Merge(local, remote []models.ClipboardItem) []models.ClipboardItem {
	remoteIDs := make(map[int64]struct{}, len(remote))
	for _, item := range remote {
		remoteIDs[item.ID] = struct{}{}
	}

	merged := make([]models.ClipboardItem, 0, len(remote)+len(local))
	merged = append(merged, remote...)
	for _, item := range local {
		if _, ok := remoteIDs[item.ID]; !ok {
			merged = append(merged, item)
		}
	}
	return merged
}

// PushOutcome reports the result of pushing one item.
type PushOutcome struct {
	// OpID identifies this push attempt in logs and notifications.
	OpID string

	Item   models.ClipboardItem
	Synced bool
	Err    error
}

// Save constructs a new item with a fresh id, appends it to local,
// persists the updated collection, and then attempts a single push of
// the new item. The local write is committed before the push so the
// item survives even with no connectivity; a failed push is reported
// in the returned outcome and never rolls back the local write.
func (e *Engine) Save(ctx context.Context, userID string, local []models.ClipboardItem, value string) ([]models.ClipboardItem, PushOutcome, error) {
	item := models.ClipboardItem{ID: e.freshID(), Value: value}

	updated := make([]models.ClipboardItem, 0, len(local)+1)
	updated = append(updated, local...)
	updated = append(updated, item)

	if err := e.store.SaveItems(ctx, userID, updated); err != nil {
		return nil, PushOutcome{}, err
	}

	outcomes := e.PushToRemote(ctx, userID, []models.ClipboardItem{item})
	return updated, outcomes[0], nil
}

// PushToRemote upserts each item to the remote store, independently and
// in order. One item's failure does not block subsequent items, and no
// attempt is retried; each outcome is reported individually.
func (e *Engine) PushToRemote(ctx context.Context, userID string, items []models.ClipboardItem) []PushOutcome {
	outcomes := make([]PushOutcome, 0, len(items))

	for _, item := range items {
		outcome := PushOutcome{
			OpID: uuid.New().String(),
			Item: item,
		}

		if err := e.remote.Upsert(ctx, userID, item); err != nil {
			outcome.Err = err
			logging.Warn("failed to push item", map[string]interface{}{
				"op_id":   outcome.OpID,
				"user_id": userID,
				"item_id": item.ID,
				"error":   err.Error(),
			})
		} else {
			outcome.Synced = true
			logging.Debug("pushed item", map[string]interface{}{
				"op_id":   outcome.OpID,
				"user_id": userID,
				"item_id": item.ID,
			})
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// RemoteSnapshot fetches the user's remote collection without touching
// the local store, for read-only views and delete flows.
func (e *Engine) RemoteSnapshot(ctx context.Context, userID string) ([]models.ClipboardItem, error) {
	items, err := e.remote.List(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrPullFailed, "failed to fetch remote collection", err)
	}
	return items, nil
}

// PullFromRemote fetches the user's remote collection, merges it with
// local, persists the merged collection so local reflects remote's
// authority, and returns both the raw remote snapshot and the new local
// snapshot. Local-only items survive the merge; nothing is deleted here.
func (e *Engine) PullFromRemote(ctx context.Context, userID string, local []models.ClipboardItem) (remote, merged []models.ClipboardItem, err error) {
	remote, err = e.remote.List(ctx, userID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrPullFailed, "failed to fetch remote collection", err)
	}

	merged = Merge(local, remote)
	if err := e.store.SaveItems(ctx, userID, merged); err != nil {
		return nil, nil, err
	}

	logging.Info("pulled remote collection", map[string]interface{}{
		"user_id": userID,
		"remote":  len(remote),
		"merged":  len(merged),
	})
	return remote, merged, nil
}

// DeleteItem removes the item with id from both in-memory lists,
// persists the updated local collection, and issues a remote delete.
// The remote view is updated optimistically; a failed remote delete is
// returned as an error but never rolls the views back.
func (e *Engine) DeleteItem(ctx context.Context, userID string, id int64, local, remoteView []models.ClipboardItem) (newLocal, newRemoteView []models.ClipboardItem, err error) {
	newLocal = filterOut(local, id)
	newRemoteView = filterOut(remoteView, id)

	if err := e.store.SaveItems(ctx, userID, newLocal); err != nil {
		return nil, nil, err
	}

	if err := e.remote.Delete(ctx, userID, id); err != nil {
		logging.Warn("remote delete failed", map[string]interface{}{
			"user_id": userID,
			"item_id": id,
			"error":   err.Error(),
		})
		return newLocal, newRemoteView, errors.Wrap(errors.ErrSyncFailed,
			fmt.Sprintf("item %d removed locally but remote delete failed", id), err)
	}

	return newLocal, newRemoteView, nil
}

// filterOut returns items without the entry matching id.
func filterOut(items []models.ClipboardItem, id int64) []models.ClipboardItem {
	kept := make([]models.ClipboardItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return kept
}

// SyncResult summarizes one SyncWithCloud pass.
type SyncResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Remote   []models.ClipboardItem
	Merged   []models.ClipboardItem
	Outcomes []PushOutcome
	Pushed   int
	Failed   int
}

// SyncWithCloud performs the composite manual-sync action: pull the
// remote collection, merge and persist it locally, then push the full
// merged view back item by item. Push failures are per-item outcomes,
// not an aggregate error.
func (e *Engine) SyncWithCloud(ctx context.Context, userID string, local []models.ClipboardItem) (*SyncResult, error) {
	result := &SyncResult{StartTime: e.now()}

	remote, merged, err := e.PullFromRemote(ctx, userID, local)
	if err != nil {
		return nil, err
	}
	result.Remote = remote
	result.Merged = merged

	result.Outcomes = e.PushToRemote(ctx, userID, merged)
	for _, outcome := range result.Outcomes {
		if outcome.Synced {
			result.Pushed++
		} else {
			result.Failed++
		}
	}

	result.EndTime = e.now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result, nil
}
