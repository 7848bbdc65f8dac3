// Package main provides the clipsync command line client. It keeps a
// per-user item list in a local SQLite store and reconciles it with the
// remote backend on demand.
//
// Usage:
//
//	clipsync save <value>   append an item locally and push it
//	clipsync list           print the merged view of local and remote
//	clipsync sync           pull, merge, persist, then push everything
//	clipsync delete <id>    remove an item locally and remotely
//
// Configuration comes from the environment: CLIPSYNC_REMOTE_URL,
// CLIPSYNC_USER (default "default"), CLIPSYNC_DATA_DIR (default
// "./data"), CLIPSYNC_LOG_LEVEL.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/emergingtrends/clipsync/internal/engine"
	"github.com/emergingtrends/clipsync/internal/localstore"
	"github.com/emergingtrends/clipsync/internal/logging"
	"github.com/emergingtrends/clipsync/internal/models"
	"github.com/emergingtrends/clipsync/internal/remote"
)

func main() {
	logging.Init(os.Stderr, logging.ParseLevel(os.Getenv("CLIPSYNC_LOG_LEVEL")))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	remoteURL := os.Getenv("CLIPSYNC_REMOTE_URL")
	if remoteURL == "" {
		log.Fatal("CLIPSYNC_REMOTE_URL is required")
	}
	userID := os.Getenv("CLIPSYNC_USER")
	if userID == "" {
		userID = "default"
	}
	dataDir := os.Getenv("CLIPSYNC_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	kv, err := localstore.OpenSQLite(dataDir)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer kv.Close()

	store := localstore.NewStore(kv)
	eng := engine.New(store, remote.NewClient(remoteURL))
	ctx := context.Background()

	local, err := store.LoadItems(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to load local items: %v", err)
	}

	switch os.Args[1] {
	case "save":
		if len(os.Args) < 3 {
			usage()
			os.Exit(2)
		}
		runSave(ctx, eng, userID, local, os.Args[2])
	case "list":
		runList(ctx, eng, userID, local)
	case "sync":
		runSync(ctx, eng, userID, local)
	case "delete":
		if len(os.Args) < 3 {
			usage()
			os.Exit(2)
		}
		id, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("Invalid item id %q", os.Args[2])
		}
		runDelete(ctx, eng, userID, local, id)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: clipsync <save value | list | sync | delete id>")
}

// runSave appends a new item locally and attempts one push. A failed
// push is a notification, not a failure: the item is already durable
// locally.
func runSave(ctx context.Context, eng *engine.Engine, userID string, local []models.ClipboardItem, value string) {
	_, outcome, err := eng.Save(ctx, userID, local, value)
	if err != nil {
		log.Fatalf("Failed to save item: %v", err)
	}
	if outcome.Synced {
		fmt.Printf("Saved item %d and synced to remote\n", outcome.Item.ID)
	} else {
		fmt.Printf("Saved item %d locally; remote push failed: %v\n", outcome.Item.ID, outcome.Err)
	}
}

// runList prints the merged view without persisting anything.
func runList(ctx context.Context, eng *engine.Engine, userID string, local []models.ClipboardItem) {
	remoteItems, err := eng.RemoteSnapshot(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to fetch remote items: %v", err)
	}
	for _, item := range engine.Merge(local, remoteItems) {
		kind := models.DetectKind(item.Value)
		if kind == models.KindImage {
			fmt.Printf("%d\t[image]\n", item.ID)
		} else {
			fmt.Printf("%d\t%s\n", item.ID, item.Value)
		}
	}
}

// runSync performs the composite pull-then-push action.
func runSync(ctx context.Context, eng *engine.Engine, userID string, local []models.ClipboardItem) {
	result, err := eng.SyncWithCloud(ctx, userID, local)
	if err != nil {
		log.Fatalf("Sync failed: %v", err)
	}
	fmt.Printf("Synced: %d items in merged view, %d pushed, %d failed (%s)\n",
		len(result.Merged), result.Pushed, result.Failed, result.Duration)
	for _, outcome := range result.Outcomes {
		if !outcome.Synced {
			fmt.Printf("  item %d not pushed: %v\n", outcome.Item.ID, outcome.Err)
		}
	}
}

// runDelete removes the item from both stores. A failed remote delete
// leaves the local removal in place.
func runDelete(ctx context.Context, eng *engine.Engine, userID string, local []models.ClipboardItem, id int64) {
	remoteItems, err := eng.RemoteSnapshot(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to fetch remote items: %v", err)
	}

	_, _, err = eng.DeleteItem(ctx, userID, id, local, remoteItems)
	if err != nil {
		fmt.Printf("Deleted item %d locally; remote delete failed: %v\n", id, err)
		return
	}
	fmt.Printf("Deleted item %d\n", id)
}
