// Package main provides the clipsync durable store backend server.
// Clients talk to it over the single item endpoint; all state lives in
// a SQLite table partitioned by customer_id.
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/emergingtrends/clipsync/internal/backend/db"
	"github.com/emergingtrends/clipsync/internal/backend/httpapi"
	"github.com/emergingtrends/clipsync/internal/backend/unit"
	"github.com/emergingtrends/clipsync/internal/logging"
)

func main() {
	logging.Init(os.Stdout, logging.ParseLevel(os.Getenv("CLIPSYNC_LOG_LEVEL")))

	addr := os.Getenv("CLIPSYNC_ADDR")
	if addr == "" {
		addr = ":8787"
	}
	dataDir := os.Getenv("CLIPSYNC_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	database, err := db.Open(dataDir)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	repo := db.NewRepository(database.DB)
	defer repo.Close()

	registry := unit.NewRegistry(repo)
	defer registry.Close()

	mux := http.NewServeMux()
	mux.Handle("/", httpapi.NewHandler(registry))
	mux.HandleFunc("/api/health", httpapi.HealthHandler)

	logging.Info("clipsyncd starting", map[string]interface{}{
		"addr":     addr,
		"data_dir": dataDir,
	})
	log.Fatal(http.ListenAndServe(addr, mux))
}
