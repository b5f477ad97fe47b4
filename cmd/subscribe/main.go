// Command subscribe serves the push subscription endpoint (§4.2.2) on
// gorilla/mux.
package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kraklabs/sentinel2ingest/internal/config"
	"github.com/kraklabs/sentinel2ingest/internal/fetcher"
	"github.com/kraklabs/sentinel2ingest/internal/queue"
	"github.com/kraklabs/sentinel2ingest/internal/repository"
	"github.com/kraklabs/sentinel2ingest/internal/tileset"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	repo, err := repository.NewRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer repo.Close()

	allowlist, err := tileset.Load(cfg.AcceptedTileIDsFile)
	if err != nil {
		log.Fatalf("load tile allowlist: %v", err)
	}

	q, err := queue.NewRedisQueue(cfg.RedisURL, "to-download")
	if err != nil {
		log.Fatalf("connect to queue: %v", err)
	}

	handler := &fetcher.SubscriptionHandler{
		Repo:          repo,
		Queue:         q,
		Allowlist:     allowlist,
		Username:      cfg.SubscriptionUsername,
		Password:      cfg.SubscriptionPassword,
		RecencyWindow: time.Duration(cfg.SubscriptionRecencyDays) * 24 * time.Hour,
	}

	router := mux.NewRouter()
	router.Handle("/hooks/cdse", handler).Methods(http.MethodPost)

	addr := fmt.Sprintf(":%d", cfg.SubscriptionPort)
	log.Printf("subscription handler listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("subscription server: %v", err)
	}
}
