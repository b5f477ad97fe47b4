// Command download runs the bounded-concurrency download worker pool
// against the "to-download" queue, capped per §5 (default 15).
package main

import (
	"context"
	"log"
	"sync"

	"github.com/kraklabs/sentinel2ingest/internal/catalog"
	"github.com/kraklabs/sentinel2ingest/internal/config"
	"github.com/kraklabs/sentinel2ingest/internal/downloader"
	"github.com/kraklabs/sentinel2ingest/internal/objectstore"
	"github.com/kraklabs/sentinel2ingest/internal/queue"
	"github.com/kraklabs/sentinel2ingest/internal/repository"
	"github.com/kraklabs/sentinel2ingest/internal/secrets"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !cfg.EnableDownloading {
		log.Println("ENABLE_DOWNLOADING is false, exiting")
		return
	}

	repo, err := repository.NewRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer repo.Close()

	store, err := objectstore.NewStore(ctx, cfg.UploadBucket)
	if err != nil {
		log.Fatalf("connect to object store: %v", err)
	}

	q, err := queue.NewRedisQueue(cfg.RedisURL, "to-download")
	if err != nil {
		log.Fatalf("connect to queue: %v", err)
	}

	worker := &downloader.Worker{
		Repo:       repo,
		Catalog:    catalog.NewClient(cfg.CatalogBaseURL),
		Store:      store,
		Queue:      q,
		Secrets:    secrets.EnvSource{},
		UseInthub2: cfg.UseInthub2,
		InthubHost: cfg.InthubBaseURL,
		MaxRetries: cfg.MaxDownloadRetries,
	}

	sem := make(chan struct{}, cfg.DownloadWorkerCount)
	var wg sync.WaitGroup

	for {
		msg, ack, err := q.Consume(ctx)
		if err != nil {
			log.Printf("[download] consume error: %v", err)
			continue
		}
		if ack == nil {
			continue // no message available within the poll timeout
		}

		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := worker.Handle(ctx, msg); err != nil {
				log.Printf("[download] granule %s: %v", msg.ID, err)
				return
			}
			if err := ack(ctx); err != nil {
				log.Printf("[download] ack %s failed: %v", msg.ID, err)
			}
		}()
	}
}
