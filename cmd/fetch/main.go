// Command fetch runs the polling link fetcher across the date generator's
// work items, bounded by the per-date concurrency gate from §5.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kraklabs/sentinel2ingest/internal/catalog"
	"github.com/kraklabs/sentinel2ingest/internal/config"
	"github.com/kraklabs/sentinel2ingest/internal/dategen"
	"github.com/kraklabs/sentinel2ingest/internal/fetcher"
	"github.com/kraklabs/sentinel2ingest/internal/queue"
	"github.com/kraklabs/sentinel2ingest/internal/repository"
	"github.com/kraklabs/sentinel2ingest/internal/tileset"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
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

	poller := &fetcher.Poller{
		Catalog:   catalog.NewClient(cfg.CatalogBaseURL),
		Repo:      repo,
		Queue:     q,
		Allowlist: allowlist,
	}

	items := dategen.Generate(time.Time{}, cfg.LookbackDays, cfg.Platforms)

	ctx := context.Background()
	sem := semaphore.NewWeighted(int64(cfg.FetchConcurrency))

	for _, item := range items {
		item := item
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatalf("acquire fetch slot: %v", err)
		}
		go func() {
			defer sem.Release(1)
			runToCompletion(ctx, poller, item)
		}()
	}

	// Wait for all in-flight date/platform pairs to drain.
	if err := sem.Acquire(ctx, int64(cfg.FetchConcurrency)); err != nil {
		log.Fatalf("drain fetch slots: %v", err)
	}
}

func runToCompletion(ctx context.Context, poller *fetcher.Poller, item dategen.WorkItem) {
	date, err := time.Parse("2006-01-02", item.Date)
	if err != nil {
		log.Printf("[fetch] bad date %s: %v", item.Date, err)
		return
	}

	for {
		result, err := poller.FetchPage(ctx, date, item.Platform)
		if err != nil {
			log.Printf("[fetch] %s/%s: %v", item.Date, item.Platform, err)
			return
		}
		if result.Completed {
			return
		}
	}
}
