// Command requeue is the operator-triggered backfill CLI for §4.4. The
// -dry-run flag has no default: its absence is a fatal error, not a choice
// of false, so an operator can't trigger a bulk re-work by omission.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/kraklabs/sentinel2ingest/internal/config"
	"github.com/kraklabs/sentinel2ingest/internal/queue"
	"github.com/kraklabs/sentinel2ingest/internal/repository"
	"github.com/kraklabs/sentinel2ingest/internal/requeuer"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "required: true reports affected granules without publishing, false re-admits them")
	date := flag.String("date", "", "ingestion date to requeue, YYYY-MM-DD")
	flag.Parse()

	if *date == "" {
		log.Fatal("-date is required")
	}

	dryRunSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "dry-run" {
			dryRunSet = true
		}
	})
	if !dryRunSet {
		log.Fatal("-dry-run must be specified explicitly (true or false); there is no default, to prevent accidental mass requeues")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	repo, err := repository.NewRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer repo.Close()

	q, err := queue.NewRedisQueue(cfg.RedisURL, "to-download")
	if err != nil {
		log.Fatalf("connect to queue: %v", err)
	}

	result, err := requeuer.Run(context.Background(), repo, q, *dryRun, *date)
	if err != nil {
		log.Fatalf("requeue run: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}
