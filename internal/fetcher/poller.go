// Package fetcher implements the two link-discovery modes that share one
// admission routine: polling (§4.2.1) and push subscription (§4.2.2).
package fetcher

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kraklabs/sentinel2ingest/internal/catalog"
	"github.com/kraklabs/sentinel2ingest/internal/models"
	"github.com/kraklabs/sentinel2ingest/internal/queue"
	"github.com/kraklabs/sentinel2ingest/internal/repository"
	"github.com/kraklabs/sentinel2ingest/internal/tileset"
)

const pageSize = 100

// PageResult reports whether the poller should be re-invoked for the same
// (date, platform), per §4.2.1's iterative contract.
type PageResult struct {
	Completed     bool
	AdmittedCount int
}

// Poller executes one step of the polling algorithm.
type Poller struct {
	Catalog   *catalog.Client
	Repo      *repository.Repository
	Queue     queue.Queue
	Allowlist *tileset.Allowlist
}

// FetchPage runs steps 1-9 of §4.2.1 once for (date, platform).
func (p *Poller) FetchPage(ctx context.Context, date time.Time, platform string) (PageResult, error) {
	// Step 1: load or create the count row.
	count, err := p.Repo.GetOrCreateGranuleCount(ctx, date, platform)
	if err != nil {
		return PageResult{}, fmt.Errorf("load granule count: %w", err)
	}

	cursorKey := repository.CursorKey(date.Format("2006-01-02"), platform)
	cursorStr, err := p.Repo.GetStatus(ctx, cursorKey)
	if err != nil {
		return PageResult{}, fmt.Errorf("load cursor: %w", err)
	}
	skip := 0
	if cursorStr != "" {
		skip, err = strconv.Atoi(cursorStr)
		if err != nil {
			return PageResult{}, fmt.Errorf("parse cursor %q: %w", cursorStr, err)
		}
	}

	// Terminate when the cursor has already passed the advertised total.
	if count.AvailableLinks > 0 && skip >= count.AvailableLinks {
		return PageResult{Completed: true}, nil
	}

	// Steps 2-3: page request.
	page, err := p.Catalog.Search(ctx, catalog.SearchParams{
		Date:     date,
		Platform: platform,
		Skip:     skip,
		Top:      pageSize,
	})
	if err != nil {
		return PageResult{}, fmt.Errorf("catalog search for %s/%s: %w", date.Format("2006-01-02"), platform, err)
	}

	// Step 4: advance the advertised total if the catalog reports more.
	if page.TotalCount > count.AvailableLinks {
		if err := p.Repo.SetAvailableLinks(ctx, date, platform, page.TotalCount); err != nil {
			return PageResult{}, fmt.Errorf("update available links: %w", err)
		}
	}

	// Step 5: empty page means discovery is done for this (date, platform).
	if len(page.Value) == 0 {
		return PageResult{Completed: true}, nil
	}

	// Step 6: filter to the MGRS allowlist.
	admitted := 0
	pub := queue.AsPublisher(p.Queue)
	for _, product := range page.Value {
		if p.Allowlist != nil && !p.Allowlist.Allowed(product.TileID) {
			continue
		}

		g := models.Granule{
			ID:            product.ID,
			Filename:      product.Name,
			TileID:        product.TileID,
			Size:          product.ContentLength,
			Checksum:      product.Checksum,
			BeginPosition: product.BeginPosition,
			EndPosition:   product.EndPosition,
			IngestionDate: product.IngestionDate,
			DownloadURL:   product.DownloadURL,
		}

		// Step 7: admit. A DB error here must fail the whole page rather
		// than skip the granule: the cursor has not advanced yet, so
		// returning now lets the orchestrator retry this same page instead
		// of silently leaving the granule unadmitted behind an advanced
		// cursor.
		ok, err := p.Repo.Admit(ctx, g, pub)
		if err != nil {
			return PageResult{}, fmt.Errorf("admit granule %s: %w", g.ID, err)
		}
		if ok {
			admitted++
		}
	}

	if err := p.Repo.IncrementFetchedLinks(ctx, date, platform, len(page.Value)); err != nil {
		return PageResult{}, fmt.Errorf("increment fetched links: %w", err)
	}

	// Step 8: advance and persist the cursor.
	nextSkip := skip + len(page.Value)
	if err := p.Repo.SetStatus(ctx, cursorKey, strconv.Itoa(nextSkip)); err != nil {
		return PageResult{}, fmt.Errorf("persist cursor: %w", err)
	}

	// Step 9: ask the orchestrator to re-invoke.
	return PageResult{Completed: false, AdmittedCount: admitted}, nil
}
