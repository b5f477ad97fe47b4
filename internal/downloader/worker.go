// Package downloader implements the download worker: for each
// "to-download" message, fetch the granule, validate its checksum, stream
// it to the object store, and drive the granule row through its state
// machine (§4.3).
package downloader

import (
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/kraklabs/sentinel2ingest/internal/catalog"
	"github.com/kraklabs/sentinel2ingest/internal/objectstore"
	"github.com/kraklabs/sentinel2ingest/internal/queue"
	"github.com/kraklabs/sentinel2ingest/internal/repository"
	"github.com/kraklabs/sentinel2ingest/internal/secrets"
)

// LeaseTTL is how long a worker holds in_progress before another worker is
// allowed to treat the lease as stale. Matches the broker's default
// visibility timeout for downloads (§5).
const LeaseTTL = 15 * time.Minute

// Worker processes one queue message at a time. It is stateless between
// calls to Handle, so many Workers can run concurrently over a bounded
// pool.
type Worker struct {
	Repo          *repository.Repository
	Catalog       *catalog.Client
	Store         *objectstore.Store
	Queue         queue.Queue
	Secrets       secrets.Source
	UseInthub2    bool
	InthubHost    string
	MaxRetries    int
}

// Handle runs the full §4.3 contract for one message. A nil error means the
// consumer should ack (drop) the message; requeueing on transient failure
// is performed explicitly inside Handle, not by returning an error.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) error {
	// Step 1: load + lease.
	g, err := w.Repo.AcquireLease(ctx, msg.ID, LeaseTTL)
	if err != nil {
		return fmt.Errorf("acquire lease: %w", err)
	}
	if g == nil {
		// Not found, already downloaded, or validly leased elsewhere: drop.
		return nil
	}

	// Step 2: retry gate.
	if g.DownloadRetries >= w.MaxRetries {
		if err := w.Repo.Abandon(ctx, g.ID); err != nil {
			return fmt.Errorf("abandon granule %s: %w", g.ID, err)
		}
		log.Printf("[downloader] granule %s abandoned after %d retries", g.ID, g.DownloadRetries)
		return nil
	}

	credName := w.credentialName()
	cred, err := w.Secrets.Get(credName)
	if err != nil {
		return fmt.Errorf("resolve credentials %s: %w", credName, err)
	}

	// Step 3: refresh checksum.
	checksumURL := checksumEndpoint(g.ID)
	if checksum, err := w.Catalog.Checksum(ctx, checksumURL, catalog.Credentials(cred)); err != nil {
		log.Printf("[downloader] checksum refresh for %s failed, continuing with stored checksum: %v", g.ID, err)
	} else if checksum != "" && checksum != g.Checksum {
		if err := w.Repo.UpdateChecksum(ctx, g.ID, checksum); err != nil {
			return fmt.Errorf("persist refreshed checksum: %w", err)
		}
		g.Checksum = checksum
	}

	// Step 4: URL rewrite.
	downloadURL := g.DownloadURL
	if w.UseInthub2 {
		rewritten, err := catalog.RewriteHost(downloadURL, w.InthubHost)
		if err != nil {
			return fmt.Errorf("rewrite download url: %w", err)
		}
		downloadURL = rewritten
	}

	body, size, err := w.Catalog.Download(ctx, downloadURL, catalog.Credentials(cred))
	if err != nil {
		var expired *catalog.ExpiredError
		if asExpiredError(err, &expired) {
			if markErr := w.Repo.MarkExpired(ctx, g.ID); markErr != nil {
				return fmt.Errorf("mark expired after download error: %w", markErr)
			}
			log.Printf("[downloader] granule %s expired upstream", g.ID)
			return nil
		}
		return w.failTransient(ctx, msg, g.ID, fmt.Errorf("download: %w", err))
	}
	defer body.Close()

	// Step 5: stream to object store under YYYY-MM-DD/<filename>.
	key := path.Join(g.BeginPosition.Format("2006-01-02"), g.Filename)
	location, err := w.Store.Put(ctx, key, body, size, g.Checksum)
	if err != nil {
		return w.failTransient(ctx, msg, g.ID, fmt.Errorf("upload: %w", err))
	}

	// Step 6: commit success.
	if err := w.Repo.CompleteDownload(ctx, g.ID, location); err != nil {
		return fmt.Errorf("complete download for %s: %w", g.ID, err)
	}
	return nil
}

// failTransient implements step 7: clear the lease, bump the retry count,
// and re-publish the same message. The consumer still returns success so
// the broker does not double-account the message (the requeue is explicit).
func (w *Worker) failTransient(ctx context.Context, msg queue.Message, id string, cause error) error {
	retries, err := w.Repo.FailTransient(ctx, id)
	if err != nil {
		return fmt.Errorf("record transient failure for %s (cause: %v): %w", id, cause, err)
	}
	log.Printf("[downloader] granule %s transient failure (retry %d): %v", id, retries, cause)

	if err := w.Queue.Publish(ctx, msg); err != nil {
		return fmt.Errorf("requeue granule %s: %w", id, err)
	}
	return nil
}

func (w *Worker) credentialName() string {
	if w.UseInthub2 {
		return secrets.Inthub2Credentials
	}
	return secrets.ScihubCredentials
}

func checksumEndpoint(id string) string {
	return fmt.Sprintf("https://catalogue.dataspace.copernicus.eu/odata/v1/Products(%s)/Checksum", id)
}

func asExpiredError(err error, target **catalog.ExpiredError) bool {
	if e, ok := err.(*catalog.ExpiredError); ok {
		*target = e
		return true
	}
	return false
}
