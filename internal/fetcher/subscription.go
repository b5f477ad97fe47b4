package fetcher

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/kraklabs/sentinel2ingest/internal/models"
	"github.com/kraklabs/sentinel2ingest/internal/queue"
	"github.com/kraklabs/sentinel2ingest/internal/repository"
	"github.com/kraklabs/sentinel2ingest/internal/tileset"
)

// pushEvent is the CDSE push subscription payload schema (§4.2.2 step 2).
type pushEvent struct {
	ID            string    `json:"Id"`
	Name          string    `json:"Name"`
	ContentLength int64     `json:"ContentLength"`
	Checksum      string    `json:"Checksum"`
	BeginPosition time.Time `json:"ContentDate.Start"`
	EndPosition   time.Time `json:"ContentDate.End"`
	IngestionDate time.Time `json:"PublicationDate"`
	TileID        string    `json:"TileId"`
	DownloadURL   string    `json:"DownloadURL"`
}

// SubscriptionHandler implements the push ingestion endpoint.
type SubscriptionHandler struct {
	Repo         *repository.Repository
	Queue        queue.Queue
	Allowlist    *tileset.Allowlist
	Username     string
	Password     string
	RecencyWindow time.Duration
}

func (h *SubscriptionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Step 1: authenticate.
	user, pass, ok := r.BasicAuth()
	if !ok || !constantTimeEqual(user, h.Username) || !constantTimeEqual(pass, h.Password) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Step 2: parse.
	var ev pushEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	// Step 3: recency filter.
	window := h.RecencyWindow
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	if time.Since(ev.BeginPosition) > window {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Step 4: allowlist filter.
	if h.Allowlist != nil && !h.Allowlist.Allowed(ev.TileID) {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Step 5: admit.
	g := models.Granule{
		ID:            ev.ID,
		Filename:      ev.Name,
		TileID:        ev.TileID,
		Size:          ev.ContentLength,
		Checksum:      ev.Checksum,
		BeginPosition: ev.BeginPosition,
		EndPosition:   ev.EndPosition,
		IngestionDate: ev.IngestionDate,
		DownloadURL:   ev.DownloadURL,
	}
	if _, err := h.Repo.Admit(r.Context(), g, queue.AsPublisher(h.Queue)); err != nil {
		log.Printf("[subscription] admit %s failed: %v", g.ID, err)
		http.Error(w, "admission failed", http.StatusInternalServerError)
		return
	}

	// Step 6.
	w.WriteHeader(http.StatusOK)
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
