package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDownloadExpired(t *testing.T) {
	t.Parallel()

	cases := []int{http.StatusNotFound, http.StatusGone}
	for _, status := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewClient(srv.URL)
		_, _, err := c.Download(context.Background(), srv.URL, Credentials{Username: "u", Password: "p"})

		var expired *ExpiredError
		if !errors.As(err, &expired) {
			t.Fatalf("status %d: err=%v want *ExpiredError", status, err)
		}
		srv.Close()
	}
}

func TestDownloadSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "u" || pass != "p" {
			t.Errorf("missing/incorrect basic auth")
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	body, _, err := c.Download(context.Background(), srv.URL, Credentials{Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer body.Close()
}

func TestChecksum(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("deadbeefdeadbeefdeadbeefdeadbeef"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	sum, err := c.Checksum(context.Background(), srv.URL, Credentials{Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if sum != "deadbeefdeadbeefdeadbeefdeadbeef" {
		t.Fatalf("Checksum=%q", sum)
	}
}
