package downloader

import (
	"errors"
	"testing"

	"github.com/kraklabs/sentinel2ingest/internal/catalog"
	"github.com/kraklabs/sentinel2ingest/internal/secrets"
)

func TestCredentialName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		useInthub2 bool
		want       string
	}{
		{useInthub2: false, want: secrets.ScihubCredentials},
		{useInthub2: true, want: secrets.Inthub2Credentials},
	}
	for _, tc := range cases {
		w := &Worker{UseInthub2: tc.useInthub2}
		if got := w.credentialName(); got != tc.want {
			t.Errorf("useInthub2=%v credentialName()=%q want %q", tc.useInthub2, got, tc.want)
		}
	}
}

func TestAsExpiredError(t *testing.T) {
	t.Parallel()

	var target *catalog.ExpiredError
	if asExpiredError(errors.New("plain error"), &target) {
		t.Fatal("plain error should not match")
	}

	expired := &catalog.ExpiredError{URL: "https://example.com/x"}
	if !asExpiredError(expired, &target) {
		t.Fatal("expected ExpiredError to match")
	}
	if target != expired {
		t.Fatalf("target=%v want %v", target, expired)
	}
}
