package objectstore

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestPutChecksumMismatchShortCircuits(t *testing.T) {
	t.Parallel()

	// client is left nil: a checksum mismatch must be caught before any S3
	// call is attempted, so this must not panic on the nil client.
	s := &Store{bucket: "test-bucket"}

	_, err := s.Put(context.Background(), "2025-01-27/x.zip", bytes.NewReader([]byte("payload")), 7, "0000000000000000000000000000000")
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("err=%v want ErrChecksumMismatch", err)
	}
}
