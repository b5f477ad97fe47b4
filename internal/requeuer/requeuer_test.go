package requeuer

import (
	"context"
	"testing"
)

func TestRunInvalidDate(t *testing.T) {
	t.Parallel()

	// Date parsing happens before the repository or queue are touched, so a
	// malformed date must fail fast without dereferencing either argument.
	_, err := Run(context.Background(), nil, nil, true, "not-a-date")
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}
