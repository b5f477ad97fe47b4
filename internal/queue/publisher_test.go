package queue

import (
	"context"
	"testing"
)

type fakeQueue struct {
	published []Message
}

func (f *fakeQueue) Publish(ctx context.Context, msg Message) error {
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeQueue) Consume(ctx context.Context) (Message, func(ctx context.Context) error, error) {
	return Message{}, nil, nil
}

func TestAsPublisher(t *testing.T) {
	t.Parallel()

	fq := &fakeQueue{}
	pub := AsPublisher(fq)

	if err := pub.Publish(context.Background(), "granule-1", "https://example.com/x"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(fq.published) != 1 {
		t.Fatalf("published=%d want 1", len(fq.published))
	}
	want := Message{ID: "granule-1", DownloadURL: "https://example.com/x"}
	if fq.published[0] != want {
		t.Fatalf("published[0]=%+v want %+v", fq.published[0], want)
	}
}
