package queue

import "context"

// AsPublisher adapts a Queue to the narrow Publisher interface the
// repository package's admission routine depends on, so repository never
// imports queue directly.
type publisherAdapter struct{ q Queue }

func AsPublisher(q Queue) interface {
	Publish(ctx context.Context, id, downloadURL string) error
} {
	return publisherAdapter{q: q}
}

func (p publisherAdapter) Publish(ctx context.Context, id, downloadURL string) error {
	return p.q.Publish(ctx, Message{ID: id, DownloadURL: downloadURL})
}
