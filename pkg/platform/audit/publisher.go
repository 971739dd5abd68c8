package audit

import (
	"context"
	"errors"
)

// ErrBufferFull reports a dropped event. Callers log it; an audit gap must
// not fail the underlying mutation.
var ErrBufferFull = errors.New("audit buffer full")

// ChannelPublisher hands events to the worker through a buffered channel,
// keeping request handling decoupled from persistence latency.
type ChannelPublisher struct {
	inbox chan Event
}

func NewChannelPublisher(buffer int) *ChannelPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &ChannelPublisher{inbox: make(chan Event, buffer)}
}

// Publish enqueues the event without blocking. A full buffer drops the event
// and reports ErrBufferFull.
func (p *ChannelPublisher) Publish(ctx context.Context, event Event) error {
	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

// Inbox exposes the receive side for the worker.
func (p *ChannelPublisher) Inbox() <-chan Event {
	return p.inbox
}
