package controller

import (
	"sync"

	"github.com/aretw0/intervista/pkg/domain"
)

// DefaultSubscriberBuffer is the number of snapshots buffered per subscriber.
const DefaultSubscriberBuffer = 16

// broadcaster fans snapshots out to subscribers.
// A slow subscriber loses its oldest pending snapshot, never the latest one.
type broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan domain.Session]struct{}
	buffer      int
}

func newBroadcaster(buffer int) *broadcaster {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &broadcaster{
		subscribers: make(map[chan domain.Session]struct{}),
		buffer:      buffer,
	}
}

func (b *broadcaster) Subscribe() (<-chan domain.Session, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.Session, b.buffer)
	b.subscribers[ch] = struct{}{}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
	}
}

func (b *broadcaster) Publish(s domain.Session) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- s:
		default:
			// Drop the oldest snapshot to make room for the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

func (b *broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
}
