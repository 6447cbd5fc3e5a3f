package resource

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/internal/logger"
)

// DefaultReleaseQueueCapacity is the channel size used when none is configured.
const DefaultReleaseQueueCapacity = 256

// ReleaseQueue hands native releases from any goroutine to the thread that
// owns the graphics context, which drains it once per frame.
//
// Posting never blocks: requests that do not fit in the channel wait in an
// overflow list. Each handle is released at most once.
type ReleaseQueue struct {
	requests chan *state

	mu       sync.Mutex
	overflow []*state

	closed   atomic.Bool
	released atomic.Int64
}

// NewReleaseQueue returns a queue buffering capacity requests in its channel.
func NewReleaseQueue(capacity int) *ReleaseQueue {
	if capacity <= 0 {
		capacity = DefaultReleaseQueueCapacity
	}
	return &ReleaseQueue{requests: make(chan *state, capacity)}
}

// post enqueues a release. It runs on arbitrary goroutines, including the
// runtime cleanup goroutine. A nil queue releases inline.
func (q *ReleaseQueue) post(st *state) {
	if q == nil {
		st.release()
		return
	}
	if q.closed.Load() {
		logger.Named("resource").Warn("release posted after queue closed",
			zap.Stringer("kind", st.kind),
			zap.Uint32("handle", st.handle.Load()),
		)
		return
	}
	select {
	case q.requests <- st:
	default:
		q.mu.Lock()
		q.overflow = append(q.overflow, st)
		q.mu.Unlock()
	}
}

// Pending returns the number of requests waiting for Drain.
func (q *ReleaseQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests) + len(q.overflow)
}

// Released returns the total number of native objects released.
func (q *ReleaseQueue) Released() int64 {
	return q.released.Load()
}

// Drain releases every pending request and returns how many native objects
// were deleted. It must run on the thread that owns the graphics context.
func (q *ReleaseQueue) Drain() int {
	n := 0
	for {
		select {
		case st := <-q.requests:
			if st.release() {
				n++
			}
			continue
		default:
		}
		break
	}

	q.mu.Lock()
	overflow := q.overflow
	q.overflow = nil
	q.mu.Unlock()

	for _, st := range overflow {
		if st.release() {
			n++
		}
	}

	if n > 0 {
		q.released.Add(int64(n))
		logger.Named("resource").Debug("released gpu resources", zap.Int("count", n))
	}
	return n
}

// Close drains the queue one last time. Releases posted afterwards are
// dropped with a warning, since no context is left to run them.
func (q *ReleaseQueue) Close() int {
	q.closed.Store(true)
	return q.Drain()
}
