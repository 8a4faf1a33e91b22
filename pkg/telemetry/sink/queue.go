package sink

import (
	"sync"
	"time"
)

// queue is the bounded event buffer shared between producers (request
// handlers) and the single drain worker. All operations are O(batch) and
// never block; overflow discards the oldest events.
type queue struct {
	mu        sync.Mutex
	items     []Event
	capacity  int
	dropped   uint64
	fullSince time.Time
}

func newQueue(capacity int) *queue {
	return &queue{
		items:    make([]Event, 0, capacity),
		capacity: capacity,
	}
}

// push appends an event, discarding the oldest when full. Returns the
// number of events dropped (0 or 1).
func (q *queue) push(e Event) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := 0
	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
		q.dropped++
		dropped = 1
	}
	q.items = append(q.items, e)
	q.trackCapacityLocked()
	return dropped
}

// pushFront re-inserts a failed batch ahead of newer events so delivery
// order is preserved across retries. A re-queued batch competes for
// capacity like anything else: overflow still discards from the front.
func (q *queue) pushFront(batch []Event) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(append(make([]Event, 0, len(batch)+len(q.items)), batch...), q.items...)

	dropped := 0
	if overflow := len(q.items) - q.capacity; overflow > 0 {
		q.items = q.items[overflow:]
		q.dropped += uint64(overflow)
		dropped = overflow
	}
	q.trackCapacityLocked()
	return dropped
}

// popBatch removes and returns up to max of the oldest events.
func (q *queue) popBatch(max int) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}

	n := max
	if n > len(q.items) {
		n = len(q.items)
	}

	batch := make([]Event, n)
	copy(batch, q.items[:n])
	q.items = q.items[n:]
	q.trackCapacityLocked()
	return batch
}

// len returns the current depth.
func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// discard counts an event dropped without entering the queue.
func (q *queue) discard() {
	q.mu.Lock()
	q.dropped++
	q.mu.Unlock()
}

// droppedTotal returns how many events have ever been discarded.
func (q *queue) droppedTotal() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// backlogOK reports whether the queue has NOT been continuously at capacity
// for longer than grace. A momentarily full queue is fine; a queue pinned
// at capacity means the collector has been down long enough to matter.
func (q *queue) backlogOK(grace time.Duration, now time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.fullSince.IsZero() {
		return true
	}
	return now.Sub(q.fullSince) <= grace
}

// trackCapacityLocked maintains the start of the current continuously-full
// window. Callers hold q.mu.
func (q *queue) trackCapacityLocked() {
	if len(q.items) >= q.capacity {
		if q.fullSince.IsZero() {
			q.fullSince = time.Now()
		}
	} else {
		q.fullSince = time.Time{}
	}
}
