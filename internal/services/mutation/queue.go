// Package mutation serializes remote mutations per entity.
//
// Each submission for a key is stamped with a generation at Begin time,
// in the order the UI issued it. Runs for the same key execute one at a
// time in that order; different keys run independently. A failed run
// reports whether it was still the latest submission for its key so the
// caller can decide between rolling back and keeping newer optimistic
// state.
package mutation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrClosed is returned by Run after the queue has been closed
var ErrClosed = errors.New("mutation queue closed")

// Result describes a finished run
type Result struct {
	Key        string
	Generation uint64
	Err        error
	// Latest is true when no newer submission for Key existed when the run
	// finished
	Latest bool
}

// Ticket is a reserved slot in a key's sequence
type Ticket struct {
	q          *Queue
	key        string
	generation uint64
	prev       <-chan struct{}
	done       chan struct{}
	closed     bool
}

// Generation returns the ticket's generation for its key
func (t *Ticket) Generation() uint64 { return t.generation }

type keyState struct {
	generation uint64
	tail       <-chan struct{}
}

// Queue sequences mutations by entity key
type Queue struct {
	mu     sync.Mutex
	keys   map[string]*keyState
	wg     sync.WaitGroup
	closed bool
	logger *slog.Logger
}

// NewQueue creates an empty queue
func NewQueue(logger *slog.Logger) *Queue {
	return &Queue{
		keys:   make(map[string]*keyState),
		logger: logger,
	}
}

// Begin reserves the next generation for key. Call it synchronously where
// the optimistic update is applied, then Run the ticket off the UI thread.
func (q *Queue) Begin(key string) *Ticket {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return &Ticket{q: q, key: key, closed: true}
	}

	ks, ok := q.keys[key]
	if !ok {
		ks = &keyState{}
		q.keys[key] = ks
	}
	ks.generation++

	t := &Ticket{
		q:          q,
		key:        key,
		generation: ks.generation,
		prev:       ks.tail,
		done:       make(chan struct{}),
	}
	ks.tail = t.done
	q.wg.Add(1)
	return t
}

// Run waits for earlier tickets on the same key, then calls fn. Run must be
// called exactly once per ticket. If ctx ends while waiting, fn is not
// called and the ticket still holds its place so later tickets keep their
// order.
func (t *Ticket) Run(ctx context.Context, fn func(ctx context.Context) error) Result {
	if t.closed {
		return Result{Key: t.key, Err: ErrClosed}
	}

	if t.prev != nil {
		select {
		case <-t.prev:
		case <-ctx.Done():
			go func() {
				<-t.prev
				t.finish()
			}()
			return t.result(ctx.Err())
		}
	}

	err := fn(ctx)
	res := t.result(err)
	t.finish()
	return res
}

func (t *Ticket) result(err error) Result {
	q := t.q
	q.mu.Lock()
	latest := true
	if ks, ok := q.keys[t.key]; ok {
		latest = ks.generation == t.generation
	}
	q.mu.Unlock()

	if err != nil {
		q.logger.Debug("mutation failed", "key", t.key, "generation", t.generation, "latest", latest, "error", err)
	}
	return Result{Key: t.key, Generation: t.generation, Err: err, Latest: latest}
}

func (t *Ticket) finish() {
	q := t.q
	q.mu.Lock()
	close(t.done)
	if ks, ok := q.keys[t.key]; ok && ks.tail == t.done {
		// nothing queued behind this ticket
		delete(q.keys, t.key)
	}
	q.mu.Unlock()
	q.wg.Done()
}

// Pending returns the number of keys with queued or running tickets
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.keys)
}

// Close stops accepting tickets and waits for issued ones to finish
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wg.Wait()
}
