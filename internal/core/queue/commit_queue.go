package queue

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/logger"
)

const origin = "CommitQueue"

// Ensure CommitQueue implements both sides of the queue.
var (
	_ driven.ExtractionQueue = (*CommitQueue)(nil)
	_ driven.AnalysisQueue   = (*CommitQueue)(nil)
)

// CommitQueue is a bounded FIFO of commits with a three-state lifecycle.
// Every operation runs as one critical section under mu.
type CommitQueue struct {
	mu           sync.Mutex
	changed      *sync.Cond
	commits      []*domain.Commit
	capacity     int
	state        domain.QueueState
	closePending bool
	cache        driven.CommitCache
	log          *logger.Logger
}

// New creates a queue in INIT state holding at most capacity commits.
// A capacity outside [domain.MinQueueElements, domain.MaxQueueElements]
// falls back to domain.DefaultQueueElements.
func New(capacity int, log *logger.Logger) *CommitQueue {
	if capacity < domain.MinQueueElements || capacity > domain.MaxQueueElements {
		capacity = domain.DefaultQueueElements
	}
	q := &CommitQueue{
		capacity: capacity,
		state:    domain.QueueInit,
		log:      log,
	}
	q.changed = sync.NewCond(&q.mu)
	return q
}

// Add appends c at the tail if the queue is open, no close is pending and
// the queue is not full. It never blocks. If caching is enabled, a
// successful add also writes c to the cache; a failed write is logged and
// does not fail the add.
func (q *CommitQueue) Add(c *domain.Commit) bool {
	if c == nil {
		return false
	}

	q.mu.Lock()
	if !q.accepting() || len(q.commits) >= q.capacity {
		q.mu.Unlock()
		return false
	}
	cache := q.push(c)
	q.mu.Unlock()

	q.mirror(cache, c)
	return true
}

// Put appends c at the tail, waiting while the queue is still in INIT or
// open but full. It returns false without adding if the queue is closed or
// a close is pending. The cache side effect is the same as for Add.
func (q *CommitQueue) Put(c *domain.Commit) bool {
	if c == nil {
		return false
	}

	q.mu.Lock()
	for q.state == domain.QueueInit || (q.accepting() && len(q.commits) >= q.capacity) {
		q.changed.Wait()
	}
	if !q.accepting() {
		q.mu.Unlock()
		return false
	}
	cache := q.push(c)
	q.mu.Unlock()

	q.mirror(cache, c)
	return true
}

// Take removes and returns the head commit if the queue is open and not
// empty. It never blocks. Removing the last commit of a queue with a
// pending close moves the queue to CLOSED.
func (q *CommitQueue) Take() (*domain.Commit, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != domain.QueueOpen || len(q.commits) == 0 {
		return nil, false
	}
	return q.pop(), true
}

// Next removes and returns the head commit, waiting while the queue is in
// INIT or open and empty. It returns false once the queue is CLOSED; a
// closed queue never yields a commit again.
func (q *CommitQueue) Next() (*domain.Commit, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.state == domain.QueueInit || (q.state == domain.QueueOpen && len(q.commits) == 0) {
		q.changed.Wait()
	}
	if q.state != domain.QueueOpen {
		return nil, false
	}
	return q.pop(), true
}

// AwaitOpen blocks until the queue has left INIT. The queue may already be
// CLOSED when it returns if the producer opened and closed it in between.
func (q *CommitQueue) AwaitOpen() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.state == domain.QueueInit {
		q.changed.Wait()
	}
}

// SetState changes the lifecycle state. Opening is unconditional.
// Closing an empty queue takes effect immediately; closing a non-empty
// queue only marks the close as pending until the queue is drained.
// Other states are ignored.
func (q *CommitQueue) SetState(state domain.QueueState) {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch state {
	case domain.QueueOpen:
		q.state = domain.QueueOpen
	case domain.QueueClosed:
		if len(q.commits) == 0 {
			q.state = domain.QueueClosed
		} else {
			q.closePending = true
		}
	default:
		return
	}
	q.changed.Broadcast()
}

// EnableCaching attaches a cache that receives every added commit.
// Passing nil disables caching, which is the default.
func (q *CommitQueue) EnableCaching(cache driven.CommitCache) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cache = cache
}

// IsOpen reports whether the queue is OPEN.
func (q *CommitQueue) IsOpen() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state == domain.QueueOpen
}

// State returns the current lifecycle state.
func (q *CommitQueue) State() domain.QueueState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Len returns the number of buffered commits.
func (q *CommitQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.commits)
}

// Capacity returns the maximum number of buffered commits.
func (q *CommitQueue) Capacity() int {
	return q.capacity
}

// accepting reports whether commits may be added (caller must hold lock).
func (q *CommitQueue) accepting() bool {
	return q.state == domain.QueueOpen && !q.closePending
}

// push appends c and returns the cache to mirror it to (caller must hold lock).
func (q *CommitQueue) push(c *domain.Commit) driven.CommitCache {
	q.commits = append(q.commits, c)
	q.changed.Broadcast()
	return q.cache
}

// pop removes the head commit (caller must hold lock and ensure the queue is not empty).
func (q *CommitQueue) pop() *domain.Commit {
	c := q.commits[0]
	q.commits[0] = nil
	q.commits = q.commits[1:]
	if len(q.commits) == 0 && q.closePending {
		q.state = domain.QueueClosed
	}
	q.changed.Broadcast()
	return c
}

// mirror writes c to cache, logging failures.
func (q *CommitQueue) mirror(cache driven.CommitCache, c *domain.Commit) {
	if cache == nil {
		return
	}
	if err := cache.Save(c); err != nil {
		q.log.Log(origin, fmt.Sprintf("Caching commit %q failed", c.ID), err.Error(), logger.TypeWarning)
		return
	}
	q.log.Debug(origin, "cached commit %q in %s", c.ID, cache.Dir())
}
