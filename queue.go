package assets

import "sync"

// taskQueue is an unbounded FIFO of task pointers shared between
// goroutines. The work queue uses the blocking pop; the loaded and complete
// queues are only ever drained with tryPop by the update goroutine.
//
// Queues hold borrowed pointers into the task pool; they never own tasks.
type taskQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*task
	closed bool
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a task and wakes one blocked pop. It reports false once the
// queue is closed; the check and the append share the queue mutex, so a
// rejected push can never strand a task behind a concurrent close.
func (q *taskQueue) push(t *task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, t)
	q.mu.Unlock()
	q.cond.Signal()
	return true
}

// pop blocks until a task is available or the queue is closed.
// It returns (nil, false) once the queue is closed and drained.
func (q *taskQueue) pop() (*task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		if q.closed {
			return nil, false
		}
		q.cond.Wait()
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// tryPop removes and returns the head of the queue without blocking.
func (q *taskQueue) tryPop() (*task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// close marks the queue closed and wakes every blocked pop. Tasks already
// queued are still delivered; only the empty-and-closed state returns false.
func (q *taskQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// len returns the number of queued tasks.
func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
