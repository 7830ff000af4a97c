package assets

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/assets/internal/decode"
	"github.com/gogpu/assets/registry"
)

// RequestID identifies one in-flight load request. IDs are non-zero and
// strictly increasing; they are never reused while the originating request
// is outstanding, but are reclaimed once its callback has fired, so callers
// must not query a request after its completion callback.
type RequestID uint64

// RequestStatus describes where a request currently is in the pipeline.
type RequestStatus uint8

// Request statuses.
const (
	// StatusInvalid means the ID is unknown or its task has been reclaimed.
	StatusInvalid RequestStatus = iota

	// StatusPending means the request is queued, not yet picked up.
	StatusPending

	// StatusLoading means a worker is doing (or has finished) the I/O and
	// the request has not yet been finalized.
	StatusLoading

	// StatusComplete means the request has been finalized; its callback
	// has fired or will fire from a coming Update.
	StatusComplete

	// StatusCancelled means the request was cancelled before dispatch.
	StatusCancelled
)

// String returns the lowercase name of the status.
func (s RequestStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoading:
		return "loading"
	case StatusComplete:
		return "complete"
	case StatusCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

// Result is what a completion callback receives: the registry handle on
// success, the failure on error, or the cancellation flag. Cancellation is
// not a fault, so a cancelled Result carries no error.
type Result struct {
	// Request is the ID the submitting call returned. It is already
	// reclaimed by the time the callback sees it; treat it as a label.
	Request RequestID

	// Path is the path as submitted.
	Path string

	// Handle is the registered asset on success, Nil otherwise.
	Handle registry.Handle

	// Err is the load or finalize failure, nil on success and cancellation.
	Err error

	// Cancelled reports that the request was cancelled before dispatch.
	Cancelled bool
}

// OK reports whether the load succeeded.
func (r Result) OK() bool {
	return r.Err == nil && !r.Cancelled
}

// Callback is invoked exactly once per accepted request, on the goroutine
// calling Update, never from a worker.
type Callback func(Result)

// Task states. Stored atomically on the task so workers and Cancel can
// race on the pending→loading / pending→cancelled transitions.
const (
	taskFree uint32 = iota
	taskPending
	taskLoading
	taskLoaded
	taskComplete
	taskCancelled
)

// task tracks one load request from submission to callback. Tasks live in
// the pool's slot array and are reused; the queues hold borrowed pointers.
type task struct {
	state atomic.Uint32

	id   RequestID
	typ  registry.Type
	path string

	// Raw I/O results, owned by the task until finalize consumes them.
	pixels decode.Pixels // texture loads
	raw    []byte        // everything else

	// Finalize results.
	handle registry.Handle
	err    error

	callback Callback
}

// reset clears everything but the state for reuse.
func (t *task) reset() {
	t.id = 0
	t.typ = registry.TypeUnknown
	t.path = ""
	t.pixels = decode.Pixels{}
	t.raw = nil
	t.handle = registry.Nil
	t.err = nil
	t.callback = nil
}

// taskPool is a grow-only array of reusable task slots. Allocation scans
// for a free slot and claims it with a CAS; the array grows when the scan
// finds none. The pool mutex only ever guards slot metadata, never I/O.
type taskPool struct {
	mu     sync.Mutex
	tasks  []*task
	nextID uint64
}

func newTaskPool() *taskPool {
	return &taskPool{}
}

// alloc claims a free task slot (growing if needed), assigns the next
// request ID, and moves the slot to the pending state.
func (p *taskPool) alloc(typ registry.Type, path string, cb Callback) *task {
	p.mu.Lock()
	defer p.mu.Unlock()

	var t *task
	for _, cand := range p.tasks {
		if cand.state.CompareAndSwap(taskFree, taskPending) {
			t = cand
			break
		}
	}
	if t == nil {
		t = &task{}
		t.state.Store(taskPending)
		p.tasks = append(p.tasks, t)
	}

	p.nextID++
	t.id = RequestID(p.nextID)
	t.typ = typ
	t.path = path
	t.callback = cb
	return t
}

// release drops the task's buffers and returns its slot to the pool.
func (p *taskPool) release(t *task) {
	p.mu.Lock()
	t.reset()
	t.state.Store(taskFree)
	p.mu.Unlock()
}

// status reports where the request with the given ID currently is.
// Unknown and reclaimed IDs report StatusInvalid.
func (p *taskPool) status(id RequestID) RequestStatus {
	if id == 0 {
		return StatusInvalid
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range p.tasks {
		if t.id != id {
			continue
		}
		switch t.state.Load() {
		case taskPending:
			return StatusPending
		case taskLoading, taskLoaded:
			return StatusLoading
		case taskComplete:
			return StatusComplete
		case taskCancelled:
			return StatusCancelled
		default:
			return StatusInvalid
		}
	}
	return StatusInvalid
}

// cancel flips a still-pending request to cancelled. It reports false when
// the request is unknown or already past pending; the caller still gets a
// completion callback either way.
func (p *taskPool) cancel(id RequestID) bool {
	if id == 0 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range p.tasks {
		if t.id == id {
			return t.state.CompareAndSwap(taskPending, taskCancelled)
		}
	}
	return false
}
