package assets

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/assets/registry"
)

// Loader is the asynchronous asset loading pipeline.
//
// Loads run in two phases. Background workers do the blocking I/O — opening
// files, decoding images — on any goroutine. Resource creation (GPU
// textures, audio buffers, font parsing) and registry insertion happen only
// inside [Loader.Update], on the goroutine that calls it, because those
// resources belong to contexts that are not safe to touch from other
// threads. The same Update call then dispatches completion callbacks.
//
// Exactly one goroutine — the one driving the frame loop — may call Update
// and own the registry. Every other method is safe to call from any
// goroutine. A caller that never calls Update sees work accumulate in
// internal queues with no callbacks firing and no deadlock.
type Loader struct {
	cfg config
	reg *registry.Registry

	pool     *taskPool
	work     *taskQueue // submissions → workers
	loaded   *taskQueue // workers → finalize
	complete *taskQueue // finalize → callback dispatch

	wg     sync.WaitGroup
	closed atomic.Bool

	// pending counts requests submitted but not yet finalized; completed
	// counts finalized requests whose callback has not yet fired; ioBusy
	// counts requests a worker has not yet handed to the loaded queue.
	pending   atomic.Int64
	completed atomic.Int64
	ioBusy    atomic.Int64
}

// New creates a loader that registers finished assets in reg, and starts
// its background workers. The registry stays owned by the caller; the
// loader only touches it from inside Update.
func New(reg *registry.Registry, opts ...Option) *Loader {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers <= 0 {
		cfg.workers = defaultWorkers()
	}

	l := &Loader{
		cfg:      cfg,
		reg:      reg,
		pool:     newTaskPool(),
		work:     newTaskQueue(),
		loaded:   newTaskQueue(),
		complete: newTaskQueue(),
	}

	l.wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go l.worker()
	}
	Logger().Info("assets: loader started", slog.Int("workers", cfg.workers))
	return l
}

// LoadTexture asynchronously decodes an image file and finalizes it into a
// GPU texture. The callback fires from a future Update call.
func (l *Loader) LoadTexture(path string, cb Callback) (RequestID, error) {
	return l.submit(registry.TypeTexture, path, cb)
}

// LoadSound asynchronously reads a sound file and finalizes it through the
// audio backend.
func (l *Loader) LoadSound(path string, cb Callback) (RequestID, error) {
	return l.submit(registry.TypeSound, path, cb)
}

// LoadMusic asynchronously reads a music file and finalizes it through the
// audio backend as a streamed track.
func (l *Loader) LoadMusic(path string, cb Callback) (RequestID, error) {
	return l.submit(registry.TypeMusic, path, cb)
}

// LoadFont asynchronously reads a font file and finalizes it into a parsed
// font face.
func (l *Loader) LoadFont(path string, cb Callback) (RequestID, error) {
	return l.submit(registry.TypeFont, path, cb)
}

// LoadShader asynchronously reads a WGSL source file and finalizes it into
// a compiled SPIR-V blob.
func (l *Loader) LoadShader(path string, cb Callback) (RequestID, error) {
	return l.submit(registry.TypeShader, path, cb)
}

// Load asynchronously loads a path as the given asset type. Types without
// a dedicated finalize step (prefab, scene, data) register their raw bytes.
func (l *Loader) Load(path string, typ registry.Type, cb Callback) (RequestID, error) {
	return l.submit(typ, path, cb)
}

// submit allocates a task and hands it to the workers.
func (l *Loader) submit(typ registry.Type, path string, cb Callback) (RequestID, error) {
	if path == "" {
		return 0, ErrEmptyPath
	}
	if l.closed.Load() {
		return 0, ErrClosed
	}
	if l.cfg.maxPending > 0 && l.work.len() >= l.cfg.maxPending {
		Logger().Warn("assets: submit rejected, queue full",
			slog.String("path", path), slog.Int("max_pending", l.cfg.maxPending))
		return 0, ErrQueueFull
	}

	t := l.pool.alloc(typ, path, cb)
	l.pending.Add(1)
	l.ioBusy.Add(1)
	if !l.work.push(t) {
		// Close won the race between the closed check above and the push.
		// The workers are gone, so reclaim the task here.
		l.pending.Add(-1)
		l.ioBusy.Add(-1)
		l.pool.release(t)
		return 0, ErrClosed
	}

	Logger().Debug("assets: load queued",
		slog.Uint64("request", uint64(t.id)),
		slog.String("path", path),
		slog.String("type", typ.String()))
	return t.id, nil
}

// Update drives the main-thread half of the pipeline: it finalizes every
// task whose I/O has finished, then dispatches completion callbacks (up to
// the WithMaxCompletedPerFrame cap). It returns the number of callbacks
// dispatched.
//
// Update must be called from the goroutine that owns the GPU/audio contexts
// and the registry — typically once per frame.
func (l *Loader) Update() int {
	// Phase 1: finalize everything the workers have produced.
	for {
		t, ok := l.loaded.tryPop()
		if !ok {
			break
		}
		if t.state.Load() != taskCancelled {
			l.finalize(t)
			t.state.Store(taskComplete)
		}
		l.pending.Add(-1)
		l.completed.Add(1)
		l.complete.push(t)
	}

	// Phase 2: dispatch callbacks in completion order.
	dispatched := 0
	for l.cfg.maxCompletedPerFrame == 0 || dispatched < l.cfg.maxCompletedPerFrame {
		t, ok := l.complete.tryPop()
		if !ok {
			break
		}

		res := Result{
			Request:   t.id,
			Path:      t.path,
			Handle:    t.handle,
			Err:       t.err,
			Cancelled: t.state.Load() == taskCancelled,
		}
		cb := t.callback

		if cb != nil {
			cb(res)
		}
		l.pool.release(t)
		l.completed.Add(-1)
		dispatched++
	}
	return dispatched
}

// Cancel requests cancellation of a pending load. It reports true only when
// the request had not yet been picked up by a worker; a request already in
// flight completes (or fails) normally. Either way the completion callback
// still fires exactly once, with Result.Cancelled set when the cancellation
// won.
func (l *Loader) Cancel(id RequestID) bool {
	return l.pool.cancel(id)
}

// Status reports where a request currently is. Reclaimed IDs — any request
// whose callback has already fired — report StatusInvalid.
func (l *Loader) Status(id RequestID) RequestStatus {
	return l.pool.status(id)
}

// Done reports whether a request has been finalized (successfully or not).
func (l *Loader) Done(id RequestID) bool {
	s := l.pool.status(id)
	return s == StatusComplete || s == StatusCancelled
}

// PendingCount returns the number of requests submitted but not yet
// finalized.
func (l *Loader) PendingCount() int {
	return int(l.pending.Load())
}

// CompletedCount returns the number of finalized requests whose callbacks
// have not yet been dispatched.
func (l *Loader) CompletedCount() int {
	return int(l.completed.Load())
}

// Idle reports whether the pipeline has no work anywhere: nothing pending,
// nothing awaiting a callback.
func (l *Loader) Idle() bool {
	return l.pending.Load() == 0 && l.completed.Load() == 0
}

// Wait blocks until every submitted request has finished its I/O phase, or
// the timeout elapses (timeout <= 0 waits forever). It polls on a
// millisecond tick and dispatches no callbacks; call Update afterward to
// finalize and deliver results. It reports whether the I/O drained in time.
func (l *Loader) Wait(timeout time.Duration) bool {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for l.ioBusy.Load() > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
	return true
}

// Close shuts the pipeline down: it stops accepting submissions, closes the
// work queue, and joins the workers before releasing any shared structure.
// Tasks still in flight are discarded without callbacks. Close is safe to
// call multiple times.
func (l *Loader) Close() {
	if !l.closed.CompareAndSwap(false, true) {
		return
	}
	l.work.close()
	l.wg.Wait()

	if n := l.pending.Load() + l.completed.Load(); n > 0 {
		Logger().Warn("assets: loader closed with work outstanding", slog.Int64("tasks", n))
	}

	// Reclaim whatever the queues still hold; no callbacks after Close.
	for {
		t, ok := l.loaded.tryPop()
		if !ok {
			break
		}
		l.pending.Add(-1)
		l.pool.release(t)
	}
	for {
		t, ok := l.complete.tryPop()
		if !ok {
			break
		}
		l.completed.Add(-1)
		l.pool.release(t)
	}
	Logger().Info("assets: loader closed")
}
