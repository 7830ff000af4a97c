package assets

import (
	"log/slog"

	"github.com/gogpu/assets/internal/decode"
	"github.com/gogpu/assets/registry"
)

// worker is the main loop of one background goroutine. It performs the
// blocking I/O phase only: no registry access, no GPU or audio calls.
func (l *Loader) worker() {
	defer l.wg.Done()

	for {
		t, ok := l.work.pop()
		if !ok {
			return
		}

		// A cancellation that won the race skips the I/O entirely; the
		// task still flows through the pipeline so its callback fires.
		if !t.state.CompareAndSwap(taskPending, taskLoading) {
			l.loaded.push(t)
			l.ioBusy.Add(-1)
			continue
		}

		l.loadBlocking(t)
		t.state.Store(taskLoaded)
		l.loaded.push(t)
		l.ioBusy.Add(-1)
	}
}

// loadBlocking runs the I/O phase for one task, filling its raw result or
// its error. Textures decode to RGBA pixels here, on the worker, so the
// finalize phase only has to upload; every other type reads raw bytes and
// leaves interpretation to finalize.
func (l *Loader) loadBlocking(t *task) {
	switch t.typ {
	case registry.TypeTexture:
		px, err := decode.Image(l.cfg.fsys, t.path)
		if err != nil {
			t.err = err
			return
		}
		t.pixels = px
		Logger().Debug("assets: image decoded",
			slog.String("path", t.path),
			slog.Int("width", px.Width),
			slog.Int("height", px.Height))
	default:
		raw, err := decode.File(l.cfg.fsys, t.path)
		if err != nil {
			t.err = err
			return
		}
		t.raw = raw
	}
}
