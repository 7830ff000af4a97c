// Copyright 2026 The gogpu Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package region

import (
	"errors"
	"log/slog"

	"github.com/gogpu/assets"
	"github.com/gogpu/assets/registry"
)

var (
	// ErrUnknownRegion is returned when an ID does not name a region.
	ErrUnknownRegion = errors.New("region: unknown region")
	// ErrActive is returned when an operation requires an inactive region.
	ErrActive = errors.New("region: region is active")
	// ErrInactive is returned when an operation requires an active region.
	ErrInactive = errors.New("region: region is not active")
)

// ID identifies a region within its Manager. The zero ID is never assigned.
type ID uint64

// Asset is one entry of a region: a path and the type it loads as.
type Asset struct {
	Path string
	Type registry.Type
}

// Region groups assets that load and unload together. Pure bookkeeping: the
// loader does the work, the region counts it.
type Region struct {
	id     ID
	name   string
	assets []Asset

	active  bool
	epoch   uint64 // bumped per activation; stale load callbacks are dropped
	loaded  int
	failed  int
	handles []registry.Handle
	onReady func(*Region)
}

// ID returns the region's identifier.
func (r *Region) ID() ID { return r.id }

// Name returns the region's name.
func (r *Region) Name() string { return r.name }

// Len returns the number of assets in the region.
func (r *Region) Len() int { return len(r.assets) }

// Active reports whether the region is currently activated.
func (r *Region) Active() bool { return r.active }

// Ready reports whether an active region has finished loading every asset.
func (r *Region) Ready() bool { return r.active && r.loaded == len(r.assets) }

// Failed returns how many of the region's assets failed to load.
func (r *Region) Failed() int { return r.failed }

// Handles returns the registry handles the current activation produced, in
// completion order. The slice is owned by the region; do not retain it past
// Deactivate.
func (r *Region) Handles() []registry.Handle { return r.handles }

// Manager tracks regions on top of a loader and its registry.
//
// A Manager belongs to the goroutine that drives Loader.Update: region
// completion counting happens inside the loader's callbacks, which fire from
// Update on that same goroutine. It is not safe for concurrent use.
type Manager struct {
	loader  *assets.Loader
	reg     *registry.Registry
	regions map[ID]*Region
	nextID  ID
}

// NewManager creates a region manager over a loader and the registry the
// loader registers into.
func NewManager(l *assets.Loader, reg *registry.Registry) *Manager {
	return &Manager{
		loader:  l,
		reg:     reg,
		regions: make(map[ID]*Region),
	}
}

// Create makes a new, empty, inactive region and returns its ID.
func (m *Manager) Create(name string) ID {
	m.nextID++
	id := m.nextID
	m.regions[id] = &Region{id: id, name: name}
	return id
}

// Get returns the region with the given ID, or nil.
func (m *Manager) Get(id ID) *Region { return m.regions[id] }

// Add appends an asset to an inactive region.
func (m *Manager) Add(id ID, path string, typ registry.Type) error {
	r, ok := m.regions[id]
	if !ok {
		return ErrUnknownRegion
	}
	if r.active {
		return ErrActive
	}
	r.assets = append(r.assets, Asset{Path: path, Type: typ})
	return nil
}

// Activate issues one asynchronous load per asset in the region. onReady, if
// non-nil, fires once from a future Loader.Update call, after the last asset
// has completed (successfully or not). An empty region fires onReady
// immediately, before Activate returns.
//
// Assets that fail to load count toward completion; check Region.Failed
// inside onReady.
func (m *Manager) Activate(id ID, onReady func(*Region)) error {
	r, ok := m.regions[id]
	if !ok {
		return ErrUnknownRegion
	}
	if r.active {
		return ErrActive
	}
	r.active = true
	r.epoch++
	epoch := r.epoch
	r.loaded = 0
	r.failed = 0
	r.handles = r.handles[:0]
	r.onReady = onReady

	assets.Logger().Info("region: activating",
		slog.String("name", r.name), slog.Int("assets", len(r.assets)))

	if len(r.assets) == 0 {
		if onReady != nil {
			onReady(r)
		}
		return nil
	}

	for _, a := range r.assets {
		if _, err := m.loader.Load(a.Path, a.Type, func(res assets.Result) {
			m.assetDone(r, epoch, res)
		}); err != nil {
			// Submission failures complete the asset on the spot; the
			// loader never saw it, so no callback is coming.
			r.loaded++
			r.failed++
			assets.Logger().Warn("region: submit failed",
				slog.String("name", r.name),
				slog.String("path", a.Path),
				slog.Any("error", err))
		}
	}
	m.maybeReady(r)
	return nil
}

// assetDone is the per-asset completion callback. It runs on the Update
// goroutine, so it may touch the region and the registry freely.
//
// epoch identifies the activation that issued the load. A load that
// completes after its activation ended — deactivated, or deactivated and
// activated again — must not count toward the current activation, so stale
// epochs only drop the reference the load took.
func (m *Manager) assetDone(r *Region, epoch uint64, res assets.Result) {
	if !r.active || epoch != r.epoch {
		if !res.Handle.IsNil() {
			m.reg.Release(res.Handle)
		}
		return
	}
	r.loaded++
	if res.OK() {
		r.handles = append(r.handles, res.Handle)
	} else {
		r.failed++
		if res.Err != nil {
			assets.Logger().Warn("region: asset failed",
				slog.String("name", r.name),
				slog.String("path", res.Path),
				slog.Any("error", res.Err))
		}
	}
	m.maybeReady(r)
}

func (m *Manager) maybeReady(r *Region) {
	if r.loaded != len(r.assets) {
		return
	}
	assets.Logger().Info("region: ready",
		slog.String("name", r.name),
		slog.Int("loaded", len(r.handles)),
		slog.Int("failed", r.failed))
	if cb := r.onReady; cb != nil {
		r.onReady = nil
		cb(r)
	}
}

// Deactivate releases every handle the activation registered and marks the
// region inactive. Assets still in flight release their handles as they
// complete; their callbacks no longer count toward the region.
func (m *Manager) Deactivate(id ID) error {
	r, ok := m.regions[id]
	if !ok {
		return ErrUnknownRegion
	}
	if !r.active {
		return ErrInactive
	}
	for _, h := range r.handles {
		m.reg.Release(h)
	}
	r.handles = r.handles[:0]
	r.active = false
	r.loaded = 0
	r.failed = 0
	r.onReady = nil
	assets.Logger().Info("region: deactivated", slog.String("name", r.name))
	return nil
}

// Progress reports the loaded fraction of an active region in [0, 1]. An
// inactive region reports 0; an active empty region reports 1.
func (m *Manager) Progress(id ID) float64 {
	r, ok := m.regions[id]
	if !ok || !r.active {
		return 0
	}
	if len(r.assets) == 0 {
		return 1
	}
	return float64(r.loaded) / float64(len(r.assets))
}
