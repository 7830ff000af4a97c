// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package registry

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/petermattis/goid"
	"golang.org/x/text/unicode/norm"
)

// Type classifies the datum stored in a registry slot.
type Type uint8

// Asset types.
const (
	// TypeUnknown is the type reported for dead or never-registered handles.
	TypeUnknown Type = iota

	// TypeTexture is a GPU texture (datum: gpucore.TextureID).
	TypeTexture

	// TypeSound is a fully decoded sound effect (datum: audio.SoundID).
	TypeSound

	// TypeMusic is a streamed music track (datum: audio.MusicID).
	TypeMusic

	// TypeFont is a parsed font face.
	TypeFont

	// TypeShader is a compiled shader module blob.
	TypeShader

	// TypePrefab is a prefab description.
	TypePrefab

	// TypeScene is a scene description.
	TypeScene

	// TypeData is an uninterpreted byte payload.
	TypeData
)

// String returns the lowercase name of the type.
func (t Type) String() string {
	switch t {
	case TypeTexture:
		return "texture"
	case TypeSound:
		return "sound"
	case TypeMusic:
		return "music"
	case TypeFont:
		return "font"
	case TypeShader:
		return "shader"
	case TypePrefab:
		return "prefab"
	case TypeScene:
		return "scene"
	case TypeData:
		return "data"
	default:
		return "unknown"
	}
}

// Destructor releases the datum of a slot whose refcount reached zero.
// It runs on the goroutine that called Release, Unregister, or Close.
type Destructor func(data any, typ Type)

// Registry errors.
var (
	// ErrEmptyPath is returned when registering with an empty path.
	ErrEmptyPath = errors.New("registry: empty path")

	// ErrFull is returned when every representable slot index is live.
	ErrFull = errors.New("registry: slot limit reached")
)

// slot holds one registered asset. A slot with an empty path is free.
type slot struct {
	path       string
	data       any
	typ        Type
	refcount   uint32
	generation uint8

	// nextFree links free slots; meaningful only while the slot is free.
	// -1 terminates the list.
	nextFree int32
}

// Registry is a growable slot array plus a path→slot hash table.
//
// It is not safe for concurrent use: exactly one goroutine — the one that
// owns the frame loop and the GPU context — may call its methods. See the
// package documentation for the ownership model.
type Registry struct {
	slots      []slot
	paths      pathmap
	freeHead   int32
	destructor Destructor

	// owner is the goroutine permitted to use the registry, or 0 when the
	// check is disabled.
	owner int64
}

// Option configures a Registry during creation.
type Option func(*Registry)

// WithOwnerCheck records the creating goroutine as the registry's owner and
// makes every method panic when called from any other goroutine. Intended
// for development builds; production callers typically leave it off.
func WithOwnerCheck() Option {
	return func(r *Registry) {
		r.owner = goid.Get()
	}
}

// New creates an empty registry. Slot index 0 is reserved so that the zero
// Handle never denotes a live asset.
func New(opts ...Option) *Registry {
	r := &Registry{
		slots:    make([]slot, 1, 64),
		freeHead: -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// checkOwner panics if the owner check is enabled and the caller is not the
// owning goroutine.
func (r *Registry) checkOwner() {
	if r.owner != 0 {
		if id := goid.Get(); id != r.owner {
			panic(fmt.Sprintf("registry: used from goroutine %d, owned by goroutine %d", id, r.owner))
		}
	}
}

// canonicalPath normalizes a path for use as a registry key: separators
// become forward slashes and the string is converted to Unicode NFC.
func canonicalPath(path string) string {
	path = filepath.ToSlash(path)
	if !norm.NFC.IsNormalString(path) {
		path = norm.NFC.String(path)
	}
	return path
}

// Register inserts an asset under the given path, taking ownership of data.
//
// If the path is already registered, the existing slot's refcount is
// incremented and its handle returned; data is ignored in that case. A new
// registration starts with a refcount of 1.
//
// Register fails with ErrEmptyPath for an empty path and ErrFull once
// MaxIndex slots are live.
func (r *Registry) Register(path string, typ Type, data any) (Handle, error) {
	r.checkOwner()

	if path == "" {
		return Nil, ErrEmptyPath
	}
	key := canonicalPath(path)
	hash := hashPath(key)

	if idx, ok := r.paths.lookup(hash, r.keyMatch(key)); ok {
		s := &r.slots[idx]
		s.refcount++
		return NewHandle(idx, s.generation), nil
	}

	idx, err := r.allocSlot()
	if err != nil {
		return Nil, err
	}

	s := &r.slots[idx]
	s.path = key
	s.data = data
	s.typ = typ
	s.refcount = 1

	r.paths.insert(hash, idx)
	return NewHandle(idx, s.generation), nil
}

// allocSlot pops a slot index off the free list, or grows the slot array.
func (r *Registry) allocSlot() (uint32, error) {
	if r.freeHead >= 0 {
		idx := uint32(r.freeHead)
		r.freeHead = r.slots[idx].nextFree
		r.slots[idx].nextFree = -1
		return idx, nil
	}
	if len(r.slots) > MaxIndex {
		return 0, ErrFull
	}
	r.slots = append(r.slots, slot{nextFree: -1})
	return uint32(len(r.slots) - 1), nil
}

// keyMatch returns the collision predicate for a canonical key: it reports
// whether a candidate slot's stored path equals the key.
func (r *Registry) keyMatch(key string) func(uint32) bool {
	return func(idx uint32) bool {
		return r.slots[idx].path == key
	}
}

// Lookup returns the handle registered under path, or Nil if absent.
func (r *Registry) Lookup(path string) Handle {
	r.checkOwner()

	if path == "" {
		return Nil
	}
	key := canonicalPath(path)
	idx, ok := r.paths.lookup(hashPath(key), r.keyMatch(key))
	if !ok {
		return Nil
	}
	return NewHandle(idx, r.slots[idx].generation)
}

// Alive reports whether h denotes a live asset: its index must be in range,
// the slot occupied, and the slot's generation equal to the handle's. This
// is the sole authority for handle validity.
func (r *Registry) Alive(h Handle) bool {
	return r.resolve(h) != nil
}

// resolve returns the live slot h denotes, or nil.
func (r *Registry) resolve(h Handle) *slot {
	r.checkOwner()

	idx := h.Index()
	if idx == 0 || idx >= uint32(len(r.slots)) {
		return nil
	}
	s := &r.slots[idx]
	if s.path == "" || s.generation != h.Generation() {
		return nil
	}
	return s
}

// Data returns the datum stored for h, or nil for a dead handle.
func (r *Registry) Data(h Handle) any {
	if s := r.resolve(h); s != nil {
		return s.data
	}
	return nil
}

// TypeOf returns the asset type of h, or TypeUnknown for a dead handle.
func (r *Registry) TypeOf(h Handle) Type {
	if s := r.resolve(h); s != nil {
		return s.typ
	}
	return TypeUnknown
}

// PathOf returns the canonical path of h, or "" for a dead handle.
func (r *Registry) PathOf(h Handle) string {
	if s := r.resolve(h); s != nil {
		return s.path
	}
	return ""
}

// RefCount returns the current reference count of h, or 0 for a dead handle.
func (r *Registry) RefCount(h Handle) int {
	if s := r.resolve(h); s != nil {
		return int(s.refcount)
	}
	return 0
}

// AddRef increments the reference count of a live handle.
// It reports false, without effect, for a dead handle.
func (r *Registry) AddRef(h Handle) bool {
	s := r.resolve(h)
	if s == nil {
		return false
	}
	s.refcount++
	return true
}

// Release decrements the reference count of a live handle. When the count
// reaches zero the destructor (if set) runs with the slot's datum and type,
// the path is removed from the table, the slot's generation is incremented
// (invalidating every outstanding handle to it), and the slot joins the
// free list.
//
// Release reports false, without effect, for a dead handle.
func (r *Registry) Release(h Handle) bool {
	s := r.resolve(h)
	if s == nil {
		return false
	}
	s.refcount--
	if s.refcount > 0 {
		return true
	}
	r.freeSlot(h.Index(), s)
	return true
}

// Unregister releases a registration made on the caller's behalf rather
// than a reference the caller semantically holds. It behaves exactly like
// Release; the separate name keeps bookkeeping call sites honest.
func (r *Registry) Unregister(h Handle) bool {
	return r.Release(h)
}

// freeSlot runs the destructor, unlinks the path, and recycles the slot.
func (r *Registry) freeSlot(idx uint32, s *slot) {
	if r.destructor != nil {
		r.destructor(s.data, s.typ)
	}
	r.paths.remove(hashPath(s.path), r.keyMatch(s.path))

	s.path = ""
	s.data = nil
	s.typ = TypeUnknown
	s.refcount = 0
	s.generation++ // stale handles now fail the generation compare
	s.nextFree = r.freeHead
	r.freeHead = int32(idx)
}

// SetDestructor installs the callback invoked when a slot's refcount
// reaches zero and, via Close, for every slot still live at teardown.
func (r *Registry) SetDestructor(fn Destructor) {
	r.checkOwner()
	r.destructor = fn
}

// Len returns the number of live assets.
func (r *Registry) Len() int {
	r.checkOwner()
	return r.paths.len()
}

// Handles returns the handles of all live assets, in slot order.
func (r *Registry) Handles() []Handle {
	r.checkOwner()

	out := make([]Handle, 0, r.paths.len())
	for i := 1; i < len(r.slots); i++ {
		if r.slots[i].path != "" {
			out = append(out, NewHandle(uint32(i), r.slots[i].generation))
		}
	}
	return out
}

// Paths returns the canonical paths of all live assets, in slot order.
func (r *Registry) Paths() []string {
	r.checkOwner()

	out := make([]string, 0, r.paths.len())
	for i := 1; i < len(r.slots); i++ {
		if r.slots[i].path != "" {
			out = append(out, r.slots[i].path)
		}
	}
	return out
}

// Close frees every live slot, running the destructor for each. The
// registry remains usable afterward, though reusing it after Close is
// unusual outside tests.
func (r *Registry) Close() {
	r.checkOwner()

	for i := 1; i < len(r.slots); i++ {
		if r.slots[i].path != "" {
			r.freeSlot(uint32(i), &r.slots[i])
		}
	}
}
