// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package registry

// Handle is an opaque, copyable, versioned reference to a registry slot.
//
// The 32-bit value packs a slot index in the low 24 bits and a generation
// counter in the high 8 bits. The zero value is the invalid handle: slot
// index 0 is never allocated, so no live asset ever packs to zero.
//
// The generation counter wraps modulo 256. A handle could therefore alias
// a reused slot after 256 frees of that same slot; callers keeping handles
// alive across that much churn should re-resolve by path instead.
type Handle uint32

// Nil is the invalid handle.
const Nil Handle = 0

const (
	indexBits = 24
	indexMask = 1<<indexBits - 1

	// MaxIndex is the largest slot index a handle can carry.
	MaxIndex = indexMask
)

// NewHandle packs a slot index and generation into a Handle.
// Only the low 24 bits of index are used.
func NewHandle(index uint32, generation uint8) Handle {
	return Handle(uint32(generation)<<indexBits | index&indexMask)
}

// Index returns the slot index packed into h.
func (h Handle) Index() uint32 {
	return uint32(h) & indexMask
}

// Generation returns the generation counter packed into h.
func (h Handle) Generation() uint8 {
	return uint8(uint32(h) >> indexBits)
}

// IsNil reports whether h is the invalid handle.
func (h Handle) IsNil() bool {
	return h == Nil
}
