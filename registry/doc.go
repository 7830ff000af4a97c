// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package registry provides a generation-counted asset registry.
//
// The registry maps asset paths to slots holding an opaque datum, a
// reference count, and a generation counter. Callers hold [Handle] values:
// small, copyable, versioned references that become invalid the moment
// their slot is freed. A stale handle is detected by comparing its packed
// generation against the slot's current generation, so a freed-then-reused
// slot never resolves through an old handle.
//
// The registry is deliberately single-goroutine: it is owned by whichever
// goroutine drives the frame loop (the same goroutine that owns the GPU
// context). Background loaders never touch it; they hand their results to
// the owner, which registers them during its update pass. An optional
// owner check (see [WithOwnerCheck]) turns violations of this rule into
// panics during development.
//
// Path keys are canonicalized before hashing: separators are normalized to
// forward slashes and the string is converted to Unicode NFC, so paths
// that render identically share a slot.
package registry
