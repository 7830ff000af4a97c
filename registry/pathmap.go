// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package registry

import "hash/fnv"

// pathmap is an open-addressed hash table mapping canonical asset paths to
// slot indices. It stores only the 32-bit FNV-1a hash of each key; the full
// key lives in the slot array, which the probe consults on hash hits.
//
// A stored hash of 0 means the entry is empty. There are no tombstones:
// removal re-inserts every entry in the contiguous probe run that follows
// the removed entry, which keeps probe chains intact without a third entry
// state. Removal therefore costs O(run length), which stays short at the
// load factors the table permits.
//
// The table is not safe for concurrent use; the owning Registry provides
// the single-goroutine discipline.
type pathmap struct {
	entries []pathmapEntry
	count   int
}

// pathmapEntry pairs a key hash with the slot index it maps to.
// hash == 0 marks the entry empty.
type pathmapEntry struct {
	hash uint32
	slot uint32
}

const (
	// pathmapMinSize is the initial table size. Power of two so the probe
	// wraps with a mask instead of a modulo.
	pathmapMinSize = 64

	// pathmapMaxLoadNum/Den is the load factor threshold (3/4) above which
	// the table doubles.
	pathmapMaxLoadNum = 3
	pathmapMaxLoadDen = 4
)

// hashPath computes the FNV-1a hash of a canonical path, remapped so that
// it is never 0 (0 is the empty-entry sentinel).
func hashPath(path string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path)) // fnv.Write never returns an error
	v := h.Sum32()
	if v == 0 {
		v = 1
	}
	return v
}

// insert adds a hash→slot mapping, growing the table first if the insert
// would push the load factor above the threshold. The caller guarantees the
// key is not already present.
func (m *pathmap) insert(hash, slot uint32) {
	if len(m.entries) == 0 {
		m.entries = make([]pathmapEntry, pathmapMinSize)
	} else if (m.count+1)*pathmapMaxLoadDen > len(m.entries)*pathmapMaxLoadNum {
		m.grow()
	}

	m.place(hash, slot)
	m.count++
}

// place writes an entry into the first empty probe position.
// The table must have at least one empty entry.
func (m *pathmap) place(hash, slot uint32) {
	mask := uint32(len(m.entries) - 1)
	i := hash & mask
	for m.entries[i].hash != 0 {
		i = (i + 1) & mask
	}
	m.entries[i] = pathmapEntry{hash: hash, slot: slot}
}

// grow doubles the table and rehashes every live entry.
func (m *pathmap) grow() {
	old := m.entries
	m.entries = make([]pathmapEntry, len(old)*2)
	for _, e := range old {
		if e.hash != 0 {
			m.place(e.hash, e.slot)
		}
	}
}

// lookup probes for a key and returns the matching slot index.
//
// Hash collisions between distinct keys are possible, so the probe calls
// keyMatch with each candidate slot; keyMatch reports whether the slot's
// stored path equals the key being looked up.
func (m *pathmap) lookup(hash uint32, keyMatch func(slot uint32) bool) (uint32, bool) {
	if m.count == 0 {
		return 0, false
	}
	mask := uint32(len(m.entries) - 1)
	i := hash & mask
	for {
		e := m.entries[i]
		if e.hash == 0 {
			return 0, false
		}
		if e.hash == hash && keyMatch(e.slot) {
			return e.slot, true
		}
		i = (i + 1) & mask
	}
}

// remove deletes the entry for a key, then re-inserts the contiguous run of
// entries that follows it so later probes still find everything they could
// find before. Returns false if the key was not present.
func (m *pathmap) remove(hash uint32, keyMatch func(slot uint32) bool) bool {
	if m.count == 0 {
		return false
	}
	mask := uint32(len(m.entries) - 1)
	i := hash & mask
	for {
		e := m.entries[i]
		if e.hash == 0 {
			return false
		}
		if e.hash == hash && keyMatch(e.slot) {
			break
		}
		i = (i + 1) & mask
	}

	m.entries[i] = pathmapEntry{}
	m.count--

	// Re-insert the run after the hole. Each displaced entry either lands
	// back where it was or shifts into the hole, whichever its home probe
	// sequence reaches first.
	j := (i + 1) & mask
	for m.entries[j].hash != 0 {
		e := m.entries[j]
		m.entries[j] = pathmapEntry{}
		m.place(e.hash, e.slot)
		j = (j + 1) & mask
	}
	return true
}

// len returns the number of live entries.
func (m *pathmap) len() int {
	return m.count
}
