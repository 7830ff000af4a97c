package registry

import "testing"

func TestHandle_RoundTrip(t *testing.T) {
	cases := []struct {
		index uint32
		gen   uint8
	}{
		{0, 0},
		{1, 0},
		{0, 1},
		{1, 1},
		{42, 7},
		{MaxIndex, 255},
		{MaxIndex, 0},
		{0, 255},
		{1 << 23, 128},
	}

	for _, c := range cases {
		h := NewHandle(c.index, c.gen)
		if h.Index() != c.index {
			t.Errorf("NewHandle(%d, %d).Index() = %d, want %d", c.index, c.gen, h.Index(), c.index)
		}
		if h.Generation() != c.gen {
			t.Errorf("NewHandle(%d, %d).Generation() = %d, want %d", c.index, c.gen, h.Generation(), c.gen)
		}
	}
}

func TestHandle_IndexMasked(t *testing.T) {
	// Bits above the low 24 of the index must not leak into the generation.
	h := NewHandle(0xFFFFFFFF, 3)
	if h.Index() != MaxIndex {
		t.Errorf("Index() = %d, want %d", h.Index(), uint32(MaxIndex))
	}
	if h.Generation() != 3 {
		t.Errorf("Generation() = %d, want 3", h.Generation())
	}
}

func TestHandle_Nil(t *testing.T) {
	if !Nil.IsNil() {
		t.Error("Nil.IsNil() = false, want true")
	}
	if NewHandle(0, 0) != Nil {
		t.Error("NewHandle(0, 0) should be Nil")
	}

	// A zero index with a nonzero generation is not the nil handle; only
	// index 0 generation 0 packs to zero.
	if NewHandle(0, 1).IsNil() {
		t.Error("NewHandle(0, 1).IsNil() = true, want false")
	}
	if NewHandle(1, 0).IsNil() {
		t.Error("NewHandle(1, 0).IsNil() = true, want false")
	}
}

func TestHandle_RoundTripExhaustiveGenerations(t *testing.T) {
	for gen := 0; gen < 256; gen++ {
		h := NewHandle(12345, uint8(gen))
		if h.Index() != 12345 || h.Generation() != uint8(gen) {
			t.Fatalf("round trip failed for gen %d: got (%d, %d)", gen, h.Index(), h.Generation())
		}
	}
}
