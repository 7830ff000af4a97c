// Copyright 2026 The gogpu Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package region

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gogpu/assets"
	"github.com/gogpu/assets/registry"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/a.dat":          {Data: []byte("alpha")},
		"data/b.dat":          {Data: []byte("beta")},
		"data/c.dat":          {Data: []byte("gamma")},
		"regions/world.toml":  {Data: []byte(worldManifest)},
		"regions/broken.toml": {Data: []byte("[[region]]\nname = \"x\"\n[[region.asset]]\npath = \"p\"\ntype = \"nonsense\"\n")},
	}
}

const worldManifest = `
[[region]]
name = "hub"

  [[region.asset]]
  path = "data/a.dat"
  type = "data"

  [[region.asset]]
  path = "data/b.dat"

[[region]]
name = "dungeon"

  [[region.asset]]
  path = "data/c.dat"
  type = "data"
`

// pump drives Update until the loader drains.
func pump(t *testing.T, l *assets.Loader) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !l.Idle() {
		if time.Now().After(deadline) {
			t.Fatal("pipeline did not drain")
		}
		l.Wait(50 * time.Millisecond)
		l.Update()
	}
}

func newEnv(t *testing.T, fsys fs.FS) (*Manager, *assets.Loader, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	l := assets.New(reg, assets.WithFS(fsys))
	t.Cleanup(l.Close)
	return NewManager(l, reg), l, reg
}

// =============================================================================
// Bookkeeping
// =============================================================================

func TestManager_CreateAndAdd(t *testing.T) {
	m, _, _ := newEnv(t, testFS())

	id := m.Create("hub")
	if id == 0 {
		t.Fatal("Create returned the zero ID")
	}
	if r := m.Get(id); r == nil || r.Name() != "hub" {
		t.Fatalf("Get(%d) = %v", id, m.Get(id))
	}

	if err := m.Add(id, "data/a.dat", registry.TypeData); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if m.Get(id).Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Get(id).Len())
	}

	if err := m.Add(999, "data/a.dat", registry.TypeData); err != ErrUnknownRegion {
		t.Errorf("Add to unknown region err = %v, want ErrUnknownRegion", err)
	}
}

func TestManager_AddWhileActive(t *testing.T) {
	m, l, _ := newEnv(t, testFS())

	id := m.Create("hub")
	m.Add(id, "data/a.dat", registry.TypeData)
	if err := m.Activate(id, nil); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := m.Add(id, "data/b.dat", registry.TypeData); err != ErrActive {
		t.Errorf("Add while active err = %v, want ErrActive", err)
	}
	if err := m.Activate(id, nil); err != ErrActive {
		t.Errorf("double Activate err = %v, want ErrActive", err)
	}
	pump(t, l)
}

// =============================================================================
// Activation
// =============================================================================

func TestManager_ActivateLoadsEverything(t *testing.T) {
	m, l, reg := newEnv(t, testFS())

	id := m.Create("hub")
	m.Add(id, "data/a.dat", registry.TypeData)
	m.Add(id, "data/b.dat", registry.TypeData)
	m.Add(id, "data/c.dat", registry.TypeData)

	readyCount := 0
	if err := m.Activate(id, func(r *Region) {
		readyCount++
		if !r.Ready() {
			t.Error("onReady fired on a non-ready region")
		}
	}); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	pump(t, l)

	if readyCount != 1 {
		t.Fatalf("onReady fired %d times, want 1", readyCount)
	}
	r := m.Get(id)
	if r.Failed() != 0 {
		t.Errorf("Failed = %d, want 0", r.Failed())
	}
	if len(r.Handles()) != 3 {
		t.Errorf("Handles = %d, want 3", len(r.Handles()))
	}
	if p := m.Progress(id); p != 1 {
		t.Errorf("Progress = %v, want 1", p)
	}
	if reg.Len() != 3 {
		t.Errorf("registry Len = %d, want 3", reg.Len())
	}
	for _, h := range r.Handles() {
		if !reg.Alive(h) {
			t.Errorf("handle %v not alive", h)
		}
	}
}

func TestManager_ActivateEmptyRegion(t *testing.T) {
	m, _, _ := newEnv(t, testFS())

	id := m.Create("empty")
	fired := false
	if err := m.Activate(id, func(r *Region) { fired = true }); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !fired {
		t.Error("onReady did not fire synchronously for an empty region")
	}
	if p := m.Progress(id); p != 1 {
		t.Errorf("Progress = %v, want 1", p)
	}
}

func TestManager_FailedAssetsCountTowardCompletion(t *testing.T) {
	m, l, reg := newEnv(t, testFS())

	id := m.Create("hub")
	m.Add(id, "data/a.dat", registry.TypeData)
	m.Add(id, "data/missing.dat", registry.TypeData)

	fired := false
	m.Activate(id, func(r *Region) { fired = true })
	pump(t, l)

	if !fired {
		t.Fatal("onReady never fired")
	}
	r := m.Get(id)
	if r.Failed() != 1 {
		t.Errorf("Failed = %d, want 1", r.Failed())
	}
	if len(r.Handles()) != 1 {
		t.Errorf("Handles = %d, want 1", len(r.Handles()))
	}
	if reg.Len() != 1 {
		t.Errorf("registry Len = %d, want 1", reg.Len())
	}
}

func TestManager_Progress(t *testing.T) {
	m, l, _ := newEnv(t, testFS())

	id := m.Create("hub")
	m.Add(id, "data/a.dat", registry.TypeData)
	m.Add(id, "data/b.dat", registry.TypeData)

	if p := m.Progress(id); p != 0 {
		t.Errorf("inactive Progress = %v, want 0", p)
	}
	if p := m.Progress(999); p != 0 {
		t.Errorf("unknown Progress = %v, want 0", p)
	}

	m.Activate(id, nil)
	pump(t, l)
	if p := m.Progress(id); p != 1 {
		t.Errorf("Progress = %v, want 1", p)
	}
}

// =============================================================================
// Deactivation
// =============================================================================

func TestManager_DeactivateReleasesHandles(t *testing.T) {
	m, l, reg := newEnv(t, testFS())

	id := m.Create("hub")
	m.Add(id, "data/a.dat", registry.TypeData)
	m.Add(id, "data/b.dat", registry.TypeData)
	m.Activate(id, nil)
	pump(t, l)

	if reg.Len() != 2 {
		t.Fatalf("registry Len = %d before deactivate, want 2", reg.Len())
	}
	if err := m.Deactivate(id); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("registry Len = %d after deactivate, want 0", reg.Len())
	}
	if m.Get(id).Active() {
		t.Error("region still active")
	}
	if err := m.Deactivate(id); err != ErrInactive {
		t.Errorf("double Deactivate err = %v, want ErrInactive", err)
	}

	// The region can be activated again.
	if err := m.Activate(id, nil); err != nil {
		t.Fatalf("re-Activate: %v", err)
	}
	pump(t, l)
	if reg.Len() != 2 {
		t.Errorf("registry Len = %d after re-activation, want 2", reg.Len())
	}
}

func TestManager_DeactivateMidFlight(t *testing.T) {
	gate := make(chan struct{})
	m, l, reg := newEnv(t, blockingFS{fsys: testFS(), gate: gate})

	id := m.Create("hub")
	m.Add(id, "data/a.dat", registry.TypeData)
	m.Add(id, "data/b.dat", registry.TypeData)

	fired := false
	m.Activate(id, func(*Region) { fired = true })
	if err := m.Deactivate(id); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	close(gate)
	pump(t, l)

	// In-flight loads completed after deactivation: their handles must have
	// been released, and the ready callback must never have fired.
	if fired {
		t.Error("onReady fired for a deactivated region")
	}
	if reg.Len() != 0 {
		t.Errorf("registry Len = %d, want 0", reg.Len())
	}
}

func TestManager_ReactivateWithLoadsInFlight(t *testing.T) {
	gate := make(chan struct{})
	m, l, reg := newEnv(t, blockingFS{fsys: testFS(), gate: gate})

	id := m.Create("hub")
	m.Add(id, "data/a.dat", registry.TypeData)
	m.Add(id, "data/b.dat", registry.TypeData)

	firstReady := false
	m.Activate(id, func(*Region) { firstReady = true })
	if err := m.Deactivate(id); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	secondReady := 0
	if err := m.Activate(id, func(r *Region) {
		secondReady++
		if got := len(r.Handles()); got != 2 {
			t.Errorf("Handles() at onReady = %d entries, want 2", got)
		}
	}); err != nil {
		t.Fatalf("re-Activate: %v", err)
	}

	// Both activations' loads complete together; only the second may count.
	close(gate)
	pump(t, l)

	if firstReady {
		t.Error("onReady fired for the deactivated activation")
	}
	if secondReady != 1 {
		t.Errorf("onReady fired %d times for the second activation, want 1", secondReady)
	}
	r := m.Get(id)
	if r.loaded != r.Len() {
		t.Errorf("loaded count %d exceeds asset count %d", r.loaded, r.Len())
	}
	if got := len(r.Handles()); got != 2 {
		t.Errorf("Handles() = %d entries, want 2", got)
	}
	if p := m.Progress(id); p != 1 {
		t.Errorf("Progress = %v, want 1", p)
	}
	// The first activation's completions released their references; only
	// the live activation holds the assets.
	if reg.Len() != 2 {
		t.Errorf("registry Len = %d, want 2", reg.Len())
	}
	for _, h := range r.Handles() {
		if rc := reg.RefCount(h); rc != 1 {
			t.Errorf("RefCount = %d, want 1", rc)
		}
	}
}

// blockingFS delays every Open until the gate channel is closed.
type blockingFS struct {
	fsys fs.FS
	gate chan struct{}
}

func (b blockingFS) Open(name string) (fs.File, error) {
	<-b.gate
	return b.fsys.Open(name)
}

// =============================================================================
// Manifests
// =============================================================================

func TestParseManifest(t *testing.T) {
	defs, err := ParseManifest(strings.NewReader(worldManifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("regions = %d, want 2", len(defs))
	}
	if defs[0].Name != "hub" || len(defs[0].Assets) != 2 {
		t.Errorf("defs[0] = %+v", defs[0])
	}
	if defs[1].Name != "dungeon" || len(defs[1].Assets) != 1 {
		t.Errorf("defs[1] = %+v", defs[1])
	}
}

func TestParseManifest_Errors(t *testing.T) {
	cases := []struct {
		name string
		toml string
	}{
		{"bad toml", "[[region"},
		{"missing name", "[[region]]\n"},
		{"missing path", "[[region]]\nname = \"x\"\n[[region.asset]]\ntype = \"data\"\n"},
		{"unknown type", "[[region]]\nname = \"x\"\n[[region.asset]]\npath = \"p\"\ntype = \"mesh\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseManifest(strings.NewReader(tc.toml)); err == nil {
				t.Error("ParseManifest accepted an invalid manifest")
			}
		})
	}
}

func TestManager_LoadManifest(t *testing.T) {
	fsys := testFS()
	m, l, reg := newEnv(t, fsys)

	ids, err := m.LoadManifest(fsys, "regions/world.toml")
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("regions = %d, want 2", len(ids))
	}
	if m.Get(ids[0]).Name() != "hub" || m.Get(ids[0]).Len() != 2 {
		t.Errorf("hub region = %+v", m.Get(ids[0]))
	}
	if m.Get(ids[1]).Name() != "dungeon" || m.Get(ids[1]).Len() != 1 {
		t.Errorf("dungeon region = %+v", m.Get(ids[1]))
	}

	m.Activate(ids[0], nil)
	pump(t, l)
	if reg.Len() != 2 {
		t.Errorf("registry Len = %d after activating hub, want 2", reg.Len())
	}
}

func TestManager_LoadManifest_Errors(t *testing.T) {
	fsys := testFS()
	m, _, _ := newEnv(t, fsys)

	if _, err := m.LoadManifest(fsys, "regions/nope.toml"); err == nil {
		t.Error("missing manifest accepted")
	}
	if _, err := m.LoadManifest(fsys, "regions/broken.toml"); err == nil {
		t.Error("manifest with unknown asset type accepted")
	}
}

func TestParseType(t *testing.T) {
	if typ, err := parseType(""); err != nil || typ != registry.TypeData {
		t.Errorf("parseType(\"\") = %v, %v; want data", typ, err)
	}
	if typ, err := parseType("texture"); err != nil || typ != registry.TypeTexture {
		t.Errorf("parseType(texture) = %v, %v", typ, err)
	}
	if _, err := parseType("mesh"); err == nil {
		t.Error("parseType(mesh) accepted")
	}
}
