// Command assetdemo loads a region manifest and streams its regions in,
// printing progress as the pipeline drains.
//
// Without a manifest it loads the paths given on the command line as raw
// data assets:
//
//	assetdemo -root ./gamedata -manifest regions/world.toml
//	assetdemo file1.dat file2.dat
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/assets"
	"github.com/gogpu/assets/region"
	"github.com/gogpu/assets/registry"
)

func main() {
	var (
		root     = flag.String("root", ".", "asset root directory")
		manifest = flag.String("manifest", "", "TOML region manifest, relative to root")
		workers  = flag.Int("workers", 0, "worker goroutines (0 = per CPU, capped at 4)")
		verbose  = flag.Bool("v", false, "log pipeline activity")
	)
	flag.Parse()

	if *verbose {
		assets.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	fsys := os.DirFS(*root)
	reg := registry.New()
	loader := assets.New(reg,
		assets.WithFS(fsys),
		assets.WithWorkers(*workers))
	defer loader.Close()

	if *manifest != "" {
		if err := runManifest(loader, reg, fsys, *manifest); err != nil {
			log.Fatalf("assetdemo: %v", err)
		}
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	runPaths(loader, reg, flag.Args())
}

// runManifest activates every region in the manifest and pumps the loader
// until all are ready. The manifest is read through the same filesystem the
// assets load from, so its path is root-relative like theirs.
func runManifest(loader *assets.Loader, reg *registry.Registry, fsys fs.FS, path string) error {
	mgr := region.NewManager(loader, reg)
	ids, err := mgr.LoadManifest(fsys, path)
	if err != nil {
		return err
	}
	fmt.Printf("manifest %s: %d region(s)\n", path, len(ids))

	ready := 0
	for _, id := range ids {
		if err := mgr.Activate(id, func(r *region.Region) {
			ready++
			fmt.Printf("region %q ready: %d loaded, %d failed\n",
				r.Name(), len(r.Handles()), r.Failed())
		}); err != nil {
			return err
		}
	}

	for ready < len(ids) {
		loader.Wait(100 * time.Millisecond)
		loader.Update()
		for _, id := range ids {
			fmt.Printf("  %-16s %5.1f%%\n", mgr.Get(id).Name(), mgr.Progress(id)*100)
		}
	}

	fmt.Printf("registry holds %d asset(s)\n", reg.Len())
	return nil
}

// runPaths loads each argument as a raw data asset and reports per-file
// results.
func runPaths(loader *assets.Loader, reg *registry.Registry, paths []string) {
	failed := 0
	for _, p := range paths {
		if _, err := loader.Load(p, registry.TypeData, func(res assets.Result) {
			if !res.OK() {
				failed++
				fmt.Printf("FAIL %s: %v\n", res.Path, res.Err)
				return
			}
			data, _ := reg.Data(res.Handle).([]byte)
			fmt.Printf("ok   %s (%d bytes)\n", res.Path, len(data))
		}); err != nil {
			log.Fatalf("assetdemo: submit %s: %v", p, err)
		}
	}

	for !loader.Idle() {
		loader.Wait(100 * time.Millisecond)
		loader.Update()
	}
	if failed > 0 {
		os.Exit(1)
	}
}
