// Copyright 2026 The gogpu Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package region

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/assets/internal/decode"
	"github.com/gogpu/assets/registry"
)

// Definition is one region as described by a manifest file.
type Definition struct {
	Name   string      `toml:"name"`
	Assets []AssetSpec `toml:"asset"`
}

// AssetSpec is one asset line of a manifest region.
type AssetSpec struct {
	Path string `toml:"path"`
	Type string `toml:"type"`
}

type manifest struct {
	Regions []Definition `toml:"region"`
}

// ParseManifest reads TOML region definitions:
//
//	[[region]]
//	name = "forest"
//
//	  [[region.asset]]
//	  path = "textures/tree.png"
//	  type = "texture"
func ParseManifest(r io.Reader) ([]Definition, error) {
	var doc manifest
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("region: parse manifest: %w", err)
	}
	for _, def := range doc.Regions {
		if def.Name == "" {
			return nil, fmt.Errorf("region: manifest region without a name")
		}
		for _, a := range def.Assets {
			if a.Path == "" {
				return nil, fmt.Errorf("region: manifest region %q has an asset without a path", def.Name)
			}
			if _, err := parseType(a.Type); err != nil {
				return nil, fmt.Errorf("region: manifest region %q: %w", def.Name, err)
			}
		}
	}
	return doc.Regions, nil
}

// LoadManifest reads a manifest file from fsys (nil means the host
// filesystem) and creates one inactive region per definition, returning
// their IDs in file order.
func (m *Manager) LoadManifest(fsys fs.FS, path string) ([]ID, error) {
	data, err := decode.File(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("region: read manifest: %w", err)
	}
	var doc manifest
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("region: parse manifest %s: %w", path, err)
	}

	ids := make([]ID, 0, len(doc.Regions))
	for _, def := range doc.Regions {
		if def.Name == "" {
			return nil, fmt.Errorf("region: manifest %s: region without a name", path)
		}
		id := m.Create(def.Name)
		for _, a := range def.Assets {
			typ, err := parseType(a.Type)
			if err != nil {
				return nil, fmt.Errorf("region: manifest %s, region %q: %w", path, def.Name, err)
			}
			if err := m.Add(id, a.Path, typ); err != nil {
				return nil, err
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseType maps a manifest type string onto a registry type. An empty
// string means raw data.
func parseType(s string) (registry.Type, error) {
	switch s {
	case "texture":
		return registry.TypeTexture, nil
	case "sound":
		return registry.TypeSound, nil
	case "music":
		return registry.TypeMusic, nil
	case "font":
		return registry.TypeFont, nil
	case "shader":
		return registry.TypeShader, nil
	case "prefab":
		return registry.TypePrefab, nil
	case "scene":
		return registry.TypeScene, nil
	case "data", "":
		return registry.TypeData, nil
	default:
		return registry.TypeUnknown, fmt.Errorf("unknown asset type %q", s)
	}
}
