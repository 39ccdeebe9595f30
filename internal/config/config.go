// Package config loads navigation build files.
//
// A build file is YAML with a region section and a scene section:
//
//	name: courtyard
//	region:
//	  center: {x: 0, y: 0, z: 0}
//	  extents: {x: 1000, y: 1000, z: 200}
//	  density: 10
//	  spacing_unit: 1000
//	  buffer_radius: 2
//	diagonal_moves: false
//	scene:
//	  surfaces:
//	    - name: floor
//	      min: [-1000, -1000]
//	      max: [1000, 1000]
//	      top: 0
//	      tags: [Walkable]
package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/surfacenav"
	"github.com/pdrpinto/surfacenav/internal/scene"
)

// File is a decoded build file.
type File struct {
	Name          string            `yaml:"name"`
	Region        surfacenav.Region `yaml:"region"`
	DiagonalMoves bool              `yaml:"diagonal_moves"`
	Scene         scene.Definition  `yaml:"scene"`
}

// GraphOptions returns the graph options the file asks for.
func (f File) GraphOptions() []surfacenav.GraphOption {
	if f.DiagonalMoves {
		return []surfacenav.GraphOption{surfacenav.WithDiagonalMoves()}
	}
	return nil
}

// Loaded is a build file together with the digest of its raw bytes.
type Loaded struct {
	File   File
	Path   string
	Digest string
}

// CacheKey identifies the grid this file builds.
func (l Loaded) CacheKey() string { return l.File.Name + "@" + l.Digest }

// Load reads and decodes the build file at path.
func Load(path string) (Loaded, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	file, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return Loaded{}, fmt.Errorf("%s: %w", path, err)
	}
	sum := sha256.Sum256(raw)
	return Loaded{File: file, Path: path, Digest: hex.EncodeToString(sum[:])}, nil
}

// Decode parses a build file. Unknown keys are rejected. Fields that are left
// out take their values from surfacenav.DefaultRegion.
func Decode(reader io.Reader) (File, error) {
	file := File{Name: "default", Region: surfacenav.DefaultRegion()}
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return file, nil
		}
		return File{}, fmt.Errorf("decode build file: %w", err)
	}
	if file.Name == "" {
		file.Name = "default"
	}
	return file, nil
}
