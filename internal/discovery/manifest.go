package discovery

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Markers recognised in a manifest.
const (
	MarkerTestContainer = "test_container"
	MarkerTest          = "test"
	MarkerPreTest       = "pre_test"
	MarkerPostTest      = "post_test"
)

// Manifest is the on-disk description of one module: the types it contributes and the
// markers attached to them. JSON manifests are read by the same decoder.
type Manifest struct {
	Types []TypeEntry `yaml:"types"`
}

// TypeEntry describes one type of a module.
type TypeEntry struct {
	Name    string        `yaml:"name"`
	Markers []string      `yaml:"markers"`
	Methods []MethodEntry `yaml:"methods"`
}

// MethodEntry describes one method of a type, in declaration order.
type MethodEntry struct {
	Name    string   `yaml:"name"`
	Markers []string `yaml:"markers"`
}

// HasMarker reports whether the type carries the marker.
func (t TypeEntry) HasMarker(marker string) bool {
	return hasMarker(t.Markers, marker)
}

// HasMarker reports whether the method carries the marker.
func (m MethodEntry) HasMarker(marker string) bool {
	return hasMarker(m.Markers, marker)
}

func hasMarker(markers []string, marker string) bool {
	for _, m := range markers {
		if m == marker {
			return true
		}
	}
	return false
}

// LoadManifest reads and decodes a manifest file. An empty file is an empty manifest.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	return DecodeManifest(f)
}

// DecodeManifest decodes a manifest, rejecting unknown fields and unnamed entries.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	for i, t := range m.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("type #%d has no name", i+1)
		}
		for j, method := range t.Methods {
			if method.Name == "" {
				return nil, fmt.Errorf("type %s: method #%d has no name", t.Name, j+1)
			}
		}
	}
	return &m, nil
}
