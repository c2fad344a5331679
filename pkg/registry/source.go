package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source supplies model descriptors. LoadAll may be called repeatedly;
// it must be safe to call concurrently with reads of a previously
// loaded table.
type Source interface {
	LoadAll() ([]ModelDescriptor, error)
}

// StaticSource serves a fixed descriptor list.
type StaticSource []ModelDescriptor

// LoadAll returns the static descriptor list.
func (s StaticSource) LoadAll() ([]ModelDescriptor, error) {
	out := make([]ModelDescriptor, len(s))
	copy(out, s)
	return out, nil
}

// FileSource loads descriptors from a YAML catalog file.
type FileSource struct {
	Path string
}

type catalogFile struct {
	Models []ModelDescriptor `yaml:"models"`
}

// LoadAll reads and parses the catalog file.
func (s FileSource) LoadAll() ([]ModelDescriptor, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", s.Path, err)
	}
	return file.Models, nil
}
