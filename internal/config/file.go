package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout read by LoadFile:
//
//	default: tendl-21
//	cross_sections:
//	  Li6: ./data/Li6.json
//	  Fe56: fendl-3.2c
type File struct {
	Default       string            `yaml:"default"`
	CrossSections map[string]string `yaml:"cross_sections"`
}

// LoadFile reads the YAML file at path.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read cross sections file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse cross sections file %s: %w", path, err)
	}
	return f, nil
}

// Apply merges f into s. A non-empty default replaces the current one.
func (f File) Apply(s *Store) {
	s.SetAll(f.CrossSections)
	if f.Default != "" {
		s.SetDefault(f.Default)
	}
}

// LoadInto reads path and applies it to s.
func LoadInto(s *Store, path string) error {
	f, err := LoadFile(path)
	if err != nil {
		return err
	}
	f.Apply(s)
	return nil
}
