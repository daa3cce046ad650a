package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the standard manifest shipped next to the driver binary.
const ManifestFileName = "manifest.yml"

// Manifest declares the parameters a driver can report and the named sets
// the platform may request. Keep it forward-compatible: prefer adding fields
// over changing existing meanings, and bump SchemaVersion when you must.
type Manifest struct {
	SchemaVersion int    `yaml:"schema_version"`
	DriverID      string `yaml:"driver_id,omitempty"`
	Name          string `yaml:"name,omitempty"`
	Version       string `yaml:"version,omitempty"`

	Parameters    []ParameterDefinition `yaml:"parameters"`
	ParameterSets map[string][]string   `yaml:"parameter_sets,omitempty"`
}

type ParameterDefinition struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Unit        string `yaml:"unit,omitempty"`
	Type        string `yaml:"type,omitempty"` // integer|number|string|boolean
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Declares(key string) bool {
	for _, p := range m.Parameters {
		if p.Key == key {
			return true
		}
	}
	return false
}

func (m *Manifest) Validate() error {
	var errs []error
	if m.SchemaVersion < 1 {
		errs = append(errs, fmt.Errorf("schema_version must be >= 1, got %d", m.SchemaVersion))
	}

	seen := make(map[string]bool, len(m.Parameters))
	for i, p := range m.Parameters {
		switch {
		case p.Key == "":
			errs = append(errs, fmt.Errorf("parameters[%d]: key is required", i))
		case seen[p.Key]:
			errs = append(errs, fmt.Errorf("parameters[%d]: duplicate key %q", i, p.Key))
		}
		seen[p.Key] = true
	}

	for name, keys := range m.ParameterSets {
		if ParameterSetKey(name) == SetAllData {
			errs = append(errs, fmt.Errorf("parameter_sets: %s is reserved", SetAllData))
			continue
		}
		if len(keys) == 0 {
			errs = append(errs, fmt.Errorf("parameter_sets.%s: no parameters", name))
		}
		for _, k := range keys {
			if !seen[k] {
				errs = append(errs, fmt.Errorf("parameter_sets.%s: undeclared parameter %q", name, k))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest: %w", errors.Join(errs...))
	}
	return nil
}

// Apply defines the manifest's parameter sets on r. Every collector registered
// on r must be declared in the manifest, and every set member must have a
// collector, so that each reported ParameterKey is a manifest key.
func (m *Manifest) Apply(r *Resolver) error {
	var errs []error
	for _, k := range r.Keys() {
		if !m.Declares(k) {
			errs = append(errs, fmt.Errorf("collector %q is not declared in the manifest", k))
		}
	}

	registered := make(map[string]bool)
	for _, k := range r.Keys() {
		registered[k] = true
	}
	for name, keys := range m.ParameterSets {
		for _, k := range keys {
			if !registered[k] {
				errs = append(errs, fmt.Errorf("parameter_sets.%s: no collector for %q", name, k))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("apply manifest: %w", errors.Join(errs...))
	}

	for name, keys := range m.ParameterSets {
		r.DefineSet(ParameterSetKey(name), keys...)
	}
	return nil
}
