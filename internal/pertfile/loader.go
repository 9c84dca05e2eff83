// Package pertfile loads the YAML output file written by a calculation run
// into an in-memory mapping and exposes typed access to the sections shared
// by all calculation modes. Mode-specific packages consume a *File and
// validate their own mode tag at construction.
package pertfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the raw calculation output mapping plus the path it came from.
type File struct {
	raw  map[string]any
	path string
}

// Load reads and parses a calculation output YAML file. A missing file is
// reported before any parsing begins.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("pertfile: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pertfile: reading %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pertfile: parsing %s: %w", path, err)
	}
	return &File{raw: raw, path: path}, nil
}

// FromMap wraps an already-materialized mapping, for callers that obtained
// the data elsewhere.
func FromMap(raw map[string]any) *File {
	return &File{raw: raw}
}

// Path returns the file path the mapping was loaded from, if any.
func (f *File) Path() string { return f.path }

// Section returns the named top-level mapping.
func (f *File) Section(name string) (map[string]any, error) {
	v, ok := f.raw[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingKey, name)
	}
	sec, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a mapping", ErrBadValue, name)
	}
	return sec, nil
}

// CalcMode returns the calculation mode tag recorded in the input
// parameters section.
func (f *File) CalcMode() (string, error) {
	params, err := f.Section("input parameters")
	if err != nil {
		return "", err
	}
	after, ok := params["after conversion"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: \"input parameters.after conversion\"", ErrMissingKey)
	}
	mode, ok := after["calc_mode"]
	if !ok {
		return "", fmt.Errorf("%w: \"calc_mode\"", ErrMissingKey)
	}
	return AsString(mode)
}

// Basic extracts the lattice data common to all calculation modes.
func (f *File) Basic() (*BasicData, error) {
	sec, err := f.Section("basic data")
	if err != nil {
		return nil, err
	}
	out := &BasicData{}

	v, ok := sec["alat"]
	if !ok {
		return nil, fmt.Errorf("%w: \"alat\"", ErrMissingKey)
	}
	if out.Alat, err = AsFloat(v); err != nil {
		return nil, err
	}

	v, ok = sec["alat units"]
	if !ok {
		return nil, fmt.Errorf("%w: \"alat units\"", ErrMissingKey)
	}
	if out.AlatUnits, err = AsString(v); err != nil {
		return nil, err
	}

	v, ok = sec["lattice vectors"]
	if !ok {
		return nil, fmt.Errorf("%w: \"lattice vectors\"", ErrMissingKey)
	}
	if out.Lat, err = AsMatrix3(v); err != nil {
		return nil, err
	}

	v, ok = sec["reciprocal lattice vectors"]
	if !ok {
		return nil, fmt.Errorf("%w: \"reciprocal lattice vectors\"", ErrMissingKey)
	}
	if out.RecipLat, err = AsMatrix3(v); err != nil {
		return nil, err
	}

	return out, nil
}
