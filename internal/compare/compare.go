// Package compare implements the tolerant comparison of calculation output
// YAML files used by the regression harness. Numeric values are compared
// with per-key absolute tolerances; structure mismatches (different keys,
// lengths, or types) are reported as errors rather than silently treated as
// inequality.
package compare

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrMismatch indicates the two files disagree structurally: different
// keys, sequence lengths, or value types.
var ErrMismatch = errors.New("compare: files differ in structure")

// Spec controls a comparison run: per-key absolute tolerances with a
// "default" fallback, top-level keys to ignore, and an optional whitelist
// of top-level keys to test.
type Spec struct {
	Tolerances     map[string]float64 `yaml:"tolerances"`
	IgnoreKeywords []string           `yaml:"ignore keywords"`
	TestKeywords   []string           `yaml:"test keywords"`
}

// LoadSpec reads a comparison spec from a YAML file.
func LoadSpec(path string) (Spec, error) {
	var spec Spec
	data, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("compare: %w", err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("compare: parsing %s: %w", path, err)
	}
	return spec, nil
}

func (s Spec) tolerance(key string) float64 {
	if tol, ok := s.Tolerances[key]; ok {
		return tol
	}
	return s.Tolerances["default"]
}

func (s Spec) ignored(key string) bool {
	for _, k := range s.IgnoreKeywords {
		if k == key {
			return true
		}
	}
	return false
}

// EqualValues loads two YAML files and reports whether they hold the same
// values under the spec's tolerances. Missing files surface before any
// comparison begins.
func EqualValues(file1, file2 string, spec Spec) (bool, error) {
	m1, err := loadYAML(file1)
	if err != nil {
		return false, err
	}
	m2, err := loadYAML(file2)
	if err != nil {
		return false, err
	}

	if len(spec.TestKeywords) > 0 {
		m1 = filterKeys(m1, spec.TestKeywords)
		m2 = filterKeys(m2, spec.TestKeywords)
		if len(m1) == 0 || len(m2) == 0 {
			return false, fmt.Errorf("%w: no entries left after applying test keywords", ErrMismatch)
		}
	}

	return spec.equalMaps(m1, m2)
}

func loadYAML(path string) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("compare: parsing %s: %w", path, err)
	}
	return m, nil
}

func filterKeys(m map[string]any, keep []string) map[string]any {
	out := make(map[string]any)
	for _, k := range keep {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

func (s Spec) equalMaps(m1, m2 map[string]any) (bool, error) {
	keys1 := sortedKeys(m1)
	keys2 := sortedKeys(m2)
	if len(keys1) != len(keys2) {
		return false, fmt.Errorf("%w: key sets differ (%d vs %d keys)", ErrMismatch, len(keys1), len(keys2))
	}
	for i := range keys1 {
		if keys1[i] != keys2[i] {
			return false, fmt.Errorf("%w: key sets differ at %q vs %q", ErrMismatch, keys1[i], keys2[i])
		}
	}

	for _, k := range keys1 {
		if s.ignored(k) {
			continue
		}
		eq, err := s.equalAny(m1[k], m2[k], k)
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}

func (s Spec) equalAny(v1, v2 any, key string) (bool, error) {
	switch x1 := v1.(type) {
	case map[string]any:
		x2, ok := v2.(map[string]any)
		if !ok {
			return false, typeMismatch(key, v1, v2)
		}
		return s.equalMaps(x1, x2)
	case []any:
		x2, ok := v2.([]any)
		if !ok {
			return false, typeMismatch(key, v1, v2)
		}
		if len(x1) != len(x2) {
			return false, fmt.Errorf("%w: sequences under %q have lengths %d and %d", ErrMismatch, key, len(x1), len(x2))
		}
		for i := range x1 {
			eq, err := s.equalAny(x1[i], x2[i], key)
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	case string:
		x2, ok := v2.(string)
		if !ok {
			return false, typeMismatch(key, v1, v2)
		}
		return x1 == x2, nil
	case nil:
		return v2 == nil, nil
	case bool:
		x2, ok := v2.(bool)
		if !ok {
			return false, typeMismatch(key, v1, v2)
		}
		return x1 == x2, nil
	default:
		f1, int1, ok1 := asNumber(v1)
		f2, int2, ok2 := asNumber(v2)
		if !ok1 || !ok2 {
			return false, typeMismatch(key, v1, v2)
		}
		// An integer and a float under the same key is a schema change,
		// not a value difference.
		if int1 != int2 {
			return false, typeMismatch(key, v1, v2)
		}
		return s.equalScalars(f1, f2, key), nil
	}
}

// equalScalars compares two numbers with the key's absolute tolerance.
// Two NaNs compare equal, mirroring the harness convention for padded data.
func (s Spec) equalScalars(f1, f2 float64, key string) bool {
	if math.IsNaN(f1) && math.IsNaN(f2) {
		return true
	}
	return math.Abs(f1-f2) <= s.tolerance(key)
}

func asNumber(v any) (f float64, isInt, ok bool) {
	switch x := v.(type) {
	case float64:
		return x, false, true
	case int:
		return float64(x), true, true
	case int64:
		return float64(x), true, true
	default:
		return 0, false, false
	}
}

func typeMismatch(key string, v1, v2 any) error {
	return fmt.Errorf("%w: values under %q have types %T and %T", ErrMismatch, key, v1, v2)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
