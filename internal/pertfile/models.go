package pertfile

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMissingKey indicates a required key absent from the output file.
	ErrMissingKey = errors.New("pertfile: required key missing")
	// ErrBadValue indicates a value of an unexpected type or shape.
	ErrBadValue = errors.New("pertfile: value has unexpected type or shape")
)

// CalcResult is the capability shared by every calculation-mode variant.
// Each variant validates its own mode tag at construction and rejects files
// produced by a different calculation.
type CalcResult interface {
	// Mode returns the calculation mode tag the variant was built from.
	Mode() string
}

// BasicData carries the lattice information common to all calculation modes.
type BasicData struct {
	Alat      float64
	AlatUnits string
	Lat       [3][3]float64
	RecipLat  [3][3]float64
}

// AsString coerces a raw YAML value to a string.
func AsString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrBadValue, v)
	}
	return s, nil
}

// AsFloat coerces a raw YAML scalar to a float64.
func AsFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrBadValue, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: expected number, got %T", ErrBadValue, v)
	}
}

// AsInt coerces a raw YAML scalar to an int.
func AsInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case float64:
		return int(x), nil
	default:
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrBadValue, v)
	}
}

// AsFloatSlice coerces a raw YAML sequence to a []float64.
func AsFloatSlice(v any) ([]float64, error) {
	seq, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected sequence, got %T", ErrBadValue, v)
	}
	out := make([]float64, len(seq))
	for i, item := range seq {
		f, err := AsFloat(item)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// AsPoints coerces a raw YAML sequence of 3-vectors to [][3]float64.
func AsPoints(v any) ([][3]float64, error) {
	seq, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected sequence of 3-vectors, got %T", ErrBadValue, v)
	}
	out := make([][3]float64, len(seq))
	for i, item := range seq {
		row, err := AsFloatSlice(item)
		if err != nil {
			return nil, err
		}
		if len(row) != 3 {
			return nil, fmt.Errorf("%w: point %d has %d components", ErrBadValue, i, len(row))
		}
		copy(out[i][:], row)
	}
	return out, nil
}

// AsMatrix3 coerces a raw YAML sequence of three 3-vectors to a 3x3 matrix.
func AsMatrix3(v any) ([3][3]float64, error) {
	var m [3][3]float64
	rows, err := AsPoints(v)
	if err != nil {
		return m, err
	}
	if len(rows) != 3 {
		return m, fmt.Errorf("%w: expected 3 lattice vectors, got %d", ErrBadValue, len(rows))
	}
	for i := range rows {
		m[i] = rows[i]
	}
	return m, nil
}

// AsBandMap coerces the "band index" mapping to map[int][]float64. YAML
// integer keys arrive as map[any]any; string keys are also accepted.
func AsBandMap(v any) (map[int][]float64, error) {
	out := make(map[int][]float64)
	switch m := v.(type) {
	case map[string]any:
		for k, item := range m {
			n, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("%w: band index key %q is not an integer", ErrBadValue, k)
			}
			band, err := AsFloatSlice(item)
			if err != nil {
				return nil, err
			}
			out[n] = band
		}
	case map[any]any:
		for k, item := range m {
			n, err := AsInt(k)
			if err != nil {
				return nil, fmt.Errorf("%w: band index key %v is not an integer", ErrBadValue, k)
			}
			band, err := AsFloatSlice(item)
			if err != nil {
				return nil, err
			}
			out[n] = band
		}
	default:
		return nil, fmt.Errorf("%w: expected band index mapping, got %T", ErrBadValue, v)
	}
	return out, nil
}
