package errors

import (
	"math"
	"unicode"
)

// MaxNameLength is the longest name that fits in a single stream record
// after even-length padding.
const MaxNameLength = 65530

// MaxLayer is the highest valid layer number.
const MaxLayer = 255

// ValidateName validates a cell or library name.
//
// Names are the sole cross-reference key in a stream, so the rules are strict:
//   - No empty names
//   - ASCII only (names are written as ASCII records)
//   - No control characters or NUL bytes
//   - Maximum length of MaxNameLength bytes
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if r > unicode.MaxASCII {
			return New(ErrCodeInvalidName, "name %q contains non-ASCII characters", name)
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name %q contains control characters", name)
		}
	}

	return nil
}

// ValidateLayer checks that layer is within 0..MaxLayer.
func ValidateLayer(layer int) error {
	if layer < 0 || layer > MaxLayer {
		return New(ErrCodeInvalidLayer, "layer %d out of range 0..%d", layer, MaxLayer)
	}
	return nil
}

// ValidateUnits checks a user unit and database precision pair.
// Both must be positive and finite, and the precision must not be coarser
// than the user unit.
func ValidateUnits(units, precision float64) error {
	if !(units > 0) || math.IsInf(units, 0) {
		return New(ErrCodeInvalidInput, "units must be positive and finite, got %g", units)
	}
	if !(precision > 0) || math.IsInf(precision, 0) {
		return New(ErrCodeInvalidInput, "precision must be positive and finite, got %g", precision)
	}
	if precision > units {
		return New(ErrCodeInvalidInput, "precision %g is coarser than units %g", precision, units)
	}
	return nil
}
