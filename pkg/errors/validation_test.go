package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "TOP", false},
		{"valid with dash", "via-1", false},
		{"valid with underscore", "cell_a", false},
		{"valid with dollar", "$$inv$$", false},
		{"valid with space", "pad ring", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxNameLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"non-ascii", "zelle_ä", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateLayer(t *testing.T) {
	tests := []struct {
		layer   int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{255, false},
		{-1, true},
		{256, true},
	}

	for _, tt := range tests {
		err := ValidateLayer(tt.layer)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLayer(%d) error = %v, wantErr %v", tt.layer, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidLayer) {
			t.Errorf("ValidateLayer(%d) returned wrong error code: %v", tt.layer, err)
		}
	}
}

func TestValidateUnits(t *testing.T) {
	tests := []struct {
		name             string
		units, precision float64
		wantErr          bool
	}{
		{"defaults", 1e-6, 1e-10, false},
		{"equal", 1e-9, 1e-9, false},
		{"zero units", 0, 1e-10, true},
		{"negative precision", 1e-6, -1e-10, true},
		{"nan", math.NaN(), 1e-10, true},
		{"inf precision", 1e-6, math.Inf(1), true},
		{"coarse precision", 1e-9, 1e-6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnits(tt.units, tt.precision)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUnits(%g, %g) error = %v, wantErr %v", tt.units, tt.precision, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidGeometry,
		ErrCodeInvalidLayer,
		ErrCodeInvalidInstance,
		ErrCodeInvalidName,
		ErrCodeInvalidConfig,
		ErrCodeInvalidFormat,
		ErrCodeDuplicateName,
		ErrCodeUnresolvedReference,
		ErrCodeCycle,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeMalformedStream,
		ErrCodeFileCreate,
		ErrCodeWriteFailed,
		ErrCodeIO,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
