package errors

import (
	"errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("permission denied")
	tests := []struct {
		name    string
		err     *Error
		code    Code
		message string
		text    string
	}{
		{
			name:    "new",
			err:     New(ErrCodeInvalidLayer, "layer %d outside 0..255", 300),
			code:    ErrCodeInvalidLayer,
			message: "layer 300 outside 0..255",
			text:    "INVALID_LAYER: layer 300 outside 0..255",
		},
		{
			name:    "wrap",
			err:     Wrap(ErrCodeFileCreate, cause, "create %s", "chip.gds"),
			code:    ErrCodeFileCreate,
			message: "create chip.gds",
			text:    "FILE_CREATE: create chip.gds: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code || tt.err.Message != tt.message {
				t.Errorf("got %v %q, want %v %q", tt.err.Code, tt.err.Message, tt.code, tt.message)
			}
			if tt.err.Error() != tt.text {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.text)
			}
		})
	}

	wrapped := Wrap(ErrCodeFileCreate, cause, "create")
	if errors.Unwrap(wrapped) != cause || !errors.Is(wrapped, cause) {
		t.Error("wrapped error does not expose its cause")
	}
}

func TestCodeLookup(t *testing.T) {
	cycle := New(ErrCodeCycle, "top -> mid -> top")
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"coded", cycle, ErrCodeCycle, "top -> mid -> top"},
		{"outer code wins", Wrap(ErrCodeWriteFailed, cycle, "write chip.gds"), ErrCodeWriteFailed, "write chip.gds"},
		{"plain", errors.New("plain"), "", "plain"},
		{"nil", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeInvalidInput) {
				t.Error("Is(INVALID_INPUT) = true")
			}
			if tt.err != nil {
				if got := UserMessage(tt.err); got != tt.message {
					t.Errorf("UserMessage() = %q, want %q", got, tt.message)
				}
			}
		})
	}
}

func TestStreamError(t *testing.T) {
	cause := errors.New("truncated record")

	t.Run("with record", func(t *testing.T) {
		err := &StreamError{Offset: 42, Record: "XY", Err: cause}
		expected := "offset 42 (XY): truncated record"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without record", func(t *testing.T) {
		err := &StreamError{Offset: 7, Err: cause}
		expected := "offset 7: truncated record"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		err := Wrap(ErrCodeMalformedStream, &StreamError{Offset: 7, Err: cause}, "decode")
		if !Is(err, ErrCodeMalformedStream) {
			t.Error("Is(err, ErrCodeMalformedStream) = false")
		}
		if !errors.Is(err, cause) {
			t.Error("errors.Is(err, cause) = false")
		}
		var se *StreamError
		if !errors.As(err, &se) || se.Offset != 7 {
			t.Errorf("errors.As() offset = %v", se)
		}
		if se.Code() != ErrCodeMalformedStream {
			t.Errorf("Code() = %v", se.Code())
		}
	})
}
