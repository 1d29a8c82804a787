package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad template: %s", "x")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if want := "INVALID_INPUT: bad template: x"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(ErrCodeInternal, cause, "read layout")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap() should return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "INTERNAL_ERROR: read layout: disk on fire"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", NotFound("x"), ErrCodeNotFound, true},
		{"different code", NotFound("x"), ErrCodeInvalidInput, false},
		{"wrapped by fmt", fmt.Errorf("traverse: %w", NotFound("x")), ErrCodeNotFound, true},
		{"plain error", errors.New("x"), ErrCodeNotFound, false},
		{"nil", nil, ErrCodeNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(NotFound("x")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("x")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}
