package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidBreaks, "breaks must be strictly increasing at index %d", 3)

	if err.Code != ErrCodeInvalidBreaks {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidBreaks)
	}
	if err.Message != "breaks must be strictly increasing at index 3" {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if err.Cause != nil {
		t.Error("New should not set a cause")
	}

	want := "INVALID_BREAKS: breaks must be strictly increasing at index 3"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch %s", "coastline")

	if err.Cause != cause {
		t.Error("Wrap should preserve the cause")
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should satisfy errors.Is against its cause")
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidColors, "length mismatch")

	if !Is(err, ErrCodeInvalidColors) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeInvalidBreaks) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInvalidColors) {
		t.Error("Is should not match a plain error")
	}

	// Code survives wrapping with %w.
	wrapped := fmt.Errorf("building legend: %w", err)
	if !Is(wrapped, ErrCodeInvalidColors) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
}

func TestIsConfiguration(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid breaks", New(ErrCodeInvalidBreaks, "x"), true},
		{"invalid spacing", New(ErrCodeInvalidSpacing, "x"), true},
		{"invalid config", New(ErrCodeInvalidConfig, "x"), true},
		{"network", New(ErrCodeNetwork, "x"), false},
		{"not found", New(ErrCodeNotFound, "x"), false},
		{"internal", New(ErrCodeInternal, "x"), false},
		{"plain error", stderrors.New("x"), false},
		{"wrapped configuration", fmt.Errorf("outer: %w", New(ErrCodeInvalidColors, "x")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfiguration(tt.err); got != tt.want {
				t.Errorf("IsConfiguration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if code := GetCode(New(ErrCodeTimeout, "x")); code != ErrCodeTimeout {
		t.Errorf("GetCode = %s, want %s", code, ErrCodeTimeout)
	}
	if code := GetCode(stderrors.New("plain")); code != "" {
		t.Errorf("GetCode on plain error = %s, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidPalette, "unknown palette \"viridis9\"")
	if msg := UserMessage(err); msg != "unknown palette \"viridis9\"" {
		t.Errorf("UserMessage = %q", msg)
	}

	plain := stderrors.New("boom")
	if msg := UserMessage(plain); msg != "boom" {
		t.Errorf("UserMessage on plain error = %q", msg)
	}
}
