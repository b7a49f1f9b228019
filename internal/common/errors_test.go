package common

import (
	"errors"
	"testing"
)

func TestUserError(t *testing.T) {
	wrapped := NewUserError("failed to set up logging", ErrInvalidConfig)

	if !errors.Is(wrapped, ErrInvalidConfig) {
		t.Errorf("UserError must unwrap to its cause, got %v", wrapped)
	}
	want := "failed to set up logging: " + ErrInvalidConfig.Error()
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}

	bare := &UserError{UserMessage: "nothing to report"}
	if bare.Error() != "nothing to report" {
		t.Errorf("Error() without cause = %q", bare.Error())
	}
}
