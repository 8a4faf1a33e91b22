package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "provider.id",
		Message: "unknown provider",
	}

	expected := "config error in provider.id: unknown provider"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConfigErrorNoField(t *testing.T) {
	err := NewConfigError("", "failed to load config")

	expected := "config error: failed to load config"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("field", "message")
	if err.Field != "field" {
		t.Errorf("Field = %q, want %q", err.Field, "field")
	}
	if err.Message != "message" {
		t.Errorf("Message = %q, want %q", err.Message, "message")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "run",
		Err:     underlyingErr,
	}

	expected := "command run failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("run", underlyingErr)

	if err.Unwrap() != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), underlyingErr)
	}

	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}
