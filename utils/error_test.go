package utils

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestInvalidTransitionError_Message(t *testing.T) {
	err := &InvalidTransitionError{JobId: 42, From: "Draft", Attempted: "Approved"}
	msg := err.Error()
	for _, want := range []string{"Draft", "Approved", "42"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestInvalidTransitionError_MatchesViaAs(t *testing.T) {
	var target *InvalidTransitionError
	wrapped := fmt.Errorf("submit failed: %w", &InvalidTransitionError{JobId: 1, From: "Approved", Attempted: "Submitted"})
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As failed on wrapped transition error")
	}
	if target.From != "Approved" {
		t.Errorf("From = %s, want Approved", target.From)
	}
}

func TestValidationError_FieldAndReason(t *testing.T) {
	err := NewValidationError("hours", "must be greater than zero")

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatal("NewValidationError should yield *ValidationError")
	}
	if validation.Field != "hours" {
		t.Errorf("Field = %s, want hours", validation.Field)
	}
	if !strings.Contains(err.Error(), "greater than zero") {
		t.Errorf("message %q missing reason", err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(ErrorRecordNotFound) {
		t.Error("direct sentinel should match")
	}
	if !IsNotFound(fmt.Errorf("fetch: %w", ErrorRecordNotFound)) {
		t.Error("wrapped sentinel should match")
	}
	if IsNotFound(errors.New("record not found")) {
		t.Error("unrelated error with same text must not match")
	}
}

func TestStorageReleaseWarning_Unwrap(t *testing.T) {
	cause := errors.New("object locked")
	warning := &StorageReleaseWarning{Locator: "org1/completion-photos/a.jpg", Err: cause}

	if !errors.Is(warning, cause) {
		t.Error("warning should unwrap to its cause")
	}
	if !strings.Contains(warning.Error(), "a.jpg") {
		t.Errorf("message %q missing locator", warning.Error())
	}
}
