package models

import (
	"encoding/json"
	"testing"
)

func TestCompletionStatusTransitionTable(t *testing.T) {
	statuses := []CompletionStatus{
		CompletionStatusDraft,
		CompletionStatusSubmitted,
		CompletionStatusApproved,
		CompletionStatusRejected,
	}

	allowed := map[[2]CompletionStatus]bool{
		{CompletionStatusDraft, CompletionStatusSubmitted}:     true,
		{CompletionStatusSubmitted, CompletionStatusApproved}:  true,
		{CompletionStatusSubmitted, CompletionStatusRejected}:  true,
		{CompletionStatusRejected, CompletionStatusSubmitted}:  true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]CompletionStatus{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCompletionStatusIsTerminal(t *testing.T) {
	if !CompletionStatusApproved.IsTerminal() {
		t.Error("Approved should be terminal")
	}
	for _, s := range []CompletionStatus{CompletionStatusDraft, CompletionStatusSubmitted, CompletionStatusRejected} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestCompletionStatusUnmarshal_RejectsUnknown(t *testing.T) {
	var s CompletionStatus
	if err := json.Unmarshal([]byte(`"Archived"`), &s); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := json.Unmarshal([]byte(`"Submitted"`), &s); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if s != CompletionStatusSubmitted {
		t.Errorf("got %s, want Submitted", s)
	}
}

func TestWorkTypeUnmarshal_RejectsUnknown(t *testing.T) {
	var w WorkType
	if err := json.Unmarshal([]byte(`"Weekend"`), &w); err == nil {
		t.Error("expected error for unknown work type")
	}
	if err := json.Unmarshal([]byte(`"Overtime"`), &w); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPhotoTypeIsValid(t *testing.T) {
	for _, valid := range []PhotoType{PhotoTypeBefore, PhotoTypeDuring, PhotoTypeAfter, PhotoTypeIssue} {
		if !valid.IsValid() {
			t.Errorf("%s should be valid", valid)
		}
	}
	// form fields bypass UnmarshalJSON, so arbitrary strings must fail here
	for _, invalid := range []PhotoType{"", "during", "Selfie"} {
		if invalid.IsValid() {
			t.Errorf("%q should be invalid", invalid)
		}
	}
}

func TestChecklistCategoryUnmarshal_RejectsUnknown(t *testing.T) {
	var c ChecklistCategory
	if err := json.Unmarshal([]byte(`"Paperwork"`), &c); err == nil {
		t.Error("expected error for unknown category")
	}
	for _, name := range []string{"Safety", "Quality", "Cleanup", "Documentation", "Custom"} {
		if err := json.Unmarshal([]byte(`"`+name+`"`), &c); err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
	}
}
