package models

import (
	"encoding/json"
	"errors"
)

type CompletionStatus string

const (
	CompletionStatusDraft     CompletionStatus = "Draft"
	CompletionStatusSubmitted CompletionStatus = "Submitted"
	CompletionStatusApproved  CompletionStatus = "Approved"
	CompletionStatusRejected  CompletionStatus = "Rejected"
)

// completionTransitions is the closed transition table for the completion
// state machine. Draft is entered only at creation; Approved is terminal.
// Rejected -> Submitted is the resubmission path and must stay open.
var completionTransitions = map[CompletionStatus][]CompletionStatus{
	CompletionStatusDraft:     {CompletionStatusSubmitted},
	CompletionStatusSubmitted: {CompletionStatusApproved, CompletionStatusRejected},
	CompletionStatusRejected:  {CompletionStatusSubmitted},
	CompletionStatusApproved:  {},
}

func (s CompletionStatus) CanTransitionTo(target CompletionStatus) bool {
	for _, allowed := range completionTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether field data for the job is locked. Only Approved
// is terminal; a Rejected completion is still being worked on.
func (s CompletionStatus) IsTerminal() bool {
	return s == CompletionStatusApproved
}

func (s CompletionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *CompletionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("completion status must be string")
	}
	statuses := map[string]CompletionStatus{
		"Draft":     CompletionStatusDraft,
		"Submitted": CompletionStatusSubmitted,
		"Approved":  CompletionStatusApproved,
		"Rejected":  CompletionStatusRejected,
	}
	var ok bool
	*s, ok = statuses[str]
	if !ok {
		return errors.New("invalid completion status")
	}
	return nil
}

type WorkType string

const (
	WorkTypeRegular  WorkType = "Regular"
	WorkTypeOvertime WorkType = "Overtime"
	WorkTypeTravel   WorkType = "Travel"
	WorkTypeOther    WorkType = "Other"
)

func (t WorkType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *WorkType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("work type must be string")
	}
	workTypes := map[string]WorkType{
		"Regular":  WorkTypeRegular,
		"Overtime": WorkTypeOvertime,
		"Travel":   WorkTypeTravel,
		"Other":    WorkTypeOther,
	}
	var ok bool
	*t, ok = workTypes[str]
	if !ok {
		return errors.New("invalid work type")
	}
	return nil
}

type PhotoType string

const (
	PhotoTypeBefore PhotoType = "Before"
	PhotoTypeDuring PhotoType = "During"
	PhotoTypeAfter  PhotoType = "After"
	PhotoTypeIssue  PhotoType = "Issue"
)

// IsValid guards inputs that arrive outside JSON binding (form fields).
func (t PhotoType) IsValid() bool {
	switch t {
	case PhotoTypeBefore, PhotoTypeDuring, PhotoTypeAfter, PhotoTypeIssue:
		return true
	}
	return false
}

func (t PhotoType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *PhotoType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("photo type must be string")
	}
	photoTypes := map[string]PhotoType{
		"Before": PhotoTypeBefore,
		"During": PhotoTypeDuring,
		"After":  PhotoTypeAfter,
		"Issue":  PhotoTypeIssue,
	}
	var ok bool
	*t, ok = photoTypes[str]
	if !ok {
		return errors.New("invalid photo type")
	}
	return nil
}

type ChecklistCategory string

const (
	ChecklistCategorySafety        ChecklistCategory = "Safety"
	ChecklistCategoryQuality       ChecklistCategory = "Quality"
	ChecklistCategoryCleanup       ChecklistCategory = "Cleanup"
	ChecklistCategoryDocumentation ChecklistCategory = "Documentation"
	ChecklistCategoryCustom        ChecklistCategory = "Custom"
)

// ChecklistCategories fixes the bucket order of the grouped checklist view.
var ChecklistCategories = []ChecklistCategory{
	ChecklistCategorySafety,
	ChecklistCategoryQuality,
	ChecklistCategoryCleanup,
	ChecklistCategoryDocumentation,
	ChecklistCategoryCustom,
}

func (c ChecklistCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c *ChecklistCategory) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.New("checklist category must be string")
	}
	categories := map[string]ChecklistCategory{
		"Safety":        ChecklistCategorySafety,
		"Quality":       ChecklistCategoryQuality,
		"Cleanup":       ChecklistCategoryCleanup,
		"Documentation": ChecklistCategoryDocumentation,
		"Custom":        ChecklistCategoryCustom,
	}
	var ok bool
	*c, ok = categories[str]
	if !ok {
		return errors.New("invalid checklist category")
	}
	return nil
}

type VarianceClassification string

const (
	VarianceOverBudget  VarianceClassification = "Over Budget"
	VarianceUnderBudget VarianceClassification = "Under Budget"
	VarianceOnTarget    VarianceClassification = "On Target"
)

func (v VarianceClassification) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

type JobStatus string

const (
	JobStatusScheduled  JobStatus = "Scheduled"
	JobStatusInProgress JobStatus = "In Progress"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusCancelled  JobStatus = "Cancelled"
)

// Completion lifecycle events published through the outbox.
type CompletionEventType string

const (
	CompletionEventSubmitted CompletionEventType = "completion.submitted"
	CompletionEventApproved  CompletionEventType = "completion.approved"
	CompletionEventRejected  CompletionEventType = "completion.rejected"
)
