package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/markahope-aag/hazardos-sub001/models"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"gorm.io/gorm"
)

// These tests are intentionally DB-free. They cover the transition rules and
// the precondition checks that run before any database work; full DB
// integration tests need a MySQL + Redis environment.

type fakeJobCompleter struct {
	mu    sync.Mutex
	calls []int
}

func (f *fakeJobCompleter) MarkCompleted(ctx context.Context, tx *gorm.DB, orgId string, jobId int, endDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, jobId)
	return nil
}

func actingUserContext() context.Context {
	ctx := utils.SetOrgIdInContext(context.Background(), "org-test")
	ctx = utils.SetUserIdInContext(ctx, 7)
	ctx = utils.SetUserNameInContext(ctx, "tester")
	return ctx
}

func TestSetJobCompleter_NilRestoresDefault(t *testing.T) {
	fake := &fakeJobCompleter{}
	SetJobCompleter(fake)
	if _, ok := jobCompleter.(*fakeJobCompleter); !ok {
		t.Fatal("fake completer not installed")
	}
	SetJobCompleter(nil)
	if _, ok := jobCompleter.(gormJobCompleter); !ok {
		t.Fatal("nil should restore the default completer")
	}
}

func TestSubmitCompletion_RequiresOrg(t *testing.T) {
	_, err := SubmitCompletion(context.Background(), 1, nil)
	if !errors.Is(err, utils.ErrorUnauthorized) {
		t.Errorf("got %v, want unauthorized", err)
	}
}

func TestSubmitCompletion_RequiresActingUser(t *testing.T) {
	ctx := utils.SetOrgIdInContext(context.Background(), "org-test")
	_, err := SubmitCompletion(ctx, 1, nil)
	if !errors.Is(err, utils.ErrorUnauthorized) {
		t.Errorf("got %v, want unauthorized", err)
	}
}

func TestRejectCompletion_RequiresReason(t *testing.T) {
	ctx := actingUserContext()

	cases := []*ReviewCompletionInput{
		nil,
		{},
		{RejectionReason: strPtr("")},
		{RejectionReason: strPtr("   ")},
	}
	for i, input := range cases {
		_, err := RejectCompletion(ctx, 1, input)
		var validation *utils.ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("case %d: got %v, want validation error", i, err)
			continue
		}
		if validation.Field != "rejection_reason" {
			t.Errorf("case %d: field = %s, want rejection_reason", i, validation.Field)
		}
	}
}

func TestSubmitCompletionInput_Apply(t *testing.T) {
	var nilInput *SubmitCompletionInput
	updates := map[string]interface{}{}
	nilInput.apply(updates)
	if len(updates) != 0 {
		t.Fatalf("nil input must not add columns, got %v", updates)
	}

	input := &SubmitCompletionInput{
		Notes:             strPtr("done"),
		IssuesEncountered: strPtr("asbestos behind drywall"),
		Recommendations:   strPtr("schedule air test"),
	}
	input.apply(updates)
	if updates["FieldNotes"] != "done" {
		t.Errorf("FieldNotes = %v", updates["FieldNotes"])
	}
	if updates["IssuesEncountered"] != "asbestos behind drywall" {
		t.Errorf("IssuesEncountered = %v", updates["IssuesEncountered"])
	}
	if updates["Recommendations"] != "schedule air test" {
		t.Errorf("Recommendations = %v", updates["Recommendations"])
	}

	// absent fields leave the map untouched
	partial := map[string]interface{}{}
	(&SubmitCompletionInput{Notes: strPtr("n")}).apply(partial)
	if _, ok := partial["IssuesEncountered"]; ok {
		t.Error("unset issues field must not be written")
	}
	if _, ok := partial["Recommendations"]; ok {
		t.Error("unset recommendations field must not be written")
	}
}

func TestApproveCompletion_RequiresOrg(t *testing.T) {
	_, err := ApproveCompletion(context.Background(), 1, nil)
	if !errors.Is(err, utils.ErrorUnauthorized) {
		t.Errorf("got %v, want unauthorized", err)
	}
}

func TestTransitionGuard_DisabledIsNoop(t *testing.T) {
	t.Setenv("TRANSITION_GUARD", "off")

	release, err := transitionGuard(context.Background(), "org-test", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// must be callable without a lock backend
	release()
}

func TestTransitionTargets_MatchWorkflowOperations(t *testing.T) {
	// Submit is reachable from Draft and Rejected, review ops only from Submitted.
	if !models.CompletionStatusDraft.CanTransitionTo(models.CompletionStatusSubmitted) {
		t.Error("Draft must allow submit")
	}
	if !models.CompletionStatusRejected.CanTransitionTo(models.CompletionStatusSubmitted) {
		t.Error("Rejected must allow resubmission")
	}
	if models.CompletionStatusDraft.CanTransitionTo(models.CompletionStatusApproved) {
		t.Error("Draft must not allow direct approval")
	}
	if models.CompletionStatusApproved.CanTransitionTo(models.CompletionStatusSubmitted) {
		t.Error("Approved is terminal")
	}
	if models.CompletionStatusRejected.CanTransitionTo(models.CompletionStatusApproved) {
		t.Error("Rejected must be resubmitted before approval")
	}
}

func strPtr(s string) *string {
	return &s
}
