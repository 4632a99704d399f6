package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/models"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"gorm.io/gorm"
)

// JobCompleter performs the job-side effect of an approval. Swappable so the
// transition logic can be exercised without a database.
type JobCompleter interface {
	MarkCompleted(ctx context.Context, tx *gorm.DB, orgId string, jobId int, endDate time.Time) error
}

type gormJobCompleter struct{}

func (gormJobCompleter) MarkCompleted(ctx context.Context, tx *gorm.DB, orgId string, jobId int, endDate time.Time) error {
	return models.MarkJobCompleted(ctx, tx, orgId, jobId, endDate)
}

var jobCompleter JobCompleter = gormJobCompleter{}

func SetJobCompleter(c JobCompleter) {
	if c == nil {
		jobCompleter = gormJobCompleter{}
		return
	}
	jobCompleter = c
}

type SubmitCompletionInput struct {
	Notes             *string `json:"notes"`
	IssuesEncountered *string `json:"issues_encountered"`
	Recommendations   *string `json:"recommendations"`
}

// apply folds the optional narrative fields into the transition's column
// update map. Absent fields leave the stored values untouched.
func (input *SubmitCompletionInput) apply(updates map[string]interface{}) {
	if input == nil {
		return
	}
	if input.Notes != nil {
		updates["FieldNotes"] = *input.Notes
	}
	if input.IssuesEncountered != nil {
		updates["IssuesEncountered"] = *input.IssuesEncountered
	}
	if input.Recommendations != nil {
		updates["Recommendations"] = *input.Recommendations
	}
}

type ReviewCompletionInput struct {
	ReviewNotes     *string `json:"review_notes"`
	RejectionReason *string `json:"rejection_reason"`
}

// transitionGuard serializes completion transitions per org when the guard
// flag is on. With the guard off two racing approvals are resolved by the
// status precondition inside the transaction instead.
func transitionGuard(ctx context.Context, orgId string, functionName string) (func(), error) {
	if !config.TransitionGuardEnabled() {
		return func() {}, nil
	}
	return utils.OrgLock(ctx, orgId, "completion-transition", "workflow", functionName)
}

func fetchForTransition(ctx context.Context, tx *gorm.DB, orgId string, jobId int) (*models.JobCompletion, error) {
	var completion models.JobCompletion
	err := tx.WithContext(ctx).
		Where("org_id = ? AND job_id = ?", orgId, jobId).
		First(&completion).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &completion, nil
}

// SubmitCompletion moves Draft or Rejected to Submitted. The variance block
// is rebuilt from the full ledger first so reviewers always see figures that
// match the entries at submission time.
func SubmitCompletion(ctx context.Context, jobId int, input *SubmitCompletionInput) (*models.JobCompletion, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	userId, _, err := utils.RequireActingUser(ctx)
	if err != nil {
		return nil, err
	}

	release, err := transitionGuard(ctx, orgId, "SubmitCompletion")
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	tx := db.Begin()

	completion, err := fetchForTransition(ctx, tx, orgId, jobId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !completion.Status.CanTransitionTo(models.CompletionStatusSubmitted) {
		tx.Rollback()
		return nil, &utils.InvalidTransitionError{
			JobId:     jobId,
			From:      string(completion.Status),
			Attempted: string(models.CompletionStatusSubmitted),
		}
	}

	before := *completion

	if _, err := models.RecomputeJobCompletionVariance(ctx, tx, orgId, jobId); err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"Status":      models.CompletionStatusSubmitted,
		"SubmittedAt": &now,
		"SubmittedBy": &userId,
	}
	input.apply(updates)
	if err := tx.WithContext(ctx).Model(&models.JobCompletion{}).
		Where("org_id = ? AND job_id = ?", orgId, jobId).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	result, err := fetchForTransition(ctx, tx, orgId, jobId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := models.CreateCompletionHistory(ctx, tx, orgId, "*SUBMIT*", result.ID, &before, result, "job completion submitted for review"); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := models.PublishCompletionEvent(ctx, tx, orgId, jobId, models.CompletionEventSubmitted, result); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedis[models.JobCompletion](jobId); err != nil {
		return nil, err
	}
	return result, nil
}

// ApproveCompletion moves Submitted to Approved, locks the field data, and
// marks the job itself completed in the same transaction.
func ApproveCompletion(ctx context.Context, jobId int, input *ReviewCompletionInput) (*models.JobCompletion, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	userId, _, err := utils.RequireActingUser(ctx)
	if err != nil {
		return nil, err
	}

	release, err := transitionGuard(ctx, orgId, "ApproveCompletion")
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	tx := db.Begin()

	completion, err := fetchForTransition(ctx, tx, orgId, jobId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !completion.Status.CanTransitionTo(models.CompletionStatusApproved) {
		tx.Rollback()
		return nil, &utils.InvalidTransitionError{
			JobId:     jobId,
			From:      string(completion.Status),
			Attempted: string(models.CompletionStatusApproved),
		}
	}

	before := *completion

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"Status":     models.CompletionStatusApproved,
		"ReviewedAt": &now,
		"ReviewedBy": &userId,
	}
	if input != nil && input.ReviewNotes != nil {
		updates["ReviewNotes"] = *input.ReviewNotes
	}
	if err := tx.WithContext(ctx).Model(&models.JobCompletion{}).
		Where("org_id = ? AND job_id = ?", orgId, jobId).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := jobCompleter.MarkCompleted(ctx, tx, orgId, jobId, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	result, err := fetchForTransition(ctx, tx, orgId, jobId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := models.CreateCompletionHistory(ctx, tx, orgId, "*APPROVE*", result.ID, &before, result, "job completion approved"); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := models.PublishCompletionEvent(ctx, tx, orgId, jobId, models.CompletionEventApproved, result); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedis[models.JobCompletion](jobId); err != nil {
		return nil, err
	}
	return result, nil
}

// RejectCompletion moves Submitted back to Rejected with a mandatory reason.
// The job row is untouched; the crew corrects the data and resubmits.
func RejectCompletion(ctx context.Context, jobId int, input *ReviewCompletionInput) (*models.JobCompletion, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	userId, _, err := utils.RequireActingUser(ctx)
	if err != nil {
		return nil, err
	}
	if input == nil || input.RejectionReason == nil || strings.TrimSpace(*input.RejectionReason) == "" {
		return nil, utils.NewValidationError("rejection_reason", "a rejection reason is required")
	}

	release, err := transitionGuard(ctx, orgId, "RejectCompletion")
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	tx := db.Begin()

	completion, err := fetchForTransition(ctx, tx, orgId, jobId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !completion.Status.CanTransitionTo(models.CompletionStatusRejected) {
		tx.Rollback()
		return nil, &utils.InvalidTransitionError{
			JobId:     jobId,
			From:      string(completion.Status),
			Attempted: string(models.CompletionStatusRejected),
		}
	}

	before := *completion

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"Status":          models.CompletionStatusRejected,
		"ReviewedAt":      &now,
		"ReviewedBy":      &userId,
		"RejectionReason": strings.TrimSpace(*input.RejectionReason),
	}
	if input.ReviewNotes != nil {
		updates["ReviewNotes"] = *input.ReviewNotes
	}
	if err := tx.WithContext(ctx).Model(&models.JobCompletion{}).
		Where("org_id = ? AND job_id = ?", orgId, jobId).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	result, err := fetchForTransition(ctx, tx, orgId, jobId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := models.CreateCompletionHistory(ctx, tx, orgId, "*REJECT*", result.ID, &before, result, "job completion rejected"); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := models.PublishCompletionEvent(ctx, tx, orgId, jobId, models.CompletionEventRejected, result); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedis[models.JobCompletion](jobId); err != nil {
		return nil, err
	}
	return result, nil
}
