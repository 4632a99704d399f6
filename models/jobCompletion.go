package models

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompletionEstimate holds the caller-settable figures, copied from the job
// at creation time and never silently overwritten. Updatable only in Draft.
type CompletionEstimate struct {
	EstimatedHours        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"estimated_hours"`
	EstimatedMaterialCost decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"estimated_material_cost"`
	EstimatedTotal        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"estimated_total"`
}

// CompletionActuals is populated solely by variance recomputation. Callers
// can never set these fields directly.
type CompletionActuals struct {
	ActualHours          decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"actual_hours"`
	ActualTotal          decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"actual_total"`
	HoursVariance        decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"hours_variance"`
	HoursVariancePercent *decimal.Decimal `gorm:"type:decimal(20,4)" json:"hours_variance_percent"`
	CostVariance         decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"cost_variance"`
	CostVariancePercent  *decimal.Decimal `gorm:"type:decimal(20,4)" json:"cost_variance_percent"`
}

type JobCompletion struct {
	ID     int              `gorm:"primary_key" json:"id"`
	OrgId  string           `gorm:"index;not null" json:"org_id"`
	JobId  int              `gorm:"uniqueIndex;not null" json:"job_id"`
	Status CompletionStatus `gorm:"size:20;not null;default:'Draft'" json:"status"`

	Estimate CompletionEstimate `gorm:"embedded" json:"estimate"`
	Actuals  CompletionActuals  `gorm:"embedded" json:"actuals"`

	FieldNotes        string `gorm:"type:text" json:"field_notes"`
	IssuesEncountered string `gorm:"type:text" json:"issues_encountered"`
	Recommendations   string `gorm:"type:text" json:"recommendations"`

	CustomerSigned   *bool      `gorm:"not null;default:false" json:"customer_signed"`
	CustomerSignedAt *time.Time `json:"customer_signed_at"`

	SubmittedAt *time.Time `json:"submitted_at"`
	SubmittedBy *int       `json:"submitted_by"`

	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewedBy      *int       `json:"reviewed_by"`
	ReviewNotes     string     `gorm:"type:text" json:"review_notes"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewJobCompletion struct {
	JobId                 int              `json:"job_id" binding:"required"`
	EstimatedHours        *decimal.Decimal `json:"estimated_hours"`
	EstimatedMaterialCost *decimal.Decimal `json:"estimated_material_cost"`
	EstimatedTotal        *decimal.Decimal `json:"estimated_total"`
}

type UpdateJobCompletionInput struct {
	FieldNotes        *string `json:"field_notes"`
	IssuesEncountered *string `json:"issues_encountered"`
	Recommendations   *string `json:"recommendations"`
	CustomerSigned    *bool   `json:"customer_signed"`

	// Estimate overrides, accepted only while the completion is in Draft.
	EstimatedHours        *decimal.Decimal `json:"estimated_hours"`
	EstimatedMaterialCost *decimal.Decimal `json:"estimated_material_cost"`
	EstimatedTotal        *decimal.Decimal `json:"estimated_total"`
}

// CreateJobCompletion is idempotent: a second call for the same job returns
// the existing record unchanged. The unique index on job_id turns a
// concurrent double-create into a duplicate-key error we resolve by reading
// the winner's row.
func CreateJobCompletion(ctx context.Context, input *NewJobCompletion) (*JobCompletion, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}

	if err := validateJobExists(ctx, orgId, input.JobId); err != nil {
		return nil, err
	}

	if existing, err := GetJobCompletionByJob(ctx, input.JobId); err == nil {
		return existing, nil
	} else if !utils.IsNotFound(err) {
		return nil, err
	}

	job, err := GetJob(ctx, input.JobId)
	if err != nil {
		return nil, err
	}

	completion := JobCompletion{
		OrgId:  orgId,
		JobId:  input.JobId,
		Status: CompletionStatusDraft,
		Estimate: CompletionEstimate{
			EstimatedHours:        utils.DereferencePtr(input.EstimatedHours, job.EstimatedDurationHours),
			EstimatedMaterialCost: utils.DereferencePtr(input.EstimatedMaterialCost),
			EstimatedTotal:        utils.DereferencePtr(input.EstimatedTotal, job.ContractAmount),
		},
		CustomerSigned: utils.NewFalse(),
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&completion).Error; err != nil {
		tx.Rollback()
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			// lost the race; the other writer's row is the one record for this job
			return GetJobCompletionByJob(ctx, input.JobId)
		}
		return nil, err
	}

	if err := linkCompletionToJob(ctx, tx, orgId, input.JobId, completion.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	// initial recompute; all zeros/nulls until the ledger has entries
	recomputed, err := RecomputeJobCompletionVariance(ctx, tx, orgId, input.JobId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := createHistory(ctx, tx, orgId, "*CREATE*", completion.ID, "job_completions", nil, recomputed, "job completion created"); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedis[JobCompletion](input.JobId); err != nil {
		return nil, err
	}

	return recomputed, nil
}

// GetJobCompletionByJob fetches the one completion record for a job,
// redis-cached, keyed by job id.
func GetJobCompletionByJob(ctx context.Context, jobId int) (*JobCompletion, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}

	cached, err := utils.RetrieveRedis[JobCompletion](jobId)
	if err != nil {
		return nil, err
	}
	if cached != nil && cached.OrgId == orgId {
		return cached, nil
	}

	db := config.GetDB()
	var result JobCompletion
	if err := db.WithContext(ctx).Where("org_id = ? AND job_id = ?", orgId, jobId).First(&result).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := utils.StoreRedis[JobCompletion](&result, jobId); err != nil {
		return nil, err
	}
	return &result, nil
}

// fetchJobCompletionForUpdate reads the row inside a transaction, bypassing
// the cache.
func fetchJobCompletionForUpdate(ctx context.Context, tx *gorm.DB, orgId string, jobId int) (*JobCompletion, error) {
	var result JobCompletion
	if err := tx.WithContext(ctx).Where("org_id = ? AND job_id = ?", orgId, jobId).First(&result).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

// UpdateJobCompletion covers the narrative fields (allowed at any status),
// the draft-only estimate overrides, and the one-shot customer signature.
func UpdateJobCompletion(ctx context.Context, jobId int, input *UpdateJobCompletionInput) (*JobCompletion, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}

	completion, err := GetJobCompletionByJob(ctx, jobId)
	if err != nil {
		return nil, err
	}

	estimateTouched := input.EstimatedHours != nil || input.EstimatedMaterialCost != nil || input.EstimatedTotal != nil
	if estimateTouched && completion.Status != CompletionStatusDraft {
		return nil, utils.NewValidationError("estimate", "estimates can only be changed while the completion is in Draft")
	}

	updates := map[string]interface{}{}
	if input.FieldNotes != nil {
		updates["FieldNotes"] = *input.FieldNotes
	}
	if input.IssuesEncountered != nil {
		updates["IssuesEncountered"] = *input.IssuesEncountered
	}
	if input.Recommendations != nil {
		updates["Recommendations"] = *input.Recommendations
	}
	if input.EstimatedHours != nil {
		updates["EstimatedHours"] = *input.EstimatedHours
	}
	if input.EstimatedMaterialCost != nil {
		updates["EstimatedMaterialCost"] = *input.EstimatedMaterialCost
	}
	if input.EstimatedTotal != nil {
		updates["EstimatedTotal"] = *input.EstimatedTotal
	}
	if input.CustomerSigned != nil {
		updates["CustomerSigned"] = *input.CustomerSigned
		alreadySigned := completion.CustomerSigned != nil && *completion.CustomerSigned
		if *input.CustomerSigned && !alreadySigned {
			// signature timestamp is stamped exactly once
			now := time.Now().UTC()
			updates["CustomerSignedAt"] = &now
		}
	}
	if len(updates) == 0 {
		return completion, nil
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Model(&JobCompletion{}).
		Where("org_id = ? AND job_id = ?", orgId, jobId).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var result *JobCompletion
	if estimateTouched {
		// estimates feed the variance figures; rebuild them in the same tx
		result, err = RecomputeJobCompletionVariance(ctx, tx, orgId, jobId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		result, err = fetchJobCompletionForUpdate(ctx, tx, orgId, jobId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := utils.RemoveRedis[JobCompletion](jobId); err != nil {
		return nil, err
	}
	return result, nil
}

// checkCompletionLock rejects ledger/photo/checklist mutations once the
// parent completion is terminal. A job with no completion yet is open.
func checkCompletionLock(ctx context.Context, tx *gorm.DB, orgId string, jobId int) error {
	var status CompletionStatus
	err := tx.WithContext(ctx).Model(&JobCompletion{}).
		Where("org_id = ? AND job_id = ?", orgId, jobId).
		Select("status").Scan(&status).Error
	if err != nil {
		return err
	}
	if status.IsTerminal() {
		return utils.NewValidationError("status", "job completion is approved; field data is locked")
	}
	return nil
}

type ledgerAggregates struct {
	Hours        decimal.Decimal `gorm:"column:hours"`
	LaborCost    decimal.Decimal `gorm:"column:labor_cost"`
	MaterialCost decimal.Decimal `gorm:"column:material_cost"`
}

// RecomputeJobCompletionVariance recalculates the derived block from the
// full current ledger. It is deliberately total rather than incremental:
// concurrent writers converge to the same result regardless of interleaving,
// and any prior inconsistency self-heals on the next write.
// No-op when the job has no completion record yet.
//
// Runs inside the caller's transaction and must not touch the cache: under
// READ COMMITTED a concurrent read between an in-tx invalidation and the
// commit would re-cache the pre-commit row. Callers invalidate with
// RemoveRedis after Commit.
func RecomputeJobCompletionVariance(ctx context.Context, tx *gorm.DB, orgId string, jobId int) (*JobCompletion, error) {
	completion, err := fetchJobCompletionForUpdate(ctx, tx, orgId, jobId)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var agg ledgerAggregates
	err = tx.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(hours), 0) AS hours,
			COALESCE(SUM(CASE WHEN hourly_rate IS NOT NULL THEN hours * hourly_rate ELSE 0 END), 0) AS labor_cost
		FROM time_entries
		WHERE org_id = ? AND job_id = ?`, orgId, jobId).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	err = tx.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_cost), 0) AS material_cost
		FROM material_usage_entries
		WHERE org_id = ? AND job_id = ?`, orgId, jobId).
		Scan(&agg.MaterialCost).Error
	if err != nil {
		return nil, err
	}

	result := ComputeVariance(VarianceInput{
		EstimatedHours:     completion.Estimate.EstimatedHours,
		EstimatedTotal:     completion.Estimate.EstimatedTotal,
		ActualHours:        agg.Hours,
		ActualLaborCost:    agg.LaborCost,
		ActualMaterialCost: agg.MaterialCost,
	})

	err = tx.WithContext(ctx).Model(&JobCompletion{}).
		Where("org_id = ? AND job_id = ?", orgId, jobId).
		Updates(map[string]interface{}{
			"ActualHours":          result.ActualHours,
			"ActualTotal":          result.ActualTotal,
			"HoursVariance":        result.HoursVariance,
			"HoursVariancePercent": result.HoursVariancePercent,
			"CostVariance":         result.CostVariance,
			"CostVariancePercent":  result.CostVariancePercent,
		}).Error
	if err != nil {
		return nil, err
	}

	completion.Actuals = CompletionActuals{
		ActualHours:          result.ActualHours,
		ActualTotal:          result.ActualTotal,
		HoursVariance:        result.HoursVariance,
		HoursVariancePercent: result.HoursVariancePercent,
		CostVariance:         result.CostVariance,
		CostVariancePercent:  result.CostVariancePercent,
	}
	return completion, nil
}
