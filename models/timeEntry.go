package models

import (
	"context"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"github.com/shopspring/decimal"
)

type TimeEntry struct {
	ID          int              `gorm:"primary_key" json:"id"`
	OrgId       string           `gorm:"index;not null" json:"org_id"`
	JobId       int              `gorm:"index;not null" json:"job_id"`
	WorkerId    int              `gorm:"index;not null" json:"worker_id"`
	WorkDate    time.Time        `gorm:"not null" json:"work_date"`
	Hours       decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"hours"`
	WorkType    WorkType         `gorm:"size:20;not null;default:'Regular'" json:"work_type"`
	HourlyRate  *decimal.Decimal `gorm:"type:decimal(20,4)" json:"hourly_rate"`
	IsBillable  *bool            `gorm:"not null;default:true" json:"is_billable"`
	Description string           `gorm:"type:text" json:"description"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTimeEntry struct {
	JobId       int              `json:"job_id" binding:"required"`
	WorkerId    int              `json:"worker_id" binding:"required"`
	WorkDate    time.Time        `json:"work_date" binding:"required"`
	Hours       decimal.Decimal  `json:"hours" binding:"required"`
	WorkType    WorkType         `json:"work_type"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
	IsBillable  *bool            `json:"is_billable"`
	Description string           `json:"description"`
}

// validate input for both create & update
func (input *NewTimeEntry) validate(ctx context.Context, orgId string) error {
	if err := validateJobExists(ctx, orgId, input.JobId); err != nil {
		return err
	}
	if !input.Hours.GreaterThan(decimal.Zero) {
		return utils.NewValidationError("hours", "must be greater than zero")
	}
	if input.WorkType == "" {
		input.WorkType = WorkTypeRegular
	}
	if input.HourlyRate != nil && input.HourlyRate.IsNegative() {
		return utils.NewValidationError("hourly_rate", "must not be negative")
	}
	return nil
}

// CreateTimeEntry inserts the entry and synchronously rebuilds the owning
// completion's variance figures in the same transaction.
func CreateTimeEntry(ctx context.Context, input *NewTimeEntry) (*TimeEntry, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, orgId); err != nil {
		return nil, err
	}

	isBillable := true
	if input.IsBillable != nil {
		isBillable = *input.IsBillable
	}

	entry := TimeEntry{
		OrgId:       orgId,
		JobId:       input.JobId,
		WorkerId:    input.WorkerId,
		WorkDate:    input.WorkDate,
		Hours:       input.Hours,
		WorkType:    input.WorkType,
		HourlyRate:  input.HourlyRate,
		IsBillable:  &isBillable,
		Description: input.Description,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := checkCompletionLock(ctx, tx, orgId, input.JobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := RecomputeJobCompletionVariance(ctx, tx, orgId, input.JobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedis[JobCompletion](input.JobId); err != nil {
		return nil, err
	}

	return &entry, nil
}

func UpdateTimeEntry(ctx context.Context, id int, input *NewTimeEntry) (*TimeEntry, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}

	existing, err := utils.FetchModel[TimeEntry](ctx, orgId, id)
	if err != nil {
		return nil, err
	}
	input.JobId = existing.JobId
	if err := input.validate(ctx, orgId); err != nil {
		return nil, err
	}

	isBillable := true
	if input.IsBillable != nil {
		isBillable = *input.IsBillable
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := checkCompletionLock(ctx, tx, orgId, existing.JobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	update := TimeEntry{ID: id, OrgId: orgId}
	if err := tx.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"WorkerId":    input.WorkerId,
		"WorkDate":    input.WorkDate,
		"Hours":       input.Hours,
		"WorkType":    input.WorkType,
		"HourlyRate":  input.HourlyRate,
		"IsBillable":  &isBillable,
		"Description": input.Description,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := RecomputeJobCompletionVariance(ctx, tx, orgId, existing.JobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedis[JobCompletion](existing.JobId); err != nil {
		return nil, err
	}

	return utils.FetchModel[TimeEntry](ctx, orgId, id)
}

// DeleteTimeEntry resolves the entry's job before removal so the recompute
// still targets the right completion after the row is gone.
func DeleteTimeEntry(ctx context.Context, id int) (*TimeEntry, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[TimeEntry](ctx, orgId, id)
	if err != nil {
		return nil, err
	}
	jobId := result.JobId

	db := config.GetDB()
	tx := db.Begin()

	if err := checkCompletionLock(ctx, tx, orgId, jobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := RecomputeJobCompletionVariance(ctx, tx, orgId, jobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedis[JobCompletion](jobId); err != nil {
		return nil, err
	}

	return result, nil
}

func ListTimeEntries(ctx context.Context, jobId int) ([]*TimeEntry, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	return utils.FetchModelsByJob[TimeEntry](ctx, orgId, jobId, "work_date ASC, id ASC")
}

// ListTimeEntriesPage is the cursor-paged variant; id-ordered so the cursor
// stays stable while the crew keeps logging.
func ListTimeEntriesPage(ctx context.Context, jobId int, afterId int, limit int) ([]*TimeEntry, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	return utils.FetchPageByJob[TimeEntry](ctx, orgId, jobId, afterId, limit)
}
