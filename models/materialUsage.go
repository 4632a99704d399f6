package models

import (
	"context"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"github.com/shopspring/decimal"
)

type MaterialUsageEntry struct {
	ID                int              `gorm:"primary_key" json:"id"`
	OrgId             string           `gorm:"index;not null" json:"org_id"`
	JobId             int              `gorm:"index;not null" json:"job_id"`
	MaterialName      string           `gorm:"size:255;not null" json:"material_name"`
	MaterialType      string           `gorm:"size:255" json:"material_type"`
	QuantityEstimated decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"quantity_estimated"`
	QuantityUsed      decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"quantity_used"`
	Unit              string           `gorm:"size:50" json:"unit"`
	UnitCost          decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	TotalCost         decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	VarianceQuantity  decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"variance_quantity"`
	VariancePercent   *decimal.Decimal `gorm:"type:decimal(20,4)" json:"variance_percent"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMaterialUsageEntry struct {
	JobId             int             `json:"job_id" binding:"required"`
	MaterialName      string          `json:"material_name" binding:"required"`
	MaterialType      string          `json:"material_type"`
	QuantityEstimated decimal.Decimal `json:"quantity_estimated"`
	QuantityUsed      decimal.Decimal `json:"quantity_used"`
	Unit              string          `json:"unit"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
}

// IsVarianceNoteworthy applies the stricter per-material highlight threshold.
func (e *MaterialUsageEntry) IsVarianceNoteworthy() bool {
	return IsMaterialVarianceNoteworthy(e.VariancePercent)
}

func (input *NewMaterialUsageEntry) validate(ctx context.Context, orgId string) error {
	if err := validateJobExists(ctx, orgId, input.JobId); err != nil {
		return err
	}
	if input.QuantityUsed.IsNegative() || input.QuantityEstimated.IsNegative() {
		return utils.NewValidationError("quantity", "must not be negative")
	}
	if input.UnitCost.IsNegative() {
		return utils.NewValidationError("unit_cost", "must not be negative")
	}
	return nil
}

// derive fills total_cost and the per-entry variance figures. The percent is
// null when there is no usable estimate.
func (input *NewMaterialUsageEntry) derive() (totalCost decimal.Decimal, varianceQty decimal.Decimal, variancePct *decimal.Decimal) {
	totalCost = input.QuantityUsed.Mul(input.UnitCost)
	varianceQty = input.QuantityUsed.Sub(input.QuantityEstimated)
	variancePct = VariancePercent(varianceQty, input.QuantityEstimated)
	return
}

func CreateMaterialUsage(ctx context.Context, input *NewMaterialUsageEntry) (*MaterialUsageEntry, error) {
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

	totalCost, varianceQty, variancePct := input.derive()
	entry := MaterialUsageEntry{
		OrgId:             orgId,
		JobId:             input.JobId,
		MaterialName:      input.MaterialName,
		MaterialType:      input.MaterialType,
		QuantityEstimated: input.QuantityEstimated,
		QuantityUsed:      input.QuantityUsed,
		Unit:              input.Unit,
		UnitCost:          input.UnitCost,
		TotalCost:         totalCost,
		VarianceQuantity:  varianceQty,
		VariancePercent:   variancePct,
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

func UpdateMaterialUsage(ctx context.Context, id int, input *NewMaterialUsageEntry) (*MaterialUsageEntry, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}

	existing, err := utils.FetchModel[MaterialUsageEntry](ctx, orgId, id)
	if err != nil {
		return nil, err
	}
	input.JobId = existing.JobId
	if err := input.validate(ctx, orgId); err != nil {
		return nil, err
	}

	totalCost, varianceQty, variancePct := input.derive()

	db := config.GetDB()
	tx := db.Begin()

	if err := checkCompletionLock(ctx, tx, orgId, existing.JobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	update := MaterialUsageEntry{ID: id, OrgId: orgId}
	if err := tx.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"MaterialName":      input.MaterialName,
		"MaterialType":      input.MaterialType,
		"QuantityEstimated": input.QuantityEstimated,
		"QuantityUsed":      input.QuantityUsed,
		"Unit":              input.Unit,
		"UnitCost":          input.UnitCost,
		"TotalCost":         totalCost,
		"VarianceQuantity":  varianceQty,
		"VariancePercent":   variancePct,
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

	return utils.FetchModel[MaterialUsageEntry](ctx, orgId, id)
}

// DeleteMaterialUsage resolves the entry's job before removal so the
// recompute still targets the right completion after the row is gone.
func DeleteMaterialUsage(ctx context.Context, id int) (*MaterialUsageEntry, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[MaterialUsageEntry](ctx, orgId, id)
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

func ListMaterialUsage(ctx context.Context, jobId int) ([]*MaterialUsageEntry, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	return utils.FetchModelsByJob[MaterialUsageEntry](ctx, orgId, jobId, "material_name ASC, id ASC")
}
