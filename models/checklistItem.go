package models

import (
	"context"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

type ChecklistItem struct {
	ID               int               `gorm:"primary_key" json:"id"`
	OrgId            string            `gorm:"index;not null" json:"org_id"`
	JobId            int               `gorm:"index;not null" json:"job_id"`
	Category         ChecklistCategory `gorm:"size:20;not null" json:"category"`
	ItemName         string            `gorm:"size:255;not null" json:"item_name"`
	IsRequired       *bool             `gorm:"not null;default:false" json:"is_required"`
	IsCompleted      *bool             `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt      *time.Time        `json:"completed_at"`
	CompletedBy      *int              `json:"completed_by"`
	CompletionNotes  string            `gorm:"type:text" json:"completion_notes"`
	EvidencePhotoIds []int             `gorm:"serializer:json;type:text" json:"evidence_photo_ids"`
	SortOrder        int               `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type UpdateChecklistItemInput struct {
	ItemName         *string `json:"item_name"`
	CompletionNotes  *string `json:"completion_notes"`
	EvidencePhotoIds []int   `json:"evidence_photo_ids"`
}

type ChecklistProgress struct {
	CompletedCount         int `json:"completed_count"`
	RequiredCompletedCount int `json:"required_completed_count"`
	RequiredTotal          int `json:"required_total"`
	Total                  int `json:"total"`
}

type GroupedChecklist struct {
	Safety        []*ChecklistItem `json:"safety"`
	Quality       []*ChecklistItem `json:"quality"`
	Cleanup       []*ChecklistItem `json:"cleanup"`
	Documentation []*ChecklistItem `json:"documentation"`
	Custom        []*ChecklistItem `json:"custom"`
}

// InitializeChecklist instantiates the org's template into per-job rows.
// Idempotent: when items already exist for the job the existing set is
// returned untouched, template changes are not re-applied.
func InitializeChecklist(ctx context.Context, jobId int) ([]*ChecklistItem, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}
	if err := validateJobExists(ctx, orgId, jobId); err != nil {
		return nil, err
	}

	existing, err := ListChecklistItems(ctx, jobId)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	template, err := ListChecklistTemplate(ctx, orgId)
	if err != nil {
		return nil, err
	}
	if len(template) == 0 {
		return []*ChecklistItem{}, nil
	}

	items := make([]*ChecklistItem, 0, len(template))
	for _, t := range template {
		isRequired := t.IsRequired != nil && *t.IsRequired
		items = append(items, &ChecklistItem{
			OrgId:       orgId,
			JobId:       jobId,
			Category:    t.Category,
			ItemName:    t.ItemName,
			IsRequired:  &isRequired,
			IsCompleted: utils.NewFalse(),
			SortOrder:   t.SortOrder,
		})
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ToggleChecklistItem marks an item done or not done. Completing stamps
// completed_at/by with the acting user; un-completing clears both.
func ToggleChecklistItem(ctx context.Context, id int, completed bool, notes *string) (*ChecklistItem, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	userId, _, err := utils.RequireActingUser(ctx)
	if err != nil {
		return nil, err
	}

	item, err := utils.FetchModel[ChecklistItem](ctx, orgId, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"IsCompleted": completed,
	}
	if completed {
		now := time.Now().UTC()
		updates["CompletedAt"] = &now
		updates["CompletedBy"] = &userId
	} else {
		updates["CompletedAt"] = nil
		updates["CompletedBy"] = nil
	}
	if notes != nil {
		updates["CompletionNotes"] = *notes
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := checkCompletionLock(ctx, tx, orgId, item.JobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Model(&ChecklistItem{ID: id}).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return utils.FetchModel[ChecklistItem](ctx, orgId, id)
}

func UpdateChecklistItem(ctx context.Context, id int, input *UpdateChecklistItemInput) (*ChecklistItem, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}

	item, err := utils.FetchModel[ChecklistItem](ctx, orgId, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.ItemName != nil {
		updates["ItemName"] = *input.ItemName
	}
	if input.CompletionNotes != nil {
		updates["CompletionNotes"] = *input.CompletionNotes
	}
	if input.EvidencePhotoIds != nil {
		updates["EvidencePhotoIds"] = utils.UniqueSlice(input.EvidencePhotoIds)
	}
	if len(updates) == 0 {
		return item, nil
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := checkCompletionLock(ctx, tx, orgId, item.JobId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Model(&ChecklistItem{ID: id}).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return utils.FetchModel[ChecklistItem](ctx, orgId, id)
}

func ListChecklistItems(ctx context.Context, jobId int) ([]*ChecklistItem, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	return utils.FetchModelsByJob[ChecklistItem](ctx, orgId, jobId, "sort_order ASC, id ASC")
}

// GetChecklistProgress feeds the submission-readiness display. Submission
// itself is not gated on it; that policy belongs to the caller.
func GetChecklistProgress(ctx context.Context, jobId int) (*ChecklistProgress, error) {
	items, err := ListChecklistItems(ctx, jobId)
	if err != nil {
		return nil, err
	}
	return ComputeChecklistProgress(items), nil
}

func ComputeChecklistProgress(items []*ChecklistItem) *ChecklistProgress {
	progress := &ChecklistProgress{Total: len(items)}
	for _, item := range items {
		completed := item.IsCompleted != nil && *item.IsCompleted
		required := item.IsRequired != nil && *item.IsRequired
		if completed {
			progress.CompletedCount++
		}
		if required {
			progress.RequiredTotal++
			if completed {
				progress.RequiredCompletedCount++
			}
		}
	}
	return progress
}

// GroupChecklistItems buckets items into the five fixed categories. Items
// with an unrecognized category are dropped from the grouped view; they
// should arguably land in Custom instead, but the flat list still shows them.
func GroupChecklistItems(items []*ChecklistItem) *GroupedChecklist {
	grouped := &GroupedChecklist{}
	for _, item := range items {
		switch item.Category {
		case ChecklistCategorySafety:
			grouped.Safety = append(grouped.Safety, item)
		case ChecklistCategoryQuality:
			grouped.Quality = append(grouped.Quality, item)
		case ChecklistCategoryCleanup:
			grouped.Cleanup = append(grouped.Cleanup, item)
		case ChecklistCategoryDocumentation:
			grouped.Documentation = append(grouped.Documentation, item)
		case ChecklistCategoryCustom:
			grouped.Custom = append(grouped.Custom, item)
		}
	}
	return grouped
}
