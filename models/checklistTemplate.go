package models

import (
	"context"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

// ChecklistTemplateItem is the organization-level default checklist. Items
// are copied into per-job ChecklistItem rows the first time a job's
// checklist is requested.
type ChecklistTemplateItem struct {
	ID         int               `gorm:"primary_key" json:"id"`
	OrgId      string            `gorm:"index;not null" json:"org_id"`
	Category   ChecklistCategory `gorm:"size:20;not null" json:"category"`
	ItemName   string            `gorm:"size:255;not null" json:"item_name"`
	IsRequired *bool             `gorm:"not null;default:false" json:"is_required"`
	SortOrder  int               `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewChecklistTemplateItem struct {
	Category   ChecklistCategory `json:"category" binding:"required"`
	ItemName   string            `json:"item_name" binding:"required"`
	IsRequired *bool             `json:"is_required"`
	SortOrder  int               `json:"sort_order"`
}

func CreateChecklistTemplateItem(ctx context.Context, input *NewChecklistTemplateItem) (*ChecklistTemplateItem, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}

	isRequired := false
	if input.IsRequired != nil {
		isRequired = *input.IsRequired
	}

	item := ChecklistTemplateItem{
		OrgId:      orgId,
		Category:   input.Category,
		ItemName:   input.ItemName,
		IsRequired: &isRequired,
		SortOrder:  input.SortOrder,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func ListChecklistTemplate(ctx context.Context, orgId string) ([]*ChecklistTemplateItem, error) {
	db := config.GetDB()
	var items []*ChecklistTemplateItem
	err := db.WithContext(ctx).
		Where("org_id = ?", orgId).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	return items, err
}
