package models

import (
	"context"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"gorm.io/gorm"
)

// History records completion workflow transitions for audit. One row per
// transition, written inside the transition's transaction.
type History struct {
	ID            int       `gorm:"primary_key" json:"id"`
	OrgId         string    `gorm:"index;not null" json:"org_id"`
	ActionType    string    `gorm:"size:20;not null" json:"action_type"`
	Before        string    `gorm:"type:text" json:"before"`
	After         string    `gorm:"type:text" json:"after"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	ReferenceID   int       `gorm:"index" json:"reference_id"`
	ReferenceType string    `gorm:"size:255" json:"reference_type"`
	UserId        int       `gorm:"index;not null" json:"user_id"`
	UserName      string    `gorm:"size:100" json:"user_name"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func createHistory(ctx context.Context, tx *gorm.DB, orgId string, actionType string, referenceId int, referenceType string, before interface{}, after interface{}, description string) error {

	userId, userName, err := utils.RequireActingUser(ctx)
	if err != nil {
		return err
	}

	var beforeJSON, afterJSON string
	if before != nil {
		beforeJSON, err = utils.MarshalToJSON(before)
		if err != nil {
			return err
		}
	}
	if after != nil {
		afterJSON, err = utils.MarshalToJSON(after)
		if err != nil {
			return err
		}
	}

	history := History{
		OrgId:         orgId,
		ActionType:    actionType,
		Before:        beforeJSON,
		After:         afterJSON,
		Description:   description,
		ReferenceID:   referenceId,
		ReferenceType: referenceType,
		UserId:        userId,
		UserName:      userName,
	}
	return tx.WithContext(ctx).Create(&history).Error
}

// CreateCompletionHistory is the audit hook for the completion workflow
// transitions; it rides the caller's transaction.
func CreateCompletionHistory(ctx context.Context, tx *gorm.DB, orgId string, actionType string, completionId int, before interface{}, after interface{}, description string) error {
	return createHistory(ctx, tx, orgId, actionType, completionId, "job_completions", before, after, description)
}

func ListHistories(ctx context.Context, referenceType string, referenceId int) ([]*History, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}

	var results []*History
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("org_id = ? AND reference_type = ? AND reference_id = ?", orgId, referenceType, referenceId).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}
