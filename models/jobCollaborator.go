package models

import (
	"context"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

// JobCollaborator assigns a user to a job crew. Used for display and for
// routing review notifications; it does not gate writes.
type JobCollaborator struct {
	ID        int       `gorm:"primary_key" json:"id"`
	OrgId     string    `gorm:"index;not null" json:"org_id"`
	JobId     int       `gorm:"index:idx_job_collaborator,unique;not null" json:"job_id"`
	UserId    int       `gorm:"index:idx_job_collaborator,unique;not null" json:"user_id"`
	CrewRole  string    `gorm:"size:50" json:"crew_role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewJobCollaborator struct {
	JobId    int    `json:"job_id" binding:"required"`
	UserId   int    `json:"user_id" binding:"required"`
	CrewRole string `json:"crew_role"`
}

func CreateJobCollaborator(ctx context.Context, input *NewJobCollaborator) (*JobCollaborator, error) {
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
	if err := utils.ValidateResourceId[User](ctx, orgId, input.UserId); err != nil {
		return nil, err
	}

	collaborator := JobCollaborator{
		OrgId:    orgId,
		JobId:    input.JobId,
		UserId:   input.UserId,
		CrewRole: input.CrewRole,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&collaborator).Error; err != nil {
		return nil, err
	}
	return &collaborator, nil
}

func DeleteJobCollaborator(ctx context.Context, id int) (*JobCollaborator, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if _, _, err := utils.RequireActingUser(ctx); err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[JobCollaborator](ctx, orgId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func ListJobCollaborators(ctx context.Context, jobId int) ([]*JobCollaborator, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	return utils.FetchModelsByJob[JobCollaborator](ctx, orgId, jobId, "id ASC")
}
