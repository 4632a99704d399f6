package models

import (
	"context"
	"time"

	"github.com/markahope-aag/hazardos-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Job is owned by the broader CRM subsystem; this service only reads the
// estimate figures at completion creation and writes status/actual_end_date
// on approval.
type Job struct {
	ID                     int             `gorm:"primary_key" json:"id"`
	OrgId                  string          `gorm:"index;not null" json:"org_id"`
	CustomerId             int             `gorm:"index" json:"customer_id"`
	JobNumber              string          `gorm:"size:255" json:"job_number"`
	Status                 JobStatus       `gorm:"size:20;not null;default:'Scheduled'" json:"status"`
	EstimatedDurationHours decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"estimated_duration_hours"`
	ContractAmount         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"contract_amount"`
	ScheduledDate          *time.Time      `json:"scheduled_date"`
	ActualEndDate          *time.Time      `json:"actual_end_date"`
	CompletionId           *int            `gorm:"index" json:"completion_id"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetJob(ctx context.Context, id int) (*Job, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	return utils.FetchModel[Job](ctx, orgId, id)
}

// MarkJobCompleted is the approval side effect: job.status=Completed and
// actual_end_date stamped. Runs inside the approval transaction.
func MarkJobCompleted(ctx context.Context, tx *gorm.DB, orgId string, jobId int, endDate time.Time) error {
	return tx.WithContext(ctx).Model(&Job{}).
		Where("org_id = ? AND id = ?", orgId, jobId).
		Updates(map[string]interface{}{
			"Status":        JobStatusCompleted,
			"ActualEndDate": &endDate,
		}).Error
}

// linkCompletionToJob records the back-reference the first time a completion
// is created for the job.
func linkCompletionToJob(ctx context.Context, tx *gorm.DB, orgId string, jobId int, completionId int) error {
	return tx.WithContext(ctx).Model(&Job{}).
		Where("org_id = ? AND id = ?", orgId, jobId).
		Update("CompletionId", completionId).Error
}

func validateJobExists(ctx context.Context, orgId string, jobId int) error {
	if err := utils.ValidateResourceId[Job](ctx, orgId, jobId); err != nil {
		return utils.ErrorRecordNotFound
	}
	return nil
}
