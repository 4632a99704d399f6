package workflow

import (
	"context"
	"sync"

	"github.com/markahope-aag/hazardos-sub001/models"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

// CompletionSummary is the single-call payload behind the job completion
// screen: the completion record with its variance block, the full ledger,
// photos, and the grouped checklist with progress counts.
type CompletionSummary struct {
	Completion        *models.JobCompletion        `json:"completion"`
	TimeEntries       []*models.TimeEntry          `json:"time_entries"`
	MaterialUsage     []*models.MaterialUsageEntry `json:"material_usage"`
	Photos            []*models.CompletionPhoto    `json:"photos"`
	Checklist         *models.GroupedChecklist     `json:"checklist"`
	ChecklistProgress *models.ChecklistProgress    `json:"checklist_progress"`
	Collaborators     []*models.JobCollaborator    `json:"collaborators"`
}

// SummarizeCompletion loads the sections concurrently; each reads its own
// consistent snapshot, the screen refetches on mutation anyway.
func SummarizeCompletion(ctx context.Context, jobId int) (*CompletionSummary, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}

	completion, err := models.GetJobCompletionByJob(ctx, jobId)
	if err != nil {
		return nil, err
	}

	summary := &CompletionSummary{Completion: completion}
	errs := make([]error, 5)

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		summary.TimeEntries, errs[0] = models.ListTimeEntries(ctx, jobId)
	}()
	go func() {
		defer wg.Done()
		summary.MaterialUsage, errs[1] = models.ListMaterialUsage(ctx, jobId)
	}()
	go func() {
		defer wg.Done()
		summary.Photos, errs[2] = models.ListCompletionPhotos(ctx, jobId)
	}()
	go func() {
		defer wg.Done()
		var items []*models.ChecklistItem
		items, errs[3] = models.ListChecklistItems(ctx, jobId)
		if errs[3] == nil {
			summary.Checklist = models.GroupChecklistItems(items)
			summary.ChecklistProgress = models.ComputeChecklistProgress(items)
		}
	}()
	go func() {
		defer wg.Done()
		summary.Collaborators, errs[4] = models.ListJobCollaborators(ctx, jobId)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return summary, nil
}
