package models

import (
	"testing"

	"github.com/markahope-aag/hazardos-sub001/utils"
)

func checklistFixture() []*ChecklistItem {
	return []*ChecklistItem{
		{ID: 1, Category: ChecklistCategorySafety, ItemName: "Air clearance sampled", IsRequired: utils.NewTrue(), IsCompleted: utils.NewTrue()},
		{ID: 2, Category: ChecklistCategorySafety, ItemName: "PPE disposed", IsRequired: utils.NewTrue(), IsCompleted: utils.NewFalse()},
		{ID: 3, Category: ChecklistCategoryCleanup, ItemName: "Containment removed", IsRequired: utils.NewFalse(), IsCompleted: utils.NewTrue()},
		{ID: 4, Category: ChecklistCategoryDocumentation, ItemName: "Manifest signed", IsRequired: utils.NewTrue(), IsCompleted: utils.NewTrue()},
		{ID: 5, Category: ChecklistCategoryCustom, ItemName: "Client walkthrough", IsRequired: utils.NewFalse(), IsCompleted: utils.NewFalse()},
	}
}

func TestComputeChecklistProgress(t *testing.T) {
	progress := ComputeChecklistProgress(checklistFixture())

	if progress.Total != 5 {
		t.Errorf("total = %d, want 5", progress.Total)
	}
	if progress.CompletedCount != 3 {
		t.Errorf("completed = %d, want 3", progress.CompletedCount)
	}
	if progress.RequiredTotal != 3 {
		t.Errorf("required total = %d, want 3", progress.RequiredTotal)
	}
	if progress.RequiredCompletedCount != 2 {
		t.Errorf("required completed = %d, want 2", progress.RequiredCompletedCount)
	}
}

func TestComputeChecklistProgress_Empty(t *testing.T) {
	progress := ComputeChecklistProgress(nil)
	if progress.Total != 0 || progress.CompletedCount != 0 || progress.RequiredTotal != 0 {
		t.Errorf("empty progress not zeroed: %+v", progress)
	}
}

func TestGroupChecklistItems(t *testing.T) {
	grouped := GroupChecklistItems(checklistFixture())

	if len(grouped.Safety) != 2 {
		t.Errorf("safety = %d, want 2", len(grouped.Safety))
	}
	if len(grouped.Quality) != 0 {
		t.Errorf("quality = %d, want 0", len(grouped.Quality))
	}
	if len(grouped.Cleanup) != 1 {
		t.Errorf("cleanup = %d, want 1", len(grouped.Cleanup))
	}
	if len(grouped.Documentation) != 1 {
		t.Errorf("documentation = %d, want 1", len(grouped.Documentation))
	}
	if len(grouped.Custom) != 1 {
		t.Errorf("custom = %d, want 1", len(grouped.Custom))
	}
}

func TestGroupChecklistItems_DropsUnknownCategory(t *testing.T) {
	items := append(checklistFixture(), &ChecklistItem{
		ID:       6,
		Category: ChecklistCategory("Legacy"),
		ItemName: "Imported row",
	})
	grouped := GroupChecklistItems(items)

	total := len(grouped.Safety) + len(grouped.Quality) + len(grouped.Cleanup) +
		len(grouped.Documentation) + len(grouped.Custom)
	if total != 5 {
		t.Errorf("grouped total = %d, want 5 (unknown category dropped)", total)
	}
}
