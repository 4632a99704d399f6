package models

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeVariance_OverEstimate(t *testing.T) {
	result := ComputeVariance(VarianceInput{
		EstimatedHours:     dec("24"),
		EstimatedTotal:     dec("5000"),
		ActualHours:        dec("30"),
		ActualLaborCost:    dec("3000"),
		ActualMaterialCost: dec("2500"),
	})

	if !result.HoursVariance.Equal(dec("6")) {
		t.Errorf("hours variance = %s, want 6", result.HoursVariance)
	}
	if result.HoursVariancePercent == nil || !result.HoursVariancePercent.Equal(dec("25")) {
		t.Errorf("hours variance percent = %v, want 25", result.HoursVariancePercent)
	}
	if !result.ActualTotal.Equal(dec("5500")) {
		t.Errorf("actual total = %s, want 5500", result.ActualTotal)
	}
	if !result.CostVariance.Equal(dec("500")) {
		t.Errorf("cost variance = %s, want 500", result.CostVariance)
	}
	if result.CostVariancePercent == nil || !result.CostVariancePercent.Equal(dec("10")) {
		t.Errorf("cost variance percent = %v, want 10", result.CostVariancePercent)
	}
}

func TestComputeVariance_UnderEstimate(t *testing.T) {
	result := ComputeVariance(VarianceInput{
		EstimatedHours:     dec("40"),
		EstimatedTotal:     dec("10000"),
		ActualHours:        dec("32"),
		ActualLaborCost:    dec("4000"),
		ActualMaterialCost: dec("3000"),
	})

	if !result.HoursVariance.Equal(dec("-8")) {
		t.Errorf("hours variance = %s, want -8", result.HoursVariance)
	}
	if result.HoursVariancePercent == nil || !result.HoursVariancePercent.Equal(dec("-20")) {
		t.Errorf("hours variance percent = %v, want -20", result.HoursVariancePercent)
	}
	if !result.CostVariance.Equal(dec("-3000")) {
		t.Errorf("cost variance = %s, want -3000", result.CostVariance)
	}
	if result.CostVariancePercent == nil || !result.CostVariancePercent.Equal(dec("-30")) {
		t.Errorf("cost variance percent = %v, want -30", result.CostVariancePercent)
	}
}

func TestVariancePercent_ZeroOrNegativeEstimate_IsNull(t *testing.T) {
	if got := VariancePercent(dec("10"), decimal.Zero); got != nil {
		t.Errorf("percent with zero estimate = %s, want nil", got)
	}
	if got := VariancePercent(dec("10"), dec("-5")); got != nil {
		t.Errorf("percent with negative estimate = %s, want nil", got)
	}
}

func TestVariancePercent_RoundsToTwoPlaces(t *testing.T) {
	got := VariancePercent(dec("1"), dec("3"))
	if got == nil || !got.Equal(dec("33.33")) {
		t.Errorf("percent = %v, want 33.33", got)
	}
}

func TestComputeVariance_ZeroEstimates_PercentsNull(t *testing.T) {
	result := ComputeVariance(VarianceInput{
		ActualHours:        dec("8"),
		ActualLaborCost:    dec("800"),
		ActualMaterialCost: dec("200"),
	})

	if result.HoursVariancePercent != nil {
		t.Errorf("hours variance percent = %s, want nil", result.HoursVariancePercent)
	}
	if result.CostVariancePercent != nil {
		t.Errorf("cost variance percent = %s, want nil", result.CostVariancePercent)
	}
	if !result.HoursVariance.Equal(dec("8")) {
		t.Errorf("hours variance = %s, want 8", result.HoursVariance)
	}
	if !result.CostVariance.Equal(dec("1000")) {
		t.Errorf("cost variance = %s, want 1000", result.CostVariance)
	}
}

func TestComputeVariance_Idempotent(t *testing.T) {
	in := VarianceInput{
		EstimatedHours:     dec("24"),
		EstimatedTotal:     dec("5000"),
		ActualHours:        dec("30"),
		ActualLaborCost:    dec("3000"),
		ActualMaterialCost: dec("2500"),
	}
	first := ComputeVariance(in)
	second := ComputeVariance(in)

	if !first.CostVariance.Equal(second.CostVariance) ||
		!first.HoursVariance.Equal(second.HoursVariance) ||
		!first.ActualTotal.Equal(second.ActualTotal) {
		t.Errorf("recompute diverged: %+v vs %+v", first, second)
	}
}

func TestComputeVariance_ConcurrentCallsConverge(t *testing.T) {
	in := VarianceInput{
		EstimatedHours:     dec("100"),
		EstimatedTotal:     dec("25000"),
		ActualHours:        dec("113.5"),
		ActualLaborCost:    dec("17025"),
		ActualMaterialCost: dec("9140.25"),
	}
	want := ComputeVariance(in)

	var wg sync.WaitGroup
	results := make([]VarianceResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ComputeVariance(in)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !got.ActualTotal.Equal(want.ActualTotal) || !got.CostVariance.Equal(want.CostVariance) {
			t.Errorf("result %d diverged: %+v", i, got)
		}
	}
}

func TestClassifyCostVariance(t *testing.T) {
	cases := []struct {
		name    string
		percent *decimal.Decimal
		want    VarianceClassification
	}{
		{"nil percent", nil, VarianceOnTarget},
		{"over threshold", VariancePercent(dec("6"), dec("100")), VarianceOverBudget},
		{"exactly +5", VariancePercent(dec("5"), dec("100")), VarianceOnTarget},
		{"exactly -5", VariancePercent(dec("-5"), dec("100")), VarianceOnTarget},
		{"under threshold", VariancePercent(dec("-6"), dec("100")), VarianceUnderBudget},
		{"zero", VariancePercent(decimal.Zero, dec("100")), VarianceOnTarget},
	}
	for _, tc := range cases {
		if got := ClassifyCostVariance(tc.percent); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestIsMaterialVarianceNoteworthy(t *testing.T) {
	cases := []struct {
		percent *decimal.Decimal
		want    bool
	}{
		{nil, false},
		{VariancePercent(dec("10"), dec("100")), false},
		{VariancePercent(dec("10.01"), dec("100")), true},
		{VariancePercent(dec("-10"), dec("100")), false},
		{VariancePercent(dec("-11"), dec("100")), true},
	}
	for i, tc := range cases {
		if got := IsMaterialVarianceNoteworthy(tc.percent); got != tc.want {
			t.Errorf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestMaterialUsageDerive(t *testing.T) {
	input := NewMaterialUsageEntry{
		QuantityEstimated: dec("10"),
		QuantityUsed:      dec("12"),
		UnitCost:          dec("5"),
	}
	totalCost, varianceQty, variancePct := input.derive()

	if !totalCost.Equal(dec("60")) {
		t.Errorf("total cost = %s, want 60", totalCost)
	}
	if !varianceQty.Equal(dec("2")) {
		t.Errorf("variance quantity = %s, want 2", varianceQty)
	}
	if variancePct == nil || !variancePct.Equal(dec("20")) {
		t.Errorf("variance percent = %v, want 20", variancePct)
	}

	entry := MaterialUsageEntry{VariancePercent: variancePct}
	if !entry.IsVarianceNoteworthy() {
		t.Error("20%% variance should be noteworthy")
	}
}

func TestMaterialUsageDerive_NoEstimate(t *testing.T) {
	input := NewMaterialUsageEntry{
		QuantityUsed: dec("3"),
		UnitCost:     dec("12.50"),
	}
	totalCost, varianceQty, variancePct := input.derive()

	if !totalCost.Equal(dec("37.5")) {
		t.Errorf("total cost = %s, want 37.5", totalCost)
	}
	if !varianceQty.Equal(dec("3")) {
		t.Errorf("variance quantity = %s, want 3", varianceQty)
	}
	if variancePct != nil {
		t.Errorf("variance percent = %s, want nil", variancePct)
	}
}
