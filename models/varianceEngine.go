package models

import "github.com/shopspring/decimal"

// The variance engine is a pure computation layer: it never reads the
// database and never mutates anything. RecomputeJobCompletionVariance feeds
// it the current ledger aggregates and persists the result.

type VarianceInput struct {
	EstimatedHours decimal.Decimal
	EstimatedTotal decimal.Decimal

	ActualHours        decimal.Decimal
	ActualLaborCost    decimal.Decimal
	ActualMaterialCost decimal.Decimal
}

type VarianceResult struct {
	ActualHours decimal.Decimal
	ActualTotal decimal.Decimal

	HoursVariance        decimal.Decimal
	HoursVariancePercent *decimal.Decimal
	CostVariance         decimal.Decimal
	CostVariancePercent  *decimal.Decimal
}

var (
	hundred = decimal.NewFromInt(100)

	// Reporting classification thresholds (percent).
	overBudgetThreshold  = decimal.NewFromInt(5)
	underBudgetThreshold = decimal.NewFromInt(-5)

	// Stricter per-material flag for UI highlighting.
	materialFlagThreshold = decimal.NewFromInt(10)
)

// VariancePercent returns variance/estimated*100 rounded to 2 places, or nil
// when the estimate is zero or negative. Never divides by zero.
func VariancePercent(variance decimal.Decimal, estimated decimal.Decimal) *decimal.Decimal {
	if estimated.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	p := variance.Div(estimated).Mul(hundred).Round(2)
	return &p
}

// ComputeVariance recalculates every derived figure from the full aggregates.
// Total recomputation keeps the operation idempotent and order-independent:
// the same input always yields the same output, regardless of which ledger
// mutation triggered it.
func ComputeVariance(in VarianceInput) VarianceResult {
	actualTotal := in.ActualLaborCost.Add(in.ActualMaterialCost)

	hoursVariance := in.ActualHours.Sub(in.EstimatedHours)
	costVariance := actualTotal.Sub(in.EstimatedTotal)

	return VarianceResult{
		ActualHours:          in.ActualHours,
		ActualTotal:          actualTotal,
		HoursVariance:        hoursVariance,
		HoursVariancePercent: VariancePercent(hoursVariance, in.EstimatedHours),
		CostVariance:         costVariance,
		CostVariancePercent:  VariancePercent(costVariance, in.EstimatedTotal),
	}
}

// ClassifyCostVariance buckets a cost variance percent for reporting:
// > 5% over budget, < -5% under budget, otherwise on target. A nil percent
// (no estimate) reads as on target.
func ClassifyCostVariance(percent *decimal.Decimal) VarianceClassification {
	if percent == nil {
		return VarianceOnTarget
	}
	if percent.GreaterThan(overBudgetThreshold) {
		return VarianceOverBudget
	}
	if percent.LessThan(underBudgetThreshold) {
		return VarianceUnderBudget
	}
	return VarianceOnTarget
}

// IsMaterialVarianceNoteworthy flags individual materials whose usage
// diverged more than ±10% from the estimate.
func IsMaterialVarianceNoteworthy(percent *decimal.Decimal) bool {
	if percent == nil {
		return false
	}
	return percent.Abs().GreaterThan(materialFlagThreshold)
}
