package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/models"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type JobVarianceRow struct {
	JobId                int                            `json:"JobId"`
	JobNumber            string                         `json:"JobNumber"`
	Status               models.CompletionStatus        `json:"Status"`
	EstimatedHours       decimal.Decimal                `json:"EstimatedHours"`
	ActualHours          decimal.Decimal                `json:"ActualHours"`
	HoursVariance        decimal.Decimal                `json:"HoursVariance"`
	HoursVariancePercent *decimal.Decimal               `json:"HoursVariancePercent,omitempty"`
	EstimatedTotal       decimal.Decimal                `json:"EstimatedTotal"`
	ActualTotal          decimal.Decimal                `json:"ActualTotal"`
	CostVariance         decimal.Decimal                `json:"CostVariance"`
	CostVariancePercent  *decimal.Decimal               `json:"CostVariancePercent,omitempty"`
	Classification       models.VarianceClassification `json:"Classification"`
	SubmittedAt          *time.Time                     `json:"SubmittedAt,omitempty"`
	ReviewedAt           *time.Time                     `json:"ReviewedAt,omitempty"`
}

type JobVarianceFilter struct {
	Status   *models.CompletionStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// GetJobVarianceReport lists per-job estimate vs actual figures across the
// org, newest submissions first. The classification column is derived here
// rather than stored so threshold changes apply retroactively.
func GetJobVarianceReport(ctx context.Context, filter *JobVarianceFilter) ([]*JobVarianceRow, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, utils.ErrorUnauthorized
	}
	if filter == nil {
		filter = &JobVarianceFilter{}
	}

	sql := `
SELECT
    jc.job_id,
    jobs.job_number,
    jc.status,
    jc.estimated_hours,
    jc.actual_hours,
    jc.hours_variance,
    jc.hours_variance_percent,
    jc.estimated_total,
    jc.actual_total,
    jc.cost_variance,
    jc.cost_variance_percent,
    jc.submitted_at,
    jc.reviewed_at
FROM
    job_completions AS jc
        LEFT JOIN
    jobs ON jobs.id = jc.job_id AND jobs.org_id = jc.org_id
WHERE
    jc.org_id = @orgId
        AND (@status IS NULL OR jc.status = @status)
        AND (@fromDate IS NULL OR jc.submitted_at >= @fromDate)
        AND (@toDate IS NULL OR jc.submitted_at <= @toDate)
ORDER BY jc.submitted_at IS NULL, jc.submitted_at DESC, jc.job_id DESC;
`

	var rows []*JobVarianceRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"orgId":    orgId,
		"status":   filter.Status,
		"fromDate": filter.FromDate,
		"toDate":   filter.ToDate,
	}).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		row.Classification = models.ClassifyCostVariance(row.CostVariancePercent)
	}
	return rows, nil
}

// ExportJobVarianceReport writes the report as a spreadsheet.
func ExportJobVarianceReport(ctx context.Context, filter *JobVarianceFilter, w io.Writer) error {
	rows, err := GetJobVarianceReport(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headers := []string{
		"Job Number", "Status",
		"Estimated Hours", "Actual Hours", "Hours Variance %",
		"Estimated Total", "Actual Total", "Cost Variance", "Cost Variance %",
		"Classification", "Submitted At",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		rowNo := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+rowNo, row.JobNumber)
		f.SetCellValue(sheet, "B"+rowNo, string(row.Status))
		f.SetCellValue(sheet, "C"+rowNo, row.EstimatedHours.InexactFloat64())
		f.SetCellValue(sheet, "D"+rowNo, row.ActualHours.InexactFloat64())
		if row.HoursVariancePercent != nil {
			f.SetCellValue(sheet, "E"+rowNo, row.HoursVariancePercent.InexactFloat64())
		}
		f.SetCellValue(sheet, "F"+rowNo, row.EstimatedTotal.InexactFloat64())
		f.SetCellValue(sheet, "G"+rowNo, row.ActualTotal.InexactFloat64())
		f.SetCellValue(sheet, "H"+rowNo, row.CostVariance.InexactFloat64())
		if row.CostVariancePercent != nil {
			f.SetCellValue(sheet, "I"+rowNo, row.CostVariancePercent.InexactFloat64())
		}
		f.SetCellValue(sheet, "J"+rowNo, string(row.Classification))
		if row.SubmittedAt != nil {
			f.SetCellValue(sheet, "K"+rowNo, row.SubmittedAt.UTC().Format(time.RFC3339))
		}
	}

	return f.Write(w)
}
