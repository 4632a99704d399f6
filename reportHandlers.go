package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markahope-aag/hazardos-sub001/models"
	"github.com/markahope-aag/hazardos-sub001/models/reports"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

func varianceReportFilter(c *gin.Context) (*reports.JobVarianceFilter, bool) {
	filter := &reports.JobVarianceFilter{}

	filter.Status = utils.NilIfEmpty(models.CompletionStatus(c.Query("status")))
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return nil, false
		}
		filter.FromDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return nil, false
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.ToDate = &end
	}
	return filter, true
}

func varianceReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := varianceReportFilter(c)
		if !ok {
			return
		}

		rows, err := reports.GetJobVarianceReport(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}

func varianceReportExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := varianceReportFilter(c)
		if !ok {
			return
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=job-variance.xlsx")
		if err := reports.ExportJobVarianceReport(c.Request.Context(), filter, c.Writer); err != nil {
			respondError(c, err)
			return
		}
	}
}
