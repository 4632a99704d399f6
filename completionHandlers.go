package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markahope-aag/hazardos-sub001/models"
	"github.com/markahope-aag/hazardos-sub001/workflow"
)

func createCompletionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewJobCompletion
		if !bindJSON(c, &req) {
			return
		}

		completion, err := models.CreateJobCompletion(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": completion})
	}
}

func getCompletionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}

		completion, err := models.GetJobCompletionByJob(c.Request.Context(), jobId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": completion})
	}
}

func updateCompletionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}
		var req models.UpdateJobCompletionInput
		if !bindJSON(c, &req) {
			return
		}

		completion, err := models.UpdateJobCompletion(c.Request.Context(), jobId, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": completion})
	}
}

func submitCompletionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}
		var req workflow.SubmitCompletionInput
		if !bindOptionalJSON(c, &req) {
			return
		}

		completion, err := workflow.SubmitCompletion(c.Request.Context(), jobId, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": completion})
	}
}

func approveCompletionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}
		var req workflow.ReviewCompletionInput
		if !bindOptionalJSON(c, &req) {
			return
		}

		completion, err := workflow.ApproveCompletion(c.Request.Context(), jobId, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": completion})
	}
}

func rejectCompletionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}
		var req workflow.ReviewCompletionInput
		if !bindOptionalJSON(c, &req) {
			return
		}

		completion, err := workflow.RejectCompletion(c.Request.Context(), jobId, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": completion})
	}
}

func completionSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}

		ctx, span := tracer.Start(c.Request.Context(), "completion.summary")
		defer span.End()

		summary, err := workflow.SummarizeCompletion(ctx, jobId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": summary})
	}
}

func completionHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		completionId, ok := pathID(c, "id")
		if !ok {
			return
		}

		histories, err := models.ListHistories(c.Request.Context(), "job_completions", completionId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": histories})
	}
}
