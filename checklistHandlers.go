package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markahope-aag/hazardos-sub001/models"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

func createChecklistTemplateItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewChecklistTemplateItem
		if !bindJSON(c, &req) {
			return
		}

		item, err := models.CreateChecklistTemplateItem(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": item})
	}
}

func listChecklistTemplateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		orgId, ok := utils.GetOrgIdFromContext(ctx)
		if !ok || orgId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		items, err := models.ListChecklistTemplate(ctx, orgId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
	}
}

// initializeChecklistHandler copies the org template into the job on first
// call and returns the grouped view plus progress counts either way.
func initializeChecklistHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}

		items, err := models.InitializeChecklist(c.Request.Context(), jobId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"items":    models.GroupChecklistItems(items),
			"progress": models.ComputeChecklistProgress(items),
		}})
	}
}

func listChecklistHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}

		items, err := models.ListChecklistItems(c.Request.Context(), jobId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"items":    models.GroupChecklistItems(items),
			"progress": models.ComputeChecklistProgress(items),
		}})
	}
}

type toggleChecklistItemRequest struct {
	IsCompleted     *bool   `json:"is_completed" binding:"required"`
	CompletionNotes *string `json:"completion_notes"`
}

func toggleChecklistItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req toggleChecklistItemRequest
		if !bindJSON(c, &req) {
			return
		}

		item, err := models.ToggleChecklistItem(c.Request.Context(), id, *req.IsCompleted, req.CompletionNotes)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": item})
	}
}

func updateChecklistItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req models.UpdateChecklistItemInput
		if !bindJSON(c, &req) {
			return
		}

		item, err := models.UpdateChecklistItem(c.Request.Context(), id, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": item})
	}
}
