package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markahope-aag/hazardos-sub001/models"
)

func createTimeEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewTimeEntry
		if !bindJSON(c, &req) {
			return
		}

		entry, err := models.CreateTimeEntry(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": entry})
	}
}

func updateTimeEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req models.NewTimeEntry
		if !bindJSON(c, &req) {
			return
		}

		entry, err := models.UpdateTimeEntry(c.Request.Context(), id, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entry})
	}
}

func deleteTimeEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		entry, err := models.DeleteTimeEntry(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entry})
	}
}

func listTimeEntriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}

		// ?limit triggers cursor paging; the default returns the whole ledger
		// in work-date order for the completion screen.
		if limit, afterId, paged := pageParams(c); paged {
			entries, err := models.ListTimeEntriesPage(c.Request.Context(), jobId, afterId, limit)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"data": entries, "next_cursor": nextCursor(lastTimeEntryID(entries), len(entries), limit)})
			return
		}

		entries, err := models.ListTimeEntries(c.Request.Context(), jobId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entries})
	}
}

func lastTimeEntryID(entries []*models.TimeEntry) int {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].ID
}

func createMaterialUsageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewMaterialUsageEntry
		if !bindJSON(c, &req) {
			return
		}

		entry, err := models.CreateMaterialUsage(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": entry})
	}
}

func updateMaterialUsageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req models.NewMaterialUsageEntry
		if !bindJSON(c, &req) {
			return
		}

		entry, err := models.UpdateMaterialUsage(c.Request.Context(), id, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entry})
	}
}

func deleteMaterialUsageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		entry, err := models.DeleteMaterialUsage(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entry})
	}
}

func listMaterialUsageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}

		entries, err := models.ListMaterialUsage(c.Request.Context(), jobId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entries})
	}
}
