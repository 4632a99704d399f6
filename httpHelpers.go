package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

// respondError maps the domain error taxonomy onto HTTP statuses so
// handlers never branch on error types themselves.
func respondError(c *gin.Context, err error) {
	var invalidTransition *utils.InvalidTransitionError
	var validation *utils.ValidationError

	switch {
	case errors.Is(err, utils.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case utils.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.As(err, &invalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": invalidTransition.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "field": validation.Field})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// pageParams reads ?limit and ?after; paged is false when no limit was sent.
func pageParams(c *gin.Context) (limit int, afterId int, paged bool) {
	v := c.Query("limit")
	if v == "" {
		return 0, 0, false
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit <= 0 {
		return 0, 0, false
	}
	if limit > 500 {
		limit = 500
	}
	if after, err := strconv.Atoi(c.Query("after")); err == nil && after > 0 {
		afterId = after
	}
	return limit, afterId, true
}

// nextCursor returns the id to pass as ?after on the next call, or 0 when the
// page came back short.
func nextCursor(lastID int, count int, limit int) int {
	if count < limit {
		return 0
	}
	return lastID
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose every field is optional:
// a request without a body leaves obj at its zero value instead of failing.
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
	return false
}
