package handlers

import (
	"time"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP responses. Unknown errors are
// reported as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	status := services.StatusOf(err)
	if status == 500 {
		c.JSON(500, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// parseDate accepts plain dates and RFC3339 timestamps.
func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
