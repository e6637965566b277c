package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAnalytics returns aggregate email statistics
func (h *Handlers) GetAnalytics(c *gin.Context) {
	summary, err := h.repo.Analytics(time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to compute analytics",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}
