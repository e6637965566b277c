package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStoreData returns all emails from the external data store
func (h *Handlers) GetStoreData(c *gin.Context) {
	rows, err := h.store.FetchAllEmails(c.Request.Context())
	if err != nil {
		// The original store client surfaces fetch errors in the payload
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// RunSync triggers one external-store sync cycle
func (h *Handlers) RunSync(c *gin.Context) {
	if err := h.scheduler.RunOnce(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "sync_error",
			Message: "Failed to run sync",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sync completed successfully"})
}

// GetSyncStatus returns the current sync scheduler status
func (h *Handlers) GetSyncStatus(c *gin.Context) {
	status := "stopped"
	if h.scheduler.IsRunning() {
		status = "running"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"next_run": h.scheduler.GetNextRun(),
		"last_run": h.scheduler.GetLastRun(),
	})
}
