package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
		Metrics:   make(map[string]string),
	}

	if err := h.repo.Ping(); err != nil {
		response.Status = "error"
		response.Database = "error"
		logrus.Errorf("Database health check failed: %v", err)
	}

	if h.worker.IsRunning() {
		response.Metrics["worker"] = "running"
	} else {
		response.Metrics["worker"] = "stopped"
	}
	response.Metrics["queue_depth"] = strconv.Itoa(h.worker.QueueDepth())

	if h.scheduler.IsRunning() {
		response.Metrics["sync"] = "running"
		response.Metrics["next_sync"] = h.scheduler.GetNextRun().Format(time.RFC3339)
		response.Metrics["last_sync"] = h.scheduler.GetLastRun().Format(time.RFC3339)
	} else {
		response.Metrics["sync"] = "stopped"
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
