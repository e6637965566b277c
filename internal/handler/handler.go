package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"email-triage-go/internal/datastore"
	"email-triage-go/internal/ingest"
	"email-triage-go/internal/pipeline"
	"email-triage-go/internal/repository"
	"email-triage-go/internal/scheduler"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	repo      *repository.Repository
	ingestor  *ingest.Service
	worker    *pipeline.Worker
	scheduler *scheduler.Scheduler
	store     *datastore.Client
}

// NewHandlers creates new HTTP handlers
func NewHandlers(repo *repository.Repository, ingestor *ingest.Service, worker *pipeline.Worker, sched *scheduler.Scheduler, store *datastore.Client) *Handlers {
	return &Handlers{
		repo:      repo,
		ingestor:  ingestor,
		worker:    worker,
		scheduler: sched,
		store:     store,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/upload-csv", h.UploadCSV)

	router.GET("/emails", h.ListEmails)
	router.GET("/emails/:id", h.GetEmail)
	router.POST("/emails/:id/reply", h.ReplyEmail)

	router.GET("/analytics", h.GetAnalytics)

	router.GET("/get-data", h.GetStoreData)
	router.POST("/sync/run", h.RunSync)
	router.GET("/sync/status", h.GetSyncStatus)
}

// Root handles the root endpoint
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AI Email Triage Backend is running!"})
}
