package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UploadCSV ingests email records from an uploaded CSV file. Records are
// enqueued for asynchronous classification; the response only reflects
// insertion.
func (h *Handlers) UploadCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Missing CSV file upload",
			Code:    http.StatusBadRequest,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Failed to open uploaded file",
			Code:    http.StatusBadRequest,
		})
		return
	}
	defer file.Close()

	inserted, err := h.ingestor.IngestCSV(file)
	if err != nil {
		logrus.Errorf("CSV ingestion failed after %d rows: %v", inserted, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "ingestion_error",
			Message: "Failed to ingest CSV",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, UploadCSVResponse{Inserted: inserted})
}
