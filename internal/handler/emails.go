package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"email-triage-go/internal/model"
)

// ListEmails returns emails ordered by received time, newest first
func (h *Handlers) ListEmails(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	sentiment := c.Query("sentiment")
	priority := c.Query("priority")

	emails, err := h.repo.ListEmails(limit, offset, sentiment, priority)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch emails",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	responses := make([]EmailResponse, 0, len(emails))
	for _, email := range emails {
		responses = append(responses, toEmailResponse(&email))
	}

	c.JSON(http.StatusOK, responses)
}

// GetEmail returns a single email record including its body
func (h *Handlers) GetEmail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid email ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	email, err := h.repo.GetEmail(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch email",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	if email == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Email not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, email)
}

// ReplyEmail saves a reply on the email; send_now marks it resolved
func (h *Handlers) ReplyEmail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid email ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var req SendReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	email, err := h.repo.GetEmail(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch email",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	if email == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Email not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	// Default to the drafted AI reply when no text is supplied
	text := req.ReplyText
	if text == "" {
		text = email.AIReply
	}

	if err := h.repo.SaveReply(email.ID, text, req.SendNow); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to save reply",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "reply_saved": true})
}

func toEmailResponse(email *model.Email) EmailResponse {
	return EmailResponse{
		ID:            email.ID,
		Sender:        email.Sender,
		Subject:       email.Subject,
		ReceivedAt:    email.ReceivedAt,
		Sentiment:     email.Sentiment,
		Priority:      email.Priority,
		ExtractedInfo: email.ExtractedInfo,
		AIReply:       email.AIReply,
		Resolved:      email.Resolved,
	}
}
