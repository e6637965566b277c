package handler

import "time"

// UploadCSVResponse is the response for a CSV upload
type UploadCSVResponse struct {
	Inserted int `json:"inserted"`
}

// EmailResponse is the list/detail representation of an email record
type EmailResponse struct {
	ID            uint      `json:"id"`
	Sender        string    `json:"sender"`
	Subject       string    `json:"subject"`
	ReceivedAt    time.Time `json:"received_at"`
	Sentiment     string    `json:"sentiment"`
	Priority      string    `json:"priority"`
	ExtractedInfo string    `json:"extracted_info"`
	AIReply       string    `json:"ai_reply"`
	Resolved      bool      `json:"resolved"`
}

// SendReplyRequest is the request body for saving/sending a reply
type SendReplyRequest struct {
	ReplyText string `json:"reply_text"`
	SendNow   bool   `json:"send_now"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Metrics   map[string]string `json:"metrics,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
