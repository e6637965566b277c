package pipeline

import (
	"strings"

	"email-triage-go/internal/model"
)

var urgentKeywords = []string{"immediately", "urgent", "critical", "cannot access", "asap", "fail", "blocked"}

var supportKeywords = []string{"support", "query", "request", "help"}

func containsAny(text string, keywords []string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// QueueScore computes the queue priority score at ingestion time from the
// combined subject and body: 0 (urgent, dequeued first) when any urgent
// keyword is present, else 1.
func QueueScore(subject, body string) int {
	if containsAny(subject+" "+body, urgentKeywords) {
		return 0
	}
	return 1
}

// PriorityLabel computes the stored priority label at classification time.
// Body and subject are checked separately here, while QueueScore checks the
// combined string; the two computations can disagree and each is
// authoritative for its own purpose.
func PriorityLabel(subject, body string) string {
	if containsAny(body, urgentKeywords) || containsAny(subject, urgentKeywords) {
		return model.PriorityUrgent
	}
	return model.PriorityNotUrgent
}

// IsSupportRelated reports whether a subject looks like a support request.
// Used by the external-store sync to filter ingested emails.
func IsSupportRelated(subject string) bool {
	return containsAny(subject, supportKeywords)
}
