package classifier

import (
	"context"
	"strings"

	"email-triage-go/internal/model"
)

// FallbackReply is stored when no reply could be generated
const FallbackReply = "Unable to generate reply due to API error."

// Result is the structured output of the classification service
type Result struct {
	Sentiment string `json:"sentiment"`
	Summary   string `json:"summary"`
	Extracted string `json:"extracted"`
	Reply     string `json:"reply"`
}

// Classifier derives sentiment, summary, extracted info, and a draft reply
// from raw email text. Implementations return an error on any transport or
// parsing failure; the caller substitutes fallback values.
type Classifier interface {
	Classify(ctx context.Context, body string) (*Result, error)
	GenerateReply(ctx context.Context, body, kbContext string) (string, error)
}

// FallbackResult is substituted when the classification service fails
func FallbackResult() *Result {
	return &Result{
		Sentiment: model.SentimentNeutral,
		Extracted: "",
		Reply:     FallbackReply,
	}
}

// NormalizeSentiment maps free-form service output onto the three enumerated
// sentiment values, defaulting to Neutral
func NormalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return model.SentimentPositive
	case "negative":
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}
