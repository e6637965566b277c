package model

import (
	"time"
)

// Sentiment values assigned by the classification service
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Priority labels assigned during classification
const (
	PriorityUrgent    = "Urgent"
	PriorityNotUrgent = "Not urgent"
)

// Email represents an ingested email and its derived classification fields
type Email struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Sender        string    `json:"sender" gorm:"type:varchar(255);not null"`
	Subject       string    `json:"subject" gorm:"type:varchar(512);not null"`
	Body          string    `json:"body" gorm:"type:text;not null"`
	ReceivedAt    time.Time `json:"received_at" gorm:"index"`
	Sentiment     string    `json:"sentiment" gorm:"type:varchar(32);index"`
	Priority      string    `json:"priority" gorm:"type:varchar(32);index"`
	ExtractedInfo string    `json:"extracted_info" gorm:"type:text"`
	AIReply       string    `json:"ai_reply" gorm:"type:text"`
	Resolved      bool      `json:"resolved" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for Email
func (Email) TableName() string {
	return "emails"
}

// Classification holds the four fields written back by the pipeline in one update
type Classification struct {
	Sentiment     string
	Priority      string
	ExtractedInfo string
	AIReply       string
}

// AnalyticsSummary aggregates email counts for the analytics endpoint
type AnalyticsSummary struct {
	TotalLast24h int64            `json:"total_last_24h"`
	Resolved     int64            `json:"resolved"`
	Pending      int64            `json:"pending"`
	BySentiment  map[string]int64 `json:"by_sentiment"`
	ByPriority   map[string]int64 `json:"by_priority"`
	HourlyTrend  []HourlyCount    `json:"hourly_trend"`
}

// HourlyCount is one bucket of the last-24h ingestion trend
type HourlyCount struct {
	Hour  string `json:"hour"`
	Count int64  `json:"count"`
}
