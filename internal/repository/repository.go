package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"email-triage-go/internal/model"
)

// Repository provides access to the email record store
type Repository struct {
	db *gorm.DB
}

// New creates a new repository
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Ping verifies the database connection
func (r *Repository) Ping() error {
	if err := r.db.Raw("SELECT 1").Error; err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// CreateEmail inserts a new email record
func (r *Repository) CreateEmail(email *model.Email) error {
	if result := r.db.Create(email); result.Error != nil {
		return fmt.Errorf("failed to create email: %w", result.Error)
	}
	return nil
}

// GetEmail returns the email with the given id, or nil if it does not exist
func (r *Repository) GetEmail(id uint) (*model.Email, error) {
	var email model.Email
	result := r.db.First(&email, id)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch email: %w", result.Error)
	}
	return &email, nil
}

// ListEmails returns emails ordered by received_at descending, optionally
// filtered by sentiment and priority
func (r *Repository) ListEmails(limit, offset int, sentiment, priority string) ([]model.Email, error) {
	query := r.db.Order("received_at DESC").Offset(offset).Limit(limit)
	if sentiment != "" {
		query = query.Where("sentiment = ?", sentiment)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var emails []model.Email
	if result := query.Find(&emails); result.Error != nil {
		return nil, fmt.Errorf("failed to list emails: %w", result.Error)
	}
	return emails, nil
}

// UpdateClassification writes all four classification fields in a single update
func (r *Repository) UpdateClassification(id uint, c model.Classification) error {
	result := r.db.Model(&model.Email{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sentiment":      c.Sentiment,
		"priority":       c.Priority,
		"extracted_info": c.ExtractedInfo,
		"ai_reply":       c.AIReply,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update classification: %w", result.Error)
	}
	return nil
}

// SaveReply stores a reply on the email and optionally marks it resolved
func (r *Repository) SaveReply(id uint, reply string, resolved bool) error {
	updates := map[string]interface{}{"ai_reply": reply}
	if resolved {
		updates["resolved"] = true
	}
	result := r.db.Model(&model.Email{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to save reply: %w", result.Error)
	}
	return nil
}

// DeleteEmail removes an email record
func (r *Repository) DeleteEmail(id uint) error {
	if result := r.db.Delete(&model.Email{}, id); result.Error != nil {
		return fmt.Errorf("failed to delete email: %w", result.Error)
	}
	return nil
}

// Analytics aggregates email counts for the analytics endpoint
func (r *Repository) Analytics(now time.Time) (*model.AnalyticsSummary, error) {
	summary := &model.AnalyticsSummary{
		BySentiment: make(map[string]int64),
		ByPriority:  make(map[string]int64),
	}

	since := now.Add(-24 * time.Hour)
	if err := r.db.Model(&model.Email{}).Where("received_at >= ?", since).Count(&summary.TotalLast24h).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent emails: %w", err)
	}

	if err := r.db.Model(&model.Email{}).Where("resolved = ?", true).Count(&summary.Resolved).Error; err != nil {
		return nil, fmt.Errorf("failed to count resolved emails: %w", err)
	}
	if err := r.db.Model(&model.Email{}).Where("resolved = ?", false).Count(&summary.Pending).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending emails: %w", err)
	}

	for _, sentiment := range []string{model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative} {
		var count int64
		if err := r.db.Model(&model.Email{}).Where("sentiment = ?", sentiment).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count emails by sentiment: %w", err)
		}
		summary.BySentiment[sentiment] = count
	}

	for _, priority := range []string{model.PriorityUrgent, model.PriorityNotUrgent} {
		var count int64
		if err := r.db.Model(&model.Email{}).Where("priority = ?", priority).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count emails by priority: %w", err)
		}
		summary.ByPriority[priority] = count
	}

	trend, err := r.hourlyTrend(now, since)
	if err != nil {
		return nil, err
	}
	summary.HourlyTrend = trend

	return summary, nil
}

// hourlyTrend buckets the last 24 hours of received emails into hourly counts
func (r *Repository) hourlyTrend(now, since time.Time) ([]model.HourlyCount, error) {
	var receivedTimes []time.Time
	if err := r.db.Model(&model.Email{}).Where("received_at >= ?", since).Pluck("received_at", &receivedTimes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent received times: %w", err)
	}

	trend := make([]model.HourlyCount, 0, 24)
	for i := 23; i >= 0; i-- {
		hourStart := now.Add(-time.Duration(i) * time.Hour)
		hourEnd := hourStart.Add(time.Hour)

		var count int64
		for _, t := range receivedTimes {
			if !t.Before(hourStart) && t.Before(hourEnd) {
				count++
			}
		}

		trend = append(trend, model.HourlyCount{
			Hour:  fmt.Sprintf("%02d:00", hourStart.Hour()),
			Count: count,
		})
	}

	return trend, nil
}
