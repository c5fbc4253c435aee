package models

import "time"

// RiskTier is the coarse categorical bucket derived from a driver's
// rolling average score.
type RiskTier string

const (
	RiskHigh   RiskTier = "HIGH"
	RiskMedium RiskTier = "MEDIUM"
	RiskLow    RiskTier = "LOW"
)

// DriverAggregate is the persistent per-driver rolling reputation state.
// AverageScore and RiskTier are always written together with TotalScore and
// TotalCount; they are never updated independently.
type DriverAggregate struct {
	DriverID     string    `json:"driver_id"`
	Name         string    `json:"name"`
	TotalScore   float64   `json:"total_score"`
	TotalCount   int64     `json:"total_count"`
	AverageScore float64   `json:"average_score"`
	RiskTier     RiskTier  `json:"risk_tier"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FeedbackRecord is the persistent audit log entry for one processed
// submission. Processed flips false -> true once the full pipeline has run
// for the item; it never flips back.
type FeedbackRecord struct {
	ID           int64    `json:"id"`
	DriverID     string   `json:"driver_id"`
	Submitter    string   `json:"submitter"`
	FeedbackDate string   `json:"feedback_date"`
	Text         string   `json:"text"`
	Score        float64  `json:"score"`
	Label        string   `json:"label"`
	MatchedTerms []string `json:"matched_terms"`
	Processed    bool     `json:"processed"`

	CreatedAt time.Time `json:"created_at"`
}

// AlertRecord is one append-only low-reputation alert. Alerts are never
// edited or deleted; creation is gated by the per-driver cooldown.
type AlertRecord struct {
	ID         int64     `json:"id"`
	DriverID   string    `json:"driver_id"`
	DriverName string    `json:"driver_name"`
	Message    string    `json:"message"`
	Score      float64   `json:"score"`
	Threshold  float64   `json:"threshold"`
	CreatedAt  time.Time `json:"created_at"`
}
