package models

import "time"

// PortfolioView is one recorded page view.
type PortfolioView struct {
	ID        string    `db:"id" json:"id"`
	IPAddress string    `db:"ip_address" json:"ipAddress"`
	UserAgent string    `db:"user_agent" json:"userAgent"`
	Referrer  string    `db:"referrer" json:"referrer,omitempty"`
	Page      string    `db:"page" json:"page"`
	SessionID string    `db:"session_id" json:"sessionId,omitempty"`
	IsUnique  bool      `db:"is_unique" json:"isUnique"`
	ViewedAt  time.Time `db:"viewed_at" json:"timestamp"`
}

// Count is a labelled counter used by aggregate queries.
type Count struct {
	Key   string `db:"key" json:"_id"`
	Count int64  `db:"count" json:"count"`
}
