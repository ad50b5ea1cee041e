package model

import "time"

// Payment status constants
const (
	PaymentStatusPending  = "pending"
	PaymentStatusAccepted = "accepted"
	PaymentStatusClosed   = "closed"
)

// Subscription represents a user's access to premium analysis
type Subscription struct {
	UserID       int64     `json:"user_id"`
	ChatID       int64     `json:"chat_id"`
	Status       string    `json:"status"` // pending, accepted, closed
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"` // when the subscription expires
	PaymentID    string    `json:"payment_id"` // Stripe payment ID
	CountryCode  string    `json:"country_code,omitempty"` // market the user follows
	LastAssessed time.Time `json:"last_assessed,omitempty"`
}

// Active reports whether the subscription grants premium access now.
func (s Subscription) Active(now time.Time) bool {
	return s.Status == PaymentStatusAccepted && s.ExpiresAt.After(now)
}
