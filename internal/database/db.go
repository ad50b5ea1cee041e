// Package database persists assessment snapshots and analysis
// subscriptions in PostgreSQL.
package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// DB represents a database connection.
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters.
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection and ensures the schema exists.
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS assessments (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			country TEXT NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			risk_composite DOUBLE PRECISION NOT NULL,
			risk_rating TEXT NOT NULL,
			document JSONB NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS subscriptions (
			user_id BIGINT PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			payment_id TEXT,
			country_code TEXT,
			last_assessed TIMESTAMP
		)
	`)
	return err
}

// AssessmentRecord is one stored snapshot row, without the full
// document.
type AssessmentRecord struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Country       string    `json:"country"`
	Score         float64   `json:"score"`
	Status        string    `json:"status"`
	RiskComposite float64   `json:"risk_composite"`
	RiskRating    string    `json:"risk_rating"`
	CreatedAt     time.Time `json:"created_at"`
}

// SaveAssessment stores a snapshot of an assessment and returns its id.
func (db *DB) SaveAssessment(a *model.MarketAssessment) (string, error) {
	document, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("marshal assessment: %w", err)
	}

	id := uuid.NewString()
	_, err = db.Exec(`
		INSERT INTO assessments (
			id, code, country, score, status, risk_composite, risk_rating, document, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, a.Code, a.Country, a.Score, a.Status, a.Risk.Composite, a.Risk.Rating, document, a.GeneratedAt)

	if err != nil {
		return "", err
	}
	return id, nil
}

// LatestAssessment returns the most recent snapshot for a country, or
// nil when none exists.
func (db *DB) LatestAssessment(code string) (*model.MarketAssessment, error) {
	var document []byte
	err := db.QueryRow(`
		SELECT document
		FROM assessments
		WHERE code = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, code).Scan(&document)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var a model.MarketAssessment
	if err := json.Unmarshal(document, &a); err != nil {
		return nil, fmt.Errorf("unmarshal assessment: %w", err)
	}
	return &a, nil
}

// AssessmentHistory returns up to limit snapshot rows for a country,
// newest first. It feeds the score-over-time view.
func (db *DB) AssessmentHistory(code string, limit int) ([]AssessmentRecord, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, code, country, score, status, risk_composite, risk_rating, created_at
		FROM assessments
		WHERE code = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, code, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AssessmentRecord
	for rows.Next() {
		var r AssessmentRecord
		if err := rows.Scan(&r.ID, &r.Code, &r.Country, &r.Score, &r.Status, &r.RiskComposite, &r.RiskRating, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CreateSubscription creates a pending subscription for a user, or
// resets an existing one.
func (db *DB) CreateSubscription(userID, chatID int64, countryCode string, days int) (*model.Subscription, error) {
	if days < 1 {
		days = 30
	}

	now := time.Now()
	sub := &model.Subscription{
		UserID:      userID,
		ChatID:      chatID,
		Status:      model.PaymentStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.AddDate(0, 0, days),
		CountryCode: countryCode,
	}

	_, err := db.Exec(`
		INSERT INTO subscriptions (
			user_id, chat_id, status, created_at, expires_at, country_code
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at,
			country_code = EXCLUDED.country_code
	`, sub.UserID, sub.ChatID, sub.Status, sub.CreatedAt, sub.ExpiresAt, sub.CountryCode)

	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubscription retrieves a user's subscription, or nil when the user
// has none.
func (db *DB) GetSubscription(userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	var paymentID sql.NullString
	var countryCode sql.NullString
	var lastAssessed sql.NullTime

	err := db.QueryRow(`
		SELECT user_id, chat_id, status, created_at, expires_at, payment_id, country_code, last_assessed
		FROM subscriptions
		WHERE user_id = $1
	`, userID).Scan(
		&sub.UserID, &sub.ChatID, &sub.Status, &sub.CreatedAt, &sub.ExpiresAt,
		&paymentID, &countryCode, &lastAssessed,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if paymentID.Valid {
		sub.PaymentID = paymentID.String
	}
	if countryCode.Valid {
		sub.CountryCode = countryCode.String
	}
	if lastAssessed.Valid {
		sub.LastAssessed = lastAssessed.Time
	}

	return &sub, nil
}

// UpdateSubscriptionStatus updates a user's subscription status and
// payment reference.
func (db *DB) UpdateSubscriptionStatus(userID int64, status, paymentID string) error {
	_, err := db.Exec(`
		UPDATE subscriptions
		SET status = $1, payment_id = $2
		WHERE user_id = $3
	`, status, paymentID, userID)

	return err
}

// UpdateLastAssessed records that a subscriber just ran an analysis.
func (db *DB) UpdateLastAssessed(userID int64) error {
	_, err := db.Exec(`
		UPDATE subscriptions
		SET last_assessed = NOW()
		WHERE user_id = $1
	`, userID)

	return err
}

// CloseSubscription closes a user's subscription.
func (db *DB) CloseSubscription(userID int64) error {
	_, err := db.Exec(`
		UPDATE subscriptions
		SET status = $1
		WHERE user_id = $2
	`, model.PaymentStatusClosed, userID)

	return err
}

// CheckAndUpdateExpirations closes subscriptions whose paid period has
// run out.
func (db *DB) CheckAndUpdateExpirations() error {
	_, err := db.Exec(`
		UPDATE subscriptions
		SET status = $1
		WHERE status = $2 AND expires_at <= NOW()
	`, model.PaymentStatusClosed, model.PaymentStatusAccepted)

	return err
}

// ActiveSubscribers returns every subscription currently in the
// accepted state, for digest delivery.
func (db *DB) ActiveSubscribers() ([]model.Subscription, error) {
	rows, err := db.Query(`
		SELECT user_id, chat_id, status, created_at, expires_at, country_code
		FROM subscriptions
		WHERE status = $1 AND expires_at > NOW()
	`, model.PaymentStatusAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		var countryCode sql.NullString
		if err := rows.Scan(&sub.UserID, &sub.ChatID, &sub.Status, &sub.CreatedAt, &sub.ExpiresAt, &countryCode); err != nil {
			return nil, err
		}
		if countryCode.Valid {
			sub.CountryCode = countryCode.String
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
