package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OutcomePending   = "PENDING"
	OutcomeWon       = "WON"
	OutcomeLost      = "LOST"
	OutcomeCancelled = "CANCELLED"
)

// ValidOutcome reports whether s is one of the four bet outcomes.
func ValidOutcome(s string) bool {
	switch s {
	case OutcomePending, OutcomeWon, OutcomeLost, OutcomeCancelled:
		return true
	}
	return false
}

// Bet represents a single sports bet placed by a user
type Bet struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Category  string          `json:"category"`
	Game      string          `json:"game"`
	Amount    decimal.Decimal `json:"amount"`
	Outcome   string          `json:"outcome"`
	EventTime time.Time       `json:"event_time"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"` // nil until first mutation
}

// CreateBetRequest is used for placing a new bet.
// Outcome defaults to PENDING when omitted; EventTime defaults to now.
type CreateBetRequest struct {
	Category  string          `json:"category"`
	Game      string          `json:"game"`
	Amount    decimal.Decimal `json:"amount"`
	Outcome   string          `json:"outcome"`
	EventTime *time.Time      `json:"event_time"`
}

// UpdateBetRequest carries a partial update. Pointer fields distinguish
// "leave unchanged" from an explicit value.
type UpdateBetRequest struct {
	Category  *string          `json:"category,omitempty"`
	Game      *string          `json:"game,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Outcome   *string          `json:"outcome,omitempty"`
	EventTime *time.Time       `json:"event_time,omitempty"`
}

// BetFilters contains optional filter parameters for bet queries
type BetFilters struct {
	UserID    *int64
	StartDate *time.Time
	EndDate   *time.Time
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
