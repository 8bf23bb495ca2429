package repository

import (
	"context"
	"errors"

	"betaware/internal/model"
)

var (
	// ErrNoRecord is returned by mutations that target a record which
	// does not exist in the store.
	ErrNoRecord = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (email or username).
	ErrDuplicate = errors.New("duplicate record")
)

// BetRepository defines operations for bet data. The same interface is
// served by the in-memory store and the PostgreSQL store so handler and
// service logic stays backend-agnostic.
type BetRepository interface {
	Create(ctx context.Context, bet *model.Bet) error
	FindByID(ctx context.Context, id int64) (*model.Bet, error)
	// Find returns bets matching the filters, newest first
	// (event time, then creation time). Date bounds are inclusive.
	Find(ctx context.Context, filters model.BetFilters) ([]model.Bet, error)
	Update(ctx context.Context, bet *model.Bet) error
	Delete(ctx context.Context, id int64) error
}
