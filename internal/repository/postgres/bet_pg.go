package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"betaware/internal/model"
	"betaware/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type betRepository struct {
	db DB
}

// NewBetRepository creates a PostgreSQL-backed BetRepository
func NewBetRepository(db DB) repository.BetRepository {
	return &betRepository{db: db}
}

const betColumns = `id, user_id, category, game, amount::text, outcome, event_time, created_at, updated_at`

// Create inserts a new bet into the database
func (r *betRepository) Create(ctx context.Context, b *model.Bet) error {
	sql := `INSERT INTO bets (user_id, category, game, amount, outcome, event_time, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, b.UserID, b.Category, b.Game, b.Amount.String(), b.Outcome, b.EventTime, b.CreatedAt).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

// FindByID retrieves a bet by its ID
func (r *betRepository) FindByID(ctx context.Context, id int64) (*model.Bet, error) {
	sql := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`
	row := r.db.QueryRow(ctx, sql, id)
	b, err := scanBet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, fmt.Errorf("failed to find bet by ID: %w", err)
	}
	return b, nil
}

// Find retrieves bets matching the filters, newest first
func (r *betRepository) Find(ctx context.Context, filters model.BetFilters) ([]model.Bet, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + betColumns + ` FROM bets`)

	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argCount))
		args = append(args, *filters.UserID)
		argCount++
	}
	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("event_time >= $%d", argCount))
		args = append(args, *filters.StartDate)
		argCount++
	}
	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("event_time <= $%d", argCount))
		args = append(args, *filters.EndDate)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY event_time DESC, created_at DESC, id DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []model.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet row: %w", err)
		}
		bets = append(bets, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bet rows: %w", err)
	}
	return bets, nil
}

// Update writes the mutable fields of an existing bet
func (r *betRepository) Update(ctx context.Context, b *model.Bet) error {
	sql := `UPDATE bets
            SET category = $1, game = $2, amount = $3, outcome = $4, event_time = $5, updated_at = NOW()
            WHERE id = $6 RETURNING updated_at`
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, sql, b.Category, b.Game, b.Amount.String(), b.Outcome, b.EventTime, b.ID).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNoRecord
		}
		return fmt.Errorf("failed to update bet: %w", err)
	}
	b.UpdatedAt = &updatedAt
	return nil
}

// Delete removes a bet permanently
func (r *betRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM bets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bet: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrNoRecord
	}
	return nil
}

func scanBet(row pgx.Row) (*model.Bet, error) {
	b := &model.Bet{}
	var amount string
	if err := row.Scan(
		&b.ID, &b.UserID, &b.Category, &b.Game, &amount,
		&b.Outcome, &b.EventTime, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q in store: %w", amount, err)
	}
	b.Amount = dec
	return b, nil
}
