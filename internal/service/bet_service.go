package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"betaware/internal/model"
	"betaware/internal/policy"
	"betaware/internal/repository"
	"betaware/internal/token"

	"go.uber.org/zap"
)

var (
	ErrBetNotFound = errors.New("bet not found")
	ErrForbidden   = errors.New("forbidden: user does not have permission for this action")
)

// ValidationError reports every violated field of a request, not just
// the first one.
type ValidationError struct {
	Fields []model.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// BetService defines operations on bet records
type BetService interface {
	Create(ctx context.Context, claims *token.Claims, req model.CreateBetRequest) (*model.Bet, error)
	ListOwn(ctx context.Context, claims *token.Claims) ([]model.Bet, error)
	ListAll(ctx context.Context, claims *token.Claims, filters model.BetFilters) ([]model.Bet, error)
	ListByPeriod(ctx context.Context, start, end time.Time, ownerID *int64) ([]model.Bet, error)
	Update(ctx context.Context, claims *token.Claims, id int64, req model.UpdateBetRequest) (*model.Bet, error)
	Delete(ctx context.Context, claims *token.Claims, id int64) error
}

type betService struct {
	repo repository.BetRepository
	log  *zap.Logger
}

// NewBetService creates a new BetService
func NewBetService(repo repository.BetRepository, log *zap.Logger) BetService {
	return &betService{repo: repo, log: log}
}

// Create places a new bet owned by the authenticated identity
func (s *betService) Create(ctx context.Context, claims *token.Claims, req model.CreateBetRequest) (*model.Bet, error) {
	var fields []model.FieldError
	if strings.TrimSpace(req.Category) == "" {
		fields = append(fields, model.FieldError{Field: "category", Message: "category is required"})
	}
	if strings.TrimSpace(req.Game) == "" {
		fields = append(fields, model.FieldError{Field: "game", Message: "game is required"})
	}
	if !req.Amount.IsPositive() {
		fields = append(fields, model.FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}
	outcome := req.Outcome
	if outcome == "" {
		outcome = model.OutcomePending
	} else if !model.ValidOutcome(outcome) {
		fields = append(fields, model.FieldError{Field: "outcome", Message: "outcome must be one of PENDING, WON, LOST, CANCELLED"})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	now := time.Now()
	eventTime := now
	if req.EventTime != nil {
		eventTime = *req.EventTime
	}

	bet := &model.Bet{
		UserID:    claims.UserID,
		Category:  req.Category,
		Game:      req.Game,
		Amount:    req.Amount,
		Outcome:   outcome,
		EventTime: eventTime,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet in repo: %w", err)
	}
	return bet, nil
}

// ListOwn returns the caller's bets, newest first
func (s *betService) ListOwn(ctx context.Context, claims *token.Claims) ([]model.Bet, error) {
	bets, err := s.repo.Find(ctx, model.BetFilters{UserID: &claims.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to list own bets: %w", err)
	}
	return bets, nil
}

// ListAll returns every bet in the store. Admin only.
func (s *betService) ListAll(ctx context.Context, claims *token.Claims, filters model.BetFilters) ([]model.Bet, error) {
	if claims == nil || claims.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	bets, err := s.repo.Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list all bets: %w", err)
	}
	return bets, nil
}

// ListByPeriod returns bets whose event time falls within [start, end].
// A reversed range is not an error; it simply matches nothing. When
// ownerID is given the result is additionally scoped to that owner.
func (s *betService) ListByPeriod(ctx context.Context, start, end time.Time, ownerID *int64) ([]model.Bet, error) {
	filters := model.BetFilters{StartDate: &start, EndDate: &end, UserID: ownerID}
	bets, err := s.repo.Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets by period: %w", err)
	}
	return bets, nil
}

// Update applies a partial update to a bet. Only the owner or an admin
// may mutate it; absent fields are left unchanged.
func (s *betService) Update(ctx context.Context, claims *token.Claims, id int64, req model.UpdateBetRequest) (*model.Bet, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find bet for update: %w", err)
	}
	if existing == nil {
		return nil, ErrBetNotFound
	}
	if !policy.CanAct(claims, existing.UserID) {
		return nil, ErrForbidden
	}

	var fields []model.FieldError
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		fields = append(fields, model.FieldError{Field: "category", Message: "category cannot be empty"})
	}
	if req.Game != nil && strings.TrimSpace(*req.Game) == "" {
		fields = append(fields, model.FieldError{Field: "game", Message: "game cannot be empty"})
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		fields = append(fields, model.FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if req.Outcome != nil && !model.ValidOutcome(*req.Outcome) {
		fields = append(fields, model.FieldError{Field: "outcome", Message: "outcome must be one of PENDING, WON, LOST, CANCELLED"})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if req.Category != nil {
		existing.Category = *req.Category
	}
	if req.Game != nil {
		existing.Game = *req.Game
	}
	if req.Amount != nil {
		existing.Amount = *req.Amount
	}
	if req.Outcome != nil {
		existing.Outcome = *req.Outcome
	}
	if req.EventTime != nil {
		existing.EventTime = *req.EventTime
	}
	now := time.Now()
	existing.UpdatedAt = &now

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, ErrBetNotFound
		}
		return nil, fmt.Errorf("failed to update bet in repo: %w", err)
	}
	return existing, nil
}

// Delete removes a bet permanently. Only the owner or an admin may do it.
func (s *betService) Delete(ctx context.Context, claims *token.Claims, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find bet for deletion: %w", err)
	}
	if existing == nil {
		return ErrBetNotFound
	}
	if !policy.CanAct(claims, existing.UserID) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return ErrBetNotFound
		}
		return fmt.Errorf("failed to delete bet in repo: %w", err)
	}
	return nil
}
