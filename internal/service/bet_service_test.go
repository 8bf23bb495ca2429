package service

import (
	"context"
	"testing"
	"time"

	"betaware/internal/model"
	"betaware/internal/repository/memory"
	"betaware/internal/token"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	ownerClaims = &token.Claims{UserID: 1, Username: "joao", Email: "joao@email.com", Role: model.RoleUser}
	otherClaims = &token.Claims{UserID: 2, Username: "maria", Email: "maria@email.com", Role: model.RoleUser}
	adminClaims = &token.Claims{UserID: 3, Username: "admin", Email: "admin@email.com", Role: model.RoleAdmin}
)

func newBetService() BetService {
	return NewBetService(memory.NewBetRepository(), zap.NewNop())
}

func createReq() model.CreateBetRequest {
	return model.CreateBetRequest{
		Category: "Futebol",
		Game:     "Flamengo vs Palmeiras",
		Amount:   decimal.NewFromFloat(50),
	}
}

func TestBetService_Create(t *testing.T) {
	svc := newBetService()

	bet, err := svc.Create(context.Background(), ownerClaims, createReq())

	require.NoError(t, err)
	assert.Equal(t, ownerClaims.UserID, bet.UserID)
	assert.Equal(t, model.OutcomePending, bet.Outcome) // default
	assert.False(t, bet.EventTime.IsZero())
	assert.Nil(t, bet.UpdatedAt)
}

func TestBetService_CreateReportsEveryViolation(t *testing.T) {
	svc := newBetService()

	req := model.CreateBetRequest{
		Amount:  decimal.NewFromInt(-5),
		Outcome: "MAYBE",
	}
	_, err := svc.Create(context.Background(), ownerClaims, req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	fields := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"category", "game", "amount", "outcome"}, fields)
}

func TestBetService_CreateAmountBoundary(t *testing.T) {
	svc := newBetService()
	ctx := context.Background()

	req := createReq()
	req.Amount = decimal.Zero
	_, err := svc.Create(ctx, ownerClaims, req)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	req.Amount = decimal.NewFromFloat(0.01)
	bet, err := svc.Create(ctx, ownerClaims, req)
	require.NoError(t, err)
	assert.True(t, bet.Amount.Equal(decimal.NewFromFloat(0.01)))
}

func TestBetService_ListOwnIsScoped(t *testing.T) {
	svc := newBetService()
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerClaims, createReq())
	require.NoError(t, err)
	_, err = svc.Create(ctx, otherClaims, createReq())
	require.NoError(t, err)

	bets, err := svc.ListOwn(ctx, ownerClaims)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, ownerClaims.UserID, bets[0].UserID)
}

func TestBetService_ListAllRequiresAdmin(t *testing.T) {
	svc := newBetService()
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerClaims, createReq())
	require.NoError(t, err)

	_, err = svc.ListAll(ctx, ownerClaims, model.BetFilters{})
	assert.ErrorIs(t, err, ErrForbidden)

	bets, err := svc.ListAll(ctx, adminClaims, model.BetFilters{})
	require.NoError(t, err)
	assert.Len(t, bets, 1)
}

func TestBetService_ListByPeriod(t *testing.T) {
	svc := newBetService()
	ctx := context.Background()

	june := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	req := createReq()
	req.EventTime = &june
	_, err := svc.Create(ctx, ownerClaims, req)
	require.NoError(t, err)

	july := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	req2 := createReq()
	req2.EventTime = &july
	_, err = svc.Create(ctx, otherClaims, req2)
	require.NoError(t, err)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)

	bets, err := svc.ListByPeriod(ctx, start, end, nil)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, june, bets[0].EventTime)

	// Owner-scoped flavor
	bets, err = svc.ListByPeriod(ctx, start, end, &otherClaims.UserID)
	require.NoError(t, err)
	assert.Empty(t, bets)

	// Reversed range matches nothing rather than erroring
	bets, err = svc.ListByPeriod(ctx, end, start, nil)
	require.NoError(t, err)
	assert.Empty(t, bets)
}

func TestBetService_UpdatePartial(t *testing.T) {
	svc := newBetService()
	ctx := context.Background()

	bet, err := svc.Create(ctx, ownerClaims, createReq())
	require.NoError(t, err)

	outcome := model.OutcomeWon
	updated, err := svc.Update(ctx, ownerClaims, bet.ID, model.UpdateBetRequest{Outcome: &outcome})

	require.NoError(t, err)
	assert.Equal(t, model.OutcomeWon, updated.Outcome)
	// Untouched fields survive
	assert.Equal(t, bet.Category, updated.Category)
	assert.True(t, bet.Amount.Equal(updated.Amount))
	require.NotNil(t, updated.UpdatedAt)
}

func TestBetService_UpdateValidation(t *testing.T) {
	svc := newBetService()
	ctx := context.Background()

	bet, err := svc.Create(ctx, ownerClaims, createReq())
	require.NoError(t, err)

	bad := decimal.NewFromInt(-1)
	outcome := "MAYBE"
	_, err = svc.Update(ctx, ownerClaims, bet.ID, model.UpdateBetRequest{Amount: &bad, Outcome: &outcome})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 2)
}

func TestBetService_UpdateAuthorization(t *testing.T) {
	svc := newBetService()
	ctx := context.Background()

	bet, err := svc.Create(ctx, ownerClaims, createReq())
	require.NoError(t, err)

	outcome := model.OutcomeLost
	_, err = svc.Update(ctx, otherClaims, bet.ID, model.UpdateBetRequest{Outcome: &outcome})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, adminClaims, bet.ID, model.UpdateBetRequest{Outcome: &outcome})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, ownerClaims, 999, model.UpdateBetRequest{Outcome: &outcome})
	assert.ErrorIs(t, err, ErrBetNotFound)
}

func TestBetService_Delete(t *testing.T) {
	svc := newBetService()
	ctx := context.Background()

	bet, err := svc.Create(ctx, ownerClaims, createReq())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, otherClaims, bet.ID), ErrForbidden)
	assert.NoError(t, svc.Delete(ctx, adminClaims, bet.ID))
	assert.ErrorIs(t, svc.Delete(ctx, ownerClaims, bet.ID), ErrBetNotFound)
}
