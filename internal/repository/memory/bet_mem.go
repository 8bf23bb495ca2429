package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"betaware/internal/model"
	"betaware/internal/repository"
)

type betStore struct {
	mu     sync.RWMutex
	bets   map[int64]*model.Bet
	nextID int64
}

// NewBetRepository creates an in-memory BetRepository with the same
// contract as the PostgreSQL implementation.
func NewBetRepository() repository.BetRepository {
	return &betStore{bets: make(map[int64]*model.Bet), nextID: 1}
}

func (s *betStore) Create(_ context.Context, bet *model.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bet.ID = s.nextID
	s.nextID++
	if bet.CreatedAt.IsZero() {
		bet.CreatedAt = time.Now()
	}
	cp := *bet
	s.bets[bet.ID] = &cp
	return nil
}

func (s *betStore) FindByID(_ context.Context, id int64) (*model.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bets[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (s *betStore) Find(_ context.Context, filters model.BetFilters) ([]model.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bets []model.Bet
	for _, b := range s.bets {
		if filters.UserID != nil && b.UserID != *filters.UserID {
			continue
		}
		// Bounds are inclusive. A reversed range matches nothing.
		if filters.StartDate != nil && b.EventTime.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && b.EventTime.After(*filters.EndDate) {
			continue
		}
		bets = append(bets, *b)
	}

	sort.Slice(bets, func(i, j int) bool {
		if !bets[i].EventTime.Equal(bets[j].EventTime) {
			return bets[i].EventTime.After(bets[j].EventTime)
		}
		if !bets[i].CreatedAt.Equal(bets[j].CreatedAt) {
			return bets[i].CreatedAt.After(bets[j].CreatedAt)
		}
		return bets[i].ID > bets[j].ID
	})
	return bets, nil
}

func (s *betStore) Update(_ context.Context, bet *model.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bets[bet.ID]; !ok {
		return repository.ErrNoRecord
	}
	cp := *bet
	s.bets[bet.ID] = &cp
	return nil
}

func (s *betStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bets[id]; !ok {
		return repository.ErrNoRecord
	}
	delete(s.bets, id)
	return nil
}
