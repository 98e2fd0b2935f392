package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gieo-gita/summit-registration/internal/model"
)

// InMemory is a map-backed GuestStore used by tests and local development.
// It enforces the same registration_id uniqueness as the SQL schema.
type InMemory struct {
	mu     sync.RWMutex
	guests []model.Registrant
	byReg  map[string]struct{}
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{byReg: make(map[string]struct{})}
}

// Create appends a registrant, stamping ID and timestamps like the SQL store.
func (s *InMemory) Create(_ context.Context, reg *model.Registrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byReg[reg.RegistrationID]; exists {
		return ErrDuplicateRegistration
	}

	now := time.Now().UTC()
	reg.ID = uuid.New().String()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	s.byReg[reg.RegistrationID] = struct{}{}
	s.guests = append(s.guests, *reg)
	return nil
}

// List returns copies of all registrants, newest first.
func (s *InMemory) List(_ context.Context) ([]model.Registrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Registrant, 0, len(s.guests))
	for i := len(s.guests) - 1; i >= 0; i-- {
		out = append(out, s.guests[i])
	}
	return out, nil
}

// Stats computes the same aggregates as the SQL store.
func (s *InMemory) Stats(_ context.Context) (model.RegistrationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats model.RegistrationStats
	stats.Total = len(s.guests)
	for _, g := range s.guests {
		if g.FollowsGita == nil {
			continue
		}
		switch *g.FollowsGita {
		case "yes":
			stats.FollowsGita++
		case "no":
			stats.NotFollowsGita++
		}
	}
	return stats, nil
}
