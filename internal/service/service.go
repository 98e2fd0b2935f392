// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/gieo-gita/summit-registration/internal/metrics"
	"github.com/gieo-gita/summit-registration/internal/model"
	"github.com/gieo-gita/summit-registration/internal/repository"
)

// Notifier receives a persisted registrant for asynchronous email dispatch.
// Enqueueing happens strictly after commit, so notification trouble can
// never fail a registration that was saved.
type Notifier interface {
	EnqueueRegistration(reg model.Registrant)
}

// RegistrationService orchestrates the guest intake pipeline and the admin
// read model.
type RegistrationService struct {
	guests   repository.GuestStore
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New constructs a RegistrationService with its dependencies.
func New(guests repository.GuestStore, notifier Notifier, logger *slog.Logger, m *metrics.Metrics) *RegistrationService {
	return &RegistrationService{guests: guests, notifier: notifier, logger: logger, metrics: m}
}

// RegisterGuest runs one submission through validation, normalization,
// persistence, and notification enqueueing.
//
// The three outcomes map to the error taxonomy: a non-empty fieldErrors map
// means validation rejected the submission and nothing was written; a
// non-nil error means persistence failed and nothing was enqueued; otherwise
// the returned registrant is committed and both notification emails are
// queued.
func (s *RegistrationService) RegisterGuest(ctx context.Context, sub model.GuestSubmission) (*model.Registrant, map[string]string, error) {
	if fieldErrors := model.ValidateGuestSubmission(sub); len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	gita := model.NewGitaPractice(sub.FollowsGita, sub.GitaSelfRating)
	reg := &model.Registrant{
		RegistrationID:   uuid.NewString(),
		Name:             strings.TrimSpace(sub.Name),
		Email:            strings.ToLower(strings.TrimSpace(sub.Email)),
		Address:          strings.TrimSpace(sub.Address),
		City:             strings.TrimSpace(sub.City),
		State:            strings.TrimSpace(sub.State),
		Mobile:           model.SanitizePhone(sub.Mobile),
		Whatsapp:         model.SanitizePhone(sub.Whatsapp),
		RegistrationType: model.RegistrationTypeGuest,
		FollowsGita:      gita.FollowsPtr(),
		GitaSelfRating:   gita.RatingPtr(),
		CheckedIn:        false,
	}

	if err := s.guests.Create(ctx, reg); err != nil {
		return nil, nil, fmt.Errorf("register guest: %w", err)
	}
	s.metrics.RegistrationsCreated.Inc()

	s.notifier.EnqueueRegistration(*reg)
	s.logger.Info("guest registered",
		"registration_id", reg.RegistrationID, "email", reg.Email)
	return reg, nil, nil
}

// ListRegistrants returns the full collection, newest first.
func (s *RegistrationService) ListRegistrants(ctx context.Context) ([]model.Registrant, error) {
	return s.guests.List(ctx)
}

// Stats returns the dashboard aggregates.
func (s *RegistrationService) Stats(ctx context.Context) (model.RegistrationStats, error) {
	return s.guests.Stats(ctx)
}
