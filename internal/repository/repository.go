// Package repository implements persistence for registrant documents.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gieo-gita/summit-registration/internal/model"
)

// ErrDuplicateRegistration is returned when the registration_id uniqueness
// constraint rejects an insert.
var ErrDuplicateRegistration = errors.New("registration id already exists")

// GuestStore is the persistence contract the service layer depends on.
type GuestStore interface {
	Create(ctx context.Context, reg *model.Registrant) error
	List(ctx context.Context) ([]model.Registrant, error)
	Stats(ctx context.Context) (model.RegistrationStats, error)
}

// GuestRepository handles persistence for registrants in PostgreSQL.
type GuestRepository struct {
	db *pgxpool.Pool
}

// NewGuestRepository constructs a GuestRepository.
func NewGuestRepository(db *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{db: db}
}

// Create inserts a registrant, stamping the generated row ID and timestamps
// onto reg.
func (r *GuestRepository) Create(ctx context.Context, reg *model.Registrant) error {
	now := time.Now().UTC()
	reg.ID = uuid.New().String()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO guests (
			id, registration_id, name, email, address, city, state,
			mobile, whatsapp, registration_type, follows_gita,
			gita_self_rating, checked_in, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		reg.ID, reg.RegistrationID, reg.Name, reg.Email, reg.Address,
		reg.City, reg.State, reg.Mobile, reg.Whatsapp, reg.RegistrationType,
		reg.FollowsGita, reg.GitaSelfRating, reg.CheckedIn, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRegistration
		}
		return fmt.Errorf("insert guest: %w", err)
	}
	return nil
}

// List returns all registrants ordered by creation time descending.
func (r *GuestRepository) List(ctx context.Context) ([]model.Registrant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, registration_id, name, email, address, city, state,
		        mobile, whatsapp, registration_type, follows_gita,
		        gita_self_rating, checked_in, created_at, updated_at
		 FROM guests
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	var guests []model.Registrant
	for rows.Next() {
		var g model.Registrant
		if err := rows.Scan(
			&g.ID, &g.RegistrationID, &g.Name, &g.Email, &g.Address,
			&g.City, &g.State, &g.Mobile, &g.Whatsapp, &g.RegistrationType,
			&g.FollowsGita, &g.GitaSelfRating, &g.CheckedIn, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

// Stats computes the dashboard aggregates in a single query.
func (r *GuestRepository) Stats(ctx context.Context) (model.RegistrationStats, error) {
	var s model.RegistrationStats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE follows_gita = 'yes'),
		        COUNT(*) FILTER (WHERE follows_gita = 'no')
		 FROM guests`,
	).Scan(&s.Total, &s.FollowsGita, &s.NotFollowsGita)
	if err != nil {
		return model.RegistrationStats{}, fmt.Errorf("guest stats: %w", err)
	}
	return s, nil
}
