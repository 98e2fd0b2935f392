// Package model defines the core domain types for the summit registration
// service.
package model

import "time"

// RegistrationTypeGuest is the only registration type this intake path
// produces; the server stamps it regardless of what the client sends.
const RegistrationTypeGuest = "guest"

// GitaRating is a registrant's self-assessment of their Bhagavad Gita
// practice.
type GitaRating string

const (
	GitaRatingLow    GitaRating = "low"
	GitaRatingMedium GitaRating = "medium"
	GitaRatingHigh   GitaRating = "high"
)

// Registrant is one person's registration, persisted as one row.
type Registrant struct {
	ID               string    `json:"id"`
	RegistrationID   string    `json:"registrationId"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Mobile           string    `json:"mobile"`
	Whatsapp         string    `json:"whatsapp"`
	RegistrationType string    `json:"registrationType"`
	FollowsGita      *string   `json:"followsGita,omitempty"`
	GitaSelfRating   *string   `json:"gitaSelfRating,omitempty"`
	CheckedIn        bool      `json:"checkedIn"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// GitaPractice holds the answer to the optional Bhagavad Gita questions as a
// closed set of states: unanswered, not practicing, or practicing with a
// rating. A rating can never exist without a "yes" answer because the
// constructor drops it for every other state.
type GitaPractice struct {
	follows string
	rating  GitaRating
}

// NewGitaPractice normalizes raw form values into a GitaPractice. Whatever
// rating was supplied is discarded unless follows is "yes".
func NewGitaPractice(follows string, rating string) GitaPractice {
	if follows != "yes" {
		if follows != "no" {
			follows = ""
		}
		return GitaPractice{follows: follows}
	}
	return GitaPractice{follows: "yes", rating: GitaRating(rating)}
}

// Follows reports the yes/no answer; ok is false when unanswered.
func (g GitaPractice) Follows() (string, bool) {
	return g.follows, g.follows != ""
}

// Rating reports the self-rating; ok is false unless the registrant answered
// "yes" and picked one.
func (g GitaPractice) Rating() (GitaRating, bool) {
	return g.rating, g.follows == "yes" && g.rating != ""
}

// FollowsPtr returns the answer as a nullable column value.
func (g GitaPractice) FollowsPtr() *string {
	if g.follows == "" {
		return nil
	}
	v := g.follows
	return &v
}

// RatingPtr returns the rating as a nullable column value.
func (g GitaPractice) RatingPtr() *string {
	r, ok := g.Rating()
	if !ok {
		return nil
	}
	v := string(r)
	return &v
}

// GuestSubmission is the registration payload received from the browser
// form, minus the server-generated fields.
type GuestSubmission struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	Mobile           string `json:"mobile"`
	Whatsapp         string `json:"whatsapp"`
	RegistrationType string `json:"registrationType"`
	FollowsGita      string `json:"followsGita"`
	GitaSelfRating   string `json:"gitaSelfRating"`
}

// RegisterResponse is the JSON envelope returned by the intake endpoint.
// Errors carries the full per-field violation map on 422 responses so the
// form can highlight every invalid field at once.
type RegisterResponse struct {
	Success        bool              `json:"success"`
	RegistrationID string            `json:"registrationId,omitempty"`
	Message        string            `json:"message"`
	Errors         map[string]string `json:"errors,omitempty"`
}

// RegistrationStats are the dashboard headline numbers.
type RegistrationStats struct {
	Total          int `json:"total"`
	FollowsGita    int `json:"followsGita"`
	NotFollowsGita int `json:"notFollowsGita"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
