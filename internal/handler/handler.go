// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gieo-gita/summit-registration/internal/auth"
	"github.com/gieo-gita/summit-registration/internal/model"
	"github.com/gieo-gita/summit-registration/internal/service"
)

// registeredOnFormat mirrors the dashboard's long-date rendering,
// e.g. "14 March 2025 at 5:42 pm".
const registeredOnFormat = "2 January 2006 at 3:04 pm"

// GuestHandler holds all HTTP handlers for the registration API.
type GuestHandler struct {
	svc      *service.RegistrationService
	sessions *auth.Sessions
	logger   *slog.Logger
}

// NewGuestHandler constructs a GuestHandler.
func NewGuestHandler(svc *service.RegistrationService, sessions *auth.Sessions, logger *slog.Logger) *GuestHandler {
	return &GuestHandler{svc: svc, sessions: sessions, logger: logger}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Success: false, Message: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Intake ───────────────────────────────────────────────────────────────────

// RegisterGuest handles POST /api/guests
// Validates, persists, and queues notification emails for one submission.
func (h *GuestHandler) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	var sub model.GuestSubmission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reg, fieldErrors, err := h.svc.RegisterGuest(r.Context(), sub)
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, model.RegisterResponse{
			Success: false,
			Message: "Please correct the highlighted fields.",
			Errors:  fieldErrors,
		})
		return
	}
	if err != nil {
		// Store-level detail stays in the server log.
		h.logger.Error("register guest", "error", err)
		writeJSON(w, http.StatusInternalServerError, model.RegisterResponse{
			Success: false,
			Message: "Failed to register guest.",
		})
		return
	}

	writeJSON(w, http.StatusCreated, model.RegisterResponse{
		Success:        true,
		RegistrationID: reg.RegistrationID,
		Message:        "Registration successful! A confirmation email has been sent.",
	})
}

// ─── Session gate ─────────────────────────────────────────────────────────────

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login
// Verifies the admin credentials and sets the session cookie. Every failure
// returns the same generic message.
func (h *GuestHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	token, err := h.sessions.Login(req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Error("admin login", "error", err)
		}
		writeError(w, http.StatusUnauthorized, "Invalid credentials or unauthorized access.")
		return
	}

	http.SetCookie(w, h.sessions.NewSessionCookie(token))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged in."})
}

// Logout handles POST /api/admin/logout
func (h *GuestHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessions.ClearSessionCookie())
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out."})
}

// ─── Admin read model ─────────────────────────────────────────────────────────

// ListRegistrations handles GET /api/admin/registrations
// Returns the full collection of registrant documents, newest first.
func (h *GuestHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	guests, err := h.svc.ListRegistrants(r.Context())
	if err != nil {
		h.logger.Error("list registrations", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load participant data.")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if guests == nil {
		guests = []model.Registrant{}
	}
	writeJSON(w, http.StatusOK, guests)
}

// Stats handles GET /api/admin/registrations/stats
func (h *GuestHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.logger.Error("registration stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load participant data.")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ExportCSV handles GET /api/admin/registrations/export
// Streams the loaded registrant set as a CSV attachment.
func (h *GuestHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	guests, err := h.svc.ListRegistrants(r.Context())
	if err != nil {
		h.logger.Error("export registrations", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load participant data.")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="summit_participants.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"ID", "Name", "Email", "WhatsApp", "Mobile", "Address",
		"City", "State", "FollowsGita", "GitaRating", "RegisteredOn",
	})
	for _, g := range guests {
		_ = cw.Write([]string{
			g.RegistrationID, g.Name, g.Email, g.Whatsapp, g.Mobile,
			g.Address, g.City, g.State,
			orNA(g.FollowsGita), orNA(g.GitaSelfRating),
			formatRegisteredOn(g.CreatedAt),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("write csv", "error", err)
	}
}

func orNA(v *string) string {
	if v == nil || *v == "" {
		return "N/A"
	}
	return *v
}

func formatRegisteredOn(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(registeredOnFormat)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
