package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gieo-gita/summit-registration/internal/auth"
	"github.com/gieo-gita/summit-registration/internal/config"
	"github.com/gieo-gita/summit-registration/internal/metrics"
	"github.com/gieo-gita/summit-registration/internal/model"
	"github.com/gieo-gita/summit-registration/internal/repository"
	"github.com/gieo-gita/summit-registration/internal/service"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "summit-secret"
)

type recordingNotifier struct {
	mu   sync.Mutex
	regs []model.Registrant
}

func (n *recordingNotifier) EnqueueRegistration(reg model.Registrant) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.regs = append(n.regs, reg)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.regs)
}

func newGuestRouter(t *testing.T) (http.Handler, *recordingNotifier) {
	t.Helper()
	store := repository.NewInMemory()
	notifier := &recordingNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := service.New(store, notifier, logger, metrics.New(prometheus.NewRegistry()))

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	sessions := auth.New(
		config.Admin{Email: adminEmail, PasswordHash: string(hash)},
		config.Session{SigningKey: "test-signing-key", TTL: time.Hour},
		logger,
	)

	h := NewGuestHandler(svc, sessions, logger)

	r := chi.NewRouter()
	r.Get("/health", HealthCheck)
	r.Post("/api/guests", h.RegisterGuest)
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Group(func(r chi.Router) {
			r.Use(sessions.RequireAdmin)
			r.Get("/registrations", h.ListRegistrations)
			r.Get("/registrations/stats", h.Stats)
			r.Get("/registrations/export", h.ExportCSV)
		})
	})
	return r, notifier
}

func validPayload() map[string]any {
	return map[string]any{
		"name":           "Asha Rao",
		"email":          "asha@example.com",
		"mobile":         "9876543210",
		"whatsapp":       "9876543210",
		"city":           "Pune",
		"state":          "Maharashtra",
		"address":        "12 MG Road",
		"followsGita":    "yes",
		"gitaSelfRating": "medium",
	}
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginCookie(t *testing.T, router http.Handler) *http.Cookie {
	t.Helper()
	rec := postJSON(t, router, "/api/admin/login", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	t.Fatal("login response did not set the session cookie")
	return nil
}

func adminGet(router http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterGuest(t *testing.T) {
	router, notifier := newGuestRouter(t)

	rec := postJSON(t, router, "/api/guests", validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp model.RegisterResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Registration successful! A confirmation email has been sent.", resp.Message)

	_, err := uuid.Parse(resp.RegistrationID)
	assert.NoError(t, err, "registrationId should be UUID-shaped")
	assert.Equal(t, 1, notifier.count())
}

func TestRegisterGuestInvalidMobile(t *testing.T) {
	router, notifier := newGuestRouter(t)

	payload := validPayload()
	payload["mobile"] = "12345"
	rec := postJSON(t, router, "/api/guests", payload)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp model.RegisterResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "mobile")
	assert.Empty(t, resp.RegistrationID)
	assert.Zero(t, notifier.count(), "no emails for a rejected submission")

	cookie := loginCookie(t, router)
	listRec := adminGet(router, "/api/admin/registrations", cookie)
	require.Equal(t, http.StatusOK, listRec.Code)
	assert.JSONEq(t, `[]`, listRec.Body.String())
}

func TestRegisterGuestMalformedBody(t *testing.T) {
	router, _ := newGuestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/guests", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminEndpointsRequireSession(t *testing.T) {
	router, _ := newGuestRouter(t)

	for _, path := range []string{
		"/api/admin/registrations",
		"/api/admin/registrations/stats",
		"/api/admin/registrations/export",
	} {
		rec := adminGet(router, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newGuestRouter(t)

	rec := postJSON(t, router, "/api/admin/login", map[string]string{
		"email":    adminEmail,
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Invalid credentials or unauthorized access.", resp.Message)
}

func TestAdminListingAndStats(t *testing.T) {
	router, _ := newGuestRouter(t)
	cookie := loginCookie(t, router)

	// Empty state first: zero documents, all aggregates zero.
	statsRec := adminGet(router, "/api/admin/registrations/stats", cookie)
	require.Equal(t, http.StatusOK, statsRec.Code)
	assert.JSONEq(t, `{"total":0,"followsGita":0,"notFollowsGita":0}`, statsRec.Body.String())

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/guests", validPayload()).Code)

	noGita := validPayload()
	noGita["email"] = "ravi@example.com"
	noGita["name"] = "Ravi Kumar"
	noGita["followsGita"] = "no"
	delete(noGita, "gitaSelfRating")
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/guests", noGita).Code)

	listRec := adminGet(router, "/api/admin/registrations", cookie)
	require.Equal(t, http.StatusOK, listRec.Code)
	var guests []model.Registrant
	require.NoError(t, json.NewDecoder(listRec.Body).Decode(&guests))
	require.Len(t, guests, 2)
	assert.Equal(t, "Ravi Kumar", guests[0].Name, "newest first")
	assert.Nil(t, guests[0].GitaSelfRating)

	statsRec = adminGet(router, "/api/admin/registrations/stats", cookie)
	require.Equal(t, http.StatusOK, statsRec.Code)
	assert.JSONEq(t, `{"total":2,"followsGita":1,"notFollowsGita":1}`, statsRec.Body.String())
}

func TestExportCSVRoundTrip(t *testing.T) {
	router, _ := newGuestRouter(t)
	cookie := loginCookie(t, router)

	tricky := validPayload()
	tricky["address"] = `12, "Gita Bhavan", MG Road`
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/guests", tricky).Code)

	plain := validPayload()
	plain["email"] = "ravi@example.com"
	plain["name"] = "Ravi Kumar"
	plain["followsGita"] = "no"
	delete(plain, "gitaSelfRating")
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/guests", plain).Code)

	rec := adminGet(router, "/api/admin/registrations/export", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "summit_participants.csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per registrant")

	assert.Equal(t, []string{
		"ID", "Name", "Email", "WhatsApp", "Mobile", "Address",
		"City", "State", "FollowsGita", "GitaRating", "RegisteredOn",
	}, rows[0])

	// Newest first: the plain registrant, then the tricky address
	// unescaped back to its original form.
	assert.Equal(t, "Ravi Kumar", rows[1][1])
	assert.Equal(t, "N/A", rows[1][9])
	assert.Equal(t, `12, "Gita Bhavan", MG Road`, rows[2][5])
}

func TestHealthCheck(t *testing.T) {
	router, _ := newGuestRouter(t)
	rec := adminGet(router, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
