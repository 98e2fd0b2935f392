package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gieo-gita/summit-registration/internal/mailer"
	"github.com/gieo-gita/summit-registration/internal/metrics"
	"github.com/gieo-gita/summit-registration/internal/model"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

func registrant() model.Registrant {
	return model.Registrant{
		RegistrationID: "11111111-2222-3333-4444-555555555555",
		Name:           "Asha Rao",
		Email:          "asha@example.com",
		Whatsapp:       "9876543210",
	}
}

func newTestDispatcher(sender mailer.Sender) (*Dispatcher, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := NewDispatcher(sender, "ops@example.com", "https://summit.example.com/admin", logger, m)
	return d, m
}

func TestDispatcherSendsBothEmails(t *testing.T) {
	sender := &fakeSender{}
	d, m := newTestDispatcher(sender)
	d.Start()

	reg := registrant()
	d.EnqueueRegistration(reg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.Stop(ctx)

	msgs := sender.messages()
	require.Len(t, msgs, 2)

	assert.Equal(t, reg.Email, msgs[0].To)
	assert.Equal(t, mailer.SubjectParticipant, msgs[0].Subject)
	assert.Contains(t, msgs[0].HTML, reg.RegistrationID)

	assert.Equal(t, "ops@example.com", msgs[1].To)
	assert.Equal(t, mailer.SubjectAdmin, msgs[1].Subject)
	assert.Contains(t, msgs[1].HTML, reg.RegistrationID)
	assert.Contains(t, msgs[1].HTML, reg.Whatsapp)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.NotificationsSent))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.NotificationsFailed))
}

func TestDispatcherCountsFailures(t *testing.T) {
	sender := &fakeSender{err: errors.New("relay down")}
	d, m := newTestDispatcher(sender)
	d.Start()

	d.EnqueueRegistration(registrant())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.Stop(ctx)

	// Both sends are attempted independently; one failing never stops the
	// other, and neither failure surfaces to the caller.
	assert.Equal(t, float64(2), testutil.ToFloat64(m.NotificationsFailed))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.NotificationsSent))
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sender := &fakeSender{}
	d, m := newTestDispatcher(sender)
	// Worker intentionally not started, so the queue only drains by filling.
	d.jobs = make(chan Job, 1)

	d.EnqueueRegistration(registrant())
	d.EnqueueRegistration(registrant())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsDropped))
}
