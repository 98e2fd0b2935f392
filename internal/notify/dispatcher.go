// Package notify dispatches registration emails on a background worker so
// mail relay latency or failure never touches the HTTP response.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gieo-gita/summit-registration/internal/mailer"
	"github.com/gieo-gita/summit-registration/internal/metrics"
	"github.com/gieo-gita/summit-registration/internal/model"
)

// Job carries everything needed to render both notification emails for one
// registration.
type Job struct {
	Name           string
	Email          string
	Whatsapp       string
	RegistrationID string
}

// Dispatcher owns a buffered job queue drained by one worker goroutine.
// Jobs enqueued after a successful persist are delivered best-effort: no
// retries, no delivery state written back. Failures are logged and counted.
type Dispatcher struct {
	sender       mailer.Sender
	adminEmail   string
	dashboardURL string
	logger       *slog.Logger
	metrics      *metrics.Metrics

	jobs        chan Job
	sendTimeout time.Duration
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

// NewDispatcher constructs a stopped dispatcher; call Start before Enqueue.
func NewDispatcher(sender mailer.Sender, adminEmail, dashboardURL string, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		sender:       sender,
		adminEmail:   adminEmail,
		dashboardURL: dashboardURL,
		logger:       logger,
		metrics:      m,
		jobs:         make(chan Job, 256),
		sendTimeout:  30 * time.Second,
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for job := range d.jobs {
			d.deliver(job)
		}
	}()
}

// EnqueueRegistration queues both notification emails for a persisted
// registrant. It never blocks the request path: a full queue drops the job
// with a log line and a counter bump.
func (d *Dispatcher) EnqueueRegistration(reg model.Registrant) {
	job := Job{
		Name:           reg.Name,
		Email:          reg.Email,
		Whatsapp:       reg.Whatsapp,
		RegistrationID: reg.RegistrationID,
	}
	select {
	case d.jobs <- job:
	default:
		d.metrics.NotificationsDropped.Inc()
		d.logger.Error("notification queue full, dropping job",
			"registration_id", job.RegistrationID)
	}
}

// Stop closes the queue and waits for in-flight deliveries, bounded by ctx.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.closeOnce.Do(func() { close(d.jobs) })
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		d.logger.Warn("shutdown deadline reached with notifications pending")
	}
}

// deliver sends the participant and admin emails independently; one failing
// never stops the other.
func (d *Dispatcher) deliver(job Job) {
	participant, err := mailer.ParticipantEmail(job.Email, job.Name, job.RegistrationID)
	if err != nil {
		d.metrics.NotificationsFailed.Inc()
		d.logger.Error("render participant email", "error", err,
			"registration_id", job.RegistrationID)
	} else {
		d.send(participant, job.RegistrationID)
	}

	admin, err := mailer.AdminEmail(d.adminEmail, job.Name, job.Email, job.Whatsapp,
		job.RegistrationID, d.dashboardURL)
	if err != nil {
		d.metrics.NotificationsFailed.Inc()
		d.logger.Error("render admin email", "error", err,
			"registration_id", job.RegistrationID)
		return
	}
	d.send(admin, job.RegistrationID)
}

func (d *Dispatcher) send(msg mailer.Message, registrationID string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.metrics.NotificationsFailed.Inc()
		d.logger.Error("send notification email", "error", err,
			"to", msg.To, "registration_id", registrationID)
		return
	}
	d.metrics.NotificationsSent.Inc()
}
