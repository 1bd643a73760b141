package mailer

import (
	"context"
	"fmt"
	"time"

	"trainhub/training-app/internal/config"
	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"
	"trainhub/training-app/internal/service"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

// Dispatcher runs the periodic progress-report job: on each scheduled run
// it persists a report per client covering the previous calendar month and
// mails out the replay link.
type Dispatcher struct {
	reports  service.ReportService
	userRepo repository.UserRepository
	mailer   *Mailer
	cfg      config.ReportsConfig
	cron     *cron.Cron
	log      *logrus.Entry

	// now is swappable in tests.
	now func() time.Time
}

// NewDispatcher creates a new report dispatcher.
func NewDispatcher(
	reports service.ReportService,
	userRepo repository.UserRepository,
	mailer *Mailer,
	cfg config.ReportsConfig,
) *Dispatcher {
	return &Dispatcher{
		reports:  reports,
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
		cron:     cron.New(),
		log:      logrus.WithField("component", "report-dispatcher"),
		now:      time.Now,
	}
}

// Start registers the cron schedule and begins running it.
func (d *Dispatcher) Start() error {
	if !d.cfg.Enabled {
		d.log.Info("report dispatch disabled")
		return nil
	}
	err := d.cron.AddFunc(d.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := d.RunOnce(ctx); err != nil {
			d.log.WithError(err).Error("report dispatch run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", d.cfg.Schedule, err)
	}
	d.cron.Start()
	d.log.WithField("schedule", d.cfg.Schedule).Info("report dispatch scheduled")
	return nil
}

// Stop halts the cron scheduler. A run already in flight completes.
func (d *Dispatcher) Stop() {
	d.cron.Stop()
}

// RunOnce dispatches a previous-calendar-month report to every client.
// Per-client failures are logged and skipped so one bad address does not
// starve the rest of the run.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	from, to := previousMonth(d.now().UTC())

	clients, err := d.userRepo.GetByRole(ctx, domain.RoleClient)
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}

	sent := 0
	for _, client := range clients {
		if !client.IsActive || client.Email == "" {
			continue
		}
		report, err := d.reports.CreateReport(ctx, client.ID, &from, &to)
		if err != nil {
			d.log.WithError(err).WithField("clientId", client.ID.Hex()).Error("failed to create report")
			continue
		}
		link := fmt.Sprintf("%s/reports/%s", d.cfg.PublicBaseURL, report.Token)
		if err := d.mailer.SendReportLink(client.Email, client.Name, link); err != nil {
			continue
		}
		sent++
	}

	d.log.WithFields(logrus.Fields{"clients": len(clients), "sent": sent}).Info("report dispatch run completed")
	return nil
}

// previousMonth returns the first and last calendar day of the month
// preceding ref, at midnight UTC. These are the same date-only bounds the
// front end sends when a user requests a month report.
func previousMonth(ref time.Time) (time.Time, time.Time) {
	firstOfThis := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstOfPrev := firstOfThis.AddDate(0, -1, 0)
	lastOfPrev := firstOfThis.AddDate(0, 0, -1)
	return firstOfPrev, lastOfPrev
}
