package mail

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/PFigs/sms-pusher/internal/common"
	"github.com/PFigs/sms-pusher/internal/dispatch"
)

// SMTPSender is the slice of gomail.Dialer the confirmer needs, kept as an
// interface so tests can capture messages instead of dialing.
type SMTPSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Confirmer emails each contact after the SMS batch: one body for contacts
// whose SMS went out, another for those it failed to reach.
type Confirmer struct {
	Config common.EmailConfig
	Sender SMTPSender
	Logger zerolog.Logger
}

func New(cfg common.EmailConfig, logger zerolog.Logger) *Confirmer {
	return &Confirmer{
		Config: cfg,
		Sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password),
		Logger: logger,
	}
}

// Notify walks the batch results in order. Contacts without an email
// address are skipped. Mail failures are logged and never escalate; the
// SMS report is the authoritative outcome of the run. Returns the number
// of confirmations actually sent.
func (c *Confirmer) Notify(ctx context.Context, results []dispatch.SendResult) int {
	sent := 0
	for _, r := range results {
		if r.Contact.Email == "" {
			c.Logger.Debug().Str("contact", r.Contact.String()).Msg("no email address, skipping confirmation")
			continue
		}

		m := gomail.NewMessage()
		m.SetHeader("From", c.Config.Sender)
		m.SetHeader("To", r.Contact.Email)
		m.SetHeader("Subject", c.Config.Subject)
		m.SetBody("text/plain", c.bodyFor(r.Status))

		if err := c.send(ctx, m); err != nil {
			c.Logger.Warn().Err(err).Str("to", r.Contact.Email).Msg("confirmation email failed")
			continue
		}
		sent++
	}
	return sent
}

func (c *Confirmer) bodyFor(status dispatch.Status) string {
	if status == dispatch.StatusSent {
		return c.Config.SuccessBody
	}
	return c.Config.ErrorBody
}

// send retries transient SMTP failures under a bounded backoff; the
// one-attempt rule applies to the SMS dispatch, not to confirmations.
func (c *Confirmer) send(ctx context.Context, m *gomail.Message) error {
	op := backoff.NewExponentialBackOff()
	op.MaxElapsedTime = 15 * time.Second
	return backoff.Retry(func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		return c.Sender.DialAndSend(m)
	}, op)
}
