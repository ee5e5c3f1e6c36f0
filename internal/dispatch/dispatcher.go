package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/PFigs/sms-pusher/internal/common"
	"github.com/PFigs/sms-pusher/internal/contacts"
	"github.com/PFigs/sms-pusher/internal/sms"
)

type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// SendResult records the outcome of one dispatch. Detail is the provider
// message id on success, or a human-readable failure reason.
type SendResult struct {
	Contact contacts.Contact
	Status  Status
	Detail  string
}

var sendCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sms_sends_total",
	Help: "Total SMS dispatch attempts by outcome",
}, []string{"status"})

type Dispatcher struct {
	Provider    sms.Provider
	SendTimeout time.Duration
	Logger      zerolog.Logger
}

// Run sends the rendered message to each contact in order, one attempt per
// contact. A failed send is recorded and the loop moves on; cancellation
// stops further attempts but already-produced results remain reportable,
// with the untried remainder recorded as failed.
func (d *Dispatcher) Run(ctx context.Context, out Outbound, list []contacts.Contact) ([]SendResult, error) {
	if d.Provider == nil {
		return nil, errors.New("dispatcher requires a provider")
	}
	timeout := d.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	tracer := otel.Tracer("dispatch")
	results := make([]SendResult, 0, len(list))

	for _, contact := range list {
		if ctx.Err() != nil {
			results = append(results, d.record(contact, StatusFailed, "cancelled before send"))
			continue
		}

		spanCtx, span := tracer.Start(ctx, "send_sms")
		span.SetAttributes(
			attribute.String("sms.provider", d.Provider.Name()),
			attribute.String("sms.to", contact.Phone),
		)
		logger := common.WithContext(spanCtx, d.Logger)

		callCtx, cancel := context.WithTimeout(spanCtx, timeout)
		id, err := d.Provider.Send(callCtx, sms.Message{
			From: out.Sender,
			To:   contact.Phone,
			Text: out.For(contact),
		})
		cancel()

		if err != nil {
			span.RecordError(err)
			span.End()
			logger.Warn().Err(err).Str("to", contact.Phone).Msg("send failed")
			results = append(results, d.record(contact, StatusFailed, err.Error()))
			continue
		}

		span.End()
		logger.Info().Str("to", contact.Phone).Str("message_id", id).Msg("sms sent")
		results = append(results, d.record(contact, StatusSent, id))
	}

	return results, nil
}

func (d *Dispatcher) record(contact contacts.Contact, status Status, detail string) SendResult {
	sendCounter.WithLabelValues(string(status)).Inc()
	return SendResult{Contact: contact, Status: status, Detail: detail}
}
