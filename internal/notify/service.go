// Package notify delivers status e-mails for booking transitions. Delivery
// is best-effort and at-most-once per persisted transition: failures are
// logged and counted, never propagated back to the mutation that triggered
// them.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/airrush/charter-api/internal/api/metrics"
	"github.com/airrush/charter-api/internal/core/ports"
)

// Dedup abstracts the at-most-once guard (Redis). Keys are derived from
// the airwaybill, the persisted aggregate version and the status, so each
// transition sends at most one e-mail no matter how often the event is
// replayed.
type Dedup interface {
	AlreadySent(ctx context.Context, ev ports.StatusEvent) (bool, error)
	MarkSent(ctx context.Context, ev ports.StatusEvent) error
}

// Service implements ports.NotificationService.
type Service struct {
	mailer ports.Mailer
	dedup  Dedup
	log    zerolog.Logger
}

func NewService(mailer ports.Mailer, dedup Dedup, log zerolog.Logger) *Service {
	return &Service{mailer: mailer, dedup: dedup, log: log}
}

// Deliver renders and sends the status e-mail for one event. Statuses with
// no mapped template are a no-op.
func (s *Service) Deliver(ctx context.Context, ev ports.StatusEvent) error {
	if s.dedup != nil {
		sent, err := s.dedup.AlreadySent(ctx, ev)
		if err != nil {
			s.log.Warn().Err(err).Str("airwaybill", ev.Airwaybill()).Msg("notification dedup check failed, sending anyway")
		} else if sent {
			metrics.NotificationDedupTotal.WithLabelValues("hit").Inc()
			s.log.Debug().Str("airwaybill", ev.Airwaybill()).Str("status", ev.Status()).Msg("duplicate notification skipped")
			return nil
		} else {
			metrics.NotificationDedupTotal.WithLabelValues("miss").Inc()
		}
	}

	to, subject, body, ok, err := s.render(ev)
	if err != nil {
		metrics.NotificationErrorsTotal.WithLabelValues("render").Inc()
		return fmt.Errorf("render notification: %w", err)
	}
	if !ok {
		return nil
	}

	// Mark before sending: a crashed send may lose one e-mail but can
	// never double-send a transition.
	if s.dedup != nil {
		if err := s.dedup.MarkSent(ctx, ev); err != nil {
			s.log.Warn().Err(err).Str("airwaybill", ev.Airwaybill()).Msg("failed to set notification dedup key")
		}
	}

	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		metrics.NotificationErrorsTotal.WithLabelValues("send").Inc()
		return fmt.Errorf("send notification: %w", err)
	}

	metrics.NotificationsSentTotal.WithLabelValues(string(ev.Kind), ev.Status()).Inc()
	s.log.Info().
		Str("airwaybill", ev.Airwaybill()).
		Str("status", ev.Status()).
		Str("kind", string(ev.Kind)).
		Msg("status notification sent")
	return nil
}

func (s *Service) render(ev ports.StatusEvent) (to, subject, body string, ok bool, err error) {
	switch {
	case ev.Cargo != nil:
		subject, body, err = renderCargo(ev.Cargo)
		return ev.Cargo.CustomerEmail, subject, body, err == nil, err
	case ev.Passenger != nil:
		subject, body, ok, err = renderPassenger(ev.Passenger)
		return ev.Passenger.CustomerEmail, subject, body, ok, err
	default:
		return "", "", "", false, nil
	}
}
