package ports

import (
	"context"

	"github.com/airrush/charter-api/internal/core/domain"
)

// BookingKind discriminates the two aggregate families in a StatusEvent.
type BookingKind string

const (
	KindCargo     BookingKind = "cargo"
	KindPassenger BookingKind = "passenger"
)

// StatusEvent is emitted after a booking mutation has been persisted. It
// carries a detached snapshot of the aggregate so the notification path
// never touches the store. Exactly one of Cargo/Passenger is set.
type StatusEvent struct {
	ID        string
	Kind      BookingKind
	Cargo     *domain.CargoBooking
	Passenger *domain.PassengerBooking
}

// Airwaybill returns the identifier of whichever booking the event carries.
func (e StatusEvent) Airwaybill() string {
	if e.Cargo != nil {
		return e.Cargo.Airwaybill
	}
	if e.Passenger != nil {
		return e.Passenger.Airwaybill
	}
	return ""
}

// Status returns the booking status as a string for logging and dedup keys.
func (e StatusEvent) Status() string {
	if e.Cargo != nil {
		return string(e.Cargo.Status)
	}
	if e.Passenger != nil {
		return string(e.Passenger.Status)
	}
	return ""
}

// Version returns the persisted aggregate version the event corresponds to.
// Together with the airwaybill and the status it identifies one transition
// exactly once; a cancellation emitted on delete reuses the last persisted
// version, so the version alone is not unique.
func (e StatusEvent) Version() int64 {
	if e.Cargo != nil {
		return e.Cargo.Version
	}
	if e.Passenger != nil {
		return e.Passenger.Version
	}
	return 0
}

// EventSink accepts status events for asynchronous delivery. Enqueue must
// be called only after the mutation has been persisted, and must never
// block the mutation path on delivery failures.
type EventSink interface {
	Enqueue(ev StatusEvent)
}

// NotificationService delivers a single status event (template selection,
// dedup, send). Errors are for the caller's logs only; they carry no
// rollback semantics.
type NotificationService interface {
	Deliver(ctx context.Context, ev StatusEvent) error
}

// Mailer sends one rendered e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
