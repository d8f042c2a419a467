package ports

import (
	"context"
	"time"

	"github.com/airrush/charter-api/internal/core/domain"
)

// PassengerRecordInput is one manifest entry.
type PassengerRecordInput struct {
	Name       string
	PassportNo string
	IDNo       string
	SeatNo     string
	Age        *int
	Gender     string
}

// PassengerDetailsInput carries the manifest; the count is derived
// server-side regardless of what the caller sends.
type PassengerDetailsInput struct {
	PassengerList []PassengerRecordInput
}

// CreatePassengerInput carries all data needed to create a passenger booking.
// Origin and Destination are loose location inputs resolved through the
// GeoResolver before storage.
type CreatePassengerInput struct {
	CustomerName     string
	CustomerEmail    string
	Phone            string
	Origin           *LocationInput
	Destination      *LocationInput
	TicketClass      string
	SpecialRequests  string
	PassengerDetails *PassengerDetailsInput
	DepartureDate    *time.Time
	ArrivalDate      *time.Time
	Price            float64
}

// UpdatePassengerInput is the whitelist of mutable fields. Nil means
// "leave unchanged".
type UpdatePassengerInput struct {
	CustomerName     *string
	CustomerEmail    *string
	Phone            *string
	Origin           *LocationInput
	Destination      *LocationInput
	CurrentLocation  *LocationInput
	TicketClass      *string
	SpecialRequests  *string
	Status           *string
	DepartureDate    *time.Time
	ArrivalDate      *time.Time
	Price            *float64
	PassengerDetails *PassengerDetailsInput
}

// AddCheckpointInput records one stop on the passenger's journey.
type AddCheckpointInput struct {
	City        string
	Coordinates *domain.Coordinates
	DisplayName string
	Note        string
}

// PassengerService defines use-case operations for passenger bookings.
type PassengerService interface {
	Create(ctx context.Context, input CreatePassengerInput) (*domain.PassengerBooking, error)
	List(ctx context.Context) ([]*domain.PassengerBooking, error)
	Get(ctx context.Context, airwaybill string) (*domain.PassengerBooking, error)
	Update(ctx context.Context, airwaybill string, patch UpdatePassengerInput) (*domain.PassengerBooking, error)
	AddCheckpoint(ctx context.Context, airwaybill string, input AddCheckpointInput) (*domain.PassengerBooking, error)
	Delete(ctx context.Context, airwaybill string) error
}
