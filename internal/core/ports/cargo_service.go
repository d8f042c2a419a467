package ports

import (
	"context"
	"time"

	"github.com/airrush/charter-api/internal/core/domain"
)

// CargoLocationInput carries a possibly partial location from the transport
// layer. Lat/Lng are pointers so "absent" and "zero" stay distinguishable.
type CargoLocationInput struct {
	City    string
	Country string
	Lat     *float64
	Lng     *float64
}

// Complete reports whether all four fields are present.
func (l CargoLocationInput) Complete() bool {
	return l.City != "" && l.Country != "" && l.Lat != nil && l.Lng != nil
}

// CargoDetailsInput carries consignment details. Volume is accepted but
// always recomputed from the dimensions.
type CargoDetailsInput struct {
	Description string
	Weight      float64
	Quantity    int
	Length      float64
	Width       float64
	Height      float64
	Volume      float64
}

// CreateCargoInput carries all data needed to create a cargo booking.
type CreateCargoInput struct {
	CustomerName  string
	CustomerEmail string
	Origin        *CargoLocationInput
	Destination   *CargoLocationInput
	CargoDetails  CargoDetailsInput
	Price         float64
	DepartureDate *time.Time
	ArrivalDate   *time.Time
}

// UpdateCargoInput is the whitelist of mutable fields for the generic
// update endpoint. Nil means "leave unchanged".
type UpdateCargoInput struct {
	CustomerName    *string
	CustomerEmail   *string
	Origin          *CargoLocationInput
	Destination     *CargoLocationInput
	CurrentLocation *CargoLocationInput
	CargoDetails    *CargoDetailsInput
	Price           *float64
	DepartureDate   *time.Time
	ArrivalDate     *time.Time
	Status          *string
	DelayReason     *string
	WithdrawReason  *string
}

// CargoService defines use-case operations for cargo bookings.
type CargoService interface {
	Create(ctx context.Context, input CreateCargoInput) (*domain.CargoBooking, error)
	List(ctx context.Context) ([]*domain.CargoBooking, error)
	Get(ctx context.Context, airwaybill string) (*domain.CargoBooking, error)
	Update(ctx context.Context, airwaybill string, patch UpdateCargoInput) (*domain.CargoBooking, error)
	TransitionStatus(ctx context.Context, airwaybill, status string, location CargoLocationInput) (*domain.CargoBooking, error)
	Withdraw(ctx context.Context, airwaybill, reason string) (*domain.CargoBooking, error)
	Delete(ctx context.Context, airwaybill string) error
	Receipt(ctx context.Context, airwaybill string) ([]byte, error)
}
