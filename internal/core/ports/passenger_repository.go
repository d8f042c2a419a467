package ports

import (
	"context"

	"github.com/airrush/charter-api/internal/core/domain"
)

// PassengerRepository defines persistence operations for passenger bookings.
// Semantics mirror CargoRepository (duplicate detection on Insert,
// version-guarded Replace, hard Delete).
type PassengerRepository interface {
	Insert(ctx context.Context, p *domain.PassengerBooking) error
	FindByAirwaybill(ctx context.Context, airwaybill string) (*domain.PassengerBooking, error)
	FindAll(ctx context.Context) ([]*domain.PassengerBooking, error)
	Replace(ctx context.Context, p *domain.PassengerBooking) error
	Delete(ctx context.Context, airwaybill string) error
}
