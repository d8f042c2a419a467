package ports

import (
	"context"

	"github.com/airrush/charter-api/internal/core/domain"
)

// CargoRepository defines persistence operations for cargo bookings.
type CargoRepository interface {
	// Insert persists a new booking. Returns domain.ErrDuplicateAirwaybill
	// when the airwaybill is already taken.
	Insert(ctx context.Context, c *domain.CargoBooking) error

	FindByAirwaybill(ctx context.Context, airwaybill string) (*domain.CargoBooking, error)

	// FindAll returns every booking, newest first.
	FindAll(ctx context.Context) ([]*domain.CargoBooking, error)

	// Replace overwrites the stored document, guarded by the version the
	// booking was loaded with. A concurrent writer having bumped the version
	// surfaces as domain.ErrConflict; on success the in-memory Version is
	// incremented.
	Replace(ctx context.Context, c *domain.CargoBooking) error

	// Delete removes the booking permanently.
	Delete(ctx context.Context, airwaybill string) error
}
