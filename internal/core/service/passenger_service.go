package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/airrush/charter-api/internal/api/metrics"
	"github.com/airrush/charter-api/internal/core/domain"
	"github.com/airrush/charter-api/internal/core/ports"
	"github.com/airrush/charter-api/internal/geo"
)

const defaultTicketClass = "Economy"

// PassengerService implements ports.PassengerService. Passenger locations
// arrive as loose inputs and are normalized through the GeoResolver; a
// failed resolution at create time degrades to the configured default
// origin instead of failing the booking.
type PassengerService struct {
	repo          ports.PassengerRepository
	geo           ports.GeoResolver
	events        ports.EventSink
	defaultOrigin domain.PassengerLocation
	logger        zerolog.Logger
}

func NewPassengerService(
	repo ports.PassengerRepository,
	geo ports.GeoResolver,
	events ports.EventSink,
	defaultOrigin domain.PassengerLocation,
	logger zerolog.Logger,
) *PassengerService {
	return &PassengerService{
		repo:          repo,
		geo:           geo,
		events:        events,
		defaultOrigin: defaultOrigin,
		logger:        logger,
	}
}

// Create registers a new passenger booking.
func (s *PassengerService) Create(ctx context.Context, input ports.CreatePassengerInput) (*domain.PassengerBooking, error) {
	if input.CustomerName == "" || input.CustomerEmail == "" {
		return nil, fmt.Errorf("%w: customerName and customerEmail are required", domain.ErrMissingRequiredField)
	}

	fallback := s.defaultOrigin
	origin, err := s.resolve(ctx, input.Origin, &fallback)
	if err != nil {
		return nil, err
	}
	destination, err := s.resolve(ctx, input.Destination, origin)
	if err != nil {
		return nil, err
	}

	ticketClass := input.TicketClass
	if ticketClass == "" {
		ticketClass = defaultTicketClass
	}

	now := time.Now().UTC()
	booking := &domain.PassengerBooking{
		Airwaybill:      generatePassengerAirwaybill(),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		Phone:           input.Phone,
		Origin:          *origin,
		Destination:     *destination,
		CurrentLocation: *origin,
		TicketClass:     ticketClass,
		SpecialRequests: input.SpecialRequests,
		Status:          domain.PassengerBooked,
		Price:           input.Price,
		DepartureDate:   input.DepartureDate,
		ArrivalDate:     input.ArrivalDate,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.PassengerDetails != nil {
		booking.PassengerDetails.PassengerList = toPassengerRecords(input.PassengerDetails.PassengerList)
	}
	booking.RecountPassengers()
	booking.AppendCheckpoint(domain.PassengerCheckpoint{
		City:        origin.City,
		Coordinates: origin.Coordinates,
		DisplayName: origin.DisplayName,
		Country:     origin.Country,
		Note:        "Booking created",
		Timestamp:   now,
	})

	for attempt := 0; attempt < airwaybillAttempts; attempt++ {
		if err = s.repo.Insert(ctx, booking); err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateAirwaybill) {
			s.logger.Error().Err(err).Msg("failed to create passenger booking")
			return nil, err
		}
		booking.Airwaybill = generatePassengerAirwaybill()
	}
	if err != nil {
		return nil, fmt.Errorf("create passenger: %w", err)
	}

	metrics.BookingsCreatedTotal.WithLabelValues(string(ports.KindPassenger)).Inc()
	s.logger.Info().
		Str("airwaybill", booking.Airwaybill).
		Str("customer", booking.CustomerEmail).
		Int("passengers", booking.PassengerDetails.NumberOfPassengers).
		Msg("passenger booking created")

	s.emit(booking)
	return booking, nil
}

// List returns all passenger bookings, newest first.
func (s *PassengerService) List(ctx context.Context) ([]*domain.PassengerBooking, error) {
	return s.repo.FindAll(ctx)
}

// Get retrieves a passenger booking by airwaybill.
func (s *PassengerService) Get(ctx context.Context, airwaybill string) (*domain.PassengerBooking, error) {
	return s.repo.FindByAirwaybill(ctx, airwaybill)
}

// Update applies a field patch. Location inputs are resolved through the
// GeoResolver and an unresolvable location rejects the patch. Passenger
// status changes are unguarded: the admin console corrects bookings in any
// direction.
func (s *PassengerService) Update(ctx context.Context, airwaybill string, patch ports.UpdatePassengerInput) (*domain.PassengerBooking, error) {
	booking, err := s.repo.FindByAirwaybill(ctx, airwaybill)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prevStatus := booking.Status
	prevLocation := booking.CurrentLocation

	if patch.Origin != nil {
		resolved, err := s.resolveStrict(ctx, patch.Origin, "origin")
		if err != nil {
			return nil, err
		}
		booking.Origin = *resolved
		// Moving the origin moves the passenger unless the patch says otherwise.
		if patch.CurrentLocation == nil {
			booking.CurrentLocation = *resolved
		}
	}
	if patch.Destination != nil {
		resolved, err := s.resolveStrict(ctx, patch.Destination, "destination")
		if err != nil {
			return nil, err
		}
		booking.Destination = *resolved
	}
	if patch.CurrentLocation != nil {
		resolved, err := s.resolveStrict(ctx, patch.CurrentLocation, "current location")
		if err != nil {
			return nil, err
		}
		booking.CurrentLocation = *resolved
	}

	if patch.CustomerName != nil {
		booking.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		booking.CustomerEmail = *patch.CustomerEmail
	}
	if patch.Phone != nil {
		booking.Phone = *patch.Phone
	}
	if patch.TicketClass != nil {
		booking.TicketClass = *patch.TicketClass
	}
	if patch.SpecialRequests != nil {
		booking.SpecialRequests = *patch.SpecialRequests
	}
	if patch.Status != nil {
		next := domain.PassengerStatus(*patch.Status)
		if !next.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, *patch.Status)
		}
		booking.Status = next
	}
	if patch.DepartureDate != nil {
		booking.DepartureDate = patch.DepartureDate
	}
	if patch.ArrivalDate != nil {
		booking.ArrivalDate = patch.ArrivalDate
	}
	if patch.Price != nil {
		booking.Price = *patch.Price
	}
	if patch.PassengerDetails != nil {
		booking.PassengerDetails.PassengerList = toPassengerRecords(patch.PassengerDetails.PassengerList)
	}
	booking.RecountPassengers()

	// Keep the ledger authoritative: a moved current location becomes a
	// checkpoint, so currentLocation == last checkpoint still holds.
	if !samePassengerPlace(booking.CurrentLocation, prevLocation) {
		loc := booking.CurrentLocation
		booking.AppendCheckpoint(domain.PassengerCheckpoint{
			City:        loc.City,
			Coordinates: loc.Coordinates,
			DisplayName: loc.DisplayName,
			Country:     loc.Country,
			Note:        "Location updated",
			Timestamp:   now,
		})
	}

	booking.UpdatedAt = now
	if err := s.repo.Replace(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.TransitionErrorsTotal.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	if booking.Status != prevStatus {
		metrics.StatusTransitionsTotal.WithLabelValues(string(ports.KindPassenger), string(booking.Status)).Inc()
	}
	s.logger.Info().
		Str("airwaybill", booking.Airwaybill).
		Str("status", string(booking.Status)).
		Msg("passenger booking updated")

	s.emit(booking)
	return booking, nil
}

// AddCheckpoint records one stop on the passenger's journey and makes it
// the current location.
func (s *PassengerService) AddCheckpoint(ctx context.Context, airwaybill string, input ports.AddCheckpointInput) (*domain.PassengerBooking, error) {
	if input.City == "" || input.Coordinates == nil {
		return nil, domain.ErrInvalidCheckpoint
	}

	booking, err := s.repo.FindByAirwaybill(ctx, airwaybill)
	if err != nil {
		return nil, err
	}

	country := countryFromDisplayName(input.DisplayName)
	displayName := input.DisplayName
	if country != "" {
		displayName = input.City + ", " + country
	} else if displayName == "" {
		displayName = input.City
	}

	booking.AppendCheckpoint(domain.PassengerCheckpoint{
		City:        input.City,
		Coordinates: *input.Coordinates,
		DisplayName: displayName,
		Country:     country,
		Note:        input.Note,
		Timestamp:   time.Now().UTC(),
	})

	booking.UpdatedAt = time.Now().UTC()
	if err := s.repo.Replace(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.TransitionErrorsTotal.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	s.logger.Info().
		Str("airwaybill", booking.Airwaybill).
		Str("city", input.City).
		Msg("passenger checkpoint added")
	return booking, nil
}

// Delete removes a passenger booking permanently. The detached record is
// flipped to Cancelled purely to drive the cancellation e-mail before it
// is discarded.
func (s *PassengerService) Delete(ctx context.Context, airwaybill string) error {
	booking, err := s.repo.FindByAirwaybill(ctx, airwaybill)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, airwaybill); err != nil {
		return err
	}

	booking.Status = domain.PassengerCancelled
	s.logger.Info().Str("airwaybill", airwaybill).Msg("passenger booking deleted")
	s.emit(booking)
	return nil
}

// resolve runs the GeoResolver with a fallback; a nil input resolves to
// the fallback directly.
func (s *PassengerService) resolve(ctx context.Context, in *ports.LocationInput, fallback *domain.PassengerLocation) (*domain.PassengerLocation, error) {
	if in == nil {
		return fallback, nil
	}
	resolved, err := s.geo.Resolve(ctx, *in, fallback)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return fallback, nil
	}
	return resolved, nil
}

// resolveStrict resolves without a fallback and rejects unresolvable input.
func (s *PassengerService) resolveStrict(ctx context.Context, in *ports.LocationInput, field string) (*domain.PassengerLocation, error) {
	resolved, err := s.geo.Resolve(ctx, *in, nil)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return nil, fmt.Errorf("%w: invalid %s", domain.ErrInvalidLocation, field)
	}
	return resolved, nil
}

func (s *PassengerService) emit(booking *domain.PassengerBooking) {
	if s.events == nil {
		return
	}
	snap := *booking
	snap.Route = append([]domain.PassengerCheckpoint(nil), booking.Route...)
	s.events.Enqueue(ports.StatusEvent{
		ID:        uuid.NewString(),
		Kind:      ports.KindPassenger,
		Passenger: &snap,
	})
}

// generatePassengerAirwaybill returns an airwaybill in the format
// PASS_XXXXXXXXXXXX (twelve uppercase hex characters).
func generatePassengerAirwaybill() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("PASS_%012X", time.Now().UnixNano()&0xFFFFFFFFFFFF)
	}
	return fmt.Sprintf("PASS_%X", b)
}

// countryFromDisplayName derives a country from the trailing comma segment
// of a display name, e.g. "Mombasa, Kenya" or "Lyon, FR".
func countryFromDisplayName(displayName string) string {
	if !strings.Contains(displayName, ",") {
		return ""
	}
	parts := strings.Split(displayName, ",")
	return geo.NormalizeCountry(parts[len(parts)-1])
}

// samePassengerPlace compares every location field. A geocoder revision
// that only changes the display name or country still counts as a move,
// so the ledger stays in step with currentLocation.
func samePassengerPlace(a, b domain.PassengerLocation) bool {
	return a == b
}

func toPassengerRecords(in []ports.PassengerRecordInput) []domain.PassengerRecord {
	out := make([]domain.PassengerRecord, 0, len(in))
	for _, r := range in {
		rec := domain.PassengerRecord{
			Name:       r.Name,
			PassportNo: r.PassportNo,
			IDNo:       r.IDNo,
			SeatNo:     r.SeatNo,
			Gender:     r.Gender,
		}
		if r.Age != nil {
			age := *r.Age
			rec.Age = &age
		}
		out = append(out, rec)
	}
	return out
}
