package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/airrush/charter-api/internal/api/metrics"
	"github.com/airrush/charter-api/internal/core/domain"
	"github.com/airrush/charter-api/internal/core/ports"
)

// ReceiptPolicy gates receipt generation. The admin UI historically shipped
// both behaviours; which one applies is a deployment choice.
type ReceiptPolicy string

const (
	ReceiptAlways        ReceiptPolicy = "always"
	ReceiptWithdrawnOnly ReceiptPolicy = "withdrawn_only"
)

const defaultDelayReason = "No reason provided"

// airwaybillAttempts bounds the regenerate-on-collision loop at create time.
const airwaybillAttempts = 3

// CargoService implements ports.CargoService: the cargo booking lifecycle,
// route ledger maintenance, and the side effects each transition triggers.
type CargoService struct {
	repo          ports.CargoRepository
	receipts      ports.ReceiptRenderer
	events        ports.EventSink
	receiptPolicy ReceiptPolicy
	logger        zerolog.Logger
}

func NewCargoService(
	repo ports.CargoRepository,
	receipts ports.ReceiptRenderer,
	events ports.EventSink,
	receiptPolicy ReceiptPolicy,
	logger zerolog.Logger,
) *CargoService {
	if receiptPolicy == "" {
		receiptPolicy = ReceiptAlways
	}
	return &CargoService{
		repo:          repo,
		receipts:      receipts,
		events:        events,
		receiptPolicy: receiptPolicy,
		logger:        logger,
	}
}

// Create registers a new cargo airwaybill. Origin and destination are
// mandatory; the route ledger is seeded with one checkpoint at origin.
func (s *CargoService) Create(ctx context.Context, input ports.CreateCargoInput) (*domain.CargoBooking, error) {
	if input.Origin == nil || input.Destination == nil {
		return nil, fmt.Errorf("%w: origin and destination are required", domain.ErrMissingRequiredField)
	}

	now := time.Now().UTC()
	origin := toCargoLocation(*input.Origin, now)
	destination := toCargoLocation(*input.Destination, now)
	if !origin.Complete() || !destination.Complete() {
		return nil, fmt.Errorf("%w: origin and destination need city, country, lat, lng", domain.ErrMissingRequiredField)
	}

	details := toCargoDetails(input.CargoDetails)
	details.RecomputeVolume()

	cargo := &domain.CargoBooking{
		Airwaybill:      generateCargoAirwaybill(),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		Origin:          origin,
		Destination:     destination,
		CurrentLocation: origin,
		CargoDetails:    details,
		Status:          domain.CargoBooked,
		Price:           input.Price,
		DepartureDate:   input.DepartureDate,
		ArrivalDate:     input.ArrivalDate,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	cargo.AppendCheckpoint("Cargo created", now)

	var err error
	for attempt := 0; attempt < airwaybillAttempts; attempt++ {
		if err = s.repo.Insert(ctx, cargo); err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateAirwaybill) {
			s.logger.Error().Err(err).Msg("failed to create cargo")
			return nil, err
		}
		cargo.Airwaybill = generateCargoAirwaybill()
	}
	if err != nil {
		return nil, fmt.Errorf("create cargo: %w", err)
	}

	metrics.BookingsCreatedTotal.WithLabelValues(string(ports.KindCargo)).Inc()
	s.logger.Info().
		Str("airwaybill", cargo.Airwaybill).
		Str("customer", cargo.CustomerEmail).
		Msg("cargo created")

	s.emit(cargo)
	return cargo, nil
}

// List returns all cargo bookings, newest first.
func (s *CargoService) List(ctx context.Context) ([]*domain.CargoBooking, error) {
	return s.repo.FindAll(ctx)
}

// Get retrieves a single cargo booking by airwaybill.
func (s *CargoService) Get(ctx context.Context, airwaybill string) (*domain.CargoBooking, error) {
	return s.repo.FindByAirwaybill(ctx, airwaybill)
}

// Update applies a whitelisted field patch. A status in the patch is routed
// through the transition guard before anything is applied; a rejected
// status rejects the whole patch. Checkpoints are appended per the ledger
// rules and the volume is recomputed.
func (s *CargoService) Update(ctx context.Context, airwaybill string, patch ports.UpdateCargoInput) (*domain.CargoBooking, error) {
	cargo, err := s.repo.FindByAirwaybill(ctx, airwaybill)
	if err != nil {
		return nil, err
	}

	var next domain.CargoStatus
	if patch.Status != nil {
		next = domain.CargoStatus(*patch.Status)
		if err := domain.ValidateCargoTransition(cargo.Status, next, cargo.DelayedFrom); err != nil {
			metrics.TransitionErrorsTotal.WithLabelValues("invalid_transition").Inc()
			return nil, err
		}
	}

	now := time.Now().UTC()
	prevStatus := cargo.Status
	prevLocation := cargo.CurrentLocation

	if patch.CustomerName != nil {
		cargo.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		cargo.CustomerEmail = *patch.CustomerEmail
	}
	if patch.Origin != nil {
		cargo.Origin = toCargoLocation(*patch.Origin, now)
	}
	if patch.Destination != nil {
		cargo.Destination = toCargoLocation(*patch.Destination, now)
	}
	if patch.CurrentLocation != nil {
		cargo.CurrentLocation = toCargoLocation(*patch.CurrentLocation, now)
	}
	if patch.CargoDetails != nil {
		cargo.CargoDetails = toCargoDetails(*patch.CargoDetails)
	}
	if patch.Price != nil {
		cargo.Price = *patch.Price
	}
	if patch.DepartureDate != nil {
		cargo.DepartureDate = patch.DepartureDate
	}
	if patch.ArrivalDate != nil {
		cargo.ArrivalDate = patch.ArrivalDate
	}
	if patch.WithdrawReason != nil {
		cargo.WithdrawReason = *patch.WithdrawReason
	}
	if patch.Status != nil {
		cargo.Status = next
	}

	s.applyDelaySideEffects(cargo, prevStatus, patch.DelayReason, now)
	s.applyTerminalTimestamps(cargo, now)
	cargo.CargoDetails.RecomputeVolume()

	statusChanged := cargo.Status != prevStatus
	locationChanged := !cargo.CurrentLocation.SamePlace(prevLocation)
	if statusChanged || locationChanged {
		s.recordCheckpoint(cargo, prevLocation, now)
	}

	cargo.UpdatedAt = now
	if err := s.replace(ctx, cargo); err != nil {
		return nil, err
	}

	if statusChanged {
		metrics.StatusTransitionsTotal.WithLabelValues(string(ports.KindCargo), string(cargo.Status)).Inc()
	}
	s.logger.Info().
		Str("airwaybill", cargo.Airwaybill).
		Str("status", string(cargo.Status)).
		Msg("cargo updated")

	s.emit(cargo)
	return cargo, nil
}

// TransitionStatus is the stricter, location-mandatory status endpoint used
// by the tracking console.
func (s *CargoService) TransitionStatus(ctx context.Context, airwaybill, status string, location ports.CargoLocationInput) (*domain.CargoBooking, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", domain.ErrMissingRequiredField)
	}
	if !location.Complete() {
		return nil, domain.ErrMissingLocation
	}

	cargo, err := s.repo.FindByAirwaybill(ctx, airwaybill)
	if err != nil {
		return nil, err
	}

	next := domain.CargoStatus(status)
	if err := domain.ValidateCargoTransition(cargo.Status, next, cargo.DelayedFrom); err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues("invalid_transition").Inc()
		return nil, err
	}

	now := time.Now().UTC()
	prevStatus := cargo.Status
	prevLocation := cargo.CurrentLocation

	cargo.Status = next
	cargo.CurrentLocation = toCargoLocation(location, now)

	s.applyDelaySideEffects(cargo, prevStatus, nil, now)
	s.applyTerminalTimestamps(cargo, now)

	statusChanged := cargo.Status != prevStatus
	locationChanged := !cargo.CurrentLocation.SamePlace(prevLocation)
	if statusChanged || locationChanged {
		s.recordCheckpoint(cargo, prevLocation, now)
	}

	cargo.UpdatedAt = now
	if err := s.replace(ctx, cargo); err != nil {
		return nil, err
	}

	if statusChanged {
		metrics.StatusTransitionsTotal.WithLabelValues(string(ports.KindCargo), string(cargo.Status)).Inc()
	}
	s.logger.Info().
		Str("airwaybill", cargo.Airwaybill).
		Str("from", string(prevStatus)).
		Str("to", string(cargo.Status)).
		Msg("cargo status updated")

	s.emit(cargo)
	return cargo, nil
}

// Withdraw releases an arrived consignment to the customer. Only arrived
// cargo may be withdrawn.
func (s *CargoService) Withdraw(ctx context.Context, airwaybill, reason string) (*domain.CargoBooking, error) {
	cargo, err := s.repo.FindByAirwaybill(ctx, airwaybill)
	if err != nil {
		return nil, err
	}
	if cargo.Status != domain.CargoArrived {
		metrics.TransitionErrorsTotal.WithLabelValues("invalid_state").Inc()
		return nil, fmt.Errorf("%w: cargo can only be withdrawn after arrival", domain.ErrInvalidState)
	}

	now := time.Now().UTC()
	cargo.Status = domain.CargoWithdrawn
	cargo.WithdrawnAt = &now
	cargo.WithdrawReason = reason

	if !cargo.AppendCheckpoint("Cargo withdrawn", now) {
		metrics.CheckpointsSkippedTotal.Inc()
		s.logger.Warn().
			Str("airwaybill", cargo.Airwaybill).
			Msg("skipped route checkpoint: incomplete current location")
	}

	cargo.UpdatedAt = now
	if err := s.replace(ctx, cargo); err != nil {
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(ports.KindCargo), string(domain.CargoWithdrawn)).Inc()
	s.logger.Info().Str("airwaybill", cargo.Airwaybill).Msg("cargo withdrawn")

	s.emit(cargo)
	return cargo, nil
}

// Delete removes a cargo booking permanently.
func (s *CargoService) Delete(ctx context.Context, airwaybill string) error {
	if err := s.repo.Delete(ctx, airwaybill); err != nil {
		return err
	}
	s.logger.Info().Str("airwaybill", airwaybill).Msg("cargo deleted")
	return nil
}

// Receipt renders the air-waybill PDF when the configured policy allows it.
func (s *CargoService) Receipt(ctx context.Context, airwaybill string) ([]byte, error) {
	cargo, err := s.repo.FindByAirwaybill(ctx, airwaybill)
	if err != nil {
		return nil, err
	}
	if s.receiptPolicy == ReceiptWithdrawnOnly && cargo.Status != domain.CargoWithdrawn {
		return nil, domain.ErrReceiptNotAllowed
	}

	pdf, err := s.receipts.Render(cargo)
	if err != nil {
		s.logger.Error().Err(err).Str("airwaybill", airwaybill).Msg("receipt rendering failed")
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	metrics.ReceiptsGeneratedTotal.WithLabelValues(string(cargo.Status)).Inc()
	return pdf, nil
}

// applyDelaySideEffects keeps the delay metadata coherent with the status
// the booking now holds. Entering Delayed pins the cargo at its origin and
// stamps delayedAt once; re-entering refreshes only the reason; leaving
// clears everything.
func (s *CargoService) applyDelaySideEffects(cargo *domain.CargoBooking, prevStatus domain.CargoStatus, reason *string, now time.Time) {
	if cargo.Status != domain.CargoDelayed {
		cargo.DelayedAt = nil
		cargo.DelayReason = ""
		cargo.DelayedFrom = ""
		return
	}

	if cargo.DelayedAt == nil {
		ts := now
		cargo.DelayedAt = &ts
	}
	if cargo.DelayedFrom == "" && prevStatus != domain.CargoDelayed {
		cargo.DelayedFrom = prevStatus
	}
	if reason != nil && *reason != "" {
		cargo.DelayReason = *reason
	}
	if cargo.DelayReason == "" {
		cargo.DelayReason = defaultDelayReason
	}

	pinned := cargo.Origin
	pinned.UpdatedAt = now
	cargo.CurrentLocation = pinned
}

// applyTerminalTimestamps stamps arrivalDate/withdrawnAt the first time the
// booking reaches the corresponding status.
func (s *CargoService) applyTerminalTimestamps(cargo *domain.CargoBooking, now time.Time) {
	if cargo.Status == domain.CargoArrived && cargo.ArrivalDate == nil {
		ts := now
		cargo.ArrivalDate = &ts
	}
	if cargo.Status == domain.CargoWithdrawn && cargo.WithdrawnAt == nil {
		ts := now
		cargo.WithdrawnAt = &ts
	}
}

// recordCheckpoint appends a ledger entry for the state the booking now
// holds. When the current location is incomplete the append is skipped, a
// diagnostic is recorded, and the denormalized current location falls back
// to the last ledgered place so the ledger stays authoritative.
func (s *CargoService) recordCheckpoint(cargo *domain.CargoBooking, prevLocation domain.CargoLocation, now time.Time) {
	note := "Status updated to " + string(cargo.Status)
	if cargo.Status == domain.CargoDelayed {
		note = "Delayed: " + cargo.DelayReason
	}
	if cargo.AppendCheckpoint(note, now) {
		return
	}
	metrics.CheckpointsSkippedTotal.Inc()
	s.logger.Warn().
		Str("airwaybill", cargo.Airwaybill).
		Str("city", cargo.CurrentLocation.City).
		Str("country", cargo.CurrentLocation.Country).
		Msg("skipped route checkpoint: incomplete current location")
	cargo.CurrentLocation = prevLocation
}

func (s *CargoService) replace(ctx context.Context, cargo *domain.CargoBooking) error {
	err := s.repo.Replace(ctx, cargo)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrConflict) {
		metrics.TransitionErrorsTotal.WithLabelValues("conflict").Inc()
	} else {
		s.logger.Error().Err(err).Str("airwaybill", cargo.Airwaybill).Msg("failed to persist cargo")
	}
	return err
}

// emit hands a detached snapshot to the notification pipeline. Must only be
// called after a successful persist.
func (s *CargoService) emit(cargo *domain.CargoBooking) {
	if s.events == nil {
		return
	}
	snap := *cargo
	snap.Route = append([]domain.CargoCheckpoint(nil), cargo.Route...)
	s.events.Enqueue(ports.StatusEvent{
		ID:    uuid.NewString(),
		Kind:  ports.KindCargo,
		Cargo: &snap,
	})
}

// generateCargoAirwaybill returns an airwaybill in the format NBO-XXXXXX
// (six uppercase hex characters). External tracking pages parse the prefix.
func generateCargoAirwaybill() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("NBO-%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("NBO-%X", b)
}

func toCargoLocation(in ports.CargoLocationInput, now time.Time) domain.CargoLocation {
	loc := domain.CargoLocation{
		City:      in.City,
		Country:   in.Country,
		UpdatedAt: now,
	}
	if in.Lat != nil {
		lat := *in.Lat
		loc.Lat = &lat
	}
	if in.Lng != nil {
		lng := *in.Lng
		loc.Lng = &lng
	}
	return loc
}

func toCargoDetails(in ports.CargoDetailsInput) domain.CargoDetails {
	return domain.CargoDetails{
		Description: in.Description,
		Weight:      in.Weight,
		Quantity:    in.Quantity,
		Length:      in.Length,
		Width:       in.Width,
		Height:      in.Height,
	}
}
