package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/airrush/charter-api/internal/core/domain"
	"github.com/airrush/charter-api/internal/core/ports"
)

// --- Stubs ---

type stubCargoRepo struct {
	store      map[string]*domain.CargoBooking
	insertErrs []error
	replaceErr error
	inserts    int
}

func newStubCargoRepo() *stubCargoRepo {
	return &stubCargoRepo{store: map[string]*domain.CargoBooking{}}
}

func cloneCargo(c *domain.CargoBooking) *domain.CargoBooking {
	snap := *c
	snap.Route = append([]domain.CargoCheckpoint(nil), c.Route...)
	return &snap
}

func (r *stubCargoRepo) Insert(ctx context.Context, c *domain.CargoBooking) error {
	r.inserts++
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := r.store[c.Airwaybill]; exists {
		return domain.ErrDuplicateAirwaybill
	}
	r.store[c.Airwaybill] = cloneCargo(c)
	return nil
}

func (r *stubCargoRepo) FindByAirwaybill(ctx context.Context, airwaybill string) (*domain.CargoBooking, error) {
	c, ok := r.store[airwaybill]
	if !ok {
		return nil, domain.ErrCargoNotFound
	}
	return cloneCargo(c), nil
}

func (r *stubCargoRepo) FindAll(ctx context.Context) ([]*domain.CargoBooking, error) {
	out := make([]*domain.CargoBooking, 0, len(r.store))
	for _, c := range r.store {
		out = append(out, cloneCargo(c))
	}
	return out, nil
}

func (r *stubCargoRepo) Replace(ctx context.Context, c *domain.CargoBooking) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	stored, ok := r.store[c.Airwaybill]
	if !ok {
		return domain.ErrCargoNotFound
	}
	if stored.Version != c.Version {
		return domain.ErrConflict
	}
	c.Version++
	r.store[c.Airwaybill] = cloneCargo(c)
	return nil
}

func (r *stubCargoRepo) Delete(ctx context.Context, airwaybill string) error {
	if _, ok := r.store[airwaybill]; !ok {
		return domain.ErrCargoNotFound
	}
	delete(r.store, airwaybill)
	return nil
}

type stubSink struct {
	events []ports.StatusEvent
}

func (s *stubSink) Enqueue(ev ports.StatusEvent) { s.events = append(s.events, ev) }

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(c *domain.CargoBooking) ([]byte, error) {
	s.calls++
	return []byte("%PDF-1.4 " + c.Airwaybill), nil
}

// --- Helpers ---

func ptrF(v float64) *float64 { return &v }
func ptrS(v string) *string   { return &v }

func newCargoFixture(repo *stubCargoRepo, status domain.CargoStatus) *domain.CargoBooking {
	lat, lng := -1.319167, 36.9275
	dLat, dLng := -4.034396, 39.594519
	now := time.Now().UTC().Add(-time.Hour)

	cargo := &domain.CargoBooking{
		Airwaybill:    "NBO-TEST01",
		CustomerName:  "Jane Wairimu",
		CustomerEmail: "jane@example.com",
		Origin:        domain.CargoLocation{City: "Nairobi", Country: "Kenya", Lat: &lat, Lng: &lng, UpdatedAt: now},
		Destination:   domain.CargoLocation{City: "Mombasa", Country: "Kenya", Lat: &dLat, Lng: &dLng, UpdatedAt: now},
		Status:        status,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	cargo.CurrentLocation = cargo.Origin
	cargo.AppendCheckpoint("Cargo created", now)
	repo.store[cargo.Airwaybill] = cloneCargo(cargo)
	return cargo
}

func newCargoService(repo *stubCargoRepo, sink *stubSink, renderer *stubRenderer, policy ReceiptPolicy) *CargoService {
	return NewCargoService(repo, renderer, sink, policy, zerolog.Nop())
}

// --- Create ---

func TestCargoService_Create_RequiresOriginAndDestination(t *testing.T) {
	svc := newCargoService(newStubCargoRepo(), &stubSink{}, &stubRenderer{}, ReceiptAlways)

	_, err := svc.Create(context.Background(), ports.CreateCargoInput{
		CustomerName:  "Jane",
		CustomerEmail: "jane@example.com",
		Origin:        &ports.CargoLocationInput{City: "Nairobi", Country: "Kenya", Lat: ptrF(-1.3), Lng: ptrF(36.9)},
	})
	if !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
}

func TestCargoService_Create_SeedsLedgerAndDerivesVolume(t *testing.T) {
	repo := newStubCargoRepo()
	sink := &stubSink{}
	svc := newCargoService(repo, sink, &stubRenderer{}, ReceiptAlways)

	cargo, err := svc.Create(context.Background(), ports.CreateCargoInput{
		CustomerName:  "Jane Wairimu",
		CustomerEmail: "jane@example.com",
		Origin:        &ports.CargoLocationInput{City: "Nairobi", Country: "Kenya", Lat: ptrF(-1.3), Lng: ptrF(36.9)},
		Destination:   &ports.CargoLocationInput{City: "Mombasa", Country: "Kenya", Lat: ptrF(-4.0), Lng: ptrF(39.6)},
		CargoDetails:  ports.CargoDetailsInput{Weight: 120, Quantity: 2, Length: 2, Width: 1.5, Height: 1, Volume: 999},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.HasPrefix(cargo.Airwaybill, "NBO-") || len(cargo.Airwaybill) != 10 {
		t.Fatalf("unexpected airwaybill format: %q", cargo.Airwaybill)
	}
	if cargo.Status != domain.CargoBooked {
		t.Fatalf("expected Booked, got %s", cargo.Status)
	}
	if cargo.CargoDetails.Volume != 3 {
		t.Fatalf("volume must be derived from dimensions, got %v", cargo.CargoDetails.Volume)
	}
	if len(cargo.Route) != 1 || cargo.Route[0].Note != "Cargo created" {
		t.Fatalf("expected seeded ledger, got %+v", cargo.Route)
	}
	if !cargo.CurrentLocation.SamePlace(cargo.Origin) {
		t.Fatal("current location must start at origin")
	}
	if len(sink.events) != 1 || sink.events[0].Kind != ports.KindCargo {
		t.Fatalf("expected one cargo event, got %+v", sink.events)
	}
}

func TestCargoService_Create_RetriesOnDuplicateAirwaybill(t *testing.T) {
	repo := newStubCargoRepo()
	repo.insertErrs = []error{domain.ErrDuplicateAirwaybill}
	svc := newCargoService(repo, &stubSink{}, &stubRenderer{}, ReceiptAlways)

	_, err := svc.Create(context.Background(), ports.CreateCargoInput{
		Origin:      &ports.CargoLocationInput{City: "Nairobi", Country: "Kenya", Lat: ptrF(-1.3), Lng: ptrF(36.9)},
		Destination: &ports.CargoLocationInput{City: "Kisumu", Country: "Kenya", Lat: ptrF(-0.1), Lng: ptrF(34.8)},
	})
	if err != nil {
		t.Fatalf("create after collision: %v", err)
	}
	if repo.inserts != 2 {
		t.Fatalf("expected a retry after the collision, inserts=%d", repo.inserts)
	}
}

// --- Update / transitions ---

func TestCargoService_Update_RejectsBackwardTransition(t *testing.T) {
	repo := newStubCargoRepo()
	newCargoFixture(repo, domain.CargoArrived)
	svc := newCargoService(repo, &stubSink{}, &stubRenderer{}, ReceiptAlways)

	_, err := svc.Update(context.Background(), "NBO-TEST01", ports.UpdateCargoInput{Status: ptrS("Booked")})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	stored, _ := repo.FindByAirwaybill(context.Background(), "NBO-TEST01")
	if stored.Status != domain.CargoArrived {
		t.Fatalf("rejected patch must not change anything, status=%s", stored.Status)
	}
}

func TestCargoService_Update_DelaySideEffects(t *testing.T) {
	repo := newStubCargoRepo()
	newCargoFixture(repo, domain.CargoInTransit)
	svc := newCargoService(repo, &stubSink{}, &stubRenderer{}, ReceiptAlways)

	cargo, err := svc.Update(context.Background(), "NBO-TEST01", ports.UpdateCargoInput{Status: ptrS("Delayed")})
	if err != nil {
		t.Fatalf("delay: %v", err)
	}
	if cargo.DelayedAt == nil {
		t.Fatal("delayedAt must be stamped")
	}
	if cargo.DelayReason != "No reason provided" {
		t.Fatalf("expected default delay reason, got %q", cargo.DelayReason)
	}
	if cargo.DelayedFrom != domain.CargoInTransit {
		t.Fatalf("expected delayedFrom=In Transit, got %s", cargo.DelayedFrom)
	}
	if !cargo.CurrentLocation.SamePlace(cargo.Origin) {
		t.Fatal("delayed cargo must be pinned at its origin")
	}
	if cp := cargo.LastCheckpoint(); cp == nil || cp.Note != "Delayed: No reason provided" {
		t.Fatalf("unexpected delay checkpoint: %+v", cp)
	}

	// Re-entering Delayed refreshes the reason but never re-stamps
	// delayedAt or overwrites the interrupted status.
	firstDelayedAt := *cargo.DelayedAt
	cargo, err = svc.Update(context.Background(), "NBO-TEST01", ports.UpdateCargoInput{
		Status:      ptrS("Delayed"),
		DelayReason: ptrS("Weather hold"),
	})
	if err != nil {
		t.Fatalf("re-delay: %v", err)
	}
	if cargo.DelayedAt == nil || !cargo.DelayedAt.Equal(firstDelayedAt) {
		t.Fatalf("delayedAt must survive a repeated delay: %v vs %v", cargo.DelayedAt, firstDelayedAt)
	}
	if cargo.DelayReason != "Weather hold" {
		t.Fatalf("expected refreshed delay reason, got %q", cargo.DelayReason)
	}
	if cargo.DelayedFrom != domain.CargoInTransit {
		t.Fatalf("delayedFrom must keep the interrupted status, got %s", cargo.DelayedFrom)
	}

	// Resuming below the interrupted status is rejected.
	_, err = svc.Update(context.Background(), "NBO-TEST01", ports.UpdateCargoInput{Status: ptrS("Checked In")})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// Resuming at the interrupted status clears the delay metadata.
	cargo, err = svc.Update(context.Background(), "NBO-TEST01", ports.UpdateCargoInput{Status: ptrS("In Transit")})
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if cargo.DelayedAt != nil || cargo.DelayReason != "" || cargo.DelayedFrom != "" {
		t.Fatalf("delay metadata must be cleared on resume: %+v", cargo)
	}
}

func TestCargoService_Update_SkipsCheckpointOnIncompleteLocation(t *testing.T) {
	repo := newStubCargoRepo()
	fixture := newCargoFixture(repo, domain.CargoBooked)
	svc := newCargoService(repo, &stubSink{}, &stubRenderer{}, ReceiptAlways)

	cargo, err := svc.Update(context.Background(), "NBO-TEST01", ports.UpdateCargoInput{
		Status:          ptrS("Checked In"),
		CurrentLocation: &ports.CargoLocationInput{City: "Voi"}, // no country, no coords
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(cargo.Route) != len(fixture.Route) {
		t.Fatalf("ledger must not grow on incomplete location: %d entries", len(cargo.Route))
	}
	if !cargo.CurrentLocation.SamePlace(fixture.CurrentLocation) {
		t.Fatalf("current location must fall back to last ledgered place, got %+v", cargo.CurrentLocation)
	}
	if cargo.Status != domain.CargoCheckedIn {
		t.Fatalf("status change must still apply, got %s", cargo.Status)
	}
}

func TestCargoService_Update_SurfacesVersionConflict(t *testing.T) {
	repo := newStubCargoRepo()
	newCargoFixture(repo, domain.CargoBooked)
	repo.replaceErr = domain.ErrConflict
	svc := newCargoService(repo, &stubSink{}, &stubRenderer{}, ReceiptAlways)

	_, err := svc.Update(context.Background(), "NBO-TEST01", ports.UpdateCargoInput{Price: ptrF(2500)})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCargoService_TransitionStatus_RequiresCompleteLocation(t *testing.T) {
	repo := newStubCargoRepo()
	newCargoFixture(repo, domain.CargoBooked)
	svc := newCargoService(repo, &stubSink{}, &stubRenderer{}, ReceiptAlways)

	_, err := svc.TransitionStatus(context.Background(), "NBO-TEST01", "Checked In",
		ports.CargoLocationInput{City: "Nairobi", Country: "Kenya", Lat: ptrF(-1.3)})
	if !errors.Is(err, domain.ErrMissingLocation) {
		t.Fatalf("expected ErrMissingLocation, got %v", err)
	}

	_, err = svc.TransitionStatus(context.Background(), "NBO-TEST01", "",
		ports.CargoLocationInput{City: "Nairobi", Country: "Kenya", Lat: ptrF(-1.3), Lng: ptrF(36.9)})
	if !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
}

func TestCargoService_TransitionStatus_StampsArrival(t *testing.T) {
	repo := newStubCargoRepo()
	newCargoFixture(repo, domain.CargoInTransit)
	svc := newCargoService(repo, &stubSink{}, &stubRenderer{}, ReceiptAlways)

	cargo, err := svc.TransitionStatus(context.Background(), "NBO-TEST01", "Arrived",
		ports.CargoLocationInput{City: "Mombasa", Country: "Kenya", Lat: ptrF(-4.0), Lng: ptrF(39.6)})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if cargo.ArrivalDate == nil {
		t.Fatal("arrivalDate must be stamped on first arrival")
	}
	cp := cargo.LastCheckpoint()
	if cp == nil || cp.City != "Mombasa" || cp.Status != domain.CargoArrived {
		t.Fatalf("unexpected checkpoint: %+v", cp)
	}
	if cargo.Version != 2 {
		t.Fatalf("expected version bump to 2, got %d", cargo.Version)
	}
}

// --- Withdraw ---

func TestCargoService_Withdraw(t *testing.T) {
	repo := newStubCargoRepo()
	newCargoFixture(repo, domain.CargoInTransit)
	svc := newCargoService(repo, &stubSink{}, &stubRenderer{}, ReceiptAlways)

	if _, err := svc.Withdraw(context.Background(), "NBO-TEST01", "picked up"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("withdraw before arrival must fail with ErrInvalidState, got %v", err)
	}

	repo2 := newStubCargoRepo()
	newCargoFixture(repo2, domain.CargoArrived)
	svc2 := newCargoService(repo2, &stubSink{}, &stubRenderer{}, ReceiptAlways)

	cargo, err := svc2.Withdraw(context.Background(), "NBO-TEST01", "picked up by consignee")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if cargo.Status != domain.CargoWithdrawn || cargo.WithdrawnAt == nil {
		t.Fatalf("expected withdrawn with timestamp: %+v", cargo)
	}
	if cargo.WithdrawReason != "picked up by consignee" {
		t.Fatalf("unexpected withdraw reason: %q", cargo.WithdrawReason)
	}
	if cp := cargo.LastCheckpoint(); cp == nil || cp.Note != "Cargo withdrawn" {
		t.Fatalf("unexpected checkpoint: %+v", cp)
	}
}

// TestCargoService_FullLifecycle walks one consignment from booking to
// collection and checks the ledger after every step.
func TestCargoService_FullLifecycle(t *testing.T) {
	repo := newStubCargoRepo()
	svc := newCargoService(repo, &stubSink{}, &stubRenderer{}, ReceiptAlways)
	ctx := context.Background()

	cargo, err := svc.Create(ctx, ports.CreateCargoInput{
		CustomerName:  "Jane Wairimu",
		CustomerEmail: "jane@example.com",
		Origin:        &ports.CargoLocationInput{City: "San Francisco", Country: "United States", Lat: ptrF(37.6213), Lng: ptrF(-122.379)},
		Destination:   &ports.CargoLocationInput{City: "New York", Country: "United States", Lat: ptrF(40.6413), Lng: ptrF(-73.7781)},
		CargoDetails:  ports.CargoDetailsInput{Length: 10, Width: 10, Height: 10, Weight: 5, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cargo.Status != domain.CargoBooked || cargo.CargoDetails.Volume != 1000 || len(cargo.Route) != 1 {
		t.Fatalf("after create: status=%s volume=%v route=%d", cargo.Status, cargo.CargoDetails.Volume, len(cargo.Route))
	}
	awb := cargo.Airwaybill

	midpoint := ports.CargoLocationInput{City: "Denver", Country: "United States", Lat: ptrF(39.8561), Lng: ptrF(-104.6737)}
	cargo, err = svc.TransitionStatus(ctx, awb, "In Transit", midpoint)
	if err != nil {
		t.Fatalf("in transit: %v", err)
	}
	if cargo.Status != domain.CargoInTransit || len(cargo.Route) != 2 || cargo.CurrentLocation.City != "Denver" {
		t.Fatalf("after transit: status=%s route=%d current=%s", cargo.Status, len(cargo.Route), cargo.CurrentLocation.City)
	}

	cargo, err = svc.TransitionStatus(ctx, awb, "Arrived",
		ports.CargoLocationInput{City: "New York", Country: "United States", Lat: ptrF(40.6413), Lng: ptrF(-73.7781)})
	if err != nil {
		t.Fatalf("arrived: %v", err)
	}
	if cargo.ArrivalDate == nil || len(cargo.Route) != 3 {
		t.Fatalf("after arrival: arrivalDate=%v route=%d", cargo.ArrivalDate, len(cargo.Route))
	}

	cargo, err = svc.Withdraw(ctx, awb, "")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if cargo.Status != domain.CargoWithdrawn || cargo.WithdrawnAt == nil || len(cargo.Route) != 4 {
		t.Fatalf("after withdraw: status=%s withdrawnAt=%v route=%d", cargo.Status, cargo.WithdrawnAt, len(cargo.Route))
	}

	if _, err := svc.Withdraw(ctx, awb, ""); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second withdraw must fail with ErrInvalidState, got %v", err)
	}
}

// --- Receipt ---

func TestCargoService_Receipt_PolicyGate(t *testing.T) {
	repo := newStubCargoRepo()
	newCargoFixture(repo, domain.CargoBooked)
	renderer := &stubRenderer{}
	svc := newCargoService(repo, &stubSink{}, renderer, ReceiptWithdrawnOnly)

	if _, err := svc.Receipt(context.Background(), "NBO-TEST01"); !errors.Is(err, domain.ErrReceiptNotAllowed) {
		t.Fatalf("expected ErrReceiptNotAllowed, got %v", err)
	}
	if renderer.calls != 0 {
		t.Fatal("renderer must not run when the policy refuses")
	}

	svcAlways := newCargoService(repo, &stubSink{}, renderer, ReceiptAlways)
	data, err := svcAlways.Receipt(context.Background(), "NBO-TEST01")
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if len(data) == 0 || renderer.calls != 1 {
		t.Fatalf("expected rendered receipt, calls=%d", renderer.calls)
	}
}
