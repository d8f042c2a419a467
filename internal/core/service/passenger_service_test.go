package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/airrush/charter-api/internal/core/domain"
	"github.com/airrush/charter-api/internal/core/ports"
)

// --- Stubs ---

type stubPassengerRepo struct {
	store map[string]*domain.PassengerBooking
}

func newStubPassengerRepo() *stubPassengerRepo {
	return &stubPassengerRepo{store: map[string]*domain.PassengerBooking{}}
}

func clonePassenger(p *domain.PassengerBooking) *domain.PassengerBooking {
	snap := *p
	snap.Route = append([]domain.PassengerCheckpoint(nil), p.Route...)
	snap.PassengerDetails.PassengerList = append([]domain.PassengerRecord(nil), p.PassengerDetails.PassengerList...)
	return &snap
}

func (r *stubPassengerRepo) Insert(ctx context.Context, p *domain.PassengerBooking) error {
	if _, exists := r.store[p.Airwaybill]; exists {
		return domain.ErrDuplicateAirwaybill
	}
	r.store[p.Airwaybill] = clonePassenger(p)
	return nil
}

func (r *stubPassengerRepo) FindByAirwaybill(ctx context.Context, airwaybill string) (*domain.PassengerBooking, error) {
	p, ok := r.store[airwaybill]
	if !ok {
		return nil, domain.ErrPassengerNotFound
	}
	return clonePassenger(p), nil
}

func (r *stubPassengerRepo) FindAll(ctx context.Context) ([]*domain.PassengerBooking, error) {
	out := make([]*domain.PassengerBooking, 0, len(r.store))
	for _, p := range r.store {
		out = append(out, clonePassenger(p))
	}
	return out, nil
}

func (r *stubPassengerRepo) Replace(ctx context.Context, p *domain.PassengerBooking) error {
	stored, ok := r.store[p.Airwaybill]
	if !ok {
		return domain.ErrPassengerNotFound
	}
	if stored.Version != p.Version {
		return domain.ErrConflict
	}
	p.Version++
	r.store[p.Airwaybill] = clonePassenger(p)
	return nil
}

func (r *stubPassengerRepo) Delete(ctx context.Context, airwaybill string) error {
	if _, ok := r.store[airwaybill]; !ok {
		return domain.ErrPassengerNotFound
	}
	delete(r.store, airwaybill)
	return nil
}

// stubGeo resolves cities it knows and degrades to the fallback otherwise.
type stubGeo struct {
	known map[string]domain.PassengerLocation
}

func (g *stubGeo) Resolve(ctx context.Context, in ports.LocationInput, fallback *domain.PassengerLocation) (*domain.PassengerLocation, error) {
	if in.Empty() {
		return fallback, nil
	}
	city := in.City
	if city == "" && in.Text != "" {
		city = strings.TrimSpace(strings.SplitN(in.Text, ",", 2)[0])
	}
	if loc, ok := g.known[city]; ok {
		return &loc, nil
	}
	if in.Coordinates != nil {
		return &domain.PassengerLocation{City: city, Coordinates: *in.Coordinates, DisplayName: city}, nil
	}
	return fallback, nil
}

var testDefaultOrigin = domain.PassengerLocation{
	City:        "Nairobi",
	Country:     "Kenya",
	Coordinates: domain.Coordinates{Lat: -1.319167, Lng: 36.9275},
	DisplayName: "Nairobi, Kenya",
}

func newPassengerServiceForTest(repo *stubPassengerRepo, geo ports.GeoResolver, sink *stubSink) *PassengerService {
	if geo == nil {
		geo = &stubGeo{}
	}
	return NewPassengerService(repo, geo, sink, testDefaultOrigin, zerolog.Nop())
}

// --- Create ---

func TestPassengerService_Create_RequiresNameAndEmail(t *testing.T) {
	svc := newPassengerServiceForTest(newStubPassengerRepo(), nil, &stubSink{})

	_, err := svc.Create(context.Background(), ports.CreatePassengerInput{CustomerName: "Otieno"})
	if !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
}

func TestPassengerService_Create_FallsBackToDefaultOrigin(t *testing.T) {
	repo := newStubPassengerRepo()
	sink := &stubSink{}
	svc := newPassengerServiceForTest(repo, &stubGeo{}, sink)

	booking, err := svc.Create(context.Background(), ports.CreatePassengerInput{
		CustomerName:  "Otieno Omondi",
		CustomerEmail: "otieno@example.com",
		Origin:        &ports.LocationInput{Text: "Atlantis"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if booking.Origin.City != "Nairobi" {
		t.Fatalf("unresolvable origin must degrade to the default, got %q", booking.Origin.City)
	}
	if booking.Destination.City != "Nairobi" {
		t.Fatalf("missing destination must fall back to origin, got %q", booking.Destination.City)
	}
	if booking.TicketClass != "Economy" {
		t.Fatalf("expected default ticket class, got %q", booking.TicketClass)
	}
	if !strings.HasPrefix(booking.Airwaybill, "PASS_") || len(booking.Airwaybill) != 17 {
		t.Fatalf("unexpected airwaybill format: %q", booking.Airwaybill)
	}
	if len(booking.Route) != 1 || booking.Route[0].Note != "Booking created" {
		t.Fatalf("expected seeded ledger, got %+v", booking.Route)
	}
	if len(sink.events) != 1 || sink.events[0].Kind != ports.KindPassenger {
		t.Fatalf("expected one passenger event, got %+v", sink.events)
	}
}

func TestPassengerService_Create_CountsManifest(t *testing.T) {
	repo := newStubPassengerRepo()
	svc := newPassengerServiceForTest(repo, nil, &stubSink{})

	age := 34
	booking, err := svc.Create(context.Background(), ports.CreatePassengerInput{
		CustomerName:  "Otieno Omondi",
		CustomerEmail: "otieno@example.com",
		PassengerDetails: &ports.PassengerDetailsInput{
			PassengerList: []ports.PassengerRecordInput{
				{Name: "Otieno Omondi", Age: &age},
				{Name: "Akinyi Omondi"},
			},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if booking.PassengerDetails.NumberOfPassengers != 2 {
		t.Fatalf("count must be derived from the manifest, got %d", booking.PassengerDetails.NumberOfPassengers)
	}
}

// --- Update ---

func seedPassenger(repo *stubPassengerRepo) *domain.PassengerBooking {
	booking := &domain.PassengerBooking{
		Airwaybill:    "PASS_TEST00000001",
		CustomerName:  "Otieno Omondi",
		CustomerEmail: "otieno@example.com",
		Origin:        testDefaultOrigin,
		Destination:   testDefaultOrigin,
		Status:        domain.PassengerBooked,
		TicketClass:   "Economy",
		Version:       1,
	}
	booking.CurrentLocation = booking.Origin
	booking.AppendCheckpoint(domain.PassengerCheckpoint{
		City:        booking.Origin.City,
		Coordinates: booking.Origin.Coordinates,
		DisplayName: booking.Origin.DisplayName,
		Country:     booking.Origin.Country,
		Note:        "Booking created",
	})
	repo.store[booking.Airwaybill] = clonePassenger(booking)
	return booking
}

func TestPassengerService_Update_StatusIsUnguardedButValidated(t *testing.T) {
	repo := newStubPassengerRepo()
	seedPassenger(repo)
	svc := newPassengerServiceForTest(repo, nil, &stubSink{})

	// Any known status may follow any other, including backwards.
	if _, err := svc.Update(context.Background(), "PASS_TEST00000001", ports.UpdatePassengerInput{Status: ptrS("Arrived")}); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if _, err := svc.Update(context.Background(), "PASS_TEST00000001", ports.UpdatePassengerInput{Status: ptrS("Booked")}); err != nil {
		t.Fatalf("backward: %v", err)
	}

	if _, err := svc.Update(context.Background(), "PASS_TEST00000001", ports.UpdatePassengerInput{Status: ptrS("Teleported")}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}
}

func TestPassengerService_Update_RejectsUnresolvableLocation(t *testing.T) {
	repo := newStubPassengerRepo()
	seedPassenger(repo)
	svc := newPassengerServiceForTest(repo, &stubGeo{}, &stubSink{})

	_, err := svc.Update(context.Background(), "PASS_TEST00000001", ports.UpdatePassengerInput{
		CurrentLocation: &ports.LocationInput{Text: "Atlantis"},
	})
	if !errors.Is(err, domain.ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestPassengerService_Update_MovedLocationBecomesCheckpoint(t *testing.T) {
	repo := newStubPassengerRepo()
	seedPassenger(repo)
	geo := &stubGeo{known: map[string]domain.PassengerLocation{
		"Mombasa": {City: "Mombasa", Country: "Kenya", Coordinates: domain.Coordinates{Lat: -4.0, Lng: 39.6}, DisplayName: "Mombasa, Kenya"},
	}}
	svc := newPassengerServiceForTest(repo, geo, &stubSink{})

	booking, err := svc.Update(context.Background(), "PASS_TEST00000001", ports.UpdatePassengerInput{
		CurrentLocation: &ports.LocationInput{City: "Mombasa"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	cp := booking.LastCheckpoint()
	if cp == nil || cp.City != "Mombasa" || cp.Note != "Location updated" {
		t.Fatalf("expected a 'Location updated' checkpoint, got %+v", cp)
	}
	if booking.CurrentLocation.City != cp.City {
		t.Fatal("current location must equal the last checkpoint")
	}
}

func TestPassengerService_Update_RenamedPlaceBecomesCheckpoint(t *testing.T) {
	repo := newStubPassengerRepo()
	seedPassenger(repo)
	// Same city, same coordinates, but the geocoder now reports a richer
	// display name. The ledger must still record the change so the last
	// checkpoint matches what the booking shows.
	geo := &stubGeo{known: map[string]domain.PassengerLocation{
		"Nairobi": {City: "Nairobi", Country: "Kenya", Coordinates: testDefaultOrigin.Coordinates, DisplayName: "Nairobi County, Kenya"},
	}}
	svc := newPassengerServiceForTest(repo, geo, &stubSink{})

	booking, err := svc.Update(context.Background(), "PASS_TEST00000001", ports.UpdatePassengerInput{
		CurrentLocation: &ports.LocationInput{City: "Nairobi"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	cp := booking.LastCheckpoint()
	if cp == nil || cp.Note != "Location updated" {
		t.Fatalf("display-name change must be ledgered, got %+v", cp)
	}
	if cp.DisplayName != "Nairobi County, Kenya" {
		t.Fatalf("checkpoint must carry the new display name, got %q", cp.DisplayName)
	}
	if booking.CurrentLocation.DisplayName != cp.DisplayName {
		t.Fatal("current location must equal the last checkpoint")
	}
}

// --- Checkpoints ---

func TestPassengerService_AddCheckpoint(t *testing.T) {
	repo := newStubPassengerRepo()
	seedPassenger(repo)
	svc := newPassengerServiceForTest(repo, nil, &stubSink{})

	_, err := svc.AddCheckpoint(context.Background(), "PASS_TEST00000001", ports.AddCheckpointInput{City: "Voi"})
	if !errors.Is(err, domain.ErrInvalidCheckpoint) {
		t.Fatalf("missing coordinates must be rejected, got %v", err)
	}

	booking, err := svc.AddCheckpoint(context.Background(), "PASS_TEST00000001", ports.AddCheckpointInput{
		City:        "Voi",
		Coordinates: &domain.Coordinates{Lat: -3.39, Lng: 38.55},
		DisplayName: "Voi, KE",
		Note:        "Fuel stop",
	})
	if err != nil {
		t.Fatalf("add checkpoint: %v", err)
	}

	cp := booking.LastCheckpoint()
	if cp == nil || cp.City != "Voi" || cp.Note != "Fuel stop" {
		t.Fatalf("unexpected checkpoint: %+v", cp)
	}
	if cp.Country != "Kenya" {
		t.Fatalf("country must be normalized from the display name, got %q", cp.Country)
	}
	if cp.DisplayName != "Voi, Kenya" {
		t.Fatalf("unexpected display name: %q", cp.DisplayName)
	}
	if booking.CurrentLocation.City != "Voi" {
		t.Fatal("checkpoint must become the current location")
	}
}

// --- Delete ---

func TestPassengerService_Delete_EmitsCancellation(t *testing.T) {
	repo := newStubPassengerRepo()
	seedPassenger(repo)
	sink := &stubSink{}
	svc := newPassengerServiceForTest(repo, nil, sink)

	if err := svc.Delete(context.Background(), "PASS_TEST00000001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByAirwaybill(context.Background(), "PASS_TEST00000001"); !errors.Is(err, domain.ErrPassengerNotFound) {
		t.Fatal("booking must be gone after delete")
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Passenger == nil || ev.Passenger.Status != domain.PassengerCancelled {
		t.Fatalf("event must carry the Cancelled snapshot, got %+v", ev.Passenger)
	}
}
