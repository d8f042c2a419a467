package redis

import (
	"testing"

	"github.com/airrush/charter-api/internal/core/domain"
	"github.com/airrush/charter-api/internal/core/ports"
)

func passengerEvent(status domain.PassengerStatus, version int64) ports.StatusEvent {
	return ports.StatusEvent{
		Kind: ports.KindPassenger,
		Passenger: &domain.PassengerBooking{
			Airwaybill: "PASS_ABCDEF123456",
			Status:     status,
			Version:    version,
		},
	}
}

func TestDedupKey_DistinguishesTransitionsAtSameVersion(t *testing.T) {
	// Delete emits a Cancelled snapshot without bumping the version, so the
	// cancellation shares a version with the last persisted mutation. Its key
	// must still differ, or the cancellation e-mail is swallowed as a dup.
	update := dedupKey(passengerEvent(domain.PassengerInTransit, 2))
	cancel := dedupKey(passengerEvent(domain.PassengerCancelled, 2))
	if update == cancel {
		t.Fatalf("cancellation key must not collide with the prior transition: %q", update)
	}

	if a, b := dedupKey(passengerEvent(domain.PassengerInTransit, 2)), update; a != b {
		t.Fatalf("key must be stable for the same event: %q vs %q", a, b)
	}

	v2 := dedupKey(passengerEvent(domain.PassengerInTransit, 2))
	v3 := dedupKey(passengerEvent(domain.PassengerInTransit, 3))
	if v2 == v3 {
		t.Fatalf("distinct versions must not share a key: %q", v2)
	}
}
