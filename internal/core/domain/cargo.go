package domain

import (
	"fmt"
	"time"
)

// CargoStatus represents the lifecycle state of a cargo airwaybill.
type CargoStatus string

const (
	CargoBooked    CargoStatus = "Booked"
	CargoCheckedIn CargoStatus = "Checked In"
	CargoDelayed   CargoStatus = "Delayed"
	CargoInTransit CargoStatus = "In Transit"
	CargoArrived   CargoStatus = "Arrived"
	CargoWithdrawn CargoStatus = "Withdrawn"
)

// cargoStatusRank orders the forward lifecycle. Delayed is deliberately
// absent: it is a side-state a shipment drops into and out of, not a step.
var cargoStatusRank = map[CargoStatus]int{
	CargoBooked:    0,
	CargoCheckedIn: 1,
	CargoInTransit: 2,
	CargoArrived:   3,
	CargoWithdrawn: 4,
}

// Valid reports whether s is a known cargo status.
func (s CargoStatus) Valid() bool {
	if s == CargoDelayed {
		return true
	}
	_, ok := cargoStatusRank[s]
	return ok
}

// ValidateCargoTransition checks whether a cargo may move from current to
// next. delayedFrom is the status the cargo held when it entered Delayed
// (empty when the cargo is not delayed).
//
// Rules:
//   - Backward motion along the ranked lifecycle is rejected.
//   - Entering Delayed is allowed from any status before Arrived.
//   - Leaving Delayed must resume at or past the status the delay
//     interrupted, and may not jump straight to Withdrawn.
func ValidateCargoTransition(current, next, delayedFrom CargoStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, string(next))
	}
	if next == current {
		return nil
	}

	if next == CargoDelayed {
		if current == CargoArrived || current == CargoWithdrawn {
			return fmt.Errorf("%w: cannot delay %s cargo", ErrInvalidTransition, current)
		}
		return nil
	}

	if current == CargoDelayed {
		if next == CargoWithdrawn {
			return fmt.Errorf("%w: delayed cargo must arrive before withdrawal", ErrInvalidTransition)
		}
		resume := delayedFrom
		if !resume.Valid() || resume == CargoDelayed {
			resume = CargoBooked
		}
		if cargoStatusRank[next] < cargoStatusRank[resume] {
			return fmt.Errorf("%w: from %s (delayed at %s) to %s", ErrInvalidTransition, current, resume, next)
		}
		return nil
	}

	if cargoStatusRank[next] < cargoStatusRank[current] {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, current, next)
	}
	return nil
}

// CargoLocation is a structured place used for origin, destination and
// currentLocation. Lat/Lng are pointers so a partially patched location is
// representable; the route ledger refuses incomplete locations.
type CargoLocation struct {
	City      string    `json:"city" bson:"city"`
	Country   string    `json:"country" bson:"country"`
	Lat       *float64  `json:"lat" bson:"lat"`
	Lng       *float64  `json:"lng" bson:"lng"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Complete reports whether all four required fields are present.
func (l CargoLocation) Complete() bool {
	return l.City != "" && l.Country != "" && l.Lat != nil && l.Lng != nil
}

// SamePlace compares city, country and coordinates, ignoring UpdatedAt.
func (l CargoLocation) SamePlace(o CargoLocation) bool {
	if l.City != o.City || l.Country != o.Country {
		return false
	}
	if (l.Lat == nil) != (o.Lat == nil) || (l.Lng == nil) != (o.Lng == nil) {
		return false
	}
	if l.Lat != nil && *l.Lat != *o.Lat {
		return false
	}
	if l.Lng != nil && *l.Lng != *o.Lng {
		return false
	}
	return true
}

// CargoCheckpoint is one immutable entry in the route ledger.
type CargoCheckpoint struct {
	City      string      `json:"city" bson:"city"`
	Country   string      `json:"country" bson:"country"`
	Lat       float64     `json:"lat" bson:"lat"`
	Lng       float64     `json:"lng" bson:"lng"`
	Status    CargoStatus `json:"status" bson:"status"`
	Note      string      `json:"note" bson:"note"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// CargoDetails describes the consignment. Volume is derived, never trusted
// from the caller.
type CargoDetails struct {
	Description string  `json:"description" bson:"description"`
	Weight      float64 `json:"weight" bson:"weight"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Length      float64 `json:"length" bson:"length"`
	Width       float64 `json:"width" bson:"width"`
	Height      float64 `json:"height" bson:"height"`
	Volume      float64 `json:"volume" bson:"volume"`
}

// RecomputeVolume derives Volume from the three dimensions. When any
// dimension is missing the volume is zeroed rather than left at whatever
// the caller sent.
func (d *CargoDetails) RecomputeVolume() {
	if d.Length > 0 && d.Width > 0 && d.Height > 0 {
		d.Volume = d.Length * d.Width * d.Height
		return
	}
	d.Volume = 0
}

// CargoBooking is the cargo aggregate root.
type CargoBooking struct {
	ID              string            `json:"id" bson:"_id,omitempty"`
	Airwaybill      string            `json:"airwaybill" bson:"airwaybill"`
	CustomerName    string            `json:"customer_name" bson:"customer_name"`
	CustomerEmail   string            `json:"customer_email" bson:"customer_email"`
	Origin          CargoLocation     `json:"origin" bson:"origin"`
	Destination     CargoLocation     `json:"destination" bson:"destination"`
	CurrentLocation CargoLocation     `json:"current_location" bson:"current_location"`
	CargoDetails    CargoDetails      `json:"cargo_details" bson:"cargo_details"`
	Status          CargoStatus       `json:"status" bson:"status"`
	Price           float64           `json:"price" bson:"price"`
	DepartureDate   *time.Time        `json:"departure_date" bson:"departure_date"`
	ArrivalDate     *time.Time        `json:"arrival_date" bson:"arrival_date"`
	DelayedAt       *time.Time        `json:"delayed_at" bson:"delayed_at"`
	DelayReason     string            `json:"delay_reason" bson:"delay_reason"`
	DelayedFrom     CargoStatus       `json:"delayed_from,omitempty" bson:"delayed_from,omitempty"`
	WithdrawnAt     *time.Time        `json:"withdrawn_at" bson:"withdrawn_at"`
	WithdrawReason  string            `json:"withdraw_reason" bson:"withdraw_reason"`
	Route           []CargoCheckpoint `json:"route" bson:"route"`
	Version         int64             `json:"version" bson:"version"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}

// AppendCheckpoint records the current location and status on the route
// ledger. Returns false without touching the ledger when the current
// location is incomplete.
func (c *CargoBooking) AppendCheckpoint(note string, now time.Time) bool {
	if !c.CurrentLocation.Complete() {
		return false
	}
	c.Route = append(c.Route, CargoCheckpoint{
		City:      c.CurrentLocation.City,
		Country:   c.CurrentLocation.Country,
		Lat:       *c.CurrentLocation.Lat,
		Lng:       *c.CurrentLocation.Lng,
		Status:    c.Status,
		Note:      note,
		Timestamp: now,
	})
	return true
}

// LastCheckpoint returns the most recent ledger entry, or nil when the
// route is empty.
func (c *CargoBooking) LastCheckpoint() *CargoCheckpoint {
	if len(c.Route) == 0 {
		return nil
	}
	return &c.Route[len(c.Route)-1]
}
