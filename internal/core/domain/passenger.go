package domain

import "time"

// PassengerStatus represents the lifecycle state of a passenger booking.
//
// Unlike cargo, passenger bookings carry no ordering guard: the admin flow
// corrects bookings freely, so any status may follow any status.
type PassengerStatus string

const (
	PassengerBooked    PassengerStatus = "Booked"
	PassengerCheckedIn PassengerStatus = "Checked In"
	PassengerInTransit PassengerStatus = "In Transit"
	PassengerArrived   PassengerStatus = "Arrived"
	PassengerCancelled PassengerStatus = "Cancelled"
)

// Valid reports whether s is a known passenger status.
func (s PassengerStatus) Valid() bool {
	switch s {
	case PassengerBooked, PassengerCheckedIn, PassengerInTransit, PassengerArrived, PassengerCancelled:
		return true
	}
	return false
}

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// PassengerLocation is a resolved place. Locations reach the aggregate only
// after GeoResolver has produced coordinates for them.
type PassengerLocation struct {
	City        string      `json:"city" bson:"city"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
	DisplayName string      `json:"display_name" bson:"display_name"`
	Country     string      `json:"country,omitempty" bson:"country,omitempty"`
}

// PassengerCheckpoint is one immutable entry in the passenger route ledger.
type PassengerCheckpoint struct {
	City        string      `json:"city" bson:"city"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
	DisplayName string      `json:"display_name" bson:"display_name"`
	Country     string      `json:"country,omitempty" bson:"country,omitempty"`
	Note        string      `json:"note,omitempty" bson:"note,omitempty"`
	Timestamp   time.Time   `json:"timestamp" bson:"timestamp"`
}

// PassengerRecord is one person on the manifest.
type PassengerRecord struct {
	Name       string `json:"name" bson:"name"`
	PassportNo string `json:"passport_no" bson:"passport_no"`
	IDNo       string `json:"id_no" bson:"id_no"`
	SeatNo     string `json:"seat_no" bson:"seat_no"`
	Age        *int   `json:"age" bson:"age"`
	Gender     string `json:"gender" bson:"gender"`
}

// PassengerDetails holds the manifest. NumberOfPassengers is derived from
// the list length and never trusted from the caller.
type PassengerDetails struct {
	NumberOfPassengers int               `json:"number_of_passengers" bson:"number_of_passengers"`
	PassengerList      []PassengerRecord `json:"passenger_list" bson:"passenger_list"`
}

// PassengerBooking is the passenger aggregate root.
type PassengerBooking struct {
	ID               string                `json:"id" bson:"_id,omitempty"`
	Airwaybill       string                `json:"airwaybill" bson:"airwaybill"`
	CustomerName     string                `json:"customer_name" bson:"customer_name"`
	CustomerEmail    string                `json:"customer_email" bson:"customer_email"`
	Phone            string                `json:"phone,omitempty" bson:"phone,omitempty"`
	Origin           PassengerLocation     `json:"origin" bson:"origin"`
	Destination      PassengerLocation     `json:"destination" bson:"destination"`
	CurrentLocation  PassengerLocation     `json:"current_location" bson:"current_location"`
	PassengerDetails PassengerDetails      `json:"passenger_details" bson:"passenger_details"`
	TicketClass      string                `json:"ticket_class" bson:"ticket_class"`
	SpecialRequests  string                `json:"special_requests,omitempty" bson:"special_requests,omitempty"`
	Status           PassengerStatus       `json:"status" bson:"status"`
	Price            float64               `json:"price" bson:"price"`
	DepartureDate    *time.Time            `json:"departure_date" bson:"departure_date"`
	ArrivalDate      *time.Time            `json:"arrival_date" bson:"arrival_date"`
	Route            []PassengerCheckpoint `json:"route" bson:"route"`
	Version          int64                 `json:"version" bson:"version"`
	CreatedAt        time.Time             `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at" bson:"updated_at"`
}

// RecountPassengers derives NumberOfPassengers from the manifest length.
func (p *PassengerBooking) RecountPassengers() {
	p.PassengerDetails.NumberOfPassengers = len(p.PassengerDetails.PassengerList)
}

// AppendCheckpoint appends cp to the route ledger and makes it the current
// location.
func (p *PassengerBooking) AppendCheckpoint(cp PassengerCheckpoint) {
	p.Route = append(p.Route, cp)
	p.CurrentLocation = PassengerLocation{
		City:        cp.City,
		Coordinates: cp.Coordinates,
		DisplayName: cp.DisplayName,
		Country:     cp.Country,
	}
}

// LastCheckpoint returns the most recent ledger entry, or nil when the
// route is empty.
func (p *PassengerBooking) LastCheckpoint() *PassengerCheckpoint {
	if len(p.Route) == 0 {
		return nil
	}
	return &p.Route[len(p.Route)-1]
}
