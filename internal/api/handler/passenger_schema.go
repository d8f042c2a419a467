package handler

import (
	"encoding/json"
	"time"
)

// looseLocationRequest accepts the two wire shapes the passenger API allows
// for a place: a bare string ("Mombasa" or "Mombasa, KE") or a structured
// object, optionally with coordinates.
type looseLocationRequest struct {
	Text        string
	City        string
	Country     string
	DisplayName string
	Coordinates *coordinatesRequest
}

type coordinatesRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l *looseLocationRequest) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = looseLocationRequest{Text: text}
		return nil
	}

	var obj struct {
		City        string              `json:"city"`
		Country     string              `json:"country"`
		DisplayName string              `json:"display_name"`
		Coordinates *coordinatesRequest `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*l = looseLocationRequest{
		City:        obj.City,
		Country:     obj.Country,
		DisplayName: obj.DisplayName,
		Coordinates: obj.Coordinates,
	}
	return nil
}

type passengerRecordRequest struct {
	Name       string `json:"name" validate:"required"`
	PassportNo string `json:"passport_no"`
	IDNo       string `json:"id_no"`
	SeatNo     string `json:"seat_no"`
	Age        *int   `json:"age" validate:"omitempty,gte=0"`
	Gender     string `json:"gender"`
}

type passengerDetailsRequest struct {
	PassengerList []passengerRecordRequest `json:"passenger_list" validate:"dive"`
}

type createPassengerRequest struct {
	CustomerName     string                   `json:"customer_name" validate:"required"`
	CustomerEmail    string                   `json:"customer_email" validate:"required,email"`
	Phone            string                   `json:"phone"`
	Origin           *looseLocationRequest    `json:"origin"`
	Destination      *looseLocationRequest    `json:"destination"`
	TicketClass      string                   `json:"ticket_class"`
	SpecialRequests  string                   `json:"special_requests"`
	PassengerDetails *passengerDetailsRequest `json:"passenger_details"`
	DepartureDate    *time.Time               `json:"departure_date"`
	ArrivalDate      *time.Time               `json:"arrival_date"`
	Price            float64                  `json:"price" validate:"gte=0"`
}

type updatePassengerRequest struct {
	CustomerName     *string                  `json:"customer_name"`
	CustomerEmail    *string                  `json:"customer_email" validate:"omitempty,email"`
	Phone            *string                  `json:"phone"`
	Origin           *looseLocationRequest    `json:"origin"`
	Destination      *looseLocationRequest    `json:"destination"`
	CurrentLocation  *looseLocationRequest    `json:"current_location"`
	TicketClass      *string                  `json:"ticket_class"`
	SpecialRequests  *string                  `json:"special_requests"`
	Status           *string                  `json:"status"`
	DepartureDate    *time.Time               `json:"departure_date"`
	ArrivalDate      *time.Time               `json:"arrival_date"`
	Price            *float64                 `json:"price"`
	PassengerDetails *passengerDetailsRequest `json:"passenger_details"`
}

type addCheckpointRequest struct {
	City        string              `json:"city" validate:"required"`
	Coordinates *coordinatesRequest `json:"coordinates" validate:"required"`
	DisplayName string              `json:"display_name"`
	Note        string              `json:"note"`
}
