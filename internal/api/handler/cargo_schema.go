package handler

import "time"

// --- Request types ---

type cargoLocationRequest struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type cargoDetailsRequest struct {
	Description string  `json:"description"`
	Weight      float64 `json:"weight" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Length      float64 `json:"length" validate:"gte=0"`
	Width       float64 `json:"width" validate:"gte=0"`
	Height      float64 `json:"height" validate:"gte=0"`
	Volume      float64 `json:"volume"`
}

type createCargoRequest struct {
	CustomerName  string                `json:"customer_name" validate:"required"`
	CustomerEmail string                `json:"customer_email" validate:"required,email"`
	Origin        *cargoLocationRequest `json:"origin" validate:"required"`
	Destination   *cargoLocationRequest `json:"destination" validate:"required"`
	CargoDetails  cargoDetailsRequest   `json:"cargo_details"`
	Price         float64               `json:"price" validate:"gte=0"`
	DepartureDate *time.Time            `json:"departure_date"`
	ArrivalDate   *time.Time            `json:"arrival_date"`
}

// updateCargoRequest is the mutable-field whitelist. Absent fields stay
// untouched; unknown fields are dropped at bind time.
type updateCargoRequest struct {
	CustomerName    *string               `json:"customer_name"`
	CustomerEmail   *string               `json:"customer_email" validate:"omitempty,email"`
	Origin          *cargoLocationRequest `json:"origin"`
	Destination     *cargoLocationRequest `json:"destination"`
	CurrentLocation *cargoLocationRequest `json:"current_location"`
	CargoDetails    *cargoDetailsRequest  `json:"cargo_details"`
	Price           *float64              `json:"price"`
	DepartureDate   *time.Time            `json:"departure_date"`
	ArrivalDate     *time.Time            `json:"arrival_date"`
	Status          *string               `json:"status"`
	DelayReason     *string               `json:"delay_reason"`
	WithdrawReason  *string               `json:"withdraw_reason"`
}

type transitionCargoRequest struct {
	Status          string               `json:"status" validate:"required"`
	CurrentLocation cargoLocationRequest `json:"current_location"`
}

type withdrawCargoRequest struct {
	Reason string `json:"reason"`
}
