package handler

import (
	"github.com/airrush/charter-api/internal/core/domain"
	"github.com/airrush/charter-api/internal/core/ports"
)

func toLocationInput(r *looseLocationRequest) *ports.LocationInput {
	if r == nil {
		return nil
	}
	in := &ports.LocationInput{
		Text:        r.Text,
		City:        r.City,
		Country:     r.Country,
		DisplayName: r.DisplayName,
	}
	if r.Coordinates != nil {
		in.Coordinates = &domain.Coordinates{Lat: r.Coordinates.Lat, Lng: r.Coordinates.Lng}
	}
	return in
}

func toPassengerDetailsInput(r *passengerDetailsRequest) *ports.PassengerDetailsInput {
	if r == nil {
		return nil
	}
	list := make([]ports.PassengerRecordInput, 0, len(r.PassengerList))
	for _, p := range r.PassengerList {
		list = append(list, ports.PassengerRecordInput{
			Name:       p.Name,
			PassportNo: p.PassportNo,
			IDNo:       p.IDNo,
			SeatNo:     p.SeatNo,
			Age:        p.Age,
			Gender:     p.Gender,
		})
	}
	return &ports.PassengerDetailsInput{PassengerList: list}
}

func toCreatePassengerInput(req createPassengerRequest) ports.CreatePassengerInput {
	return ports.CreatePassengerInput{
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		Phone:            req.Phone,
		Origin:           toLocationInput(req.Origin),
		Destination:      toLocationInput(req.Destination),
		TicketClass:      req.TicketClass,
		SpecialRequests:  req.SpecialRequests,
		PassengerDetails: toPassengerDetailsInput(req.PassengerDetails),
		DepartureDate:    req.DepartureDate,
		ArrivalDate:      req.ArrivalDate,
		Price:            req.Price,
	}
}

func toUpdatePassengerInput(req updatePassengerRequest) ports.UpdatePassengerInput {
	return ports.UpdatePassengerInput{
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		Phone:            req.Phone,
		Origin:           toLocationInput(req.Origin),
		Destination:      toLocationInput(req.Destination),
		CurrentLocation:  toLocationInput(req.CurrentLocation),
		TicketClass:      req.TicketClass,
		SpecialRequests:  req.SpecialRequests,
		Status:           req.Status,
		DepartureDate:    req.DepartureDate,
		ArrivalDate:      req.ArrivalDate,
		Price:            req.Price,
		PassengerDetails: toPassengerDetailsInput(req.PassengerDetails),
	}
}

func toAddCheckpointInput(req addCheckpointRequest) ports.AddCheckpointInput {
	in := ports.AddCheckpointInput{
		City:        req.City,
		DisplayName: req.DisplayName,
		Note:        req.Note,
	}
	if req.Coordinates != nil {
		in.Coordinates = &domain.Coordinates{Lat: req.Coordinates.Lat, Lng: req.Coordinates.Lng}
	}
	return in
}
