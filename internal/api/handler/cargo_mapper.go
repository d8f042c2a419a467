package handler

import "github.com/airrush/charter-api/internal/core/ports"

func toCargoLocationInput(r *cargoLocationRequest) *ports.CargoLocationInput {
	if r == nil {
		return nil
	}
	return &ports.CargoLocationInput{
		City:    r.City,
		Country: r.Country,
		Lat:     r.Lat,
		Lng:     r.Lng,
	}
}

func toCargoDetailsInput(r cargoDetailsRequest) ports.CargoDetailsInput {
	return ports.CargoDetailsInput{
		Description: r.Description,
		Weight:      r.Weight,
		Quantity:    r.Quantity,
		Length:      r.Length,
		Width:       r.Width,
		Height:      r.Height,
		Volume:      r.Volume,
	}
}

func toCreateCargoInput(req createCargoRequest) ports.CreateCargoInput {
	return ports.CreateCargoInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Origin:        toCargoLocationInput(req.Origin),
		Destination:   toCargoLocationInput(req.Destination),
		CargoDetails:  toCargoDetailsInput(req.CargoDetails),
		Price:         req.Price,
		DepartureDate: req.DepartureDate,
		ArrivalDate:   req.ArrivalDate,
	}
}

func toUpdateCargoInput(req updateCargoRequest) ports.UpdateCargoInput {
	patch := ports.UpdateCargoInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Origin:          toCargoLocationInput(req.Origin),
		Destination:     toCargoLocationInput(req.Destination),
		CurrentLocation: toCargoLocationInput(req.CurrentLocation),
		Price:           req.Price,
		DepartureDate:   req.DepartureDate,
		ArrivalDate:     req.ArrivalDate,
		Status:          req.Status,
		DelayReason:     req.DelayReason,
		WithdrawReason:  req.WithdrawReason,
	}
	if req.CargoDetails != nil {
		details := toCargoDetailsInput(*req.CargoDetails)
		patch.CargoDetails = &details
	}
	return patch
}
