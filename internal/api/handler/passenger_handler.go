package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/airrush/charter-api/internal/core/ports"
)

// PassengerHandler handles HTTP requests for passenger bookings.
type PassengerHandler struct {
	service ports.PassengerService
}

func NewPassengerHandler(service ports.PassengerService) *PassengerHandler {
	return &PassengerHandler{service: service}
}

// Create handles POST /api/passengers.
//
// @Summary      Book a passenger charter
// @Tags         passengers
// @Accept       json
// @Produce      json
// @Param        body  body      createPassengerRequest  true  "Booking details"
// @Success      201   {object}  domain.PassengerBooking
// @Failure      400   {object}  map[string]string
// @Router       /api/passengers [post]
func (h *PassengerHandler) Create(c echo.Context) error {
	var req createPassengerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.Create(c.Request().Context(), toCreatePassengerInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, booking)
}

// List handles GET /api/passengers.
//
// @Summary      List all passenger bookings, newest first
// @Tags         passengers
// @Produce      json
// @Success      200  {array}  domain.PassengerBooking
// @Router       /api/passengers [get]
func (h *PassengerHandler) List(c echo.Context) error {
	bookings, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

// Track handles GET /api/passengers/track/:airwaybill.
//
// @Summary      Track a passenger booking by airwaybill
// @Tags         passengers
// @Produce      json
// @Param        airwaybill  path      string  true  "Airwaybill (e.g. PASS_7A8B9C2D3E4F)"
// @Success      200         {object}  domain.PassengerBooking
// @Failure      404         {object}  map[string]string
// @Router       /api/passengers/track/{airwaybill} [get]
func (h *PassengerHandler) Track(c echo.Context) error {
	booking, err := h.service.Get(c.Request().Context(), c.Param("airwaybill"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Update handles PUT /api/passengers/track/:airwaybill.
//
// @Summary      Update mutable fields of a passenger booking
// @Tags         passengers
// @Accept       json
// @Produce      json
// @Param        airwaybill  path      string                  true  "Airwaybill"
// @Param        body        body      updatePassengerRequest  true  "Fields to change"
// @Success      200         {object}  domain.PassengerBooking
// @Failure      404         {object}  map[string]string
// @Failure      409         {object}  map[string]string
// @Router       /api/passengers/track/{airwaybill} [put]
func (h *PassengerHandler) Update(c echo.Context) error {
	var req updatePassengerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.Update(c.Request().Context(), c.Param("airwaybill"), toUpdatePassengerInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// AddCheckpoint handles POST /api/passengers/track/:airwaybill/locations.
//
// @Summary      Record a journey checkpoint for a passenger booking
// @Tags         passengers
// @Accept       json
// @Produce      json
// @Param        airwaybill  path      string                true  "Airwaybill"
// @Param        body        body      addCheckpointRequest  true  "Checkpoint"
// @Success      200         {object}  domain.PassengerBooking
// @Failure      400         {object}  map[string]string
// @Router       /api/passengers/track/{airwaybill}/locations [post]
func (h *PassengerHandler) AddCheckpoint(c echo.Context) error {
	var req addCheckpointRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.AddCheckpoint(c.Request().Context(), c.Param("airwaybill"), toAddCheckpointInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Delete handles DELETE /api/passengers/track/:airwaybill.
//
// @Summary      Cancel and remove a passenger booking
// @Tags         passengers
// @Param        airwaybill  path  string  true  "Airwaybill"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/passengers/track/{airwaybill} [delete]
func (h *PassengerHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("airwaybill")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "passenger booking cancelled"})
}
