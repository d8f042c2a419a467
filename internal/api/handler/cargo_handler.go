package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/airrush/charter-api/internal/core/ports"
)

// CargoHandler handles HTTP requests for cargo bookings.
type CargoHandler struct {
	service ports.CargoService
}

func NewCargoHandler(service ports.CargoService) *CargoHandler {
	return &CargoHandler{service: service}
}

// Create handles POST /api/cargo.
//
// @Summary      Book a cargo shipment
// @Tags         cargo
// @Accept       json
// @Produce      json
// @Param        body  body      createCargoRequest  true  "Booking details"
// @Success      201   {object}  domain.CargoBooking
// @Failure      400   {object}  map[string]string
// @Router       /api/cargo [post]
func (h *CargoHandler) Create(c echo.Context) error {
	var req createCargoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.Create(c.Request().Context(), toCreateCargoInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, booking)
}

// List handles GET /api/cargo.
//
// @Summary      List all cargo bookings, newest first
// @Tags         cargo
// @Produce      json
// @Success      200  {array}  domain.CargoBooking
// @Router       /api/cargo [get]
func (h *CargoHandler) List(c echo.Context) error {
	bookings, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

// Track handles GET /api/cargo/track/:airwaybill.
//
// @Summary      Track a cargo booking by airwaybill
// @Tags         cargo
// @Produce      json
// @Param        airwaybill  path      string  true  "Airwaybill (e.g. NBO-7A8B9C)"
// @Success      200         {object}  domain.CargoBooking
// @Failure      404         {object}  map[string]string
// @Router       /api/cargo/track/{airwaybill} [get]
func (h *CargoHandler) Track(c echo.Context) error {
	booking, err := h.service.Get(c.Request().Context(), c.Param("airwaybill"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Update handles PUT /api/cargo/track/:airwaybill.
//
// @Summary      Update mutable fields of a cargo booking
// @Tags         cargo
// @Accept       json
// @Produce      json
// @Param        airwaybill  path      string              true  "Airwaybill"
// @Param        body        body      updateCargoRequest  true  "Fields to change"
// @Success      200         {object}  domain.CargoBooking
// @Failure      404         {object}  map[string]string
// @Failure      409         {object}  map[string]string
// @Failure      422         {object}  map[string]string
// @Router       /api/cargo/track/{airwaybill} [put]
func (h *CargoHandler) Update(c echo.Context) error {
	var req updateCargoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.Update(c.Request().Context(), c.Param("airwaybill"), toUpdateCargoInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Transition handles PUT /api/cargo/track/:airwaybill/status.
//
// @Summary      Move a cargo booking to a new lifecycle status
// @Tags         cargo
// @Accept       json
// @Produce      json
// @Param        airwaybill  path      string                  true  "Airwaybill"
// @Param        body        body      transitionCargoRequest  true  "Target status and current location"
// @Success      200         {object}  domain.CargoBooking
// @Failure      400         {object}  map[string]string
// @Failure      422         {object}  map[string]string
// @Router       /api/cargo/track/{airwaybill}/status [put]
func (h *CargoHandler) Transition(c echo.Context) error {
	var req transitionCargoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loc := toCargoLocationInput(&req.CurrentLocation)
	booking, err := h.service.TransitionStatus(c.Request().Context(), c.Param("airwaybill"), req.Status, *loc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Withdraw handles PUT /api/cargo/track/:airwaybill/withdraw.
//
// @Summary      Release arrived cargo to the customer
// @Tags         cargo
// @Accept       json
// @Produce      json
// @Param        airwaybill  path      string                true  "Airwaybill"
// @Param        body        body      withdrawCargoRequest  true  "Collection note"
// @Success      200         {object}  domain.CargoBooking
// @Failure      422         {object}  map[string]string
// @Router       /api/cargo/track/{airwaybill}/withdraw [put]
func (h *CargoHandler) Withdraw(c echo.Context) error {
	var req withdrawCargoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	booking, err := h.service.Withdraw(c.Request().Context(), c.Param("airwaybill"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Delete handles DELETE /api/cargo/:airwaybill.
//
// @Summary      Permanently remove a cargo booking
// @Tags         cargo
// @Param        airwaybill  path  string  true  "Airwaybill"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/cargo/{airwaybill} [delete]
func (h *CargoHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("airwaybill")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "cargo booking deleted"})
}

// Receipt handles GET /api/cargo/:airwaybill/receipt.
//
// @Summary      Download the air-waybill receipt PDF
// @Tags         cargo
// @Produce      application/pdf
// @Param        airwaybill  path  string  true  "Airwaybill"
// @Success      200  {file}    binary
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/cargo/{airwaybill}/receipt [get]
func (h *CargoHandler) Receipt(c echo.Context) error {
	airwaybill := c.Param("airwaybill")
	data, err := h.service.Receipt(c.Request().Context(), airwaybill)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="receipt-`+airwaybill+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}
