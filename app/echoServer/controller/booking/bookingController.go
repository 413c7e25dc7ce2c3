package booking

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	bookingsvc "github.com/apple00071/onnrides-sub005/service/booking"
)

type Controller struct {
	Svc bookingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(string)

	b, err := h.Svc.Create(c.Request().Context(), uid, bookingsvc.CreateParams{
		VehicleID: req.VehicleID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		switch bookingsvc.Code(err) {
		case bookingsvc.ErrMaintenance:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "bookings are temporarily disabled"})
		case bookingsvc.ErrVehicleNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		case bookingsvc.ErrVehicleUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "vehicle is not available for the selected dates"})
		case bookingsvc.ErrInvalidRange:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date range"})
		default:
			h.Log.Error("booking create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// GET /v1/bookings
func (h *Controller) MyBookings(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	rows, err := h.Svc.MyBookings(c.Request().Context(), uid, c.QueryParam("status"))
	if err != nil {
		h.Log.Error("booking history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/bookings/:id
func (h *Controller) Detail(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	b, err := h.Svc.Get(c.Request().Context(), uid, role == "admin", c.Param("id"))
	if err != nil {
		if bookingsvc.Code(err) == bookingsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		}
		h.Log.Error("booking detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// POST /v1/bookings/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	if err := h.Svc.Cancel(c.Request().Context(), uid, c.Param("id")); err != nil {
		switch bookingsvc.Code(err) {
		case bookingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case bookingsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case bookingsvc.ErrNotCancellable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "booking cannot be cancelled"})
		default:
			h.Log.Error("booking cancel", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cancelled"})
}
