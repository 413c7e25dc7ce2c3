package vehiclereturn

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/apple00071/onnrides-sub005/model"
	returnsvc "github.com/apple00071/onnrides-sub005/service/vehiclereturn"
)

type Controller struct {
	Svc returnsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/admin/vehicle-returns
func (h *Controller) Create(c echo.Context) error {
	var req CreateReturnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	adminID, _ := c.Get("user_id").(string)

	vr := &model.VehicleReturn{
		BookingID:         req.BookingID,
		ConditionNotes:    req.ConditionNotes,
		Damages:           req.Damages,
		AdditionalCharges: req.AdditionalCharges,
		OdometerReading:   req.OdometerReading,
		FuelLevel:         req.FuelLevel,
		Status:            model.ReturnStatus(req.Status),
	}
	if err := h.Svc.Record(c.Request().Context(), adminID, vr); err != nil {
		switch returnsvc.Code(err) {
		case returnsvc.ErrBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case returnsvc.ErrAlreadyReturned:
			return c.JSON(http.StatusConflict, echo.Map{"message": "vehicle already returned for this booking"})
		case returnsvc.ErrNotReturnable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "booking is not in a returnable state"})
		case returnsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("vehicle return create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"data": vr})
}

// GET /v1/admin/vehicle-returns
func (h *Controller) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	rows, total, err := h.Svc.List(c.Request().Context(), page)
	if err != nil {
		h.Log.Error("vehicle return list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	if page < 1 {
		page = 1
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": rows,
		"pagination": echo.Map{
			"current_page": page,
			"total_items":  total,
		},
	})
}
