package vehicle

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/apple00071/onnrides-sub005/model"
	vehiclesvc "github.com/apple00071/onnrides-sub005/service/vehicle"
)

type Controller struct {
	Svc vehiclesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/vehicles
func (h *Controller) Browse(c echo.Context) error {
	rows, err := h.Svc.Browse(c.Request().Context(), c.QueryParam("type"), c.QueryParam("location"))
	if err != nil {
		h.Log.Error("vehicle browse", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/vehicles/:id
func (h *Controller) Detail(c echo.Context) error {
	v, err := h.Svc.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		if vehiclesvc.Code(err) == vehiclesvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		}
		h.Log.Error("vehicle detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": v})
}

// GET /v1/admin/vehicles
func (h *Controller) ListAll(c echo.Context) error {
	rows, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error("vehicle list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/admin/vehicles
func (h *Controller) Create(c echo.Context) error {
	req, ok := h.bindUpsert(c)
	if !ok {
		return nil
	}

	v := reqToModel(req)
	if err := h.Svc.Create(c.Request().Context(), v); err != nil {
		if vehiclesvc.Code(err) == vehiclesvc.ErrBadInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("vehicle create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": v})
}

// PUT /v1/admin/vehicles/:id
func (h *Controller) Update(c echo.Context) error {
	req, ok := h.bindUpsert(c)
	if !ok {
		return nil
	}

	v := reqToModel(req)
	v.ID = c.Param("id")
	if err := h.Svc.Update(c.Request().Context(), v); err != nil {
		switch vehiclesvc.Code(err) {
		case vehiclesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		case vehiclesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("vehicle update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// PATCH /v1/admin/vehicles/:id/status
func (h *Controller) SetStatus(c echo.Context) error {
	var req SetStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	if err := h.Svc.SetStatus(c.Request().Context(), c.Param("id"), model.VehicleStatus(req.Status)); err != nil {
		switch vehiclesvc.Code(err) {
		case vehiclesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		case vehiclesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("vehicle set status", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated"})
}

// DELETE /v1/admin/vehicles/:id
func (h *Controller) Retire(c echo.Context) error {
	if err := h.Svc.Retire(c.Request().Context(), c.Param("id")); err != nil {
		if vehiclesvc.Code(err) == vehiclesvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		}
		h.Log.Error("vehicle retire", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "retired"})
}

// bindUpsert binds and validates the payload, writing the error response
// itself when the payload is bad.
func (h *Controller) bindUpsert(c echo.Context) (*UpsertVehicleReq, bool) {
	var req UpsertVehicleReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
		return nil, false
	}
	if err := h.V.Struct(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
		return nil, false
	}
	return &req, true
}

func reqToModel(req *UpsertVehicleReq) *model.Vehicle {
	v := &model.Vehicle{
		Name:            req.Name,
		Type:            model.VehicleType(req.Type),
		Location:        req.Location,
		Quantity:        req.Quantity,
		PricePerHour:    req.PricePerHour,
		Price7Days:      req.Price7Days,
		Price15Days:     req.Price15Days,
		Price30Days:     req.Price30Days,
		MinBookingHours: req.MinBookingHours,
		Images:          req.Images,
		IsAvailable:     true,
	}
	if req.IsAvailable != nil {
		v.IsAvailable = *req.IsAvailable
	}
	return v
}
