package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	settingssvc "github.com/apple00071/onnrides-sub005/service/settings"
)

type Controller struct {
	Svc settingssvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type setValueReq struct {
	Value string `json:"value" validate:"required"`
}

type maintenanceReq struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// GET /v1/settings/maintenance
func (h *Controller) Maintenance(c echo.Context) error {
	on, err := h.Svc.MaintenanceOn(c.Request().Context())
	if err != nil {
		h.Log.Error("maintenance read", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"maintenance": on})
}

// POST /v1/admin/maintenance
func (h *Controller) SetMaintenance(c echo.Context) error {
	var req maintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "enabled is required"})
	}

	if err := h.Svc.SetMaintenance(c.Request().Context(), *req.Enabled); err != nil {
		h.Log.Error("maintenance toggle", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"maintenance": *req.Enabled})
}

// GET /v1/admin/settings
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("settings list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /v1/admin/settings/:key
func (h *Controller) Set(c echo.Context) error {
	key := c.Param("key")
	if key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "key is required"})
	}

	var req setValueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "value is required"})
	}

	if err := h.Svc.Set(c.Request().Context(), key, req.Value); err != nil {
		h.Log.Error("settings set", "key", key, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "saved"})
}
