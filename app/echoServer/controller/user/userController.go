package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	usersvc "github.com/apple00071/onnrides-sub005/service/user"
)

type Controller struct {
	Svc usersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type blockReq struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

// GET /v1/admin/users
func (h *Controller) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	rows, total, err := h.Svc.List(c.Request().Context(), page)
	if err != nil {
		h.Log.Error("user list", "err", err)
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

// PATCH /v1/admin/users/:id/block
func (h *Controller) SetBlocked(c echo.Context) error {
	var req blockReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "blocked is required"})
	}

	if err := h.Svc.SetBlocked(c.Request().Context(), c.Param("id"), *req.Blocked); err != nil {
		if usersvc.Code(err) == usersvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("user block", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"blocked": *req.Blocked})
}
