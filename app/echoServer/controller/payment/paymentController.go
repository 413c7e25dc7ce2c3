package payment

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	paymentsvc "github.com/apple00071/onnrides-sub005/service/payment"
)

type Controller struct {
	Svc paymentsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/payments/order
func (h *Controller) CreateOrder(c echo.Context) error {
	var req CreateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "booking_id is required"})
	}
	uid, _ := c.Get("user_id").(string)

	out, err := h.Svc.CreateOrder(c.Request().Context(), uid, req.BookingID)
	if err != nil {
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case paymentsvc.ErrNotPayable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "booking is not awaiting payment"})
		case paymentsvc.ErrGateway:
			return c.JSON(http.StatusBadGateway, echo.Map{"message": "payment gateway error"})
		default:
			h.Log.Error("payment order", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"key": out.KeyID,
		"order": echo.Map{
			"id":       out.OrderID,
			"amount":   out.AmountPaise,
			"currency": out.Currency,
		},
		"prefill": echo.Map{"email": out.PrefillEmail},
	})
}

// POST /v1/payments/verify
func (h *Controller) Verify(c echo.Context) error {
	var req VerifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing required fields"})
	}
	uid, _ := c.Get("user_id").(string)

	err := h.Svc.Verify(c.Request().Context(), uid, paymentsvc.VerifyParams{
		BookingID: req.BookingID,
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
	})
	if err != nil {
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrBadSignature:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payment signature"})
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case paymentsvc.ErrNotPayable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "booking is not awaiting payment"})
		default:
			h.Log.Error("payment verify", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "payment verified"})
}

// POST /v1/payments/webhook
func (h *Controller) HandleWebhook(c echo.Context) error {
	sig := c.Request().Header.Get("X-Razorpay-Signature")
	raw, _ := io.ReadAll(c.Request().Body)

	if err := h.Svc.HandleWebhook(c.Request().Context(), sig, raw); err != nil {
		h.Log.Error("payment webhook", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "webhook rejected"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

// GET /v1/payments/status/:bookingId
func (h *Controller) Status(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	row, err := h.Svc.Status(c.Request().Context(), uid, c.Param("bookingId"))
	if err != nil {
		if paymentsvc.Code(err) == paymentsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		}
		h.Log.Error("payment status", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": row})
}
