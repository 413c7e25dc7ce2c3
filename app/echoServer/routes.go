package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/apple00071/onnrides-sub005/app/echoServer/controller/auth"
	"github.com/apple00071/onnrides-sub005/app/echoServer/controller/booking"
	"github.com/apple00071/onnrides-sub005/app/echoServer/controller/payment"
	"github.com/apple00071/onnrides-sub005/app/echoServer/controller/settings"
	"github.com/apple00071/onnrides-sub005/app/echoServer/controller/user"
	"github.com/apple00071/onnrides-sub005/app/echoServer/controller/vehicle"
	"github.com/apple00071/onnrides-sub005/app/echoServer/controller/vehiclereturn"
	"github.com/apple00071/onnrides-sub005/app/echoServer/jwtx"
)

type C struct {
	Auth     *auth.Controller
	Vehicle  *vehicle.Controller
	Booking  *booking.Controller
	Payment  *payment.Controller
	Settings *settings.Controller
	Return   *vehiclereturn.Controller
	User     *user.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)

	pub.GET("/vehicles", c.Vehicle.Browse)
	pub.GET("/vehicles/:id", c.Vehicle.Detail)

	pub.GET("/settings/maintenance", c.Settings.Maintenance)

	// Gateway webhook authenticates by signature, not JWT.
	pub.POST("/payments/webhook", c.Payment.HandleWebhook)

	// Authenticated
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	authed.Use(extractIdentity)

	authed.POST("/bookings", c.Booking.Create)
	authed.GET("/bookings", c.Booking.MyBookings)
	authed.GET("/bookings/:id", c.Booking.Detail)
	authed.POST("/bookings/:id/cancel", c.Booking.Cancel)

	authed.POST("/payments/order", c.Payment.CreateOrder)
	authed.POST("/payments/verify", c.Payment.Verify)
	authed.GET("/payments/status/:bookingId", c.Payment.Status)

	// Admin
	admin := authed.Group("/admin", adminOnly)
	admin.POST("/vehicles", c.Vehicle.Create)
	admin.PUT("/vehicles/:id", c.Vehicle.Update)
	admin.PATCH("/vehicles/:id/status", c.Vehicle.SetStatus)
	admin.DELETE("/vehicles/:id", c.Vehicle.Retire)
	admin.GET("/vehicles", c.Vehicle.ListAll)

	admin.GET("/settings", c.Settings.List)
	admin.PUT("/settings/:key", c.Settings.Set)
	admin.POST("/maintenance", c.Settings.SetMaintenance)

	admin.POST("/vehicle-returns", c.Return.Create)
	admin.GET("/vehicle-returns", c.Return.List)

	admin.GET("/users", c.User.List)
	admin.PATCH("/users/:id/block", c.User.SetBlocked)
}

// extractIdentity pulls user_id and role out of the verified token so
// controllers read plain context values.
func extractIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sub, err := jwtx.UserIDFromContext(ctx)
		if err != nil {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		ctx.Set("user_id", sub)
		if role, err := jwtx.RoleFromContext(ctx); err == nil {
			ctx.Set("role", role)
		}
		return next(ctx)
	}
}

func adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if role, _ := ctx.Get("role").(string); role != "admin" {
			return ctx.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		}
		return next(ctx)
	}
}
