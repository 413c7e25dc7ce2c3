// Package main OnnRides API.
//
// @title           OnnRides Rental API
// @version         1.0
// @description     Vehicle rental platform (vehicles, bookings, payments, returns).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/apple00071/onnrides-sub005/app/echoServer"
	authctrl "github.com/apple00071/onnrides-sub005/app/echoServer/controller/auth"
	bookingctrl "github.com/apple00071/onnrides-sub005/app/echoServer/controller/booking"
	paymentctrl "github.com/apple00071/onnrides-sub005/app/echoServer/controller/payment"
	settingsctrl "github.com/apple00071/onnrides-sub005/app/echoServer/controller/settings"
	userctrl "github.com/apple00071/onnrides-sub005/app/echoServer/controller/user"
	vehiclectrl "github.com/apple00071/onnrides-sub005/app/echoServer/controller/vehicle"
	returnctrl "github.com/apple00071/onnrides-sub005/app/echoServer/controller/vehiclereturn"
	"github.com/apple00071/onnrides-sub005/app/echoServer/validation"
	"github.com/apple00071/onnrides-sub005/config"
	bookingrepo "github.com/apple00071/onnrides-sub005/repository/booking"
	emailrepo "github.com/apple00071/onnrides-sub005/repository/email"
	razorpayrepo "github.com/apple00071/onnrides-sub005/repository/razorpay"
	settingsrepo "github.com/apple00071/onnrides-sub005/repository/settings"
	userrepo "github.com/apple00071/onnrides-sub005/repository/user"
	vehiclerepo "github.com/apple00071/onnrides-sub005/repository/vehicle"
	returnrepo "github.com/apple00071/onnrides-sub005/repository/vehiclereturn"
	whatsapprepo "github.com/apple00071/onnrides-sub005/repository/whatsapp"
	authsvc "github.com/apple00071/onnrides-sub005/service/auth"
	bookingsvc "github.com/apple00071/onnrides-sub005/service/booking"
	notifysvc "github.com/apple00071/onnrides-sub005/service/notification"
	paymentsvc "github.com/apple00071/onnrides-sub005/service/payment"
	settingssvc "github.com/apple00071/onnrides-sub005/service/settings"
	usersvc "github.com/apple00071/onnrides-sub005/service/user"
	returnsvc "github.com/apple00071/onnrides-sub005/service/vehiclereturn"
	vehiclesvc "github.com/apple00071/onnrides-sub005/service/vehicle"
	"github.com/apple00071/onnrides-sub005/util/database"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	vr := vehiclerepo.New(db)
	br := bookingrepo.New(db)
	rr := returnrepo.New(db)
	sr := settingsrepo.New(db)
	gw := razorpayrepo.NewHTTP(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
	wa := whatsapprepo.NewHTTP(cfg.UltraMsgInstanceID, cfg.UltraMsgToken)
	wl := whatsapprepo.NewLog(db)
	mail := emailrepo.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	vs := vehiclesvc.New(vr)
	ss := settingssvc.New(sr)
	ns := notifysvc.New(ur, vr, wa, wl, mail, cfg.AdminEmail, log)
	bs := bookingsvc.New(db, br, ss, ns, log)
	ps := paymentsvc.New(db, br, gw, ns, log)
	rs := returnsvc.New(db, rr, br)
	us := usersvc.New(ur)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	vehicleC := &vehiclectrl.Controller{Svc: vs, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, V: v, Log: log}
	settingsC := &settingsctrl.Controller{Svc: ss, V: v, Log: log}
	returnC := &returnctrl.Controller{Svc: rs, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}

	// expiry sweep for bookings that never got paid
	cleaner := bookingsvc.NewCleaner(br)
	go func() {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for range t.C {
			n, err := cleaner.ReleaseExpired(ctx)
			if err != nil {
				log.Error("booking expiry sweep", "err", err)
				continue
			}
			if n > 0 {
				log.Info("booking expiry sweep", "cancelled", n)
			}
		}
	}()

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:     authC,
		Vehicle:  vehicleC,
		Booking:  bookingC,
		Payment:  paymentC,
		Settings: settingsC,
		Return:   returnC,
		User:     userC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
