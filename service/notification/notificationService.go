package notifysvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/apple00071/onnrides-sub005/model"
	emailrepo "github.com/apple00071/onnrides-sub005/repository/email"
	whatsapprepo "github.com/apple00071/onnrides-sub005/repository/whatsapp"
)

const sendTimeout = 15 * time.Second

type UserReader interface {
	ByID(ctx context.Context, id string) (*model.User, error)
}

type VehicleReader interface {
	Detail(ctx context.Context, id string) (*model.Vehicle, error)
}

// Service fans booking lifecycle events out to WhatsApp and email. Sends are
// fire-and-forget: failures are logged, never surfaced to the request.
type Service interface {
	BookingConfirmed(b *model.Booking)
	BookingCancelled(b *model.Booking)
	PaymentFailed(b *model.Booking)
}

type service struct {
	users      UserReader
	vehicles   VehicleReader
	wa         whatsapprepo.Repo
	waLog      whatsapprepo.LogRepo
	mail       emailrepo.Repo
	adminEmail string
	log        *slog.Logger
}

func New(users UserReader, vehicles VehicleReader, wa whatsapprepo.Repo, waLog whatsapprepo.LogRepo, mail emailrepo.Repo, adminEmail string, log *slog.Logger) Service {
	return &service{users: users, vehicles: vehicles, wa: wa, waLog: waLog, mail: mail, adminEmail: adminEmail, log: log}
}

func (s *service) BookingConfirmed(b *model.Booking) {
	go s.dispatch(b, "booking_confirmed",
		"Your OnnRides booking %s for %s is confirmed. Pickup: %s.",
		"Booking confirmed")
}

func (s *service) BookingCancelled(b *model.Booking) {
	go s.dispatch(b, "booking_cancelled",
		"Your OnnRides booking %s for %s has been cancelled. Pickup was: %s.",
		"Booking cancelled")
}

func (s *service) PaymentFailed(b *model.Booking) {
	go s.dispatch(b, "payment_failed",
		"Payment for your OnnRides booking %s (%s) failed. Pickup: %s. Please retry from the app.",
		"Payment failed")
}

func (s *service) dispatch(b *model.Booking, event, format, subject string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	u, err := s.users.ByID(ctx, b.UserID)
	if err != nil {
		s.log.Error("notify: load user", "event", event, "booking_id", b.ID, "err", err)
		return
	}
	vehicleName := b.VehicleID
	if v, err := s.vehicles.Detail(ctx, b.VehicleID); err == nil {
		vehicleName = v.Name
	}

	msg := fmt.Sprintf(format, b.BookingCode, vehicleName, b.StartDate.Format("02 Jan 2006 15:04"))

	if u.Phone != "" {
		s.sendWhatsApp(ctx, u.Phone, msg, b.ID, event)
	}
	if u.Email != "" && s.mail != nil {
		if err := s.mail.Send(ctx, u.Email, subject+" - "+b.BookingCode, msg); err != nil {
			s.log.Warn("notify: email send", "event", event, "booking_id", b.ID, "err", err)
		}
	}
	// Admins get a copy of every lifecycle event.
	if s.adminEmail != "" && s.mail != nil {
		admin := fmt.Sprintf("[%s] booking %s, customer %s (%s)", event, b.BookingCode, u.Name, u.Email)
		if err := s.mail.Send(ctx, s.adminEmail, subject+" - "+b.BookingCode, admin+"\n\n"+msg); err != nil {
			s.log.Warn("notify: admin email", "event", event, "booking_id", b.ID, "err", err)
		}
	}
}

func (s *service) sendWhatsApp(ctx context.Context, to, msg, bookingID, event string) {
	l := &model.WhatsAppLog{
		Recipient: to,
		Message:   msg,
		BookingID: &bookingID,
		Status:    model.WhatsAppSent,
	}
	if err := s.wa.Send(ctx, to, msg); err != nil {
		s.log.Warn("notify: whatsapp send", "event", event, "booking_id", bookingID, "err", err)
		e := err.Error()
		l.Status = model.WhatsAppFailed
		l.Error = &e
	}
	if err := s.waLog.Insert(ctx, l); err != nil {
		s.log.Warn("notify: whatsapp log", "booking_id", bookingID, "err", err)
	}
}
