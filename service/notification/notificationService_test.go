package notifysvc

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apple00071/onnrides-sub005/model"
)

type stubUsers struct{ u *model.User }

func (s stubUsers) ByID(ctx context.Context, id string) (*model.User, error) {
	if s.u == nil {
		return nil, errors.New("no such user")
	}
	return s.u, nil
}

type stubVehicles struct{ v *model.Vehicle }

func (s stubVehicles) Detail(ctx context.Context, id string) (*model.Vehicle, error) {
	if s.v == nil {
		return nil, errors.New("no such vehicle")
	}
	return s.v, nil
}

type stubWA struct {
	err  error
	to   string
	msg  string
	sent int
}

func (s *stubWA) Send(ctx context.Context, to, message string) error {
	s.sent++
	s.to, s.msg = to, message
	return s.err
}

type stubWALog struct{ rows []*model.WhatsAppLog }

func (s *stubWALog) Insert(ctx context.Context, l *model.WhatsAppLog) error {
	s.rows = append(s.rows, l)
	return nil
}

type stubMail struct {
	to      []string
	subject string
	body    string
	sent    int
}

func (s *stubMail) Send(ctx context.Context, to, subject, body string) error {
	s.sent++
	s.to = append(s.to, to)
	s.subject, s.body = subject, body
	return nil
}

func sampleBooking() *model.Booking {
	return &model.Booking{
		ID:          "b1",
		BookingCode: "ORA1B2C3D4",
		UserID:      "u1",
		VehicleID:   "v1",
		StartDate:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func newTestService(users UserReader, vehicles VehicleReader, wa *stubWA, waLog *stubWALog, mail *stubMail) *service {
	return &service{
		users:    users,
		vehicles: vehicles,
		wa:       wa,
		waLog:    waLog,
		mail:     mail,
		log:      slog.Default(),
	}
}

func TestDispatch_SendsWhatsAppAndEmail(t *testing.T) {
	wa := &stubWA{}
	waLog := &stubWALog{}
	mail := &stubMail{}
	svc := newTestService(
		stubUsers{u: &model.User{ID: "u1", Phone: "919876543210", Email: "rider@example.com"}},
		stubVehicles{v: &model.Vehicle{ID: "v1", Name: "Honda Activa"}},
		wa, waLog, mail,
	)

	svc.dispatch(sampleBooking(), "booking_confirmed",
		"Your OnnRides booking %s for %s is confirmed. Pickup: %s.",
		"Booking confirmed")

	require.Equal(t, 1, wa.sent)
	require.Equal(t, "919876543210", wa.to)
	require.Contains(t, wa.msg, "ORA1B2C3D4")
	require.Contains(t, wa.msg, "Honda Activa")
	require.Contains(t, wa.msg, "14 Mar 2026 09:30")

	require.Equal(t, 1, mail.sent)
	require.Equal(t, []string{"rider@example.com"}, mail.to)
	require.Equal(t, "Booking confirmed - ORA1B2C3D4", mail.subject)

	require.Len(t, waLog.rows, 1)
	require.Equal(t, model.WhatsAppSent, waLog.rows[0].Status)
	require.Equal(t, "b1", *waLog.rows[0].BookingID)
}

func TestDispatch_WhatsAppFailureIsLoggedNotFatal(t *testing.T) {
	wa := &stubWA{err: errors.New("ultramsg 500")}
	waLog := &stubWALog{}
	mail := &stubMail{}
	svc := newTestService(
		stubUsers{u: &model.User{ID: "u1", Phone: "919876543210", Email: "rider@example.com"}},
		stubVehicles{},
		wa, waLog, mail,
	)

	svc.dispatch(sampleBooking(), "booking_cancelled",
		"Your OnnRides booking %s for %s has been cancelled. Pickup was: %s.",
		"Booking cancelled")

	require.Len(t, waLog.rows, 1)
	require.Equal(t, model.WhatsAppFailed, waLog.rows[0].Status)
	require.NotNil(t, waLog.rows[0].Error)
	require.Equal(t, 1, mail.sent, "email still goes out when whatsapp fails")
}

func TestDispatch_SkipsChannelsWithoutAddress(t *testing.T) {
	wa := &stubWA{}
	waLog := &stubWALog{}
	mail := &stubMail{}
	svc := newTestService(
		stubUsers{u: &model.User{ID: "u1"}},
		stubVehicles{},
		wa, waLog, mail,
	)

	svc.dispatch(sampleBooking(), "payment_failed",
		"Payment for your OnnRides booking %s (%s) failed. Pickup: %s. Please retry from the app.",
		"Payment failed")

	require.Zero(t, wa.sent)
	require.Zero(t, mail.sent)
	require.Empty(t, waLog.rows)
}

func TestDispatch_FallsBackToVehicleID(t *testing.T) {
	wa := &stubWA{}
	svc := newTestService(
		stubUsers{u: &model.User{ID: "u1", Phone: "919876543210"}},
		stubVehicles{},
		wa, &stubWALog{}, &stubMail{},
	)

	svc.dispatch(sampleBooking(), "booking_confirmed",
		"Your OnnRides booking %s for %s is confirmed. Pickup: %s.",
		"Booking confirmed")

	require.Contains(t, wa.msg, "v1")
}

func TestDispatch_AdminCopy(t *testing.T) {
	mail := &stubMail{}
	svc := newTestService(
		stubUsers{u: &model.User{ID: "u1", Name: "Halim", Email: "rider@example.com"}},
		stubVehicles{},
		&stubWA{}, &stubWALog{}, mail,
	)
	svc.adminEmail = "ops@onnrides.com"

	svc.dispatch(sampleBooking(), "booking_confirmed",
		"Your OnnRides booking %s for %s is confirmed. Pickup: %s.",
		"Booking confirmed")

	require.Equal(t, 2, mail.sent)
	require.Equal(t, []string{"rider@example.com", "ops@onnrides.com"}, mail.to)
	require.Contains(t, mail.body, "booking ORA1B2C3D4")
	require.Contains(t, mail.body, "Halim")
}
