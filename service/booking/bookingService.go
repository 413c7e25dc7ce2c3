package bookingsvc

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apple00071/onnrides-sub005/model"
	bookingrepo "github.com/apple00071/onnrides-sub005/repository/booking"
)

type ErrCode string

const (
	ErrMaintenance        ErrCode = "MAINTENANCE_MODE"
	ErrVehicleNotFound    ErrCode = "VEHICLE_NOT_FOUND"
	ErrVehicleUnavailable ErrCode = "VEHICLE_UNAVAILABLE"
	ErrInvalidRange       ErrCode = "INVALID_RANGE"
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrNotOwner           ErrCode = "NOT_OWNER"
	ErrNotCancellable     ErrCode = "NOT_CANCELLABLE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type HistoryRow = bookingrepo.HistoryRow

// Gate reports whether the platform is closed for new bookings.
type Gate interface {
	MaintenanceOn(ctx context.Context) (bool, error)
}

// Notifier receives best-effort booking lifecycle events.
type Notifier interface {
	BookingCancelled(b *model.Booking)
}

type Repo interface {
	LockVehicle(ctx context.Context, tx *sql.Tx, vehicleID string) (*bookingrepo.VehicleSnapshot, error)
	CountOverlapping(ctx context.Context, tx *sql.Tx, vehicleID string, start, end time.Time) (int, error)
	Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error

	ByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error)
	ByID(ctx context.Context, id string) (*model.Booking, error)
	ListForUser(ctx context.Context, userID, status string) ([]HistoryRow, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (string, model.BookingStatus, model.PaymentStatus, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status model.BookingStatus) error

	ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type CreateParams struct {
	VehicleID string
	StartDate time.Time
	EndDate   time.Time
}

type Service interface {
	// Create inserts a pending booking after the maintenance gate and the
	// availability overlap check pass.
	Create(ctx context.Context, userID string, p CreateParams) (*model.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string) error
	MyBookings(ctx context.Context, userID, status string) ([]HistoryRow, error)
	Get(ctx context.Context, userID string, isAdmin bool, bookingID string) (*model.Booking, error)
}

type service struct {
	db   *sql.DB
	r    Repo
	gate Gate
	n    Notifier
	log  *slog.Logger
}

func New(db *sql.DB, r Repo, gate Gate, n Notifier, log *slog.Logger) Service {
	return &service{db: db, r: r, gate: gate, n: n, log: log}
}

// ChargeableHours rounds the rental duration up to whole hours and applies the
// vehicle's minimum.
func ChargeableHours(start, end time.Time, minHours int) float64 {
	h := math.Ceil(end.Sub(start).Hours())
	if min := float64(minHours); h < min {
		h = min
	}
	return h
}

// NewBookingCode builds the customer-facing display code.
func NewBookingCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "OR" + raw[:8]
}

func (s *service) Create(ctx context.Context, userID string, p CreateParams) (b *model.Booking, err error) {
	if p.VehicleID == "" || !p.EndDate.After(p.StartDate) {
		return nil, makeErr(ErrInvalidRange)
	}
	if p.StartDate.Before(time.Now().Add(-5 * time.Minute)) {
		return nil, makeErr(ErrInvalidRange)
	}

	on, err := s.gate.MaintenanceOn(ctx)
	if err != nil {
		return nil, err
	}
	if on {
		return nil, makeErr(ErrMaintenance)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	v, err := s.r.LockVehicle(ctx, tx, p.VehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrVehicleNotFound)
		}
		return nil, err
	}
	if v.Status != model.VehicleActive || !v.IsAvailable {
		return nil, makeErr(ErrVehicleUnavailable)
	}

	overlapping, err := s.r.CountOverlapping(ctx, tx, p.VehicleID, p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}
	if overlapping >= v.Quantity {
		return nil, makeErr(ErrVehicleUnavailable)
	}

	hours := ChargeableHours(p.StartDate, p.EndDate, v.MinBookingHours)
	b = &model.Booking{
		BookingCode:   NewBookingCode(),
		UserID:        userID,
		VehicleID:     p.VehicleID,
		StartDate:     p.StartDate.UTC(),
		EndDate:       p.EndDate.UTC(),
		TotalHours:    hours,
		TotalPrice:    hours * v.PricePerHour,
		Status:        model.BookingPending,
		PaymentStatus: model.PaymentPending,
	}
	if err = s.r.Insert(ctx, tx, b); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	owner, status, _, err := s.r.GetForUpdate(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if owner != userID {
		return makeErr(ErrNotOwner)
	}
	if !model.CanTransition(status, model.BookingCancelled) {
		return makeErr(ErrNotCancellable)
	}

	if err = s.r.UpdateStatus(ctx, tx, bookingID, model.BookingCancelled); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	if s.n != nil {
		if b, err := s.r.ByID(context.WithoutCancel(ctx), bookingID); err == nil {
			s.n.BookingCancelled(b)
		}
	}
	return nil
}

func (s *service) MyBookings(ctx context.Context, userID, status string) ([]HistoryRow, error) {
	return s.r.ListForUser(ctx, userID, status)
}

func (s *service) Get(ctx context.Context, userID string, isAdmin bool, bookingID string) (*model.Booking, error) {
	var b *model.Booking
	var err error
	if isAdmin {
		b, err = s.r.ByID(ctx, bookingID)
	} else {
		b, err = s.r.ByIDForUser(ctx, bookingID, userID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}
