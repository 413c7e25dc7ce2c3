package bookingrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/apple00071/onnrides-sub005/model"
)

// HistoryRow is a booking joined with its vehicle for listings.
type HistoryRow struct {
	ID            string    `json:"id"`
	BookingCode   string    `json:"booking_code"`
	VehicleID     string    `json:"vehicle_id"`
	VehicleName   string    `json:"vehicle_name"`
	VehicleType   string    `json:"vehicle_type"`
	Location      string    `json:"location"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatusRow is the owner-scoped payment status projection.
type StatusRow struct {
	BookingID      string    `json:"booking_id"`
	BookingCode    string    `json:"booking_code"`
	VehicleName    string    `json:"vehicle_name"`
	UserEmail      string    `json:"user_email"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalPrice     float64   `json:"total_price"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	PaymentDetails *string   `json:"payment_details,omitempty"`
}

type VehicleSnapshot struct {
	Status          model.VehicleStatus
	IsAvailable     bool
	Quantity        int
	PricePerHour    float64
	MinBookingHours int
}

type Repo interface {
	// LockVehicle reads the vehicle row FOR UPDATE so concurrent creates for
	// the same vehicle serialize on the overlap check.
	LockVehicle(ctx context.Context, tx *sql.Tx, vehicleID string) (*VehicleSnapshot, error)
	CountOverlapping(ctx context.Context, tx *sql.Tx, vehicleID string, start, end time.Time) (int, error)
	Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error

	ByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error)
	ByID(ctx context.Context, id string) (*model.Booking, error)
	ListForUser(ctx context.Context, userID, status string) ([]HistoryRow, error)
	PaymentStatusRow(ctx context.Context, bookingID, userID string) (*StatusRow, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (ownerID string, status model.BookingStatus, payStatus model.PaymentStatus, err error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status model.BookingStatus) error
	SetPaymentOrder(ctx context.Context, id string, detailsJSON string) error
	MarkPaid(ctx context.Context, tx *sql.Tx, id string, detailsJSON string) error
	MarkPaymentFailed(ctx context.Context, id string) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Booking, error)

	ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) LockVehicle(ctx context.Context, tx *sql.Tx, vehicleID string) (*VehicleSnapshot, error) {
	const q = `
		SELECT status, is_available, quantity, price_per_hour, min_booking_hours
		FROM vehicles
		WHERE id = $1
		FOR UPDATE`
	var s VehicleSnapshot
	err := tx.QueryRowContext(ctx, q, vehicleID).Scan(
		&s.Status, &s.IsAvailable, &s.Quantity, &s.PricePerHour, &s.MinBookingHours,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) CountOverlapping(ctx context.Context, tx *sql.Tx, vehicleID string, start, end time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM bookings
		WHERE vehicle_id = $1
		AND status IN ('pending','confirmed')
		AND start_date < $3
		AND end_date > $2`
	var n int
	err := tx.QueryRowContext(ctx, q, vehicleID, start, end).Scan(&n)
	return n, err
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	b.ID = uuid.NewString()
	const q = `
		INSERT INTO bookings (id, booking_code, user_id, vehicle_id, start_date,
			end_date, total_hours, total_price, status, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'pending','pending')
		RETURNING created_at, updated_at`
	return tx.QueryRowContext(ctx, q,
		b.ID, b.BookingCode, b.UserID, b.VehicleID, b.StartDate,
		b.EndDate, b.TotalHours, b.TotalPrice,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

const bookingCols = `id, booking_code, user_id, vehicle_id, start_date, end_date,
	total_hours, total_price, status, payment_status, payment_details,
	created_at, updated_at`

func scanBooking(s interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := s.Scan(
		&b.ID, &b.BookingCode, &b.UserID, &b.VehicleID, &b.StartDate, &b.EndDate,
		&b.TotalHours, &b.TotalPrice, &b.Status, &b.PaymentStatus, &b.PaymentDetails,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) ByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id=$1 AND user_id=$2`, id, userID)
	return scanBooking(row)
}

func (r *repo) ByID(ctx context.Context, id string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *repo) ListForUser(ctx context.Context, userID, status string) ([]HistoryRow, error) {
	q := `
		SELECT b.id, b.booking_code, b.vehicle_id, v.name, v.type, v.location,
			b.start_date, b.end_date, b.total_price, b.status, b.payment_status,
			b.created_at
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id
		WHERE b.user_id = $1`
	args := []any{userID}
	if status != "" {
		q += ` AND b.status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY b.created_at DESC, b.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.ID, &h.BookingCode, &h.VehicleID, &h.VehicleName, &h.VehicleType,
			&h.Location, &h.StartDate, &h.EndDate, &h.TotalPrice, &h.Status,
			&h.PaymentStatus, &h.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) PaymentStatusRow(ctx context.Context, bookingID, userID string) (*StatusRow, error) {
	const q = `
		SELECT b.id, b.booking_code, v.name, u.email,
			b.start_date, b.end_date, b.total_price,
			b.status, b.payment_status, b.payment_details
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id
		JOIN users u ON u.id = b.user_id
		WHERE b.id = $1 AND b.user_id = $2`
	var s StatusRow
	err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
		&s.BookingID, &s.BookingCode, &s.VehicleName, &s.UserEmail,
		&s.StartDate, &s.EndDate, &s.TotalPrice,
		&s.Status, &s.PaymentStatus, &s.PaymentDetails,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (string, model.BookingStatus, model.PaymentStatus, error) {
	const q = `
		SELECT user_id, status, payment_status
		FROM bookings
		WHERE id = $1
		FOR UPDATE`
	var owner string
	var status model.BookingStatus
	var pay model.PaymentStatus
	err := tx.QueryRowContext(ctx, q, id).Scan(&owner, &status, &pay)
	return owner, status, pay, err
}

func (r *repo) UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status model.BookingStatus) error {
	const q = `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

func (r *repo) SetPaymentOrder(ctx context.Context, id string, detailsJSON string) error {
	// Overwrites any prior order so a retried create replaces, not duplicates.
	const q = `
		UPDATE bookings
		SET payment_details = $2::jsonb, updated_at = NOW()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, detailsJSON)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) MarkPaid(ctx context.Context, tx *sql.Tx, id string, detailsJSON string) error {
	const q = `
		UPDATE bookings
		SET payment_status = 'paid',
			status = 'confirmed',
			payment_details = COALESCE(payment_details,'{}'::jsonb) || $2::jsonb,
			updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, detailsJSON)
	return err
}

func (r *repo) MarkPaymentFailed(ctx context.Context, id string) error {
	const q = `
		UPDATE bookings
		SET payment_status = 'failed', updated_at = NOW()
		WHERE id = $1 AND payment_status = 'pending'`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *repo) FindByOrderID(ctx context.Context, orderID string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE payment_details->>'order_id' = $1`, orderID)
	return scanBooking(row)
}

func (r *repo) ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE status = 'pending'
		AND payment_status = 'pending'
		AND created_at < $1`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
