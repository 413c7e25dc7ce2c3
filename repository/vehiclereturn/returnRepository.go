package returnrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/apple00071/onnrides-sub005/model"
)

// ListRow joins a return with its booking, vehicle, customer and the admin
// who processed it.
type ListRow struct {
	ID                string    `json:"id"`
	BookingID         string    `json:"booking_id"`
	BookingCode       string    `json:"booking_code"`
	VehicleName       string    `json:"vehicle_name"`
	VehicleType       string    `json:"vehicle_type"`
	UserName          string    `json:"user_name"`
	UserEmail         string    `json:"user_email"`
	ConditionNotes    string    `json:"condition_notes"`
	Damages           *string   `json:"damages,omitempty"`
	AdditionalCharges float64   `json:"additional_charges"`
	Status            string    `json:"status"`
	ProcessedByName   *string   `json:"processed_by_name,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type Repo interface {
	// Insert writes the return row inside the caller's transaction. A unique
	// constraint on booking_id rejects a second return for the same booking.
	Insert(ctx context.Context, tx *sql.Tx, vr *model.VehicleReturn) error
	List(ctx context.Context, limit, offset int) ([]ListRow, int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, vr *model.VehicleReturn) error {
	vr.ID = uuid.NewString()
	const q = `
		INSERT INTO vehicle_returns (id, booking_id, condition_notes, damages,
			additional_charges, odometer_reading, fuel_level, status, processed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`
	return tx.QueryRowContext(ctx, q,
		vr.ID, vr.BookingID, vr.ConditionNotes, vr.Damages,
		vr.AdditionalCharges, vr.OdometerReading, vr.FuelLevel, vr.Status, vr.ProcessedBy,
	).Scan(&vr.CreatedAt)
}

func (r *repo) List(ctx context.Context, limit, offset int) ([]ListRow, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicle_returns`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
		SELECT vr.id, vr.booking_id, b.booking_code, v.name, v.type,
			u.name, u.email, vr.condition_notes, vr.damages,
			vr.additional_charges, vr.status, admin.name, vr.created_at
		FROM vehicle_returns vr
		JOIN bookings b ON b.id = vr.booking_id
		JOIN vehicles v ON v.id = b.vehicle_id
		JOIN users u ON u.id = b.user_id
		LEFT JOIN users admin ON admin.id = vr.processed_by
		ORDER BY vr.created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ListRow
	for rows.Next() {
		var l ListRow
		if err := rows.Scan(
			&l.ID, &l.BookingID, &l.BookingCode, &l.VehicleName, &l.VehicleType,
			&l.UserName, &l.UserEmail, &l.ConditionNotes, &l.Damages,
			&l.AdditionalCharges, &l.Status, &l.ProcessedByName, &l.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}
