package vehiclerepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/apple00071/onnrides-sub005/model"
)

type ListFilter struct {
	Type     string
	Location string
	// OnlyOpen restricts to active vehicles flagged available.
	OnlyOpen bool
}

type Repo interface {
	Create(ctx context.Context, v *model.Vehicle) error
	Update(ctx context.Context, v *model.Vehicle) error
	SetStatus(ctx context.Context, id string, status model.VehicleStatus) error
	List(ctx context.Context, f ListFilter) ([]model.Vehicle, error)
	Detail(ctx context.Context, id string) (*model.Vehicle, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const vehicleCols = `id, name, type, location, quantity, price_per_hour,
	price_7_days, price_15_days, price_30_days, min_booking_hours,
	is_available, images, status, created_at, updated_at`

func (r *repo) Create(ctx context.Context, v *model.Vehicle) error {
	v.ID = uuid.NewString()
	imgs, err := json.Marshal(v.Images)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO vehicles (id, name, type, location, quantity, price_per_hour,
			price_7_days, price_15_days, price_30_days, min_booking_hours,
			is_available, images, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		v.ID, v.Name, v.Type, v.Location, v.Quantity, v.PricePerHour,
		v.Price7Days, v.Price15Days, v.Price30Days, v.MinBookingHours,
		v.IsAvailable, string(imgs), v.Status,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *repo) Update(ctx context.Context, v *model.Vehicle) error {
	imgs, err := json.Marshal(v.Images)
	if err != nil {
		return err
	}
	const q = `
		UPDATE vehicles
		SET name=$2, type=$3, location=$4, quantity=$5, price_per_hour=$6,
			price_7_days=$7, price_15_days=$8, price_30_days=$9,
			min_booking_hours=$10, is_available=$11, images=$12, updated_at=NOW()
		WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q,
		v.ID, v.Name, v.Type, v.Location, v.Quantity, v.PricePerHour,
		v.Price7Days, v.Price15Days, v.Price30Days, v.MinBookingHours,
		v.IsAvailable, string(imgs),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) SetStatus(ctx context.Context, id string, status model.VehicleStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vehicles
		SET status=$2, updated_at=NOW()
		WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) List(ctx context.Context, f ListFilter) ([]model.Vehicle, error) {
	q := `SELECT ` + vehicleCols + ` FROM vehicles WHERE 1=1`
	args := []any{}
	if f.OnlyOpen {
		q += ` AND status='active' AND is_available`
	}
	if f.Type != "" {
		args = append(args, f.Type)
		q += ` AND type=$1`
	}
	if f.Location != "" {
		args = append(args, f.Location)
		if len(args) == 1 {
			q += ` AND location=$1`
		} else {
			q += ` AND location=$2`
		}
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id string) (*model.Vehicle, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+vehicleCols+` FROM vehicles WHERE id=$1`, id)
	return scanVehicle(row)
}

type scanner interface{ Scan(dest ...any) error }

func scanVehicle(s scanner) (*model.Vehicle, error) {
	var v model.Vehicle
	var imgs string
	err := s.Scan(
		&v.ID, &v.Name, &v.Type, &v.Location, &v.Quantity, &v.PricePerHour,
		&v.Price7Days, &v.Price15Days, &v.Price30Days, &v.MinBookingHours,
		&v.IsAvailable, &imgs, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imgs != "" {
		if err := json.Unmarshal([]byte(imgs), &v.Images); err != nil {
			return nil, err
		}
	}
	return &v, nil
}
