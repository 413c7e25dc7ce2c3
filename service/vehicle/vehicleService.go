package vehiclesvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/apple00071/onnrides-sub005/model"
	vehiclerepo "github.com/apple00071/onnrides-sub005/repository/vehicle"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "VEHICLE_NOT_FOUND"
	ErrBadInput ErrCode = "BAD_INPUT"
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

type Repo interface {
	Create(ctx context.Context, v *model.Vehicle) error
	Update(ctx context.Context, v *model.Vehicle) error
	SetStatus(ctx context.Context, id string, status model.VehicleStatus) error
	List(ctx context.Context, f vehiclerepo.ListFilter) ([]model.Vehicle, error)
	Detail(ctx context.Context, id string) (*model.Vehicle, error)
}

type Service interface {
	Create(ctx context.Context, v *model.Vehicle) error
	Update(ctx context.Context, v *model.Vehicle) error
	SetStatus(ctx context.Context, id string, status model.VehicleStatus) error
	Retire(ctx context.Context, id string) error
	// Browse lists vehicles customers can book: active and available.
	Browse(ctx context.Context, vtype, location string) ([]model.Vehicle, error)
	ListAll(ctx context.Context) ([]model.Vehicle, error)
	Detail(ctx context.Context, id string) (*model.Vehicle, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, v *model.Vehicle) error {
	if v.Name == "" || v.Location == "" || v.PricePerHour <= 0 {
		return makeErr(ErrBadInput)
	}
	if v.Type != model.VehicleBike && v.Type != model.VehicleScooter {
		return makeErr(ErrBadInput)
	}
	if v.MinBookingHours <= 0 {
		v.MinBookingHours = 1
	}
	if v.Quantity <= 0 {
		v.Quantity = 1
	}
	v.Status = model.VehicleActive
	v.IsAvailable = true
	return s.r.Create(ctx, v)
}

func (s *service) Update(ctx context.Context, v *model.Vehicle) error {
	if v.ID == "" || v.Name == "" || v.PricePerHour <= 0 {
		return makeErr(ErrBadInput)
	}
	if err := s.r.Update(ctx, v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *service) SetStatus(ctx context.Context, id string, status model.VehicleStatus) error {
	switch status {
	case model.VehicleActive, model.VehicleMaintenance, model.VehicleRetired:
	default:
		return makeErr(ErrBadInput)
	}
	if err := s.r.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return nil
}

// Retire is the soft delete.
func (s *service) Retire(ctx context.Context, id string) error {
	return s.SetStatus(ctx, id, model.VehicleRetired)
}

func (s *service) Browse(ctx context.Context, vtype, location string) ([]model.Vehicle, error) {
	return s.r.List(ctx, vehiclerepo.ListFilter{Type: vtype, Location: location, OnlyOpen: true})
}

func (s *service) ListAll(ctx context.Context) ([]model.Vehicle, error) {
	return s.r.List(ctx, vehiclerepo.ListFilter{})
}

func (s *service) Detail(ctx context.Context, id string) (*model.Vehicle, error) {
	v, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return v, nil
}
