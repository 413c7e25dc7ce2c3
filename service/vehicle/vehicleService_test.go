package vehiclesvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/apple00071/onnrides-sub005/model"
	vehiclerepo "github.com/apple00071/onnrides-sub005/repository/vehicle"
)

type stubRepo struct {
	createFn    func(ctx context.Context, v *model.Vehicle) error
	setStatusFn func(ctx context.Context, id string, status model.VehicleStatus) error
	listFn      func(ctx context.Context, f vehiclerepo.ListFilter) ([]model.Vehicle, error)
	detailFn    func(ctx context.Context, id string) (*model.Vehicle, error)
}

func (s *stubRepo) Create(ctx context.Context, v *model.Vehicle) error { return s.createFn(ctx, v) }

func (s *stubRepo) Update(ctx context.Context, v *model.Vehicle) error { return nil }

func (s *stubRepo) SetStatus(ctx context.Context, id string, status model.VehicleStatus) error {
	return s.setStatusFn(ctx, id, status)
}

func (s *stubRepo) List(ctx context.Context, f vehiclerepo.ListFilter) ([]model.Vehicle, error) {
	return s.listFn(ctx, f)
}

func (s *stubRepo) Detail(ctx context.Context, id string) (*model.Vehicle, error) {
	return s.detailFn(ctx, id)
}

func validVehicle() *model.Vehicle {
	return &model.Vehicle{
		Name:         "Honda Activa",
		Type:         model.VehicleScooter,
		Location:     "Madhapur",
		PricePerHour: 45,
	}
}

func TestCreate_DefaultsAndStatus(t *testing.T) {
	var got *model.Vehicle
	r := &stubRepo{createFn: func(ctx context.Context, v *model.Vehicle) error {
		got = v
		return nil
	}}
	svc := New(r)

	if err := svc.Create(context.Background(), validVehicle()); err != nil {
		t.Fatal(err)
	}
	if got.MinBookingHours != 1 || got.Quantity != 1 {
		t.Errorf("defaults not applied: min=%d qty=%d", got.MinBookingHours, got.Quantity)
	}
	if got.Status != model.VehicleActive || !got.IsAvailable {
		t.Errorf("new vehicle must start active and available, got %s/%v", got.Status, got.IsAvailable)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := New(&stubRepo{})

	cases := []struct {
		name   string
		mutate func(v *model.Vehicle)
	}{
		{"missing name", func(v *model.Vehicle) { v.Name = "" }},
		{"missing location", func(v *model.Vehicle) { v.Location = "" }},
		{"zero price", func(v *model.Vehicle) { v.PricePerHour = 0 }},
		{"negative price", func(v *model.Vehicle) { v.PricePerHour = -10 }},
		{"unknown type", func(v *model.Vehicle) { v.Type = model.VehicleType("car") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := validVehicle()
			tc.mutate(v)
			if err := svc.Create(context.Background(), v); Code(err) != ErrBadInput {
				t.Errorf("Create() code = %q, want %q", Code(err), ErrBadInput)
			}
		})
	}
}

func TestSetStatus(t *testing.T) {
	var gotStatus model.VehicleStatus
	r := &stubRepo{setStatusFn: func(ctx context.Context, id string, status model.VehicleStatus) error {
		if id == "missing" {
			return sql.ErrNoRows
		}
		gotStatus = status
		return nil
	}}
	svc := New(r)

	if err := svc.SetStatus(context.Background(), "v1", model.VehicleMaintenance); err != nil {
		t.Fatal(err)
	}
	if gotStatus != model.VehicleMaintenance {
		t.Errorf("status = %s", gotStatus)
	}

	if err := svc.SetStatus(context.Background(), "v1", model.VehicleStatus("crashed")); Code(err) != ErrBadInput {
		t.Errorf("unknown status code = %q, want %q", Code(err), ErrBadInput)
	}
	if err := svc.SetStatus(context.Background(), "missing", model.VehicleActive); Code(err) != ErrNotFound {
		t.Errorf("missing vehicle code = %q, want %q", Code(err), ErrNotFound)
	}
}

func TestRetire_SoftDeletes(t *testing.T) {
	var gotStatus model.VehicleStatus
	r := &stubRepo{setStatusFn: func(ctx context.Context, id string, status model.VehicleStatus) error {
		gotStatus = status
		return nil
	}}
	svc := New(r)

	if err := svc.Retire(context.Background(), "v1"); err != nil {
		t.Fatal(err)
	}
	if gotStatus != model.VehicleRetired {
		t.Errorf("Retire() status = %s, want %s", gotStatus, model.VehicleRetired)
	}
}

func TestBrowse_FiltersToOpenVehicles(t *testing.T) {
	var gotFilter vehiclerepo.ListFilter
	r := &stubRepo{listFn: func(ctx context.Context, f vehiclerepo.ListFilter) ([]model.Vehicle, error) {
		gotFilter = f
		return nil, nil
	}}
	svc := New(r)

	if _, err := svc.Browse(context.Background(), "scooter", "Madhapur"); err != nil {
		t.Fatal(err)
	}
	if !gotFilter.OnlyOpen || gotFilter.Type != "scooter" || gotFilter.Location != "Madhapur" {
		t.Errorf("Browse filter = %+v", gotFilter)
	}

	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotFilter.OnlyOpen {
		t.Error("ListAll must not restrict to open vehicles")
	}
}

func TestDetail_NotFound(t *testing.T) {
	r := &stubRepo{detailFn: func(ctx context.Context, id string) (*model.Vehicle, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(r)

	if _, err := svc.Detail(context.Background(), "missing"); Code(err) != ErrNotFound {
		t.Errorf("Detail() code = %q, want %q", Code(err), ErrNotFound)
	}
}
