package returnsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/apple00071/onnrides-sub005/model"
	returnrepo "github.com/apple00071/onnrides-sub005/repository/vehiclereturn"
)

type ErrCode string

const (
	ErrBookingNotFound ErrCode = "BOOKING_NOT_FOUND"
	ErrAlreadyReturned ErrCode = "ALREADY_RETURNED"
	ErrNotReturnable   ErrCode = "NOT_RETURNABLE"
	ErrBadInput        ErrCode = "BAD_INPUT"
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

type ListRow = returnrepo.ListRow

type BookingRepo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (string, model.BookingStatus, model.PaymentStatus, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status model.BookingStatus) error
}

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, vr *model.VehicleReturn) error
	List(ctx context.Context, limit, offset int) ([]returnrepo.ListRow, int64, error)
}

type Service interface {
	// Record writes the return and completes the booking in one transaction.
	// A second return for the same booking fails with ErrAlreadyReturned.
	Record(ctx context.Context, adminID string, vr *model.VehicleReturn) error
	List(ctx context.Context, page int) ([]ListRow, int64, error)
}

const pageSize = 10

type service struct {
	db *sql.DB
	r  Repo
	b  BookingRepo
}

func New(db *sql.DB, r Repo, b BookingRepo) Service {
	return &service{db: db, r: r, b: b}
}

func (s *service) Record(ctx context.Context, adminID string, vr *model.VehicleReturn) (err error) {
	if vr.BookingID == "" {
		return makeErr(ErrBadInput)
	}
	switch vr.Status {
	case "":
		vr.Status = model.ReturnCompleted
	case model.ReturnPending, model.ReturnCompleted, model.ReturnDisputed:
	default:
		return makeErr(ErrBadInput)
	}
	vr.ProcessedBy = adminID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, status, _, err := s.b.GetForUpdate(ctx, tx, vr.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrBookingNotFound)
		}
		return err
	}
	if status == model.BookingCompleted {
		return makeErr(ErrAlreadyReturned)
	}
	if !model.CanTransition(status, model.BookingCompleted) {
		return makeErr(ErrNotReturnable)
	}

	if err = s.r.Insert(ctx, tx, vr); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return makeErr(ErrAlreadyReturned)
		}
		return err
	}
	if err = s.b.UpdateStatus(ctx, tx, vr.BookingID, model.BookingCompleted); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) List(ctx context.Context, page int) ([]ListRow, int64, error) {
	if page < 1 {
		page = 1
	}
	return s.r.List(ctx, pageSize, (page-1)*pageSize)
}
