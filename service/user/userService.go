package usersvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/apple00071/onnrides-sub005/model"
	userrepo "github.com/apple00071/onnrides-sub005/repository/user"
)

type ErrCode string

const ErrNotFound ErrCode = "USER_NOT_FOUND"

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const pageSize = 10

type Service interface {
	List(ctx context.Context, page int) ([]model.User, int64, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
}

type service struct{ r userrepo.Repo }

func New(r userrepo.Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, page int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	return s.r.List(ctx, pageSize, (page-1)*pageSize)
}

func (s *service) SetBlocked(ctx context.Context, id string, blocked bool) error {
	if err := s.r.SetBlocked(ctx, id, blocked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return codedError{code: ErrNotFound}
		}
		return err
	}
	return nil
}
