package whatsapprepo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/apple00071/onnrides-sub005/model"
)

type LogRepo interface {
	Insert(ctx context.Context, l *model.WhatsAppLog) error
}

type logRepo struct{ db *sql.DB }

func NewLog(db *sql.DB) LogRepo { return &logRepo{db} }

func (r *logRepo) Insert(ctx context.Context, l *model.WhatsAppLog) error {
	l.ID = uuid.NewString()
	const q = `
		INSERT INTO whatsapp_logs (id, recipient, message, booking_id, status, error)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`
	return r.db.QueryRowContext(ctx, q,
		l.ID, l.Recipient, l.Message, l.BookingID, l.Status, l.Error,
	).Scan(&l.CreatedAt)
}
