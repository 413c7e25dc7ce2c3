package paymentsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/apple00071/onnrides-sub005/model"
	bookingrepo "github.com/apple00071/onnrides-sub005/repository/booking"
	razorpayrepo "github.com/apple00071/onnrides-sub005/repository/razorpay"
)

type ErrCode string

const (
	ErrNotFound     ErrCode = "BOOKING_NOT_FOUND"
	ErrNotPayable   ErrCode = "NOT_PAYABLE"
	ErrBadSignature ErrCode = "BAD_SIGNATURE"
	ErrGateway      ErrCode = "GATEWAY_ERROR"
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

type StatusRow = bookingrepo.StatusRow

// Notifier receives best-effort payment lifecycle events.
type Notifier interface {
	BookingConfirmed(b *model.Booking)
	PaymentFailed(b *model.Booking)
}

type Repo interface {
	ByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error)
	PaymentStatusRow(ctx context.Context, bookingID, userID string) (*bookingrepo.StatusRow, error)
	SetPaymentOrder(ctx context.Context, id string, detailsJSON string) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (string, model.BookingStatus, model.PaymentStatus, error)
	MarkPaid(ctx context.Context, tx *sql.Tx, id string, detailsJSON string) error
	MarkPaymentFailed(ctx context.Context, id string) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Booking, error)
	ByID(ctx context.Context, id string) (*model.Booking, error)
}

type OrderCreated struct {
	KeyID        string
	OrderID      string
	AmountPaise  int64
	Currency     string
	PrefillEmail string
}

type VerifyParams struct {
	BookingID string
	OrderID   string
	PaymentID string
	Signature string
}

type Service interface {
	// CreateOrder creates a gateway order for the booking's total price and
	// stores it on the booking. A retried call replaces the stored order.
	CreateOrder(ctx context.Context, userID, bookingID string) (*OrderCreated, error)
	// Verify confirms a checkout callback signature and marks the booking paid.
	Verify(ctx context.Context, userID string, p VerifyParams) error
	// HandleWebhook reconciles gateway webhook events against bookings.
	HandleWebhook(ctx context.Context, signature string, raw []byte) error
	Status(ctx context.Context, userID, bookingID string) (*StatusRow, error)
}

type service struct {
	db  *sql.DB
	r   Repo
	gw  razorpayrepo.Repo
	n   Notifier
	log *slog.Logger
}

func New(db *sql.DB, r Repo, gw razorpayrepo.Repo, n Notifier, log *slog.Logger) Service {
	return &service{db: db, r: r, gw: gw, n: n, log: log}
}

func (s *service) CreateOrder(ctx context.Context, userID, bookingID string) (*OrderCreated, error) {
	// Owner-scoped lookup: a foreign booking reads as absent.
	row, err := s.r.PaymentStatusRow(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if row.PaymentStatus != string(model.PaymentPending) || row.Status == string(model.BookingCancelled) {
		return nil, makeErr(ErrNotPayable)
	}

	order, err := s.gw.CreateOrder(ctx, razorpayrepo.CreateOrderReq{
		AmountPaise: razorpayrepo.ToPaise(row.TotalPrice),
		Currency:    "INR",
		Receipt:     bookingID,
		Notes: map[string]string{
			"booking_id": bookingID,
			"user_id":    userID,
		},
	})
	if err != nil {
		s.log.Error("razorpay order create", "booking_id", bookingID, "err", err)
		return nil, makeErr(ErrGateway)
	}

	details, _ := json.Marshal(map[string]any{
		"order_id":   order.OrderID,
		"amount":     float64(order.AmountPaise) / 100,
		"currency":   order.Currency,
		"status":     order.Status,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err := s.r.SetPaymentOrder(ctx, bookingID, string(details)); err != nil {
		return nil, err
	}

	return &OrderCreated{
		KeyID:        s.gw.KeyID(),
		OrderID:      order.OrderID,
		AmountPaise:  order.AmountPaise,
		Currency:     order.Currency,
		PrefillEmail: row.UserEmail,
	}, nil
}

func (s *service) Verify(ctx context.Context, userID string, p VerifyParams) error {
	if !s.gw.VerifyPaymentSignature(p.OrderID, p.PaymentID, p.Signature) {
		return makeErr(ErrBadSignature)
	}

	b, err := s.r.ByIDForUser(ctx, p.BookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if b.PaymentStatus == model.PaymentPaid {
		return nil
	}
	// The signature only proves order+payment belong together; the order must
	// also be the one created for this booking.
	if stored := storedOrderID(b.PaymentDetails); stored != "" && stored != p.OrderID {
		return makeErr(ErrBadSignature)
	}

	details, _ := json.Marshal(map[string]any{
		"razorpay_order_id":   p.OrderID,
		"razorpay_payment_id": p.PaymentID,
		"verified_at":         time.Now().UTC().Format(time.RFC3339),
	})
	if err := s.markPaid(ctx, b.ID, string(details)); err != nil {
		return err
	}

	if confirmed, err := s.r.ByID(context.WithoutCancel(ctx), b.ID); err == nil && s.n != nil {
		s.n.BookingConfirmed(confirmed)
	}
	return nil
}

func storedOrderID(detailsJSON *string) string {
	if detailsJSON == nil {
		return ""
	}
	var d struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(*detailsJSON), &d); err != nil {
		return ""
	}
	return d.OrderID
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (s *service) HandleWebhook(ctx context.Context, signature string, raw []byte) error {
	if !s.gw.VerifyWebhookSignature(signature, raw) {
		return makeErr(ErrBadSignature)
	}

	var ev webhookEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("bad webhook json: %w", err)
	}
	orderID := ev.Payload.Payment.Entity.OrderID
	if orderID == "" {
		return errors.New("webhook missing order id")
	}

	b, err := s.r.FindByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order not mapped to a booking: %w", err)
	}

	switch ev.Event {
	case "payment.captured":
		if b.PaymentStatus == model.PaymentPaid {
			return nil
		}
		details, _ := json.Marshal(map[string]any{
			"razorpay_payment_id": ev.Payload.Payment.Entity.ID,
			"captured_at":         time.Now().UTC().Format(time.RFC3339),
		})
		if err := s.markPaid(ctx, b.ID, string(details)); err != nil {
			return err
		}
		if confirmed, err := s.r.ByID(context.WithoutCancel(ctx), b.ID); err == nil && s.n != nil {
			s.n.BookingConfirmed(confirmed)
		}
		return nil
	case "payment.failed":
		if err := s.r.MarkPaymentFailed(ctx, b.ID); err != nil {
			return err
		}
		if s.n != nil {
			s.n.PaymentFailed(b)
		}
		return nil
	default:
		return nil
	}
}

// markPaid flips payment_status and confirms the booking in one transaction,
// re-checking the row under lock so a concurrent webhook/verify pair settles
// exactly once.
func (s *service) markPaid(ctx context.Context, bookingID, detailsJSON string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, status, pay, err := s.r.GetForUpdate(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if pay == model.PaymentPaid {
		return tx.Commit()
	}
	if !model.CanTransition(status, model.BookingConfirmed) {
		return makeErr(ErrNotPayable)
	}

	if err = s.r.MarkPaid(ctx, tx, bookingID, detailsJSON); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) Status(ctx context.Context, userID, bookingID string) (*StatusRow, error) {
	row, err := s.r.PaymentStatusRow(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return row, nil
}
