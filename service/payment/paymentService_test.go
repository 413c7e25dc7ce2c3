package paymentsvc

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apple00071/onnrides-sub005/model"
	bookingrepo "github.com/apple00071/onnrides-sub005/repository/booking"
	razorpayrepo "github.com/apple00071/onnrides-sub005/repository/razorpay"
)

type mockRepo struct {
	Repo
	statusRowFn    func(ctx context.Context, bookingID, userID string) (*bookingrepo.StatusRow, error)
	setOrderFn     func(ctx context.Context, id string, detailsJSON string) error
	byIDFn         func(ctx context.Context, id string) (*model.Booking, error)
	byIDForUserFn  func(ctx context.Context, id, userID string) (*model.Booking, error)
	findByOrderFn  func(ctx context.Context, orderID string) (*model.Booking, error)
	markFailedFn   func(ctx context.Context, id string) error
	getForUpdateFn func(ctx context.Context, tx *sql.Tx, id string) (string, model.BookingStatus, model.PaymentStatus, error)
	markPaidFn     func(ctx context.Context, tx *sql.Tx, id string, detailsJSON string) error
}

func (m *mockRepo) PaymentStatusRow(ctx context.Context, bookingID, userID string) (*bookingrepo.StatusRow, error) {
	return m.statusRowFn(ctx, bookingID, userID)
}

func (m *mockRepo) SetPaymentOrder(ctx context.Context, id string, detailsJSON string) error {
	return m.setOrderFn(ctx, id, detailsJSON)
}

func (m *mockRepo) ByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error) {
	return m.byIDForUserFn(ctx, id, userID)
}

func (m *mockRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Booking, error) {
	return m.findByOrderFn(ctx, orderID)
}

func (m *mockRepo) MarkPaymentFailed(ctx context.Context, id string) error {
	return m.markFailedFn(ctx, id)
}

func (m *mockRepo) ByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.byIDFn(ctx, id)
}

func (m *mockRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (string, model.BookingStatus, model.PaymentStatus, error) {
	return m.getForUpdateFn(ctx, tx, id)
}

func (m *mockRepo) MarkPaid(ctx context.Context, tx *sql.Tx, id string, detailsJSON string) error {
	return m.markPaidFn(ctx, tx, id, detailsJSON)
}

// trackedConn records transaction lifecycle for asserting that markPaid
// always finishes its tx.
type trackedConn struct {
	begun      int
	committed  int
	rolledBack int
}

func (c *trackedConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("not supported")
}

func (c *trackedConn) Close() error { return nil }

func (c *trackedConn) Begin() (driver.Tx, error) {
	c.begun++
	return trackedTx{c}, nil
}

type trackedTx struct{ c *trackedConn }

func (t trackedTx) Commit() error   { t.c.committed++; return nil }
func (t trackedTx) Rollback() error { t.c.rolledBack++; return nil }

type trackedConnector struct{ c *trackedConn }

func (tc trackedConnector) Connect(context.Context) (driver.Conn, error) { return tc.c, nil }
func (tc trackedConnector) Driver() driver.Driver                        { return nil }

func trackedDB() (*sql.DB, *trackedConn) {
	c := &trackedConn{}
	return sql.OpenDB(trackedConnector{c}), c
}

type mockGateway struct {
	createFn   func(ctx context.Context, req razorpayrepo.CreateOrderReq) (*razorpayrepo.Order, error)
	verifyOK   bool
	webhookOK  bool
	lastVerify [3]string
}

func (g *mockGateway) CreateOrder(ctx context.Context, req razorpayrepo.CreateOrderReq) (*razorpayrepo.Order, error) {
	return g.createFn(ctx, req)
}

func (g *mockGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	g.lastVerify = [3]string{orderID, paymentID, signature}
	return g.verifyOK
}

func (g *mockGateway) VerifyWebhookSignature(signature string, rawBody []byte) bool {
	return g.webhookOK
}

func (g *mockGateway) KeyID() string { return "rzp_test_key" }

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []string
	failed    []string
}

func (n *recordingNotifier) BookingConfirmed(b *model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b.ID)
}

func (n *recordingNotifier) PaymentFailed(b *model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, b.ID)
}

func TestCreateOrder_ForeignBookingReadsAsNotFound(t *testing.T) {
	r := &mockRepo{
		statusRowFn: func(ctx context.Context, bookingID, userID string) (*bookingrepo.StatusRow, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(nil, r, &mockGateway{}, nil, slog.Default())

	_, err := svc.CreateOrder(context.Background(), "stranger", "b1")
	require.Equal(t, ErrNotFound, Code(err))
}

func TestCreateOrder_RejectsNonPending(t *testing.T) {
	cases := []struct {
		name      string
		status    string
		payStatus string
	}{
		{"already paid", string(model.BookingConfirmed), string(model.PaymentPaid)},
		{"refunded", string(model.BookingCancelled), string(model.PaymentRefunded)},
		{"cancelled pending", string(model.BookingCancelled), string(model.PaymentPending)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &mockRepo{
				statusRowFn: func(ctx context.Context, bookingID, userID string) (*bookingrepo.StatusRow, error) {
					return &bookingrepo.StatusRow{
						BookingID:     bookingID,
						Status:        tc.status,
						PaymentStatus: tc.payStatus,
						TotalPrice:    500,
					}, nil
				},
			}
			svc := New(nil, r, &mockGateway{}, nil, slog.Default())

			_, err := svc.CreateOrder(context.Background(), "u1", "b1")
			require.Equal(t, ErrNotPayable, Code(err))
		})
	}
}

func TestCreateOrder_StoresOrderAndReturnsCheckoutFields(t *testing.T) {
	var gotReq razorpayrepo.CreateOrderReq
	var storedDetails string
	r := &mockRepo{
		statusRowFn: func(ctx context.Context, bookingID, userID string) (*bookingrepo.StatusRow, error) {
			return &bookingrepo.StatusRow{
				BookingID:     bookingID,
				UserEmail:     "rider@example.com",
				Status:        string(model.BookingPending),
				PaymentStatus: string(model.PaymentPending),
				TotalPrice:    499.50,
			}, nil
		},
		setOrderFn: func(ctx context.Context, id string, detailsJSON string) error {
			storedDetails = detailsJSON
			return nil
		},
	}
	gw := &mockGateway{
		createFn: func(ctx context.Context, req razorpayrepo.CreateOrderReq) (*razorpayrepo.Order, error) {
			gotReq = req
			return &razorpayrepo.Order{
				OrderID:     "order_ABC123",
				AmountPaise: req.AmountPaise,
				Currency:    req.Currency,
				Status:      "created",
			}, nil
		},
	}
	svc := New(nil, r, gw, nil, slog.Default())

	out, err := svc.CreateOrder(context.Background(), "u1", "b1")
	require.NoError(t, err)
	require.Equal(t, int64(49950), gotReq.AmountPaise)
	require.Equal(t, "INR", gotReq.Currency)
	require.Equal(t, "b1", gotReq.Receipt)
	require.Equal(t, "b1", gotReq.Notes["booking_id"])

	require.Equal(t, "rzp_test_key", out.KeyID)
	require.Equal(t, "order_ABC123", out.OrderID)
	require.Equal(t, int64(49950), out.AmountPaise)
	require.Equal(t, "rider@example.com", out.PrefillEmail)

	require.Contains(t, storedDetails, `"order_id":"order_ABC123"`)
	require.Contains(t, storedDetails, `"currency":"INR"`)
}

func TestCreateOrder_GatewayDown(t *testing.T) {
	r := &mockRepo{
		statusRowFn: func(ctx context.Context, bookingID, userID string) (*bookingrepo.StatusRow, error) {
			return &bookingrepo.StatusRow{
				Status:        string(model.BookingPending),
				PaymentStatus: string(model.PaymentPending),
				TotalPrice:    100,
			}, nil
		},
	}
	gw := &mockGateway{
		createFn: func(ctx context.Context, req razorpayrepo.CreateOrderReq) (*razorpayrepo.Order, error) {
			return nil, errors.New("502 from gateway")
		},
	}
	svc := New(nil, r, gw, nil, slog.Default())

	_, err := svc.CreateOrder(context.Background(), "u1", "b1")
	require.Equal(t, ErrGateway, Code(err))
}

func TestVerify_BadSignature(t *testing.T) {
	svc := New(nil, &mockRepo{}, &mockGateway{verifyOK: false}, nil, slog.Default())

	err := svc.Verify(context.Background(), "u1", VerifyParams{
		BookingID: "b1",
		OrderID:   "order_X",
		PaymentID: "pay_Y",
		Signature: "tampered",
	})
	require.Equal(t, ErrBadSignature, Code(err))
}

func TestVerify_AlreadyPaidIsIdempotent(t *testing.T) {
	r := &mockRepo{
		byIDForUserFn: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			return &model.Booking{
				ID:            id,
				UserID:        userID,
				Status:        model.BookingConfirmed,
				PaymentStatus: model.PaymentPaid,
			}, nil
		},
	}
	n := &recordingNotifier{}
	svc := New(nil, r, &mockGateway{verifyOK: true}, n, slog.Default())

	err := svc.Verify(context.Background(), "u1", VerifyParams{
		BookingID: "b1",
		OrderID:   "order_X",
		PaymentID: "pay_Y",
		Signature: "good",
	})
	require.NoError(t, err)
	require.Empty(t, n.confirmed, "settled booking must not notify again")
}

func TestVerify_OrderMismatchRejected(t *testing.T) {
	stored := `{"order_id":"order_cheap","amount":1,"currency":"INR"}`
	db, conn := trackedDB()
	r := &mockRepo{
		byIDForUserFn: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			return &model.Booking{
				ID:             id,
				UserID:         userID,
				Status:         model.BookingPending,
				PaymentStatus:  model.PaymentPending,
				PaymentDetails: &stored,
			}, nil
		},
	}
	n := &recordingNotifier{}
	svc := New(db, r, &mockGateway{verifyOK: true}, n, slog.Default())

	// Signature is valid for order_other+pay, but the booking stored
	// order_cheap when its order was created.
	err := svc.Verify(context.Background(), "u1", VerifyParams{
		BookingID: "b1",
		OrderID:   "order_other",
		PaymentID: "pay_Y",
		Signature: "good",
	})
	require.Equal(t, ErrBadSignature, Code(err))
	require.Empty(t, n.confirmed, "mismatched order must not confirm")
	require.Zero(t, conn.begun, "rejection happens before any tx")
}

func TestVerify_MarksPaidAndNotifies(t *testing.T) {
	stored := `{"order_id":"order_X","amount":499.5,"currency":"INR"}`
	db, conn := trackedDB()
	var paidDetails string
	r := &mockRepo{
		byIDForUserFn: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			return &model.Booking{
				ID:             id,
				UserID:         userID,
				Status:         model.BookingPending,
				PaymentStatus:  model.PaymentPending,
				PaymentDetails: &stored,
			}, nil
		},
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id string) (string, model.BookingStatus, model.PaymentStatus, error) {
			return "u1", model.BookingPending, model.PaymentPending, nil
		},
		markPaidFn: func(ctx context.Context, tx *sql.Tx, id string, detailsJSON string) error {
			paidDetails = detailsJSON
			return nil
		},
		byIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Status: model.BookingConfirmed, PaymentStatus: model.PaymentPaid}, nil
		},
	}
	n := &recordingNotifier{}
	svc := New(db, r, &mockGateway{verifyOK: true}, n, slog.Default())

	err := svc.Verify(context.Background(), "u1", VerifyParams{
		BookingID: "b1",
		OrderID:   "order_X",
		PaymentID: "pay_Y",
		Signature: "good",
	})
	require.NoError(t, err)
	require.Contains(t, paidDetails, `"razorpay_payment_id":"pay_Y"`)
	require.Equal(t, []string{"b1"}, n.confirmed)
	require.Equal(t, 1, conn.begun)
	require.Equal(t, 1, conn.committed)
	require.Zero(t, conn.rolledBack)
}

func TestVerify_ForeignBookingReadsAsNotFound(t *testing.T) {
	r := &mockRepo{
		byIDForUserFn: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(nil, r, &mockGateway{verifyOK: true}, nil, slog.Default())

	err := svc.Verify(context.Background(), "stranger", VerifyParams{
		BookingID: "b1",
		OrderID:   "order_X",
		PaymentID: "pay_Y",
		Signature: "good",
	})
	require.Equal(t, ErrNotFound, Code(err))
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	svc := New(nil, &mockRepo{}, &mockGateway{webhookOK: false}, nil, slog.Default())

	err := svc.HandleWebhook(context.Background(), "bogus", []byte(`{}`))
	require.Equal(t, ErrBadSignature, Code(err))
}

func TestHandleWebhook_PaymentFailed(t *testing.T) {
	var failedID string
	r := &mockRepo{
		findByOrderFn: func(ctx context.Context, orderID string) (*model.Booking, error) {
			require.Equal(t, "order_X", orderID)
			return &model.Booking{ID: "b1", PaymentStatus: model.PaymentPending}, nil
		},
		markFailedFn: func(ctx context.Context, id string) error {
			failedID = id
			return nil
		},
	}
	n := &recordingNotifier{}
	svc := New(nil, r, &mockGateway{webhookOK: true}, n, slog.Default())

	body := []byte(`{
		"event": "payment.failed",
		"payload": {"payment": {"entity": {"id": "pay_Y", "order_id": "order_X", "status": "failed"}}}
	}`)
	err := svc.HandleWebhook(context.Background(), "sig", body)
	require.NoError(t, err)
	require.Equal(t, "b1", failedID)
	require.Equal(t, []string{"b1"}, n.failed)
}

func TestHandleWebhook_CapturedAlreadyPaidIsIdempotent(t *testing.T) {
	r := &mockRepo{
		findByOrderFn: func(ctx context.Context, orderID string) (*model.Booking, error) {
			return &model.Booking{ID: "b1", PaymentStatus: model.PaymentPaid}, nil
		},
	}
	n := &recordingNotifier{}
	svc := New(nil, r, &mockGateway{webhookOK: true}, n, slog.Default())

	body := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_Y", "order_id": "order_X", "status": "captured"}}}
	}`)
	err := svc.HandleWebhook(context.Background(), "sig", body)
	require.NoError(t, err)
	require.Empty(t, n.confirmed)
}

func TestHandleWebhook_UnknownEventIsAccepted(t *testing.T) {
	r := &mockRepo{
		findByOrderFn: func(ctx context.Context, orderID string) (*model.Booking, error) {
			return &model.Booking{ID: "b1"}, nil
		},
	}
	svc := New(nil, r, &mockGateway{webhookOK: true}, nil, slog.Default())

	body := []byte(`{
		"event": "order.paid",
		"payload": {"payment": {"entity": {"id": "pay_Y", "order_id": "order_X", "status": "captured"}}}
	}`)
	require.NoError(t, svc.HandleWebhook(context.Background(), "sig", body))
}

func TestHandleWebhook_UnmappedOrder(t *testing.T) {
	r := &mockRepo{
		findByOrderFn: func(ctx context.Context, orderID string) (*model.Booking, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(nil, r, &mockGateway{webhookOK: true}, nil, slog.Default())

	body := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_Y", "order_id": "order_unknown", "status": "captured"}}}
	}`)
	err := svc.HandleWebhook(context.Background(), "sig", body)
	require.Error(t, err)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStatus_OwnerScoped(t *testing.T) {
	now := time.Now()
	r := &mockRepo{
		statusRowFn: func(ctx context.Context, bookingID, userID string) (*bookingrepo.StatusRow, error) {
			if userID != "u1" {
				return nil, sql.ErrNoRows
			}
			return &bookingrepo.StatusRow{
				BookingID:     bookingID,
				Status:        string(model.BookingConfirmed),
				PaymentStatus: string(model.PaymentPaid),
				StartDate:     now,
			}, nil
		},
	}
	svc := New(nil, r, &mockGateway{}, nil, slog.Default())

	row, err := svc.Status(context.Background(), "u1", "b1")
	require.NoError(t, err)
	require.Equal(t, string(model.PaymentPaid), row.PaymentStatus)

	_, err = svc.Status(context.Background(), "u2", "b1")
	require.Equal(t, ErrNotFound, Code(err))
}
