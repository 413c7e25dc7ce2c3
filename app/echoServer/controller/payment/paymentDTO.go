package payment

type CreateOrderReq struct {
	BookingID string `json:"booking_id" validate:"required"`
}

type VerifyReq struct {
	BookingID         string `json:"booking_id" validate:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}
