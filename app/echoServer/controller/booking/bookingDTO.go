package booking

import "time"

type CreateBookingReq struct {
	VehicleID string    `json:"vehicle_id" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}
