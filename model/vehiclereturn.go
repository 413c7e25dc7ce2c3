package model

import "time"

type ReturnStatus string

const (
	ReturnPending   ReturnStatus = "pending"
	ReturnCompleted ReturnStatus = "completed"
	ReturnDisputed  ReturnStatus = "disputed"
)

type VehicleReturn struct {
	ID                string       `json:"id"`
	BookingID         string       `json:"booking_id"`
	ConditionNotes    string       `json:"condition_notes"`
	Damages           *string      `json:"damages,omitempty"`
	AdditionalCharges float64      `json:"additional_charges"`
	OdometerReading   *int64       `json:"odometer_reading,omitempty"`
	FuelLevel         *int         `json:"fuel_level,omitempty"`
	Status            ReturnStatus `json:"status"`
	ProcessedBy       string       `json:"processed_by"`
	CreatedAt         time.Time    `json:"created_at"`
}
