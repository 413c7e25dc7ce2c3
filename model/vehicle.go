package model

import "time"

type VehicleType string

const (
	VehicleBike    VehicleType = "bike"
	VehicleScooter VehicleType = "scooter"
)

type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleRetired     VehicleStatus = "retired"
)

type Vehicle struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Type            VehicleType   `json:"type"`
	Location        string        `json:"location"`
	Quantity        int           `json:"quantity"`
	PricePerHour    float64       `json:"price_per_hour"`
	Price7Days      *float64      `json:"price_7_days,omitempty"`
	Price15Days     *float64      `json:"price_15_days,omitempty"`
	Price30Days     *float64      `json:"price_30_days,omitempty"`
	MinBookingHours int           `json:"min_booking_hours"`
	IsAvailable     bool          `json:"is_available"`
	Images          []string      `json:"images"`
	Status          VehicleStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
