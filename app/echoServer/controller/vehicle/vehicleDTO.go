package vehicle

type UpsertVehicleReq struct {
	Name            string   `json:"name" validate:"required"`
	Type            string   `json:"type" validate:"required,oneof=bike scooter"`
	Location        string   `json:"location" validate:"required"`
	Quantity        int      `json:"quantity" validate:"gte=0"`
	PricePerHour    float64  `json:"price_per_hour" validate:"required,gt=0"`
	Price7Days      *float64 `json:"price_7_days,omitempty"`
	Price15Days     *float64 `json:"price_15_days,omitempty"`
	Price30Days     *float64 `json:"price_30_days,omitempty"`
	MinBookingHours int      `json:"min_booking_hours" validate:"gte=0"`
	IsAvailable     *bool    `json:"is_available,omitempty"`
	Images          []string `json:"images,omitempty"`
}

type SetStatusReq struct {
	Status string `json:"status" validate:"required,oneof=active maintenance retired"`
}
