package vehiclereturn

type CreateReturnReq struct {
	BookingID         string  `json:"booking_id" validate:"required"`
	ConditionNotes    string  `json:"condition_notes"`
	Damages           *string `json:"damages,omitempty"`
	AdditionalCharges float64 `json:"additional_charges" validate:"gte=0"`
	OdometerReading   *int64  `json:"odometer_reading,omitempty"`
	FuelLevel         *int    `json:"fuel_level,omitempty" validate:"omitempty,gte=0,lte=100"`
	Status            string  `json:"status" validate:"omitempty,oneof=pending completed disputed"`
}
