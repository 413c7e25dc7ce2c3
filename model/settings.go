package model

import "time"

// Well-known settings keys.
const (
	SettingMaintenanceMode = "maintenance_mode"
)

type Setting struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WhatsAppLogStatus string

const (
	WhatsAppSent   WhatsAppLogStatus = "success"
	WhatsAppFailed WhatsAppLogStatus = "failed"
)

type WhatsAppLog struct {
	ID        string            `json:"id"`
	Recipient string            `json:"recipient"`
	Message   string            `json:"message"`
	BookingID *string           `json:"booking_id,omitempty"`
	Status    WhatsAppLogStatus `json:"status"`
	Error     *string           `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
