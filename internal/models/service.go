package models

import "time"

// Service is a labour offering (oil change, wheel alignment, ...).
type Service struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ServiceName string    `gorm:"not null;index" json:"service_name"`
	HSNCode     string    `gorm:"size:20" json:"hsn_code"`
	GST         float64   `json:"gst"`    // percentage, >= 0
	Labour      float64   `json:"labour"` // non-negative charge
	Category    string    `gorm:"index" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
