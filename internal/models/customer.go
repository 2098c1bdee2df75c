package models

import "time"

// Customer holds the vehicle owner details used on invoices.
// GSTNumber is optional: cash customers have none.
type Customer struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"not null;index" json:"name"`
	Address       string    `json:"address"`
	Phone         string    `gorm:"size:20;index" json:"phone"`
	GSTNumber     string    `gorm:"size:20" json:"gst_number,omitempty"`
	VehicleNumber string    `gorm:"size:20;index" json:"vehicle_number"`
	Model         string    `json:"model"`
	Make          string    `json:"make"`
	Kilometer     int       `json:"kilometer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
