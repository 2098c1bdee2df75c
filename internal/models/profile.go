package models

import "time"

// GarageProfile is the business's own identity and banking details used on
// invoice headers. Treated as a singleton: the store keeps at most one and a
// save replaces the whole record. All fields are mandatory once saved; that
// is enforced by the caller, not here.
type GarageProfile struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CompanyName   string    `gorm:"not null" json:"company_name"`
	GSTNumber     string    `gorm:"size:20" json:"gst_number"`
	PhoneNumber   string    `gorm:"size:20" json:"phone_number"`
	AddressLine1  string    `json:"address_line1"`
	AddressLine2  string    `json:"address_line2"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `gorm:"size:10" json:"postal_code"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `gorm:"size:30" json:"account_number"`
	IFSCCode      string    `gorm:"size:15" json:"ifsc_code"`
	PANNumber     string    `gorm:"size:15" json:"pan_number"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
