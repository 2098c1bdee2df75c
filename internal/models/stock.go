package models

import "time"

// Stock is a spare part held in the garage inventory.
type Stock struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ProductName   string    `gorm:"not null;index" json:"product_name"`
	PartNumber    string    `gorm:"size:60;index" json:"part_number"`
	HSNCode       string    `gorm:"size:20" json:"hsn_code"`
	PurchasePrice float64   `json:"purchase_price"`
	ProfitMargin  float64   `json:"profit_margin"` // percentage over purchase price
	SellingPrice  float64   `json:"selling_price"`
	GST           float64   `json:"gst"` // percentage, >= 0
	Category      string    `gorm:"index" json:"category"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DerivedSellingPrice applies the profit margin to the purchase price.
// The stored SellingPrice conventionally equals this but callers may override it.
func (s Stock) DerivedSellingPrice() float64 {
	return s.PurchasePrice * (1 + s.ProfitMargin/100)
}
