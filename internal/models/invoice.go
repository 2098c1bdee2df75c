package models

import "time"

// Invoice line item types.
const (
	ItemTypeStock   = "stock"
	ItemTypeService = "service"
)

// InvoiceItem is one invoice row referencing either a stock part or a service.
// Amount excludes the item's own GST; the invoice-level GSTAmount aggregates it.
type InvoiceItem struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"` // ItemTypeStock or ItemTypeService
	Name     string  `json:"name"`
	HSNCode  string  `json:"hsn_code"`
	Quantity float64 `json:"quantity"`
	Rate     float64 `json:"rate"`
	GST      float64 `json:"gst"` // percentage, >= 0
	Amount   float64 `json:"amount"`
}

// AdditionalCharge is an invoice-level extra (towing, consumables, ...).
type AdditionalCharge struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Invoice embeds a customer snapshot and item values. Totals are snapshots
// taken at computation time; a later stock/service edit does not update them.
// Embedded values go through gorm's JSON serializer rather than join tables
// since they are owned copies, not references.
type Invoice struct {
	ID                string             `gorm:"primaryKey;size:36" json:"id"`
	InvoiceNumber     string             `gorm:"uniqueIndex;size:30" json:"invoice_number"`
	InvoiceDate       time.Time          `json:"invoice_date"`
	Customer          Customer           `gorm:"serializer:json" json:"customer"`
	IsGST             bool               `json:"is_gst"`
	Items             []InvoiceItem      `gorm:"serializer:json" json:"items"`
	Discount          float64            `json:"discount"` // absolute amount, not a percentage
	AdditionalCharges []AdditionalCharge `gorm:"serializer:json" json:"additional_charges"`
	Note              string             `json:"note"`
	Subtotal          float64            `json:"subtotal"`
	GSTAmount         float64            `json:"gst_amount"`
	GrandTotal        float64            `json:"grand_total"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
