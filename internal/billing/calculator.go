package billing

import (
	"errors"
	"fmt"

	"github.com/garagedesk/garagedesk/internal/models"
)

// Validation failures reported before any computation.
var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidRate     = errors.New("rate must not be negative")
	ErrInvalidGST      = errors.New("gst must not be negative")
	ErrInvalidDiscount = errors.New("discount must not be negative")
	ErrInvalidCharge   = errors.New("additional charge must not be negative")
)

// Totals is the computed money summary of an invoice.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	GSTAmount  float64 `json:"gst_amount"`
	GrandTotal float64 `json:"grand_total"`
}

// Calculator derives invoice totals from line items, discount, and
// additional charges. Pure computation: no state, no persistence.
type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

// ComputeTotals validates the invoice fields and computes totals. Each item's
// Amount is set to quantity × rate, excluding its own GST; GST is summed at
// the invoice level when IsGST is set. An empty item list is valid and yields
// all-zero totals. The grand total floors at 0, never negative.
func (c *Calculator) ComputeTotals(inv *models.Invoice) (Totals, error) {
	var t Totals
	if inv == nil {
		return t, nil
	}
	if inv.Discount < 0 {
		return Totals{}, ErrInvalidDiscount
	}
	for i := range inv.Items {
		it := &inv.Items[i]
		if it.Quantity <= 0 {
			return Totals{}, fmt.Errorf("item %d (%s): %w", i, it.Name, ErrInvalidQuantity)
		}
		if it.Rate < 0 {
			return Totals{}, fmt.Errorf("item %d (%s): %w", i, it.Name, ErrInvalidRate)
		}
		if it.GST < 0 {
			return Totals{}, fmt.Errorf("item %d (%s): %w", i, it.Name, ErrInvalidGST)
		}
		it.Amount = it.Quantity * it.Rate
		t.Subtotal += it.Amount
		if inv.IsGST {
			t.GSTAmount += it.Amount * it.GST / 100
		}
	}
	var charges float64
	for i, ch := range inv.AdditionalCharges {
		if ch.Amount < 0 {
			return Totals{}, fmt.Errorf("charge %d (%s): %w", i, ch.Description, ErrInvalidCharge)
		}
		charges += ch.Amount
	}
	grand := t.Subtotal + t.GSTAmount + charges - inv.Discount
	if grand < 0 {
		grand = 0
	}
	t.GrandTotal = grand
	return t, nil
}

// Apply computes totals and stamps them onto the invoice. The stored values
// are a snapshot: mutating an item later does not retroactively update them.
func (c *Calculator) Apply(inv *models.Invoice) error {
	t, err := c.ComputeTotals(inv)
	if err != nil {
		return err
	}
	inv.Subtotal = t.Subtotal
	inv.GSTAmount = t.GSTAmount
	inv.GrandTotal = t.GrandTotal
	return nil
}
