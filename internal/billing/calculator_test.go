package billing

import (
	"errors"
	"testing"

	"github.com/garagedesk/garagedesk/internal/models"
)

func TestComputeTotalsGST(t *testing.T) {
	c := NewCalculator()
	inv := &models.Invoice{
		IsGST: true,
		Items: []models.InvoiceItem{{Type: models.ItemTypeService, Name: "Oil change", Quantity: 2, Rate: 500, GST: 18}},
	}
	got, err := c.ComputeTotals(inv)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got.Subtotal != 1000 || got.GSTAmount != 180 || got.GrandTotal != 1180 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if inv.Items[0].Amount != 1000 {
		t.Fatalf("item amount not stamped: %v", inv.Items[0].Amount)
	}
}

func TestComputeTotalsWithoutGST(t *testing.T) {
	c := NewCalculator()
	inv := &models.Invoice{
		IsGST: false,
		Items: []models.InvoiceItem{{Quantity: 2, Rate: 500, GST: 18}},
	}
	got, err := c.ComputeTotals(inv)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got.GSTAmount != 0 || got.GrandTotal != 1000 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestComputeTotalsDiscountFloorsAtZero(t *testing.T) {
	c := NewCalculator()
	inv := &models.Invoice{
		Items:    []models.InvoiceItem{{Quantity: 1, Rate: 150}},
		Discount: 200,
	}
	got, err := c.ComputeTotals(inv)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got.GrandTotal != 0 {
		t.Fatalf("expected floor at 0, got %v", got.GrandTotal)
	}
}

func TestComputeTotalsAdditionalCharges(t *testing.T) {
	c := NewCalculator()
	inv := &models.Invoice{
		IsGST:             true,
		Items:             []models.InvoiceItem{{Quantity: 2, Rate: 500, GST: 18}},
		Discount:          100,
		AdditionalCharges: []models.AdditionalCharge{{Description: "towing", Amount: 300}, {Description: "consumables", Amount: 50}},
	}
	got, err := c.ComputeTotals(inv)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 1000 + 180 + 350 - 100
	if got.GrandTotal != 1430 {
		t.Fatalf("expected 1430 got %v", got.GrandTotal)
	}
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	c := NewCalculator()
	got, err := c.ComputeTotals(&models.Invoice{IsGST: true})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got.Subtotal != 0 || got.GSTAmount != 0 || got.GrandTotal != 0 {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestComputeTotalsRejectsInvalidItems(t *testing.T) {
	c := NewCalculator()
	cases := []struct {
		name string
		inv  models.Invoice
		want error
	}{
		{"zero quantity", models.Invoice{Items: []models.InvoiceItem{{Quantity: 0, Rate: 10}}}, ErrInvalidQuantity},
		{"negative quantity", models.Invoice{Items: []models.InvoiceItem{{Quantity: -1, Rate: 10}}}, ErrInvalidQuantity},
		{"negative rate", models.Invoice{Items: []models.InvoiceItem{{Quantity: 1, Rate: -5}}}, ErrInvalidRate},
		{"negative gst", models.Invoice{Items: []models.InvoiceItem{{Quantity: 1, Rate: 5, GST: -18}}}, ErrInvalidGST},
		{"negative discount", models.Invoice{Discount: -1}, ErrInvalidDiscount},
		{"negative charge", models.Invoice{AdditionalCharges: []models.AdditionalCharge{{Amount: -10}}}, ErrInvalidCharge},
	}
	for _, tc := range cases {
		inv := tc.inv
		if _, err := c.ComputeTotals(&inv); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v got %v", tc.name, tc.want, err)
		}
	}
}

func TestApplyStampsSnapshot(t *testing.T) {
	c := NewCalculator()
	inv := &models.Invoice{
		IsGST: true,
		Items: []models.InvoiceItem{{Quantity: 2, Rate: 500, GST: 18}},
	}
	if err := c.Apply(inv); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if inv.Subtotal != 1000 || inv.GSTAmount != 180 || inv.GrandTotal != 1180 {
		t.Fatalf("totals not stamped: %+v", inv)
	}
	// Later mutation must not change the stored snapshot.
	inv.Items[0].Rate = 900
	if inv.GrandTotal != 1180 {
		t.Fatalf("snapshot changed: %v", inv.GrandTotal)
	}
}
