package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
)

func newStore() *store.Store { return store.New(nil, zerolog.Nop()) }

func TestStockCreateAndList(t *testing.T) {
	h := NewStockHandler(newStore())

	body := `{"product_name":"Brake pad","part_number":"bp-102","hsn_code":"8708","purchase_price":400,"profit_margin":25,"gst":28,"category":"Brakes"}`
	req := httptest.NewRequest(http.MethodPost, "/stocks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Stock
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Fatal("missing generated id")
	}
	if created.PartNumber != "BP-102" {
		t.Fatalf("part number not normalized: %q", created.PartNumber)
	}
	// selling price derived from purchase price and margin when omitted
	if created.SellingPrice != 500 {
		t.Fatalf("expected derived selling price 500, got %v", created.SellingPrice)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/stocks?q=brake", nil)
	listW := httptest.NewRecorder()
	h.List(listW, listReq)
	var list struct {
		Items []models.Stock `json:"items"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 1 || len(list.Items) != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	missReq := httptest.NewRequest(http.MethodGet, "/stocks?q=clutch", nil)
	missW := httptest.NewRecorder()
	h.List(missW, missReq)
	_ = json.Unmarshal(missW.Body.Bytes(), &list)
	if list.Total != 0 {
		t.Fatalf("filter should exclude all, got %+v", list)
	}
}

func TestStockCreateFormPath(t *testing.T) {
	h := NewStockHandler(newStore())
	form := url.Values{
		"product_name":   {"Air filter"},
		"purchase_price": {"350"},
		"profit_margin":  {"20"},
		"gst":            {"18"},
	}
	req := httptest.NewRequest(http.MethodPost, "/stocks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestStockCreateValidation(t *testing.T) {
	h := NewStockHandler(newStore())
	req := httptest.NewRequest(http.MethodPost, "/stocks", strings.NewReader(`{"product_name":"","purchase_price":0,"gst":-1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation_failed" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	for _, field := range []string{"product_name", "purchase_price", "gst"} {
		if resp.Details[field] == "" {
			t.Errorf("expected violation for %s: %+v", field, resp.Details)
		}
	}
}

func TestStockUpdateAndDelete(t *testing.T) {
	st := newStore()
	h := NewStockHandler(st)

	created, err := st.AddStock(context.Background(), models.Stock{ProductName: "Coolant", PurchasePrice: 200, SellingPrice: 260, GST: 18})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := `{"id":"` + created.ID + `","product_name":"Coolant 1L","purchase_price":210,"selling_price":270,"gst":18}`
	req := httptest.NewRequest(http.MethodPost, "/stocks/update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	got, _ := st.Stock(created.ID)
	if got.ProductName != "Coolant 1L" || got.SellingPrice != 270 {
		t.Fatalf("update not applied: %+v", got)
	}

	// Updating a missing id signals not_found.
	missBody := strings.Replace(body, created.ID, "missing-id", 1)
	missReq := httptest.NewRequest(http.MethodPost, "/stocks/update", strings.NewReader(missBody))
	missReq.Header.Set("Content-Type", "application/json")
	missW := httptest.NewRecorder()
	h.Update(missW, missReq)
	if missW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", missW.Code)
	}

	delReq := httptest.NewRequest(http.MethodPost, "/stocks/delete?id="+created.ID, nil)
	delW := httptest.NewRecorder()
	h.Delete(delW, delReq)
	if delW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", delW.Code)
	}
	// Deleting again stays a silent no-op.
	againW := httptest.NewRecorder()
	h.Delete(againW, httptest.NewRequest(http.MethodPost, "/stocks/delete?id="+created.ID, nil))
	if againW.Code != http.StatusOK {
		t.Fatalf("expected idempotent 200 got %d", againW.Code)
	}
}

func TestStockCreateDuplicateID(t *testing.T) {
	st := newStore()
	h := NewStockHandler(st)
	if _, err := st.AddStock(context.Background(), models.Stock{ID: "fixed", ProductName: "X", PurchasePrice: 10}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/stocks", strings.NewReader(`{"id":"fixed","product_name":"Y","purchase_price":10}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
}
