package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garagedesk/garagedesk/internal/models"
)

func postCategory(t *testing.T, h *CategoryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	return w
}

func TestCategoryCreateListDelete(t *testing.T) {
	h := NewCategoryHandler(newStore())

	if w := postCategory(t, h, `{"kind":"stock","name":"Brakes"}`); w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	if w := postCategory(t, h, `{"kind":"service","name":"Electrical"}`); w.Code != http.StatusCreated {
		t.Fatalf("create service kind: expected 201 got %d", w.Code)
	}
	// Same name under a different kind is a distinct category.
	if w := postCategory(t, h, `{"kind":"service","name":"Brakes"}`); w.Code != http.StatusCreated {
		t.Fatalf("cross-kind name: expected 201 got %d", w.Code)
	}
	if w := postCategory(t, h, `{"kind":"engine","name":"Oops"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown kind: expected 400 got %d", w.Code)
	}

	listW := httptest.NewRecorder()
	h.List(listW, httptest.NewRequest(http.MethodGet, "/categories", nil))
	var both map[string][]string
	if err := json.Unmarshal(listW.Body.Bytes(), &both); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(both[models.CategoryKindStock]) != 1 || len(both[models.CategoryKindService]) != 2 {
		t.Fatalf("unexpected listing: %+v", both)
	}

	delReq := httptest.NewRequest(http.MethodPost, "/categories/delete?kind=stock&name=Brakes", nil)
	delW := httptest.NewRecorder()
	h.Delete(delW, delReq)
	if delW.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", delW.Code)
	}

	onlyW := httptest.NewRecorder()
	h.List(onlyW, httptest.NewRequest(http.MethodGet, "/categories?kind=stock", nil))
	var one struct {
		Items []string `json:"items"`
	}
	_ = json.Unmarshal(onlyW.Body.Bytes(), &one)
	if len(one.Items) != 0 {
		t.Fatalf("stock categories should be empty after delete: %+v", one.Items)
	}
}

func TestDashboardShow(t *testing.T) {
	st := newStore()
	stock, _, cust := seedCatalog(t, st)
	ih := newInvoiceHandler(st)
	for i := 0; i < 7; i++ {
		body := `{"customer_id":"` + cust.ID + `","items":[{"type":"stock","ref_id":"` + stock.ID + `","quantity":1}]}`
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		ih.Create(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed invoice: %d %s", w.Code, w.Body.String())
		}
	}

	h := NewDashboardHandler(st)
	w := httptest.NewRecorder()
	h.Show(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Stats struct {
			Stocks    int `json:"stocks"`
			Services  int `json:"services"`
			Customers int `json:"customers"`
			Invoices  int `json:"invoices"`
		} `json:"stats"`
		RecentInvoices []models.Invoice `json:"recent_invoices"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Stats.Invoices != 7 || resp.Stats.Stocks != 1 || resp.Stats.Customers != 1 {
		t.Fatalf("stats: %+v", resp.Stats)
	}
	if len(resp.RecentInvoices) != 5 {
		t.Fatalf("expected 5 recent invoices, got %d", len(resp.RecentInvoices))
	}
	// Newest first: the last assigned number leads.
	if resp.RecentInvoices[0].InvoiceNumber <= resp.RecentInvoices[4].InvoiceNumber {
		t.Fatalf("recent invoices not newest-first: %s .. %s",
			resp.RecentInvoices[0].InvoiceNumber, resp.RecentInvoices[4].InvoiceNumber)
	}
}
