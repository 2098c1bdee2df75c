package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garagedesk/garagedesk/internal/models"
)

func TestCustomerCreateNormalizesAndSearches(t *testing.T) {
	h := NewCustomerHandler(newStore())

	body := `{"name":"Ravi Kumar","phone":"9876543210","vehicle_number":"ka01ab1234","gst_number":"29abcde1234f1z5","make":"Maruti","model":"Swift","kilometer":42000}`
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var c models.Customer
	if err := json.Unmarshal(w.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.VehicleNumber != "KA01AB1234" || c.GSTNumber != "29ABCDE1234F1Z5" {
		t.Fatalf("identifiers not upper-cased: %+v", c)
	}

	// Searchable by name, vehicle number, and phone fragment.
	for _, q := range []string{"ravi", "ka01", "98765"} {
		listW := httptest.NewRecorder()
		h.List(listW, httptest.NewRequest(http.MethodGet, "/customers?q="+q, nil))
		var list struct {
			Total int `json:"total"`
		}
		_ = json.Unmarshal(listW.Body.Bytes(), &list)
		if list.Total != 1 {
			t.Errorf("q=%s: expected 1 hit, got %d", q, list.Total)
		}
	}
}

func TestCustomerValidation(t *testing.T) {
	h := NewCustomerHandler(newStore())
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"name":"X","kilometer":-5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Details map[string]string `json:"details"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	for _, field := range []string{"phone", "vehicle_number", "kilometer"} {
		if resp.Details[field] == "" {
			t.Errorf("expected violation for %s: %+v", field, resp.Details)
		}
	}
}

func TestServiceCreateAndUpdate(t *testing.T) {
	st := newStore()
	h := NewServiceHandler(st)

	req := httptest.NewRequest(http.MethodPost, "/services", strings.NewReader(`{"service_name":"Wheel alignment","labour":600,"gst":18,"category":"Wheels"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var sv models.Service
	if err := json.Unmarshal(w.Body.Bytes(), &sv); err != nil {
		t.Fatalf("decode: %v", err)
	}

	upBody := `{"id":"` + sv.ID + `","service_name":"Wheel alignment","labour":650,"gst":18}`
	upReq := httptest.NewRequest(http.MethodPost, "/services/update", strings.NewReader(upBody))
	upReq.Header.Set("Content-Type", "application/json")
	upW := httptest.NewRecorder()
	h.Update(upW, upReq)
	if upW.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d body=%s", upW.Code, upW.Body.String())
	}
	got, _ := st.Service(sv.ID)
	if got.Labour != 650 {
		t.Fatalf("labour not updated: %+v", got)
	}
	// Full replace: the omitted category is cleared, not preserved.
	if got.Category != "" {
		t.Fatalf("expected category cleared by full replace, got %q", got.Category)
	}

	// Zero-labour services (free checkups) are allowed.
	freeReq := httptest.NewRequest(http.MethodPost, "/services", strings.NewReader(`{"service_name":"Checkup","labour":0,"gst":0}`))
	freeReq.Header.Set("Content-Type", "application/json")
	freeW := httptest.NewRecorder()
	h.Create(freeW, freeReq)
	if freeW.Code != http.StatusCreated {
		t.Fatalf("free service: expected 201 got %d", freeW.Code)
	}
}
