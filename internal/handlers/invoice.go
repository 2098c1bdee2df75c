package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garagedesk/garagedesk/httpx"
	"github.com/garagedesk/garagedesk/internal/billing"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
)

// InvoiceHandler builds invoices from cart line items: references to stocks
// and services are resolved to rate/GST snapshots, totals come from the
// calculator, and the result is stored with a unique invoice number.
type InvoiceHandler struct {
	Store *store.Store
	Calc  *billing.Calculator
}

func NewInvoiceHandler(s *store.Store, c *billing.Calculator) *InvoiceHandler {
	return &InvoiceHandler{Store: s, Calc: c}
}

type invoiceItemReq struct {
	Type     string   `json:"type"`   // stock | service
	RefID    string   `json:"ref_id"` // id of the referenced stock/service
	Name     string   `json:"name"`
	HSNCode  string   `json:"hsn_code"`
	Quantity float64  `json:"quantity"`
	Rate     *float64 `json:"rate"` // overrides the referenced record's rate
	GST      *float64 `json:"gst"`
}

type invoiceReq struct {
	InvoiceNumber     string                    `json:"invoice_number"`
	InvoiceDate       time.Time                 `json:"invoice_date"`
	CustomerID        string                    `json:"customer_id"`
	Customer          *models.Customer          `json:"customer"` // inline snapshot when no id
	IsGST             bool                      `json:"is_gst"`
	Items             []invoiceItemReq          `json:"items"`
	Discount          float64                   `json:"discount"`
	AdditionalCharges []models.AdditionalCharge `json:"additional_charges"`
	Note              string                    `json:"note"`
}

func decodeInvoice(r *http.Request) (invoiceReq, error) {
	var req invoiceReq
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return req, json.NewDecoder(r.Body).Decode(&req)
	}
	// Form path covers the single-item quick bill.
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.CustomerID = r.FormValue("customer_id")
	req.IsGST = r.FormValue("is_gst") == "1" || strings.EqualFold(r.FormValue("is_gst"), "true")
	req.Discount, _ = strconv.ParseFloat(r.FormValue("discount"), 64)
	req.Note = r.FormValue("note")
	if ref := r.FormValue("ref_id"); ref != "" {
		qty := 1.0
		if qv := r.FormValue("quantity"); qv != "" {
			qty, _ = strconv.ParseFloat(qv, 64)
		}
		req.Items = []invoiceItemReq{{Type: r.FormValue("type"), RefID: ref, Quantity: qty}}
	}
	return req, nil
}

// resolveItems turns cart references into item snapshots. Rates default to
// the stock's selling price or the service's labour charge.
func (h *InvoiceHandler) resolveItems(reqs []invoiceItemReq) ([]models.InvoiceItem, map[string]string) {
	items := make([]models.InvoiceItem, 0, len(reqs))
	for i, ir := range reqs {
		it := models.InvoiceItem{
			ID:       uuid.NewString(),
			Type:     ir.Type,
			Name:     strings.TrimSpace(ir.Name),
			HSNCode:  ir.HSNCode,
			Quantity: ir.Quantity,
		}
		switch ir.Type {
		case models.ItemTypeStock:
			if ir.RefID != "" {
				st, ok := h.Store.Stock(ir.RefID)
				if !ok {
					return nil, map[string]string{"items": "unknown_stock_" + strconv.Itoa(i)}
				}
				it.Name, it.HSNCode, it.Rate, it.GST = st.ProductName, st.HSNCode, st.SellingPrice, st.GST
			}
		case models.ItemTypeService:
			if ir.RefID != "" {
				sv, ok := h.Store.Service(ir.RefID)
				if !ok {
					return nil, map[string]string{"items": "unknown_service_" + strconv.Itoa(i)}
				}
				it.Name, it.HSNCode, it.Rate, it.GST = sv.ServiceName, sv.HSNCode, sv.Labour, sv.GST
			}
		default:
			return nil, map[string]string{"items": "invalid_type_" + strconv.Itoa(i)}
		}
		if ir.Rate != nil {
			it.Rate = *ir.Rate
		}
		if ir.GST != nil {
			it.GST = *ir.GST
		}
		if it.Name == "" {
			return nil, map[string]string{"items": "name_required_" + strconv.Itoa(i)}
		}
		items = append(items, it)
	}
	return items, nil
}

// List: GET /invoices with an optional q filter on number/customer.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	items := h.Store.Invoices()
	if q != "" {
		filtered := items[:0]
		for _, inv := range items {
			if strings.Contains(strings.ToLower(inv.InvoiceNumber), q) ||
				strings.Contains(strings.ToLower(inv.Customer.Name), q) {
				filtered = append(filtered, inv)
			}
		}
		items = filtered
	}
	httpx.JSONList(w, items, len(items))
}

// Get: GET /invoices/get?id=
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	inv, ok := h.Store.Invoice(id)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Create: POST /invoices. Resolves the cart, computes totals, stores.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeInvoice(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	var customer models.Customer
	switch {
	case req.CustomerID != "":
		c, ok := h.Store.Customer(req.CustomerID)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "unknown_customer", nil)
			return
		}
		customer = c
	case req.Customer != nil:
		customer = *req.Customer
	default:
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"customer": "required"})
		return
	}
	items, fieldErrs := h.resolveItems(req.Items)
	if fieldErrs != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", fieldErrs)
		return
	}
	inv := models.Invoice{
		InvoiceNumber:     strings.TrimSpace(req.InvoiceNumber),
		InvoiceDate:       req.InvoiceDate,
		Customer:          customer,
		IsGST:             req.IsGST,
		Items:             items,
		Discount:          req.Discount,
		AdditionalCharges: req.AdditionalCharges,
		Note:              req.Note,
	}
	if err := h.Calc.Apply(&inv); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"items": err.Error()})
		return
	}
	saved, err := h.Store.AddInvoice(r.Context(), inv)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateInvoiceNumber) {
			httpx.JSONError(w, http.StatusConflict, "invoice_number_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "invoice_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, saved)
}

// Update: POST /invoices/update. Full replace; totals recomputed so stored
// snapshots always reconcile against items, discount, and charges.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var inv models.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if inv.ID == "" {
		inv.ID = r.URL.Query().Get("id")
	}
	if inv.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Calc.Apply(&inv); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"items": err.Error()})
		return
	}
	saved, err := h.Store.UpdateInvoice(r.Context(), inv)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		case errors.Is(err, store.ErrDuplicateInvoiceNumber):
			httpx.JSONError(w, http.StatusConflict, "invoice_number_exists", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "invoice_update_failed", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = r.FormValue("id")
	}
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	h.Store.DeleteInvoice(r.Context(), id)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
