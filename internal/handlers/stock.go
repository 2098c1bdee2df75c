package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/garagedesk/garagedesk/httpx"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
	"github.com/garagedesk/garagedesk/validation"
)

type StockHandler struct {
	Store *store.Store
}

func NewStockHandler(s *store.Store) *StockHandler { return &StockHandler{Store: s} }

type stockInput struct {
	ID            string  `json:"id"`
	ProductName   string  `json:"product_name"`
	PartNumber    string  `json:"part_number"`
	HSNCode       string  `json:"hsn_code"`
	PurchasePrice float64 `json:"purchase_price"`
	ProfitMargin  float64 `json:"profit_margin"`
	SellingPrice  float64 `json:"selling_price"`
	GST           float64 `json:"gst"`
	Category      string  `json:"category"`
}

func decodeStock(r *http.Request) (stockInput, error) {
	var in stockInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return in, json.NewDecoder(r.Body).Decode(&in)
	}
	if err := r.ParseForm(); err != nil {
		return in, err
	}
	in.ID = r.FormValue("id")
	in.ProductName = r.FormValue("product_name")
	in.PartNumber = r.FormValue("part_number")
	in.HSNCode = r.FormValue("hsn_code")
	in.PurchasePrice, _ = strconv.ParseFloat(r.FormValue("purchase_price"), 64)
	in.ProfitMargin, _ = strconv.ParseFloat(r.FormValue("profit_margin"), 64)
	in.SellingPrice, _ = strconv.ParseFloat(r.FormValue("selling_price"), 64)
	in.GST, _ = strconv.ParseFloat(r.FormValue("gst"), 64)
	in.Category = r.FormValue("category")
	return in, nil
}

func (in *stockInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("product_name", in.ProductName, v)
	validation.PositiveFloat("purchase_price", in.PurchasePrice, v)
	validation.NonNegativeFloat("profit_margin", in.ProfitMargin, v)
	validation.NonNegativeFloat("selling_price", in.SellingPrice, v)
	validation.NonNegativeFloat("gst", in.GST, v)
	return v
}

func (in *stockInput) toModel() models.Stock {
	st := models.Stock{
		ID:            strings.TrimSpace(in.ID),
		ProductName:   strings.TrimSpace(in.ProductName),
		PartNumber:    strings.ToUpper(strings.TrimSpace(in.PartNumber)),
		HSNCode:       strings.TrimSpace(in.HSNCode),
		PurchasePrice: in.PurchasePrice,
		ProfitMargin:  in.ProfitMargin,
		SellingPrice:  in.SellingPrice,
		GST:           in.GST,
		Category:      strings.TrimSpace(in.Category),
	}
	if st.SellingPrice == 0 {
		st.SellingPrice = st.DerivedSellingPrice()
	}
	return st
}

// List: GET /stocks with an optional q filter on name/part number.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	items := h.Store.Stocks()
	if q != "" {
		filtered := items[:0]
		for _, st := range items {
			if strings.Contains(strings.ToLower(st.ProductName), q) || strings.Contains(strings.ToLower(st.PartNumber), q) {
				filtered = append(filtered, st)
			}
		}
		items = filtered
	}
	httpx.JSONList(w, items, len(items))
}

// Create: POST /stocks, JSON or form.
func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeStock(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	st, err := h.Store.AddStock(r.Context(), in.toModel())
	if err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			httpx.JSONError(w, http.StatusConflict, "id_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "stock_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, st)
}

// Update: full replace keyed by id.
func (h *StockHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, err := decodeStock(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	if in.ID == "" {
		in.ID = r.URL.Query().Get("id")
	}
	if in.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	st, err := h.Store.UpdateStock(r.Context(), in.toModel())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "stock_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

// Delete is idempotent: a missing id still answers 200.
func (h *StockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = r.FormValue("id")
	}
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	h.Store.DeleteStock(r.Context(), id)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
