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

type CustomerHandler struct {
	Store *store.Store
}

func NewCustomerHandler(s *store.Store) *CustomerHandler { return &CustomerHandler{Store: s} }

type customerInput struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	GSTNumber     string `json:"gst_number"`
	VehicleNumber string `json:"vehicle_number"`
	Model         string `json:"model"`
	Make          string `json:"make"`
	Kilometer     int    `json:"kilometer"`
}

func decodeCustomer(r *http.Request) (customerInput, error) {
	var in customerInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return in, json.NewDecoder(r.Body).Decode(&in)
	}
	if err := r.ParseForm(); err != nil {
		return in, err
	}
	in.ID = r.FormValue("id")
	in.Name = r.FormValue("name")
	in.Address = r.FormValue("address")
	in.Phone = r.FormValue("phone")
	in.GSTNumber = r.FormValue("gst_number")
	in.VehicleNumber = r.FormValue("vehicle_number")
	in.Model = r.FormValue("model")
	in.Make = r.FormValue("make")
	in.Kilometer, _ = strconv.Atoi(r.FormValue("kilometer"))
	return in, nil
}

// GSTNumber stays optional: cash customers have none.
func (in *customerInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("phone", in.Phone, v)
	validation.Required("vehicle_number", in.VehicleNumber, v)
	if in.Kilometer < 0 {
		v["kilometer"] = "must_not_be_negative"
	}
	return v
}

func (in *customerInput) toModel() models.Customer {
	return models.Customer{
		ID:            strings.TrimSpace(in.ID),
		Name:          strings.TrimSpace(in.Name),
		Address:       strings.TrimSpace(in.Address),
		Phone:         strings.TrimSpace(in.Phone),
		GSTNumber:     strings.ToUpper(strings.TrimSpace(in.GSTNumber)),
		VehicleNumber: strings.ToUpper(strings.TrimSpace(in.VehicleNumber)),
		Model:         strings.TrimSpace(in.Model),
		Make:          strings.TrimSpace(in.Make),
		Kilometer:     in.Kilometer,
	}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	items := h.Store.Customers()
	if q != "" {
		filtered := items[:0]
		for _, c := range items {
			if strings.Contains(strings.ToLower(c.Name), q) ||
				strings.Contains(strings.ToLower(c.VehicleNumber), q) ||
				strings.Contains(c.Phone, q) {
				filtered = append(filtered, c)
			}
		}
		items = filtered
	}
	httpx.JSONList(w, items, len(items))
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCustomer(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c, err := h.Store.AddCustomer(r.Context(), in.toModel())
	if err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			httpx.JSONError(w, http.StatusConflict, "id_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "customer_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCustomer(r)
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
	c, err := h.Store.UpdateCustomer(r.Context(), in.toModel())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "customer_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = r.FormValue("id")
	}
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	h.Store.DeleteCustomer(r.Context(), id)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
