package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/garagedesk/garagedesk/httpx"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
	"github.com/garagedesk/garagedesk/validation"
)

// SettingsHandler manages the singleton garage profile. All fields are
// mandatory once saved; that rule lives here, not in the store.
type SettingsHandler struct {
	Store *store.Store
}

func NewSettingsHandler(s *store.Store) *SettingsHandler { return &SettingsHandler{Store: s} }

func decodeProfile(r *http.Request) (models.GarageProfile, error) {
	var p models.GarageProfile
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return p, json.NewDecoder(r.Body).Decode(&p)
	}
	if err := r.ParseForm(); err != nil {
		return p, err
	}
	p.CompanyName = r.FormValue("company_name")
	p.GSTNumber = r.FormValue("gst_number")
	p.PhoneNumber = r.FormValue("phone_number")
	p.AddressLine1 = r.FormValue("address_line1")
	p.AddressLine2 = r.FormValue("address_line2")
	p.City = r.FormValue("city")
	p.State = r.FormValue("state")
	p.PostalCode = r.FormValue("postal_code")
	p.BankName = r.FormValue("bank_name")
	p.AccountNumber = r.FormValue("account_number")
	p.IFSCCode = r.FormValue("ifsc_code")
	p.PANNumber = r.FormValue("pan_number")
	return p, nil
}

func validateProfile(p *models.GarageProfile) validation.Violations {
	v := validation.Violations{}
	validation.Required("company_name", p.CompanyName, v)
	validation.Required("gst_number", p.GSTNumber, v)
	validation.Required("phone_number", p.PhoneNumber, v)
	validation.Required("address_line1", p.AddressLine1, v)
	validation.Required("city", p.City, v)
	validation.Required("state", p.State, v)
	validation.Required("postal_code", p.PostalCode, v)
	validation.Required("bank_name", p.BankName, v)
	validation.Required("account_number", p.AccountNumber, v)
	validation.Required("ifsc_code", p.IFSCCode, v)
	validation.Required("pan_number", p.PANNumber, v)
	return v
}

// Get: GET /settings. Returns the profile, or null before first save.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.Store.Profile())
}

// Save: POST /settings. Full replace of the singleton.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	p, err := decodeProfile(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	if v := validateProfile(&p); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	saved := h.Store.SetProfile(r.Context(), p)
	httpx.JSON(w, http.StatusOK, saved)
}
