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

type ServiceHandler struct {
	Store *store.Store
}

func NewServiceHandler(s *store.Store) *ServiceHandler { return &ServiceHandler{Store: s} }

type serviceInput struct {
	ID          string  `json:"id"`
	ServiceName string  `json:"service_name"`
	HSNCode     string  `json:"hsn_code"`
	GST         float64 `json:"gst"`
	Labour      float64 `json:"labour"`
	Category    string  `json:"category"`
}

func decodeService(r *http.Request) (serviceInput, error) {
	var in serviceInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return in, json.NewDecoder(r.Body).Decode(&in)
	}
	if err := r.ParseForm(); err != nil {
		return in, err
	}
	in.ID = r.FormValue("id")
	in.ServiceName = r.FormValue("service_name")
	in.HSNCode = r.FormValue("hsn_code")
	in.GST, _ = strconv.ParseFloat(r.FormValue("gst"), 64)
	in.Labour, _ = strconv.ParseFloat(r.FormValue("labour"), 64)
	in.Category = r.FormValue("category")
	return in, nil
}

func (in *serviceInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("service_name", in.ServiceName, v)
	validation.NonNegativeFloat("labour", in.Labour, v)
	validation.NonNegativeFloat("gst", in.GST, v)
	return v
}

func (in *serviceInput) toModel() models.Service {
	return models.Service{
		ID:          strings.TrimSpace(in.ID),
		ServiceName: strings.TrimSpace(in.ServiceName),
		HSNCode:     strings.TrimSpace(in.HSNCode),
		GST:         in.GST,
		Labour:      in.Labour,
		Category:    strings.TrimSpace(in.Category),
	}
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	items := h.Store.Services()
	if q != "" {
		filtered := items[:0]
		for _, sv := range items {
			if strings.Contains(strings.ToLower(sv.ServiceName), q) {
				filtered = append(filtered, sv)
			}
		}
		items = filtered
	}
	httpx.JSONList(w, items, len(items))
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeService(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	sv, err := h.Store.AddService(r.Context(), in.toModel())
	if err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			httpx.JSONError(w, http.StatusConflict, "id_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "service_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, sv)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, err := decodeService(r)
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
	sv, err := h.Store.UpdateService(r.Context(), in.toModel())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "service_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, sv)
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = r.FormValue("id")
	}
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	h.Store.DeleteService(r.Context(), id)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
