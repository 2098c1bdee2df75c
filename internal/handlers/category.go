package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/garagedesk/garagedesk/httpx"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
)

// CategoryHandler manages the flat classification labels for stocks and
// services.
type CategoryHandler struct {
	Store *store.Store
}

func NewCategoryHandler(s *store.Store) *CategoryHandler { return &CategoryHandler{Store: s} }

type categoryInput struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func decodeCategory(r *http.Request) (categoryInput, error) {
	var in categoryInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return in, json.NewDecoder(r.Body).Decode(&in)
	}
	if err := r.ParseForm(); err != nil {
		return in, err
	}
	in.Kind = r.FormValue("kind")
	in.Name = r.FormValue("name")
	return in, nil
}

// List: GET /categories?kind=stock|service. Without kind, both sets.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" {
		httpx.JSON(w, http.StatusOK, map[string]any{"kind": kind, "items": h.Store.Categories(kind)})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		models.CategoryKindStock:   h.Store.Categories(models.CategoryKindStock),
		models.CategoryKindService: h.Store.Categories(models.CategoryKindService),
	})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCategory(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	c, err := h.Store.AddCategory(r.Context(), in.Kind, in.Name)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"category": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// Delete is idempotent; orphaned category strings on entities are expected.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCategory(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	if in.Kind == "" {
		in.Kind = r.URL.Query().Get("kind")
	}
	if in.Name == "" {
		in.Name = r.URL.Query().Get("name")
	}
	h.Store.DeleteCategory(r.Context(), in.Kind, in.Name)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": in.Name})
}
