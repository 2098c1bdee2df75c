package handlers

import (
	"net/http"

	"github.com/garagedesk/garagedesk/httpx"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
)

// DashboardHandler serves the landing view: collection counts, the garage
// profile, and the most recent invoices.
type DashboardHandler struct {
	Store *store.Store
}

func NewDashboardHandler(s *store.Store) *DashboardHandler { return &DashboardHandler{Store: s} }

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	invoices := h.Store.Invoices()
	recent := invoices
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	// newest first
	out := make([]models.Invoice, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		out = append(out, recent[i])
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"stats":           h.Store.Count(),
		"company":         h.Store.Profile(),
		"recent_invoices": out,
	})
}
