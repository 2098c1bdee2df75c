package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/garagedesk/garagedesk/auth"
	"github.com/garagedesk/garagedesk/httpx"
	"github.com/garagedesk/garagedesk/internal/billing"
	"github.com/garagedesk/garagedesk/internal/handlers"
	"github.com/garagedesk/garagedesk/internal/identity"
	"github.com/garagedesk/garagedesk/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares
// applied. Six authenticated views (dashboard, stocks, services, customers,
// invoices, settings) plus categories and the auth endpoints.
func New(st *store.Store, gw *identity.Gateway, local *identity.LocalProvider, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	ah := handlers.NewAuthHandler(gw, local, log)
	mux.Handle("/login", postOnly(ah.Login))
	mux.Handle("/signup", postOnly(ah.Signup))
	mux.Handle("/logout", postOnly(ah.Logout))

	gated := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	collection := func(list, create http.HandlerFunc) http.Handler {
		return gated(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		})
	}

	dh := handlers.NewDashboardHandler(st)
	mux.Handle("/dashboard", gated(dh.Show))

	sh := handlers.NewStockHandler(st)
	mux.Handle("/stocks", collection(sh.List, sh.Create))
	mux.Handle("/stocks/update", gated(sh.Update))
	mux.Handle("/stocks/delete", gated(sh.Delete))

	svh := handlers.NewServiceHandler(st)
	mux.Handle("/services", collection(svh.List, svh.Create))
	mux.Handle("/services/update", gated(svh.Update))
	mux.Handle("/services/delete", gated(svh.Delete))

	ch := handlers.NewCustomerHandler(st)
	mux.Handle("/customers", collection(ch.List, ch.Create))
	mux.Handle("/customers/update", gated(ch.Update))
	mux.Handle("/customers/delete", gated(ch.Delete))

	ih := handlers.NewInvoiceHandler(st, billing.NewCalculator())
	mux.Handle("/invoices", collection(ih.List, ih.Create))
	mux.Handle("/invoices/get", gated(ih.Get))
	mux.Handle("/invoices/update", gated(ih.Update))
	mux.Handle("/invoices/delete", gated(ih.Delete))

	cath := handlers.NewCategoryHandler(st)
	mux.Handle("/categories", collection(cath.List, cath.Create))
	mux.Handle("/categories/delete", gated(cath.Delete))

	seth := handlers.NewSettingsHandler(st)
	mux.Handle("/settings", collection(seth.Get, seth.Save))

	return withRecover(withLogging(mux, log))
}

func postOnly(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
