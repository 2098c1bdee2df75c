package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/garagedesk/garagedesk/internal/models"
)

var (
	// ErrNotFound is returned by update operations targeting a missing id.
	// Deletes stay idempotent and never return it.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID rejects an add with an explicit id that already exists.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrDuplicateInvoiceNumber enforces invoice number uniqueness.
	ErrDuplicateInvoiceNumber = errors.New("duplicate invoice number")
)

// Backend is the durable storage boundary: upsert/delete/list per collection.
// The Store mirrors every mutation through it when configured; the in-memory
// collections remain the source of truth for the session.
type Backend interface {
	Upsert(ctx context.Context, record any) error
	Delete(ctx context.Context, model any, id string) error
	List(ctx context.Context, dest any) error
}

// Store holds all entity collections for the lifetime of the process.
// It is dependency-injected rather than a package-level singleton so tests
// can instantiate isolated stores. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	backend Backend // nil = memory only
	log     zerolog.Logger

	stocks     []models.Stock
	services   []models.Service
	customers  []models.Customer
	invoices   []models.Invoice
	categories []models.Category
	profile    *models.GarageProfile
}

// New returns an empty store. backend may be nil for a memory-only store.
func New(backend Backend, log zerolog.Logger) *Store {
	return &Store{backend: backend, log: log}
}

// Load replaces the in-memory collections with the backend's contents.
// No-op without a backend.
func (s *Store) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.List(ctx, &s.stocks); err != nil {
		return fmt.Errorf("load stocks: %w", err)
	}
	if err := s.backend.List(ctx, &s.services); err != nil {
		return fmt.Errorf("load services: %w", err)
	}
	if err := s.backend.List(ctx, &s.customers); err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	if err := s.backend.List(ctx, &s.invoices); err != nil {
		return fmt.Errorf("load invoices: %w", err)
	}
	if err := s.backend.List(ctx, &s.categories); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	var profiles []models.GarageProfile
	if err := s.backend.List(ctx, &profiles); err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	s.profile = nil
	if len(profiles) > 0 {
		p := profiles[0]
		s.profile = &p
	}
	return nil
}

// mirrorUpsert persists a mutation best-effort. The in-memory state already
// changed; a backend failure is logged, not unwound (last-write-wins on the
// next successful mirror).
func (s *Store) mirrorUpsert(ctx context.Context, record any) {
	if s.backend == nil {
		return
	}
	if err := s.backend.Upsert(ctx, record); err != nil {
		s.log.Error().Err(err).Type("record", record).Msg("durable upsert failed")
	}
}

func (s *Store) mirrorDelete(ctx context.Context, model any, id string) {
	if s.backend == nil {
		return
	}
	if err := s.backend.Delete(ctx, model, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Type("record", model).Msg("durable delete failed")
	}
}

func findIdx[T any](items []T, want string, id func(*T) string) int {
	for i := range items {
		if id(&items[i]) == want {
			return i
		}
	}
	return -1
}

func stockID(s *models.Stock) string       { return s.ID }
func serviceID(s *models.Service) string   { return s.ID }
func customerID(c *models.Customer) string { return c.ID }
func invoiceID(i *models.Invoice) string   { return i.ID }

// ---- Stocks ----

func (s *Store) AddStock(ctx context.Context, st models.Stock) (models.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.NewString()
	} else if findIdx(s.stocks, st.ID, stockID) >= 0 {
		return models.Stock{}, fmt.Errorf("stock %s: %w", st.ID, ErrDuplicateID)
	}
	now := time.Now()
	st.CreatedAt, st.UpdatedAt = now, now
	s.stocks = append(s.stocks, st)
	s.mirrorUpsert(ctx, &st)
	return st, nil
}

// UpdateStock fully replaces the record with the matching id.
func (s *Store) UpdateStock(ctx context.Context, st models.Stock) (models.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findIdx(s.stocks, st.ID, stockID)
	if i < 0 {
		return models.Stock{}, fmt.Errorf("stock %s: %w", st.ID, ErrNotFound)
	}
	st.CreatedAt = s.stocks[i].CreatedAt
	st.UpdatedAt = time.Now()
	s.stocks[i] = st
	s.mirrorUpsert(ctx, &st)
	return st, nil
}

// DeleteStock removes the record if present; deleting a missing id is a no-op.
func (s *Store) DeleteStock(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findIdx(s.stocks, id, stockID)
	if i < 0 {
		return
	}
	s.stocks = append(s.stocks[:i], s.stocks[i+1:]...)
	s.mirrorDelete(ctx, &models.Stock{}, id)
}

func (s *Store) Stocks() []models.Stock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Stock(nil), s.stocks...)
}

func (s *Store) Stock(id string) (models.Stock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := findIdx(s.stocks, id, stockID); i >= 0 {
		return s.stocks[i], true
	}
	return models.Stock{}, false
}

// ---- Services ----

func (s *Store) AddService(ctx context.Context, sv models.Service) (models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sv.ID == "" {
		sv.ID = uuid.NewString()
	} else if findIdx(s.services, sv.ID, serviceID) >= 0 {
		return models.Service{}, fmt.Errorf("service %s: %w", sv.ID, ErrDuplicateID)
	}
	now := time.Now()
	sv.CreatedAt, sv.UpdatedAt = now, now
	s.services = append(s.services, sv)
	s.mirrorUpsert(ctx, &sv)
	return sv, nil
}

func (s *Store) UpdateService(ctx context.Context, sv models.Service) (models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findIdx(s.services, sv.ID, serviceID)
	if i < 0 {
		return models.Service{}, fmt.Errorf("service %s: %w", sv.ID, ErrNotFound)
	}
	sv.CreatedAt = s.services[i].CreatedAt
	sv.UpdatedAt = time.Now()
	s.services[i] = sv
	s.mirrorUpsert(ctx, &sv)
	return sv, nil
}

func (s *Store) DeleteService(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findIdx(s.services, id, serviceID)
	if i < 0 {
		return
	}
	s.services = append(s.services[:i], s.services[i+1:]...)
	s.mirrorDelete(ctx, &models.Service{}, id)
}

func (s *Store) Services() []models.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Service(nil), s.services...)
}

func (s *Store) Service(id string) (models.Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := findIdx(s.services, id, serviceID); i >= 0 {
		return s.services[i], true
	}
	return models.Service{}, false
}

// ---- Customers ----

func (s *Store) AddCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	} else if findIdx(s.customers, c.ID, customerID) >= 0 {
		return models.Customer{}, fmt.Errorf("customer %s: %w", c.ID, ErrDuplicateID)
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	s.customers = append(s.customers, c)
	s.mirrorUpsert(ctx, &c)
	return c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findIdx(s.customers, c.ID, customerID)
	if i < 0 {
		return models.Customer{}, fmt.Errorf("customer %s: %w", c.ID, ErrNotFound)
	}
	c.CreatedAt = s.customers[i].CreatedAt
	c.UpdatedAt = time.Now()
	s.customers[i] = c
	s.mirrorUpsert(ctx, &c)
	return c, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findIdx(s.customers, id, customerID)
	if i < 0 {
		return
	}
	s.customers = append(s.customers[:i], s.customers[i+1:]...)
	s.mirrorDelete(ctx, &models.Customer{}, id)
}

func (s *Store) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Customer(nil), s.customers...)
}

func (s *Store) Customer(id string) (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := findIdx(s.customers, id, customerID); i >= 0 {
		return s.customers[i], true
	}
	return models.Customer{}, false
}

// ---- Invoices ----

// AddInvoice stores a computed invoice. A blank InvoiceNumber gets the next
// sequential number for the invoice-date year; an explicit one must be unique.
func (s *Store) AddInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	} else if findIdx(s.invoices, inv.ID, invoiceID) >= 0 {
		return models.Invoice{}, fmt.Errorf("invoice %s: %w", inv.ID, ErrDuplicateID)
	}
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = time.Now()
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = s.nextInvoiceNumber(inv.InvoiceDate.Year())
	} else {
		for i := range s.invoices {
			if s.invoices[i].InvoiceNumber == inv.InvoiceNumber {
				return models.Invoice{}, fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, ErrDuplicateInvoiceNumber)
			}
		}
	}
	now := time.Now()
	inv.CreatedAt, inv.UpdatedAt = now, now
	s.invoices = append(s.invoices, inv)
	s.mirrorUpsert(ctx, &inv)
	return inv, nil
}

// nextInvoiceNumber returns INV-YYYY-NNNN, skipping numbers already taken.
// Caller holds the lock.
func (s *Store) nextInvoiceNumber(year int) string {
	prefix := fmt.Sprintf("INV-%d-", year)
	n := 0
	for i := range s.invoices {
		if strings.HasPrefix(s.invoices[i].InvoiceNumber, prefix) {
			n++
		}
	}
	for {
		n++
		candidate := fmt.Sprintf("%s%04d", prefix, n)
		taken := false
		for i := range s.invoices {
			if s.invoices[i].InvoiceNumber == candidate {
				taken = true
				break
			}
		}
		if !taken {
			return candidate
		}
	}
}

func (s *Store) UpdateInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findIdx(s.invoices, inv.ID, invoiceID)
	if i < 0 {
		return models.Invoice{}, fmt.Errorf("invoice %s: %w", inv.ID, ErrNotFound)
	}
	if inv.InvoiceNumber != s.invoices[i].InvoiceNumber {
		for j := range s.invoices {
			if j != i && s.invoices[j].InvoiceNumber == inv.InvoiceNumber {
				return models.Invoice{}, fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, ErrDuplicateInvoiceNumber)
			}
		}
	}
	inv.CreatedAt = s.invoices[i].CreatedAt
	inv.UpdatedAt = time.Now()
	s.invoices[i] = inv
	s.mirrorUpsert(ctx, &inv)
	return inv, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findIdx(s.invoices, id, invoiceID)
	if i < 0 {
		return
	}
	s.invoices = append(s.invoices[:i], s.invoices[i+1:]...)
	s.mirrorDelete(ctx, &models.Invoice{}, id)
}

func (s *Store) Invoices() []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Invoice(nil), s.invoices...)
}

func (s *Store) Invoice(id string) (models.Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := findIdx(s.invoices, id, invoiceID); i >= 0 {
		return s.invoices[i], true
	}
	return models.Invoice{}, false
}

// ---- Categories ----

// AddCategory inserts a classification label; adding an existing (kind, name)
// pair returns the existing record.
func (s *Store) AddCategory(ctx context.Context, kind, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, errors.New("category name required")
	}
	if kind != models.CategoryKindStock && kind != models.CategoryKindService {
		return models.Category{}, fmt.Errorf("unknown category kind %q", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].Kind == kind && s.categories[i].Name == name {
			return s.categories[i], nil
		}
	}
	now := time.Now()
	c := models.Category{ID: uuid.NewString(), Kind: kind, Name: name, CreatedAt: now, UpdatedAt: now}
	s.categories = append(s.categories, c)
	s.mirrorUpsert(ctx, &c)
	return c, nil
}

// DeleteCategory removes a label. Entities already tagged with it keep the
// now-orphaned category string; there is no cascade.
func (s *Store) DeleteCategory(ctx context.Context, kind, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].Kind == kind && s.categories[i].Name == name {
			id := s.categories[i].ID
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			s.mirrorDelete(ctx, &models.Category{}, id)
			return
		}
	}
}

// Categories returns the label names of one kind in insertion order.
func (s *Store) Categories(kind string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for i := range s.categories {
		if s.categories[i].Kind == kind {
			names = append(names, s.categories[i].Name)
		}
	}
	return names
}

// ---- Garage profile ----

// Profile returns the singleton garage profile, or nil if never saved.
func (s *Store) Profile() *models.GarageProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// SetProfile replaces the whole profile record. Field validation is the
// caller's responsibility. The singleton id is preserved across saves.
func (s *Store) SetProfile(ctx context.Context, p models.GarageProfile) models.GarageProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if s.profile != nil {
		p.ID = s.profile.ID
		p.CreatedAt = s.profile.CreatedAt
	} else {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profile = &p
	s.mirrorUpsert(ctx, &p)
	return p
}

// Counts feeds the dashboard view.
type Counts struct {
	Stocks    int `json:"stocks"`
	Services  int `json:"services"`
	Customers int `json:"customers"`
	Invoices  int `json:"invoices"`
}

func (s *Store) Count() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{Stocks: len(s.stocks), Services: len(s.services), Customers: len(s.customers), Invoices: len(s.invoices)}
}
