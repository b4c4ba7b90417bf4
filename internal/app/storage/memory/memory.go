package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bizledger/billingd/internal/app/domain/company"
	"github.com/bizledger/billingd/internal/app/domain/industry"
	"github.com/bizledger/billingd/internal/app/domain/invoice"
	"github.com/bizledger/billingd/internal/app/storage"
	apperr "github.com/bizledger/billingd/internal/errors"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local
// development. It mirrors the relational constraints the Postgres schema
// enforces: unique codes, invoice/link foreign keys, and cascade on company
// delete.
type Store struct {
	mu            sync.RWMutex
	nextInvoiceID int64
	companies     map[string]company.Company
	companyOrder  []string
	invoices      map[int64]invoice.Invoice
	invoiceOrder  []int64
	industries    map[string]industry.Industry
	industryOrder []string
	links         []industry.Link
}

var _ storage.CompanyStore = (*Store)(nil)
var _ storage.InvoiceStore = (*Store)(nil)
var _ storage.IndustryStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextInvoiceID: 1,
		companies:     make(map[string]company.Company),
		invoices:      make(map[int64]invoice.Invoice),
		industries:    make(map[string]industry.Industry),
	}
}

// CompanyStore implementation -------------------------------------------------

func (s *Store) CreateCompany(_ context.Context, c company.Company) (company.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[c.Code]; exists {
		return company.Company{}, apperr.Conflict("company code %s already exists", c.Code)
	}
	s.companies[c.Code] = c
	s.companyOrder = append(s.companyOrder, c.Code)
	return c, nil
}

func (s *Store) UpdateCompany(_ context.Context, c company.Company) (company.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[c.Code]; !exists {
		return company.Company{}, apperr.NotFound("code: %s not found", c.Code)
	}
	s.companies[c.Code] = c
	return c, nil
}

func (s *Store) GetCompany(_ context.Context, code string) (company.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.companies[code]
	if !exists {
		return company.Company{}, apperr.NotFound("code: %s not found", code)
	}
	return c, nil
}

func (s *Store) ListCompanies(_ context.Context) ([]company.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]company.Summary, 0, len(s.companyOrder))
	for _, code := range s.companyOrder {
		c := s.companies[code]
		result = append(result, company.Summary{Code: c.Code, Name: c.Name})
	}
	return result, nil
}

func (s *Store) DeleteCompany(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[code]; !exists {
		return apperr.NotFound("code: %s not found", code)
	}
	delete(s.companies, code)
	s.companyOrder = removeString(s.companyOrder, code)

	// Cascade, matching the schema's ON DELETE CASCADE.
	for id, inv := range s.invoices {
		if inv.CompCode == code {
			delete(s.invoices, id)
			s.invoiceOrder = removeInt64(s.invoiceOrder, id)
		}
	}
	kept := s.links[:0]
	for _, l := range s.links {
		if l.CompCode != code {
			kept = append(kept, l)
		}
	}
	s.links = kept
	return nil
}

func (s *Store) ListCompanyInvoices(_ context.Context, code string) ([]invoice.Ref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []invoice.Ref{}
	for _, id := range s.invoiceOrder {
		if inv := s.invoices[id]; inv.CompCode == code {
			result = append(result, invoice.Ref{ID: inv.ID, CompCode: inv.CompCode})
		}
	}
	return result, nil
}

func (s *Store) ListCompanyIndustries(_ context.Context, code string) ([]industry.Industry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []industry.Industry{}
	for _, l := range s.links {
		if l.CompCode == code {
			if ind, ok := s.industries[l.IndCode]; ok {
				result = append(result, ind)
			}
		}
	}
	return result, nil
}

// InvoiceStore implementation -------------------------------------------------

func (s *Store) CreateInvoice(_ context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[inv.CompCode]; !exists {
		return invoice.Invoice{}, apperr.NotFound("comp_code: %s not found", inv.CompCode)
	}

	inv.ID = s.nextInvoiceID
	s.nextInvoiceID++
	if inv.AddDate.IsZero() {
		inv.AddDate = time.Now().UTC()
	}
	s.invoices[inv.ID] = inv
	s.invoiceOrder = append(s.invoiceOrder, inv.ID)
	return inv, nil
}

func (s *Store) UpdateInvoiceAmount(_ context.Context, id int64, amt float64) (invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, exists := s.invoices[id]
	if !exists {
		return invoice.Invoice{}, apperr.NotFound("invoice id: %d not found", id)
	}
	inv.Amt = amt
	s.invoices[id] = inv
	return inv, nil
}

func (s *Store) GetInvoiceJoined(_ context.Context, id int64) (invoice.JoinedRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, exists := s.invoices[id]
	if !exists {
		return invoice.JoinedRow{}, apperr.NotFound("invoice id: %d not found", id)
	}
	c := s.companies[inv.CompCode]
	return invoice.JoinedRow{
		Invoice:            inv,
		CompanyName:        c.Name,
		CompanyDescription: c.Description,
	}, nil
}

func (s *Store) ListInvoices(_ context.Context) ([]invoice.Ref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]invoice.Ref, 0, len(s.invoiceOrder))
	for _, id := range s.invoiceOrder {
		inv := s.invoices[id]
		result = append(result, invoice.Ref{ID: inv.ID, CompCode: inv.CompCode})
	}
	return result, nil
}

func (s *Store) DeleteInvoice(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[id]; !exists {
		return apperr.NotFound("invoice id: %d not found", id)
	}
	delete(s.invoices, id)
	s.invoiceOrder = removeInt64(s.invoiceOrder, id)
	return nil
}

// IndustryStore implementation ------------------------------------------------

func (s *Store) CreateIndustry(_ context.Context, ind industry.Industry) (industry.Industry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.industries[ind.Code]; exists {
		return industry.Industry{}, apperr.Conflict("industry code %s already exists", ind.Code)
	}
	s.industries[ind.Code] = ind
	s.industryOrder = append(s.industryOrder, ind.Code)
	return ind, nil
}

func (s *Store) ListIndustryMemberships(_ context.Context) ([]industry.MembershipRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []industry.MembershipRow{}
	for _, code := range s.industryOrder {
		ind := s.industries[code]
		linked := false
		for _, l := range s.links {
			if l.IndCode == code {
				comp := l.CompCode
				result = append(result, industry.MembershipRow{Name: ind.Name, Code: ind.Code, CompCode: &comp})
				linked = true
			}
		}
		if !linked {
			result = append(result, industry.MembershipRow{Name: ind.Name, Code: ind.Code})
		}
	}
	return result, nil
}

func (s *Store) CreateLink(_ context.Context, link industry.Link) (industry.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[link.CompCode]; !exists {
		return industry.Link{}, apperr.NotFound("company or industry not found")
	}
	if _, exists := s.industries[link.IndCode]; !exists {
		return industry.Link{}, apperr.NotFound("company or industry not found")
	}
	for _, l := range s.links {
		if l == link {
			return industry.Link{}, apperr.Conflict("company %s already linked to industry %s", link.CompCode, link.IndCode)
		}
	}
	s.links = append(s.links, link)
	return link, nil
}

func removeString(list []string, v string) []string {
	for i, s := range list {
		if s == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func removeInt64(list []int64, v int64) []int64 {
	for i, n := range list {
		if n == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
