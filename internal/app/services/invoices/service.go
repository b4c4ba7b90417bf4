// Package invoices implements the invoice entity gateway.
package invoices

import (
	"context"

	"github.com/bizledger/billingd/internal/app/domain/invoice"
	"github.com/bizledger/billingd/internal/app/projection"
	"github.com/bizledger/billingd/internal/app/storage"
	"github.com/bizledger/billingd/pkg/logger"
)

// Service manages invoice records.
type Service struct {
	store     storage.InvoiceStore
	companies storage.CompanyStore
	log       *logger.Logger
}

// New constructs an invoice service.
func New(store storage.InvoiceStore, companies storage.CompanyStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("invoices")
	}
	return &Service{store: store, companies: companies, log: log}
}

// List returns every invoice as an id/comp_code pair.
func (s *Service) List(ctx context.Context) ([]invoice.Ref, error) {
	return s.store.ListInvoices(ctx)
}

// Get fetches one invoice with the owning company folded into a nested
// summary.
func (s *Service) Get(ctx context.Context, id int64) (invoice.Detail, error) {
	joined, err := s.store.GetInvoiceJoined(ctx, id)
	if err != nil {
		return invoice.Detail{}, err
	}
	return projection.InvoiceDetail(joined), nil
}

// Create inserts an invoice against an existing company. The company check
// here is advisory, producing a friendly not-found message; the foreign key
// on invoices.comp_code remains the source of truth, so a company deleted
// between check and insert still fails the insert.
func (s *Service) Create(ctx context.Context, compCode string, amt float64) (invoice.Invoice, error) {
	if s.companies != nil {
		if _, err := s.companies.GetCompany(ctx, compCode); err != nil {
			return invoice.Invoice{}, err
		}
	}

	created, err := s.store.CreateInvoice(ctx, invoice.Invoice{CompCode: compCode, Amt: amt})
	if err != nil {
		return invoice.Invoice{}, err
	}
	s.log.Infof("invoice %d created for %s", created.ID, created.CompCode)
	return created, nil
}

// UpdateAmount sets a new amount on an existing invoice.
func (s *Service) UpdateAmount(ctx context.Context, id int64, amt float64) (invoice.Invoice, error) {
	updated, err := s.store.UpdateInvoiceAmount(ctx, id, amt)
	if err != nil {
		return invoice.Invoice{}, err
	}
	s.log.Infof("invoice %d updated", id)
	return updated, nil
}

// Delete removes an invoice by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteInvoice(ctx, id); err != nil {
		return err
	}
	s.log.Infof("invoice %d deleted", id)
	return nil
}
