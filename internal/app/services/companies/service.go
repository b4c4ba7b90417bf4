// Package companies implements the company entity gateway.
package companies

import (
	"context"

	"github.com/bizledger/billingd/internal/app/domain/company"
	"github.com/bizledger/billingd/internal/app/projection"
	"github.com/bizledger/billingd/internal/app/slug"
	"github.com/bizledger/billingd/internal/app/storage"
	apperr "github.com/bizledger/billingd/internal/errors"
	"github.com/bizledger/billingd/pkg/logger"
)

// Service manages company records.
type Service struct {
	store storage.CompanyStore
	log   *logger.Logger
}

// New constructs a company service.
func New(store storage.CompanyStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("companies")
	}
	return &Service{store: store, log: log}
}

// List returns every company as a code/name summary.
func (s *Service) List(ctx context.Context) ([]company.Summary, error) {
	return s.store.ListCompanies(ctx)
}

// Get fetches one company with its invoice ids and industry names folded in.
func (s *Service) Get(ctx context.Context, code string) (company.Detail, error) {
	c, err := s.store.GetCompany(ctx, code)
	if err != nil {
		return company.Detail{}, err
	}
	invoices, err := s.store.ListCompanyInvoices(ctx, code)
	if err != nil {
		return company.Detail{}, err
	}
	industries, err := s.store.ListCompanyIndustries(ctx, code)
	if err != nil {
		return company.Detail{}, err
	}
	return projection.CompanyDetail(c, invoices, industries), nil
}

// Create registers a company. When code is empty it is derived from the name;
// a duplicate code surfaces as a conflict from the store's key constraint.
func (s *Service) Create(ctx context.Context, code, name, description string) (company.Company, error) {
	if name == "" {
		return company.Company{}, apperr.BadRequest("name is required")
	}
	if code == "" {
		code = slug.Derive(name)
	}

	created, err := s.store.CreateCompany(ctx, company.Company{
		Code:        code,
		Name:        name,
		Description: description,
	})
	if err != nil {
		return company.Company{}, err
	}
	s.log.Infof("company %s created", created.Code)
	return created, nil
}

// Update overwrites the non-key fields of an existing company.
func (s *Service) Update(ctx context.Context, code, name, description string) (company.Company, error) {
	updated, err := s.store.UpdateCompany(ctx, company.Company{
		Code:        code,
		Name:        name,
		Description: description,
	})
	if err != nil {
		return company.Company{}, err
	}
	s.log.Infof("company %s updated", code)
	return updated, nil
}

// Delete removes a company; its invoices and industry links go with it.
func (s *Service) Delete(ctx context.Context, code string) error {
	if err := s.store.DeleteCompany(ctx, code); err != nil {
		return err
	}
	s.log.Infof("company %s deleted", code)
	return nil
}
