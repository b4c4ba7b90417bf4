package storage

import (
	"context"

	"github.com/bizledger/billingd/internal/app/domain/company"
	"github.com/bizledger/billingd/internal/app/domain/industry"
	"github.com/bizledger/billingd/internal/app/domain/invoice"
)

// CompanyStore persists company rows and serves the child-row queries the
// company detail projection needs.
type CompanyStore interface {
	CreateCompany(ctx context.Context, c company.Company) (company.Company, error)
	UpdateCompany(ctx context.Context, c company.Company) (company.Company, error)
	GetCompany(ctx context.Context, code string) (company.Company, error)
	ListCompanies(ctx context.Context) ([]company.Summary, error)
	DeleteCompany(ctx context.Context, code string) error

	// ListCompanyInvoices returns the invoice refs owned by a company in
	// store order.
	ListCompanyInvoices(ctx context.Context, code string) ([]invoice.Ref, error)
	// ListCompanyIndustries returns the industries linked to a company in
	// store order.
	ListCompanyIndustries(ctx context.Context, code string) ([]industry.Industry, error)
}

// InvoiceStore persists invoice rows.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error)
	UpdateInvoiceAmount(ctx context.Context, id int64, amt float64) (invoice.Invoice, error)
	GetInvoiceJoined(ctx context.Context, id int64) (invoice.JoinedRow, error)
	ListInvoices(ctx context.Context) ([]invoice.Ref, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

// IndustryStore persists industry rows and company/industry links.
type IndustryStore interface {
	CreateIndustry(ctx context.Context, ind industry.Industry) (industry.Industry, error)
	// ListIndustryMemberships returns one row per industry/company pair from
	// the left join against the association table; industries with no links
	// appear once with a nil company code.
	ListIndustryMemberships(ctx context.Context) ([]industry.MembershipRow, error)
	CreateLink(ctx context.Context, link industry.Link) (industry.Link, error)
}
