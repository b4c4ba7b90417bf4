package app

import (
	"github.com/bizledger/billingd/internal/app/services/companies"
	"github.com/bizledger/billingd/internal/app/services/industries"
	"github.com/bizledger/billingd/internal/app/services/invoices"
	"github.com/bizledger/billingd/internal/app/storage"
	"github.com/bizledger/billingd/internal/app/storage/memory"
	"github.com/bizledger/billingd/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Companies  storage.CompanyStore
	Invoices   storage.InvoiceStore
	Industries storage.IndustryStore
}

// Application ties the domain services together.
type Application struct {
	log *logger.Logger

	Companies  *companies.Service
	Invoices   *invoices.Service
	Industries *industries.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Companies == nil {
		stores.Companies = mem
	}
	if stores.Invoices == nil {
		stores.Invoices = mem
	}
	if stores.Industries == nil {
		stores.Industries = mem
	}

	companySvc := companies.New(stores.Companies, log)
	invoiceSvc := invoices.New(stores.Invoices, stores.Companies, log)
	industrySvc := industries.New(stores.Industries, log)

	return &Application{
		log:        log,
		Companies:  companySvc,
		Invoices:   invoiceSvc,
		Industries: industrySvc,
	}
}
