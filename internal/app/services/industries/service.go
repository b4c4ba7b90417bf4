// Package industries implements the industry entity gateway, including
// company/industry links.
package industries

import (
	"context"

	"github.com/bizledger/billingd/internal/app/domain/industry"
	"github.com/bizledger/billingd/internal/app/projection"
	"github.com/bizledger/billingd/internal/app/slug"
	"github.com/bizledger/billingd/internal/app/storage"
	apperr "github.com/bizledger/billingd/internal/errors"
	"github.com/bizledger/billingd/pkg/logger"
)

// Service manages industry records and their company associations.
type Service struct {
	store storage.IndustryStore
	log   *logger.Logger
}

// New constructs an industry service.
func New(store storage.IndustryStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("industries")
	}
	return &Service{store: store, log: log}
}

// List returns every industry grouped by display name with its associated
// company codes. Industries with no links appear with an empty list.
func (s *Service) List(ctx context.Context) (map[string]industry.Group, error) {
	rows, err := s.store.ListIndustryMemberships(ctx)
	if err != nil {
		return nil, err
	}
	return projection.GroupIndustries(rows), nil
}

// Create registers an industry. A missing code is derived from the display
// name; a duplicate code surfaces as a conflict from the store.
func (s *Service) Create(ctx context.Context, code, name string) (industry.Industry, error) {
	if name == "" {
		return industry.Industry{}, apperr.BadRequest("industry is required")
	}
	if code == "" {
		code = slug.Derive(name)
	}

	created, err := s.store.CreateIndustry(ctx, industry.Industry{Code: code, Name: name})
	if err != nil {
		return industry.Industry{}, err
	}
	s.log.Infof("industry %s created", created.Code)
	return created, nil
}

// Link associates a company with an industry. The store's foreign keys decide
// whether both ends exist; a dangling code surfaces as not-found and an
// existing pair as a conflict.
func (s *Service) Link(ctx context.Context, compCode, indCode string) (industry.Link, error) {
	if compCode == "" {
		return industry.Link{}, apperr.BadRequest("there is no company_code passed")
	}

	created, err := s.store.CreateLink(ctx, industry.Link{CompCode: compCode, IndCode: indCode})
	if err != nil {
		return industry.Link{}, err
	}
	s.log.Infof("company %s linked to industry %s", compCode, indCode)
	return created, nil
}
