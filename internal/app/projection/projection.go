// Package projection reshapes flat query-result rows into the nested
// documents the API returns. Every function here is a deterministic,
// side-effect-free transformation of its inputs; the store is never touched.
package projection

import (
	"github.com/bizledger/billingd/internal/app/domain/company"
	"github.com/bizledger/billingd/internal/app/domain/industry"
	"github.com/bizledger/billingd/internal/app/domain/invoice"
)

// CompanyDetail merges a company row with its child invoice and industry
// rows. The child lists keep the store's returned ordering and are extracted
// down to a single field each: invoice id and industry display name.
func CompanyDetail(c company.Company, invoices []invoice.Ref, industries []industry.Industry) company.Detail {
	ids := make([]int64, 0, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
	}
	names := make([]string, 0, len(industries))
	for _, ind := range industries {
		names = append(names, ind.Name)
	}
	return company.Detail{
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Invoices:    ids,
		Industries:  names,
	}
}

// InvoiceDetail splits a joined invoice/company row into an invoice-level
// object with the owning company folded into a nested summary, keyed by the
// invoice's own comp_code.
func InvoiceDetail(row invoice.JoinedRow) invoice.Detail {
	return invoice.Detail{
		ID:       row.ID,
		Amt:      row.Amt,
		Paid:     row.Paid,
		AddDate:  row.AddDate,
		PaidDate: row.PaidDate,
		Company: company.Company{
			Code:        row.CompCode,
			Name:        row.CompanyName,
			Description: row.CompanyDescription,
		},
	}
}

// GroupIndustries aggregates left-join membership rows into a map from
// industry display name to its code and associated company codes. The first
// row for an industry establishes the entry; later rows with the same name
// reuse it, so the key is never duplicated. A nil CompCode (an industry with
// no links) still creates the entry but contributes no list element.
func GroupIndustries(rows []industry.MembershipRow) map[string]industry.Group {
	groups := make(map[string]industry.Group, len(rows))
	for _, row := range rows {
		group, ok := groups[row.Name]
		if !ok {
			group = industry.Group{Code: row.Code, Companies: []string{}}
		}
		if row.CompCode != nil {
			group.Companies = append(group.Companies, *row.CompCode)
		}
		groups[row.Name] = group
	}
	return groups
}
