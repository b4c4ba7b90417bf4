package invoice

import (
	"time"

	"github.com/bizledger/billingd/internal/app/domain/company"
)

// Invoice is the stored row. ID and AddDate are server-assigned; PaidDate is
// nil until the invoice is marked paid.
type Invoice struct {
	ID       int64      `json:"id"`
	CompCode string     `json:"comp_code"`
	Amt      float64    `json:"amt"`
	Paid     bool       `json:"paid"`
	AddDate  time.Time  `json:"add_date"`
	PaidDate *time.Time `json:"paid_date"`
}

// Ref is the list-view shape: id and owning company code.
type Ref struct {
	ID       int64  `json:"id"`
	CompCode string `json:"comp_code"`
}

// JoinedRow is one row of the invoice/company inner join used by the detail
// lookup: all invoice fields plus the owning company's name and description.
type JoinedRow struct {
	Invoice
	CompanyName        string
	CompanyDescription string
}

// Detail is the nested document for a single invoice: the invoice fields with
// the owning company folded into an embedded summary object.
type Detail struct {
	ID       int64           `json:"id"`
	Amt      float64         `json:"amt"`
	Paid     bool            `json:"paid"`
	AddDate  time.Time       `json:"add_date"`
	PaidDate *time.Time      `json:"paid_date"`
	Company  company.Company `json:"company"`
}
