package industry

// Industry is the stored row: a code and a display name.
type Industry struct {
	Code string `json:"code"`
	Name string `json:"industry"`
}

// Link records a company/industry association. It has no lifecycle beyond
// the pair itself.
type Link struct {
	CompCode string `json:"comp_code"`
	IndCode  string `json:"ind_code"`
}

// MembershipRow is one row of the industry left join against the association
// table. CompCode is nil for an industry with no linked companies.
type MembershipRow struct {
	Name     string
	Code     string
	CompCode *string
}

// Group is one entry of the industry listing: the industry code plus the
// codes of every associated company, keyed by display name in the response.
type Group struct {
	Code      string   `json:"code"`
	Companies []string `json:"companies"`
}
