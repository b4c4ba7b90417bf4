package company

// Company represents a billable business entity. Code is the external key;
// there is no numeric surrogate.
type Company struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Summary is the list-view shape: code and name only.
type Summary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Detail is the nested document returned for a single company: the company
// row merged with its invoice ids and industry display names.
type Detail struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Invoices    []int64  `json:"invoices"`
	Industries  []string `json:"industries"`
}
