package domain

// Pagination bounds for the funding query API.
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Query describes one paginated funding-record query.
type Query struct {
	Page          int
	ItemsPerPage  int
	SortField     string
	SortDirection string
	Search        string
	FilterRound   string
}

// Skip returns the zero-based offset of the first item on the requested page.
func (q Query) Skip() int {
	return (q.Page - 1) * q.ItemsPerPage
}

// PaginatedResult is one page of funding records plus paging metadata.
type PaginatedResult struct {
	Data         []FundingRecord `json:"data"`
	TotalCount   int64           `json:"totalCount"`
	TotalPages   int64           `json:"totalPages"`
	CurrentPage  int             `json:"currentPage"`
	ItemsPerPage int             `json:"itemsPerPage"`
}

// TypeCount is the number of records sharing one company type.
type TypeCount struct {
	CompanyType string `json:"company_type"`
	Count       int64  `json:"count"`
}

// Stats aggregates the stored funding records for the dashboard.
type Stats struct {
	TotalCompanies int64       `json:"total_companies"`
	TotalFunding   int64       `json:"total_funding"`
	FundingByType  []TypeCount `json:"funding_by_type"`
}
