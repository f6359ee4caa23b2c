// Package domain provides domain models used across the application.
package domain

import "time"

// CompanyType classifies a funded company by the sub-section it appeared under.
const (
	CompanyTypeProduct = "Product"
	CompanyTypeService = "Service"
)

// Investor is a named investor participating in a funding round.
type Investor struct {
	// Display name of the investor
	Name string `json:"name" mapstructure:"name"`
	// Investor website, query string stripped; may be empty
	URL string `json:"url" mapstructure:"url"`
}

// FundingRecord is one extracted funding event.
type FundingRecord struct {
	// Document identifier assigned at conversion time
	ID string `json:"id" mapstructure:"id"`
	// Visible list-item text up to the first " (" occurrence
	Description string `json:"description" mapstructure:"description"`
	// Name of the funded company; required for validity
	CompanyName string `json:"company_name" mapstructure:"company_name"`
	// Company website, query string stripped; may be empty
	CompanyURL string `json:"company_url" mapstructure:"company_url"`
	// Raised amount in whole dollars; 0 means disclosed-as-undisclosed
	Amount int64 `json:"amount" mapstructure:"amount"`
	// Normalized round label (e.g. "Series A"); empty when unparseable
	Round string `json:"round" mapstructure:"round"`
	// Investors in document order
	Investors []Investor `json:"investors" mapstructure:"investors"`
	// URL of the "more" anchor, or the last anchor when no "more" exists
	StoryLink string `json:"story_link" mapstructure:"story_link"`
	// Uppercase first host label of StoryLink (e.g. "TECHCRUNCH")
	Source string `json:"source" mapstructure:"source"`
	// Article publication date, ISO-8601; shared by all records of one article
	Date string `json:"date" mapstructure:"date"`
	// "Product" or "Service", from the enclosing sub-heading
	CompanyType string `json:"company_type" mapstructure:"company_type"`
	// Source article URL; natural dedup key at article granularity
	Reference string `json:"reference" mapstructure:"reference"`
	// Record creation timestamp
	CreatedAt time.Time `json:"created_at" mapstructure:"created_at"`
}
