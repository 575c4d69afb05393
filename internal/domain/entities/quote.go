package entities

import "github.com/shopspring/decimal"

// Quote is the accepted sales estimate handed over by the upstream sales process.
//
// The engine never mutates a quote: contracts keep a verbatim snapshot of it for audit.
type Quote struct {
	ID             string          `json:"id"`
	BusinessName   string          `json:"business_name"`
	Industry       string          `json:"industry"`
	PageCount      int             `json:"page_count"`
	Features       []string        `json:"features"`
	Timeline       string          `json:"timeline"`
	BudgetBand     string          `json:"budget_band"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
	ContactName    string          `json:"contact_name"`
	ContactEmail   string          `json:"contact_email"`
	ContactPhone   string          `json:"contact_phone"`
	Requirements   string          `json:"requirements"`
	Notes          string          `json:"notes"`
}

// FeatureCount prefers the explicit feature list over the page count.
func (q Quote) FeatureCount() int {
	if len(q.Features) > 0 {
		return len(q.Features)
	}
	return q.PageCount
}
