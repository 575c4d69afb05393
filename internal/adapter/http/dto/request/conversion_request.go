package request

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"
)

var (
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD or RFC3339")
)

type QuoteRequest struct {
	ID             string          `json:"id"`
	BusinessName   string          `json:"business_name" binding:"required"`
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

func (q QuoteRequest) ToQuote() entities.Quote {
	return entities.Quote{
		ID:             strings.TrimSpace(q.ID),
		BusinessName:   q.BusinessName,
		Industry:       q.Industry,
		PageCount:      q.PageCount,
		Features:       q.Features,
		Timeline:       q.Timeline,
		BudgetBand:     q.BudgetBand,
		FinalPrice:     q.FinalPrice,
		EstimatedHours: q.EstimatedHours,
		ContactName:    q.ContactName,
		ContactEmail:   q.ContactEmail,
		ContactPhone:   q.ContactPhone,
		Requirements:   q.Requirements,
		Notes:          q.Notes,
	}
}

type CustomMilestoneRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Percentage   decimal.Decimal `json:"percentage"`
	DueDate      string          `json:"due_date"`
	Deliverables []string        `json:"deliverables"`
	Dependencies []string        `json:"dependencies"`
}

type ConversionOptionsRequest struct {
	TemplateID           string                   `json:"template_id"`
	PaymentStructure     string                   `json:"payment_structure"`
	CustomMilestones     []CustomMilestoneRequest `json:"custom_milestones"`
	TaxRate              *decimal.Decimal         `json:"tax_rate"`
	PaymentTerms         string                   `json:"payment_terms"`
	IncludeDetailedItems bool                     `json:"include_detailed_items"`
	AutoGenerateInvoices *bool                    `json:"auto_generate_invoices"`
	StartDate            string                   `json:"start_date"`
	Currency             string                   `json:"currency"`
	LateFeePercentage    *decimal.Decimal         `json:"late_fee_percentage"`
}

// ConversionRequest is the body of POST /conversions.
type ConversionRequest struct {
	Quote   QuoteRequest             `json:"quote"`
	Options ConversionOptionsRequest `json:"options"`
}

// ResolveOptions parses dates and structure names into use case options.
func (r ConversionRequest) ResolveOptions() (usecase.ConvertOptions, error) {
	o := r.Options
	opts := usecase.ConvertOptions{
		TemplateID:           strings.TrimSpace(o.TemplateID),
		TaxRate:              o.TaxRate,
		PaymentTerms:         strings.TrimSpace(o.PaymentTerms),
		IncludeDetailedItems: o.IncludeDetailedItems,
		AutoGenerateInvoices: o.AutoGenerateInvoices,
		Currency:             strings.ToUpper(strings.TrimSpace(o.Currency)),
		LateFeePercentage:    o.LateFeePercentage,
	}
	if s := strings.TrimSpace(o.PaymentStructure); s != "" {
		t, err := entities.ParsePaymentStructureType(s)
		if err != nil {
			return usecase.ConvertOptions{}, err
		}
		opts.PaymentStructure = t
	}
	start, err := ParseDate(o.StartDate)
	if err != nil {
		return usecase.ConvertOptions{}, err
	}
	opts.StartDate = start

	for _, m := range o.CustomMilestones {
		due, err := ParseDate(m.DueDate)
		if err != nil {
			return usecase.ConvertOptions{}, err
		}
		opts.CustomMilestones = append(opts.CustomMilestones, usecase.CustomMilestone{
			Name:         m.Name,
			Description:  m.Description,
			Percentage:   m.Percentage,
			DueDate:      due,
			Deliverables: m.Deliverables,
			Dependencies: m.Dependencies,
		})
	}
	return opts, nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339; the empty string yields nil.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			u := t.UTC()
			return &u, nil
		}
	}
	return nil, ErrInvalidDate
}
