package request

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"
)

type ClientRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Category    string          `json:"category"`
}

// AdHocInvoiceRequest is the body of POST /invoices.
type AdHocInvoiceRequest struct {
	ContractID string            `json:"contract_id"`
	QuoteID    string            `json:"quote_id"`
	Client     ClientRequest     `json:"client"`
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate    *decimal.Decimal  `json:"tax_rate"`
	DueDate    string            `json:"due_date"`
	Currency   string            `json:"currency"`
	Notes      string            `json:"notes"`
}

func (r AdHocInvoiceRequest) ToUseCase() (usecase.AdHocInvoiceRequest, error) {
	due, err := ParseDate(r.DueDate)
	if err != nil {
		return usecase.AdHocInvoiceRequest{}, err
	}
	out := usecase.AdHocInvoiceRequest{
		Client: entities.ClientInfo{
			Name:    strings.TrimSpace(r.Client.Name),
			Company: strings.TrimSpace(r.Client.Company),
			Email:   strings.TrimSpace(r.Client.Email),
			Phone:   strings.TrimSpace(r.Client.Phone),
		},
		ContractID: strings.TrimSpace(r.ContractID),
		QuoteID:    strings.TrimSpace(r.QuoteID),
		TaxRate:    r.TaxRate,
		Currency:   r.Currency,
		Notes:      r.Notes,
	}
	if due != nil {
		out.DueDate = *due
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, usecase.LineItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Category:    entities.LineItemCategory(strings.ToLower(strings.TrimSpace(it.Category))),
		})
	}
	return out, nil
}

// MilestoneInvoiceRequest is the optional body of POST /contracts/:id/milestones/:number/invoices.
type MilestoneInvoiceRequest struct {
	TaxRate              *decimal.Decimal `json:"tax_rate"`
	IncludeDetailedItems bool             `json:"include_detailed_items"`
	PaymentTerms         string           `json:"payment_terms"`
	Notes                string           `json:"notes"`
}

func (r MilestoneInvoiceRequest) ToOptions() usecase.InvoiceOptions {
	return usecase.InvoiceOptions{
		TaxRate:              r.TaxRate,
		IncludeDetailedItems: r.IncludeDetailedItems,
		PaymentTerms:         strings.TrimSpace(r.PaymentTerms),
		Notes:                r.Notes,
	}
}

type MilestoneStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type InvoiceStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	PaidDate string `json:"paid_date"`
}

// Resolve normalizes legacy status names and parses the optional paid date.
func (r InvoiceStatusRequest) Resolve() (entities.InvoiceStatus, *time.Time, error) {
	status, err := entities.ParseInvoiceStatus(r.Status)
	if err != nil {
		return "", nil, err
	}
	paid, err := ParseDate(r.PaidDate)
	if err != nil {
		return "", nil, err
	}
	return status, paid, nil
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt string          `json:"paid_at"`
}
