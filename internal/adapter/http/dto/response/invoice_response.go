package response

import (
	"time"

	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"
)

func amount(d decimal.Decimal) string { return d.StringFixed(2) }

type LineItemResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    string  `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
	Discount    string  `json:"discount"`
	TaxRate     string  `json:"tax_rate"`
	LineTotal   string  `json:"line_total"`
	Category    string  `json:"category,omitempty"`
	Hours       *string `json:"hours,omitempty"`
	Feature     string  `json:"feature,omitempty"`
}

type InvoiceResponse struct {
	ID             string                 `json:"id"`
	Number         string                 `json:"number"`
	ContractID     string                 `json:"contract_id,omitempty"`
	QuoteID        string                 `json:"quote_id,omitempty"`
	Client         entities.ClientInfo    `json:"client"`
	Type           string                 `json:"type"`
	Milestone      *entities.MilestoneRef `json:"milestone,omitempty"`
	Items          []LineItemResponse     `json:"items"`
	Subtotal       string                 `json:"subtotal"`
	DiscountAmount string                 `json:"discount_amount"`
	TaxAmount      string                 `json:"tax_amount"`
	TotalAmount    string                 `json:"total_amount"`
	AmountPaid     string                 `json:"amount_paid"`
	AmountDue      string                 `json:"amount_due"`
	Status         string                 `json:"status"`
	IssueDate      time.Time              `json:"issue_date"`
	DueDate        time.Time              `json:"due_date"`
	PaidDate       *time.Time             `json:"paid_date,omitempty"`
	DaysOverdue    int                    `json:"days_overdue"`
	Currency       string                 `json:"currency"`
	Notes          string                 `json:"notes,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Warnings       []usecase.Issue        `json:"warnings,omitempty"`
}

func FromInvoice(inv entities.Invoice, now time.Time) InvoiceResponse {
	res := InvoiceResponse{
		ID:             inv.ID,
		Number:         inv.Number,
		ContractID:     inv.ContractID,
		QuoteID:        inv.QuoteID,
		Client:         inv.Client,
		Type:           string(inv.Type),
		Milestone:      inv.Milestone,
		Items:          make([]LineItemResponse, 0, len(inv.Items)),
		Subtotal:       amount(inv.Subtotal),
		DiscountAmount: amount(inv.DiscountAmount),
		TaxAmount:      amount(inv.TaxAmount),
		TotalAmount:    amount(inv.TotalAmount),
		AmountPaid:     amount(inv.AmountPaid),
		AmountDue:      amount(inv.AmountDue),
		Status:         string(inv.Status),
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		PaidDate:       inv.PaidDate,
		Currency:       inv.Currency,
		Notes:          inv.Notes,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	if inv.Status.IsOpen() {
		res.DaysOverdue = inv.DaysOverdue(now)
	}
	for _, it := range inv.Items {
		li := LineItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			UnitPrice:   amount(it.UnitPrice),
			Discount:    it.Discount.String(),
			TaxRate:     it.TaxRate.String(),
			LineTotal:   amount(it.LineTotal),
			Category:    string(it.Category),
			Feature:     it.Feature,
		}
		if it.Hours != nil {
			h := it.Hours.String()
			li.Hours = &h
		}
		res.Items = append(res.Items, li)
	}
	return res
}

func FromInvoices(invs []entities.Invoice, now time.Time) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, FromInvoice(inv, now))
	}
	return out
}
