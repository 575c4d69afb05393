package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/domain/money"
)

var testNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func testQuote() entities.Quote {
	return entities.Quote{
		ID:             "quote-1",
		BusinessName:   "Acme Bakery",
		Industry:       "food",
		PageCount:      6,
		Features:       []string{"Custom UI design", "Online ordering", "SEO optimization"},
		Timeline:       "6-8 weeks",
		BudgetBand:     "15k-25k",
		FinalPrice:     dec("22500"),
		EstimatedHours: dec("180"),
		ContactName:    "Dana Reyes",
		ContactEmail:   "dana@acme.test",
		ContactPhone:   "+1 555 0100",
		Requirements:   "Ordering and delivery zones",
	}
}

// testInvoice is a valid single-line draft invoice issued at issue and due at due.
func testInvoice(issue, due time.Time, amount string) entities.Invoice {
	inv := entities.Invoice{
		Client: entities.ClientInfo{Name: "Acme Bakery", Email: "billing@acme.test"},
		Type:   entities.InvoiceTypeCustom,
		Items: []entities.LineItem{{
			Description: "Website work",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   dec(amount),
			Discount:    decimal.Zero,
			TaxRate:     decimal.Zero,
		}},
		AmountPaid: decimal.Zero,
		Status:     entities.InvoiceStatusDraft,
		IssueDate:  issue,
		DueDate:    due,
		Currency:   "USD",
	}
	money.ApplyTotals(&inv)
	return inv
}
