package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusViewed    InvoiceStatus = "viewed"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// legacyInvoiceStatuses maps the capitalized status set older clients still send.
var legacyInvoiceStatuses = map[string]InvoiceStatus{
	"pending":  InvoiceStatusSent,
	"canceled": InvoiceStatusCancelled,
}

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// IsTerminal is true for statuses no transition leaves.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// IsOpen is true while money is still expected on the invoice.
func (s InvoiceStatus) IsOpen() bool {
	return s.IsValid() && !s.IsTerminal()
}

// ParseInvoiceStatus normalizes case and the legacy aliases ("Pending", "Canceled").
func ParseInvoiceStatus(raw string) (InvoiceStatus, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := legacyInvoiceStatuses[v]; ok {
		return alias, nil
	}
	s := InvoiceStatus(v)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown invoice status %q", raw)
	}
	return s, nil
}

type InvoiceType string

const (
	InvoiceTypeDeposit   InvoiceType = "deposit"
	InvoiceTypeMilestone InvoiceType = "milestone"
	InvoiceTypeFinal     InvoiceType = "final"
	InvoiceTypeProgress  InvoiceType = "progress"
	InvoiceTypeCustom    InvoiceType = "custom"
)

func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeDeposit, InvoiceTypeMilestone, InvoiceTypeFinal, InvoiceTypeProgress, InvoiceTypeCustom:
		return true
	}
	return false
}

// IsScheduled is true for types that bill a slice of the contract total.
func (t InvoiceType) IsScheduled() bool {
	return t == InvoiceTypeDeposit || t == InvoiceTypeMilestone || t == InvoiceTypeFinal
}

type LineItemCategory string

const (
	CategoryDesign      LineItemCategory = "design"
	CategoryDevelopment LineItemCategory = "development"
	CategoryContent     LineItemCategory = "content"
	CategorySEO         LineItemCategory = "seo"
	CategoryMaintenance LineItemCategory = "maintenance"
	CategoryCustom      LineItemCategory = "custom"
)

// LineItem is one billable row. Discount and TaxRate are fractions (0.0875 = 8.75%).
type LineItem struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Discount    decimal.Decimal  `json:"discount"`
	TaxRate     decimal.Decimal  `json:"tax_rate"`
	LineTotal   decimal.Decimal  `json:"line_total"`
	Category    LineItemCategory `json:"category,omitempty"`
	Hours       *decimal.Decimal `json:"hours,omitempty"`
	Feature     string           `json:"feature,omitempty"`
}

// MilestoneRef ties an invoice back to one milestone of its contract schedule.
type MilestoneRef struct {
	Number     int             `json:"number"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Invoice is a billable document derived from one milestone, or ad hoc.
type Invoice struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	ContractID     string          `json:"contract_id,omitempty"`
	QuoteID        string          `json:"quote_id,omitempty"`
	Client         ClientInfo      `json:"client"`
	Type           InvoiceType     `json:"type"`
	Milestone      *MilestoneRef   `json:"milestone,omitempty"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	AmountDue      decimal.Decimal `json:"amount_due"`
	Status         InvoiceStatus   `json:"status"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        time.Time       `json:"due_date"`
	PaidDate       *time.Time      `json:"paid_date,omitempty"`
	Currency       string          `json:"currency"`
	Notes          string          `json:"notes,omitempty"`
	InternalNotes  string          `json:"internal_notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DaysOverdue counts whole calendar days between the due date and now, floored at zero.
func (i Invoice) DaysOverdue(now time.Time) int {
	d := DaysBetween(i.DueDate, now)
	if d < 0 {
		return 0
	}
	return d
}

// Clone returns a copy that shares no slices or pointers with i.
func (i Invoice) Clone() Invoice {
	out := i
	out.Items = append([]LineItem(nil), i.Items...)
	if i.Milestone != nil {
		m := *i.Milestone
		out.Milestone = &m
	}
	if i.PaidDate != nil {
		p := *i.PaidDate
		out.PaidDate = &p
	}
	return out
}

// DaysBetween returns the calendar-day difference to - from, both taken in UTC.
func DaysBetween(from, to time.Time) int {
	f := StartOfDay(from)
	t := StartOfDay(to)
	return int(t.Sub(f).Hours() / 24)
}

func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
