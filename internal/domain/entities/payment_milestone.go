package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusCompleted  MilestoneStatus = "completed"
	MilestoneStatusInvoiced   MilestoneStatus = "invoiced"
	MilestoneStatusPaid       MilestoneStatus = "paid"
)

var milestoneStatusOrder = map[MilestoneStatus]int{
	MilestoneStatusPending:    0,
	MilestoneStatusInProgress: 1,
	MilestoneStatusCompleted:  2,
	MilestoneStatusInvoiced:   3,
	MilestoneStatusPaid:       4,
}

func (s MilestoneStatus) IsValid() bool {
	_, ok := milestoneStatusOrder[s]
	return ok
}

// CanAdvanceTo reports whether s -> next moves forward along pending -> ... -> paid.
func (s MilestoneStatus) CanAdvanceTo(next MilestoneStatus) bool {
	from, ok := milestoneStatusOrder[s]
	if !ok {
		return false
	}
	to, ok := milestoneStatusOrder[next]
	if !ok {
		return false
	}
	return to > from
}

// PaymentMilestone is one scheduled portion of a contract's total.
//
// Amount is always Percentage/100 x quote price rounded to the currency minor unit;
// the last milestone of a schedule absorbs the rounding delta.
type PaymentMilestone struct {
	ID           string          `json:"id"`
	Number       int             `json:"number"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Percentage   decimal.Decimal `json:"percentage"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
	Deliverables []string        `json:"deliverables"`
	Dependencies []string        `json:"dependencies,omitempty"`
	Status       MilestoneStatus `json:"status"`
	InvoiceID    string          `json:"invoice_id,omitempty"`
}

// PaymentSchedule is the ordered milestone list produced for one quote.
type PaymentSchedule []PaymentMilestone

func (s PaymentSchedule) TotalPercentage() decimal.Decimal {
	total := decimal.Zero
	for _, m := range s {
		total = total.Add(m.Percentage)
	}
	return total
}

func (s PaymentSchedule) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, m := range s {
		total = total.Add(m.Amount)
	}
	return total
}

// Find returns the milestone with the given 1-based number.
func (s PaymentSchedule) Find(number int) (PaymentMilestone, bool) {
	for _, m := range s {
		if m.Number == number {
			return m, true
		}
	}
	return PaymentMilestone{}, false
}
