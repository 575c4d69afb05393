package entities

import "time"

type ReminderTier string

const (
	ReminderTierGentle ReminderTier = "gentle"
	ReminderTierFirm   ReminderTier = "firm"
	ReminderTierFinal  ReminderTier = "final"
)

// ReminderTiers lists the tiers in escalation order.
var ReminderTiers = []ReminderTier{ReminderTierGentle, ReminderTierFirm, ReminderTierFinal}

// OffsetDays is the tier's distance from the invoice due date.
func (t ReminderTier) OffsetDays() int {
	switch t {
	case ReminderTierGentle:
		return -3
	case ReminderTierFirm:
		return 7
	case ReminderTierFinal:
		return 30
	}
	return 0
}

type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusSent      ReminderStatus = "sent"
	ReminderStatusFailed    ReminderStatus = "failed"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// PaymentReminder is a scheduled nudge for one invoice at one tier.
type PaymentReminder struct {
	ID            string         `json:"id"`
	InvoiceID     string         `json:"invoice_id"`
	InvoiceNumber string         `json:"invoice_number"`
	Tier          ReminderTier   `json:"tier"`
	ScheduledDate time.Time      `json:"scheduled_date"`
	SentDate      *time.Time     `json:"sent_date,omitempty"`
	Status        ReminderStatus `json:"status"`
}

func ReminderID(invoiceID string, tier ReminderTier) string {
	return invoiceID + "-" + string(tier)
}
