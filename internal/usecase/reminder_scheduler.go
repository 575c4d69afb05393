package usecase

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"contract_billing/internal/domain/entities"
)

// ReminderScheduler derives gentle/firm/final reminders from invoice due dates
// and tracks their dispatch state. Sending is done by an external service which
// reports back through MarkSent / MarkFailed.
type ReminderScheduler struct {
	mu        sync.Mutex
	byInvoice map[string][]entities.PaymentReminder
	logger    *zap.Logger
}

func NewReminderScheduler(logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderScheduler{byInvoice: map[string][]entities.PaymentReminder{}, logger: logger}
}

// Schedule (re)creates the three reminders for an open invoice. Reminders already
// sent or failed are kept; pending ones are replaced. Paid or cancelled invoices
// get nothing new.
func (s *ReminderScheduler) Schedule(inv entities.Invoice) []entities.PaymentReminder {
	if !inv.Status.IsOpen() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := map[entities.ReminderTier]entities.PaymentReminder{}
	for _, r := range s.byInvoice[inv.ID] {
		if r.Status == entities.ReminderStatusSent || r.Status == entities.ReminderStatusFailed {
			kept[r.Tier] = r
		}
	}

	due := entities.StartOfDay(inv.DueDate)
	out := make([]entities.PaymentReminder, 0, len(entities.ReminderTiers))
	for _, tier := range entities.ReminderTiers {
		if r, ok := kept[tier]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, entities.PaymentReminder{
			ID:            entities.ReminderID(inv.ID, tier),
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.Number,
			Tier:          tier,
			ScheduledDate: due.AddDate(0, 0, tier.OffsetDays()),
			Status:        entities.ReminderStatusPending,
		})
	}
	s.byInvoice[inv.ID] = out
	s.logger.Debug("reminders scheduled", zap.String("invoice_id", inv.ID), zap.Int("count", len(out)))
	return append([]entities.PaymentReminder(nil), out...)
}

// CancelPending cancels every pending reminder of the invoice and returns how many were cancelled.
func (s *ReminderScheduler) CancelPending(invoiceID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	rs := s.byInvoice[invoiceID]
	for i := range rs {
		if rs[i].Status == entities.ReminderStatusPending {
			rs[i].Status = entities.ReminderStatusCancelled
			n++
		}
	}
	if n > 0 {
		s.logger.Info("reminders cancelled", zap.String("invoice_id", invoiceID), zap.Int("count", n))
	}
	return n
}

func (s *ReminderScheduler) ForInvoice(invoiceID string) []entities.PaymentReminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.PaymentReminder(nil), s.byInvoice[invoiceID]...)
}

// PendingCount is the number of reminders of the invoice still waiting to go out.
func (s *ReminderScheduler) PendingCount(invoiceID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.byInvoice[invoiceID] {
		if r.Status == entities.ReminderStatusPending {
			n++
		}
	}
	return n
}

// Due lists pending reminders scheduled on or before now, earliest first.
func (s *ReminderScheduler) Due(now time.Time) []entities.PaymentReminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := entities.StartOfDay(now)
	var out []entities.PaymentReminder
	for _, rs := range s.byInvoice {
		for _, r := range rs {
			if r.Status == entities.ReminderStatusPending && !r.ScheduledDate.After(cutoff) {
				out = append(out, r)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledDate.Equal(out[j].ScheduledDate) {
			return out[i].ScheduledDate.Before(out[j].ScheduledDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *ReminderScheduler) MarkSent(reminderID string, at time.Time) (entities.PaymentReminder, error) {
	return s.mark(reminderID, func(r *entities.PaymentReminder) {
		t := at.UTC()
		r.SentDate = &t
		r.Status = entities.ReminderStatusSent
	})
}

func (s *ReminderScheduler) MarkFailed(reminderID string) (entities.PaymentReminder, error) {
	return s.mark(reminderID, func(r *entities.PaymentReminder) {
		r.Status = entities.ReminderStatusFailed
	})
}

func (s *ReminderScheduler) mark(reminderID string, apply func(r *entities.PaymentReminder)) (entities.PaymentReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoiceID, _, ok := splitReminderID(reminderID)
	if !ok {
		return entities.PaymentReminder{}, &NotFoundError{Kind: "reminder", ID: reminderID}
	}
	rs := s.byInvoice[invoiceID]
	for i := range rs {
		if rs[i].ID != reminderID {
			continue
		}
		if rs[i].Status != entities.ReminderStatusPending {
			return entities.PaymentReminder{}, newStateError("reminder %s is %s", reminderID, rs[i].Status)
		}
		apply(&rs[i])
		return rs[i], nil
	}
	return entities.PaymentReminder{}, &NotFoundError{Kind: "reminder", ID: reminderID}
}

func splitReminderID(id string) (string, entities.ReminderTier, bool) {
	i := strings.LastIndex(id, "-")
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], entities.ReminderTier(id[i+1:]), true
}
