package response

import (
	"time"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"
)

type AgingBucketResponse struct {
	Bucket   string            `json:"bucket"`
	Count    int               `json:"count"`
	Total    string            `json:"total"`
	Invoices []InvoiceResponse `json:"invoices"`
}

type AgingReportResponse struct {
	Buckets    []AgingBucketResponse `json:"buckets"`
	GrandTotal string                `json:"grand_total"`
}

// FromAgingReport keeps buckets in aging order.
func FromAgingReport(r usecase.AgingReport, now time.Time) AgingReportResponse {
	res := AgingReportResponse{
		Buckets:    make([]AgingBucketResponse, 0, len(usecase.AgingBuckets)),
		GrandTotal: amount(r.Totals[usecase.BucketGrandTotal]),
	}
	for _, b := range usecase.AgingBuckets {
		invs := r.Buckets[b]
		res.Buckets = append(res.Buckets, AgingBucketResponse{
			Bucket:   b,
			Count:    len(invs),
			Total:    amount(r.Totals[b]),
			Invoices: FromInvoices(invs, now),
		})
	}
	return res
}

type MetricsResponse struct {
	TotalAmount        string `json:"total_amount"`
	PaidAmount         string `json:"paid_amount"`
	OutstandingAmount  string `json:"outstanding_amount"`
	OverdueAmount      string `json:"overdue_amount"`
	TotalCount         int    `json:"total_count"`
	PaidCount          int    `json:"paid_count"`
	OverdueCount       int    `json:"overdue_count"`
	PaymentRate        string `json:"payment_rate"`
	AveragePaymentDays string `json:"average_payment_days"`
}

func FromMetrics(m usecase.InvoiceMetrics) MetricsResponse {
	return MetricsResponse{
		TotalAmount:        amount(m.TotalAmount),
		PaidAmount:         amount(m.PaidAmount),
		OutstandingAmount:  amount(m.OutstandingAmount),
		OverdueAmount:      amount(m.OverdueAmount),
		TotalCount:         m.TotalCount,
		PaidCount:          m.PaidCount,
		OverdueCount:       m.OverdueCount,
		PaymentRate:        m.PaymentRate.String(),
		AveragePaymentDays: m.AveragePaymentDays.String(),
	}
}

type ReminderResponse struct {
	ID            string     `json:"id"`
	InvoiceID     string     `json:"invoice_id"`
	InvoiceNumber string     `json:"invoice_number"`
	Tier          string     `json:"tier"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	SentDate      *time.Time `json:"sent_date,omitempty"`
	Status        string     `json:"status"`
}

func FromReminder(r entities.PaymentReminder) ReminderResponse {
	return ReminderResponse{
		ID:            r.ID,
		InvoiceID:     r.InvoiceID,
		InvoiceNumber: r.InvoiceNumber,
		Tier:          string(r.Tier),
		ScheduledDate: r.ScheduledDate,
		SentDate:      r.SentDate,
		Status:        string(r.Status),
	}
}

func FromReminders(rs []entities.PaymentReminder) []ReminderResponse {
	out := make([]ReminderResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromReminder(r))
	}
	return out
}
