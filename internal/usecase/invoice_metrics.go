package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
)

// Aging bucket keys, in report order.
const (
	BucketCurrent    = "current"
	Bucket1To30      = "days1to30"
	Bucket31To60     = "days31to60"
	Bucket61To90     = "days61to90"
	BucketOver90     = "over90Days"
	BucketGrandTotal = "grandTotal"
)

var AgingBuckets = []string{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, BucketOver90}

// AgingBucketFor maps days past due to its bucket key.
func AgingBucketFor(daysOverdue int) string {
	switch {
	case daysOverdue <= 0:
		return BucketCurrent
	case daysOverdue <= 30:
		return Bucket1To30
	case daysOverdue <= 60:
		return Bucket31To60
	case daysOverdue <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// AgingReport partitions every open invoice into exactly one bucket. Totals are
// amounts still due, keyed like Buckets plus grandTotal.
type AgingReport struct {
	Buckets map[string][]entities.Invoice `json:"buckets"`
	Totals  map[string]decimal.Decimal    `json:"totals"`
}

// InvoiceMetrics summarizes the portfolio.
type InvoiceMetrics struct {
	TotalAmount        decimal.Decimal `json:"total_amount"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	OutstandingAmount  decimal.Decimal `json:"outstanding_amount"`
	OverdueAmount      decimal.Decimal `json:"overdue_amount"`
	TotalCount         int             `json:"total_count"`
	PaidCount          int             `json:"paid_count"`
	OverdueCount       int             `json:"overdue_count"`
	PaymentRate        decimal.Decimal `json:"payment_rate"`
	AveragePaymentDays decimal.Decimal `json:"average_payment_days"`
}

// BuildAgingReport buckets invoices by today minus due date. Paid and cancelled
// invoices are left out.
func BuildAgingReport(invs []entities.Invoice, now time.Time) AgingReport {
	report := AgingReport{
		Buckets: make(map[string][]entities.Invoice, len(AgingBuckets)),
		Totals:  make(map[string]decimal.Decimal, len(AgingBuckets)+1),
	}
	for _, b := range AgingBuckets {
		report.Buckets[b] = []entities.Invoice{}
		report.Totals[b] = decimal.Zero
	}
	grand := decimal.Zero
	for _, inv := range invs {
		if !inv.Status.IsOpen() {
			continue
		}
		b := AgingBucketFor(entities.DaysBetween(inv.DueDate, now))
		report.Buckets[b] = append(report.Buckets[b], inv)
		report.Totals[b] = report.Totals[b].Add(inv.AmountDue)
		grand = grand.Add(inv.AmountDue)
	}
	for _, b := range AgingBuckets {
		sort.Slice(report.Buckets[b], func(i, j int) bool {
			return report.Buckets[b][i].DueDate.Before(report.Buckets[b][j].DueDate)
		})
	}
	report.Totals[BucketGrandTotal] = grand
	return report
}

// BuildMetrics computes portfolio totals. Cancelled invoices do not count.
// Average payment time uses the paid date when known and falls back to
// due minus issue date for invoices paid without one.
func BuildMetrics(invs []entities.Invoice, now time.Time) InvoiceMetrics {
	m := InvoiceMetrics{
		TotalAmount:        decimal.Zero,
		PaidAmount:         decimal.Zero,
		OutstandingAmount:  decimal.Zero,
		OverdueAmount:      decimal.Zero,
		PaymentRate:        decimal.Zero,
		AveragePaymentDays: decimal.Zero,
	}
	paymentDays := 0
	for _, inv := range invs {
		if inv.Status == entities.InvoiceStatusCancelled {
			continue
		}
		m.TotalCount++
		m.TotalAmount = m.TotalAmount.Add(inv.TotalAmount)
		m.PaidAmount = m.PaidAmount.Add(inv.AmountPaid)
		if inv.Status == entities.InvoiceStatusPaid {
			m.PaidCount++
			if inv.PaidDate != nil {
				paymentDays += entities.DaysBetween(inv.IssueDate, *inv.PaidDate)
			} else {
				paymentDays += entities.DaysBetween(inv.IssueDate, inv.DueDate)
			}
			continue
		}
		m.OutstandingAmount = m.OutstandingAmount.Add(inv.AmountDue)
		if inv.DaysOverdue(now) > 0 {
			m.OverdueCount++
			m.OverdueAmount = m.OverdueAmount.Add(inv.AmountDue)
		}
	}
	if m.TotalCount > 0 {
		m.PaymentRate = decimal.NewFromInt(int64(m.PaidCount)).
			Div(decimal.NewFromInt(int64(m.TotalCount))).Round(4)
	}
	if m.PaidCount > 0 {
		m.AveragePaymentDays = decimal.NewFromInt(int64(paymentDays)).
			Div(decimal.NewFromInt(int64(m.PaidCount))).Round(1)
	}
	return m
}

func (r *InvoiceRegistry) GenerateAgingReport(ctx context.Context) AgingReport {
	return BuildAgingReport(r.List(ctx, InvoiceFilter{}), r.now())
}

func (r *InvoiceRegistry) GetMetrics(ctx context.Context) InvoiceMetrics {
	return BuildMetrics(r.List(ctx, InvoiceFilter{}), r.now())
}
