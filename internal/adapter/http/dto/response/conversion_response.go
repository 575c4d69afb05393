package response

import (
	"time"

	"contract_billing/internal/usecase"
)

type ConversionSummaryResponse struct {
	TotalAmount             string    `json:"total_amount"`
	NumberOfInvoices        int       `json:"number_of_invoices"`
	FirstInvoiceAmount      string    `json:"first_invoice_amount"`
	EstimatedCompletionDate time.Time `json:"estimated_completion_date"`
	PreservedQuoteData      bool      `json:"preserved_quote_data"`
}

type ConversionResponse struct {
	Contract        ContractResponse          `json:"contract"`
	Invoices        []InvoiceResponse         `json:"invoices"`
	PaymentSchedule []MilestoneResponse       `json:"payment_schedule"`
	Summary         ConversionSummaryResponse `json:"summary"`
	Warnings        []usecase.Issue           `json:"warnings"`
}

func FromConversion(r usecase.ConversionResult, now time.Time) ConversionResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []usecase.Issue{}
	}
	return ConversionResponse{
		Contract:        FromContract(r.Contract),
		Invoices:        FromInvoices(r.Invoices, now),
		PaymentSchedule: FromMilestones(r.PaymentSchedule),
		Summary: ConversionSummaryResponse{
			TotalAmount:             amount(r.Summary.TotalAmount),
			NumberOfInvoices:        r.Summary.NumberOfInvoices,
			FirstInvoiceAmount:      amount(r.Summary.FirstInvoiceAmount),
			EstimatedCompletionDate: r.Summary.EstimatedCompletionDate,
			PreservedQuoteData:      r.Summary.PreservedQuoteData,
		},
		Warnings: warnings,
	}
}
