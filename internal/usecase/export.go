package usecase

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"contract_billing/internal/domain/entities"
)

var invoiceCSVHeader = []string{"Invoice Number", "Client Name", "Issue Date", "Due Date", "Amount", "Status", "Days Overdue"}

const csvDateLayout = "1/2/2006"

// WriteInvoicesCSV writes one quoted row per invoice. Days overdue never goes below zero.
func WriteInvoicesCSV(w io.Writer, invs []entities.Invoice, now time.Time) error {
	if err := writeQuotedRow(w, invoiceCSVHeader); err != nil {
		return err
	}
	for _, inv := range invs {
		row := []string{
			inv.Number,
			inv.Client.Name,
			inv.IssueDate.UTC().Format(csvDateLayout),
			inv.DueDate.UTC().Format(csvDateLayout),
			inv.TotalAmount.StringFixed(2),
			string(inv.Status),
			strconv.Itoa(inv.DaysOverdue(now)),
		}
		if err := writeQuotedRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// writeQuotedRow quotes every field, unlike encoding/csv which only quotes when needed.
func writeQuotedRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}

const agingSummarySheet = "Summary"

var agingSheetTitles = map[string]string{
	BucketCurrent: "Current",
	Bucket1To30:   "1-30 Days",
	Bucket31To60:  "31-60 Days",
	Bucket61To90:  "61-90 Days",
	BucketOver90:  "90+ Days",
}

var agingInvoiceHeader = []string{"Invoice Number", "Client Name", "Issue Date", "Due Date", "Total", "Amount Due", "Status", "Days Overdue"}

// WriteAgingXLSX renders the report as a workbook: a summary sheet followed by one sheet per bucket.
func WriteAgingXLSX(w io.Writer, report AgingReport, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", agingSummarySheet); err != nil {
		return err
	}
	if err := setRow(f, agingSummarySheet, 1, []any{"Bucket", "Invoices", "Amount Due"}); err != nil {
		return err
	}
	for i, b := range AgingBuckets {
		total, _ := report.Totals[b].Float64()
		if err := setRow(f, agingSummarySheet, i+2, []any{agingSheetTitles[b], len(report.Buckets[b]), total}); err != nil {
			return err
		}
	}
	grand, _ := report.Totals[BucketGrandTotal].Float64()
	if err := setRow(f, agingSummarySheet, len(AgingBuckets)+2, []any{"Total", "", grand}); err != nil {
		return err
	}

	for _, b := range AgingBuckets {
		sheet := agingSheetTitles[b]
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := setRow(f, sheet, 1, toAny(agingInvoiceHeader)); err != nil {
			return err
		}
		for i, inv := range report.Buckets[b] {
			total, _ := inv.TotalAmount.Float64()
			due, _ := inv.AmountDue.Float64()
			row := []any{
				inv.Number,
				inv.Client.Name,
				inv.IssueDate.UTC().Format("2006-01-02"),
				inv.DueDate.UTC().Format("2006-01-02"),
				total,
				due,
				string(inv.Status),
				inv.DaysOverdue(now),
			}
			if err := setRow(f, sheet, i+2, row); err != nil {
				return err
			}
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
