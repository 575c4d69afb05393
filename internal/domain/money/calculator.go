// Package money holds the monetary calculator used for every invoice total.
//
// Rounding: amounts are rounded to the currency minor unit (2 places) with
// round-half-away-from-zero (decimal.Round), i.e. 0.125 -> 0.13 and -0.125 -> -0.13.
package money

import (
	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
)

// Scale is the number of decimal places kept for currency amounts.
const Scale int32 = 2

// PercentScale is the precision kept for milestone percentages.
const PercentScale int32 = 1

var hundred = decimal.NewFromInt(100)

// Totals is the calculator output. Each field is rounded independently.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// Round rounds to the currency minor unit.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(Scale)
}

// LineTotal is quantity x unit price, rounded.
func LineTotal(item entities.LineItem) decimal.Decimal {
	return Round(item.Quantity.Mul(item.UnitPrice))
}

// Calculate accumulates exact per-line values and rounds once per output field.
// The total is derived from the already rounded fields so it always reconciles:
// Total = round(Subtotal - DiscountAmount + TaxAmount).
func Calculate(items []entities.LineItem) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero

	for _, it := range items {
		line := it.Quantity.Mul(it.UnitPrice)
		itemDiscount := line.Mul(it.Discount)
		discounted := line.Sub(itemDiscount)
		itemTax := discounted.Mul(it.TaxRate)

		subtotal = subtotal.Add(line)
		discount = discount.Add(itemDiscount)
		tax = tax.Add(itemTax)
	}

	t := Totals{
		Subtotal:       Round(subtotal),
		DiscountAmount: Round(discount),
		TaxAmount:      Round(tax),
	}
	t.TotalAmount = Round(t.Subtotal.Sub(t.DiscountAmount).Add(t.TaxAmount))
	return t
}

// ApplyTotals recomputes the line totals and the invoice totals from inv.Items.
// AmountDue is kept consistent with AmountPaid.
func ApplyTotals(inv *entities.Invoice) {
	for i := range inv.Items {
		inv.Items[i].LineTotal = LineTotal(inv.Items[i])
	}
	t := Calculate(inv.Items)
	inv.Subtotal = t.Subtotal
	inv.DiscountAmount = t.DiscountAmount
	inv.TaxAmount = t.TaxAmount
	inv.TotalAmount = t.TotalAmount
	inv.AmountDue = Round(inv.TotalAmount.Sub(inv.AmountPaid))
}

// PercentOf returns pct% of amount, rounded to the minor unit.
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(pct).Div(hundred))
}

// RoundPercent rounds a percentage to one decimal place.
func RoundPercent(pct decimal.Decimal) decimal.Decimal {
	return pct.Round(PercentScale)
}

// WithinTolerance reports |a-b| <= tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// Cent is the smallest currency unit, also used as the reconciliation tolerance.
var Cent = decimal.New(1, -Scale)
