package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"contract_billing/internal/domain/entities"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRound_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.125", "0.13"},
		{"0.124", "0.12"},
		{"0.005", "0.01"},
		{"2.675", "2.68"},
		{"-0.125", "-0.13"},
		{"10", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, Round(d(tt.in)).Equal(d(tt.want)), "Round(%s) = %s", tt.in, Round(d(tt.in)))
		})
	}
}

func TestCalculate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := Calculate(nil)
		assert.True(t, got.TotalAmount.IsZero())
		assert.True(t, got.Subtotal.IsZero())
	})

	t.Run("discount then tax", func(t *testing.T) {
		items := []entities.LineItem{
			{Quantity: d("2"), UnitPrice: d("100"), Discount: d("0.1"), TaxRate: d("0.0875")},
			{Quantity: d("1"), UnitPrice: d("50"), TaxRate: d("0.0875")},
		}
		got := Calculate(items)
		assert.Equal(t, "250", got.Subtotal.String())
		assert.Equal(t, "20", got.DiscountAmount.String())
		// (180 + 50) * 0.0875 = 20.125 -> 20.13
		assert.Equal(t, "20.13", got.TaxAmount.String())
		assert.Equal(t, "250.13", got.TotalAmount.String())
	})

	t.Run("no float drift on many small lines", func(t *testing.T) {
		items := make([]entities.LineItem, 0, 10)
		for i := 0; i < 10; i++ {
			items = append(items, entities.LineItem{Quantity: d("1"), UnitPrice: d("0.1")})
		}
		got := Calculate(items)
		assert.Equal(t, "1", got.TotalAmount.String())
	})

	t.Run("tax accumulated before rounding", func(t *testing.T) {
		items := []entities.LineItem{
			{Quantity: d("1"), UnitPrice: d("0.05"), TaxRate: d("0.1")},
			{Quantity: d("1"), UnitPrice: d("0.05"), TaxRate: d("0.1")},
			{Quantity: d("1"), UnitPrice: d("0.05"), TaxRate: d("0.1")},
		}
		got := Calculate(items)
		// 3 x 0.005 = 0.015 -> 0.02, not 3 x round(0.005)
		assert.Equal(t, "0.02", got.TaxAmount.String())
		assert.Equal(t, "0.17", got.TotalAmount.String())
	})
}

func TestApplyTotals_Idempotent(t *testing.T) {
	inv := entities.Invoice{
		Items: []entities.LineItem{
			{Quantity: d("3"), UnitPrice: d("333.33"), TaxRate: d("0.0875")},
			{Quantity: d("1"), UnitPrice: d("0.01"), Discount: d("0.5"), TaxRate: d("0.0875")},
		},
		AmountPaid: d("100"),
	}
	ApplyTotals(&inv)
	first := inv.Clone()

	ApplyTotals(&inv)
	assert.True(t, first.Subtotal.Equal(inv.Subtotal))
	assert.True(t, first.TaxAmount.Equal(inv.TaxAmount))
	assert.True(t, first.TotalAmount.Equal(inv.TotalAmount))
	assert.True(t, inv.AmountDue.Equal(inv.TotalAmount.Sub(d("100"))))
	assert.Equal(t, "999.99", inv.Items[0].LineTotal.String())
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, "9000", PercentOf(d("22500"), d("40")).String())
	assert.Equal(t, "6750", PercentOf(d("22500"), d("30")).String())
	assert.Equal(t, "333", PercentOf(d("1000"), d("33.3")).String())
	assert.Equal(t, "33.3", RoundPercent(d("33.333333")).String())
}
