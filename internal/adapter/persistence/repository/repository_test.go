package repository

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract_billing/internal/domain/entities"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestInvoiceItem_AttributeValueRoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	paid := issued.AddDate(0, 0, 12)
	hours := dec("12.5")
	inv := entities.Invoice{
		ID:         "inv-1",
		Number:     "INV-2026-0001",
		ContractID: "c-1",
		Client:     entities.ClientInfo{Name: "Dana Reyes", Company: "Acme Bakery", Email: "dana@acme.test"},
		Type:       entities.InvoiceTypeDeposit,
		Milestone:  &entities.MilestoneRef{Number: 1, Count: 3, Percentage: dec("40")},
		Items: []entities.LineItem{{
			ID: "li-1", Description: "Design", Quantity: dec("1"), UnitPrice: dec("4800.00"),
			Discount: decimal.Zero, TaxRate: dec("0.0875"), LineTotal: dec("4800.00"),
			Category: entities.CategoryDesign, Hours: &hours,
		}},
		Subtotal:    dec("4800.00"),
		TaxAmount:   dec("420.00"),
		TotalAmount: dec("5220.00"),
		AmountPaid:  dec("5220.00"),
		AmountDue:   decimal.Zero,
		Status:      entities.InvoiceStatusPaid,
		IssueDate:   issued,
		DueDate:     issued.AddDate(0, 0, 30),
		PaidDate:    &paid,
		Currency:    "USD",
	}

	av, err := attributevalue.MarshalMap(toInvoiceItem(inv))
	require.NoError(t, err)
	var it invoiceItem
	require.NoError(t, attributevalue.UnmarshalMap(av, &it))
	got, err := fromInvoiceItem(it)
	require.NoError(t, err)

	assert.Equal(t, inv.Number, got.Number)
	assert.Equal(t, inv.Client, got.Client)
	assert.Equal(t, entities.InvoiceStatusPaid, got.Status)
	assert.True(t, got.TotalAmount.Equal(inv.TotalAmount))
	assert.True(t, got.IssueDate.Equal(issued))
	require.NotNil(t, got.PaidDate)
	assert.True(t, got.PaidDate.Equal(paid))
	require.NotNil(t, got.Milestone)
	assert.Equal(t, 1, got.Milestone.Number)
	assert.True(t, got.Milestone.Percentage.Equal(dec("40")))
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Hours)
	assert.True(t, got.Items[0].Hours.Equal(hours))
	assert.Equal(t, entities.CategoryDesign, got.Items[0].Category)
}

func TestFromInvoiceItem_LegacyStatus(t *testing.T) {
	inv, err := fromInvoiceItem(invoiceItem{ID: "inv-2", Status: "Canceled"})
	require.NoError(t, err)
	assert.Equal(t, entities.InvoiceStatusCancelled, inv.Status)
	assert.Nil(t, inv.Milestone)
	assert.Nil(t, inv.PaidDate)
	assert.True(t, inv.AmountDue.IsZero())
}

func TestContractItem_DropsLedgerFields(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	fee := dec("1.5")
	c := entities.Contract{
		ID:         "c-1",
		Number:     "CON-2026-000001",
		TemplateID: "standard",
		Project: entities.ProjectDetails{
			Title:         "Acme Bakery Website Project",
			StartDate:     start,
			QuoteSnapshot: entities.Quote{ID: "q-1", BusinessName: "Acme Bakery", FinalPrice: dec("12000"), Features: []string{"SEO setup"}},
		},
		PaymentStructure: entities.PaymentStructure{
			Type:     entities.PaymentStructureMilestone,
			Currency: "USD",
			Milestones: entities.PaymentSchedule{{
				ID: "m-1", Number: 1, Name: "Kickoff", Percentage: dec("40"), Amount: dec("4800.00"),
				DueDate: start, Status: entities.MilestoneStatusInvoiced, InvoiceID: "inv-1",
			}},
			PaymentTerms:      "Net 30",
			LateFeePercentage: &fee,
		},
		LegalTerms:    []entities.LegalClause{{Key: "ownership", Title: "IP", Body: "Transfers on payment."}},
		Status:        entities.ContractStatusDraft,
		TotalAmount:   dec("12000"),
		TotalInvoiced: dec("5220.00"),
		TotalPaid:     dec("5220.00"),
	}

	av, err := attributevalue.MarshalMap(toContractItem(c))
	require.NoError(t, err)
	var it contractItem
	require.NoError(t, attributevalue.UnmarshalMap(av, &it))
	got, err := fromContractItem(it)
	require.NoError(t, err)

	assert.Equal(t, c.Number, got.Number)
	assert.Equal(t, "Acme Bakery", got.Project.QuoteSnapshot.BusinessName)
	assert.Equal(t, []string{"SEO setup"}, got.Project.QuoteSnapshot.Features)
	assert.True(t, got.Project.StartDate.Equal(start))
	require.NotNil(t, got.PaymentStructure.LateFeePercentage)
	assert.True(t, got.PaymentStructure.LateFeePercentage.Equal(fee))
	require.Len(t, got.PaymentStructure.Milestones, 1)
	assert.Empty(t, got.PaymentStructure.Milestones[0].InvoiceID)
	assert.True(t, got.TotalInvoiced.IsZero())
	assert.True(t, got.TotalPaid.IsZero())
	assert.Equal(t, c.LegalTerms, got.LegalTerms)
}

func TestFromItem_CorruptValues(t *testing.T) {
	tests := []struct {
		name    string
		decode  func() error
		wantErr string
	}{
		{
			name: "invoice amount",
			decode: func() error {
				_, err := fromInvoiceItem(invoiceItem{ID: "inv-3", TotalAmount: "12,00"})
				return err
			},
			wantErr: `invoice inv-3: invalid total_amount "12,00"`,
		},
		{
			name: "invoice due date",
			decode: func() error {
				_, err := fromInvoiceItem(invoiceItem{ID: "inv-4", TotalAmount: "10.00", DueDate: "next tuesday"})
				return err
			},
			wantErr: `invoice inv-4: invalid due_date "next tuesday"`,
		},
		{
			name: "contract milestone amount",
			decode: func() error {
				_, err := fromContractItem(contractItem{ID: "c-2", Milestones: []milestoneItem{{Number: 1, Amount: "NaN$"}}})
				return err
			},
			wantErr: `contract c-2: invalid amount "NaN$"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
