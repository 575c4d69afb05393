package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract_billing/internal/domain/entities"
)

func issueCodes(is []Issue) []string {
	out := make([]string, 0, len(is))
	for _, i := range is {
		out = append(out, i.Code)
	}
	return out
}

func TestValidator_ValidateQuote(t *testing.T) {
	v := NewValidator()

	t.Run("valid", func(t *testing.T) {
		r := v.ValidateQuote(testQuote())
		assert.True(t, r.Valid())
		assert.Empty(t, r.Warnings)
	})

	t.Run("schema violations", func(t *testing.T) {
		q := testQuote()
		q.BusinessName = "A"
		q.FinalPrice = decimal.Zero
		q.ContactEmail = "not-an-email"
		q.Timeline = " "
		r := v.ValidateQuote(q)
		assert.False(t, r.Valid())
		assert.Equal(t, "too_short", r.FieldErrors["business_name"])
		assert.Equal(t, "must_be_positive", r.FieldErrors["final_price"])
		assert.Equal(t, "invalid_format", r.FieldErrors["contact_email"])
		assert.Equal(t, "required", r.FieldErrors["timeline"])
	})

	t.Run("hourly rate warning", func(t *testing.T) {
		q := testQuote()
		q.EstimatedHours = dec("20")
		r := v.ValidateQuote(q)
		assert.True(t, r.Valid())
		assert.Equal(t, []string{CodeHourlyRate}, issueCodes(r.Warnings))
	})
}

func TestValidator_ValidateSchedule(t *testing.T) {
	v := NewValidator()
	ms := func(pcts ...string) entities.PaymentSchedule {
		out := entities.PaymentSchedule{}
		for i, p := range pcts {
			out = append(out, entities.PaymentMilestone{
				Number:     i + 1,
				Name:       "m",
				Percentage: dec(p),
				DueDate:    scheduleStart.AddDate(0, 0, i),
				Status:     entities.MilestoneStatusPending,
			})
		}
		return out
	}

	assert.True(t, v.ValidateSchedule(ms("40", "30", "30")).Valid())
	assert.True(t, v.ValidateSchedule(ms("33.3", "33.3", "33.4")).Valid())

	r := v.ValidateSchedule(ms("33.33", "33.33", "33.34"))
	assert.False(t, r.Valid())
	assert.Equal(t, "too_precise", r.FieldErrors["milestones[0].percentage"])
	assert.Equal(t, "too_precise", r.FieldErrors["milestones[2].percentage"])

	r = v.ValidateSchedule(ms("60", "30"))
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "milestone percentages must total 100% (got 90%)", r.Errors[0].Message)

	r = v.ValidateSchedule(entities.PaymentSchedule{})
	assert.Equal(t, []string{CodeScheduleEmpty}, issueCodes(r.Errors))

	s := ms("50", "50")
	s[1].Number = 3
	s[1].DueDate = scheduleStart.AddDate(0, 0, -1)
	r = v.ValidateSchedule(s)
	assert.Equal(t, "not_sequential", r.FieldErrors["milestones[1].number"])
	assert.Equal(t, "out_of_order", r.FieldErrors["milestones[1].due_date"])

	s = ms("99", "1")
	s[0].Amount = dec("990")
	s[1].Amount = dec("10")
	r = v.ValidateSchedule(s)
	assert.True(t, r.Valid())
	assert.Equal(t, []string{CodeMilestoneAmount}, issueCodes(r.Warnings))
}

func TestValidator_ValidateContract(t *testing.T) {
	v := NewValidator()
	plan, err := newTestScheduleGenerator().Generate(ScheduleRequest{
		Price: dec("22500"), Timeline: "6 weeks", Structure: entities.PaymentStructureMilestone, StartDate: scheduleStart,
	})
	require.NoError(t, err)
	b := NewContractBuilder(nil, v, nil, fixedClock(testNow))
	c, _, err := b.Build(ContractRequest{Quote: testQuote(), Plan: plan, Structure: entities.PaymentStructureMilestone})
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.True(t, v.ValidateContract(c).Valid())
		assert.True(t, v.ValidateContractTerms(c).IsValid)
	})

	t.Run("late fee over cap is an error", func(t *testing.T) {
		bad := c.Clone()
		fee := dec("30")
		bad.PaymentStructure.LateFeePercentage = &fee
		r := v.ValidateContract(bad)
		assert.Equal(t, []string{CodeLateFeeCap}, issueCodes(r.Errors))
	})

	t.Run("duration bounds", func(t *testing.T) {
		long := c.Clone()
		long.Project.EndDate = long.Project.StartDate.AddDate(3, 0, 0)
		assert.Contains(t, issueCodes(v.ValidateContract(long).Errors), CodeDurationTooLong)

		short := c.Clone()
		short.Project.EndDate = short.Project.StartDate
		r := v.ValidateContract(short)
		assert.True(t, r.Valid())
		assert.Contains(t, issueCodes(r.Warnings), CodeDurationTooShort)
	})

	t.Run("terms", func(t *testing.T) {
		bad := c.Clone()
		bad.Client.Name = ""
		bad.Project.Title = ""
		bad.TotalAmount = decimal.Zero
		bad.PaymentStructure.Milestones = bad.PaymentStructure.Milestones[:2]
		cv := v.ValidateContractTerms(bad)
		assert.False(t, cv.IsValid)
		assert.Len(t, cv.Errors, 3+1)
	})
}

func TestValidator_ValidateInvoice(t *testing.T) {
	v := NewValidator()

	t.Run("overdue by 40 days warns", func(t *testing.T) {
		inv := testInvoice(testNow.AddDate(0, 0, -70), testNow.AddDate(0, 0, -40), "500")
		inv.Status = entities.InvoiceStatusSent
		r := v.ValidateInvoice(inv, testNow)
		assert.True(t, r.Valid())
		assert.Equal(t, []string{CodeInvoiceOverdue}, issueCodes(r.Warnings))
	})

	t.Run("paid invoice never warns overdue", func(t *testing.T) {
		inv := testInvoice(testNow.AddDate(0, 0, -70), testNow.AddDate(0, 0, -40), "500")
		inv.Status = entities.InvoiceStatusPaid
		assert.Empty(t, v.ValidateInvoice(inv, testNow).Warnings)
	})

	t.Run("large amount warns", func(t *testing.T) {
		inv := testInvoice(testNow, testNow.AddDate(0, 0, 30), "1000000.01")
		assert.Equal(t, []string{CodeInvoiceAmount}, issueCodes(v.ValidateInvoice(inv, testNow).Warnings))
	})

	t.Run("schema", func(t *testing.T) {
		inv := testInvoice(testNow, testNow, "100")
		inv.Client.Name = ""
		inv.Currency = "usd"
		inv.Items[0].Quantity = decimal.Zero
		r := v.ValidateInvoice(inv, testNow)
		assert.Equal(t, "required", r.FieldErrors["client.name"])
		assert.Equal(t, "invalid_format", r.FieldErrors["currency"])
		assert.Equal(t, "must_be_positive", r.FieldErrors["items[0].quantity"])
	})

	t.Run("overpaid", func(t *testing.T) {
		inv := testInvoice(testNow, testNow, "100")
		inv.AmountPaid = dec("100.01")
		assert.Equal(t, []string{CodeOverpaid}, issueCodes(v.ValidateInvoice(inv, testNow).Errors))
	})
}
