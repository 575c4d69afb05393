package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/domain/money"
)

// Business limits checked by the Validator.
var (
	MinHourlyRate        = decimal.NewFromInt(25)
	MaxHourlyRate        = decimal.NewFromInt(500)
	MaxLateFeePercentage = decimal.NewFromInt(25)
	MinMilestoneAmount   = decimal.NewFromInt(100)
	MaxInvoiceAmount     = decimal.NewFromInt(1_000_000)
	PercentageTolerance  = decimal.RequireFromString("0.01")
)

const (
	MaxProjectDuration   = 2 * 365 * 24 * time.Hour
	MinProjectDuration   = 24 * time.Hour
	OverdueWarningDays   = 30
	minBusinessNameChars = 2
)

// Issue codes.
const (
	CodeScheduleEmpty       = "SCHEDULE_EMPTY"
	CodePercentageTotal     = "PERCENTAGE_TOTAL"
	CodeTotalAmount         = "TOTAL_AMOUNT"
	CodeClientName          = "CLIENT_NAME"
	CodeProjectTitle        = "PROJECT_TITLE"
	CodeProjectDescription  = "PROJECT_DESCRIPTION"
	CodeDurationTooLong     = "DURATION_TOO_LONG"
	CodeDurationTooShort    = "DURATION_TOO_SHORT"
	CodeHourlyRate          = "HOURLY_RATE"
	CodeLateFeeCap          = "LATE_FEE_CAP"
	CodeMilestoneAmount     = "MILESTONE_AMOUNT"
	CodeInvoiceAmount       = "INVOICE_AMOUNT"
	CodeInvoiceOverdue      = "INVOICE_OVERDUE"
	CodeOverpaid            = "OVERPAID"
	CodeMilestoneInvoiced   = "MILESTONE_INVOICED"
	CodeUnknownPlaceholder  = "UNKNOWN_PLACEHOLDER"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNonPositivePayment  = "NON_POSITIVE_PAYMENT"
)

// Schema violation codes, in the field -> code style of the form layer.
const (
	violationRequired       = "required"
	violationTooShort       = "too_short"
	violationMustBePositive = "must_be_positive"
	violationOutOfRange     = "out_of_range"
	violationInvalidEnum    = "invalid_value"
	violationInvalidFormat  = "invalid_format"
	violationNotSequential  = "not_sequential"
	violationOutOfOrder     = "out_of_order"
	violationTooPrecise     = "too_precise"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Issue is one business-rule finding. Errors block, warnings only inform.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult keeps schema violations, business errors and warnings apart
// so callers can proceed past warnings.
type ValidationResult struct {
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Errors      []Issue           `json:"errors,omitempty"`
	Warnings    []Issue           `json:"warnings,omitempty"`
}

func (r ValidationResult) Valid() bool {
	return len(r.FieldErrors) == 0 && len(r.Errors) == 0
}

func (r *ValidationResult) field(name, code string) {
	if r.FieldErrors == nil {
		r.FieldErrors = map[string]string{}
	}
	if _, exists := r.FieldErrors[name]; !exists {
		r.FieldErrors[name] = code
	}
}

func (r *ValidationResult) errorf(code, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(code, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) merge(o ValidationResult) {
	for k, v := range o.FieldErrors {
		r.field(k, v)
	}
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// ContractValidation is the business-level verdict used before a contract is committed.
type ContractValidation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Validator runs the schema pass and the business-rule pass for each aggregate.
// It is stateless; the zero value is ready to use.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

func required(r *ValidationResult, field, value string) {
	if strings.TrimSpace(value) == "" {
		r.field(field, violationRequired)
	}
}

func minLength(r *ValidationResult, field, value string, n int) {
	v := strings.TrimSpace(value)
	if v == "" {
		r.field(field, violationRequired)
		return
	}
	if len([]rune(v)) < n {
		r.field(field, violationTooShort)
	}
}

func positive(r *ValidationResult, field string, v decimal.Decimal) {
	if !v.IsPositive() {
		r.field(field, violationMustBePositive)
	}
}

func email(r *ValidationResult, field, value string) {
	if value = strings.TrimSpace(value); value != "" && !emailRegex.MatchString(value) {
		r.field(field, violationInvalidFormat)
	}
}

func currencyCode(r *ValidationResult, field, value string) {
	if len(value) != 3 || strings.ToUpper(value) != value {
		r.field(field, violationInvalidFormat)
	}
}

// ValidateQuote checks the conversion input.
func (v *Validator) ValidateQuote(q entities.Quote) ValidationResult {
	var r ValidationResult
	minLength(&r, "business_name", q.BusinessName, minBusinessNameChars)
	positive(&r, "final_price", q.FinalPrice)
	required(&r, "timeline", q.Timeline)
	email(&r, "contact_email", q.ContactEmail)
	if q.EstimatedHours.IsNegative() {
		r.field("estimated_hours", violationOutOfRange)
	}
	if q.PageCount < 0 {
		r.field("page_count", violationOutOfRange)
	}

	v.checkHourlyRate(&r, q.FinalPrice, q.EstimatedHours)
	return r
}

func (v *Validator) checkHourlyRate(r *ValidationResult, amount, hours decimal.Decimal) {
	if !hours.IsPositive() || !amount.IsPositive() {
		return
	}
	rate := amount.Div(hours).Round(2)
	if rate.LessThan(MinHourlyRate) || rate.GreaterThan(MaxHourlyRate) {
		r.warnf(CodeHourlyRate, "implied hourly rate $%s is outside $%s-$%s", rate.StringFixed(2), MinHourlyRate, MaxHourlyRate)
	}
}

// ValidateSchedule checks milestone structure and that percentages total 100%.
func (v *Validator) ValidateSchedule(s entities.PaymentSchedule) ValidationResult {
	var r ValidationResult
	if len(s) == 0 {
		r.errorf(CodeScheduleEmpty, "payment schedule must contain at least one milestone")
		return r
	}

	for i, m := range s {
		prefix := fmt.Sprintf("milestones[%d].", i)
		if m.Number != i+1 {
			r.field(prefix+"number", violationNotSequential)
		}
		required(&r, prefix+"name", m.Name)
		if !m.Percentage.IsPositive() || m.Percentage.GreaterThan(decimal.NewFromInt(100)) {
			r.field(prefix+"percentage", violationOutOfRange)
		} else if !m.Percentage.Equal(money.RoundPercent(m.Percentage)) {
			r.field(prefix+"percentage", violationTooPrecise)
		}
		if m.Status != "" && !m.Status.IsValid() {
			r.field(prefix+"status", violationInvalidEnum)
		}
		if i > 0 && m.DueDate.Before(s[i-1].DueDate) {
			r.field(prefix+"due_date", violationOutOfOrder)
		}
		if m.Amount.IsPositive() && m.Amount.LessThan(MinMilestoneAmount) {
			r.warnf(CodeMilestoneAmount, "milestone %d amount $%s is under $%s", m.Number, m.Amount.StringFixed(2), MinMilestoneAmount)
		}
	}

	total := s.TotalPercentage()
	if !money.WithinTolerance(total, decimal.NewFromInt(100), PercentageTolerance) {
		r.errorf(CodePercentageTotal, "milestone percentages must total 100%% (got %s%%)", total.String())
	}
	return r
}

// ValidateContractTerms is the business-level gate a contract must pass before it is committed.
func (v *Validator) ValidateContractTerms(c entities.Contract) ContractValidation {
	r := v.contractTerms(c)
	out := ContractValidation{IsValid: len(r.Errors) == 0, Errors: make([]string, 0, len(r.Errors))}
	for _, is := range r.Errors {
		out.Errors = append(out.Errors, is.Message)
	}
	return out
}

func (v *Validator) contractTerms(c entities.Contract) ValidationResult {
	var r ValidationResult
	if strings.TrimSpace(c.Client.Name) == "" {
		r.errorf(CodeClientName, "client name is required")
	}
	if strings.TrimSpace(c.Project.Title) == "" {
		r.errorf(CodeProjectTitle, "project title is required")
	}
	if strings.TrimSpace(c.Project.Description) == "" {
		r.errorf(CodeProjectDescription, "project description is required")
	}
	if !c.TotalAmount.IsPositive() {
		r.errorf(CodeTotalAmount, "total amount must be greater than zero")
	}
	s := c.PaymentStructure.Milestones
	if len(s) == 0 {
		r.errorf(CodeScheduleEmpty, "payment schedule must contain at least one milestone")
	} else if total := s.TotalPercentage(); !money.WithinTolerance(total, decimal.NewFromInt(100), PercentageTolerance) {
		r.errorf(CodePercentageTotal, "milestone percentages must total 100%% (got %s%%)", total.String())
	}
	return r
}

// ValidateContract runs the schema pass plus every contract business rule.
func (v *Validator) ValidateContract(c entities.Contract) ValidationResult {
	var r ValidationResult

	required(&r, "client.name", c.Client.Name)
	email(&r, "client.email", c.Client.Email)
	required(&r, "project.title", c.Project.Title)
	required(&r, "project.description", c.Project.Description)
	currencyCode(&r, "payment_structure.currency", c.PaymentStructure.Currency)
	if !c.PaymentStructure.Type.IsValid() {
		r.field("payment_structure.type", violationInvalidEnum)
	}
	if c.Status != "" && !c.Status.IsValid() {
		r.field("status", violationInvalidEnum)
	}

	terms := v.contractTerms(c)
	r.Errors = append(r.Errors, terms.Errors...)

	if len(c.PaymentStructure.Milestones) > 0 {
		sched := v.ValidateSchedule(c.PaymentStructure.Milestones)
		for k, code := range sched.FieldErrors {
			r.field("payment_structure."+k, code)
		}
		// percentage total and emptiness were already reported by the terms check
		r.Warnings = append(r.Warnings, sched.Warnings...)
	}

	if !c.Project.StartDate.IsZero() && !c.Project.EndDate.IsZero() {
		d := c.Project.EndDate.Sub(c.Project.StartDate)
		switch {
		case d > MaxProjectDuration:
			r.errorf(CodeDurationTooLong, "project duration of %d days exceeds 2 years", int(d.Hours()/24))
		case d < MinProjectDuration:
			r.warnf(CodeDurationTooShort, "project duration is under 1 day")
		}
	}

	v.checkHourlyRate(&r, c.TotalAmount, c.Project.QuoteSnapshot.EstimatedHours)

	if fee := c.PaymentStructure.LateFeePercentage; fee != nil {
		if fee.IsNegative() {
			r.field("payment_structure.late_fee_percentage", violationOutOfRange)
		} else if fee.GreaterThan(MaxLateFeePercentage) {
			r.errorf(CodeLateFeeCap, "late fee of %s%% exceeds the %s%% cap", fee.String(), MaxLateFeePercentage)
		}
	}
	return r
}

// ValidateInvoice checks an invoice before it enters the registry. now drives the overdue warning.
func (v *Validator) ValidateInvoice(inv entities.Invoice, now time.Time) ValidationResult {
	var r ValidationResult

	required(&r, "client.name", inv.Client.Name)
	email(&r, "client.email", inv.Client.Email)
	currencyCode(&r, "currency", inv.Currency)
	if !inv.Type.IsValid() {
		r.field("type", violationInvalidEnum)
	}
	if !inv.Status.IsValid() {
		r.field("status", violationInvalidEnum)
	}
	if inv.IssueDate.IsZero() {
		r.field("issue_date", violationRequired)
	}
	if inv.DueDate.IsZero() {
		r.field("due_date", violationRequired)
	}
	if len(inv.Items) == 0 {
		r.field("items", violationRequired)
	}
	for i, it := range inv.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		required(&r, prefix+"description", it.Description)
		positive(&r, prefix+"quantity", it.Quantity)
		if it.UnitPrice.IsNegative() {
			r.field(prefix+"unit_price", violationOutOfRange)
		}
		if it.Discount.IsNegative() || it.Discount.GreaterThan(decimal.NewFromInt(1)) {
			r.field(prefix+"discount", violationOutOfRange)
		}
		if it.TaxRate.IsNegative() {
			r.field(prefix+"tax_rate", violationOutOfRange)
		}
	}
	positive(&r, "total_amount", inv.TotalAmount)
	if inv.AmountPaid.IsNegative() {
		r.field("amount_paid", violationOutOfRange)
	}

	if inv.AmountPaid.GreaterThan(inv.TotalAmount) {
		r.errorf(CodeOverpaid, "amount paid $%s exceeds invoice total $%s", inv.AmountPaid.StringFixed(2), inv.TotalAmount.StringFixed(2))
	}
	if inv.TotalAmount.GreaterThan(MaxInvoiceAmount) {
		r.warnf(CodeInvoiceAmount, "invoice amount $%s exceeds $%s", inv.TotalAmount.StringFixed(2), MaxInvoiceAmount.StringFixed(2))
	}
	if inv.Status.IsOpen() && !inv.DueDate.IsZero() {
		if days := inv.DaysOverdue(now); days > OverdueWarningDays {
			r.warnf(CodeInvoiceOverdue, "invoice is %d days overdue", days)
		}
	}
	return r
}
