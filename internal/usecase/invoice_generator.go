package usecase

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/domain/money"
)

var (
	DefaultTaxRate   = decimal.RequireFromString("0.0875")
	baseServiceShare = decimal.RequireFromString("0.30")
	featureShare     = decimal.RequireFromString("0.70")
)

// InvoiceOptions tune how milestone invoices are built. A nil TaxRate uses the
// generator default.
type InvoiceOptions struct {
	TaxRate              *decimal.Decimal
	IncludeDetailedItems bool
	PaymentTerms         string
	Notes                string
}

// InvoiceGenerator turns contract milestones into invoices. Numbers are left empty;
// the registry assigns them on create.
type InvoiceGenerator struct {
	taxRate decimal.Decimal
	clock   func() time.Time
	newID   func() string
}

func NewInvoiceGenerator(taxRate decimal.Decimal, clock func() time.Time) *InvoiceGenerator {
	if clock == nil {
		clock = time.Now
	}
	return &InvoiceGenerator{taxRate: taxRate, clock: clock, newID: uuid.NewString}
}

func (g *InvoiceGenerator) rate(opts InvoiceOptions) decimal.Decimal {
	if opts.TaxRate != nil {
		return *opts.TaxRate
	}
	return g.taxRate
}

// ClassifyInvoiceType maps a milestone position to its invoice type.
func ClassifyInvoiceType(m entities.PaymentMilestone, count int) entities.InvoiceType {
	switch {
	case count == 1:
		return entities.InvoiceTypeCustom
	case m.Number == 1 && m.Percentage.GreaterThanOrEqual(decimal.NewFromInt(40)):
		return entities.InvoiceTypeDeposit
	case m.Number == count:
		return entities.InvoiceTypeFinal
	}
	return entities.InvoiceTypeMilestone
}

// CategorizeFeature infers a line item category from feature text.
func CategorizeFeature(feature string) entities.LineItemCategory {
	lower := strings.ToLower(feature)
	words := strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	hasWord := func(ws ...string) bool {
		for _, w := range words {
			for _, target := range ws {
				if w == target {
					return true
				}
			}
		}
		return false
	}
	containsAny := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("design") || hasWord("ui", "ux"):
		return entities.CategoryDesign
	case containsAny("seo", "optimization", "optimisation"):
		return entities.CategorySEO
	case containsAny("content", "cms"):
		return entities.CategoryContent
	case containsAny("maintenance", "support"):
		return entities.CategoryMaintenance
	}
	return entities.CategoryDevelopment
}

// FromContract builds one invoice per milestone. It fails without output if any
// milestone was already invoiced.
func (g *InvoiceGenerator) FromContract(c entities.Contract, opts InvoiceOptions) ([]entities.Invoice, error) {
	ms := c.PaymentStructure.Milestones
	if len(ms) == 0 {
		return nil, newBusinessRuleError(CodeScheduleEmpty, "contract %s has no milestones to invoice", c.Number)
	}
	out := make([]entities.Invoice, 0, len(ms))
	for _, m := range ms {
		inv, err := g.FromMilestone(c, m.Number, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// FromMilestone builds the invoice for one milestone of the contract schedule.
func (g *InvoiceGenerator) FromMilestone(c entities.Contract, number int, opts InvoiceOptions) (entities.Invoice, error) {
	ms := c.PaymentStructure.Milestones
	m, ok := ms.Find(number)
	if !ok {
		return entities.Invoice{}, &NotFoundError{Kind: "milestone", ID: fmt.Sprintf("%s#%d", c.ID, number)}
	}
	if m.InvoiceID != "" || m.Status == entities.MilestoneStatusInvoiced || m.Status == entities.MilestoneStatusPaid {
		return entities.Invoice{}, newStateError("milestone %d of contract %s is already invoiced", number, c.Number)
	}

	rate := g.rate(opts)
	snapshot := c.Project.QuoteSnapshot
	var items []entities.LineItem
	if opts.IncludeDetailedItems && len(snapshot.Features) > 1 {
		items = g.detailedItems(m, snapshot, rate)
	} else {
		items = []entities.LineItem{g.consolidatedItem(c, m, rate)}
	}

	now := g.clock().UTC()
	inv := entities.Invoice{
		ID:         g.newID(),
		ContractID: c.ID,
		QuoteID:    c.QuoteID,
		Client:     c.Client,
		Type:       ClassifyInvoiceType(m, len(ms)),
		Milestone: &entities.MilestoneRef{
			Number:     m.Number,
			Count:      len(ms),
			Percentage: m.Percentage,
		},
		Items:      items,
		AmountPaid: decimal.Zero,
		Status:     entities.InvoiceStatusDraft,
		IssueDate:  now,
		DueDate:    m.DueDate,
		Currency:   c.PaymentStructure.Currency,
		Notes:      milestoneNotes(c, m, len(ms), opts),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	money.ApplyTotals(&inv)
	return inv, nil
}

func milestoneNotes(c entities.Contract, m entities.PaymentMilestone, count int, opts InvoiceOptions) string {
	terms := strings.TrimSpace(opts.PaymentTerms)
	if terms == "" {
		terms = c.PaymentStructure.PaymentTerms
	}
	parts := []string{fmt.Sprintf("Payment %d of %d for contract %s: %s.", m.Number, count, c.Number, m.Name)}
	if terms != "" {
		parts = append(parts, "Payment terms: "+terms+".")
	}
	if n := strings.TrimSpace(opts.Notes); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, " ")
}

func (g *InvoiceGenerator) consolidatedItem(c entities.Contract, m entities.PaymentMilestone, rate decimal.Decimal) entities.LineItem {
	return entities.LineItem{
		ID:          g.newID(),
		Description: fmt.Sprintf("%s (%s%% of %s)", m.Name, m.Percentage.String(), c.Project.Title),
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   m.Amount,
		Discount:    decimal.Zero,
		TaxRate:     rate,
	}
}

// detailedItems splits the milestone into a 30% base service line and per-feature
// lines sharing the remaining 70%. The pool is split in whole cents; leftover cents
// go one each to the first feature lines.
func (g *InvoiceGenerator) detailedItems(m entities.PaymentMilestone, q entities.Quote, rate decimal.Decimal) []entities.LineItem {
	base := money.Round(m.Amount.Mul(baseServiceShare))
	pool := m.Amount.Sub(base)
	n := decimal.NewFromInt(int64(len(q.Features)))
	cents := pool.Shift(2).IntPart()
	eachCents, extraCents := cents/n.IntPart(), cents%n.IntPart()

	var hoursEach *decimal.Decimal
	if q.EstimatedHours.IsPositive() {
		h := q.EstimatedHours.Mul(m.Percentage).Div(decimal.NewFromInt(100)).Mul(featureShare).Div(n).Round(1)
		hoursEach = &h
	}

	items := make([]entities.LineItem, 0, len(q.Features)+1)
	items = append(items, entities.LineItem{
		ID:          g.newID(),
		Description: "Base service: " + m.Name,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   base,
		Discount:    decimal.Zero,
		TaxRate:     rate,
		Category:    entities.CategoryCustom,
	})
	for i, f := range q.Features {
		c := eachCents
		if int64(i) < extraCents {
			c++
		}
		price := decimal.New(c, -2)
		item := entities.LineItem{
			ID:          g.newID(),
			Description: strings.TrimSpace(f),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   price,
			Discount:    decimal.Zero,
			TaxRate:     rate,
			Category:    CategorizeFeature(f),
			Feature:     strings.TrimSpace(f),
		}
		if hoursEach != nil {
			h := *hoursEach
			item.Hours = &h
		}
		items = append(items, item)
	}
	return items
}

// LineItemInput is a caller-described line for ad hoc invoices.
type LineItemInput struct {
	Description string                    `json:"description"`
	Quantity    decimal.Decimal           `json:"quantity"`
	UnitPrice   decimal.Decimal           `json:"unit_price"`
	Discount    decimal.Decimal           `json:"discount"`
	Category    entities.LineItemCategory `json:"category"`
}

// AdHocInvoiceRequest describes an invoice not tied to any milestone.
type AdHocInvoiceRequest struct {
	Client     entities.ClientInfo
	ContractID string
	QuoteID    string
	Items      []LineItemInput
	TaxRate    *decimal.Decimal
	DueDate    time.Time
	Currency   string
	Notes      string
}

// AdHoc builds a custom invoice from caller line items.
func (g *InvoiceGenerator) AdHoc(req AdHocInvoiceRequest) (entities.Invoice, error) {
	if len(req.Items) == 0 {
		return entities.Invoice{}, &SchemaError{Fields: map[string]string{"items": violationRequired}}
	}
	rate := g.taxRate
	if req.TaxRate != nil {
		rate = *req.TaxRate
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	now := g.clock().UTC()
	due := req.DueDate
	if due.IsZero() {
		due = entities.StartOfDay(now).AddDate(0, 0, 30)
	}

	items := make([]entities.LineItem, 0, len(req.Items))
	for _, in := range req.Items {
		qty := in.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		items = append(items, entities.LineItem{
			ID:          g.newID(),
			Description: strings.TrimSpace(in.Description),
			Quantity:    qty,
			UnitPrice:   in.UnitPrice,
			Discount:    in.Discount,
			TaxRate:     rate,
			Category:    in.Category,
		})
	}

	inv := entities.Invoice{
		ID:         g.newID(),
		ContractID: req.ContractID,
		QuoteID:    req.QuoteID,
		Client:     req.Client,
		Type:       entities.InvoiceTypeCustom,
		Items:      items,
		AmountPaid: decimal.Zero,
		Status:     entities.InvoiceStatusDraft,
		IssueDate:  now,
		DueDate:    due,
		Currency:   currency,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	money.ApplyTotals(&inv)
	return inv, nil
}
