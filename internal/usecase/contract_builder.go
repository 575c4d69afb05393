package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/domain/money"
)

// ContractRequest is everything the builder binds into a contract.
type ContractRequest struct {
	Quote             entities.Quote
	Plan              SchedulePlan
	TemplateID        string
	Structure         entities.PaymentStructureType
	Currency          string
	PaymentTerms      string
	LateFeePercentage *decimal.Decimal
}

// ContractBuilder binds a quote and its schedule into a Contract aggregate.
type ContractBuilder struct {
	catalog   *TemplateCatalog
	validator *Validator
	numberer  *ContractNumberer
	clock     func() time.Time
	newID     func() string
}

func NewContractBuilder(catalog *TemplateCatalog, v *Validator, numberer *ContractNumberer, clock func() time.Time) *ContractBuilder {
	if catalog == nil {
		catalog = DefaultTemplateCatalog()
	}
	if v == nil {
		v = NewValidator()
	}
	if clock == nil {
		clock = time.Now
	}
	if numberer == nil {
		numberer = NewContractNumberer(clock)
	}
	return &ContractBuilder{catalog: catalog, validator: v, numberer: numberer, clock: clock, newID: uuid.NewString}
}

func (b *ContractBuilder) Templates() []ContractTemplate { return b.catalog.List() }

func (b *ContractBuilder) Template(id string) (ContractTemplate, error) { return b.catalog.Get(id) }

// Build returns a draft contract plus its validation result. Nothing is returned
// when the template is unknown or the contract fails validation.
func (b *ContractBuilder) Build(req ContractRequest) (entities.Contract, ValidationResult, error) {
	tmpl, err := b.catalog.Get(req.TemplateID)
	if err != nil {
		return entities.Contract{}, ValidationResult{}, err
	}

	q := req.Quote
	now := b.clock().UTC()

	terms := strings.TrimSpace(req.PaymentTerms)
	if terms == "" {
		terms = tmpl.DefaultPaymentTerms
	}
	lateFee := req.LateFeePercentage
	if lateFee == nil {
		lateFee = tmpl.LateFeePercentage
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	c := entities.Contract{
		ID:         b.newID(),
		Number:     b.numberer.Next(),
		QuoteID:    q.ID,
		TemplateID: tmpl.ID,
		Client:     clientFromQuote(q),
		Project: entities.ProjectDetails{
			Title:         projectTitle(q),
			Description:   projectDescription(q),
			Scope:         projectScope(q),
			Deliverables:  scheduleDeliverables(req.Plan.Milestones),
			Timeline:      q.Timeline,
			StartDate:     req.Plan.StartDate,
			EndDate:       req.Plan.EndDate,
			QuoteSnapshot: snapshotQuote(q),
		},
		PaymentStructure: entities.PaymentStructure{
			Type:              req.Structure,
			Currency:          currency,
			Milestones:        append(entities.PaymentSchedule(nil), req.Plan.Milestones...),
			PaymentTerms:      terms,
			LateFeePercentage: lateFee,
		},
		LegalTerms:    append([]entities.LegalClause(nil), tmpl.LegalTerms...),
		Status:        entities.ContractStatusDraft,
		TotalAmount:   money.Round(q.FinalPrice),
		TotalInvoiced: decimal.Zero,
		TotalPaid:     decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result := b.validator.ValidateContract(c)
	if err := errorFromResult(result); err != nil {
		return entities.Contract{}, result, err
	}
	return c, result, nil
}

// ValidateContract is the business-level check run before a contract is committed.
func (b *ContractBuilder) ValidateContract(c entities.Contract) ContractValidation {
	return b.validator.ValidateContractTerms(c)
}

// Preview populates the contract's template for the given locale.
func (b *ContractBuilder) Preview(c entities.Contract, locale string) (PopulatedContract, error) {
	tmpl, err := b.catalog.Get(c.TemplateID)
	if err != nil {
		return PopulatedContract{}, err
	}
	return Populate(tmpl, c, ResolveLocale(locale))
}

func clientFromQuote(q entities.Quote) entities.ClientInfo {
	name := strings.TrimSpace(q.ContactName)
	if name == "" {
		name = strings.TrimSpace(q.BusinessName)
	}
	return entities.ClientInfo{
		Name:    name,
		Company: strings.TrimSpace(q.BusinessName),
		Email:   strings.TrimSpace(q.ContactEmail),
		Phone:   strings.TrimSpace(q.ContactPhone),
	}
}

func projectTitle(q entities.Quote) string {
	if strings.TrimSpace(q.BusinessName) == "" {
		return ""
	}
	return strings.TrimSpace(q.BusinessName) + " Website Project"
}

func projectDescription(q entities.Quote) string {
	var b strings.Builder
	industry := strings.TrimSpace(q.Industry)
	if industry == "" {
		industry = "business"
	}
	fmt.Fprintf(&b, "Design and development of a %s website for %s", strings.ToLower(industry), strings.TrimSpace(q.BusinessName))
	if n := q.FeatureCount(); n > 0 {
		fmt.Fprintf(&b, " with %d pages/features", n)
	}
	b.WriteString(".")
	if r := strings.TrimSpace(q.Requirements); r != "" {
		b.WriteString(" Requirements: " + r)
	}
	return b.String()
}

func projectScope(q entities.Quote) []string {
	if len(q.Features) > 0 {
		return append([]string(nil), q.Features...)
	}
	scope := []string{"Responsive website design", "Content management setup"}
	if q.PageCount > 0 {
		scope = append(scope, fmt.Sprintf("Up to %d pages", q.PageCount))
	}
	return scope
}

func scheduleDeliverables(s entities.PaymentSchedule) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range s {
		for _, d := range m.Deliverables {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

func snapshotQuote(q entities.Quote) entities.Quote {
	out := q
	out.Features = append([]string(nil), q.Features...)
	return out
}
