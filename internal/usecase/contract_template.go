package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
)

// PlaceholderKey names a token a template section may reference as {{key}}.
type PlaceholderKey string

const (
	PlaceholderContractNumber     PlaceholderKey = "contract_number"
	PlaceholderEffectiveDate      PlaceholderKey = "effective_date"
	PlaceholderClientName         PlaceholderKey = "client_name"
	PlaceholderClientCompany      PlaceholderKey = "client_company"
	PlaceholderClientEmail        PlaceholderKey = "client_email"
	PlaceholderClientPhone        PlaceholderKey = "client_phone"
	PlaceholderProjectTitle       PlaceholderKey = "project_title"
	PlaceholderProjectDescription PlaceholderKey = "project_description"
	PlaceholderProjectScope       PlaceholderKey = "project_scope"
	PlaceholderDeliverables       PlaceholderKey = "deliverables"
	PlaceholderTimeline           PlaceholderKey = "timeline"
	PlaceholderStartDate          PlaceholderKey = "start_date"
	PlaceholderEndDate            PlaceholderKey = "end_date"
	PlaceholderTotalAmount        PlaceholderKey = "total_amount"
	PlaceholderCurrency           PlaceholderKey = "currency"
	PlaceholderPaymentSchedule    PlaceholderKey = "payment_schedule"
	PlaceholderPaymentTerms       PlaceholderKey = "payment_terms"
	PlaceholderLateFee            PlaceholderKey = "late_fee"
)

var knownPlaceholders = map[PlaceholderKey]struct{}{
	PlaceholderContractNumber: {}, PlaceholderEffectiveDate: {}, PlaceholderClientName: {},
	PlaceholderClientCompany: {}, PlaceholderClientEmail: {}, PlaceholderClientPhone: {},
	PlaceholderProjectTitle: {}, PlaceholderProjectDescription: {}, PlaceholderProjectScope: {},
	PlaceholderDeliverables: {}, PlaceholderTimeline: {}, PlaceholderStartDate: {},
	PlaceholderEndDate: {}, PlaceholderTotalAmount: {}, PlaceholderCurrency: {},
	PlaceholderPaymentSchedule: {}, PlaceholderPaymentTerms: {}, PlaceholderLateFee: {},
}

func (k PlaceholderKey) IsKnown() bool {
	_, ok := knownPlaceholders[k]
	return ok
}

func (k PlaceholderKey) Token() string { return "{{" + string(k) + "}}" }

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

type TemplateSection struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ContractTemplate is the textual skeleton a contract is rendered from.
type ContractTemplate struct {
	ID                  string                 `json:"id"`
	Name                string                 `json:"name"`
	Description         string                 `json:"description"`
	Sections            []TemplateSection      `json:"sections"`
	LegalTerms          []entities.LegalClause `json:"legal_terms"`
	DefaultPaymentTerms string                 `json:"default_payment_terms"`
	LateFeePercentage   *decimal.Decimal       `json:"late_fee_percentage,omitempty"`
}

// Placeholders lists the distinct keys referenced by the template sections.
func (t ContractTemplate) Placeholders() []PlaceholderKey {
	seen := map[PlaceholderKey]struct{}{}
	for _, s := range t.Sections {
		for _, m := range placeholderPattern.FindAllStringSubmatch(s.Body, -1) {
			seen[PlaceholderKey(m[1])] = struct{}{}
		}
	}
	out := make([]PlaceholderKey, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t ContractTemplate) unknownPlaceholders() []string {
	var unknown []string
	for _, k := range t.Placeholders() {
		if !k.IsKnown() {
			unknown = append(unknown, string(k))
		}
	}
	return unknown
}

// TemplateCatalog holds the templates a contract can be built from.
type TemplateCatalog struct {
	templates map[string]ContractTemplate
	order     []string
	defaultID string
}

// NewTemplateCatalog registers templates; the first one is the default.
// A template referencing an unknown placeholder is rejected.
func NewTemplateCatalog(templates ...ContractTemplate) (*TemplateCatalog, error) {
	if len(templates) == 0 {
		return nil, &SchemaError{Fields: map[string]string{"templates": violationRequired}}
	}
	c := &TemplateCatalog{templates: make(map[string]ContractTemplate, len(templates))}
	for _, t := range templates {
		if strings.TrimSpace(t.ID) == "" {
			return nil, &SchemaError{Fields: map[string]string{"template.id": violationRequired}}
		}
		if unknown := t.unknownPlaceholders(); len(unknown) > 0 {
			return nil, newBusinessRuleError(CodeUnknownPlaceholder, "template %s references unknown placeholders: %s", t.ID, strings.Join(unknown, ", "))
		}
		if _, dup := c.templates[t.ID]; !dup {
			c.order = append(c.order, t.ID)
		}
		c.templates[t.ID] = t
	}
	c.defaultID = c.order[0]
	return c, nil
}

// Get resolves a template id; the empty id selects the default template.
func (c *TemplateCatalog) Get(id string) (ContractTemplate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = c.defaultID
	}
	t, ok := c.templates[id]
	if !ok {
		return ContractTemplate{}, &NotFoundError{Kind: "template", ID: id}
	}
	return t, nil
}

func (c *TemplateCatalog) DefaultID() string { return c.defaultID }

func (c *TemplateCatalog) List() []ContractTemplate {
	out := make([]ContractTemplate, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}

func feePtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

var standardLegalTerms = []entities.LegalClause{
	{Key: "ownership", Title: "Intellectual Property", Body: "Upon receipt of full payment, all rights to the final deliverables transfer to the Client. The Developer retains rights to pre-existing tools and libraries."},
	{Key: "revisions", Title: "Revisions", Body: "The project includes two rounds of revisions per milestone. Additional revisions are billed at the Developer's standard hourly rate."},
	{Key: "termination", Title: "Termination", Body: "Either party may terminate this agreement with 14 days written notice. Work completed up to the termination date is payable in full."},
	{Key: "confidentiality", Title: "Confidentiality", Body: "Both parties agree to keep confidential any proprietary information disclosed during the project."},
	{Key: "liability", Title: "Limitation of Liability", Body: "The Developer's liability is limited to the total amount paid under this agreement."},
}

// DefaultTemplates returns the built-in templates; "standard" is the default.
func DefaultTemplates() []ContractTemplate {
	return []ContractTemplate{
		{
			ID:          "standard",
			Name:        "Standard Web Development Agreement",
			Description: "Milestone-based website project",
			Sections: []TemplateSection{
				{Key: "parties", Title: "Parties", Body: "This agreement {{contract_number}}, effective {{effective_date}}, is made between the Developer and {{client_name}} of {{client_company}} ({{client_email}})."},
				{Key: "project", Title: "Project", Body: "Project: {{project_title}}\n\n{{project_description}}\n\nScope:\n{{project_scope}}"},
				{Key: "deliverables", Title: "Deliverables", Body: "{{deliverables}}"},
				{Key: "timeline", Title: "Timeline", Body: "Estimated timeline: {{timeline}}. Work starts {{start_date}} and is expected to complete by {{end_date}}."},
				{Key: "payment", Title: "Payment", Body: "Total project fee: {{total_amount}} ({{currency}}).\n\n{{payment_schedule}}\n\nPayment terms: {{payment_terms}}. Late payments incur a fee of {{late_fee}} per month."},
			},
			LegalTerms:          standardLegalTerms,
			DefaultPaymentTerms: "Net 30",
			LateFeePercentage:   feePtr("1.5"),
		},
		{
			ID:          "retainer",
			Name:        "Monthly Retainer Agreement",
			Description: "Ongoing work billed in monthly installments",
			Sections: []TemplateSection{
				{Key: "parties", Title: "Parties", Body: "Retainer agreement {{contract_number}} between the Developer and {{client_name}} ({{client_company}}), effective {{effective_date}}."},
				{Key: "services", Title: "Services", Body: "{{project_description}}\n\nIncluded services:\n{{project_scope}}"},
				{Key: "payment", Title: "Fees", Body: "Retainer total: {{total_amount}}, billed as follows:\n{{payment_schedule}}\n\nInvoices are due {{payment_terms}}."},
			},
			LegalTerms:          standardLegalTerms,
			DefaultPaymentTerms: "Net 15",
			LateFeePercentage:   feePtr("2"),
		},
		{
			ID:          "fixed-scope",
			Name:        "Fixed Scope Project Agreement",
			Description: "Small fixed-price projects paid up front or on delivery",
			Sections: []TemplateSection{
				{Key: "parties", Title: "Parties", Body: "Agreement {{contract_number}} between the Developer and {{client_name}}."},
				{Key: "scope", Title: "Scope", Body: "{{project_title}}\n{{deliverables}}"},
				{Key: "payment", Title: "Payment", Body: "Fixed fee of {{total_amount}}.\n{{payment_schedule}}\nTerms: {{payment_terms}}."},
			},
			LegalTerms:          standardLegalTerms[:3],
			DefaultPaymentTerms: "Due on receipt",
		},
	}
}

// DefaultTemplateCatalog wraps DefaultTemplates; the built-ins are known to be valid.
func DefaultTemplateCatalog() *TemplateCatalog {
	c, err := NewTemplateCatalog(DefaultTemplates()...)
	if err != nil {
		panic(fmt.Sprintf("built-in contract templates are invalid: %v", err))
	}
	return c
}
