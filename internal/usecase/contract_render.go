package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"contract_billing/internal/domain/entities"
)

// Locale drives date and currency formatting of populated templates.
type Locale struct {
	Tag        language.Tag
	DateLayout string
}

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// ResolveLocale parses a BCP 47 tag, falling back to en-US.
func ResolveLocale(raw string) Locale {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil || raw == "" {
		tag = language.AmericanEnglish
	}
	base, _ := tag.Base()
	region, conf := tag.Region()

	layout := "2006-01-02"
	switch base.String() {
	case "en":
		layout = "January 2, 2006"
		if conf == language.Exact && region.String() != "US" {
			layout = "2 January 2006"
		}
	case "de":
		layout = "02.01.2006"
	case "fr", "es", "it", "pt":
		layout = "02/01/2006"
	}
	return Locale{Tag: tag, DateLayout: layout}
}

func (l Locale) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(l.DateLayout)
}

// FormatCurrency renders an amount with the currency symbol and locale digit grouping.
func (l Locale) FormatCurrency(amount decimal.Decimal, currency string) string {
	p := message.NewPrinter(l.Tag)
	digits := p.Sprint(number.Decimal(amount.InexactFloat64(), number.Scale(2)))
	if sym, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return sym + digits
	}
	return strings.ToUpper(currency) + " " + digits
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			lines = append(lines, "- "+it)
		}
	}
	return strings.Join(lines, "\n")
}

// PlaceholderValues builds the typed token table for a contract. Keys whose source
// data is missing map to "" and stay unresolved in the output.
func PlaceholderValues(c entities.Contract, loc Locale) map[PlaceholderKey]string {
	ps := c.PaymentStructure
	schedule := make([]string, 0, len(ps.Milestones))
	for _, m := range ps.Milestones {
		schedule = append(schedule, fmt.Sprintf("%d. %s: %s%% (%s) due %s",
			m.Number, m.Name, m.Percentage.String(), loc.FormatCurrency(m.Amount, ps.Currency), loc.FormatDate(m.DueDate)))
	}
	lateFee := ""
	if ps.LateFeePercentage != nil {
		lateFee = ps.LateFeePercentage.String() + "%"
	}
	total := ""
	if c.TotalAmount.IsPositive() {
		total = loc.FormatCurrency(c.TotalAmount, ps.Currency)
	}

	return map[PlaceholderKey]string{
		PlaceholderContractNumber:     c.Number,
		PlaceholderEffectiveDate:      loc.FormatDate(c.CreatedAt),
		PlaceholderClientName:         c.Client.Name,
		PlaceholderClientCompany:      c.Client.Company,
		PlaceholderClientEmail:        c.Client.Email,
		PlaceholderClientPhone:        c.Client.Phone,
		PlaceholderProjectTitle:       c.Project.Title,
		PlaceholderProjectDescription: c.Project.Description,
		PlaceholderProjectScope:       bulletList(c.Project.Scope),
		PlaceholderDeliverables:       bulletList(c.Project.Deliverables),
		PlaceholderTimeline:           c.Project.Timeline,
		PlaceholderStartDate:          loc.FormatDate(c.Project.StartDate),
		PlaceholderEndDate:            loc.FormatDate(c.Project.EndDate),
		PlaceholderTotalAmount:        total,
		PlaceholderCurrency:           ps.Currency,
		PlaceholderPaymentSchedule:    bulletList(schedule),
		PlaceholderPaymentTerms:       ps.PaymentTerms,
		PlaceholderLateFee:            lateFee,
	}
}

type PopulatedSection struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PopulatedContract is a rendered preview. Unresolved lists the tokens left in
// the text because the contract had no value for them.
type PopulatedContract struct {
	TemplateID string                 `json:"template_id"`
	Locale     string                 `json:"locale"`
	Sections   []PopulatedSection     `json:"sections"`
	LegalTerms []entities.LegalClause `json:"legal_terms"`
	Unresolved []PlaceholderKey       `json:"unresolved"`
}

func (p PopulatedContract) Complete() bool { return len(p.Unresolved) == 0 }

// substitute replaces {{key}} tokens. Unknown keys are an error; known keys without
// a value are left in place verbatim and reported.
func substitute(body string, values map[PlaceholderKey]string) (string, []PlaceholderKey, error) {
	var unknown []string
	var unresolved []PlaceholderKey
	out := placeholderPattern.ReplaceAllStringFunc(body, func(tok string) string {
		key := PlaceholderKey(placeholderPattern.FindStringSubmatch(tok)[1])
		if !key.IsKnown() {
			unknown = append(unknown, string(key))
			return tok
		}
		v := values[key]
		if strings.TrimSpace(v) == "" {
			unresolved = append(unresolved, key)
			return key.Token()
		}
		return v
	})
	if len(unknown) > 0 {
		return "", nil, newBusinessRuleError(CodeUnknownPlaceholder, "unknown placeholders: %s", strings.Join(unknown, ", "))
	}
	return out, unresolved, nil
}

// Populate renders every section of tmpl for contract c.
func Populate(tmpl ContractTemplate, c entities.Contract, loc Locale) (PopulatedContract, error) {
	values := PlaceholderValues(c, loc)
	out := PopulatedContract{
		TemplateID: tmpl.ID,
		Locale:     loc.Tag.String(),
		Sections:   make([]PopulatedSection, 0, len(tmpl.Sections)),
		LegalTerms: append([]entities.LegalClause(nil), c.LegalTerms...),
		Unresolved: []PlaceholderKey{},
	}
	seen := map[PlaceholderKey]bool{}
	for _, s := range tmpl.Sections {
		body, unresolved, err := substitute(s.Body, values)
		if err != nil {
			return PopulatedContract{}, err
		}
		for _, k := range unresolved {
			if !seen[k] {
				seen[k] = true
				out.Unresolved = append(out.Unresolved, k)
			}
		}
		out.Sections = append(out.Sections, PopulatedSection{Key: s.Key, Title: s.Title, Body: body})
	}
	return out, nil
}
