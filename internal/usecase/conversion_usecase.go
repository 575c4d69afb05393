package usecase

//go:generate mockgen -source=conversion_usecase.go -destination=../adapter/http/handlers/mocks/conversion_usecase_mock.go -package=mocks

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"contract_billing/internal/domain/entities"
)

// ConvertOptions tunes one quote conversion. Zero values pick the configured defaults.
type ConvertOptions struct {
	TemplateID           string
	PaymentStructure     entities.PaymentStructureType
	CustomMilestones     []CustomMilestone
	TaxRate              *decimal.Decimal
	PaymentTerms         string
	IncludeDetailedItems bool
	// AutoGenerateInvoices defaults to true when nil.
	AutoGenerateInvoices *bool
	StartDate            *time.Time
	Currency             string
	LateFeePercentage    *decimal.Decimal
}

func (o ConvertOptions) autoGenerate() bool {
	return o.AutoGenerateInvoices == nil || *o.AutoGenerateInvoices
}

type ConversionSummary struct {
	TotalAmount             decimal.Decimal `json:"total_amount"`
	NumberOfInvoices        int             `json:"number_of_invoices"`
	FirstInvoiceAmount      decimal.Decimal `json:"first_invoice_amount"`
	EstimatedCompletionDate time.Time       `json:"estimated_completion_date"`
	PreservedQuoteData      bool            `json:"preserved_quote_data"`
}

type ConversionResult struct {
	Contract        entities.Contract        `json:"contract"`
	Invoices        []entities.Invoice       `json:"invoices"`
	PaymentSchedule entities.PaymentSchedule `json:"payment_schedule"`
	Summary         ConversionSummary        `json:"summary"`
	Warnings        []Issue                  `json:"warnings"`
}

// IConversionUseCase turns accepted quotes into contracts and invoices and
// keeps the contract side of the ledger.
type IConversionUseCase interface {
	Convert(ctx context.Context, quote entities.Quote, opts ConvertOptions) (ConversionResult, error)
	GetContract(ctx context.Context, id string) (entities.Contract, error)
	PreviewContract(ctx context.Context, id, locale string) (PopulatedContract, error)
	InvoiceMilestone(ctx context.Context, contractID string, number int, opts InvoiceOptions) (entities.Invoice, []Issue, error)
	UpdateMilestoneStatus(ctx context.Context, contractID string, number int, status entities.MilestoneStatus) (entities.Contract, error)
	CreateAdHocInvoice(ctx context.Context, req AdHocInvoiceRequest) (entities.Invoice, []Issue, error)
	Templates() []ContractTemplate
}

// ConversionDefaults are the configured fallbacks for ConvertOptions.
type ConversionDefaults struct {
	Structure    entities.PaymentStructureType
	Currency     string
	PaymentTerms string
}

type ConversionUseCase struct {
	schedules *ScheduleGenerator
	builder   *ContractBuilder
	invoices  *InvoiceGenerator
	registry  *InvoiceRegistry
	contracts *ContractStore
	validator *Validator
	defaults  ConversionDefaults
	locks     *keyedMutex
	logger    *zap.Logger
}

var _ IConversionUseCase = (*ConversionUseCase)(nil)

func NewConversionUseCase(
	schedules *ScheduleGenerator,
	builder *ContractBuilder,
	invoices *InvoiceGenerator,
	registry *InvoiceRegistry,
	contracts *ContractStore,
	defaults ConversionDefaults,
	logger *zap.Logger,
) *ConversionUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.Structure == "" {
		defaults.Structure = entities.PaymentStructureMilestone
	}
	return &ConversionUseCase{
		schedules: schedules,
		builder:   builder,
		invoices:  invoices,
		registry:  registry,
		contracts: contracts,
		validator: registry.validator,
		defaults:  defaults,
		locks:     newKeyedMutex(),
		logger:    logger,
	}
}

func (u *ConversionUseCase) Templates() []ContractTemplate { return u.builder.Templates() }

// Convert runs quote -> schedule -> contract -> invoices. Either the contract and
// all of its invoices are committed, or nothing is.
func (u *ConversionUseCase) Convert(ctx context.Context, quote entities.Quote, opts ConvertOptions) (ConversionResult, error) {
	var warnings ValidationResult

	quoteResult := u.validator.ValidateQuote(quote)
	if err := errorFromResult(quoteResult); err != nil {
		return ConversionResult{}, err
	}
	warnings.merge(quoteResult)

	structure := opts.PaymentStructure
	if structure == "" {
		structure = u.defaults.Structure
	}
	start := time.Time{}
	if opts.StartDate != nil {
		start = *opts.StartDate
	}
	plan, err := u.schedules.Generate(ScheduleRequest{
		Price:            quote.FinalPrice,
		Timeline:         quote.Timeline,
		Structure:        structure,
		StartDate:        start,
		CustomMilestones: opts.CustomMilestones,
	})
	if err != nil {
		return ConversionResult{}, err
	}

	currency := opts.Currency
	if currency == "" {
		currency = u.defaults.Currency
	}
	contract, contractResult, err := u.builder.Build(ContractRequest{
		Quote:             quote,
		Plan:              plan,
		TemplateID:        opts.TemplateID,
		Structure:         structure,
		Currency:          currency,
		PaymentTerms:      opts.PaymentTerms,
		LateFeePercentage: opts.LateFeePercentage,
	})
	if err != nil {
		return ConversionResult{}, err
	}
	warnings.Warnings = append(warnings.Warnings, contractResult.Warnings...)
	if contract.PaymentStructure.PaymentTerms == "" {
		contract.PaymentStructure.PaymentTerms = u.defaults.PaymentTerms
	}

	var invoices []entities.Invoice
	if opts.autoGenerate() {
		invoices, err = u.invoices.FromContract(contract, InvoiceOptions{
			TaxRate:              opts.TaxRate,
			IncludeDetailedItems: opts.IncludeDetailedItems,
			PaymentTerms:         contract.PaymentStructure.PaymentTerms,
		})
		if err != nil {
			return ConversionResult{}, err
		}
		for _, inv := range invoices {
			if err := errorFromResult(u.validator.ValidateInvoice(inv, u.registry.now())); err != nil {
				return ConversionResult{}, err
			}
		}
	}

	if err := u.contracts.Save(ctx, contract); err != nil {
		return ConversionResult{}, err
	}
	if len(invoices) > 0 {
		created, invoiceResult, err := u.registry.CreateBatch(ctx, invoices)
		if err != nil {
			u.contracts.discard(contract.ID)
			u.logger.Error("conversion rolled back", zap.String("contract_id", contract.ID), zap.Error(err))
			return ConversionResult{}, err
		}
		invoices = created
		warnings.Warnings = append(warnings.Warnings, invoiceResult.Warnings...)
	}

	ApplyLedger(&contract, invoices)
	summary := ConversionSummary{
		TotalAmount:             contract.TotalAmount,
		NumberOfInvoices:        len(invoices),
		FirstInvoiceAmount:      decimal.Zero,
		EstimatedCompletionDate: contract.Project.EndDate,
		PreservedQuoteData:      true,
	}
	if len(invoices) > 0 {
		summary.FirstInvoiceAmount = invoices[0].TotalAmount
	}

	u.logger.Info("quote converted",
		zap.String("quote_id", quote.ID),
		zap.String("contract_id", contract.ID),
		zap.String("contract_number", contract.Number),
		zap.String("structure", string(structure)),
		zap.Int("invoices", len(invoices)),
		zap.Int("warnings", len(warnings.Warnings)))

	return ConversionResult{
		Contract:        contract,
		Invoices:        nonNilInvoices(invoices),
		PaymentSchedule: contract.PaymentStructure.Milestones,
		Summary:         summary,
		Warnings:        nonNilIssues(warnings.Warnings),
	}, nil
}

// GetContract returns the contract with its ledger derived from current invoices.
func (u *ConversionUseCase) GetContract(ctx context.Context, id string) (entities.Contract, error) {
	c, err := u.contracts.Get(ctx, id)
	if err != nil {
		return entities.Contract{}, err
	}
	ApplyLedger(&c, u.registry.List(ctx, InvoiceFilter{ContractID: c.ID}))
	return c, nil
}

func (u *ConversionUseCase) PreviewContract(ctx context.Context, id, locale string) (PopulatedContract, error) {
	c, err := u.GetContract(ctx, id)
	if err != nil {
		return PopulatedContract{}, err
	}
	return u.builder.Preview(c, locale)
}

// InvoiceMilestone issues the invoice of one milestone that has none yet.
func (u *ConversionUseCase) InvoiceMilestone(ctx context.Context, contractID string, number int, opts InvoiceOptions) (entities.Invoice, []Issue, error) {
	c, err := u.contracts.Get(ctx, contractID)
	if err != nil {
		return entities.Invoice{}, nil, err
	}
	unlock := u.locks.Lock(c.ID)
	defer unlock()

	c, err = u.GetContract(ctx, c.ID)
	if err != nil {
		return entities.Invoice{}, nil, err
	}
	if opts.PaymentTerms == "" {
		opts.PaymentTerms = c.PaymentStructure.PaymentTerms
	}
	inv, err := u.invoices.FromMilestone(c, number, opts)
	if err != nil {
		return entities.Invoice{}, nil, err
	}
	created, result, err := u.registry.Create(ctx, inv)
	if err != nil {
		return entities.Invoice{}, result.Warnings, err
	}
	u.logger.Info("milestone invoiced",
		zap.String("contract_id", c.ID),
		zap.Int("milestone", number),
		zap.String("invoice_id", created.ID))
	return created, nonNilIssues(result.Warnings), nil
}

// UpdateMilestoneStatus advances a milestone through the work stages. Invoiced
// and paid are reached through invoices only.
func (u *ConversionUseCase) UpdateMilestoneStatus(ctx context.Context, contractID string, number int, status entities.MilestoneStatus) (entities.Contract, error) {
	if !status.IsValid() {
		return entities.Contract{}, &SchemaError{Fields: map[string]string{"status": violationInvalidEnum}}
	}
	if status == entities.MilestoneStatusInvoiced || status == entities.MilestoneStatusPaid {
		return entities.Contract{}, newStateError("milestone status %s is set by invoicing", status)
	}

	stored, err := u.contracts.Get(ctx, contractID)
	if err != nil {
		return entities.Contract{}, err
	}
	unlock := u.locks.Lock(stored.ID)
	defer unlock()

	stored, err = u.contracts.Get(ctx, stored.ID)
	if err != nil {
		return entities.Contract{}, err
	}
	current, err := u.GetContract(ctx, stored.ID)
	if err != nil {
		return entities.Contract{}, err
	}
	m, ok := current.PaymentStructure.Milestones.Find(number)
	if !ok {
		return entities.Contract{}, &NotFoundError{Kind: "milestone", ID: stored.ID + "#" + strconv.Itoa(number)}
	}
	if m.Status == status {
		return current, nil
	}
	if !m.Status.CanAdvanceTo(status) {
		return entities.Contract{}, newStateError("milestone %d cannot move from %s to %s", number, m.Status, status)
	}

	for i := range stored.PaymentStructure.Milestones {
		if stored.PaymentStructure.Milestones[i].Number == number {
			stored.PaymentStructure.Milestones[i].Status = status
		}
	}
	stored.UpdatedAt = u.registry.now()
	if err := u.contracts.Save(ctx, stored); err != nil {
		return entities.Contract{}, err
	}
	u.logger.Info("milestone status updated",
		zap.String("contract_id", stored.ID),
		zap.Int("milestone", number),
		zap.String("status", string(status)))
	return u.GetContract(ctx, stored.ID)
}

// CreateAdHocInvoice registers a custom invoice, optionally tied to a known contract.
func (u *ConversionUseCase) CreateAdHocInvoice(ctx context.Context, req AdHocInvoiceRequest) (entities.Invoice, []Issue, error) {
	if req.ContractID != "" {
		c, err := u.contracts.Get(ctx, req.ContractID)
		if err != nil {
			return entities.Invoice{}, nil, err
		}
		req.ContractID = c.ID
		if req.QuoteID == "" {
			req.QuoteID = c.QuoteID
		}
		if req.Client.Name == "" {
			req.Client = c.Client
		}
		if req.Currency == "" {
			req.Currency = c.PaymentStructure.Currency
		}
	}
	if req.Currency == "" {
		req.Currency = u.defaults.Currency
	}
	inv, err := u.invoices.AdHoc(req)
	if err != nil {
		return entities.Invoice{}, nil, err
	}
	created, result, err := u.registry.Create(ctx, inv)
	if err != nil {
		return entities.Invoice{}, result.Warnings, err
	}
	return created, nonNilIssues(result.Warnings), nil
}

// ApplyLedger derives milestone invoicing state and contract totals from the
// contract's live invoices. A cancelled invoice frees its milestone again.
func ApplyLedger(c *entities.Contract, invs []entities.Invoice) {
	byMilestone := map[int]entities.Invoice{}
	invoiced := decimal.Zero
	paid := decimal.Zero
	for _, inv := range invs {
		if inv.ContractID != c.ID || inv.Status == entities.InvoiceStatusCancelled {
			continue
		}
		invoiced = invoiced.Add(inv.TotalAmount)
		paid = paid.Add(inv.AmountPaid)
		if inv.Milestone != nil {
			byMilestone[inv.Milestone.Number] = inv
		}
	}

	allPaid := len(c.PaymentStructure.Milestones) > 0
	for i := range c.PaymentStructure.Milestones {
		m := &c.PaymentStructure.Milestones[i]
		inv, ok := byMilestone[m.Number]
		if !ok {
			m.InvoiceID = ""
			if m.Status == entities.MilestoneStatusInvoiced || m.Status == entities.MilestoneStatusPaid {
				m.Status = entities.MilestoneStatusPending
			}
			allPaid = false
			continue
		}
		m.InvoiceID = inv.ID
		if inv.Status == entities.InvoiceStatusPaid {
			m.Status = entities.MilestoneStatusPaid
		} else {
			m.Status = entities.MilestoneStatusInvoiced
			allPaid = false
		}
	}
	c.TotalInvoiced = invoiced
	c.TotalPaid = paid
	if allPaid {
		c.Status = entities.ContractStatusCompleted
	}
}

func nonNilInvoices(in []entities.Invoice) []entities.Invoice {
	if in == nil {
		return []entities.Invoice{}
	}
	return in
}

func nonNilIssues(in []Issue) []Issue {
	if in == nil {
		return []Issue{}
	}
	return in
}
