package usecase

//go:generate mockgen -source=invoice_registry.go -destination=../adapter/http/handlers/mocks/invoice_registry_mock.go -package=mocks

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/domain/money"
	"contract_billing/internal/usecase/interfaces"
)

// invoiceTransitions lists the statuses each status may move to.
var invoiceTransitions = map[entities.InvoiceStatus][]entities.InvoiceStatus{
	entities.InvoiceStatusDraft:   {entities.InvoiceStatusSent, entities.InvoiceStatusViewed, entities.InvoiceStatusPaid, entities.InvoiceStatusCancelled},
	entities.InvoiceStatusSent:    {entities.InvoiceStatusViewed, entities.InvoiceStatusPaid, entities.InvoiceStatusOverdue, entities.InvoiceStatusCancelled},
	entities.InvoiceStatusViewed:  {entities.InvoiceStatusPaid, entities.InvoiceStatusOverdue, entities.InvoiceStatusCancelled},
	entities.InvoiceStatusOverdue: {entities.InvoiceStatusPaid, entities.InvoiceStatusCancelled},
}

func canTransition(from, to entities.InvoiceStatus) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InvoiceFilter narrows List. Zero fields match everything.
type InvoiceFilter struct {
	Status     entities.InvoiceStatus
	ContractID string
	Client     string
}

func (f InvoiceFilter) match(inv entities.Invoice) bool {
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	if f.ContractID != "" && inv.ContractID != f.ContractID {
		return false
	}
	if f.Client != "" && !strings.Contains(strings.ToLower(inv.Client.Name), strings.ToLower(f.Client)) {
		return false
	}
	return true
}

// IInvoiceRegistry is the invoice store consumed by the HTTP layer and the conversion use case.
type IInvoiceRegistry interface {
	Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, ValidationResult, error)
	CreateBatch(ctx context.Context, invs []entities.Invoice) ([]entities.Invoice, ValidationResult, error)
	Get(ctx context.Context, id string) (entities.Invoice, error)
	List(ctx context.Context, f InvoiceFilter) []entities.Invoice
	UpdateStatus(ctx context.Context, id string, status entities.InvoiceStatus, paidDate *time.Time) (entities.Invoice, error)
	RecordPayment(ctx context.Context, id string, amount decimal.Decimal, at time.Time) (entities.Invoice, error)
	RefreshOverdue(ctx context.Context) ([]entities.Invoice, error)
	GetOverdue(ctx context.Context) []entities.Invoice
	GenerateAgingReport(ctx context.Context) AgingReport
	GetMetrics(ctx context.Context) InvoiceMetrics
	Reminders() *ReminderScheduler
}

// InvoiceRegistry is the in-memory invoice store. Writes to the same invoice id are
// serialized; writes to different ids only share the short map critical section.
// Creation is serialized as a whole because it allocates the yearly sequence.
type InvoiceRegistry struct {
	mu        sync.RWMutex
	invoices  map[string]entities.Invoice
	byNumber  map[string]string
	sequences map[int]int

	createMu  sync.Mutex
	locks     *keyedMutex
	numbering NumberingConfig
	validator *Validator
	reminders *ReminderScheduler
	repo      interfaces.IInvoiceRepository
	clock     func() time.Time
	logger    *zap.Logger
}

var _ IInvoiceRegistry = (*InvoiceRegistry)(nil)

type RegistryOption func(*InvoiceRegistry)

// WithInvoiceMirror writes every committed invoice through repo.
func WithInvoiceMirror(repo interfaces.IInvoiceRepository) RegistryOption {
	return func(r *InvoiceRegistry) { r.repo = repo }
}

func WithRegistryClock(clock func() time.Time) RegistryOption {
	return func(r *InvoiceRegistry) { r.clock = clock }
}

func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(r *InvoiceRegistry) { r.logger = l }
}

func WithReminderScheduler(s *ReminderScheduler) RegistryOption {
	return func(r *InvoiceRegistry) { r.reminders = s }
}

func NewInvoiceRegistry(numbering NumberingConfig, v *Validator, opts ...RegistryOption) *InvoiceRegistry {
	if v == nil {
		v = NewValidator()
	}
	r := &InvoiceRegistry{
		invoices:  map[string]entities.Invoice{},
		byNumber:  map[string]string{},
		sequences: map[int]int{},
		locks:     newKeyedMutex(),
		numbering: numbering,
		validator: v,
		clock:     time.Now,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	if r.reminders == nil {
		r.reminders = NewReminderScheduler(r.logger)
	}
	return r
}

func (r *InvoiceRegistry) Reminders() *ReminderScheduler { return r.reminders }

func (r *InvoiceRegistry) now() time.Time { return r.clock().UTC() }

// Load seeds the registry from the mirror. It is meant for startup, before traffic.
func (r *InvoiceRegistry) Load(ctx context.Context) (int, error) {
	if r.repo == nil {
		return 0, nil
	}
	stored, err := r.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	for _, inv := range stored {
		r.invoices[inv.ID] = inv
		r.byNumber[inv.Number] = inv.ID
		r.trackSequence(inv)
	}
	r.mu.Unlock()
	for _, inv := range stored {
		r.reminders.Schedule(inv)
	}
	r.logger.Info("invoices loaded from mirror", zap.Int("count", len(stored)))
	return len(stored), nil
}

// trackSequence keeps the per-year high-water mark. Caller holds r.mu.
func (r *InvoiceRegistry) trackSequence(inv entities.Invoice) {
	year := inv.IssueDate.UTC().Year()
	if seq, ok := r.numbering.Sequence(inv.Number, year); ok && seq > r.sequences[year] {
		r.sequences[year] = seq
	}
}

// nextSequence is one past the larger of the issued count and the highest sequence
// seen for the year. Caller holds r.mu.
func (r *InvoiceRegistry) nextSequence(year int, pending int) int {
	count := 0
	for _, inv := range r.invoices {
		if inv.IssueDate.UTC().Year() == year {
			count++
		}
	}
	next := count + pending
	if r.sequences[year] > next {
		next = r.sequences[year]
	}
	return next + 1
}

func (r *InvoiceRegistry) prepare(inv entities.Invoice) entities.Invoice {
	out := inv.Clone()
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	now := r.now()
	if out.Status == "" {
		out.Status = entities.InvoiceStatusDraft
	}
	if out.IssueDate.IsZero() {
		out.IssueDate = now
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	out.UpdatedAt = now
	money.ApplyTotals(&out)
	if out.Status == entities.InvoiceStatusPaid && out.AmountPaid.IsZero() {
		out.AmountPaid = out.TotalAmount
		out.AmountDue = decimal.Zero
		if out.PaidDate == nil {
			out.PaidDate = &now
		}
	}
	return out
}

// Create validates, numbers, mirrors and stores one invoice, then schedules its reminders.
func (r *InvoiceRegistry) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, ValidationResult, error) {
	created, result, err := r.CreateBatch(ctx, []entities.Invoice{inv})
	if err != nil {
		return entities.Invoice{}, result, err
	}
	return created[0], result, nil
}

// CreateBatch registers several invoices all-or-nothing: every invoice is validated
// and mirrored before any of them becomes visible.
func (r *InvoiceRegistry) CreateBatch(ctx context.Context, invs []entities.Invoice) ([]entities.Invoice, ValidationResult, error) {
	var result ValidationResult
	if len(invs) == 0 {
		return nil, result, nil
	}

	prepared := make([]entities.Invoice, 0, len(invs))
	for _, inv := range invs {
		p := r.prepare(inv)
		result.merge(r.validator.ValidateInvoice(p, r.now()))
		prepared = append(prepared, p)
	}
	if err := errorFromResult(result); err != nil {
		return nil, result, err
	}

	r.createMu.Lock()
	defer r.createMu.Unlock()

	r.mu.RLock()
	err := r.checkConflicts(prepared)
	if err == nil {
		r.assignNumbers(prepared)
	}
	r.mu.RUnlock()
	if err != nil {
		return nil, result, err
	}

	if r.repo != nil {
		for _, p := range prepared {
			if err := r.repo.Save(ctx, p); err != nil {
				r.logger.Error("invoice mirror save failed", zap.String("invoice_id", p.ID), zap.Error(err))
				return nil, result, err
			}
		}
	}

	// New ids stay locked until their reminders are scheduled.
	unlock := r.lockAll(prepared)
	defer unlock()

	r.mu.Lock()
	for _, p := range prepared {
		r.invoices[p.ID] = p
		r.byNumber[p.Number] = p.ID
		r.trackSequence(p)
	}
	r.mu.Unlock()

	out := make([]entities.Invoice, 0, len(prepared))
	for _, p := range prepared {
		r.reminders.Schedule(p)
		r.logger.Info("invoice registered",
			zap.String("invoice_id", p.ID),
			zap.String("number", p.Number),
			zap.String("type", string(p.Type)),
			zap.String("total", p.TotalAmount.StringFixed(2)))
		out = append(out, p.Clone())
	}
	return out, result, nil
}

// lockAll takes the key lock of every invoice in batch, in id order.
func (r *InvoiceRegistry) lockAll(batch []entities.Invoice) func() {
	ids := make([]string, 0, len(batch))
	for _, inv := range batch {
		ids = append(ids, inv.ID)
	}
	sort.Strings(ids)
	unlocks := make([]func(), 0, len(ids))
	for _, id := range ids {
		unlocks = append(unlocks, r.locks.Lock(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// checkConflicts rejects duplicate ids, duplicate numbers and a second live invoice
// for the same contract milestone. Caller holds r.mu.
func (r *InvoiceRegistry) checkConflicts(batch []entities.Invoice) error {
	ids := map[string]bool{}
	numbers := map[string]bool{}
	milestones := map[string]bool{}
	for _, inv := range r.invoices {
		if k := milestoneKey(inv); k != "" && inv.Status != entities.InvoiceStatusCancelled {
			milestones[k] = true
		}
	}
	for _, p := range batch {
		if _, exists := r.invoices[p.ID]; exists || ids[p.ID] {
			return newStateError("invoice %s already exists", p.ID)
		}
		ids[p.ID] = true
		if p.Number != "" {
			if _, exists := r.byNumber[p.Number]; exists || numbers[p.Number] {
				return newStateError("invoice number %s already issued", p.Number)
			}
			numbers[p.Number] = true
		}
		if k := milestoneKey(p); k != "" {
			if milestones[k] {
				return newStateError("milestone %d of contract %s is already invoiced", p.Milestone.Number, p.ContractID)
			}
			milestones[k] = true
		}
	}
	return nil
}

func milestoneKey(inv entities.Invoice) string {
	if inv.ContractID == "" || inv.Milestone == nil {
		return ""
	}
	return inv.ContractID + "#" + strconv.Itoa(inv.Milestone.Number)
}

// assignNumbers fills empty numbers in batch order. Caller holds r.mu and createMu.
func (r *InvoiceRegistry) assignNumbers(batch []entities.Invoice) {
	pending := map[int]int{}
	reserved := map[int]int{}
	for i := range batch {
		if batch[i].Number != "" {
			continue
		}
		year := batch[i].IssueDate.UTC().Year()
		seq := r.nextSequence(year, pending[year])
		if reserved[year] >= seq {
			seq = reserved[year] + 1
		}
		for {
			candidate := r.numbering.Format(year, seq)
			if _, taken := r.byNumber[candidate]; !taken {
				batch[i].Number = candidate
				break
			}
			seq++
		}
		reserved[year] = seq
		pending[year]++
	}
}

// resolveID maps an invoice id or number to the invoice id.
func (r *InvoiceRegistry) resolveID(ref string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.invoices[ref]; ok {
		return ref, true
	}
	id, ok := r.byNumber[ref]
	return id, ok
}

// Get accepts an invoice id or number.
func (r *InvoiceRegistry) Get(_ context.Context, ref string) (entities.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if inv, ok := r.invoices[ref]; ok {
		return inv.Clone(), nil
	}
	if id, ok := r.byNumber[ref]; ok {
		return r.invoices[id].Clone(), nil
	}
	return entities.Invoice{}, &NotFoundError{Kind: "invoice", ID: ref}
}

func (r *InvoiceRegistry) List(_ context.Context, f InvoiceFilter) []entities.Invoice {
	r.mu.RLock()
	out := make([]entities.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		if f.match(inv) {
			out = append(out, inv.Clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.Before(out[j].IssueDate)
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// mutate runs fn on a copy of the invoice under its key lock, mirrors the result
// and only then commits it. ref is an id or a number; both lock on the id.
// fn returning (false, nil) means nothing changed.
func (r *InvoiceRegistry) mutate(ctx context.Context, ref string, fn func(inv *entities.Invoice) (bool, error)) (entities.Invoice, error) {
	id, ok := r.resolveID(ref)
	if !ok {
		return entities.Invoice{}, &NotFoundError{Kind: "invoice", ID: ref}
	}
	unlock := r.locks.Lock(id)
	defer unlock()

	r.mu.RLock()
	cur, ok := r.invoices[id]
	r.mu.RUnlock()
	if !ok {
		return entities.Invoice{}, &NotFoundError{Kind: "invoice", ID: ref}
	}

	next := cur.Clone()
	changed, err := fn(&next)
	if err != nil {
		return entities.Invoice{}, err
	}
	if !changed {
		return cur.Clone(), nil
	}
	next.UpdatedAt = r.now()

	if r.repo != nil {
		if err := r.repo.Save(ctx, next); err != nil {
			r.logger.Error("invoice mirror save failed", zap.String("invoice_id", id), zap.Error(err))
			return entities.Invoice{}, err
		}
	}

	r.mu.Lock()
	r.invoices[id] = next
	r.mu.Unlock()

	if next.Status.IsTerminal() {
		r.reminders.CancelPending(id)
	}
	return next.Clone(), nil
}

func (r *InvoiceRegistry) markPaid(inv *entities.Invoice, at time.Time) {
	t := at.UTC()
	inv.Status = entities.InvoiceStatusPaid
	inv.AmountPaid = inv.TotalAmount
	inv.AmountDue = decimal.Zero
	inv.PaidDate = &t
}

// UpdateStatus moves an invoice along its lifecycle. Paying or cancelling it
// cancels its pending reminders.
func (r *InvoiceRegistry) UpdateStatus(ctx context.Context, id string, status entities.InvoiceStatus, paidDate *time.Time) (entities.Invoice, error) {
	if !status.IsValid() {
		return entities.Invoice{}, &SchemaError{Fields: map[string]string{"status": violationInvalidEnum}}
	}
	inv, err := r.mutate(ctx, id, func(inv *entities.Invoice) (bool, error) {
		if inv.Status == status {
			return false, nil
		}
		if !canTransition(inv.Status, status) {
			return false, newStateError("invoice %s cannot move from %s to %s", inv.Number, inv.Status, status)
		}
		if status == entities.InvoiceStatusPaid {
			at := r.now()
			if paidDate != nil {
				at = *paidDate
			}
			r.markPaid(inv, at)
			return true, nil
		}
		inv.Status = status
		return true, nil
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	r.logger.Info("invoice status updated", zap.String("invoice_id", inv.ID), zap.String("status", string(inv.Status)))
	return inv, nil
}

// RecordPayment adds a (partial) payment. Reaching the total marks the invoice paid.
func (r *InvoiceRegistry) RecordPayment(ctx context.Context, id string, amount decimal.Decimal, at time.Time) (entities.Invoice, error) {
	if !amount.IsPositive() {
		return entities.Invoice{}, newBusinessRuleError(CodeNonPositivePayment, "payment amount must be greater than zero")
	}
	if at.IsZero() {
		at = r.now()
	}
	amount = money.Round(amount)
	inv, err := r.mutate(ctx, id, func(inv *entities.Invoice) (bool, error) {
		if !inv.Status.IsOpen() {
			return false, newStateError("invoice %s is %s", inv.Number, inv.Status)
		}
		paid := inv.AmountPaid.Add(amount)
		if paid.GreaterThan(inv.TotalAmount) {
			return false, newBusinessRuleError(CodeOverpaid, "payment of $%s exceeds the $%s due", amount.StringFixed(2), inv.AmountDue.StringFixed(2))
		}
		if paid.Equal(inv.TotalAmount) {
			r.markPaid(inv, at)
			return true, nil
		}
		inv.AmountPaid = paid
		inv.AmountDue = inv.TotalAmount.Sub(paid)
		return true, nil
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	r.logger.Info("payment recorded",
		zap.String("invoice_id", inv.ID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("amount_due", inv.AmountDue.StringFixed(2)))
	return inv, nil
}

// RefreshOverdue flags sent and viewed invoices whose due date has passed.
func (r *InvoiceRegistry) RefreshOverdue(ctx context.Context) ([]entities.Invoice, error) {
	now := r.now()
	var ids []string
	r.mu.RLock()
	for id, inv := range r.invoices {
		if (inv.Status == entities.InvoiceStatusSent || inv.Status == entities.InvoiceStatusViewed) && inv.DaysOverdue(now) > 0 {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()
	sort.Strings(ids)

	var out []entities.Invoice
	for _, id := range ids {
		inv, err := r.UpdateStatus(ctx, id, entities.InvoiceStatusOverdue, nil)
		if err != nil {
			// lost a race with a concurrent payment or cancellation
			if isState(err) {
				continue
			}
			return out, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// GetOverdue lists unpaid, uncancelled invoices past their due date, most overdue first.
func (r *InvoiceRegistry) GetOverdue(_ context.Context) []entities.Invoice {
	now := r.now()
	r.mu.RLock()
	var out []entities.Invoice
	for _, inv := range r.invoices {
		if inv.Status.IsOpen() && inv.DaysOverdue(now) > 0 {
			out = append(out, inv.Clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].Number < out[j].Number
	})
	return out
}

func isState(err error) bool {
	return errors.Is(err, ErrState)
}
