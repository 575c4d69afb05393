package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/domain/money"
)

const (
	defaultWeekCount    = 4
	defaultMonthCount   = 2
	defaultTimelineWeek = 8
	weeksPerMonth       = 4
)

var leadingInt = regexp.MustCompile(`^\s*(\d+)`)

// ParseTimelineWeeks turns a free-text timeline ("6-8 weeks", "2 months") into a week count.
// Only the leading integer is read; anything it cannot place defaults to 8 weeks.
func ParseTimelineWeeks(timeline string) int {
	lower := strings.ToLower(timeline)
	n := 0
	if m := leadingInt.FindStringSubmatch(lower); m != nil {
		n, _ = strconv.Atoi(m[1])
	}
	switch {
	case strings.Contains(lower, "week"):
		if n <= 0 {
			n = defaultWeekCount
		}
		return n
	case strings.Contains(lower, "month"):
		if n <= 0 {
			n = defaultMonthCount
		}
		return n * weeksPerMonth
	}
	return defaultTimelineWeek
}

// MilestoneTiers are the quote-price bounds that pick the milestone template.
// Prices below Low degrade to deposit/final, prices up to High use three steps,
// anything above uses four.
type MilestoneTiers struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

func DefaultMilestoneTiers() MilestoneTiers {
	return MilestoneTiers{Low: decimal.NewFromInt(5000), High: decimal.NewFromInt(25000)}
}

// CustomMilestone is a caller-supplied milestone for the custom structure.
type CustomMilestone struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Percentage   decimal.Decimal `json:"percentage"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	Deliverables []string        `json:"deliverables"`
	Dependencies []string        `json:"dependencies"`
}

type ScheduleRequest struct {
	Price            decimal.Decimal
	Timeline         string
	Structure        entities.PaymentStructureType
	StartDate        time.Time
	CustomMilestones []CustomMilestone
}

// SchedulePlan is a generated schedule plus the timeline it was spaced over.
type SchedulePlan struct {
	Milestones entities.PaymentSchedule
	Weeks      int
	StartDate  time.Time
	EndDate    time.Time
}

type milestoneSpec struct {
	name         string
	description  string
	percentage   decimal.Decimal
	due          time.Time
	deliverables []string
	dependencies []string
}

type schedulePlanInput struct {
	price     decimal.Decimal
	start     time.Time
	weeks     int
	custom    []CustomMilestone
	structure entities.PaymentStructureType
}

func (in schedulePlanInput) days() int { return in.weeks * 7 }

func (in schedulePlanInput) end() time.Time { return in.start.AddDate(0, 0, in.days()) }

// scheduleBuilder produces milestone specs for one structure type.
type scheduleBuilder func(g *ScheduleGenerator, in schedulePlanInput) []milestoneSpec

// ScheduleGenerator splits a quote price into payment milestones.
// It holds no mutable state and is safe for concurrent use.
type ScheduleGenerator struct {
	validator *Validator
	tiers     MilestoneTiers
	builders  map[entities.PaymentStructureType]scheduleBuilder
	newID     func() string
}

func NewScheduleGenerator(v *Validator, tiers MilestoneTiers) *ScheduleGenerator {
	if v == nil {
		v = NewValidator()
	}
	return &ScheduleGenerator{
		validator: v,
		tiers:     tiers,
		newID:     uuid.NewString,
		builders: map[entities.PaymentStructureType]scheduleBuilder{
			entities.PaymentStructureSingle:       buildSingle,
			entities.PaymentStructureDepositFinal: buildDepositFinal,
			entities.PaymentStructureMilestone:    buildMilestone,
			entities.PaymentStructureProgress:     buildProgress,
			entities.PaymentStructureCustom:       buildCustom,
		},
	}
}

// Generate builds the schedule. It either returns a complete schedule whose percentages
// total 100% or an error; custom milestones are never silently corrected.
func (g *ScheduleGenerator) Generate(req ScheduleRequest) (SchedulePlan, error) {
	if !req.Price.IsPositive() {
		return SchedulePlan{}, &SchemaError{Fields: map[string]string{"final_price": violationMustBePositive}}
	}
	build, ok := g.builders[req.Structure]
	if !ok {
		return SchedulePlan{}, &SchemaError{Fields: map[string]string{"payment_structure": violationInvalidEnum}}
	}

	start := req.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	in := schedulePlanInput{
		price:     req.Price,
		start:     entities.StartOfDay(start),
		weeks:     ParseTimelineWeeks(req.Timeline),
		custom:    req.CustomMilestones,
		structure: req.Structure,
	}

	specs := build(g, in)
	schedule := make(entities.PaymentSchedule, 0, len(specs))
	for i, s := range specs {
		due := s.due
		if due.Before(in.start) {
			due = in.start
		}
		schedule = append(schedule, entities.PaymentMilestone{
			ID:           g.newID(),
			Number:       i + 1,
			Name:         s.name,
			Description:  s.description,
			Percentage:   s.percentage,
			DueDate:      due,
			Deliverables: nonNil(s.deliverables),
			Dependencies: s.dependencies,
			Status:       entities.MilestoneStatusPending,
		})
	}

	if err := errorFromResult(g.validator.ValidateSchedule(schedule)); err != nil {
		return SchedulePlan{}, err
	}
	assignAmounts(schedule, req.Price)

	end := in.end()
	if last := schedule[len(schedule)-1].DueDate; last.After(end) {
		end = last
	}
	return SchedulePlan{Milestones: schedule, Weeks: in.weeks, StartDate: in.start, EndDate: end}, nil
}

// assignAmounts prices each milestone from its percentage and puts the rounding delta
// on the last milestone so the amounts add up to the rounded price.
func assignAmounts(schedule entities.PaymentSchedule, price decimal.Decimal) {
	sum := decimal.Zero
	for i := range schedule {
		schedule[i].Amount = money.PercentOf(price, schedule[i].Percentage)
		sum = sum.Add(schedule[i].Amount)
	}
	if delta := money.Round(price).Sub(sum); !delta.IsZero() {
		last := len(schedule) - 1
		schedule[last].Amount = schedule[last].Amount.Add(delta)
	}
}

func buildSingle(_ *ScheduleGenerator, in schedulePlanInput) []milestoneSpec {
	return []milestoneSpec{{
		name:         "Full Payment",
		description:  "Payment in full on project completion",
		percentage:   decimal.NewFromInt(100),
		due:          in.end(),
		deliverables: []string{"Completed project", "Final deliverables handover"},
	}}
}

func buildDepositFinal(_ *ScheduleGenerator, in schedulePlanInput) []milestoneSpec {
	return []milestoneSpec{
		{
			name:         "Project Deposit",
			description:  "Deposit due at project start",
			percentage:   decimal.NewFromInt(50),
			due:          in.start,
			deliverables: []string{"Signed contract", "Project kickoff"},
		},
		{
			name:         "Final Payment",
			description:  "Balance due on project completion",
			percentage:   decimal.NewFromInt(50),
			due:          in.end(),
			deliverables: []string{"Completed project", "Final deliverables handover"},
			dependencies: []string{"Project Deposit"},
		},
	}
}

type tierStep struct {
	name         string
	description  string
	percentage   int64
	deliverables []string
}

var threeStepTemplate = []tierStep{
	{"Project Kickoff & Design", "Deposit covering discovery and design", 40, []string{"Signed contract", "Design mockups", "Project plan"}},
	{"Development Complete", "Core build finished and ready for review", 30, []string{"Functional build", "Content integration"}},
	{"Launch & Final Delivery", "Site launched and handed over", 30, []string{"Production launch", "Training", "Final files"}},
}

var fourStepTemplate = []tierStep{
	{"Project Kickoff", "Deposit covering discovery", 30, []string{"Signed contract", "Project plan"}},
	{"Design Approval", "Designs approved by client", 25, []string{"Design mockups", "Style guide"}},
	{"Development Complete", "Core build finished and ready for review", 25, []string{"Functional build", "Content integration"}},
	{"Launch & Final Delivery", "Site launched and handed over", 20, []string{"Production launch", "Training", "Final files"}},
}

// buildMilestone picks the template by price tier. Steps are spaced floor(days/steps)
// apart; the final step absorbs the remainder so it lands on the project end date.
func buildMilestone(g *ScheduleGenerator, in schedulePlanInput) []milestoneSpec {
	if in.price.LessThan(g.tiers.Low) {
		return buildDepositFinal(g, in)
	}
	tmpl := threeStepTemplate
	if in.price.GreaterThan(g.tiers.High) {
		tmpl = fourStepTemplate
	}

	dues := spacedDueDates(in.start, in.days(), len(tmpl))
	specs := make([]milestoneSpec, 0, len(tmpl))
	for i, st := range tmpl {
		s := milestoneSpec{
			name:         st.name,
			description:  st.description,
			percentage:   decimal.NewFromInt(st.percentage),
			due:          dues[i],
			deliverables: append([]string(nil), st.deliverables...),
		}
		if i > 0 {
			s.dependencies = []string{tmpl[i-1].name}
		}
		specs = append(specs, s)
	}
	return specs
}

func spacedDueDates(start time.Time, days, steps int) []time.Time {
	out := make([]time.Time, steps)
	step := days / steps
	for i := range out {
		out[i] = start.AddDate(0, 0, (i+1)*step)
	}
	out[steps-1] = start.AddDate(0, 0, days)
	return out
}

// buildProgress bills monthly: ceil(weeks/4) installments of 100/count percent each.
// Percentages carry one decimal place; the last installment takes what is left.
func buildProgress(_ *ScheduleGenerator, in schedulePlanInput) []milestoneSpec {
	count := (in.weeks + weeksPerMonth - 1) / weeksPerMonth
	if count < 1 {
		count = 1
	}
	each := money.RoundPercent(decimal.NewFromInt(100).Div(decimal.NewFromInt(int64(count))))
	specs := make([]milestoneSpec, 0, count)
	allocated := decimal.Zero
	for i := 0; i < count; i++ {
		pct := each
		if i == count-1 {
			pct = decimal.NewFromInt(100).Sub(allocated)
		}
		allocated = allocated.Add(pct)
		specs = append(specs, milestoneSpec{
			name:         fmt.Sprintf("Progress Payment %d of %d", i+1, count),
			description:  fmt.Sprintf("Monthly progress installment %d", i+1),
			percentage:   pct,
			due:          in.start.AddDate(0, i+1, 0),
			deliverables: []string{fmt.Sprintf("Month %d progress report", i+1)},
		})
	}
	return specs
}

// buildCustom fills defaults on caller milestones. Percentages are kept as given.
func buildCustom(_ *ScheduleGenerator, in schedulePlanInput) []milestoneSpec {
	if len(in.custom) == 0 {
		return nil
	}
	dues := spacedDueDates(in.start, in.days(), len(in.custom))
	specs := make([]milestoneSpec, 0, len(in.custom))
	for i, c := range in.custom {
		s := milestoneSpec{
			name:         strings.TrimSpace(c.Name),
			description:  strings.TrimSpace(c.Description),
			percentage:   c.Percentage,
			due:          dues[i],
			deliverables: append([]string(nil), c.Deliverables...),
			dependencies: append([]string(nil), c.Dependencies...),
		}
		if s.name == "" {
			s.name = fmt.Sprintf("Milestone %d", i+1)
		}
		if s.description == "" {
			s.description = fmt.Sprintf("%s payment", s.name)
		}
		if c.DueDate != nil {
			s.due = entities.StartOfDay(*c.DueDate)
		}
		specs = append(specs, s)
	}
	return specs
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
