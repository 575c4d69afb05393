package response

import (
	"time"

	"contract_billing/internal/domain/entities"
)

type MilestoneResponse struct {
	ID           string    `json:"id"`
	Number       int       `json:"number"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Percentage   string    `json:"percentage"`
	Amount       string    `json:"amount"`
	DueDate      time.Time `json:"due_date"`
	Deliverables []string  `json:"deliverables"`
	Dependencies []string  `json:"dependencies,omitempty"`
	Status       string    `json:"status"`
	InvoiceID    string    `json:"invoice_id,omitempty"`
}

type PaymentStructureResponse struct {
	Type              string              `json:"type"`
	Currency          string              `json:"currency"`
	Milestones        []MilestoneResponse `json:"milestones"`
	PaymentTerms      string              `json:"payment_terms"`
	LateFeePercentage *string             `json:"late_fee_percentage,omitempty"`
}

type ContractResponse struct {
	ID               string                   `json:"id"`
	Number           string                   `json:"number"`
	QuoteID          string                   `json:"quote_id"`
	TemplateID       string                   `json:"template_id"`
	Client           entities.ClientInfo      `json:"client"`
	Project          entities.ProjectDetails  `json:"project"`
	PaymentStructure PaymentStructureResponse `json:"payment_structure"`
	LegalTerms       []entities.LegalClause   `json:"legal_terms"`
	Status           string                   `json:"status"`
	TotalAmount      string                   `json:"total_amount"`
	TotalInvoiced    string                   `json:"total_invoiced"`
	TotalPaid        string                   `json:"total_paid"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

func FromMilestones(ms entities.PaymentSchedule) []MilestoneResponse {
	out := make([]MilestoneResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, MilestoneResponse{
			ID:           m.ID,
			Number:       m.Number,
			Name:         m.Name,
			Description:  m.Description,
			Percentage:   m.Percentage.String(),
			Amount:       amount(m.Amount),
			DueDate:      m.DueDate,
			Deliverables: m.Deliverables,
			Dependencies: m.Dependencies,
			Status:       string(m.Status),
			InvoiceID:    m.InvoiceID,
		})
	}
	return out
}

func FromContract(c entities.Contract) ContractResponse {
	ps := c.PaymentStructure
	res := ContractResponse{
		ID:         c.ID,
		Number:     c.Number,
		QuoteID:    c.QuoteID,
		TemplateID: c.TemplateID,
		Client:     c.Client,
		Project:    c.Project,
		PaymentStructure: PaymentStructureResponse{
			Type:         string(ps.Type),
			Currency:     ps.Currency,
			Milestones:   FromMilestones(ps.Milestones),
			PaymentTerms: ps.PaymentTerms,
		},
		LegalTerms:    c.LegalTerms,
		Status:        string(c.Status),
		TotalAmount:   amount(c.TotalAmount),
		TotalInvoiced: amount(c.TotalInvoiced),
		TotalPaid:     amount(c.TotalPaid),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if ps.LateFeePercentage != nil {
		fee := ps.LateFeePercentage.String()
		res.PaymentStructure.LateFeePercentage = &fee
	}
	return res
}
