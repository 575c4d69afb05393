package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus represents the lifecycle of a contract.
type ContractStatus string

const (
	ContractStatusDraft       ContractStatus = "draft"
	ContractStatusSent        ContractStatus = "sent"
	ContractStatusUnderReview ContractStatus = "under_review"
	ContractStatusSigned      ContractStatus = "signed"
	ContractStatusActive      ContractStatus = "active"
	ContractStatusCompleted   ContractStatus = "completed"
	ContractStatusTerminated  ContractStatus = "terminated"
)

func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusSent, ContractStatusUnderReview, ContractStatusSigned,
		ContractStatusActive, ContractStatusCompleted, ContractStatusTerminated:
		return true
	}
	return false
}

type ClientInfo struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type ProjectDetails struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Scope         []string  `json:"scope"`
	Deliverables  []string  `json:"deliverables"`
	Timeline      string    `json:"timeline"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	QuoteSnapshot Quote     `json:"quote_snapshot"`
}

type PaymentStructure struct {
	Type              PaymentStructureType `json:"type"`
	Currency          string               `json:"currency"`
	Milestones        PaymentSchedule      `json:"milestones"`
	PaymentTerms      string               `json:"payment_terms"`
	LateFeePercentage *decimal.Decimal     `json:"late_fee_percentage,omitempty"`
}

// LegalClause is one free-text clause of the legal-terms block.
type LegalClause struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Contract is the binding agreement derived from a quote.
//
// TotalInvoiced and TotalPaid are derived from the contract's live invoices when
// the contract is read; they are never stored.
type Contract struct {
	ID               string           `json:"id"`
	Number           string           `json:"number"`
	QuoteID          string           `json:"quote_id"`
	TemplateID       string           `json:"template_id"`
	Client           ClientInfo       `json:"client"`
	Project          ProjectDetails   `json:"project"`
	PaymentStructure PaymentStructure `json:"payment_structure"`
	LegalTerms       []LegalClause    `json:"legal_terms"`
	Status           ContractStatus   `json:"status"`
	TotalAmount      decimal.Decimal  `json:"total_amount"`
	TotalInvoiced    decimal.Decimal  `json:"total_invoiced"`
	TotalPaid        decimal.Decimal  `json:"total_paid"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Clone returns a copy whose milestone slice can be mutated independently.
func (c Contract) Clone() Contract {
	out := c
	out.PaymentStructure.Milestones = append(PaymentSchedule(nil), c.PaymentStructure.Milestones...)
	out.LegalTerms = append([]LegalClause(nil), c.LegalTerms...)
	return out
}
