package repository

import (
	"context"
	"fmt"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultContractsTableName = "contracts"

type milestoneItem struct {
	ID           string   `dynamodbav:"id"`
	Number       int      `dynamodbav:"number"`
	Name         string   `dynamodbav:"name"`
	Description  string   `dynamodbav:"description"`
	Percentage   string   `dynamodbav:"percentage"`
	Amount       string   `dynamodbav:"amount"`
	DueDate      string   `dynamodbav:"due_date"`
	Deliverables []string `dynamodbav:"deliverables"`
	Dependencies []string `dynamodbav:"dependencies,omitempty"`
	Status       string   `dynamodbav:"status"`
}

type quoteItem struct {
	ID             string   `dynamodbav:"id"`
	BusinessName   string   `dynamodbav:"business_name"`
	Industry       string   `dynamodbav:"industry,omitempty"`
	PageCount      int      `dynamodbav:"page_count"`
	Features       []string `dynamodbav:"features"`
	Timeline       string   `dynamodbav:"timeline"`
	BudgetBand     string   `dynamodbav:"budget_band,omitempty"`
	FinalPrice     string   `dynamodbav:"final_price"`
	EstimatedHours string   `dynamodbav:"estimated_hours"`
	ContactName    string   `dynamodbav:"contact_name,omitempty"`
	ContactEmail   string   `dynamodbav:"contact_email,omitempty"`
	ContactPhone   string   `dynamodbav:"contact_phone,omitempty"`
	Requirements   string   `dynamodbav:"requirements,omitempty"`
	Notes          string   `dynamodbav:"notes,omitempty"`
}

type legalClauseItem struct {
	Key   string `dynamodbav:"key"`
	Title string `dynamodbav:"title"`
	Body  string `dynamodbav:"body"`
}

type contractItem struct {
	ID                string            `dynamodbav:"id"`
	Number            string            `dynamodbav:"number"`
	QuoteID           string            `dynamodbav:"quote_id"`
	TemplateID        string            `dynamodbav:"template_id"`
	Client            clientItem        `dynamodbav:"client"`
	Title             string            `dynamodbav:"title"`
	Description       string            `dynamodbav:"description"`
	Scope             []string          `dynamodbav:"scope"`
	Deliverables      []string          `dynamodbav:"deliverables"`
	Timeline          string            `dynamodbav:"timeline"`
	StartDate         string            `dynamodbav:"start_date"`
	EndDate           string            `dynamodbav:"end_date"`
	QuoteSnapshot     quoteItem         `dynamodbav:"quote_snapshot"`
	StructureType     string            `dynamodbav:"structure_type"`
	Currency          string            `dynamodbav:"currency"`
	Milestones        []milestoneItem   `dynamodbav:"milestones"`
	PaymentTerms      string            `dynamodbav:"payment_terms"`
	LateFeePercentage string            `dynamodbav:"late_fee_percentage,omitempty"`
	LegalTerms        []legalClauseItem `dynamodbav:"legal_terms"`
	Status            string            `dynamodbav:"status"`
	TotalAmount       string            `dynamodbav:"total_amount"`
	CreatedAt         string            `dynamodbav:"created_at"`
	UpdatedAt         string            `dynamodbav:"updated_at"`
}

// ContractDynamoRepository mirrors Contract aggregates in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Ledger fields (invoice links, invoiced/paid totals) are not stored; they are
// rebuilt from the invoices table.

type ContractDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IContractRepository = (*ContractDynamoRepository)(nil)

func NewContractDynamoRepository(ddb *dynamodb.Client, tableName string) *ContractDynamoRepository {
	if tableName == "" {
		tableName = defaultContractsTableName
	}
	return &ContractDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ContractDynamoRepository) Save(ctx context.Context, c entities.Contract) error {
	av, err := attributevalue.MarshalMap(toContractItem(c))
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

func (r *ContractDynamoRepository) GetByID(ctx context.Context, id string) (entities.Contract, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Contract{}, err
	}
	if len(out.Item) == 0 {
		return entities.Contract{}, nil
	}

	var it contractItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Contract{}, err
	}
	return fromContractItem(it)
}

func (r *ContractDynamoRepository) List(ctx context.Context) ([]entities.Contract, error) {
	var out []entities.Contract
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []contractItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			v, err := fromContractItem(it)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func toContractItem(c entities.Contract) contractItem {
	ps := c.PaymentStructure
	q := c.Project.QuoteSnapshot
	it := contractItem{
		ID:           c.ID,
		Number:       c.Number,
		QuoteID:      c.QuoteID,
		TemplateID:   c.TemplateID,
		Client:       toClientItem(c.Client),
		Title:        c.Project.Title,
		Description:  c.Project.Description,
		Scope:        c.Project.Scope,
		Deliverables: c.Project.Deliverables,
		Timeline:     c.Project.Timeline,
		StartDate:    formatTime(c.Project.StartDate),
		EndDate:      formatTime(c.Project.EndDate),
		QuoteSnapshot: quoteItem{
			ID:             q.ID,
			BusinessName:   q.BusinessName,
			Industry:       q.Industry,
			PageCount:      q.PageCount,
			Features:       q.Features,
			Timeline:       q.Timeline,
			BudgetBand:     q.BudgetBand,
			FinalPrice:     decString(q.FinalPrice),
			EstimatedHours: decString(q.EstimatedHours),
			ContactName:    q.ContactName,
			ContactEmail:   q.ContactEmail,
			ContactPhone:   q.ContactPhone,
			Requirements:   q.Requirements,
			Notes:          q.Notes,
		},
		StructureType:     string(ps.Type),
		Currency:          ps.Currency,
		Milestones:        make([]milestoneItem, 0, len(ps.Milestones)),
		PaymentTerms:      ps.PaymentTerms,
		LateFeePercentage: optDecString(ps.LateFeePercentage),
		LegalTerms:        make([]legalClauseItem, 0, len(c.LegalTerms)),
		Status:            string(c.Status),
		TotalAmount:       decString(c.TotalAmount),
		CreatedAt:         formatTime(c.CreatedAt),
		UpdatedAt:         formatTime(c.UpdatedAt),
	}
	for _, m := range ps.Milestones {
		it.Milestones = append(it.Milestones, milestoneItem{
			ID:           m.ID,
			Number:       m.Number,
			Name:         m.Name,
			Description:  m.Description,
			Percentage:   decString(m.Percentage),
			Amount:       decString(m.Amount),
			DueDate:      formatTime(m.DueDate),
			Deliverables: m.Deliverables,
			Dependencies: m.Dependencies,
			Status:       string(m.Status),
		})
	}
	for _, lc := range c.LegalTerms {
		it.LegalTerms = append(it.LegalTerms, legalClauseItem{Key: lc.Key, Title: lc.Title, Body: lc.Body})
	}
	return it
}

func fromContractItem(it contractItem) (entities.Contract, error) {
	d := &itemDecoder{}
	q := it.QuoteSnapshot
	c := entities.Contract{
		ID:         it.ID,
		Number:     it.Number,
		QuoteID:    it.QuoteID,
		TemplateID: it.TemplateID,
		Client:     fromClientItem(it.Client),
		Project: entities.ProjectDetails{
			Title:        it.Title,
			Description:  it.Description,
			Scope:        it.Scope,
			Deliverables: it.Deliverables,
			Timeline:     it.Timeline,
			StartDate:    d.timestamp("start_date", it.StartDate),
			EndDate:      d.timestamp("end_date", it.EndDate),
			QuoteSnapshot: entities.Quote{
				ID:             q.ID,
				BusinessName:   q.BusinessName,
				Industry:       q.Industry,
				PageCount:      q.PageCount,
				Features:       q.Features,
				Timeline:       q.Timeline,
				BudgetBand:     q.BudgetBand,
				FinalPrice:     d.dec("final_price", q.FinalPrice),
				EstimatedHours: d.dec("estimated_hours", q.EstimatedHours),
				ContactName:    q.ContactName,
				ContactEmail:   q.ContactEmail,
				ContactPhone:   q.ContactPhone,
				Requirements:   q.Requirements,
				Notes:          q.Notes,
			},
		},
		PaymentStructure: entities.PaymentStructure{
			Type:              entities.PaymentStructureType(it.StructureType),
			Currency:          it.Currency,
			Milestones:        make(entities.PaymentSchedule, 0, len(it.Milestones)),
			PaymentTerms:      it.PaymentTerms,
			LateFeePercentage: d.optDec("late_fee_percentage", it.LateFeePercentage),
		},
		LegalTerms:  make([]entities.LegalClause, 0, len(it.LegalTerms)),
		Status:      entities.ContractStatus(it.Status),
		TotalAmount: d.dec("total_amount", it.TotalAmount),
		CreatedAt:   d.timestamp("created_at", it.CreatedAt),
		UpdatedAt:   d.timestamp("updated_at", it.UpdatedAt),
	}
	for _, m := range it.Milestones {
		c.PaymentStructure.Milestones = append(c.PaymentStructure.Milestones, entities.PaymentMilestone{
			ID:           m.ID,
			Number:       m.Number,
			Name:         m.Name,
			Description:  m.Description,
			Percentage:   d.dec("percentage", m.Percentage),
			Amount:       d.dec("amount", m.Amount),
			DueDate:      d.timestamp("due_date", m.DueDate),
			Deliverables: m.Deliverables,
			Dependencies: m.Dependencies,
			Status:       entities.MilestoneStatus(m.Status),
		})
	}
	for _, lc := range it.LegalTerms {
		c.LegalTerms = append(c.LegalTerms, entities.LegalClause{Key: lc.Key, Title: lc.Title, Body: lc.Body})
	}
	if d.err != nil {
		return entities.Contract{}, fmt.Errorf("contract %s: %w", it.ID, d.err)
	}
	return c, nil
}
