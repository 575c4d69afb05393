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

const defaultInvoicesTableName = "invoices"

type lineItemItem struct {
	ID          string `dynamodbav:"id"`
	Description string `dynamodbav:"description"`
	Quantity    string `dynamodbav:"quantity"`
	UnitPrice   string `dynamodbav:"unit_price"`
	Discount    string `dynamodbav:"discount"`
	TaxRate     string `dynamodbav:"tax_rate"`
	LineTotal   string `dynamodbav:"line_total"`
	Category    string `dynamodbav:"category,omitempty"`
	Hours       string `dynamodbav:"hours,omitempty"`
	Feature     string `dynamodbav:"feature,omitempty"`
}

type clientItem struct {
	Name    string `dynamodbav:"name"`
	Company string `dynamodbav:"company,omitempty"`
	Email   string `dynamodbav:"email,omitempty"`
	Phone   string `dynamodbav:"phone,omitempty"`
}

type invoiceItem struct {
	ID                  string         `dynamodbav:"id"`
	Number              string         `dynamodbav:"number"`
	ContractID          string         `dynamodbav:"contract_id,omitempty"`
	QuoteID             string         `dynamodbav:"quote_id,omitempty"`
	Client              clientItem     `dynamodbav:"client"`
	Type                string         `dynamodbav:"type"`
	MilestoneNumber     int            `dynamodbav:"milestone_number,omitempty"`
	MilestoneCount      int            `dynamodbav:"milestone_count,omitempty"`
	MilestonePercentage string         `dynamodbav:"milestone_percentage,omitempty"`
	Items               []lineItemItem `dynamodbav:"items"`
	Subtotal            string         `dynamodbav:"subtotal"`
	DiscountAmount      string         `dynamodbav:"discount_amount"`
	TaxAmount           string         `dynamodbav:"tax_amount"`
	TotalAmount         string         `dynamodbav:"total_amount"`
	AmountPaid          string         `dynamodbav:"amount_paid"`
	AmountDue           string         `dynamodbav:"amount_due"`
	Status              string         `dynamodbav:"status"`
	IssueDate           string         `dynamodbav:"issue_date"`
	DueDate             string         `dynamodbav:"due_date"`
	PaidDate            string         `dynamodbav:"paid_date,omitempty"`
	Currency            string         `dynamodbav:"currency"`
	Notes               string         `dynamodbav:"notes,omitempty"`
	InternalNotes       string         `dynamodbav:"internal_notes,omitempty"`
	CreatedAt           string         `dynamodbav:"created_at"`
	UpdatedAt           string         `dynamodbav:"updated_at"`
}

// InvoiceDynamoRepository mirrors Invoice aggregates in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Every Save is a full-item put; the in-memory registry owns ordering.

type InvoiceDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb *dynamodb.Client, tableName string) *InvoiceDynamoRepository {
	if tableName == "" {
		tableName = defaultInvoicesTableName
	}
	return &InvoiceDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *InvoiceDynamoRepository) Save(ctx context.Context, inv entities.Invoice) error {
	av, err := attributevalue.MarshalMap(toInvoiceItem(inv))
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Item) == 0 {
		return entities.Invoice{}, nil
	}

	var it invoiceItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it)
}

func (r *InvoiceDynamoRepository) List(ctx context.Context) ([]entities.Invoice, error) {
	var out []entities.Invoice
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []invoiceItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			v, err := fromInvoiceItem(it)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func toClientItem(c entities.ClientInfo) clientItem {
	return clientItem{Name: c.Name, Company: c.Company, Email: c.Email, Phone: c.Phone}
}

func fromClientItem(c clientItem) entities.ClientInfo {
	return entities.ClientInfo{Name: c.Name, Company: c.Company, Email: c.Email, Phone: c.Phone}
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	it := invoiceItem{
		ID:             inv.ID,
		Number:         inv.Number,
		ContractID:     inv.ContractID,
		QuoteID:        inv.QuoteID,
		Client:         toClientItem(inv.Client),
		Type:           string(inv.Type),
		Items:          make([]lineItemItem, 0, len(inv.Items)),
		Subtotal:       decString(inv.Subtotal),
		DiscountAmount: decString(inv.DiscountAmount),
		TaxAmount:      decString(inv.TaxAmount),
		TotalAmount:    decString(inv.TotalAmount),
		AmountPaid:     decString(inv.AmountPaid),
		AmountDue:      decString(inv.AmountDue),
		Status:         string(inv.Status),
		IssueDate:      formatTime(inv.IssueDate),
		DueDate:        formatTime(inv.DueDate),
		PaidDate:       formatOptTime(inv.PaidDate),
		Currency:       inv.Currency,
		Notes:          inv.Notes,
		InternalNotes:  inv.InternalNotes,
		CreatedAt:      formatTime(inv.CreatedAt),
		UpdatedAt:      formatTime(inv.UpdatedAt),
	}
	if m := inv.Milestone; m != nil {
		it.MilestoneNumber = m.Number
		it.MilestoneCount = m.Count
		it.MilestonePercentage = decString(m.Percentage)
	}
	for _, li := range inv.Items {
		it.Items = append(it.Items, lineItemItem{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    decString(li.Quantity),
			UnitPrice:   decString(li.UnitPrice),
			Discount:    decString(li.Discount),
			TaxRate:     decString(li.TaxRate),
			LineTotal:   decString(li.LineTotal),
			Category:    string(li.Category),
			Hours:       optDecString(li.Hours),
			Feature:     li.Feature,
		})
	}
	return it
}

func fromInvoiceItem(it invoiceItem) (entities.Invoice, error) {
	d := &itemDecoder{}
	inv := entities.Invoice{
		ID:             it.ID,
		Number:         it.Number,
		ContractID:     it.ContractID,
		QuoteID:        it.QuoteID,
		Client:         fromClientItem(it.Client),
		Type:           entities.InvoiceType(it.Type),
		Items:          make([]entities.LineItem, 0, len(it.Items)),
		Subtotal:       d.dec("subtotal", it.Subtotal),
		DiscountAmount: d.dec("discount_amount", it.DiscountAmount),
		TaxAmount:      d.dec("tax_amount", it.TaxAmount),
		TotalAmount:    d.dec("total_amount", it.TotalAmount),
		AmountPaid:     d.dec("amount_paid", it.AmountPaid),
		AmountDue:      d.dec("amount_due", it.AmountDue),
		IssueDate:      d.timestamp("issue_date", it.IssueDate),
		DueDate:        d.timestamp("due_date", it.DueDate),
		PaidDate:       d.optTimestamp("paid_date", it.PaidDate),
		Currency:       it.Currency,
		Notes:          it.Notes,
		InternalNotes:  it.InternalNotes,
		CreatedAt:      d.timestamp("created_at", it.CreatedAt),
		UpdatedAt:      d.timestamp("updated_at", it.UpdatedAt),
	}
	// rows written by older clients may carry capitalized statuses
	if s, err := entities.ParseInvoiceStatus(it.Status); err == nil {
		inv.Status = s
	} else {
		inv.Status = entities.InvoiceStatus(it.Status)
	}
	if it.MilestoneNumber > 0 {
		inv.Milestone = &entities.MilestoneRef{
			Number:     it.MilestoneNumber,
			Count:      it.MilestoneCount,
			Percentage: d.dec("milestone_percentage", it.MilestonePercentage),
		}
	}
	for _, li := range it.Items {
		inv.Items = append(inv.Items, entities.LineItem{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    d.dec("quantity", li.Quantity),
			UnitPrice:   d.dec("unit_price", li.UnitPrice),
			Discount:    d.dec("discount", li.Discount),
			TaxRate:     d.dec("tax_rate", li.TaxRate),
			LineTotal:   d.dec("line_total", li.LineTotal),
			Category:    entities.LineItemCategory(li.Category),
			Hours:       d.optDec("hours", li.Hours),
			Feature:     li.Feature,
		})
	}
	if d.err != nil {
		return entities.Invoice{}, fmt.Errorf("invoice %s: %w", it.ID, d.err)
	}
	return inv, nil
}
