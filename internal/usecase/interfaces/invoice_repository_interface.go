package interfaces

//go:generate mockgen -source=invoice_repository_interface.go -destination=mocks/invoice_repository_mock.go -package=mock_interfaces

import (
	"context"
	"contract_billing/internal/domain/entities"
)

// IInvoiceRepository mirrors committed invoices to durable storage (DynamoDB).
//
// The registry calls Save before swapping an invoice into memory, so a failed
// Save leaves the in-memory state untouched.
//   - GetByID returns a zero Invoice (empty ID) when nothing is stored.

type IInvoiceRepository interface {
	Save(ctx context.Context, inv entities.Invoice) error
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	List(ctx context.Context) ([]entities.Invoice, error)
}
