package interfaces

//go:generate mockgen -source=contract_repository_interface.go -destination=mocks/contract_repository_mock.go -package=mock_interfaces

import (
	"context"
	"contract_billing/internal/domain/entities"
)

// IContractRepository mirrors contracts to durable storage.

type IContractRepository interface {
	Save(ctx context.Context, c entities.Contract) error
	GetByID(ctx context.Context, id string) (entities.Contract, error)
	List(ctx context.Context) ([]entities.Contract, error)
}
