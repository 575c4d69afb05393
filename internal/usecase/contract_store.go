package usecase

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase/interfaces"
)

// ContractStore keeps converted contracts in memory, optionally mirrored.
// Stored contracts never carry ledger fields; those are derived from invoices on read.
type ContractStore struct {
	mu        sync.RWMutex
	contracts map[string]entities.Contract
	byNumber  map[string]string
	repo      interfaces.IContractRepository
	logger    *zap.Logger
}

func NewContractStore(repo interfaces.IContractRepository, logger *zap.Logger) *ContractStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractStore{
		contracts: map[string]entities.Contract{},
		byNumber:  map[string]string{},
		repo:      repo,
		logger:    logger,
	}
}

// Save mirrors c and then makes it visible.
func (s *ContractStore) Save(ctx context.Context, c entities.Contract) error {
	if s.repo != nil {
		if err := s.repo.Save(ctx, c); err != nil {
			s.logger.Error("contract mirror save failed", zap.String("contract_id", c.ID), zap.Error(err))
			return err
		}
	}
	s.mu.Lock()
	s.contracts[c.ID] = c.Clone()
	s.byNumber[c.Number] = c.ID
	s.mu.Unlock()
	return nil
}

// discard drops a contract from memory after a failed conversion.
func (s *ContractStore) discard(id string) {
	s.mu.Lock()
	if c, ok := s.contracts[id]; ok {
		delete(s.byNumber, c.Number)
		delete(s.contracts, id)
	}
	s.mu.Unlock()
}

// Get looks a contract up by id or contract number.
func (s *ContractStore) Get(_ context.Context, id string) (entities.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.contracts[id]; ok {
		return c.Clone(), nil
	}
	if realID, ok := s.byNumber[id]; ok {
		return s.contracts[realID].Clone(), nil
	}
	return entities.Contract{}, &NotFoundError{Kind: "contract", ID: id}
}

func (s *ContractStore) List(_ context.Context) []entities.Contract {
	s.mu.RLock()
	out := make([]entities.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		out = append(out, c.Clone())
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Load seeds the store from the mirror.
func (s *ContractStore) Load(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, nil
	}
	stored, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	for _, c := range stored {
		s.contracts[c.ID] = c
		s.byNumber[c.Number] = c.ID
	}
	s.mu.Unlock()
	s.logger.Info("contracts loaded from mirror", zap.Int("count", len(stored)))
	return len(stored), nil
}
