package entities

import (
	"fmt"
	"strings"
)

// PaymentStructureType selects how a quote price is split into milestones.
type PaymentStructureType string

const (
	PaymentStructureSingle       PaymentStructureType = "single"
	PaymentStructureDepositFinal PaymentStructureType = "deposit_final"
	PaymentStructureMilestone    PaymentStructureType = "milestone"
	PaymentStructureProgress     PaymentStructureType = "progress"
	PaymentStructureCustom       PaymentStructureType = "custom"
)

// PaymentStructureTypes lists every structure type; schedule builders are keyed by it.
var PaymentStructureTypes = []PaymentStructureType{
	PaymentStructureSingle,
	PaymentStructureDepositFinal,
	PaymentStructureMilestone,
	PaymentStructureProgress,
	PaymentStructureCustom,
}

func (t PaymentStructureType) IsValid() bool {
	for _, v := range PaymentStructureTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParsePaymentStructureType accepts the canonical names plus the dashed spelling.
func ParsePaymentStructureType(raw string) (PaymentStructureType, error) {
	v := PaymentStructureType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if v == "" {
		return PaymentStructureMilestone, nil
	}
	if !v.IsValid() {
		return "", fmt.Errorf("unknown payment structure %q", raw)
	}
	return v, nil
}
