package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Processor decides whether a payment attempt succeeds. The service records
// the outcome either way; a processor error (as opposed to a decline) aborts
// without recording anything.
type Processor interface {
	Attempt(ctx context.Context, p *Payment) (approved bool, transactionID string, err error)
}

// StaticProcessor approves or declines every attempt. It stands in for a
// real gateway; outcomes are deterministic so flows can be tested end to
// end without an external dependency.
type StaticProcessor struct {
	Approve bool
}

func NewStaticProcessor(approve bool) *StaticProcessor {
	return &StaticProcessor{Approve: approve}
}

func (sp *StaticProcessor) Attempt(_ context.Context, p *Payment) (bool, string, error) {
	if !sp.Approve {
		return false, "", nil
	}
	return true, fmt.Sprintf("txn_%s_%d", uuid.NewString()[:8], p.OrderID), nil
}
