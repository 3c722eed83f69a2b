package processorsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/darasahq/backend/core"
)

// DummyProcessor fabricates client secrets in memory. Tests only.
type DummyProcessor struct {
	mu      sync.Mutex
	n       int
	Intents []DummyIntent

	// Fail makes every call report an upstream failure.
	Fail bool
}

type DummyIntent struct {
	Amount   int64
	Currency string
}

var _ core.PaymentProcessor = (*DummyProcessor)(nil)

func NewDummyProcessor() *DummyProcessor { return &DummyProcessor{} }

func (p *DummyProcessor) CreateIntent(_ context.Context, amount int64, currency string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Fail {
		return "", core.UpstreamError(errors.New("processor unavailable"), "payment processor")
	}
	p.n++
	p.Intents = append(p.Intents, DummyIntent{Amount: amount, Currency: currency})
	return fmt.Sprintf("pi_%06d_secret_test", p.n), nil
}
