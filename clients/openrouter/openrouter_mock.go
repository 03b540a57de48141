package openrouter

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scribebackend/clients"
)

// MockLLMClient is a mock implementation of clients.LLMClient
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) GenerateSummary(
	ctx context.Context,
	transcript string,
	genCtx *clients.SummaryGenerationContext,
) (*clients.SummaryResult, error) {
	args := m.Called(ctx, transcript, genCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.SummaryResult), args.Error(1)
}
