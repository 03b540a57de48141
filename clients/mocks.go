package clients

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCRMClient is a mock implementation of CRMClient
type MockCRMClient struct {
	mock.Mock
}

func (m *MockCRMClient) PushSummaryNote(ctx context.Context, note *CRMNote) (string, error) {
	args := m.Called(ctx, note)
	return args.String(0), args.Error(1)
}
