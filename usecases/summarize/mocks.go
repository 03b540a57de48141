package summarize

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scribebackend/models"
)

// MockSlackPoster is a mock implementation of SlackPosterInterface
type MockSlackPoster struct {
	mock.Mock
}

func (m *MockSlackPoster) PostSummary(
	ctx context.Context,
	summaryID, userID string,
	organizationID *string,
) (*models.SlackPostResult, error) {
	args := m.Called(ctx, summaryID, userID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlackPostResult), args.Error(1)
}

// MockCRMPusher is a mock implementation of CRMPusherInterface
type MockCRMPusher struct {
	mock.Mock
}

func (m *MockCRMPusher) PushToMany(
	ctx context.Context,
	summaryID, userID string,
	crmTypes []models.CRMType,
) (*models.CRMPushReport, error) {
	args := m.Called(ctx, summaryID, userID, crmTypes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CRMPushReport), args.Error(1)
}
