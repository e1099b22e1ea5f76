package mocks

import (
	"context"

	"shortlink/internal/analytics/domain"

	"github.com/stretchr/testify/mock"
)

// MockClickRepository is a testify mock for the analytics click repository.
type MockClickRepository struct {
	mock.Mock
}

// NewMockClickRepository creates a mock that asserts its expectations on cleanup.
func NewMockClickRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClickRepository {
	m := &MockClickRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockClickRepository) InsertClick(ctx context.Context, click *domain.ClickEvent) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

func (m *MockClickRepository) ListByLinkID(ctx context.Context, linkID string) ([]domain.ClickEvent, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClickEvent), args.Error(1)
}
