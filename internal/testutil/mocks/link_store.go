// Package mocks holds testify mocks for the ports used across the service.
package mocks

import (
	"context"

	"shortlink/internal/link/domain"

	"github.com/stretchr/testify/mock"
)

// MockLinkStore is a testify mock for usecase.LinkStore.
type MockLinkStore struct {
	mock.Mock
}

// NewMockLinkStore creates a mock that asserts its expectations on cleanup.
func NewMockLinkStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLinkStore {
	m := &MockLinkStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLinkStore) ExistsByToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// InsertLink also accepts a func(context.Context, *domain.Link) (*domain.Link, error)
// as its single return value, which is then called with the arguments.
func (m *MockLinkStore) InsertLink(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	args := m.Called(ctx, link)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Link) (*domain.Link, error)); ok {
		return fn(ctx, link)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkStore) GetByToken(ctx context.Context, token string) (*domain.Link, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkStore) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkStore) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.Link, error) {
	args := m.Called(ctx, owner, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Link), args.Error(1)
}

// MockTokenGenerator is a testify mock for usecase.TokenGenerator.
type MockTokenGenerator struct {
	mock.Mock
}

// NewMockTokenGenerator creates a mock that asserts its expectations on cleanup.
func NewMockTokenGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenGenerator {
	m := &MockTokenGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
