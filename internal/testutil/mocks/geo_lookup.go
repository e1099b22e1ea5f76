package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGeoLookup is a testify mock for enrichment.GeoLookup.
// Return values are (country, city, error).
type MockGeoLookup struct {
	mock.Mock
}

// NewMockGeoLookup creates a mock that asserts its expectations on cleanup.
func NewMockGeoLookup(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGeoLookup {
	m := &MockGeoLookup{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGeoLookup) Lookup(ctx context.Context, ip string) (string, string, error) {
	args := m.Called(ctx, ip)
	return args.String(0), args.String(1), args.Error(2)
}
