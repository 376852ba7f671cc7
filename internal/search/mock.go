package search

import (
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

// Match provides a mock function with given fields: app, query.
func (_m *MockProvider) Match(app domain.TrackedApp, query string) bool {
	ret := _m.Called(app, query)

	if rf, ok := ret.Get(0).(func(domain.TrackedApp, string) bool); ok {
		return rf(app, query)
	}
	return ret.Bool(0)
}

// Name provides a mock function with given fields: .
func (_m *MockProvider) Name() string {
	ret := _m.Called()
	return ret.String(0)
}
