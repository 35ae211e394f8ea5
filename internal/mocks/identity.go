package mocks

import (
	"context"

	"github.com/damiolat/onboardly/internal/identity"
	"github.com/stretchr/testify/mock"
)

type MockProfileFetcher struct {
	mock.Mock
}

func (m *MockProfileFetcher) FetchCustomerProfile(ctx context.Context, customerID int64) (*identity.CustomerProfile, error) {
	args := m.Called(customerID)

	var profile *identity.CustomerProfile
	if args.Get(0) != nil {
		profile = args.Get(0).(*identity.CustomerProfile)
	}
	return profile, args.Error(1)
}
