package mocks

import (
	"github.com/damiolat/onboardly/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Insert(account *models.Account) (int64, error) {
	args := m.Called(account)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockAccountRepo) ExistsByCustomer(customerID int64) (bool, error) {
	args := m.Called(customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepo) GetByCustomer(customerID int64) (*models.Account, bool, error) {
	args := m.Called(customerID)

	var account *models.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*models.Account)
	}
	return account, args.Bool(1), args.Error(2)
}

func (m *MockAccountRepo) GetByAccountNumber(accountNumber string) (*models.Account, bool, error) {
	args := m.Called(accountNumber)

	var account *models.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*models.Account)
	}
	return account, args.Bool(1), args.Error(2)
}
