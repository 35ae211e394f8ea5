package mocks

import (
	"github.com/damiolat/onboardly/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Insert(customer *models.Customer) (int64, error) {
	args := m.Called(customer)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockCustomerRepo) GetOne(id int64) (*models.Customer, bool, error) {
	args := m.Called(id)

	var customer *models.Customer
	if args.Get(0) != nil {
		customer = args.Get(0).(*models.Customer)
	}
	return customer, args.Bool(1), args.Error(2)
}

func (m *MockCustomerRepo) Exists(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepo) UpdateKycStatus(id int64, status string, tx *sqlx.Tx) error {
	args := m.Called(id, status, tx)
	return args.Error(0)
}

func (m *MockCustomerRepo) GetPendingReview() ([]models.Customer, error) {
	args := m.Called()

	var customers []models.Customer
	if args.Get(0) != nil {
		customers = args.Get(0).([]models.Customer)
	}
	return customers, args.Error(1)
}
