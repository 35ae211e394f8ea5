package mocks

import (
	"github.com/damiolat/onboardly/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockKycVerificationRepo struct {
	mock.Mock
}

func (m *MockKycVerificationRepo) Upsert(verification *models.KycVerification, tx *sqlx.Tx) error {
	args := m.Called(verification, tx)
	return args.Error(0)
}

func (m *MockKycVerificationRepo) GetByCustomerAndDocument(customerID, documentID int64) (*models.KycVerification, bool, error) {
	args := m.Called(customerID, documentID)

	var verification *models.KycVerification
	if args.Get(0) != nil {
		verification = args.Get(0).(*models.KycVerification)
	}
	return verification, args.Bool(1), args.Error(2)
}

func (m *MockKycVerificationRepo) GetByCustomer(customerID int64) ([]models.KycVerification, error) {
	args := m.Called(customerID)

	var verifications []models.KycVerification
	if args.Get(0) != nil {
		verifications = args.Get(0).([]models.KycVerification)
	}
	return verifications, args.Error(1)
}
