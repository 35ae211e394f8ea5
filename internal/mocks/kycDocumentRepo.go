package mocks

import (
	"github.com/damiolat/onboardly/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockKycDocumentRepo struct {
	mock.Mock
}

func (m *MockKycDocumentRepo) Insert(document *models.KycDocument) (int64, error) {
	args := m.Called(document)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockKycDocumentRepo) GetOne(id int64) (*models.KycDocument, bool, error) {
	args := m.Called(id)

	var document *models.KycDocument
	if args.Get(0) != nil {
		document = args.Get(0).(*models.KycDocument)
	}
	return document, args.Bool(1), args.Error(2)
}

func (m *MockKycDocumentRepo) GetByCustomer(customerID int64) ([]models.KycDocument, error) {
	args := m.Called(customerID)

	var documents []models.KycDocument
	if args.Get(0) != nil {
		documents = args.Get(0).([]models.KycDocument)
	}
	return documents, args.Error(1)
}

func (m *MockKycDocumentRepo) UpdateStatus(id int64, status string, tx *sqlx.Tx) error {
	args := m.Called(id, status, tx)
	return args.Error(0)
}

func (m *MockKycDocumentRepo) DeleteByFileName(customerID int64, fileName string) (bool, error) {
	args := m.Called(customerID, fileName)
	return args.Bool(0), args.Error(1)
}
