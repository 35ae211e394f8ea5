package app

import (
	"context"
	"testing"
	"time"

	"github.com/damiolat/onboardly/internal/adminauth"
	"github.com/damiolat/onboardly/internal/kyc"
	"github.com/damiolat/onboardly/internal/mocks"
	"github.com/damiolat/onboardly/internal/models"
	"github.com/damiolat/onboardly/internal/repository"
	"github.com/pascaldekloe/jwt"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func adminToken(t *testing.T, role string) string {
	t.Helper()

	var claims jwt.Claims
	claims.Subject = "ops-admin"
	claims.Expires = jwt.NewNumericTime(time.Now().Add(time.Hour))
	claims.Set = map[string]any{
		"role":   role,
		"userId": float64(10),
	}

	token, err := claims.HMACSign(jwt.HS256, []byte(testSecret))
	require.NoError(t, err)

	return string(token)
}

func TestVerifyDocumentAsAdmin_RecordsAdminIdentity(t *testing.T) {
	customerRepo := new(mocks.MockCustomerRepo)
	customerRepo.On("Exists", int64(1)).Return(true, nil)
	customerRepo.On("GetOne", int64(1)).Return(&models.Customer{
		ID:        1,
		KycStatus: repository.CustomerKycStatusPending,
	}, true, nil)
	customerRepo.On("UpdateKycStatus", int64(1), mock.Anything, mock.Anything).Return(nil)

	document := &models.KycDocument{ID: 2, CustomerID: 1, Status: repository.DocumentStatusPending}

	documentRepo := new(mocks.MockKycDocumentRepo)
	documentRepo.On("GetOne", int64(2)).Return(document, true, nil)
	documentRepo.On("UpdateStatus", int64(2), repository.DocumentStatusVerified, mock.Anything).Return(nil)
	documentRepo.On("GetByCustomer", int64(1)).Return([]models.KycDocument{*document}, nil)

	verificationRepo := new(mocks.MockKycVerificationRepo)
	verificationRepo.On("Upsert", mock.MatchedBy(func(v *models.KycVerification) bool {
		return v.AdminUsername == "ops-admin" && v.AdminID == 10
	}), mock.Anything).Return(nil)

	producer := new(mocks.MockProducer)
	producer.On("ProduceMessage", mock.Anything, mock.Anything).Return(nil)

	app := &Application{
		AdminAuth: adminauth.New(testSecret),
		Engine: kyc.New(&kyc.Engine{
			CustomerRepo:     customerRepo,
			DocumentRepo:     documentRepo,
			VerificationRepo: verificationRepo,
			Producer:         producer,
			VerifiedTopic:    "kyc.verified",
			RejectedTopic:    "kyc.rejected",
		}),
	}

	err := app.VerifyDocumentAsAdmin(context.Background(), "Bearer "+adminToken(t, "ADMIN"), 1, 2, "VERIFIED", "looks good")
	require.NoError(t, err)
	verificationRepo.AssertExpectations(t)
}

func TestVerifyDocumentAsAdmin_RejectsNonAdmin(t *testing.T) {
	app := &Application{AdminAuth: adminauth.New(testSecret)}

	err := app.VerifyDocumentAsAdmin(context.Background(), "Bearer "+adminToken(t, "USER"), 1, 2, "VERIFIED", "")
	require.ErrorIs(t, err, adminauth.ErrNotAdmin)
}

func TestSetCustomerStatusAsAdmin(t *testing.T) {
	customerRepo := new(mocks.MockCustomerRepo)
	customerRepo.On("Exists", int64(5)).Return(true, nil)
	customerRepo.On("UpdateKycStatus", int64(5), repository.CustomerKycStatusRejected, mock.Anything).Return(nil)

	producer := new(mocks.MockProducer)
	producer.On("ProduceMessage", "kyc.rejected", "KYC_REJECTED:5").Return(nil)

	app := &Application{
		AdminAuth: adminauth.New(testSecret),
		Engine: kyc.New(&kyc.Engine{
			CustomerRepo:  customerRepo,
			Producer:      producer,
			VerifiedTopic: "kyc.verified",
			RejectedTopic: "kyc.rejected",
		}),
	}

	err := app.SetCustomerStatusAsAdmin(context.Background(), "Bearer "+adminToken(t, "ADMIN"), 5, "REJECTED")
	require.NoError(t, err)
	producer.AssertExpectations(t)
}

func TestSetCustomerStatusAsAdmin_InvalidToken(t *testing.T) {
	app := &Application{AdminAuth: adminauth.New(testSecret)}

	err := app.SetCustomerStatusAsAdmin(context.Background(), "Bearer garbage", 5, "REJECTED")
	require.ErrorIs(t, err, adminauth.ErrInvalidToken)
}
