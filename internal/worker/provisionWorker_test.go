package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/damiolat/onboardly/internal/identity"
	"github.com/damiolat/onboardly/internal/kyc"
	"github.com/damiolat/onboardly/internal/mocks"
	"github.com/damiolat/onboardly/internal/repository"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProvisionWorker(accountRepo *mocks.MockAccountRepo, fetcher *mocks.MockProfileFetcher, cache ProvisionMarker) *Worker {
	return New(&Worker{
		AccountRepo: accountRepo,
		Identity:    fetcher,
		Cache:       cache,
		Ctx:         context.Background(),
	})
}

func TestHandleVerifiedMessage_RepeatedDeliveryCreatesOneAccount(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	accountRepo.On("ExistsByCustomer", int64(5)).Return(false, nil).Once()
	accountRepo.On("ExistsByCustomer", int64(5)).Return(true, nil)
	accountRepo.On("Insert", mock.Anything).Return(1, nil).Once()

	fetcher := new(mocks.MockProfileFetcher)
	fetcher.On("FetchCustomerProfile", int64(5)).Return(&identity.CustomerProfile{
		FirstName: "ada",
		LastName:  "lovelace",
	}, nil)

	wk := newProvisionWorker(accountRepo, fetcher, mocks.NewMemoryCache())

	for i := 0; i < 4; i++ {
		require.NoError(t, wk.handleVerifiedMessage("KYC_VERIFIED:5"))
	}

	accountRepo.AssertNumberOfCalls(t, "Insert", 1)
	// After the first delivery the marker short-circuits before the store.
	accountRepo.AssertNumberOfCalls(t, "ExistsByCustomer", 1)
}

func TestHandleVerifiedMessage_DuplicateConstraintIsIdempotentSkip(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	accountRepo.On("ExistsByCustomer", int64(8)).Return(false, nil)
	accountRepo.On("Insert", mock.Anything).Return(0, repository.ErrDuplicateCustomerAccount)

	fetcher := new(mocks.MockProfileFetcher)
	fetcher.On("FetchCustomerProfile", int64(8)).Return(nil, errors.New("unreachable"))

	wk := newProvisionWorker(accountRepo, fetcher, nil)

	require.NoError(t, wk.handleVerifiedMessage("KYC_VERIFIED:8"))
	accountRepo.AssertNumberOfCalls(t, "Insert", 1)
}

func TestHandleVerifiedMessage_AccountNumberCollisionRegenerates(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	accountRepo.On("ExistsByCustomer", int64(3)).Return(false, nil)
	accountRepo.On("Insert", mock.Anything).Return(0, repository.ErrDuplicateAccountNumber).Twice()
	accountRepo.On("Insert", mock.Anything).Return(1, nil).Once()

	fetcher := new(mocks.MockProfileFetcher)
	fetcher.On("FetchCustomerProfile", int64(3)).Return(nil, errors.New("unreachable"))

	wk := newProvisionWorker(accountRepo, fetcher, nil)

	require.NoError(t, wk.handleVerifiedMessage("KYC_VERIFIED:3"))
	accountRepo.AssertNumberOfCalls(t, "Insert", 3)
}

func TestHandleVerifiedMessage_MalformedPayloadIsDropped(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	wk := newProvisionWorker(accountRepo, nil, nil)

	require.NoError(t, wk.handleVerifiedMessage("not-a-valid-payload"))
	accountRepo.AssertNotCalled(t, "ExistsByCustomer", mock.Anything)
	accountRepo.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestAccountHolderName_TitleCasesProfile(t *testing.T) {
	fetcher := new(mocks.MockProfileFetcher)
	fetcher.On("FetchCustomerProfile", int64(5)).Return(&identity.CustomerProfile{
		FirstName: "ada",
		LastName:  "LOVELACE",
	}, nil)

	wk := newProvisionWorker(new(mocks.MockAccountRepo), fetcher, nil)

	require.Equal(t, "Ada Lovelace", wk.accountHolderName(5))
}

func TestAccountHolderName_FallbackOnFetchError(t *testing.T) {
	fetcher := new(mocks.MockProfileFetcher)
	fetcher.On("FetchCustomerProfile", int64(5)).Return(nil, errors.New("identity service down"))

	wk := newProvisionWorker(new(mocks.MockAccountRepo), fetcher, nil)

	require.Equal(t, "Customer-5", wk.accountHolderName(5))
}

func TestAccountHolderName_FallbackWithoutFetcher(t *testing.T) {
	wk := newProvisionWorker(new(mocks.MockAccountRepo), nil, nil)
	wk.Identity = nil

	require.Equal(t, "Customer-9", wk.accountHolderName(9))
}

func TestAccountHolderName_FallbackOnEmptyProfile(t *testing.T) {
	fetcher := new(mocks.MockProfileFetcher)
	fetcher.On("FetchCustomerProfile", int64(5)).Return(&identity.CustomerProfile{}, nil)

	wk := newProvisionWorker(new(mocks.MockAccountRepo), fetcher, nil)

	require.Equal(t, "Customer-5", wk.accountHolderName(5))
}

func TestGenerateAccountNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		number := generateAccountNumber()

		require.GreaterOrEqual(t, len(number), 12)
		require.LessOrEqual(t, len(number), 14)
		for _, r := range number {
			require.Truef(t, r >= '0' && r <= '9', "account number %q contains %q", number, r)
		}
	}
}

func TestProcessWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	wk := New(&Worker{Ctx: context.Background()})

	attempts := 0
	err := wk.processWithRetry(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestProcessWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	wk := New(&Worker{Ctx: context.Background()})

	attempts := 0
	err := wk.processWithRetry(func() error {
		attempts++
		return fmt.Errorf("%w: id 4", kyc.ErrCustomerNotFound)
	})

	require.ErrorIs(t, err, kyc.ErrCustomerNotFound)
	require.Equal(t, 1, attempts)
}

func TestProcessWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	wk := New(&Worker{Ctx: context.Background()})

	attempts := 0
	err := wk.processWithRetry(func() error {
		attempts++
		return errors.New("still broken")
	})

	require.Error(t, err)
	require.Equal(t, maxAttempts, attempts)
}
