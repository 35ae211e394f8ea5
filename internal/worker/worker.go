package worker

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/damiolat/onboardly/internal/helper"
	"github.com/damiolat/onboardly/internal/identity"
	"github.com/damiolat/onboardly/internal/kyc"
	"github.com/damiolat/onboardly/internal/repository"
	"github.com/damiolat/onboardly/internal/stream"
)

const (
	// provisioningGroupID is used for workers that create accounts when a
	// customer's KYC has been fully accepted.
	provisioningGroupID = "account-provisioning-group"

	// rejectionGroupID is used for workers that notify customers whose KYC
	// was rejected.
	rejectionGroupID = "kyc-rejection-group"

	// maxAttempts bounds the retry loop around one message's processing.
	maxAttempts = 3

	// baseBackoff is the first retry delay; it doubles per attempt.
	baseBackoff = 1 * time.Second
)

// ProfileFetcher is the slice of the service-identity client the provisioning
// worker needs for holder-name enrichment.
type ProfileFetcher interface {
	FetchCustomerProfile(ctx context.Context, customerID int64) (*identity.CustomerProfile, error)
}

// Mailer sends the rejection notification.
type Mailer interface {
	Send(recipient string, data any, patterns ...string) error
}

// ProvisionMarker is a fast-path cache of already provisioned customers. It is
// an optimization only; the account store's uniqueness constraint stays
// authoritative.
type ProvisionMarker interface {
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
}

// Our workers typically need access to the stores and the kafka event stream;
// worker-specific dependencies are passed along in the same struct.
type Worker struct {
	KafkaStream  *stream.KafkaStream
	CustomerRepo repository.CustomerRepository
	AccountRepo  repository.AccountRepository
	Identity     ProfileFetcher
	Mailer       Mailer
	Cache        ProvisionMarker
	Helper       *helper.HelperRepository
	Ctx          context.Context
	Logger       *slog.Logger

	VerifiedTopic string
	RejectedTopic string

	// Concurrency is the number of consumers started per topic. Messages for
	// the same customer may be handled by different workers at once.
	Concurrency int
}

func New(wk *Worker) *Worker {
	if wk.Concurrency <= 0 {
		wk.Concurrency = 3
	}
	if wk.Logger == nil {
		wk.Logger = slog.Default()
	}
	return wk
}

// processWithRetry runs fn up to maxAttempts times with exponentially
// increasing backoff. Argument-class errors are never retried. The returned
// error is informational only: callers acknowledge the message regardless, so
// exhaustion is silent beyond the logs.
func (wk *Worker) processWithRetry(fn func() error) error {
	var err error
	backoff := baseBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		if isNonRetryable(err) {
			log.Printf("Not retrying: %v", err)
			return err
		}

		if attempt < maxAttempts {
			log.Printf("Attempt %d/%d failed, retrying in %s: %v", attempt, maxAttempts, backoff, err)
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	log.Printf("Giving up after %d attempts: %v", maxAttempts, err)
	return err
}

func isNonRetryable(err error) bool {
	return kyc.IsInvalidArgument(err) || errors.Is(err, kyc.ErrCustomerNotFound)
}
