// Account provisioning consumes verified-KYC events. Delivery is
// at-least-once and several workers may handle events for the same customer
// at the same time, so every step here has to be safe to repeat: the redis
// marker and the existence check are fast paths, and the unique constraint on
// the account store's customer_id column is the guard that actually holds.
package worker

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/damiolat/onboardly/internal/models"
	"github.com/damiolat/onboardly/internal/repository"
	"github.com/damiolat/onboardly/internal/stream"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"errors"
)

// provisionMarkerTTL bounds how long a fast-path marker lives in redis.
const provisionMarkerTTL = 24 * time.Hour

// VerifiedEventWorker starts the configured number of consumers on the
// verified topic. Each consumer processes one message fully, retry loop
// included, before polling the next, and commits the offset no matter how
// processing ended.
func (wk *Worker) VerifiedEventWorker() {
	for i := 0; i < wk.Concurrency; i++ {
		consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
			GroupId: provisioningGroupID,
			Topic:   wk.VerifiedTopic,
		})
		if err != nil {
			log.Fatalf("Error creating provisioning consumer: %v", err)
		}

		go wk.consumeVerified(consumer)
	}
}

func (wk *Worker) consumeVerified(consumer *kafka.Consumer) {
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("Provisioning worker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				log.Printf("Verified event received on %s: %s", e.TopicPartition, string(e.Value))

				wk.processWithRetry(func() error {
					return wk.handleVerifiedMessage(string(e.Value))
				})

				// The offset commit must always run; after exhausted retries
				// the message is dropped rather than redelivered forever.
				if _, err := consumer.CommitMessage(e); err != nil {
					log.Printf("Error committing offset: %v", err)
				}
			case kafka.Error:
				log.Printf("Consumer error: %v", e)
			}
		}
	}
}

func (wk *Worker) handleVerifiedMessage(message string) error {
	payload := ParsePayload(message)
	if payload.Kind == PayloadMalformed {
		log.Printf("Dropping malformed verified event payload: %q", message)
		return nil
	}

	return wk.provisionAccount(payload.CustomerID)
}

// provisionAccount creates the customer's account exactly once in effect. A
// duplicate delivery, or a concurrent worker winning the insert race, is a
// successful no-op.
func (wk *Worker) provisionAccount(customerID int64) error {
	markerKey := fmt.Sprintf("account-provisioned:%d", customerID)

	if wk.Cache != nil {
		provisioned, err := wk.Cache.Exists(wk.Ctx, markerKey)
		if err == nil && provisioned {
			log.Printf("Account already provisioned for customer %d (cache)", customerID)
			return nil
		}
	}

	exists, err := wk.AccountRepo.ExistsByCustomer(customerID)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("Account already exists for customer %d", customerID)
		wk.setProvisionMarker(markerKey)
		return nil
	}

	account := &models.Account{
		CustomerID:        customerID,
		AccountType:       repository.AccountTypeSavings,
		Status:            repository.AccountStatusActive,
		AccountHolderName: wk.accountHolderName(customerID),
	}

	for {
		account.AccountNumber = generateAccountNumber()

		_, err = wk.AccountRepo.Insert(account)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateCustomerAccount) {
			// Another worker got there first.
			log.Printf("Account already exists for customer %d (constraint)", customerID)
			wk.setProvisionMarker(markerKey)
			return nil
		}
		if errors.Is(err, repository.ErrDuplicateAccountNumber) {
			continue
		}
		return err
	}

	log.Printf("Created account %s for customer %d", account.AccountNumber, customerID)
	wk.setProvisionMarker(markerKey)

	return nil
}

// accountHolderName enriches the account with the customer's profile when the
// identity service cooperates, and falls back to a deterministic default when
// it does not. Enrichment failure never fails account creation.
func (wk *Worker) accountHolderName(customerID int64) string {
	fallback := fmt.Sprintf("Customer-%d", customerID)

	if wk.Identity == nil {
		return fallback
	}

	profile, err := wk.Identity.FetchCustomerProfile(wk.Ctx, customerID)
	if err != nil {
		log.Printf("Could not fetch profile for customer %d, using default holder name: %v", customerID, err)
		return fallback
	}

	name := profile.FirstName
	if profile.LastName != "" {
		name += " " + profile.LastName
	}
	if name == "" {
		return fallback
	}

	return cases.Title(language.English).String(name)
}

func (wk *Worker) setProvisionMarker(key string) {
	if wk.Cache == nil {
		return
	}
	if err := wk.Cache.Set(wk.Ctx, key, "1", provisionMarkerTTL); err != nil {
		log.Printf("Error setting provision marker: %v", err)
	}
}

// generateAccountNumber returns 12 to 14 random decimal digits. Global
// uniqueness is enforced by the account store; collisions regenerate.
func generateAccountNumber() string {
	length := 12 + rand.Intn(3)
	digits := make([]byte, length)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}
