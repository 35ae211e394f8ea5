// The kyc package owns document and customer verification state. Admin
// decisions on single documents and direct status overrides both land here,
// and both funnel into the same event-emission step so the two paths can
// never drift apart.
package kyc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/damiolat/onboardly/internal/models"
	"github.com/damiolat/onboardly/internal/repository"
	"github.com/jmoiron/sqlx"
)

const (
	// EventKindVerified prefixes the message published when a customer's
	// aggregate status reaches ACCEPTED.
	EventKindVerified = "KYC_VERIFIED"

	// EventKindRejected prefixes the message published when a customer's
	// aggregate status reaches REJECTED.
	EventKindRejected = "KYC_REJECTED"
)

// Producer is the slice of the event stream the engine needs. Synchronous
// produce errors are surfaced to the caller; asynchronous delivery failures
// are the producer's problem and never roll back committed state.
type Producer interface {
	ProduceMessage(topic, message string) error
}

// TxBeginner lets the engine run its multi-table update as one atomic unit.
type TxBeginner interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}

type Engine struct {
	CustomerRepo     repository.CustomerRepository
	DocumentRepo     repository.KycDocumentRepository
	VerificationRepo repository.KycVerificationRepository

	// DB may be nil in tests; repository calls then run without a transaction.
	DB       TxBeginner
	Producer Producer

	VerifiedTopic string
	RejectedTopic string
	Logger        *slog.Logger
}

func New(engine *Engine) *Engine {
	if engine.Logger == nil {
		engine.Logger = slog.Default()
	}
	return engine
}

// AggregateStatus derives a customer's KYC status from all of their documents.
// Rule order matters: a single rejected document outweighs any number of
// verified ones.
func AggregateStatus(documents []models.KycDocument) string {
	if len(documents) == 0 {
		return repository.CustomerKycStatusPending
	}

	allVerified := true
	for _, document := range documents {
		switch strings.ToUpper(document.Status) {
		case repository.DocumentStatusRejected:
			return repository.CustomerKycStatusRejected
		case repository.DocumentStatusVerified:
		default:
			allVerified = false
		}
	}

	if allVerified {
		return repository.CustomerKycStatusAccepted
	}

	return repository.CustomerKycStatusPending
}

// VerifyDocument records an admin's decision on a single document, upserts the
// audit record for the (customer, document) pair, recomputes the customer's
// aggregate status, and publishes an event if the aggregate newly reaches a
// terminal value. The document, audit, and aggregate writes commit together.
func (e *Engine) VerifyDocument(ctx context.Context, customerID, documentID int64, newStatus, remarks, adminUsername string, adminID int64) error {
	status := strings.ToUpper(strings.TrimSpace(newStatus))
	if status != repository.DocumentStatusVerified &&
		status != repository.DocumentStatusRejected &&
		status != repository.DocumentStatusPending {
		return fmt.Errorf("%w: got %q", ErrInvalidStatus, newStatus)
	}

	exists, err := e.CustomerRepo.Exists(customerID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrCustomerNotFound, customerID)
	}

	document, found, err := e.DocumentRepo.GetOne(documentID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: id %d", ErrDocumentNotFound, documentID)
	}

	if document.CustomerID != customerID {
		return ownershipError(documentID, customerID)
	}

	if document.Status == repository.DocumentStatusVerified && status == repository.DocumentStatusVerified {
		return fmt.Errorf("%w: document %d", ErrInvalidTransition, documentID)
	}

	var tx *sqlx.Tx
	if e.DB != nil {
		tx, err = e.DB.BeginTx(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback()
	}

	if err := e.DocumentRepo.UpdateStatus(documentID, status, tx); err != nil {
		return err
	}

	err = e.VerificationRepo.Upsert(&models.KycVerification{
		CustomerID:    customerID,
		DocumentID:    documentID,
		Status:        status,
		Remarks:       remarks,
		AdminUsername: adminUsername,
		AdminID:       adminID,
	}, tx)
	if err != nil {
		return err
	}

	documents, err := e.DocumentRepo.GetByCustomer(customerID)
	if err != nil {
		return err
	}

	// The freshly decided document may not be visible outside the open
	// transaction yet, so apply the decision before aggregating.
	for i := range documents {
		if documents[i].ID == documentID {
			documents[i].Status = status
		}
	}

	aggregate := AggregateStatus(documents)

	customer, found, err := e.CustomerRepo.GetOne(customerID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: id %d", ErrCustomerNotFound, customerID)
	}

	if err := e.CustomerRepo.UpdateKycStatus(customerID, aggregate, tx); err != nil {
		return err
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	e.Logger.Info("document decision recorded",
		"customer_id", customerID,
		"document_id", documentID,
		"status", status,
		"aggregate", aggregate,
		"admin", adminUsername,
	)

	// Emit only on a fresh transition into a terminal status; re-verifying the
	// remaining documents of an already accepted customer stays quiet.
	if aggregate != strings.ToUpper(customer.KycStatus) {
		return e.emitStatusEvents(customerID, aggregate)
	}

	return nil
}

// SetCustomerStatus is the coarse admin override. It bypasses the aggregation
// rule entirely but still funnels into the same event-emission step as the
// derived path.
func (e *Engine) SetCustomerStatus(ctx context.Context, customerID int64, status string) error {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != repository.CustomerKycStatusAccepted &&
		status != repository.CustomerKycStatusRejected &&
		status != repository.CustomerKycStatusPending {
		return fmt.Errorf("%w: got %q", ErrInvalidStatus, status)
	}

	exists, err := e.CustomerRepo.Exists(customerID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrCustomerNotFound, customerID)
	}

	if err := e.CustomerRepo.UpdateKycStatus(customerID, status, nil); err != nil {
		return err
	}

	e.Logger.Info("customer status forced", "customer_id", customerID, "status", status)

	return e.emitStatusEvents(customerID, status)
}

// emitStatusEvents is the single funnel for both the derived and forced status
// paths. Only a synchronous produce failure reaches the caller; by then the
// state change has already committed, so delivery is at-least-once and the
// consumer side is responsible for idempotency.
func (e *Engine) emitStatusEvents(customerID int64, status string) error {
	switch status {
	case repository.CustomerKycStatusAccepted:
		return e.Producer.ProduceMessage(e.VerifiedTopic, fmt.Sprintf("%s:%d", EventKindVerified, customerID))
	case repository.CustomerKycStatusRejected:
		return e.Producer.ProduceMessage(e.RejectedTopic, fmt.Sprintf("%s:%d", EventKindRejected, customerID))
	}

	return nil
}
