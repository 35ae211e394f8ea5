package kyc

import (
	"context"
	"fmt"

	"github.com/damiolat/onboardly/internal/models"
	"github.com/damiolat/onboardly/internal/repository"
)

// UploadDocument stores a freshly uploaded artifact. The status is forced to
// PENDING regardless of what the caller set, and the customer's aggregate
// drops back to PENDING until an admin reviews the new document.
func (e *Engine) UploadDocument(ctx context.Context, document *models.KycDocument) (int64, error) {
	exists, err := e.CustomerRepo.Exists(document.CustomerID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: id %d", ErrCustomerNotFound, document.CustomerID)
	}

	id, err := e.DocumentRepo.Insert(document)
	if err != nil {
		return 0, err
	}

	if err := e.CustomerRepo.UpdateKycStatus(document.CustomerID, repository.CustomerKycStatusPending, nil); err != nil {
		return 0, err
	}

	e.Logger.Info("document uploaded",
		"customer_id", document.CustomerID,
		"document_id", id,
		"document_type", document.DocumentType,
	)

	return id, nil
}

func (e *Engine) GetDocuments(ctx context.Context, customerID int64) ([]models.KycDocument, error) {
	return e.DocumentRepo.GetByCustomer(customerID)
}

// DownloadDocument returns the raw stored bytes and their declared content type.
func (e *Engine) DownloadDocument(ctx context.Context, documentID int64) ([]byte, string, error) {
	document, found, err := e.DocumentRepo.GetOne(documentID)
	if err != nil {
		return nil, "", err
	}
	if !found {
		return nil, "", fmt.Errorf("%w: id %d", ErrDocumentNotFound, documentID)
	}

	return document.Data, document.ContentType, nil
}

// DeleteDocumentByFileName is the explicit admin delete; documents are never
// removed through any other path.
func (e *Engine) DeleteDocumentByFileName(ctx context.Context, customerID int64, fileName string) error {
	deleted, err := e.DocumentRepo.DeleteByFileName(customerID, fileName)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: customer %d, file %q", ErrDocumentNotFound, customerID, fileName)
	}

	return nil
}

// GetCustomerStatus reports the current aggregate status for a customer.
func (e *Engine) GetCustomerStatus(ctx context.Context, customerID int64) (string, error) {
	customer, found, err := e.CustomerRepo.GetOne(customerID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: id %d", ErrCustomerNotFound, customerID)
	}

	return customer.KycStatus, nil
}

// GetPendingReview lists customers whose aggregate status is still PENDING,
// for the admin review queue.
func (e *Engine) GetPendingReview(ctx context.Context) ([]models.Customer, error) {
	return e.CustomerRepo.GetPendingReview()
}

// GetVerificationHistory returns the audit records for a customer, most recent
// decision first.
func (e *Engine) GetVerificationHistory(ctx context.Context, customerID int64) ([]models.KycVerification, error) {
	return e.VerificationRepo.GetByCustomer(customerID)
}

// GetDocumentDecision returns the recorded decision for one document, if an
// admin has reviewed it.
func (e *Engine) GetDocumentDecision(ctx context.Context, customerID, documentID int64) (*models.KycVerification, bool, error) {
	return e.VerificationRepo.GetByCustomerAndDocument(customerID, documentID)
}
