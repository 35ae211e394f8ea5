package kyc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is returned when a caller supplies a status outside the
	// known set. Consumers never retry on it.
	ErrInvalidStatus = errors.New("kyc: status must be VERIFIED, REJECTED, or PENDING")

	// ErrCustomerNotFound is returned when the target customer does not exist.
	ErrCustomerNotFound = errors.New("kyc: customer not found")

	// ErrDocumentNotFound is returned when the target document does not exist.
	ErrDocumentNotFound = errors.New("kyc: document not found")

	// ErrOwnershipMismatch is returned when the document exists but belongs to a
	// different customer than the one named in the request.
	ErrOwnershipMismatch = errors.New("kyc: document does not belong to customer")

	// ErrInvalidTransition is returned when an admin re-verifies an already
	// verified document. This is a hard reject, not a silent no-op.
	ErrInvalidTransition = errors.New("kyc: document is already verified")
)

// IsInvalidArgument reports whether err is a caller mistake that retrying can
// never fix.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrOwnershipMismatch) ||
		errors.Is(err, ErrInvalidTransition)
}

func ownershipError(documentID, customerID int64) error {
	return fmt.Errorf("%w: document %d, customer %d", ErrOwnershipMismatch, documentID, customerID)
}
