package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/damiolat/onboardly/internal/models"
	"github.com/jmoiron/sqlx"
)

type KycVerificationRepository interface {
	Upsert(verification *models.KycVerification, tx *sqlx.Tx) error
	GetByCustomerAndDocument(customerID, documentID int64) (*models.KycVerification, bool, error)
	GetByCustomer(customerID int64) ([]models.KycVerification, error)
}

type KycVerificationRepositoryImpl struct {
	db *DB
}

func NewKycVerificationRepository(db *DB) KycVerificationRepository {
	return &KycVerificationRepositoryImpl{db: db}
}

// Upsert keeps at most one live audit record per (customer, document) pair.
// Re-verification overwrites the previous decision instead of inserting a duplicate.
func (repo *KycVerificationRepositoryImpl) Upsert(verification *models.KycVerification, tx *sqlx.Tx) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO kyc_verifications (customer_id, document_id, status, remarks, admin_username, admin_id, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (customer_id, document_id)
		DO UPDATE SET
			status = EXCLUDED.status,
			remarks = EXCLUDED.remarks,
			admin_username = EXCLUDED.admin_username,
			admin_id = EXCLUDED.admin_id,
			verified_at = EXCLUDED.verified_at`

	if tx != nil {
		_, err := tx.ExecContext(ctx, query,
			verification.CustomerID,
			verification.DocumentID,
			verification.Status,
			verification.Remarks,
			verification.AdminUsername,
			verification.AdminID,
		)
		return err
	}

	_, err := repo.db.ExecContext(ctx, query,
		verification.CustomerID,
		verification.DocumentID,
		verification.Status,
		verification.Remarks,
		verification.AdminUsername,
		verification.AdminID,
	)
	return err
}

func (repo *KycVerificationRepositoryImpl) GetByCustomerAndDocument(customerID, documentID int64) (*models.KycVerification, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var verification models.KycVerification
	query := `SELECT * FROM kyc_verifications WHERE customer_id = $1 AND document_id = $2`

	err := repo.db.GetContext(ctx, &verification, query, customerID, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &verification, true, nil
}

func (repo *KycVerificationRepositoryImpl) GetByCustomer(customerID int64) ([]models.KycVerification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	verifications := []models.KycVerification{}
	query := `
		SELECT * FROM kyc_verifications
		WHERE customer_id = $1
		ORDER BY verified_at DESC`

	err := repo.db.SelectContext(ctx, &verifications, query, customerID)
	if err != nil {
		return nil, err
	}

	return verifications, nil
}
