package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/damiolat/onboardly/internal/models"
	"github.com/jmoiron/sqlx"
)

const (
	// DocumentStatusPending is forced on every upload regardless of what the client sends.
	DocumentStatusPending = "PENDING"

	// DocumentStatusVerified indicates an admin has confirmed the document is genuine.
	DocumentStatusVerified = "VERIFIED"

	// DocumentStatusRejected indicates an admin has rejected the document.
	DocumentStatusRejected = "REJECTED"
)

type KycDocumentRepository interface {
	Insert(document *models.KycDocument) (int64, error)
	GetOne(id int64) (*models.KycDocument, bool, error)
	GetByCustomer(customerID int64) ([]models.KycDocument, error)
	UpdateStatus(id int64, status string, tx *sqlx.Tx) error
	DeleteByFileName(customerID int64, fileName string) (bool, error)
}

type KycDocumentRepositoryImpl struct {
	db *DB
}

func NewKycDocumentRepository(db *DB) KycDocumentRepository {
	return &KycDocumentRepositoryImpl{db: db}
}

func (repo *KycDocumentRepositoryImpl) Insert(document *models.KycDocument) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id int64
	query := `
		INSERT INTO kyc_documents (customer_id, document_type, file_name, content_type, data, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := repo.db.GetContext(ctx, &id, query,
		document.CustomerID,
		document.DocumentType,
		document.FileName,
		document.ContentType,
		document.Data,
		DocumentStatusPending,
	)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (repo *KycDocumentRepositoryImpl) GetOne(id int64) (*models.KycDocument, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var document models.KycDocument
	query := `SELECT * FROM kyc_documents WHERE id = $1`

	err := repo.db.GetContext(ctx, &document, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &document, true, nil
}

func (repo *KycDocumentRepositoryImpl) GetByCustomer(customerID int64) ([]models.KycDocument, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	documents := []models.KycDocument{}
	query := `
		SELECT * FROM kyc_documents
		WHERE customer_id = $1
		ORDER BY uploaded_at`

	err := repo.db.SelectContext(ctx, &documents, query, customerID)
	if err != nil {
		return nil, err
	}

	return documents, nil
}

func (repo *KycDocumentRepositoryImpl) UpdateStatus(id int64, status string, tx *sqlx.Tx) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE kyc_documents SET status = $1 WHERE id = $2`

	if tx != nil {
		_, err := tx.ExecContext(ctx, query, status, id)
		return err
	}

	_, err := repo.db.ExecContext(ctx, query, status, id)
	return err
}

func (repo *KycDocumentRepositoryImpl) DeleteByFileName(customerID int64, fileName string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `DELETE FROM kyc_documents WHERE customer_id = $1 AND file_name = $2`

	result, err := repo.db.ExecContext(ctx, query, customerID, fileName)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
