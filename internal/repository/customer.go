package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/damiolat/onboardly/internal/models"
	"github.com/jmoiron/sqlx"
)

const (
	// CustomerKycStatusPending is the default aggregate status after registration
	// and whenever at least one document is still awaiting review.
	CustomerKycStatusPending = "PENDING"

	// CustomerKycStatusAccepted indicates that every uploaded document has been
	// verified by an admin. This is the terminal status that triggers account provisioning.
	CustomerKycStatusAccepted = "ACCEPTED"

	// CustomerKycStatusRejected indicates that at least one document was rejected.
	CustomerKycStatusRejected = "REJECTED"
)

type CustomerRepository interface {
	Insert(customer *models.Customer) (int64, error)
	GetOne(id int64) (*models.Customer, bool, error)
	Exists(id int64) (bool, error)
	UpdateKycStatus(id int64, status string, tx *sqlx.Tx) error
	GetPendingReview() ([]models.Customer, error)
}

type CustomerRepositoryImpl struct {
	db *DB
}

func NewCustomerRepository(db *DB) CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

func (repo *CustomerRepositoryImpl) Insert(customer *models.Customer) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id int64
	query := `
		INSERT INTO customers (full_name, email, kyc_status)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := repo.db.GetContext(ctx, &id, query,
		customer.FullName,
		customer.Email,
		CustomerKycStatusPending,
	)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (repo *CustomerRepositoryImpl) GetOne(id int64) (*models.Customer, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var customer models.Customer
	query := `SELECT * FROM customers WHERE id = $1`

	err := repo.db.GetContext(ctx, &customer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &customer, true, nil
}

func (repo *CustomerRepositoryImpl) Exists(id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`

	err := repo.db.GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (repo *CustomerRepositoryImpl) UpdateKycStatus(id int64, status string, tx *sqlx.Tx) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE customers SET kyc_status = $1 WHERE id = $2`

	if tx != nil {
		_, err := tx.ExecContext(ctx, query, status, id)
		return err
	}

	_, err := repo.db.ExecContext(ctx, query, status, id)
	return err
}

func (repo *CustomerRepositoryImpl) GetPendingReview() ([]models.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	customers := []models.Customer{}
	query := `
		SELECT * FROM customers
		WHERE UPPER(kyc_status) = $1
		ORDER BY created_at`

	err := repo.db.SelectContext(ctx, &customers, query, CustomerKycStatusPending)
	if err != nil {
		return nil, err
	}

	return customers, nil
}
