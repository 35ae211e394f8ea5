package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/damiolat/onboardly/internal/models"
	"github.com/lib/pq"
)

const (
	// AccountTypeSavings is the default account type for newly provisioned accounts.
	AccountTypeSavings = "SAVINGS"

	// AccountStatusActive is the default status for newly provisioned accounts.
	AccountStatusActive = "ACTIVE"

	uniqueViolationCode = "23505"
)

var (
	// ErrDuplicateCustomerAccount is returned when an insert hits the unique
	// constraint on customer_id. The customer already has an account, so callers
	// treat this as an idempotent skip rather than a failure.
	ErrDuplicateCustomerAccount = errors.New("repository: customer already has an account")

	// ErrDuplicateAccountNumber is returned when a generated account number
	// collides with an existing one. Callers should regenerate and retry.
	ErrDuplicateAccountNumber = errors.New("repository: account number already in use")
)

type AccountRepository interface {
	Insert(account *models.Account) (int64, error)
	ExistsByCustomer(customerID int64) (bool, error)
	GetByCustomer(customerID int64) (*models.Account, bool, error)
	GetByAccountNumber(accountNumber string) (*models.Account, bool, error)
}

type AccountRepositoryImpl struct {
	db *DB
}

func NewAccountRepository(db *DB) AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Insert relies on the unique constraint on customer_id as the authoritative
// guard against double provisioning. The existence check callers run first is
// a fast path only; concurrent workers can both pass it and race to this insert.
func (repo *AccountRepositoryImpl) Insert(account *models.Account) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id int64
	query := `
		INSERT INTO accounts (account_number, customer_id, account_type, status, account_holder_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := repo.db.GetContext(ctx, &id, query,
		account.AccountNumber,
		account.CustomerID,
		account.AccountType,
		account.Status,
		account.AccountHolderName,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			if pqErr.Constraint == "accounts_account_number_key" {
				return 0, ErrDuplicateAccountNumber
			}
			return 0, ErrDuplicateCustomerAccount
		}
		return 0, err
	}

	return id, nil
}

func (repo *AccountRepositoryImpl) ExistsByCustomer(customerID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE customer_id = $1)`

	err := repo.db.GetContext(ctx, &exists, query, customerID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (repo *AccountRepositoryImpl) GetByCustomer(customerID int64) (*models.Account, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var account models.Account
	query := `SELECT * FROM accounts WHERE customer_id = $1`

	err := repo.db.GetContext(ctx, &account, query, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &account, true, nil
}

func (repo *AccountRepositoryImpl) GetByAccountNumber(accountNumber string) (*models.Account, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var account models.Account
	query := `SELECT * FROM accounts WHERE account_number = $1`

	err := repo.db.GetContext(ctx, &account, query, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &account, true, nil
}
