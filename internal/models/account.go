package models

import (
	"time"
)

type Account struct {
	ID                int64     `db:"id"`
	AccountNumber     string    `db:"account_number"`
	CustomerID        int64     `db:"customer_id"`
	AccountType       string    `db:"account_type"`
	Status            string    `db:"status"`
	AccountHolderName string    `db:"account_holder_name"`
	CreatedAt         time.Time `db:"created_at"`
}
