package models

import (
	"time"
)

type KycVerification struct {
	ID            int64     `db:"id"`
	CustomerID    int64     `db:"customer_id"`
	DocumentID    int64     `db:"document_id"`
	Status        string    `db:"status"`
	Remarks       string    `db:"remarks"`
	AdminUsername string    `db:"admin_username"`
	AdminID       int64     `db:"admin_id"`
	VerifiedAt    time.Time `db:"verified_at"`
}
