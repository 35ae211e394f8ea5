package models

import (
	"time"
)

type Customer struct {
	ID        int64     `db:"id"`
	FullName  string    `db:"full_name"`
	Email     string    `db:"email"`
	KycStatus string    `db:"kyc_status"`
	CreatedAt time.Time `db:"created_at"`
}
