package models

import (
	"time"
)

type KycDocument struct {
	ID           int64     `db:"id"`
	CustomerID   int64     `db:"customer_id"`
	DocumentType string    `db:"document_type"`
	FileName     string    `db:"file_name"`
	ContentType  string    `db:"content_type"`
	Data         []byte    `db:"data"`
	Status       string    `db:"status"`
	UploadedAt   time.Time `db:"uploaded_at"`
}
