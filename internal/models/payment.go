package models

import "time"

// Payment is the durable proof of a completed paid enrollment. Immutable
// after insert; exactly one exists per successful enrollment transaction.
type Payment struct {
	ID             string    `db:"id" json:"id"`
	UserEmail      string    `db:"user_email" json:"user_email"`
	ClassID        string    `db:"class_id" json:"class_id"`
	ClassTitle     string    `db:"class_title" json:"class_title"`
	Amount         float64   `db:"amount" json:"amount"`
	TransactionRef string    `db:"transaction_ref" json:"transaction_ref"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
