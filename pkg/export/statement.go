package export

import "time"

// StatementRow is a single paid enrollment in a payment statement.
type StatementRow struct {
	ClassTitle     string
	Amount         float64
	Currency       string
	TransactionRef string
	PaidAt         time.Time
}

// Statement is the exportable payment history of one user.
type Statement struct {
	UserEmail   string
	GeneratedAt time.Time
	Rows        []StatementRow
}
