package models

import "time"

// Selection is a user's pending, unpaid intent to enroll in a class. Price
// and title are snapshotted at add time so later catalog edits do not change
// what the user agreed to pay. Consumed exactly once by the enrollment
// transaction, or removed explicitly by its owner.
type Selection struct {
	ID         string    `db:"id" json:"id"`
	UserEmail  string    `db:"user_email" json:"user_email"`
	ClassID    string    `db:"class_id" json:"class_id"`
	ClassTitle string    `db:"class_title" json:"class_title"`
	Price      float64   `db:"price" json:"price"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
