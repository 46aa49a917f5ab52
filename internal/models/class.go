package models

import "time"

// ClassStatus is the approval state of a class offering.
type ClassStatus string

const (
	ClassStatusPending  ClassStatus = "pending"
	ClassStatusApproved ClassStatus = "approved"
	ClassStatusRejected ClassStatus = "rejected"
)

// Valid reports whether the status belongs to the closed enumeration.
func (s ClassStatus) Valid() bool {
	switch s {
	case ClassStatusPending, ClassStatusApproved, ClassStatusRejected:
		return true
	}
	return false
}

// ClassOffering is an instructor-authored class listing with capacity and
// approval state. AvailableSeats and TotalEnroll are mutated only by the
// enrollment transaction.
type ClassOffering struct {
	ID              string      `db:"id" json:"id"`
	InstructorEmail string      `db:"instructor_email" json:"instructor_email"`
	InstructorName  string      `db:"instructor_name" json:"instructor_name"`
	Title           string      `db:"title" json:"title"`
	ImageURL        string      `db:"image_url" json:"image_url,omitempty"`
	Price           float64     `db:"price" json:"price"`
	Status          ClassStatus `db:"status" json:"status"`
	Feedback        *string     `db:"feedback" json:"feedback,omitempty"`
	AvailableSeats  int         `db:"available_seats" json:"available_seats"`
	TotalEnroll     int         `db:"total_enroll" json:"total_enroll"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}
