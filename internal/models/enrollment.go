package models

import "time"

// Enrollment is a user's registration record. There is at most one per user.
type Enrollment struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"-" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CPF       string    `json:"cpf" db:"cpf"`
	BirthDate time.Time `json:"birthday" db:"birthday"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EnrollmentWithAddresses is an enrollment joined with its address rows, ordered by id.
type EnrollmentWithAddresses struct {
	Enrollment
	Addresses []Address
}

// EnrollmentView is the public shape of an enrollment. Address is omitted when
// the enrollment has no address row.
type EnrollmentView struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	CPF       string       `json:"cpf"`
	BirthDate time.Time    `json:"birthday"`
	Phone     string       `json:"phone"`
	Address   *AddressView `json:"address,omitempty"`
}

// EnrollmentParams defines the mutable enrollment fields. UserID is the upsert key.
type EnrollmentParams struct {
	Name      string    `json:"name" validate:"required,min=3"`
	CPF       string    `json:"cpf" validate:"required,len=11,numeric"`
	BirthDate time.Time `json:"birthday" validate:"required"`
	Phone     string    `json:"phone" validate:"required,min=10,max=14"`
}

// CreateOrUpdateEnrollmentRequest defines the shape of the request body for saving an enrollment.
type CreateOrUpdateEnrollmentRequest struct {
	EnrollmentParams
	Address AddressParams `json:"address"`
}

// CreateOrUpdateEnrollmentParams is the service input: the request plus the authenticated user.
type CreateOrUpdateEnrollmentParams struct {
	UserID int
	EnrollmentParams
	Address AddressParams
}
