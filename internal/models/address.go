package models

import "time"

// Address is a postal address row linked to an enrollment.
type Address struct {
	ID            int       `json:"id" db:"id"`
	EnrollmentID  int       `json:"-" db:"enrollment_id"`
	PostalCode    string    `json:"cep" db:"cep"`
	Street        string    `json:"street" db:"street"`
	Complement    string    `json:"complement" db:"complement"`
	Neighborhood  string    `json:"neighborhood" db:"neighborhood"`
	City          string    `json:"city" db:"city"`
	State         string    `json:"state" db:"state"`
	AddressDetail *string   `json:"address_detail,omitempty" db:"address_detail"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// AddressView is the public shape of an Address.
type AddressView struct {
	ID            int     `json:"id"`
	PostalCode    string  `json:"cep"`
	Street        string  `json:"street"`
	Complement    string  `json:"complement"`
	Neighborhood  string  `json:"neighborhood"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	AddressDetail *string `json:"address_detail,omitempty"`
}

// NewAddressView projects an Address, dropping timestamps and the enrollment link.
func NewAddressView(a Address) AddressView {
	return AddressView{
		ID:            a.ID,
		PostalCode:    a.PostalCode,
		Street:        a.Street,
		Complement:    a.Complement,
		Neighborhood:  a.Neighborhood,
		City:          a.City,
		State:         a.State,
		AddressDetail: a.AddressDetail,
	}
}

// AddressFields is what the postal-code provider resolves a CEP to. It is never persisted.
type AddressFields struct {
	Street       string `json:"street"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// AddressParams defines the address fields written by an upsert.
type AddressParams struct {
	PostalCode    string  `json:"cep" validate:"required,cep"`
	Street        string  `json:"street" validate:"required"`
	Complement    string  `json:"complement,omitempty"`
	Neighborhood  string  `json:"neighborhood" validate:"required"`
	City          string  `json:"city" validate:"required"`
	State         string  `json:"state" validate:"required,len=2,alpha"`
	AddressDetail *string `json:"address_detail,omitempty"` // nil leaves the stored value untouched
}
