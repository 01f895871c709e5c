package viacep

import (
	"context"

	"drivent-backend/internal/models"
)

// StubLookup returns fixed values. Calls records every CEP it was asked for.
type StubLookup struct {
	FieldsToReturn *models.AddressFields
	ErrorToReturn  error
	Calls          []string
}

func (s *StubLookup) Lookup(ctx context.Context, cep string) (*models.AddressFields, error) {
	s.Calls = append(s.Calls, cep)
	if s.ErrorToReturn != nil {
		return nil, s.ErrorToReturn
	}
	if s.FieldsToReturn == nil {
		return nil, models.ErrNotFound
	}
	fields := *s.FieldsToReturn
	return &fields, nil
}
