package viacep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivent-backend/internal/models"
)

func TestCachedLookup_ReusesSuccessfulLookups(t *testing.T) {
	stub := &StubLookup{FieldsToReturn: &models.AddressFields{City: "Recife", State: "PE"}}

	lookup, err := NewCachedLookup(stub, 10)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		fields, err := lookup.Lookup(context.Background(), "50030-230")
		require.NoError(t, err)
		assert.Equal(t, "Recife", fields.City)
	}
	assert.Equal(t, []string{"50030-230"}, stub.Calls)
}

func TestCachedLookup_DoesNotCacheFailures(t *testing.T) {
	stub := &StubLookup{}

	lookup, err := NewCachedLookup(stub, 10)
	require.NoError(t, err)

	_, err = lookup.Lookup(context.Background(), "00000000")
	assert.ErrorIs(t, err, models.ErrNotFound)

	stub.FieldsToReturn = &models.AddressFields{City: "Natal"}
	fields, err := lookup.Lookup(context.Background(), "00000000")
	require.NoError(t, err)
	assert.Equal(t, "Natal", fields.City)
	assert.Len(t, stub.Calls, 2)
}

func TestCachedLookup_CallerCannotMutateCache(t *testing.T) {
	stub := &StubLookup{FieldsToReturn: &models.AddressFields{City: "Belém"}}
	lookup, err := NewCachedLookup(stub, 10)
	require.NoError(t, err)

	first, err := lookup.Lookup(context.Background(), "66010000")
	require.NoError(t, err)
	first.City = "changed"

	second, err := lookup.Lookup(context.Background(), "66010000")
	require.NoError(t, err)
	assert.Equal(t, "Belém", second.City)
}

func TestNewCachedLookup_ZeroSizeDisablesCache(t *testing.T) {
	stub := &StubLookup{}
	lookup, err := NewCachedLookup(stub, 0)
	require.NoError(t, err)
	assert.Same(t, stub, lookup)
}
