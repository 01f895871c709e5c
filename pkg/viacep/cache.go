package viacep

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"drivent-backend/internal/models"
)

type cachedLookup struct {
	lookup AddressLookup
	cache  *lru.Cache[string, models.AddressFields]
}

// NewCachedLookup keeps up to size successful lookups in memory. Failed lookups
// are not cached. A size of 0 returns lookup unchanged.
func NewCachedLookup(lookup AddressLookup, size int) (AddressLookup, error) {
	if size <= 0 {
		return lookup, nil
	}
	cache, err := lru.New[string, models.AddressFields](size)
	if err != nil {
		return nil, fmt.Errorf("viacep.NewCachedLookup: %w", err)
	}
	return &cachedLookup{lookup: lookup, cache: cache}, nil
}

func (c *cachedLookup) Lookup(ctx context.Context, cep string) (*models.AddressFields, error) {
	if fields, ok := c.cache.Get(cep); ok {
		return &fields, nil
	}

	fields, err := c.lookup.Lookup(ctx, cep)
	if err != nil {
		return nil, err
	}
	c.cache.Add(cep, *fields)

	return fields, nil
}
