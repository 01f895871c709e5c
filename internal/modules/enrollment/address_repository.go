package enrollment

import (
	"context"
	"drivent-backend/internal/models"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AddressRepositoryInterface defines methods for interacting with address storage.
type AddressRepositoryInterface interface {
	Upsert(ctx context.Context, enrollmentID int, params models.AddressParams) (*models.Address, error)
	WithTx(tx pgx.Tx) AddressRepositoryInterface
}

type AddressRepository struct {
	db DBTX
}

func NewAddressRepository(pool *pgxpool.Pool) AddressRepositoryInterface {
	return &AddressRepository{db: pool}
}

func (r *AddressRepository) WithTx(tx pgx.Tx) AddressRepositoryInterface {
	return &AddressRepository{db: tx}
}

const addressColumns = `id, enrollment_id, cep, street, complement, neighborhood, city, state, address_detail, created_at, updated_at`

func scanAddress(row pgx.Row) (*models.Address, error) {
	var a models.Address
	err := row.Scan(
		&a.ID, &a.EnrollmentID, &a.PostalCode, &a.Street, &a.Complement, &a.Neighborhood,
		&a.City, &a.State, &a.AddressDetail, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert overwrites the enrollment's first address, or inserts one when it has none.
// A nil AddressDetail keeps the stored value.
func (r *AddressRepository) Upsert(ctx context.Context, enrollmentID int, params models.AddressParams) (*models.Address, error) {
	updateQuery := `
		UPDATE addresses
		SET cep = $2,
		    street = $3,
		    complement = $4,
		    neighborhood = $5,
		    city = $6,
		    state = $7,
		    address_detail = COALESCE($8, address_detail),
		    updated_at = NOW()
		WHERE id = (SELECT id FROM addresses WHERE enrollment_id = $1 ORDER BY id LIMIT 1)
		RETURNING ` + addressColumns

	args := []any{
		enrollmentID, params.PostalCode, params.Street, params.Complement, params.Neighborhood,
		params.City, params.State, params.AddressDetail,
	}

	address, err := scanAddress(r.db.QueryRow(ctx, updateQuery, args...))
	if err == nil {
		return address, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("repository.UpsertAddress update: %w", err)
	}

	insertQuery := `
		INSERT INTO addresses (enrollment_id, cep, street, complement, neighborhood, city, state, address_detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + addressColumns

	address, err = scanAddress(r.db.QueryRow(ctx, insertQuery, args...))
	if err != nil {
		return nil, fmt.Errorf("repository.UpsertAddress insert: %w", err)
	}
	return address, nil
}
