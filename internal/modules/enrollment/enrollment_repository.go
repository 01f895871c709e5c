package enrollment

import (
	"context"
	"drivent-backend/internal/models"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so repositories run the
// same queries inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RepositoryInterface defines methods for interacting with enrollment storage.
type RepositoryInterface interface {
	FindWithAddressByUserID(ctx context.Context, userID int) (*models.EnrollmentWithAddresses, error)
	Upsert(ctx context.Context, userID int, params models.EnrollmentParams) (*models.Enrollment, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)
	WithTx(tx pgx.Tx) RepositoryInterface
}

type Repository struct {
	pool *pgxpool.Pool
	db   DBTX
}

func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &Repository{pool: pool, db: pool}
}

func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.BeginTx: %w", err)
	}
	return tx, nil
}

// WithTx returns a copy of the repository whose queries run inside tx.
func (r *Repository) WithTx(tx pgx.Tx) RepositoryInterface {
	return &Repository{pool: r.pool, db: tx}
}

const enrollmentColumns = `id, user_id, name, cpf, birthday, phone, created_at, updated_at`

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.CPF, &e.BirthDate, &e.Phone, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindWithAddressByUserID loads the user's enrollment and its addresses ordered by id.
func (r *Repository) FindWithAddressByUserID(ctx context.Context, userID int) (*models.EnrollmentWithAddresses, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1`
	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindWithAddressByUserID: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE enrollment_id = $1
		ORDER BY id`, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("repository.FindWithAddressByUserID addresses: %w", err)
	}
	defer rows.Close()

	result := &models.EnrollmentWithAddresses{Enrollment: *enrollment}
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.FindWithAddressByUserID scan: %w", err)
		}
		result.Addresses = append(result.Addresses, *address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.FindWithAddressByUserID rows: %w", err)
	}
	return result, nil
}

// Upsert creates the user's enrollment, or updates every field but user_id when it exists.
func (r *Repository) Upsert(ctx context.Context, userID int, params models.EnrollmentParams) (*models.Enrollment, error) {
	query := `
		INSERT INTO enrollments (user_id, name, cpf, birthday, phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name,
		    cpf = EXCLUDED.cpf,
		    birthday = EXCLUDED.birthday,
		    phone = EXCLUDED.phone,
		    updated_at = NOW()
		RETURNING ` + enrollmentColumns

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, query,
		userID, params.Name, params.CPF, params.BirthDate, params.Phone,
	))
	if err != nil {
		return nil, fmt.Errorf("repository.UpsertEnrollment: %w", err)
	}
	return enrollment, nil
}
