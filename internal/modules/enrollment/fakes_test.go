package enrollment

import (
	"context"
	"drivent-backend/internal/models"
	"time"

	"github.com/jackc/pgx/v5"
)

// fakeTx implements only the pgx.Tx methods the service calls.
type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

// callLog records repository calls across both fakes, in order.
type callLog struct {
	calls []string
}

func (l *callLog) add(call string) {
	l.calls = append(l.calls, call)
}

type fakeEnrollmentRepo struct {
	log       *callLog
	tx        *fakeTx
	beginErr  error
	upsertErr error
	findErr   error

	usedTx   pgx.Tx
	nextID   int
	byUserID map[int]models.Enrollment
	// addresses is shared with fakeAddressRepo so finds see upserted rows.
	addresses map[int][]models.Address
}

func newFakeEnrollmentRepo(log *callLog, addresses map[int][]models.Address) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		log:       log,
		tx:        &fakeTx{},
		nextID:    1,
		byUserID:  make(map[int]models.Enrollment),
		addresses: addresses,
	}
}

func (r *fakeEnrollmentRepo) FindWithAddressByUserID(ctx context.Context, userID int) (*models.EnrollmentWithAddresses, error) {
	r.log.add("enrollment.find")
	if r.findErr != nil {
		return nil, r.findErr
	}
	e, ok := r.byUserID[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &models.EnrollmentWithAddresses{
		Enrollment: e,
		Addresses:  append([]models.Address(nil), r.addresses[e.ID]...),
	}, nil
}

func (r *fakeEnrollmentRepo) Upsert(ctx context.Context, userID int, params models.EnrollmentParams) (*models.Enrollment, error) {
	r.log.add("enrollment.upsert")
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	now := time.Now()
	e, ok := r.byUserID[userID]
	if !ok {
		e = models.Enrollment{ID: r.nextID, UserID: userID, CreatedAt: now}
		r.nextID++
	}
	e.Name = params.Name
	e.CPF = params.CPF
	e.BirthDate = params.BirthDate
	e.Phone = params.Phone
	e.UpdatedAt = now
	r.byUserID[userID] = e
	return &e, nil
}

func (r *fakeEnrollmentRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	r.log.add("tx.begin")
	if r.beginErr != nil {
		return nil, r.beginErr
	}
	return r.tx, nil
}

func (r *fakeEnrollmentRepo) WithTx(tx pgx.Tx) RepositoryInterface {
	r.usedTx = tx
	return r
}

type fakeAddressRepo struct {
	log       *callLog
	upsertErr error
	usedTx    pgx.Tx
	nextID    int
	rows      map[int][]models.Address
}

func newFakeAddressRepo(log *callLog) *fakeAddressRepo {
	return &fakeAddressRepo{log: log, nextID: 1, rows: make(map[int][]models.Address)}
}

func (r *fakeAddressRepo) Upsert(ctx context.Context, enrollmentID int, params models.AddressParams) (*models.Address, error) {
	r.log.add("address.upsert")
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	existing := r.rows[enrollmentID]
	var a models.Address
	if len(existing) > 0 {
		a = existing[0]
	} else {
		a = models.Address{ID: r.nextID, EnrollmentID: enrollmentID}
		r.nextID++
	}
	a.PostalCode = params.PostalCode
	a.Street = params.Street
	a.Complement = params.Complement
	a.Neighborhood = params.Neighborhood
	a.City = params.City
	a.State = params.State
	if params.AddressDetail != nil {
		a.AddressDetail = params.AddressDetail
	}
	if len(existing) > 0 {
		existing[0] = a
	} else {
		r.rows[enrollmentID] = append(existing, a)
	}
	return &a, nil
}

func (r *fakeAddressRepo) WithTx(tx pgx.Tx) AddressRepositoryInterface {
	r.usedTx = tx
	return r
}
