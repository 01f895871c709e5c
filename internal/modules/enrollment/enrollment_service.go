package enrollment

import (
	"context"
	"drivent-backend/internal/models"
	"drivent-backend/pkg/viacep"
	"fmt"
	"log/slog"
)

// InvalidCEPMessage is the only detail callers see when a postal code cannot be resolved.
const InvalidCEPMessage = "CEP inválido"

// ServiceInterface defines methods for enrollment business logic.
type ServiceInterface interface {
	GetAddressFromCEP(ctx context.Context, cep string) (*models.AddressFields, error)
	GetOneWithAddressByUserID(ctx context.Context, userID int) (*models.EnrollmentView, error)
	CreateOrUpdateEnrollmentWithAddress(ctx context.Context, params models.CreateOrUpdateEnrollmentParams) error
}

type Service struct {
	enrollmentRepo RepositoryInterface
	addressRepo    AddressRepositoryInterface
	cepLookup      viacep.AddressLookup
	logger         *slog.Logger
}

func NewService(
	enrollmentRepo RepositoryInterface,
	addressRepo AddressRepositoryInterface,
	cepLookup viacep.AddressLookup,
	logger *slog.Logger,
) ServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		enrollmentRepo: enrollmentRepo,
		addressRepo:    addressRepo,
		cepLookup:      cepLookup,
		logger:         logger,
	}
}

// GetAddressFromCEP resolves a CEP. models.ErrNotFound is returned unchanged.
func (s *Service) GetAddressFromCEP(ctx context.Context, cep string) (*models.AddressFields, error) {
	return s.cepLookup.Lookup(ctx, cep)
}

func (s *Service) GetOneWithAddressByUserID(ctx context.Context, userID int) (*models.EnrollmentView, error) {
	enrollment, err := s.enrollmentRepo.FindWithAddressByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.GetOneWithAddressByUserID: %w", err)
	}

	view := &models.EnrollmentView{
		ID:        enrollment.ID,
		Name:      enrollment.Name,
		CPF:       enrollment.CPF,
		BirthDate: enrollment.BirthDate,
		Phone:     enrollment.Phone,
	}
	if len(enrollment.Addresses) > 0 {
		address := models.NewAddressView(enrollment.Addresses[0])
		view.Address = &address
	}
	return view, nil
}

// CreateOrUpdateEnrollmentWithAddress validates the CEP, then upserts the enrollment
// and its address in one transaction. Any lookup failure becomes an InvalidDataError.
func (s *Service) CreateOrUpdateEnrollmentWithAddress(ctx context.Context, params models.CreateOrUpdateEnrollmentParams) error {
	// 1. The CEP must resolve before anything is written
	if _, err := s.cepLookup.Lookup(ctx, params.Address.PostalCode); err != nil {
		s.logger.WarnContext(ctx, "postal code lookup failed",
			slog.Int("user_id", params.UserID),
			slog.String("cep", params.Address.PostalCode),
			slog.Any("error", err),
		)
		return models.NewInvalidDataError(InvalidCEPMessage)
	}

	tx, err := s.enrollmentRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("service.CreateOrUpdateEnrollmentWithAddress.BeginTx: %w", err)
	}
	defer tx.Rollback(ctx)

	// 2. Enrollment first: the address needs its id
	enrollment, err := s.enrollmentRepo.WithTx(tx).Upsert(ctx, params.UserID, params.EnrollmentParams)
	if err != nil {
		return fmt.Errorf("service.CreateOrUpdateEnrollmentWithAddress.UpsertEnrollment: %w", err)
	}

	// 3. Address keyed by the enrollment id
	if _, err := s.addressRepo.WithTx(tx).Upsert(ctx, enrollment.ID, params.Address); err != nil {
		return fmt.Errorf("service.CreateOrUpdateEnrollmentWithAddress.UpsertAddress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("service.CreateOrUpdateEnrollmentWithAddress.Commit: %w", err)
	}

	s.logger.InfoContext(ctx, "enrollment saved",
		slog.Int("user_id", params.UserID),
		slog.Int("enrollment_id", enrollment.ID),
	)
	return nil
}
