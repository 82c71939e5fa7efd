package services

import (
	"context"
	"time"

	"fleetdesk/internal/database"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmploymentService manages employments. Termination is refused while the
// employment still holds an active assignment.
type EmploymentService struct {
	db             database.DB
	transaction    *TransactionService
	guard          *AvailabilityGuardService
	employmentRepo repositories.EmploymentRepository
	log            logger.Logger
}

func NewEmploymentService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	guard *AvailabilityGuardService,
) *EmploymentService {
	return &EmploymentService{
		db:             db,
		transaction:    transaction,
		guard:          guard,
		employmentRepo: repos.Employment,
		log:            logger.New("EmploymentService"),
	}
}

func (s *EmploymentService) Create(ctx context.Context, employment *Employment) (*Employment, error) {
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.employmentRepo.Create(ctx, tx, employment)
	})
	if err != nil {
		return nil, err
	}
	return employment, nil
}

// Terminate ends the employment on the given date after checking that no
// active assignment remains.
func (s *EmploymentService) Terminate(
	ctx context.Context,
	id uuid.UUID,
	terminationDate time.Time,
) (*Employment, error) {
	log := s.log.Function("Terminate")

	var employment *Employment
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		employment, err = s.employmentRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.guard.ValidateEmploymentTermination(ctx, tx, employment, terminationDate); err != nil {
			return err
		}

		employment.Status = EmploymentStatusTerminated
		employment.TerminationDate = &terminationDate
		return s.employmentRepo.Update(ctx, tx, employment)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Employment terminated", "employmentID", id)
	return employment, nil
}

func (s *EmploymentService) GetByID(ctx context.Context, id uuid.UUID) (*Employment, error) {
	return s.employmentRepo.GetByID(ctx, s.db.SQLWithContext(ctx), id)
}

func (s *EmploymentService) GetAll(ctx context.Context) ([]*Employment, error) {
	return s.employmentRepo.GetAll(ctx, s.db.SQLWithContext(ctx))
}
