package subject

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/eden/core"
)

var (
	// errors
	ErrNotFound   = errors.New("subject not found")
	ErrCodeExists = errors.New("a subject with this code already exists")
	ErrHasPeriods = errors.New("subject still has periods")
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, sbj Subject) (Subject, error)
		QuerySubjects(ctx context.Context) ([]Subject, error)
		GetSubject(ctx context.Context, id string) (Subject, error)
		GetSubjectByCode(ctx context.Context, code string) (Subject, error)
		DeleteSubject(ctx context.Context, id string) error
	}

	// PeriodCounter reports how many periods reference a subject.
	PeriodCounter interface {
		CountPeriodsBySubject(ctx context.Context, subjectID string) (int, error)
	}

	Service struct {
		repo    Repository
		periods PeriodCounter
	}
)

func NewService(repo Repository, periods PeriodCounter) *Service {
	return &Service{repo: repo, periods: periods}
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	if _, err := svc.repo.GetSubjectByCode(ctx, ns.Code); err == nil {
		return Subject{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return Subject{}, errors.Wrap(err, "checking subject code")
	}

	now := time.Now().UTC()
	sbj := Subject{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Code:      ns.Code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sbj, err := svc.repo.CreateSubject(ctx, sbj)
	return sbj, errors.Wrap(err, "creating subject")
}

func (svc *Service) Query(ctx context.Context) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Subject{}, ErrNotFound
	}
	return svc.repo.GetSubject(ctx, id)
}

// Delete removes a subject no period refers to anymore.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.GetByID(ctx, id); err != nil {
		return err
	}
	cnt, err := svc.periods.CountPeriodsBySubject(ctx, id)
	if err != nil {
		return errors.Wrap(err, "counting subject periods")
	}
	if cnt > 0 {
		return core.NewValidationError(ErrHasPeriods)
	}
	// the store re-checks atomically; a period may have been created since the count
	if err := svc.repo.DeleteSubject(ctx, id); err != nil {
		if errors.Cause(err) == ErrHasPeriods {
			return core.NewValidationError(ErrHasPeriods)
		}
		return err
	}
	return nil
}
