package period

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/subject"
)

var (
	// errors
	ErrNotFound = errors.New("period not found")

	errSubjectNotFound = "subject not found"
)

type (
	// Repository stores periods. Reads return periods with their subject expanded.
	Repository interface {
		CreatePeriod(ctx context.Context, p Period) (Period, error)
		QueryPeriods(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Period, error)
		GetPeriod(ctx context.Context, id string) (Period, error)
		UpdatePeriod(ctx context.Context, p Period) (Period, error)
		DeletePeriod(ctx context.Context, id string) error
		CountPeriodsBySubject(ctx context.Context, subjectID string) (int, error)
	}

	Service struct {
		repo       Repository
		subjects   subject.Repository
		classifier Classifier
		loc        *time.Location

		NowFunc func() time.Time // mockable
	}
)

func NewService(repo Repository, subjects subject.Repository, conf *core.Config) (*Service, error) {
	loc, err := conf.Period.Location()
	if err != nil {
		return nil, err
	}
	return &Service{
		repo:       repo,
		subjects:   subjects,
		classifier: Classifier{SessionLength: conf.Period.SessionLength},
		loc:        loc,
		NowFunc:    time.Now,
	}, nil
}

// Now returns the current moment in the school location.
func (svc *Service) Now() time.Time {
	return svc.NowFunc().In(svc.loc)
}

func (svc *Service) subjectSummary(ctx context.Context, id string) (subject.Summary, error) {
	sbj, err := svc.subjects.GetSubject(ctx, id)
	if err != nil {
		if errors.Cause(err) == subject.ErrNotFound {
			return subject.Summary{}, core.NewValidationError(nil, core.FieldError{Field: "subject", Error: errSubjectNotFound})
		}
		return subject.Summary{}, errors.Wrap(err, "finding subject")
	}
	return sbj.Summary(), nil
}

// subjectGone turns a store-side missing subject into the same validation error a pre-check gives.
func subjectGone(err error) error {
	if errors.Cause(err) == subject.ErrNotFound {
		return core.NewValidationError(err, core.FieldError{Field: "subject", Error: errSubjectNotFound})
	}
	return err
}

func (svc *Service) Create(ctx context.Context, np NewPeriod) (Period, error) {
	day, err := ParseWeekday(np.Day)
	if err != nil {
		return Period{}, core.NewValidationError(err, core.FieldError{Field: "day", Error: weekdayText})
	}
	tm, err := NormalizeTime(np.Time)
	if err != nil {
		return Period{}, core.NewValidationError(err, core.FieldError{Field: "time", Error: clockText})
	}
	sbj, err := svc.subjectSummary(ctx, np.Subject)
	if err != nil {
		return Period{}, err
	}

	now := svc.NowFunc().UTC()
	p := Period{
		ID:        uuid.New().String(),
		Day:       day,
		Time:      tm,
		Subject:   sbj,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p, err = svc.repo.CreatePeriod(ctx, p)
	return p, errors.Wrap(subjectGone(err), "creating period")
}

func (svc *Service) Query(ctx context.Context, ordering []core.DBOrdering) ([]Period, error) {
	return svc.repo.QueryPeriods(ctx, QueryFilter{}, CleanOrdering(ordering))
}

// QueryByDay returns the periods held on day, ordered by time.
func (svc *Service) QueryByDay(ctx context.Context, day Weekday) ([]Period, error) {
	return svc.repo.QueryPeriods(ctx, QueryFilter{Day: &day}, []core.DBOrdering{{Field: "time", Ascending: true}})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Period, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Period{}, ErrNotFound
	}
	return svc.repo.GetPeriod(ctx, id)
}

func (svc *Service) save(ctx context.Context, p Period) (Period, error) {
	p.UpdatedAt = svc.NowFunc().UTC()
	p, err := svc.repo.UpdatePeriod(ctx, p)
	return p, errors.Wrap(subjectGone(err), "updating period")
}

func (svc *Service) Update(ctx context.Context, id string, up UpdatePeriod) (Period, error) {
	p, err := svc.GetByID(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if p.Day, err = ParseWeekday(up.Day); err != nil {
		return Period{}, core.NewValidationError(err, core.FieldError{Field: "day", Error: weekdayText})
	}
	if p.Time, err = NormalizeTime(up.Time); err != nil {
		return Period{}, core.NewValidationError(err, core.FieldError{Field: "time", Error: clockText})
	}
	if p.Subject, err = svc.subjectSummary(ctx, up.Subject); err != nil {
		return Period{}, err
	}
	return svc.save(ctx, p)
}

func (svc *Service) ChangeDay(ctx context.Context, id string, cd ChangeDay) (Period, error) {
	p, err := svc.GetByID(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if p.Day, err = ParseWeekday(cd.Day); err != nil {
		return Period{}, core.NewValidationError(err, core.FieldError{Field: "day", Error: weekdayText})
	}
	return svc.save(ctx, p)
}

func (svc *Service) ChangeTime(ctx context.Context, id string, ct ChangeTime) (Period, error) {
	p, err := svc.GetByID(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if p.Time, err = NormalizeTime(ct.Time); err != nil {
		return Period{}, core.NewValidationError(err, core.FieldError{Field: "time", Error: clockText})
	}
	return svc.save(ctx, p)
}

// ChangeSubject reassigns the period to another subject.
func (svc *Service) ChangeSubject(ctx context.Context, id string, cs ChangeSubject) (Period, error) {
	p, err := svc.GetByID(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if p.Subject, err = svc.subjectSummary(ctx, cs.Subject); err != nil {
		return Period{}, err
	}
	return svc.save(ctx, p)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return svc.repo.DeletePeriod(ctx, id)
}

// Today classifies the periods held on day against the current moment.
func (svc *Service) Today(ctx context.Context, day Weekday) ([]ClassifiedPeriod, error) {
	periods, err := svc.QueryByDay(ctx, day)
	if err != nil {
		return nil, errors.Wrap(err, "querying periods by day")
	}
	return svc.classifier.Classify(periods, day, svc.Now())
}
