package inmemdb

import (
	"cmp"
	"context"
	"sort"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/core/subject"
)

type periodRepository struct {
	db *DB
}

var _ period.Repository = (*periodRepository)(nil) // interface compliance check

func NewPeriodRepository(db *DB) period.Repository {
	return &periodRepository{db: db}
}

// populate expands the subject reference of row. Caller holds the lock.
func (repo *periodRepository) populate(row *periodRow) period.Period {
	p := row.Period
	if sbj, ok := repo.db.subjects[row.subjectID]; ok {
		p.Subject = sbj.Summary()
	} else {
		p.Subject = subject.Summary{ID: row.subjectID}
	}
	return p
}

func (repo *periodRepository) CreatePeriod(_ context.Context, p period.Period) (period.Period, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.subjects[p.Subject.ID]; !ok {
		return period.Period{}, subject.ErrNotFound
	}
	row := &periodRow{Period: p, subjectID: p.Subject.ID}
	row.Subject = subject.Summary{}
	repo.db.periods[p.ID] = row
	return repo.populate(row), nil
}

func (repo *periodRepository) QueryPeriods(_ context.Context, filter period.QueryFilter, ordering []core.DBOrdering) ([]period.Period, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := make([]period.Period, 0, len(repo.db.periods))
	for _, row := range repo.db.periods {
		if filter.Day != nil && row.Day != *filter.Day {
			continue
		}
		if filter.SubjectID != "" && row.subjectID != filter.SubjectID {
			continue
		}
		periods = append(periods, repo.populate(row))
	}
	sortPeriods(periods, ordering)
	return periods, nil
}

func (repo *periodRepository) GetPeriod(_ context.Context, id string) (period.Period, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if row, ok := repo.db.periods[id]; ok {
		return repo.populate(row), nil
	}
	return period.Period{}, period.ErrNotFound
}

func (repo *periodRepository) UpdatePeriod(_ context.Context, p period.Period) (period.Period, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.periods[p.ID]
	if !ok {
		return period.Period{}, period.ErrNotFound
	}
	if _, ok := repo.db.subjects[p.Subject.ID]; !ok {
		return period.Period{}, subject.ErrNotFound
	}
	row.Day = p.Day
	row.Time = p.Time
	row.UpdatedAt = p.UpdatedAt
	row.subjectID = p.Subject.ID
	return repo.populate(row), nil
}

func (repo *periodRepository) DeletePeriod(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.periods[id]; !ok {
		return period.ErrNotFound
	}
	delete(repo.db.periods, id)
	return nil
}

func (repo *periodRepository) CountPeriodsBySubject(_ context.Context, subjectID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var cnt int
	for _, row := range repo.db.periods {
		if row.subjectID == subjectID {
			cnt++
		}
	}
	return cnt, nil
}

// sortPeriods orders periods like the SQL repositories would; the default is by creation date, newest first.
func sortPeriods(periods []period.Period, ordering []core.DBOrdering) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	sort.SliceStable(periods, func(i, j int) bool {
		a, b := periods[i], periods[j]
		for _, ord := range ordering {
			var c int
			switch ord.Field {
			case "day":
				c = cmp.Compare(a.Day, b.Day)
			case "time":
				c = cmp.Compare(a.Time, b.Time)
			case "created_at":
				c = a.CreatedAt.Compare(b.CreatedAt)
			case "updated_at":
				c = a.UpdatedAt.Compare(b.UpdatedAt)
			}
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}
