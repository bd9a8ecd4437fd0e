package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/eden/core/subject"
)

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sbj subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.subjects[sbj.ID] = &sbj
	return sbj, nil
}

func (repo *subjectRepository) QuerySubjects(context.Context) ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := make([]subject.Subject, 0, len(repo.db.subjects))
	for _, s := range repo.db.subjects {
		subjects = append(subjects, *s)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (repo *subjectRepository) GetSubject(_ context.Context, id string) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sbj, ok := repo.db.subjects[id]; ok {
		return *sbj, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) GetSubjectByCode(_ context.Context, code string) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sbj := range repo.db.subjects {
		if sbj.Code == code {
			return *sbj, nil
		}
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) DeleteSubject(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.subjects[id]; !ok {
		return subject.ErrNotFound
	}
	for _, row := range repo.db.periods {
		if row.subjectID == id {
			return subject.ErrHasPeriods
		}
	}
	delete(repo.db.subjects, id)
	return nil
}
