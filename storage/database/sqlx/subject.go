package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/eden/core/subject"
)

type subjectRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r subjectRow) subject() subject.Subject {
	return subject.Subject{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) subject.Repository {
	return &subjectRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to subject.ErrNotFound
func (repo subjectRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return subject.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo subjectRepository) CreateSubject(ctx context.Context, sbj subject.Subject) (subject.Subject, error) {
	q := `INSERT INTO subject (id, name, code, created_at, updated_at)
		VALUES (:id, :name, :code, :created_at, :updated_at)`
	row := subjectRow{
		ID:        sbj.ID,
		Name:      sbj.Name,
		Code:      sbj.Code,
		CreatedAt: sbj.CreatedAt.UTC(),
		UpdatedAt: sbj.UpdatedAt.UTC(),
	}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return row.subject(), nil
}

func (repo subjectRepository) QuerySubjects(ctx context.Context) ([]subject.Subject, error) {
	var rows []subjectRow
	q := `SELECT id, name, code, created_at, updated_at FROM subject ORDER BY name ASC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.subject())
	}
	return subjects, nil
}

func (repo subjectRepository) get(ctx context.Context, where string, arg interface{}) (subject.Subject, error) {
	var row subjectRow
	q := `SELECT id, name, code, created_at, updated_at FROM subject WHERE ` + where
	if err := repo.db.GetContext(ctx, &row, q, arg); err != nil {
		return subject.Subject{}, repo.trapNoRowsErr(err, "finding subject")
	}
	return row.subject(), nil
}

func (repo subjectRepository) GetSubject(ctx context.Context, id string) (subject.Subject, error) {
	return repo.get(ctx, "id = $1", id)
}

func (repo subjectRepository) GetSubjectByCode(ctx context.Context, code string) (subject.Subject, error) {
	return repo.get(ctx, "code = $1", code)
}

func (repo subjectRepository) DeleteSubject(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM subject WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return subject.ErrHasPeriods
		}
		return errors.Wrap(err, "deleting subject")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return subject.ErrNotFound
	}
	return nil
}
