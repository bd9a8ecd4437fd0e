package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/core/subject"
)

// selectPeriods expands the subject with a left join so orphaned periods are still listed.
const selectPeriods = `SELECT p.id, p.day, p.time, p.subject_id, p.created_at, p.updated_at,
		COALESCE(s.name, '') AS subject_name, COALESCE(s.code, '') AS subject_code
	FROM period p
	LEFT JOIN subject s ON s.id = p.subject_id`

type periodRow struct {
	ID          string    `db:"id"`
	Day         int       `db:"day"`
	Time        string    `db:"time"`
	SubjectID   string    `db:"subject_id"`
	SubjectName string    `db:"subject_name"`
	SubjectCode string    `db:"subject_code"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r periodRow) period() (period.Period, error) {
	day, err := period.WeekdayFromOrdinal(r.Day)
	if err != nil {
		return period.Period{}, core.NewIntegrityError("period", r.ID, errors.Wrap(err, "reading day"))
	}
	return period.Period{
		ID:        r.ID,
		Day:       day,
		Time:      r.Time,
		Subject:   subject.Summary{ID: r.SubjectID, Name: r.SubjectName, Code: r.SubjectCode},
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}, nil
}

type periodRepository struct {
	db *sqlx.DB
}

var _ period.Repository = (*periodRepository)(nil) // interface compliance check

func NewPeriodRepository(db *sqlx.DB) period.Repository {
	return &periodRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to period.ErrNotFound
func (repo periodRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return period.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo periodRepository) CreatePeriod(ctx context.Context, p period.Period) (period.Period, error) {
	q := `INSERT INTO period (id, day, time, subject_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := repo.db.ExecContext(ctx, q, p.ID, int(p.Day), p.Time, p.Subject.ID, p.CreatedAt.UTC(), p.UpdatedAt.UTC()); err != nil {
		if isForeignKeyViolation(err) {
			return period.Period{}, subject.ErrNotFound
		}
		return period.Period{}, errors.Wrap(err, "inserting period")
	}
	return repo.GetPeriod(ctx, p.ID)
}

func (repo periodRepository) QueryPeriods(ctx context.Context, filter period.QueryFilter, ordering []core.DBOrdering) ([]period.Period, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Day != nil {
		args = append(args, int(*filter.Day))
		where = append(where, "p.day = ?")
	}
	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		where = append(where, "p.subject_id = ?")
	}

	q := selectPeriods
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + orderBy(ordering)

	var rows []periodRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying periods")
	}
	periods := make([]period.Period, 0, len(rows))
	for _, r := range rows {
		p, err := r.period()
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func (repo periodRepository) GetPeriod(ctx context.Context, id string) (period.Period, error) {
	var row periodRow
	if err := repo.db.GetContext(ctx, &row, selectPeriods+" WHERE p.id = $1", id); err != nil {
		return period.Period{}, repo.trapNoRowsErr(err, "finding period")
	}
	return row.period()
}

func (repo periodRepository) UpdatePeriod(ctx context.Context, p period.Period) (period.Period, error) {
	q := `UPDATE period SET day = $2, time = $3, subject_id = $4, updated_at = $5 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, p.ID, int(p.Day), p.Time, p.Subject.ID, p.UpdatedAt.UTC())
	if err != nil {
		if isForeignKeyViolation(err) {
			return period.Period{}, subject.ErrNotFound
		}
		return period.Period{}, errors.Wrap(err, "updating period")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return period.Period{}, period.ErrNotFound
	}
	return repo.GetPeriod(ctx, p.ID)
}

func (repo periodRepository) DeletePeriod(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM period WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting period")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return period.ErrNotFound
	}
	return nil
}

func (repo periodRepository) CountPeriodsBySubject(ctx context.Context, subjectID string) (int, error) {
	var cnt int
	if err := repo.db.GetContext(ctx, &cnt, `SELECT COUNT(*) FROM period WHERE subject_id = $1`, subjectID); err != nil {
		return 0, errors.Wrap(err, "counting periods")
	}
	return cnt, nil
}

// orderBy renders ordering (already restricted to known fields) as an ORDER BY list.
func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return "p.created_at DESC"
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		ord.Field = "p." + ord.Field
		orderList = append(orderList, ord.String())
	}
	return strings.Join(orderList, ", ")
}
