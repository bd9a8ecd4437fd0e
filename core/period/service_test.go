package period_test

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/core/subject"
	inmemdb "github.com/trezcool/eden/storage/database/inmem"
	"github.com/trezcool/eden/testutil"
)

func setup(t *testing.T) (*period.Service, subject.Repository) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := &core.Config{Period: core.PeriodConfig{SessionLength: period.DefaultSessionLength, Timezone: "UTC"}}
	sbjRepo := inmemdb.NewSubjectRepository(db)
	svc, err := period.NewService(inmemdb.NewPeriodRepository(db), sbjRepo, conf)
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return svc, sbjRepo
}

func TestNewService_timezone(t *testing.T) {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	conf := &core.Config{Period: core.PeriodConfig{Timezone: "Africa/Kinsasha"}}
	svc, err := period.NewService(inmemdb.NewPeriodRepository(db), inmemdb.NewSubjectRepository(db), conf)
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestService_timestamps(t *testing.T) {
	ctx := context.Background()
	svc, sbjRepo := setup(t)
	created := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	svc.NowFunc = func() time.Time { return created }
	p := testutil.CreatePeriod(t, svc, sbjRepo, "Monday", "08:00")
	assert.True(t, created.Equal(p.CreatedAt))
	assert.True(t, created.Equal(p.UpdatedAt))

	updated := created.Add(time.Hour)
	svc.NowFunc = func() time.Time { return updated }
	p, err := svc.ChangeDay(ctx, p.ID, period.ChangeDay{Day: "Tuesday"})
	require.NoError(t, err)
	assert.True(t, created.Equal(p.CreatedAt))
	assert.True(t, updated.Equal(p.UpdatedAt))
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, sbjRepo := setup(t)
	maths := testutil.CreateSubject(t, sbjRepo, "Mathematics", "MATH")

	p, err := svc.Create(ctx, period.NewPeriod{Day: "Monday", Time: "8:30", Subject: maths.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, period.Monday, p.Day)
	assert.Equal(t, "08:30", p.Time, "time is normalized on write")
	assert.Equal(t, maths.Summary(), p.Subject)
	assert.False(t, p.CreatedAt.IsZero())

	_, err = svc.Create(ctx, period.NewPeriod{Day: "Monday", Time: "8:30", Subject: "5c8e4a0e-0000-4000-8000-000000000000"})
	verr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError; got %v", err)
	assert.Equal(t, "subject", verr.Fields[0].Field)
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	svc, sbjRepo := setup(t)
	p := testutil.CreatePeriod(t, svc, sbjRepo, "Tuesday", "10:00")

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = svc.GetByID(ctx, "lol")
	assert.Equal(t, period.ErrNotFound, err)
	_, err = svc.GetByID(ctx, "5c8e4a0e-0000-4000-8000-000000000000")
	assert.Equal(t, period.ErrNotFound, errors.Cause(err))
}

func TestService_changes(t *testing.T) {
	ctx := context.Background()
	svc, sbjRepo := setup(t)
	p := testutil.CreatePeriod(t, svc, sbjRepo, "Tuesday", "10:00")
	physics := testutil.CreateSubject(t, sbjRepo, "Physics", "PHY")

	p, err := svc.ChangeDay(ctx, p.ID, period.ChangeDay{Day: "Friday"})
	require.NoError(t, err)
	assert.Equal(t, period.Friday, p.Day)

	p, err = svc.ChangeTime(ctx, p.ID, period.ChangeTime{Time: "7:45"})
	require.NoError(t, err)
	assert.Equal(t, "07:45", p.Time)
	assert.Equal(t, period.Friday, p.Day)

	p, err = svc.ChangeSubject(ctx, p.ID, period.ChangeSubject{Subject: physics.ID})
	require.NoError(t, err)
	assert.Equal(t, physics.Summary(), p.Subject)

	p, err = svc.Update(ctx, p.ID, period.UpdatePeriod{Day: "Monday", Time: "13:00", Subject: physics.ID})
	require.NoError(t, err)
	assert.Equal(t, period.Monday, p.Day)
	assert.Equal(t, "13:00", p.Time)
	assert.True(t, !p.UpdatedAt.Before(p.CreatedAt))

	_, err = svc.ChangeDay(ctx, p.ID, period.ChangeDay{Day: "monday"})
	_, ok := errors.Cause(err).(*core.ValidationError)
	assert.True(t, ok, "lower-case day names are rejected; got %v", err)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, sbjRepo := setup(t)
	p := testutil.CreatePeriod(t, svc, sbjRepo, "Tuesday", "10:00")

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, period.ErrNotFound, errors.Cause(svc.Delete(ctx, p.ID)))
	assert.Equal(t, period.ErrNotFound, svc.Delete(ctx, "lol"))
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	svc, sbjRepo := setup(t)
	p1 := testutil.CreatePeriod(t, svc, sbjRepo, "Wednesday", "10:00")
	p2 := testutil.CreatePeriod(t, svc, sbjRepo, "Monday", "14:00")
	p3 := testutil.CreatePeriod(t, svc, sbjRepo, "Monday", "08:00")

	got, err := svc.Query(ctx, []core.DBOrdering{{Field: "day", Ascending: true}, {Field: "time", Ascending: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{p3.ID, p2.ID, p1.ID}, ids(got))

	// unknown fields are ignored
	got, err = svc.Query(ctx, []core.DBOrdering{{Field: "id; DROP TABLE period"}, {Field: "time"}})
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID, p1.ID, p3.ID}, ids(got))

	got, err = svc.QueryByDay(ctx, period.Monday)
	require.NoError(t, err)
	assert.Equal(t, []string{p3.ID, p2.ID}, ids(got))
}

func TestService_Today(t *testing.T) {
	ctx := context.Background()
	svc, sbjRepo := setup(t)
	early := testutil.CreatePeriod(t, svc, sbjRepo, "Wednesday", "08:00")
	mid := testutil.CreatePeriod(t, svc, sbjRepo, "Wednesday", "09:00")
	late := testutil.CreatePeriod(t, svc, sbjRepo, "Wednesday", "11:00")
	thursday := testutil.CreatePeriod(t, svc, sbjRepo, "Thursday", "09:00")
	monday := testutil.CreatePeriod(t, svc, sbjRepo, "Monday", "09:00")

	// Wednesday 2024-01-03, 10:00
	svc.NowFunc = func() time.Time { return time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		day  period.Weekday
		want map[string]period.Status
	}{
		{
			name: "today",
			day:  period.Wednesday,
			want: map[string]period.Status{
				early.ID: period.StatusOver,
				mid.ID:   period.StatusInProgress,
				late.ID:  period.StatusNotStarted,
			},
		},
		{name: "later this week", day: period.Thursday, want: map[string]period.Status{thursday.ID: period.StatusNotStarted}},
		{name: "earlier this week", day: period.Monday, want: map[string]period.Status{monday.ID: period.StatusOver}},
		{name: "no periods", day: period.Saturday, want: map[string]period.Status{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Today(ctx, tt.day)
			require.NoError(t, err)
			statuses := make(map[string]period.Status, len(got))
			for _, cp := range got {
				assert.Equal(t, tt.day, cp.Day)
				statuses[cp.ID] = cp.Status
			}
			assert.Equal(t, tt.want, statuses)
		})
	}
}

func TestService_Today_location(t *testing.T) {
	ctx := context.Background()
	db, _ := inmemdb.Open()
	sbjRepo := inmemdb.NewSubjectRepository(db)
	conf := &core.Config{Period: core.PeriodConfig{Timezone: "Africa/Kinshasa"}} // UTC+1
	svc, err := period.NewService(inmemdb.NewPeriodRepository(db), sbjRepo, conf)
	require.NoError(t, err)
	p := testutil.CreatePeriod(t, svc, sbjRepo, "Wednesday", "09:00")

	// 08:30 UTC is 09:30 in Kinshasa
	svc.NowFunc = func() time.Time { return time.Date(2024, time.January, 3, 8, 30, 0, 0, time.UTC) }

	got, err := svc.Today(ctx, period.Wednesday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)
	assert.Equal(t, period.StatusInProgress, got[0].Status)
}

func ids(periods []period.Period) []string {
	res := make([]string, 0, len(periods))
	for _, p := range periods {
		res = append(res, p.ID)
	}
	return res
}

// vanishingSubjects finds every subject, as a lookup racing a delete would.
type vanishingSubjects struct {
	subject.Repository
}

func (vanishingSubjects) GetSubject(_ context.Context, id string) (subject.Subject, error) {
	return subject.Subject{ID: id, Name: "Ghost", Code: "GHOST"}, nil
}

func TestService_Create_subjectDeleted(t *testing.T) {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	svc, err := period.NewService(inmemdb.NewPeriodRepository(db), vanishingSubjects{}, &core.Config{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), period.NewPeriod{Day: "Monday", Time: "08:00", Subject: uuid.New().String()})
	verr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError; got %v", err)
	assert.Equal(t, []core.FieldError{{Field: "subject", Error: "subject not found"}}, verr.Fields)
}
