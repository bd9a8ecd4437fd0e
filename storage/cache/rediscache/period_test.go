package rediscache

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/core/subject"
	inmemdb "github.com/trezcool/eden/storage/database/inmem"
	"github.com/trezcool/eden/testutil"
)

var errDown = errors.New("connection refused")

type mapStore struct {
	mu   sync.Mutex
	data map[string]string
	down bool
}

func newMapStore() *mapStore { return &mapStore{data: make(map[string]string)} }

func (s *mapStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return "", errDown
	}
	v, ok := s.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (s *mapStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return errDown
	}
	s.data[key] = value
	return nil
}

func (s *mapStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return 0, errDown
	}
	n, _ := strconv.ParseInt(s.data[key], 10, 64)
	n++
	s.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

type countingRepo struct {
	period.Repository
	queries int
}

func (repo *countingRepo) QueryPeriods(ctx context.Context, filter period.QueryFilter, ordering []core.DBOrdering) ([]period.Period, error) {
	repo.queries++
	return repo.Repository.QueryPeriods(ctx, filter, ordering)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fixture struct {
	svc     *period.Service
	sbjRepo subject.Repository
	inner   *countingRepo
	store   *mapStore
}

func setup(t *testing.T) fixture {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	f := fixture{
		sbjRepo: inmemdb.NewSubjectRepository(db),
		inner:   &countingRepo{Repository: inmemdb.NewPeriodRepository(db)},
		store:   newMapStore(),
	}
	repo := NewPeriodRepository(f.inner, f.store, time.Minute, nopLogger{})
	if f.svc, err = period.NewService(repo, f.sbjRepo, &core.Config{}); err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return f
}

func TestPeriodRepository_QueryPeriods(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := testutil.CreatePeriod(t, f.svc, f.sbjRepo, "Monday", "08:00")

	got, err := f.svc.QueryByDay(ctx, period.Monday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, f.inner.queries)

	got, err = f.svc.QueryByDay(ctx, period.Monday)
	require.NoError(t, err)
	assert.Equal(t, 1, f.inner.queries, "second read is served from cache")
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)
	assert.Equal(t, period.Monday, got[0].Day)
	assert.Equal(t, p.Subject, got[0].Subject)

	_, err = f.svc.QueryByDay(ctx, period.Tuesday)
	require.NoError(t, err)
	assert.Equal(t, 2, f.inner.queries, "filters are part of the key")
}

func TestPeriodRepository_invalidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := testutil.CreatePeriod(t, f.svc, f.sbjRepo, "Monday", "08:00")

	_, err := f.svc.QueryByDay(ctx, period.Monday)
	require.NoError(t, err)

	_, err = f.svc.ChangeTime(ctx, p.ID, period.ChangeTime{Time: "09:15"})
	require.NoError(t, err)
	got, err := f.svc.QueryByDay(ctx, period.Monday)
	require.NoError(t, err)
	assert.Equal(t, 2, f.inner.queries)
	require.Len(t, got, 1)
	assert.Equal(t, "09:15", got[0].Time)

	testutil.CreatePeriod(t, f.svc, f.sbjRepo, "Monday", "07:00")
	got, err = f.svc.QueryByDay(ctx, period.Monday)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, f.svc.Delete(ctx, p.ID))
	got, err = f.svc.QueryByDay(ctx, period.Monday)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 4, f.inner.queries)
}

func TestPeriodRepository_storeDown(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.store.down = true
	testutil.CreatePeriod(t, f.svc, f.sbjRepo, "Friday", "10:00")

	for i := 0; i < 2; i++ {
		got, err := f.svc.QueryByDay(ctx, period.Friday)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 2, f.inner.queries, "reads fall through when the cache is unavailable")
}

func TestQueryKey(t *testing.T) {
	day := period.Wednesday
	got := queryKey("3", period.QueryFilter{Day: &day}, []core.DBOrdering{{Field: "time", Ascending: true}})
	assert.Equal(t, "eden:periods:3:q:day=3:time ASC", got)
}
