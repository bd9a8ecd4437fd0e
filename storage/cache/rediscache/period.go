package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
)

const periodGenKey = keyPrefix + "periods:gen"

// PeriodRepository is a read-through cache in front of another period.Repository.
// Cache failures are logged and fall back to the wrapped repository.
type PeriodRepository struct {
	period.Repository

	store  Store
	ttl    time.Duration
	logger core.Logger
}

var _ period.Repository = (*PeriodRepository)(nil) // interface compliance check

func NewPeriodRepository(repo period.Repository, store Store, ttl time.Duration, logger core.Logger) *PeriodRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PeriodRepository{Repository: repo, store: store, ttl: ttl, logger: logger}
}

func (repo *PeriodRepository) generation(ctx context.Context) (string, error) {
	gen, err := repo.store.Get(ctx, periodGenKey)
	if err == ErrCacheMiss {
		return "0", nil
	}
	return gen, err
}

func queryKey(gen string, filter period.QueryFilter, ordering []core.DBOrdering) string {
	var b strings.Builder
	b.WriteString(keyPrefix + "periods:" + gen + ":q")
	if filter.Day != nil {
		b.WriteString(":day=" + strconv.Itoa(int(*filter.Day)))
	}
	if filter.SubjectID != "" {
		b.WriteString(":subject=" + filter.SubjectID)
	}
	for _, ord := range ordering {
		b.WriteString(":" + ord.String())
	}
	return b.String()
}

func (repo *PeriodRepository) QueryPeriods(ctx context.Context, filter period.QueryFilter, ordering []core.DBOrdering) ([]period.Period, error) {
	gen, err := repo.generation(ctx)
	if err != nil {
		repo.logger.Warn("period cache unavailable", errors.Wrap(err, "reading generation"))
		return repo.Repository.QueryPeriods(ctx, filter, ordering)
	}
	key := queryKey(gen, filter, ordering)

	if cached, err := repo.store.Get(ctx, key); err == nil {
		var periods []period.Period
		if err = json.Unmarshal([]byte(cached), &periods); err == nil {
			return periods, nil
		}
		repo.logger.Warn("discarding undecodable cache entry", errors.Wrap(err, key))
	} else if err != ErrCacheMiss {
		repo.logger.Warn("period cache unavailable", errors.Wrap(err, key))
	}

	periods, err := repo.Repository.QueryPeriods(ctx, filter, ordering)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(periods); err == nil {
		if err = repo.store.Set(ctx, key, string(data), repo.ttl); err != nil {
			repo.logger.Warn("period cache unavailable", errors.Wrap(err, key))
		}
	}
	return periods, nil
}

// invalidate bumps the generation so every cached listing becomes unreachable.
func (repo *PeriodRepository) invalidate(ctx context.Context) {
	if _, err := repo.store.Incr(ctx, periodGenKey); err != nil {
		repo.logger.Error(fmt.Sprintf("invalidating period cache: %v", err), err)
	}
}

func (repo *PeriodRepository) CreatePeriod(ctx context.Context, p period.Period) (period.Period, error) {
	p, err := repo.Repository.CreatePeriod(ctx, p)
	if err == nil {
		repo.invalidate(ctx)
	}
	return p, err
}

func (repo *PeriodRepository) UpdatePeriod(ctx context.Context, p period.Period) (period.Period, error) {
	p, err := repo.Repository.UpdatePeriod(ctx, p)
	if err == nil {
		repo.invalidate(ctx)
	}
	return p, err
}

func (repo *PeriodRepository) DeletePeriod(ctx context.Context, id string) error {
	err := repo.Repository.DeletePeriod(ctx, id)
	if err == nil {
		repo.invalidate(ctx)
	}
	return err
}
