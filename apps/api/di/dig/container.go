package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/eden/apps/api/echo"
	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/core/subject"
	logsvc "github.com/trezcool/eden/services/logger"
	"github.com/trezcool/eden/storage/cache/rediscache"
	"github.com/trezcool/eden/storage/database"
	inmemdb "github.com/trezcool/eden/storage/database/inmem"
	sqlxrepos "github.com/trezcool/eden/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Storage is the set of repositories backed by the configured database engine.
	Storage struct {
		dig.Out

		DB       core.Pinger
		Closer   io.Closer         `name:"dbCloser"`
		Periods  period.Repository `name:"periodStore"`
		Subjects subject.Repository
	}

	CloserParam struct {
		dig.In
		DB    io.Closer     `name:"dbCloser"`
		Cache *redis.Client `optional:"true"`
	}

	periodRepoParams struct {
		dig.In

		Conf   *core.Config
		Logger core.Logger
		Store  period.Repository `name:"periodStore"`
		Cache  *redis.Client     `optional:"true"`
	}
)

func newLog(conf *core.Config) (*logsvc.Log, error) {
	return logsvc.Init(conf.LogLevel, conf.Env)
}

func newLogger(conf *core.Config, zl *logsvc.Log) core.Logger {
	logger := logsvc.NewRollbarLogger(zl.Sugar.Named("api"), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config, zl *logsvc.Log) core.Logger {
	logger := logsvc.NewRollbarLogger(zl.Sugar.Named("db"), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) (Storage, error) {
	if conf.Database.Engine == database.EngineMemory {
		db, err := inmemdb.Open()
		if err != nil {
			return Storage{}, errors.Wrap(err, "opening in-memory database")
		}
		loggerParam.Logger.Info("using in-memory database")
		return Storage{
			DB:       db,
			Closer:   db,
			Periods:  inmemdb.NewPeriodRepository(db),
			Subjects: inmemdb.NewSubjectRepository(db),
		}, nil
	}

	ctx := context.Background()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return Storage{}, errors.Wrap(err, "creating database")
	}
	db, err := database.Open(conf)
	if err != nil {
		return Storage{}, errors.Wrap(err, "opening database")
	}
	if err = database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return Storage{}, err
	}
	loggerParam.Logger.Info(fmt.Sprintf("connected to %s database %q", conf.Database.Engine, conf.Database.Name))
	return Storage{
		DB:       db,
		Closer:   db,
		Periods:  sqlxrepos.NewPeriodRepository(db),
		Subjects: sqlxrepos.NewSubjectRepository(db),
	}, nil
}

// newRedisClient returns a nil client when no redis address is configured.
func newRedisClient(conf *core.Config) (*redis.Client, error) {
	if conf.Redis.Addr == "" {
		return nil, nil
	}
	return rediscache.NewClient(context.Background(), conf.Redis)
}

func newPeriodRepository(p periodRepoParams) period.Repository {
	if p.Cache == nil {
		return p.Store
	}
	return rediscache.NewPeriodRepository(p.Store, rediscache.NewStore(p.Cache), p.Conf.Redis.TTL, p.Logger)
}

func newValidator() *validator.Validate {
	return validator.New()
}

func newPeriodCounter(repo period.Repository) subject.PeriodCounter {
	return repo
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLog))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newRedisClient))
	must(c.Provide(newPeriodRepository))
	must(c.Provide(newPeriodCounter))
	must(c.Provide(newValidator))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(period.NewService))
	must(c.Provide(subject.NewService))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
