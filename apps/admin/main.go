package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/core/subject"
	logsvc "github.com/trezcool/eden/services/logger"
	"github.com/trezcool/eden/storage/database"
	inmemdb "github.com/trezcool/eden/storage/database/inmem"
	sqlxrepos "github.com/trezcool/eden/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.Init(conf.LogLevel, conf.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Closer()
	logger = logsvc.NewRollbarLogger(zl.Sugar.Named("admin"), conf)

	cli, closeDB, err := newCommandLine(conf)
	errAndDie(err)
	defer closeDB()

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		closeDB()
		zl.Closer()
		os.Exit(1)
	}
}

func newCommandLine(conf *core.Config) (*commandLine, func(), error) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	period.InitValidators(validate, translator)

	var (
		db         *sqlx.DB
		closeDB    = func() {}
		periodRepo period.Repository
		sbjRepo    subject.Repository
	)
	if conf.Database.Engine == database.EngineMemory {
		mem, err := inmemdb.Open()
		if err != nil {
			return nil, nil, err
		}
		periodRepo, sbjRepo = inmemdb.NewPeriodRepository(mem), inmemdb.NewSubjectRepository(mem)
	} else {
		var err error
		if db, err = database.Open(conf); err != nil {
			return nil, nil, err
		}
		closeDB = func() { _ = db.Close() }
		if err = database.Ping(context.Background(), db); err != nil {
			closeDB()
			return nil, nil, err
		}
		periodRepo, sbjRepo = sqlxrepos.NewPeriodRepository(db), sqlxrepos.NewSubjectRepository(db)
	}

	periodSvc, err := period.NewService(periodRepo, sbjRepo, conf)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	return &commandLine{
		db:        db,
		validate:  validate,
		periodSvc: periodSvc,
		sbjSvc:    subject.NewService(sbjRepo, periodRepo),
	}, closeDB, nil
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
