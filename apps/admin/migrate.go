package main

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/eden/storage/database"
)

var errNoSQLDatabase = errors.New("migrations require a SQL database engine")

var gooseRunFunc = func(ctx context.Context, db *sqlx.DB, command string, args ...string) error { // mockable
	if db == nil {
		return errNoSQLDatabase
	}
	return database.RunMigrations(ctx, db, command, args...)
}

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(context.Background(), cli.db, args[0], arguments...)
}
