package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/core/subject"
)

var (
	stdout io.Writer = os.Stdout // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sqlx.DB // nil with the in-memory engine
	validate  *validator.Validate
	periodSvc *period.Service
	sbjSvc    *subject.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintln(stdout, "  migrate COMMAND [ARGS]                - run a goose command (up, down, status, ...)")
	fmt.Fprintln(stdout, "  addsubject -name NAME -code CODE      - create a subject")
	fmt.Fprintln(stdout, "  export -out FILE [-day DAY]           - write the timetable spreadsheet")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addSubjectCmd := flag.NewFlagSet("addsubject", flag.ContinueOnError)
	addSubjectCmd.SetOutput(stdout)
	addSubjectName := addSubjectCmd.String("name", "", "The subject's name.")
	addSubjectCode := addSubjectCmd.String("code", "", "The subject's unique code (letters, digits, underscores).")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportCmd.SetOutput(stdout)
	exportOut := exportCmd.String("out", "", "The .xlsx file to write.")
	exportDay := exportCmd.String("day", "", "Only export periods held on this day (e.g. Monday).")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			fmt.Fprintln(stdout, "Usage: migrate COMMAND [ARGS]")
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addsubject":
		if err := addSubjectCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addSubjectName == "" || *addSubjectCode == "" {
			addSubjectCmd.Usage()
			return errHelp
		}
		return cli.addSubject(*addSubjectName, *addSubjectCode)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportOut, *exportDay)
	default:
		cli.printUsage()
		return errHelp
	}
}
