package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/services/export"
)

// export writes the timetable, optionally limited to one day, to path.
func (cli *commandLine) export(path, day string) error {
	ctx := context.Background()

	var periods []period.Period
	var err error
	if day == "" {
		periods, err = cli.periodSvc.Query(ctx, nil)
	} else {
		var wd period.Weekday
		if wd, err = period.ParseWeekday(core.CleanString(day)); err != nil {
			return errors.Wrapf(err, "day %q", day)
		}
		periods, err = cli.periodSvc.QueryByDay(ctx, wd)
	}
	if err != nil {
		return errors.Wrap(err, "querying periods")
	}

	var buf bytes.Buffer
	if err = export.WriteTimetable(&buf, periods); err != nil {
		return err
	}
	if err = os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "writing export file")
	}
	fmt.Fprintf(stdout, "exported %d periods to %s\n", len(periods), path)
	return nil
}
