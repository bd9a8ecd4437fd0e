package main

import (
	"context"
	"fmt"

	"github.com/trezcool/eden/core/subject"
)

// addSubject creates a subject.Subject
func (cli *commandLine) addSubject(name, code string) error {
	data := subject.NewSubject{Name: name, Code: code}
	if err := data.Validate(cli.validate); err != nil {
		return err
	}
	sbj, err := cli.sbjSvc.Create(context.Background(), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "created subject %s (%s): %s\n", sbj.Code, sbj.Name, sbj.ID)
	return nil
}
