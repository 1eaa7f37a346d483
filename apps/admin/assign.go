package main

import (
	"context"
	"fmt"

	"github.com/capacitahr/capacita/core/employee"
)

func (cli *commandLine) assign(courseID int, kind, value string) error {
	rule, err := employee.ParseAssignmentRule(kind, value)
	if err != nil {
		return err
	}

	count, err := cli.trnSvc.Assign(context.Background(), courseID, rule)
	if err != nil {
		return err
	}
	fmt.Printf("%d employee(s) enrolled in course %d\n", count, courseID)
	return nil
}
