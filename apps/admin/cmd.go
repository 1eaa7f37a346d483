package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/capacitahr/capacita/core/training"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db     *sql.DB
	trnSvc *training.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - run pending database migrations")
	fmt.Println("  assign -course ID -kind KIND -value VALUE - bulk-enroll employees into a course")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	assignCmd := flag.NewFlagSet("assign", flag.ExitOnError)
	assignCourse := assignCmd.Int("course", 0, "The course id to assign.")
	assignKind := assignCmd.String("kind", "", "Rule kind: location|city|costCenter|tenureBracket|explicitIds.")
	assignValue := assignCmd.String("value", "", "The attribute value, or a comma-separated id list for explicitIds.")

	switch args[1] {
	case "migrate":
		return cli.migrate()
	case "assign":
		if err := assignCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *assignCourse == 0 || *assignKind == "" {
			assignCmd.Usage()
			return errHelp
		}
		return cli.assign(*assignCourse, *assignKind, *assignValue)
	default:
		cli.printUsage()
		return errHelp
	}
}
