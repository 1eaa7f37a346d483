package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/employee"
	"github.com/capacitahr/capacita/core/training"
	emailsvc "github.com/capacitahr/capacita/services/email"
	logsvc "github.com/capacitahr/capacita/services/logger"
	"github.com/capacitahr/capacita/storage/database"
	sqlxrepos "github.com/capacitahr/capacita/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	empSvc := employee.NewService(sqlxrepos.NewEmployeeRepository(dbx))
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(dbx))
	trnSvc := training.NewService(
		sqlxrepos.NewTrainingRepository(dbx),
		empSvc,
		crsSvc,
		emailsvc.NewConsoleService(conf),
		conf,
		appLogger,
	)

	// start CLI
	cli := commandLine{
		db:     db,
		trnSvc: trnSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
