package main

import (
	"context"
	"strconv"
	"testing"

	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/employee"
	"github.com/capacitahr/capacita/core/training"
	emailsvc "github.com/capacitahr/capacita/services/email"
	inmemdb "github.com/capacitahr/capacita/storage/database/inmem"
	testutil "github.com/capacitahr/capacita/tests"
)

var (
	empRepo *inmemdb.EmployeeRepository
	crsRepo *inmemdb.CourseRepository
	trnSvc  *training.Service
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	conf := testutil.NewTestConfig()
	db := inmemdb.Open()

	empRepo = inmemdb.NewEmployeeRepository(db)
	crsRepo = inmemdb.NewCourseRepository(db)
	trnSvc = training.NewService(
		inmemdb.NewTrainingRepository(db),
		employee.NewService(empRepo),
		course.NewService(crsRepo),
		emailsvc.NewConsoleServiceMock(conf),
		conf,
		testutil.NopLogger{},
	)

	return &commandLine{trnSvc: trnSvc}
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
}

func Test_commandLine_assign(t *testing.T) {
	cli := setup(t)

	ana := testutil.CreateEmployee(t, empRepo, "Ana", "Diaz", "ana@test.co", "Bogota")
	testutil.CreateEmployee(t, empRepo, "Luis", "Rojas", "luis@test.co", "Bogota")
	crs := testutil.CreateCourse(t, crsRepo, "Workplace Safety", 70)
	crsID := strconv.Itoa(crs.ID)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "assign without flags", args: []string{"assign"}, wantErr: errHelp},
		{name: "assign without kind", args: []string{"assign", "-course", crsID}, wantErr: errHelp},
		{name: "unknown course", args: []string{"assign", "-course", "999", "-kind", "location", "-value", "Bogota"}, wantErr: course.ErrNotFound},
		{name: "assign by location", args: []string{"assign", "-course", crsID, "-kind", "location", "-value", "Bogota"}},
		{name: "assign explicit ids", args: []string{"assign", "-course", crsID, "-kind", "explicitIds", "-value", strconv.Itoa(ana.ID)}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	records, err := trnSvc.QueryByEmployee(context.Background(), ana.ID)
	if err != nil {
		t.Fatalf("QueryByEmployee(): %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %v, want 1 despite overlapping rules", len(records))
	}
}
