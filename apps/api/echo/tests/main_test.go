package tests

import (
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/capacitahr/capacita/apps/api/echo"
	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/employee"
	"github.com/capacitahr/capacita/core/training"
	emailsvc "github.com/capacitahr/capacita/services/email"
	inmemdb "github.com/capacitahr/capacita/storage/database/inmem"
	testutil "github.com/capacitahr/capacita/tests"
)

var (
	app *echoapi.Server
	db  *inmemdb.DB

	empRepo *inmemdb.EmployeeRepository
	crsRepo *inmemdb.CourseRepository
	trnRepo *inmemdb.TrainingRepository

	crsSvc  *course.Service
	trnSvc  *training.Service
	mailSvc *emailsvc.ConsoleServiceMock
)

func TestMain(m *testing.M) {
	conf := testutil.NewTestConfig()

	// set up DB & repos
	db = inmemdb.Open()
	empRepo = inmemdb.NewEmployeeRepository(db)
	crsRepo = inmemdb.NewCourseRepository(db)
	trnRepo = inmemdb.NewTrainingRepository(db)

	// set up services
	mailSvc = emailsvc.NewConsoleServiceMock(conf)
	empSvc := employee.NewService(empRepo)
	crsSvc = course.NewService(crsRepo)
	trnSvc = training.NewService(trnRepo, empSvc, crsSvc, mailSvc, conf, testutil.NopLogger{})

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// set up server
	app = echoapi.NewServer(
		"",  /* addr */
		nil, /* shutdown */
		&echoapi.Deps{
			Conf:           conf,
			Logger:         testutil.NopLogger{},
			EmployeeSvc:    empSvc,
			CourseSvc:      crsSvc,
			TrainingSvc:    trnSvc,
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
		},
	)

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
