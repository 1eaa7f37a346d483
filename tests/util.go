package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/employee"
)

// NopLogger discards everything; tests assert on behavior, not logs.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Enable(bool)                        {}
func (NopLogger) Debug(string, ...interface{})       {}
func (NopLogger) Info(string, ...interface{})        {}
func (NopLogger) Warn(string, ...interface{})        {}
func (NopLogger) Error(string, ...interface{})       {}
func (NopLogger) Fatal(msg string, _ ...interface{}) { panic(msg) }

func NewTestConfig() *core.Config {
	return &core.Config{
		TestMode:        true,
		Env:             "test",
		AppName:         "Capacita",
		FrontendBaseURL: "https://capacita.test",
		Reminder: core.ReminderConfig{
			SendTimeout: 2 * time.Second,
		},
	}
}

type EmployeeAdder interface {
	AddEmployee(emp employee.Employee) employee.Employee
}

func CreateEmployee(t *testing.T, repo EmployeeAdder, first, last, email, location string) employee.Employee {
	t.Helper()
	return repo.AddEmployee(employee.Employee{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Location:  location,
		City:      "Bogota",
	})
}

type CourseCreator interface {
	CreateCourse(ctx context.Context, crs course.Course) (course.Course, error)
}

// CreateCourse seeds a course with two single-choice questions; the first
// answer of each question is the correct one.
func CreateCourse(t *testing.T, repo CourseCreator, title string, threshold int) course.Course {
	t.Helper()
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Title:         title,
		Description:   title + " description",
		PassThreshold: threshold,
		Questions: []course.Question{
			{Prompt: "First question?", Type: course.QuestionTypeSingleChoice, Answers: []course.Answer{
				{Text: "right", Correct: true},
				{Text: "wrong"},
			}},
			{Prompt: "Second question?", Type: course.QuestionTypeSingleChoice, Answers: []course.Answer{
				{Text: "right", Correct: true},
				{Text: "wrong"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("CreateCourse(): %v", err)
	}
	return crs
}
