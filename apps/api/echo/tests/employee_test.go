package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/capacitahr/capacita/core/employee"
	"github.com/capacitahr/capacita/core/training"
	testutil "github.com/capacitahr/capacita/tests"
)

func Test_employeeApi_assignmentValues(t *testing.T) {
	db.Reset()

	testutil.CreateEmployee(t, empRepo, "Ana", "Diaz", "ana@test.co", "Bogota")
	testutil.CreateEmployee(t, empRepo, "Luis", "Rojas", "luis@test.co", "Cali")

	tt := httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, employee.AssignmentValues{
			Locations: []string{"Bogota", "Cali"},
			Cities:    []string{"Bogota"},
		}),
	}
	req, rec := newRequest(http.MethodGet, "/v1/employees/assignment-values")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_employeeApi_dashboard(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	ana := testutil.CreateEmployee(t, empRepo, "Ana", "Diaz", "ana@test.co", "Bogota")
	pending := testutil.CreateCourse(t, crsRepo, "Pending Course", 70)
	passed := testutil.CreateCourse(t, crsRepo, "Passed Course", 70)
	cancelled := testutil.CreateCourse(t, crsRepo, "Cancelled Course", 70)

	if _, err := trnRepo.AssignEmployees(ctx, pending.ID, []int{ana.ID}); err != nil {
		t.Fatalf("AssignEmployees(): %v", err)
	}
	if _, err := trnRepo.AssignEmployees(ctx, passed.ID, []int{ana.ID}); err != nil {
		t.Fatalf("AssignEmployees(): %v", err)
	}
	if _, err := trnRepo.AssignEmployees(ctx, cancelled.ID, []int{ana.ID}); err != nil {
		t.Fatalf("AssignEmployees(): %v", err)
	}
	if err := trnRepo.ApplyQuizOutcome(ctx, ana.ID, passed.ID, training.QuizOutcome{
		Nota: 90, Buenas: 2, Graduado: true,
	}); err != nil {
		t.Fatalf("ApplyQuizOutcome(): %v", err)
	}
	cancelRecord(t, ana.ID, cancelled.ID)

	t.Run("unknown employee", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		}
		req, rec := newRequest(http.MethodGet, "/v1/employees/999/dashboard")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("records are bucketed", func(t *testing.T) {
		dash, err := trnSvc.EmployeeDashboard(ctx, ana.ID)
		if err != nil {
			t.Fatalf("EmployeeDashboard(): %v", err)
		}
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, dash),
		}
		req, rec := newRequest(http.MethodGet, fmt.Sprintf("/v1/employees/%d/dashboard", ana.ID))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		if len(dash.Pending) != 1 || dash.Pending[0].CourseID != pending.ID {
			t.Errorf("Pending = %+v, want course %d only", dash.Pending, pending.ID)
		}
		if len(dash.Completed) != 1 || dash.Completed[0].CourseID != passed.ID {
			t.Errorf("Completed = %+v, want course %d only", dash.Completed, passed.ID)
		}
	})
}

// cancelRecord flips the cancelado flag directly; cancellation is owned by an
// admin workflow outside this API.
func cancelRecord(t *testing.T, employeeID, courseID int) {
	t.Helper()
	records, err := trnSvc.QueryByEmployee(context.Background(), employeeID)
	if err != nil {
		t.Fatalf("QueryByEmployee(): %v", err)
	}
	for _, rec := range records {
		if rec.CourseID == courseID {
			if !trnRepo.SetCancelled(rec.ID, true) {
				t.Fatalf("SetCancelled(%d) record not found", rec.ID)
			}
			return
		}
	}
	t.Fatalf("cancelRecord(): no record for employee %d course %d", employeeID, courseID)
}
