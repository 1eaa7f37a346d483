package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	echoapi "github.com/capacitahr/capacita/apps/api/echo"
	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/training"
	testutil "github.com/capacitahr/capacita/tests"
)

func Test_trainingApi_assign(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	testutil.CreateEmployee(t, empRepo, "Ana", "Diaz", "ana@test.co", "Bogota")
	testutil.CreateEmployee(t, empRepo, "Luis", "Rojas", "luis@test.co", "Bogota")
	testutil.CreateEmployee(t, empRepo, "Mia", "Vega", "mia@test.co", "Cali")
	crs := testutil.CreateCourse(t, crsRepo, "Workplace Safety", 70)

	body := func(courseID int, kind, value string) []byte {
		return marchallObj(t, echoapi.AssignmentRequest{
			CourseID:        courseID,
			AssignmentType:  kind,
			AssignmentValue: value,
		})
	}

	tests := []httpTest{
		{
			name: "course_id is required", method: http.MethodPost, path: "/v1/training-records",
			body:     marchallObj(t, echoapi.AssignmentRequest{AssignmentType: "location", AssignmentValue: "Bogota"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"course_id": "this field is required"}),
		},
		{
			name: "unknown rule kind", method: http.MethodPost, path: "/v1/training-records",
			body:     body(crs.ID, "department", "HR"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"assignment_type": "unknown assignment rule kind"}),
		},
		{
			name: "attribute rule needs a value", method: http.MethodPost, path: "/v1/training-records",
			body:     body(crs.ID, "location", ""),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"assignment_value": "this field is required"}),
		},
		{
			name: "unknown course", method: http.MethodPost, path: "/v1/training-records",
			body:     body(999, "location", "Bogota"),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "assign by location", method: http.MethodPost, path: "/v1/training-records",
			body:     body(crs.ID, "location", "Bogota"),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, echoapi.AssignmentResponse{Count: 2}),
		},
		{
			name: "re-running the rule is idempotent", method: http.MethodPost, path: "/v1/training-records",
			body:     body(crs.ID, "location", "Bogota"),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, echoapi.AssignmentResponse{Count: 0}),
		},
		{
			name: "explicit ids skip duplicates and unknowns", method: http.MethodPost, path: "/v1/training-records",
			body:     body(crs.ID, "explicitIds", "1, 3,3, 99, abc"),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, echoapi.AssignmentResponse{Count: 1}), // only Mia (3) is new
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	records, err := trnSvc.QueryByEmployee(ctx, 1)
	if err != nil || len(records) != 1 {
		t.Errorf("QueryByEmployee(1) = %v records, err %v; want 1 record", len(records), err)
	}
}

func Test_trainingApi_query(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	ana := testutil.CreateEmployee(t, empRepo, "Ana", "Diaz", "ana@test.co", "Bogota")
	luis := testutil.CreateEmployee(t, empRepo, "Luis", "Rojas", "luis@test.co", "Bogota")
	crs := testutil.CreateCourse(t, crsRepo, "Ethics", 70)

	if _, err := trnRepo.AssignEmployees(ctx, crs.ID, []int{ana.ID, luis.ID}); err != nil {
		t.Fatalf("AssignEmployees(): %v", err)
	}

	t.Run("filter is required", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"course_id": "either course_id or employee_id is required"}),
		}
		req, rec := newRequest(http.MethodGet, "/v1/training-records")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("by employee", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, fmt.Sprintf("/v1/training-records?employee_id=%d", ana.ID))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v", rec.Code, http.StatusOK)
		}
		var got []training.Record
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(got) != 1 || got[0].CourseTitle != "Ethics" {
			t.Errorf("records = %+v, want 1 record titled Ethics", got)
		}
	})

	t.Run("roster page joins employee display data", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, fmt.Sprintf("/v1/training-records?course_id=%d&page=1&limit=1", crs.ID))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v", rec.Code, http.StatusOK)
		}
		var got training.RecordPage
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(got.Results) != 1 || got.TotalRecords != 2 || got.TotalPages != 2 {
			t.Errorf("page = %+v, want 1 of 2 over 2 pages", got)
		}
		if got.Results[0].EmployeeName == "" || got.Results[0].EmployeeEmail == "" {
			t.Errorf("roster row = %+v, want joined employee name and email", got.Results[0])
		}
	})

	t.Run("malformed employee_id", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"employee_id": "must be an integer"}),
		}
		req, rec := newRequest(http.MethodGet, "/v1/training-records?employee_id=abc")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_trainingApi_applyOutcome(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	ana := testutil.CreateEmployee(t, empRepo, "Ana", "Diaz", "ana@test.co", "Bogota")
	crs := testutil.CreateCourse(t, crsRepo, "Ethics", 70)
	if _, err := trnRepo.AssignEmployees(ctx, crs.ID, []int{ana.ID}); err != nil {
		t.Fatalf("AssignEmployees(): %v", err)
	}

	tests := []httpTest{
		{
			name: "nota out of range", method: http.MethodPut, path: "/v1/training-records",
			body:     marchallObj(t, echoapi.OutcomeRequest{EmployeeID: ana.ID, CourseID: crs.ID, Nota: 120}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"nota": "nota must be 100 or less"}),
		},
		{
			name: "unknown employee", method: http.MethodPut, path: "/v1/training-records",
			body:     marchallObj(t, echoapi.OutcomeRequest{EmployeeID: 999, CourseID: crs.ID, Nota: 80}),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "unknown course", method: http.MethodPut, path: "/v1/training-records",
			body:     marchallObj(t, echoapi.OutcomeRequest{EmployeeID: ana.ID, CourseID: 999, Nota: 80}),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("outcome is written back", func(t *testing.T) {
		body := marchallObj(t, echoapi.OutcomeRequest{
			EmployeeID: ana.ID, CourseID: crs.ID, Nota: 80, Buenas: 4, Graduado: true,
		})
		req, rec := newRequest(http.MethodPut, "/v1/training-records", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}

		records, _ := trnSvc.QueryByEmployee(ctx, ana.ID)
		rec0 := records[0]
		if !rec0.Realizado || !rec0.Graduado || rec0.Nota != 80 || rec0.Buenas != 4 {
			t.Errorf("record = %+v, want realizado graduado nota=80 buenas=4", rec0)
		}
	})
}

func Test_trainingApi_submitQuiz(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	ana := testutil.CreateEmployee(t, empRepo, "Ana", "Diaz", "ana@test.co", "Bogota")
	crs := testutil.CreateCourse(t, crsRepo, "Workplace Safety", 50)
	full, err := crsSvc.GetByID(ctx, crs.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}

	t.Run("unknown course", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		}
		body := marchallObj(t, echoapi.QuizRequest{EmployeeID: ana.ID, CourseID: 999})
		req, rec := newRequest(http.MethodPost, "/v1/training-records/quiz", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("unknown employee", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		}
		body := marchallObj(t, echoapi.QuizRequest{EmployeeID: 999, CourseID: crs.ID})
		req, rec := newRequest(http.MethodPost, "/v1/training-records/quiz", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("submission is scored and persisted", func(t *testing.T) {
		body := marchallObj(t, echoapi.QuizRequest{
			EmployeeID: ana.ID,
			CourseID:   crs.ID,
			Answers: []course.SubmittedAnswer{
				{QuestionID: full.Questions[0].ID, AnswerID: full.Questions[0].Answers[0].ID},
				{QuestionID: full.Questions[1].ID, AnswerID: full.Questions[1].Answers[1].ID}, // wrong
			},
		})
		req, rec := newRequest(http.MethodPost, "/v1/training-records/quiz", body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got course.QuizResult
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.CorrectCount != 1 || got.Percentage != 50 || !got.Passed {
			t.Errorf("result = %+v, want 1 correct, 50%%, passed", got)
		}

		records, _ := trnSvc.QueryByEmployee(ctx, ana.ID)
		if len(records) != 1 || records[0].Nota != 50 || !records[0].Graduado {
			t.Errorf("records = %+v, want a single graduado record with nota=50", records)
		}
	})
}

func Test_trainingApi_destroyMultiple(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	ana := testutil.CreateEmployee(t, empRepo, "Ana", "Diaz", "ana@test.co", "Bogota")
	luis := testutil.CreateEmployee(t, empRepo, "Luis", "Rojas", "luis@test.co", "Bogota")
	crs := testutil.CreateCourse(t, crsRepo, "Ethics", 70)
	if _, err := trnRepo.AssignEmployees(ctx, crs.ID, []int{ana.ID, luis.ID}); err != nil {
		t.Fatalf("AssignEmployees(): %v", err)
	}
	records, _ := trnSvc.QueryByEmployee(ctx, ana.ID)

	t.Run("ids are required", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"training_record_ids": "this field is required"}),
		}
		req, rec := newRequest(http.MethodDelete, "/v1/training-records", marchallObj(t, echoapi.DeleteRecordsRequest{}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("named records are removed", func(t *testing.T) {
		body := marchallObj(t, echoapi.DeleteRecordsRequest{TrainingRecordIDs: []int{records[0].ID}})
		req, rec := newRequest(http.MethodDelete, "/v1/training-records", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v, want %v", rec.Code, http.StatusNoContent)
		}

		left, _ := trnSvc.QueryByEmployee(ctx, ana.ID)
		if len(left) != 0 {
			t.Errorf("records for ana = %v, want 0", len(left))
		}
		kept, _ := trnSvc.QueryByEmployee(ctx, luis.ID)
		if len(kept) != 1 {
			t.Errorf("records for luis = %v, want 1", len(kept))
		}
	})
}

func Test_trainingApi_sendReminders(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	ana := testutil.CreateEmployee(t, empRepo, "Ana", "Diaz", "ana@test.co", "Bogota")
	mia := testutil.CreateEmployee(t, empRepo, "Mia", "Vega", "", "Cali")
	crs := testutil.CreateCourse(t, crsRepo, "Ethics", 70)
	if _, err := trnRepo.AssignEmployees(ctx, crs.ID, []int{ana.ID, mia.ID}); err != nil {
		t.Fatalf("AssignEmployees(): %v", err)
	}
	anaRecs, _ := trnSvc.QueryByEmployee(ctx, ana.ID)
	miaRecs, _ := trnSvc.QueryByEmployee(ctx, mia.ID)

	mailSvc.SentMessages = nil
	mailSvc.FailAddresses = nil

	t.Run("recipients are required", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"employees": "this field is required"}),
		}
		body := marchallObj(t, training.ReminderBatch{CourseID: crs.ID})
		req, rec := newRequest(http.MethodPost, "/v1/reminders", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("bulk dispatch returns the summary", func(t *testing.T) {
		body := marchallObj(t, training.ReminderBatch{
			CourseID:   crs.ID,
			CourseName: crs.Title,
			Recipients: []training.ReminderRecipient{
				{RecordID: anaRecs[0].ID, Name: "Ana", Email: "ana@test.co"},
				{RecordID: miaRecs[0].ID, Name: "Mia"},
			},
		})
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, training.ReminderSummary{
				TotalEmployees:        2,
				EmployeesWithoutEmail: 1,
				EmailsSent:            1,
			}),
		}
		req, rec := newRequest(http.MethodPost, "/v1/reminders", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		got, ok := trnRepo.GetRecord(anaRecs[0].ID)
		if !ok || got.TotalEnvios != 1 || !got.CorreoEnviado {
			t.Errorf("ledger = %+v, want envios=1 enviado=true", got)
		}
	})
}
