package employee_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/capacitahr/capacita/core/employee"
	inmemdb "github.com/capacitahr/capacita/storage/database/inmem"
	testutil "github.com/capacitahr/capacita/tests"
)

func TestService_ResolveRule(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewEmployeeRepository(inmemdb.Open())
	svc := employee.NewService(repo)

	ana := testutil.CreateEmployee(t, repo, "Ana", "Diaz", "ana@test.co", "Bogota")
	luis := testutil.CreateEmployee(t, repo, "Luis", "Rojas", "luis@test.co", "Bogota")
	mia := testutil.CreateEmployee(t, repo, "Mia", "Vega", "mia@test.co", "Cali")

	tests := []struct {
		name string
		rule employee.AssignmentRule
		want []int
	}{
		{
			name: "location match",
			rule: employee.AssignmentRule{Kind: employee.AssignByLocation, Value: "Bogota"},
			want: []int{ana.ID, luis.ID},
		},
		{
			name: "location no match",
			rule: employee.AssignmentRule{Kind: employee.AssignByLocation, Value: "Medellin"},
		},
		{
			name: "attribute match is case-sensitive",
			rule: employee.AssignmentRule{Kind: employee.AssignByLocation, Value: "bogota"},
		},
		{
			name: "explicit ids keeps existing only",
			rule: employee.AssignmentRule{Kind: employee.AssignByExplicitIDs, IDs: []int{mia.ID, 99, ana.ID}},
			want: []int{mia.ID, ana.ID},
		},
		{
			name: "explicit ids all unknown",
			rule: employee.AssignmentRule{Kind: employee.AssignByExplicitIDs, IDs: []int{98, 99}},
			want: []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveRule(ctx, tt.rule)
			if err != nil {
				t.Fatalf("ResolveRule(): %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveRule() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_AssignmentValues(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewEmployeeRepository(inmemdb.Open())
	svc := employee.NewService(repo)

	testutil.CreateEmployee(t, repo, "Ana", "Diaz", "ana@test.co", "Bogota")
	testutil.CreateEmployee(t, repo, "Luis", "Rojas", "luis@test.co", "Bogota")
	testutil.CreateEmployee(t, repo, "Mia", "Vega", "mia@test.co", "Cali")

	vals, err := svc.AssignmentValues(ctx)
	if err != nil {
		t.Fatalf("AssignmentValues(): %v", err)
	}
	if want := []string{"Bogota", "Cali"}; !reflect.DeepEqual(vals.Locations, want) {
		t.Errorf("Locations = %v, want %v", vals.Locations, want)
	}
	if want := []string{"Bogota"}; !reflect.DeepEqual(vals.Cities, want) {
		t.Errorf("Cities = %v, want %v", vals.Cities, want)
	}
	// empty attributes never surface as picker values
	if len(vals.CostCenters) != 0 || len(vals.TenureBrackets) != 0 {
		t.Errorf("CostCenters/TenureBrackets = %v/%v, want empty", vals.CostCenters, vals.TenureBrackets)
	}
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewEmployeeRepository(inmemdb.Open())
	svc := employee.NewService(repo)

	ana := testutil.CreateEmployee(t, repo, "Ana", "Diaz", "ana@test.co", "Bogota")

	got, err := svc.GetByID(ctx, ana.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if got.Email != "ana@test.co" {
		t.Errorf("GetByID() Email = %q, want ana@test.co", got.Email)
	}

	if _, err := svc.GetByID(ctx, 99); err != employee.ErrNotFound {
		t.Errorf("GetByID(99) error = %v, want %v", err, employee.ErrNotFound)
	}
}
