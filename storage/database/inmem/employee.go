package inmemdb

import (
	"context"
	"sort"

	"github.com/capacitahr/capacita/core/employee"
)

type EmployeeRepository struct {
	db *employeeTable
}

var _ employee.Repository = (*EmployeeRepository)(nil)

func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db.employee}
}

// AddEmployee seeds the directory; the directory is read-only reference data
// owned by an external HR system, so there is no service-level create.
func (r *EmployeeRepository) AddEmployee(emp employee.Employee) employee.Employee {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if emp.ID == 0 {
		emp.ID = len(r.db.t) + 1
	}
	r.db.t[emp.ID] = &emp
	return emp
}

func (r *EmployeeRepository) GetEmployeeByID(ctx context.Context, id int) (employee.Employee, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if emp, ok := r.db.t[id]; ok {
		return *emp, nil
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (r *EmployeeRepository) FilterEmployeeIDsByAttribute(ctx context.Context, kind employee.AssignmentKind, value string) ([]int, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var ids []int
	for _, emp := range r.db.t {
		var attr string
		switch kind {
		case employee.AssignByLocation:
			attr = emp.Location
		case employee.AssignByCity:
			attr = emp.City
		case employee.AssignByCostCenter:
			attr = emp.CostCenter
		case employee.AssignByTenureBracket:
			attr = emp.TenureBracket
		}
		if attr == value {
			ids = append(ids, emp.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *EmployeeRepository) FilterExistingEmployeeIDs(ctx context.Context, ids []int) ([]int, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	kept := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.db.t[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

func (r *EmployeeRepository) DistinctAssignmentValues(ctx context.Context) (employee.AssignmentValues, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	collect := func(get func(employee.Employee) string) []string {
		seen := make(map[string]bool)
		var vals []string
		for _, emp := range r.db.t {
			if v := get(*emp); v != "" && !seen[v] {
				seen[v] = true
				vals = append(vals, v)
			}
		}
		sort.Strings(vals)
		return vals
	}

	return employee.AssignmentValues{
		Locations:      collect(func(e employee.Employee) string { return e.Location }),
		Cities:         collect(func(e employee.Employee) string { return e.City }),
		CostCenters:    collect(func(e employee.Employee) string { return e.CostCenter }),
		TenureBrackets: collect(func(e employee.Employee) string { return e.TenureBracket }),
	}, nil
}
