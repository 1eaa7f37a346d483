package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/capacitahr/capacita/core"
	"github.com/capacitahr/capacita/core/employee"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	_ core.DBExecutor   = (*sqlx.DB)(nil)
	_ core.DBExecutor   = (*sqlx.Tx)(nil)
	_ core.DBTransactor = (*sqlx.Tx)(nil)
)

var byIDAsc = core.DBOrdering{Field: "id", Ascending: true}

// attributeColumns maps rule kinds to their employee directory columns. Kinds
// are validated at the API boundary; an unmapped kind here is a programming
// error.
var attributeColumns = map[employee.AssignmentKind]string{
	employee.AssignByLocation:      "location",
	employee.AssignByCity:          "city",
	employee.AssignByCostCenter:    "cost_center",
	employee.AssignByTenureBracket: "tenure_bracket",
}

type employeeRow struct {
	ID            int    `db:"id"`
	Cedula        string `db:"cedula"`
	FirstName     string `db:"first_name"`
	LastName      string `db:"last_name"`
	Email         string `db:"email"`
	Location      string `db:"location"`
	City          string `db:"city"`
	CostCenter    string `db:"cost_center"`
	TenureBracket string `db:"tenure_bracket"`
}

func (r employeeRow) toDomain() employee.Employee {
	return employee.Employee{
		ID:            r.ID,
		Cedula:        r.Cedula,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Location:      r.Location,
		City:          r.City,
		CostCenter:    r.CostCenter,
		TenureBracket: r.TenureBracket,
	}
}

type employeeRepository struct {
	db core.DBExecutor
}

var _ employee.Repository = (*employeeRepository)(nil)

func NewEmployeeRepository(db core.DBExecutor) *employeeRepository {
	return &employeeRepository{db: db}
}

func (repo employeeRepository) GetEmployeeByID(ctx context.Context, id int) (employee.Employee, error) {
	query, args, err := psql.
		Select("id", "cedula", "first_name", "last_name", "email", "location", "city", "cost_center", "tenure_bracket").
		From("employee").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "building employee query")
	}

	var row employeeRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, errors.Wrap(err, "querying employee")
	}
	return row.toDomain(), nil
}

func (repo employeeRepository) FilterEmployeeIDsByAttribute(ctx context.Context, kind employee.AssignmentKind, value string) ([]int, error) {
	col, ok := attributeColumns[kind]
	if !ok {
		return nil, errors.Errorf("no directory column for rule kind %q", kind)
	}

	query, args, err := psql.
		Select("id").
		From("employee").
		Where(sq.Eq{col: value}).
		OrderBy(byIDAsc.String()).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building employee filter query")
	}

	var ids []int
	if err := repo.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, errors.Wrapf(err, "filtering employees by %s", col)
	}
	return ids, nil
}

func (repo employeeRepository) FilterExistingEmployeeIDs(ctx context.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := psql.
		Select("id").
		From("employee").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building employee existence query")
	}

	var found []int
	if err := repo.db.SelectContext(ctx, &found, query, args...); err != nil {
		return nil, errors.Wrap(err, "checking employee ids")
	}

	// preserve the caller's order
	exists := make(map[int]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	kept := make([]int, 0, len(found))
	for _, id := range ids {
		if exists[id] {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

func (repo employeeRepository) DistinctAssignmentValues(ctx context.Context) (employee.AssignmentValues, error) {
	var vals employee.AssignmentValues
	for col, dst := range map[string]*[]string{
		"location":       &vals.Locations,
		"city":           &vals.Cities,
		"cost_center":    &vals.CostCenters,
		"tenure_bracket": &vals.TenureBrackets,
	} {
		query, args, err := psql.
			Select("DISTINCT " + col).
			From("employee").
			Where(sq.NotEq{col: ""}).
			OrderBy(col).
			ToSql()
		if err != nil {
			return employee.AssignmentValues{}, errors.Wrap(err, "building distinct values query")
		}
		if err := repo.db.SelectContext(ctx, dst, query, args...); err != nil {
			return employee.AssignmentValues{}, errors.Wrapf(err, "querying distinct %s values", col)
		}
	}
	return vals, nil
}
