package core

import (
	"context"
	"database/sql"
)

type (
	// DBExecutor is the query surface the repositories run on. Both *sqlx.DB
	// and *sqlx.Tx satisfy it, so the same query code works standalone or
	// inside an injected transaction.
	DBExecutor interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// DBTransactor is an in-flight transaction.
	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// Page is a normalized page request for LIMIT/OFFSET pagination.
type Page struct {
	Number int
	Size   int
}

const defaultPageSize = 20

func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// TotalPages returns the page count for `total` rows; at least 1 so an
// empty result set still renders as page 1 of 1.
func (p Page) TotalPages(total int) int {
	pages := (total + p.Size - 1) / p.Size
	if pages < 1 {
		pages = 1
	}
	return pages
}
