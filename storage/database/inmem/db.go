// Package inmemdb provides map-backed repositories for tests and local
// development without Postgres.
package inmemdb

import (
	"sync"

	"github.com/capacitahr/capacita/core/course"
	"github.com/capacitahr/capacita/core/employee"
	"github.com/capacitahr/capacita/core/training"
)

type (
	DB struct {
		employee *employeeTable
		course   *courseTable
		training *trainingTable
	}

	employeeTable struct {
		t     map[int]*employee.Employee
		mutex sync.RWMutex
	}

	courseTable struct {
		t       map[int]*course.Course
		order   []int // insertion order for deterministic pagination
		pkCount int
		mutex   sync.RWMutex
	}

	trainingTable struct {
		t       map[int]*training.Record
		order   []int
		pkCount int
		mutex   sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		employee: &employeeTable{t: make(map[int]*employee.Employee)},
		course:   &courseTable{t: make(map[int]*course.Course)},
		training: &trainingTable{t: make(map[int]*training.Record)},
	}
}

// Reset empties all tables; tests sharing one DB call it between cases.
func (db *DB) Reset() {
	db.employee.mutex.Lock()
	db.employee.t = make(map[int]*employee.Employee)
	db.employee.mutex.Unlock()

	db.course.mutex.Lock()
	db.course.t = make(map[int]*course.Course)
	db.course.order = nil
	db.course.pkCount = 0
	db.course.mutex.Unlock()

	db.training.mutex.Lock()
	db.training.t = make(map[int]*training.Record)
	db.training.order = nil
	db.training.pkCount = 0
	db.training.mutex.Unlock()
}
