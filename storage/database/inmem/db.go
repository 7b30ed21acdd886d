package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo/core/school"
)

type (
	// DB holds the school tables in memory. Rows are kept in insertion order.
	DB struct {
		sync.RWMutex
		students   []school.Student
		teachers   []school.Teacher
		subjects   []school.Subject
		marks      []school.Mark
		attendance []school.Attendance
	}
)

func Open() (*DB, error) {
	return &DB{}, nil
}

// OpenSeeded opens a DB loaded with the demo school.
func OpenSeeded() (*DB, error) {
	db, err := Open()
	if err != nil {
		return nil, err
	}
	db.Seed(SeedData())
	return db, nil
}

// Dataset is a full set of rows to load into a DB.
type Dataset struct {
	Students   []school.Student
	Teachers   []school.Teacher
	Subjects   []school.Subject
	Marks      []school.Mark
	Attendance []school.Attendance
}

// Seed replaces the DB content with copies of data's rows.
func (db *DB) Seed(data Dataset) {
	db.Lock()
	defer db.Unlock()

	db.students = append([]school.Student(nil), data.Students...)
	db.teachers = append([]school.Teacher(nil), data.Teachers...)
	db.subjects = append([]school.Subject(nil), data.Subjects...)
	db.marks = append([]school.Mark(nil), data.Marks...)
	db.attendance = append([]school.Attendance(nil), data.Attendance...)
}
