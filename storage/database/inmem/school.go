package inmemdb

import (
	"github.com/trezcool/masomo/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) GetStudent(id string) (school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stu := range repo.db.students {
		if stu.ID == id {
			return stu, nil
		}
	}
	return school.Student{}, school.ErrNotFound
}

func (repo *schoolRepository) GetTeacher(id string) (school.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.ID == id {
			return tch, nil
		}
	}
	return school.Teacher{}, school.ErrNotFound
}

func (repo *schoolRepository) GetSubject(id string) (school.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sub := range repo.db.subjects {
		if sub.ID == id {
			return sub, nil
		}
	}
	return school.Subject{}, school.ErrNotFound
}

func (repo *schoolRepository) QueryStudents(filter school.StudentFilter) ([]school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := toSet(filter.IDs)
	students := make([]school.Student, 0, len(repo.db.students))
	for _, stu := range repo.db.students {
		if ids != nil && !ids[stu.ID] {
			continue
		}
		if filter.Class != "" && stu.Class != filter.Class {
			continue
		}
		students = append(students, stu)
	}
	return students, nil
}

func (repo *schoolRepository) QueryTeachers() ([]school.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]school.Teacher{}, repo.db.teachers...), nil
}

func (repo *schoolRepository) QuerySubjects(filter school.SubjectFilter) ([]school.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := make([]school.Subject, 0, len(repo.db.subjects))
	for _, sub := range repo.db.subjects {
		if filter.TeacherID != "" && sub.TeacherID != filter.TeacherID {
			continue
		}
		subjects = append(subjects, sub)
	}
	return subjects, nil
}

// QueryMarks returns marks in insertion order.
// With several StudentIDs, marks are grouped per student following the filter's order.
func (repo *schoolRepository) QueryMarks(filter school.MarkFilter) ([]school.Mark, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if len(filter.StudentIDs) > 1 {
		marks := make([]school.Mark, 0)
		for _, id := range filter.StudentIDs {
			marks = append(marks, repo.queryMarks(school.MarkFilter{StudentIDs: []string{id}, SubjectID: filter.SubjectID})...)
		}
		return marks, nil
	}
	return repo.queryMarks(filter), nil
}

func (repo *schoolRepository) queryMarks(filter school.MarkFilter) []school.Mark {
	marks := make([]school.Mark, 0, len(repo.db.marks))
	for _, mark := range repo.db.marks {
		if len(filter.StudentIDs) == 1 && mark.StudentID != filter.StudentIDs[0] {
			continue
		}
		if filter.SubjectID != "" && mark.SubjectID != filter.SubjectID {
			continue
		}
		marks = append(marks, mark)
	}
	return marks
}

func (repo *schoolRepository) QueryAttendance(studentID string) ([]school.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]school.Attendance, 0)
	for _, rec := range repo.db.attendance {
		if studentID == "" || rec.StudentID == studentID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (repo *schoolRepository) CreateMark(mark school.Mark) (school.Mark, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, m := range repo.db.marks {
		if m.ID == mark.ID {
			return school.Mark{}, school.ErrDuplicateID
		}
	}
	repo.db.marks = append(repo.db.marks, mark)
	return mark, nil
}

func (repo *schoolRepository) CountMarks() (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.marks), nil
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
