package inmemdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/core/school"
)

func newRepo(t *testing.T) school.Repository {
	db, err := OpenSeeded()
	require.NoError(t, err)
	return NewSchoolRepository(db)
}

func markIDs(marks []school.Mark) []string {
	ids := make([]string, len(marks))
	for i, m := range marks {
		ids[i] = m.ID
	}
	return ids
}

func Test_schoolRepository_Get(t *testing.T) {
	repo := newRepo(t)

	stu, err := repo.GetStudent("STU003")
	require.NoError(t, err)
	assert.Equal(t, "Michael Johnson", stu.Name)

	tch, err := repo.GetTeacher("TCH002")
	require.NoError(t, err)
	assert.Equal(t, "Physics", tch.Subject)

	sub, err := repo.GetSubject("SUB004")
	require.NoError(t, err)
	assert.Equal(t, "CHM101", sub.Code)

	_, err = repo.GetStudent("STU999")
	assert.Equal(t, school.ErrNotFound, err)
	_, err = repo.GetTeacher("")
	assert.Equal(t, school.ErrNotFound, err)
	_, err = repo.GetSubject("lol")
	assert.Equal(t, school.ErrNotFound, err)
}

func Test_schoolRepository_QueryStudents(t *testing.T) {
	repo := newRepo(t)

	tests := []struct {
		name    string
		filter  school.StudentFilter
		wantIDs []string
	}{
		{name: "all", wantIDs: []string{"STU001", "STU002", "STU003", "STU004", "STU005"}},
		{name: "class", filter: school.StudentFilter{Class: "Grade 10A"}, wantIDs: []string{"STU001", "STU003", "STU005"}},
		{name: "unknown class", filter: school.StudentFilter{Class: "Grade 12"}, wantIDs: []string{}},
		{name: "ids", filter: school.StudentFilter{IDs: []string{"STU004", "STU002"}}, wantIDs: []string{"STU002", "STU004"}},
		{name: "ids & class", filter: school.StudentFilter{IDs: []string{"STU004", "STU001"}, Class: "Grade 10B"}, wantIDs: []string{"STU004"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students, err := repo.QueryStudents(tt.filter)
			require.NoError(t, err)
			ids := make([]string, len(students))
			for i, s := range students {
				ids[i] = s.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func Test_schoolRepository_QueryMarks(t *testing.T) {
	repo := newRepo(t)

	tests := []struct {
		name    string
		filter  school.MarkFilter
		wantIDs []string
	}{
		{name: "by student", filter: school.MarkFilter{StudentIDs: []string{"STU001"}}, wantIDs: []string{"MRK001", "MRK002", "MRK003"}},
		{name: "by subject", filter: school.MarkFilter{SubjectID: "SUB003"}, wantIDs: []string{"MRK003", "MRK006", "MRK012"}},
		{
			name:    "grouped by students order",
			filter:  school.MarkFilter{StudentIDs: []string{"STU005", "STU001"}},
			wantIDs: []string{"MRK011", "MRK012", "MRK001", "MRK002", "MRK003"},
		},
		{
			name:    "students & subject",
			filter:  school.MarkFilter{StudentIDs: []string{"STU001", "STU002"}, SubjectID: "SUB002"},
			wantIDs: []string{"MRK002", "MRK005"},
		},
		{name: "no match", filter: school.MarkFilter{SubjectID: "SUB005"}, wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marks, err := repo.QueryMarks(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, markIDs(marks))
		})
	}
}

func Test_schoolRepository_CreateMark(t *testing.T) {
	repo := newRepo(t)

	before, err := repo.CountMarks()
	require.NoError(t, err)
	assert.Equal(t, 12, before)

	mark := school.Mark{ID: "MRK013", StudentID: "STU002", SubjectID: "SUB004", ExamType: school.ExamQuiz, Score: 70, MaxScore: 80, Date: "2024-05-02"}
	created, err := repo.CreateMark(mark)
	require.NoError(t, err)
	assert.Equal(t, mark, created)

	after, _ := repo.CountMarks()
	assert.Equal(t, before+1, after)

	marks, err := repo.QueryMarks(school.MarkFilter{StudentIDs: []string{"STU002"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"MRK004", "MRK005", "MRK006", "MRK013"}, markIDs(marks))

	_, err = repo.CreateMark(mark)
	assert.Equal(t, school.ErrDuplicateID, err)
	after, _ = repo.CountMarks()
	assert.Equal(t, before+1, after)
}

func TestDB_Seed_copiesRows(t *testing.T) {
	data := SeedData()
	db, _ := Open()
	db.Seed(data)

	data.Students[0].Name = "changed"
	stu, err := NewSchoolRepository(db).GetStudent("STU001")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", stu.Name)
}
