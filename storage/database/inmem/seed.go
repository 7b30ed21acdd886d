package inmemdb

import "github.com/trezcool/masomo/core/school"

// SeedData returns the demo school: 2 classes, 5 students, 3 teachers, 5 subjects & 12 marks.
func SeedData() Dataset {
	return Dataset{
		Students: []school.Student{
			{ID: "STU001", Name: "John Doe", Email: "john.doe@example.com", Class: "Grade 10A", EnrollmentDate: "2023-09-01"},
			{ID: "STU002", Name: "Jane Smith", Email: "jane.smith@example.com", Class: "Grade 10B", EnrollmentDate: "2023-09-01"},
			{ID: "STU003", Name: "Michael Johnson", Email: "michael.j@example.com", Class: "Grade 10A", EnrollmentDate: "2023-09-01"},
			{ID: "STU004", Name: "Emily Davis", Email: "emily.d@example.com", Class: "Grade 10B", EnrollmentDate: "2023-09-01"},
			{ID: "STU005", Name: "Robert Williams", Email: "robert.w@example.com", Class: "Grade 10A", EnrollmentDate: "2023-09-01"},
		},
		Teachers: []school.Teacher{
			{ID: "TCH001", Name: "Dr. Sarah Wilson", Email: "sarah.wilson@example.com", Subject: "Mathematics", Department: "Science"},
			{ID: "TCH002", Name: "Prof. Mark Brown", Email: "mark.brown@example.com", Subject: "Physics", Department: "Science"},
			{ID: "TCH003", Name: "Ms. Linda Taylor", Email: "linda.taylor@example.com", Subject: "English Literature", Department: "Arts"},
		},
		Subjects: []school.Subject{
			{ID: "SUB001", Name: "Mathematics", Code: "MAT101", TeacherID: "TCH001"},
			{ID: "SUB002", Name: "Physics", Code: "PHY101", TeacherID: "TCH002"},
			{ID: "SUB003", Name: "English", Code: "ENG101", TeacherID: "TCH003"},
			{ID: "SUB004", Name: "Chemistry", Code: "CHM101", TeacherID: "TCH001"},
			{ID: "SUB005", Name: "History", Code: "HIS101", TeacherID: "TCH003"},
		},
		Marks: []school.Mark{
			{ID: "MRK001", StudentID: "STU001", SubjectID: "SUB001", ExamType: school.ExamQuiz, Score: 85, MaxScore: 100, Date: "2024-03-15"},
			{ID: "MRK002", StudentID: "STU001", SubjectID: "SUB002", ExamType: school.ExamMidterm, Score: 78, MaxScore: 100, Date: "2024-03-20"},
			{ID: "MRK003", StudentID: "STU001", SubjectID: "SUB003", ExamType: school.ExamFinal, Score: 92, MaxScore: 100, Date: "2024-04-10"},
			{ID: "MRK004", StudentID: "STU002", SubjectID: "SUB001", ExamType: school.ExamQuiz, Score: 90, MaxScore: 100, Date: "2024-03-15"},
			{ID: "MRK005", StudentID: "STU002", SubjectID: "SUB002", ExamType: school.ExamMidterm, Score: 85, MaxScore: 100, Date: "2024-03-20"},
			{ID: "MRK006", StudentID: "STU002", SubjectID: "SUB003", ExamType: school.ExamFinal, Score: 88, MaxScore: 100, Date: "2024-04-10"},
			{ID: "MRK007", StudentID: "STU003", SubjectID: "SUB001", ExamType: school.ExamQuiz, Score: 75, MaxScore: 100, Date: "2024-03-15"},
			{ID: "MRK008", StudentID: "STU003", SubjectID: "SUB002", ExamType: school.ExamMidterm, Score: 82, MaxScore: 100, Date: "2024-03-20"},
			{ID: "MRK009", StudentID: "STU004", SubjectID: "SUB001", ExamType: school.ExamQuiz, Score: 95, MaxScore: 100, Date: "2024-03-15"},
			{ID: "MRK010", StudentID: "STU004", SubjectID: "SUB002", ExamType: school.ExamMidterm, Score: 91, MaxScore: 100, Date: "2024-03-20"},
			{ID: "MRK011", StudentID: "STU005", SubjectID: "SUB001", ExamType: school.ExamQuiz, Score: 88, MaxScore: 100, Date: "2024-03-15"},
			{ID: "MRK012", StudentID: "STU005", SubjectID: "SUB003", ExamType: school.ExamFinal, Score: 79, MaxScore: 100, Date: "2024-04-10"},
		},
		Attendance: []school.Attendance{
			{ID: "ATT001", StudentID: "STU001", SubjectID: "SUB001", Date: "2024-03-15", Status: school.Present},
			{ID: "ATT002", StudentID: "STU001", SubjectID: "SUB002", Date: "2024-03-20", Status: school.Late},
			{ID: "ATT003", StudentID: "STU001", SubjectID: "SUB003", Date: "2024-04-10", Status: school.Absent},
			{ID: "ATT004", StudentID: "STU002", SubjectID: "SUB001", Date: "2024-03-15", Status: school.Present},
			{ID: "ATT005", StudentID: "STU002", SubjectID: "SUB002", Date: "2024-03-20", Status: school.Present},
		},
	}
}
