package school

import (
	"time"

	"github.com/trezcool/masomo/core"
)

type ExamType string

const (
	ExamQuiz    ExamType = "quiz"
	ExamMidterm ExamType = "midterm"
	ExamFinal   ExamType = "final"
)

var ExamTypes = []ExamType{ExamQuiz, ExamMidterm, ExamFinal}

func (et ExamType) IsValid() bool {
	for _, t := range ExamTypes {
		if et == t {
			return true
		}
	}
	return false
}

type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	Late    AttendanceStatus = "late"
)

type Student struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Class          string `json:"class"`
	EnrollmentDate string `json:"enrollment_date"`
}

type Teacher struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Department string `json:"department"`
}

type Subject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	TeacherID string `json:"teacher_id"`
}

// Mark is one exam result for one student in one subject.
type Mark struct {
	ID        string   `json:"id"`
	StudentID string   `json:"student_id"`
	SubjectID string   `json:"subject_id"`
	ExamType  ExamType `json:"exam_type"`
	Score     float64  `json:"score"`
	MaxScore  float64  `json:"max_score"`
	Date      string   `json:"date"` // YYYY-MM-DD
}

// Time parses the mark's Date. The zero time is returned for malformed dates.
func (m Mark) Time() time.Time {
	t, _ := time.Parse(core.DateLayout, m.Date)
	return t
}

type Attendance struct {
	ID        string           `json:"id"`
	StudentID string           `json:"student_id"`
	SubjectID string           `json:"subject_id"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// NewMark contains information needed to record a new Mark.
// Score is a pointer so that a missing score is told apart from a zero score.
type NewMark struct {
	StudentID string   `json:"student_id" validate:"required,notblank"`
	SubjectID string   `json:"subject_id" validate:"required,notblank"`
	ExamType  ExamType `json:"exam_type" validate:"required,examtype"`
	Score     *float64 `json:"score" validate:"required,gte=0"`
	MaxScore  float64  `json:"max_score" validate:"gt=0"`
	Date      string   `json:"date" validate:"required,isodate"`
}

func (nm *NewMark) Clean() {
	nm.StudentID = core.CleanString(nm.StudentID)
	nm.SubjectID = core.CleanString(nm.SubjectID)
	nm.ExamType = ExamType(core.CleanString(string(nm.ExamType), true /* lower */))
	nm.Date = core.CleanString(nm.Date)
}

// StudentFilter applies AND operation on its set fields.
type StudentFilter struct {
	IDs   []string
	Class string
}

type SubjectFilter struct {
	TeacherID string
}

type MarkFilter struct {
	StudentIDs []string
	SubjectID  string
}

func (f MarkFilter) IsEmpty() bool {
	return len(f.StudentIDs) == 0 && f.SubjectID == ""
}
