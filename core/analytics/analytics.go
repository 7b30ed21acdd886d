// Package analytics derives performance statistics from the school records.
// Every query is recomputed from the source on each call; nothing is cached.
//
// Averages are raw means of Mark.Score, not of Score/MaxScore percentages,
// except where a function says otherwise.
package analytics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core/school"
)

// TrendSize is the number of recent marks in a student's trend.
const TrendSize = 5

// Source is the read side of the record store used by the Engine.
type Source interface {
	StudentByID(id string) (school.Student, error)
	Students() ([]school.Student, error)
	Teachers() ([]school.Teacher, error)
	Subjects() ([]school.Subject, error)
	Marks() ([]school.Mark, error)
	Classes() ([]string, error)
	StudentsByClass(class string) ([]school.Student, error)
	MarksByStudent(studentIDs ...string) ([]school.Mark, error)
	AttendanceByStudent(studentID string) ([]school.Attendance, error)
	SubjectName(id string) string
}

var _ Source = (*school.Service)(nil)

type (
	SubjectStat struct {
		SubjectID   string  `json:"subject_id"`
		SubjectName string  `json:"subject_name"`
		Average     float64 `json:"average"`
		ExamCount   int     `json:"exam_count"`
	}

	TrendPoint struct {
		Date        string          `json:"date"`
		Score       float64         `json:"score"`
		SubjectName string          `json:"subject_name"`
		ExamType    school.ExamType `json:"exam_type"`
	}

	StudentStats struct {
		AverageScore       float64       `json:"average_score"`
		SubjectPerformance []SubjectStat `json:"subject_performance"`
		Trend              []TrendPoint  `json:"trend"`
		TotalExams         int           `json:"total_exams"`
	}

	Ranking struct {
		StudentID   string  `json:"student_id"`
		StudentName string  `json:"student_name"`
		Average     float64 `json:"average"`
		ExamCount   int     `json:"exam_count"`
	}

	ClassStats struct {
		AverageScore       float64       `json:"average_score"`
		SubjectPerformance []SubjectStat `json:"subject_performance"`
		StudentRankings    []Ranking     `json:"student_rankings"`
		TotalStudents      int           `json:"total_students"`
		TotalExams         int           `json:"total_exams"`
	}

	MonthPoint struct {
		Month      string  `json:"month"` // m/yyyy
		Average    float64 `json:"average"`
		TotalExams int     `json:"total_exams"`

		year, month int
	}
)

type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// StudentPerformance computes the statistics of one student's marks.
// An unknown or mark-less student yields zero statistics.
func (e *Engine) StudentPerformance(studentID string) (StudentStats, error) {
	marks, err := e.src.MarksByStudent(studentID)
	if err != nil {
		return StudentStats{}, errors.Wrap(err, "querying student marks")
	}
	subjects, err := e.src.Subjects()
	if err != nil {
		return StudentStats{}, errors.Wrap(err, "querying subjects")
	}

	return StudentStats{
		AverageScore:       RawMean(marks),
		SubjectPerformance: subjectPerformance(subjects, marks),
		Trend:              e.trend(marks),
		TotalExams:         len(marks),
	}, nil
}

// ClassPerformance computes the statistics pooled across the students of class.
func (e *Engine) ClassPerformance(class string) (ClassStats, error) {
	students, err := e.src.StudentsByClass(class)
	if err != nil {
		return ClassStats{}, errors.Wrap(err, "querying class students")
	}
	ids := make([]string, len(students))
	for i, stu := range students {
		ids[i] = stu.ID
	}
	marks, err := e.src.MarksByStudent(ids...)
	if err != nil {
		return ClassStats{}, errors.Wrap(err, "querying class marks")
	}
	subjects, err := e.src.Subjects()
	if err != nil {
		return ClassStats{}, errors.Wrap(err, "querying subjects")
	}

	return ClassStats{
		AverageScore:       RawMean(marks),
		SubjectPerformance: subjectPerformance(subjects, marks),
		StudentRankings:    rank(students, marks),
		TotalStudents:      len(students),
		TotalExams:         len(marks),
	}, nil
}

// MonthlyTrend groups every mark by month and returns the monthly raw means in chronological order.
func (e *Engine) MonthlyTrend() ([]MonthPoint, error) {
	marks, err := e.src.Marks()
	if err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}

	groups := make(map[string][]school.Mark)
	points := make([]MonthPoint, 0)
	for _, mark := range marks {
		year, month, ok := yearMonth(mark.Date)
		if !ok {
			continue
		}
		key := strconv.Itoa(month) + "/" + strconv.Itoa(year)
		if _, seen := groups[key]; !seen {
			points = append(points, MonthPoint{Month: key, year: year, month: month})
		}
		groups[key] = append(groups[key], mark)
	}

	for i := range points {
		grp := groups[points[i].Month]
		points[i].Average = RawMean(grp)
		points[i].TotalExams = len(grp)
	}
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].year != points[j].year {
			return points[i].year < points[j].year
		}
		return points[i].month < points[j].month
	})
	return points, nil
}

// trend returns the TrendSize most recent marks, newest first. Marks of the same date keep their insertion order.
func (e *Engine) trend(marks []school.Mark) []TrendPoint {
	sorted := append([]school.Mark(nil), marks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time().After(sorted[j].Time())
	})
	if len(sorted) > TrendSize {
		sorted = sorted[:TrendSize]
	}

	points := make([]TrendPoint, len(sorted))
	for i, mark := range sorted {
		points[i] = TrendPoint{
			Date:        mark.Date,
			Score:       mark.Score,
			SubjectName: e.src.SubjectName(mark.SubjectID),
			ExamType:    mark.ExamType,
		}
	}
	return points
}

// subjectPerformance averages marks per subject, in subjects order, leaving out subjects without marks.
func subjectPerformance(subjects []school.Subject, marks []school.Mark) []SubjectStat {
	bySubject := make(map[string][]school.Mark)
	for _, mark := range marks {
		bySubject[mark.SubjectID] = append(bySubject[mark.SubjectID], mark)
	}

	stats := make([]SubjectStat, 0, len(bySubject))
	for _, sub := range subjects {
		subMarks := bySubject[sub.ID]
		if len(subMarks) == 0 {
			continue
		}
		stats = append(stats, SubjectStat{
			SubjectID:   sub.ID,
			SubjectName: sub.Name,
			Average:     RawMean(subMarks),
			ExamCount:   len(subMarks),
		})
	}
	return stats
}

// rank returns one Ranking per student sorted by average descending; ties keep the students order.
func rank(students []school.Student, marks []school.Mark) []Ranking {
	byStudent := make(map[string][]school.Mark)
	for _, mark := range marks {
		byStudent[mark.StudentID] = append(byStudent[mark.StudentID], mark)
	}

	rankings := make([]Ranking, len(students))
	for i, stu := range students {
		stuMarks := byStudent[stu.ID]
		rankings[i] = Ranking{
			StudentID:   stu.ID,
			StudentName: stu.Name,
			Average:     RawMean(stuMarks),
			ExamCount:   len(stuMarks),
		}
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Average > rankings[j].Average
	})
	return rankings
}

// RawMean is the arithmetic mean of the marks' scores; 0 when there are none.
func RawMean(marks []school.Mark) float64 {
	if len(marks) == 0 {
		return 0
	}
	var total float64
	for _, mark := range marks {
		total += mark.Score
	}
	return total / float64(len(marks))
}

// yearMonth reads the year and the 1-indexed month of a YYYY-MM-DD date.
func yearMonth(date string) (year, month int, ok bool) {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	var err error
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
