package analytics

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core/school"
)

type (
	SubjectShare struct {
		SubjectID    string  `json:"subject_id"`
		Name         string  `json:"name"`
		Students     int     `json:"students"`
		AverageScore float64 `json:"average_score"`
	}

	ClassSummary struct {
		Name         string  `json:"name"`
		AverageScore float64 `json:"average_score"`
		Students     int     `json:"students"`
	}

	SubjectMarks struct {
		Subject           school.Subject `json:"subject"`
		Marks             []school.Mark  `json:"marks"`
		AveragePercentage float64        `json:"average_percentage"`
		Grade             string         `json:"grade"`
	}

	Overview struct {
		Students     int     `json:"students"`
		Teachers     int     `json:"teachers"`
		Subjects     int     `json:"subjects"`
		Marks        int     `json:"marks"`
		AverageScore float64 `json:"average_score"`
	}
)

// TopStudents ranks every student by raw mean and returns the n best. n <= 0 returns them all.
func (e *Engine) TopStudents(n int) ([]Ranking, error) {
	students, err := e.src.Students()
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	marks, err := e.src.Marks()
	if err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}

	rankings := rank(students, marks)
	if n > 0 && len(rankings) > n {
		rankings = rankings[:n]
	}
	return rankings, nil
}

// SubjectDistribution returns, for every subject, how many distinct students were examined & their raw mean.
func (e *Engine) SubjectDistribution() ([]SubjectShare, error) {
	subjects, err := e.src.Subjects()
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	marks, err := e.src.Marks()
	if err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}

	bySubject := make(map[string][]school.Mark)
	for _, mark := range marks {
		bySubject[mark.SubjectID] = append(bySubject[mark.SubjectID], mark)
	}

	shares := make([]SubjectShare, len(subjects))
	for i, sub := range subjects {
		subMarks := bySubject[sub.ID]
		students := make(map[string]bool)
		for _, mark := range subMarks {
			students[mark.StudentID] = true
		}
		shares[i] = SubjectShare{
			SubjectID:    sub.ID,
			Name:         sub.Name,
			Students:     len(students),
			AverageScore: RawMean(subMarks),
		}
	}
	return shares, nil
}

// ClassComparison summarises every class, in first-seen order.
func (e *Engine) ClassComparison() ([]ClassSummary, error) {
	classes, err := e.src.Classes()
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}

	summaries := make([]ClassSummary, 0, len(classes))
	for _, class := range classes {
		stats, err := e.ClassPerformance(class)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ClassSummary{
			Name:         class,
			AverageScore: stats.AverageScore,
			Students:     stats.TotalStudents,
		})
	}
	return summaries, nil
}

// StudentMarksBySubject groups a student's marks per subject with their percentage average & grade.
// Unlike the raw-mean statistics, the average here is a mean of percentages.
func (e *Engine) StudentMarksBySubject(studentID string) ([]SubjectMarks, error) {
	marks, err := e.src.MarksByStudent(studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying student marks")
	}
	subjects, err := e.src.Subjects()
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}

	bySubject := make(map[string][]school.Mark)
	for _, mark := range marks {
		bySubject[mark.SubjectID] = append(bySubject[mark.SubjectID], mark)
	}

	groups := make([]SubjectMarks, 0, len(bySubject))
	for _, sub := range subjects {
		subMarks := bySubject[sub.ID]
		if len(subMarks) == 0 {
			continue
		}
		sorted := append([]school.Mark(nil), subMarks...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time().After(sorted[j].Time()) })

		avg := PercentageMean(subMarks)
		groups = append(groups, SubjectMarks{
			Subject:           sub,
			Marks:             sorted,
			AveragePercentage: avg,
			Grade:             GradeLetter(avg),
		})
	}
	return groups, nil
}

// AttendanceRate is the share of a student's sessions attended (present or late), between 0 and 1.
func (e *Engine) AttendanceRate(studentID string) (float64, error) {
	records, err := e.src.AttendanceByStudent(studentID)
	if err != nil {
		return 0, errors.Wrap(err, "querying attendance")
	}
	if len(records) == 0 {
		return 0, nil
	}
	var attended int
	for _, rec := range records {
		if rec.Status == school.Present || rec.Status == school.Late {
			attended++
		}
	}
	return float64(attended) / float64(len(records)), nil
}

// Overview counts the school's records.
func (e *Engine) Overview() (Overview, error) {
	students, err := e.src.Students()
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying students")
	}
	teachers, err := e.src.Teachers()
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying teachers")
	}
	subjects, err := e.src.Subjects()
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying subjects")
	}
	marks, err := e.src.Marks()
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying marks")
	}
	return Overview{
		Students:     len(students),
		Teachers:     len(teachers),
		Subjects:     len(subjects),
		Marks:        len(marks),
		AverageScore: RawMean(marks),
	}, nil
}
