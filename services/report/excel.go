// Package reportsvc moves school data in & out of spreadsheets.
package reportsvc

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/masomo/core/analytics"
	"github.com/trezcool/masomo/core/school"
)

// Sheet names of the exported workbook.
const (
	StudentsSheet = "Students"
	ClassesSheet  = "Classes"
	TrendSheet    = "Trend"
)

// MarkColumns is the header row expected by ReadMarks, in order.
var MarkColumns = []string{"student_id", "subject_id", "exam_type", "score", "max_score", "date"}

// WriteWorkbook writes the students ranking, the class comparison & the monthly trend as an xlsx workbook.
func WriteWorkbook(w io.Writer, svc *school.Service, engine *analytics.Engine) error {
	students, err := svc.Students()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	classOf := make(map[string]string, len(students))
	for _, stu := range students {
		classOf[stu.ID] = stu.Class
	}
	rankings, err := engine.TopStudents(0)
	if err != nil {
		return errors.Wrap(err, "ranking students")
	}
	classes, err := engine.ClassComparison()
	if err != nil {
		return errors.Wrap(err, "comparing classes")
	}
	trend, err := engine.MonthlyTrend()
	if err != nil {
		return errors.Wrap(err, "computing monthly trend")
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	studentRows := make([][]interface{}, len(rankings))
	for i, r := range rankings {
		rate, err := engine.AttendanceRate(r.StudentID)
		if err != nil {
			return errors.Wrap(err, "computing attendance rate")
		}
		studentRows[i] = []interface{}{
			i + 1, r.StudentID, r.StudentName, classOf[r.StudentID],
			round(r.Average), r.ExamCount, analytics.PerformanceLabel(r.Average), round(rate * 100),
		}
	}
	classRows := make([][]interface{}, len(classes))
	for i, c := range classes {
		classRows[i] = []interface{}{c.Name, c.Students, round(c.AverageScore)}
	}
	trendRows := make([][]interface{}, len(trend))
	for i, p := range trend {
		trendRows[i] = []interface{}{p.Month, round(p.Average), p.TotalExams}
	}

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{StudentsSheet, []interface{}{"Rank", "ID", "Name", "Class", "Average", "Exams", "Performance", "Attendance %"}, studentRows},
		{ClassesSheet, []interface{}{"Class", "Students", "Average"}, classRows},
		{TrendSheet, []interface{}{"Month", "Average", "Exams"}, trendRows},
	}
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return errors.Wrapf(err, "naming sheet %s", sheet.name)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return errors.Wrapf(err, "creating sheet %s", sheet.name)
		}
		if err := writeRows(f, sheet.name, sheet.header, sheet.rows); err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet.name, 1, 1, header); err != nil {
			return errors.Wrapf(err, "styling %s header", sheet.name)
		}
	}
	f.SetActiveSheet(0)

	return errors.Wrap(f.Write(w), "writing workbook")
}

func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	for i, row := range append([][]interface{}{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "addressing row")
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+1)
		}
	}
	return nil
}

// MarkRow is a mark read from a spreadsheet, with its 1-indexed row number.
type MarkRow struct {
	Row  int
	Mark school.NewMark
}

// RowError reports an unreadable spreadsheet row.
type RowError struct {
	Row int
	Err string
}

func (e RowError) Error() string {
	return "row " + strconv.Itoa(e.Row) + ": " + e.Err
}

// ReadMarks reads marks from the first sheet of an xlsx workbook, laid out as MarkColumns after a header row.
// Blank rows are skipped; unreadable rows are reported and left out.
func ReadMarks(r io.Reader) ([]MarkRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading sheet %s", sheet)
	}

	var (
		marks   []MarkRow
		rowErrs []RowError
	)
	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue // header
		}
		nm, err := parseMark(row)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i + 1, Err: err.Error()})
			continue
		}
		marks = append(marks, MarkRow{Row: i + 1, Mark: nm})
	}
	return marks, rowErrs, nil
}

func parseMark(row []string) (school.NewMark, error) {
	cols := make([]string, len(MarkColumns))
	for i := range cols {
		if i < len(row) {
			cols[i] = strings.TrimSpace(row[i])
		}
	}

	nm := school.NewMark{
		StudentID: cols[0],
		SubjectID: cols[1],
		ExamType:  school.ExamType(strings.ToLower(cols[2])),
		Date:      cols[5],
	}
	if cols[3] != "" {
		score, err := strconv.ParseFloat(cols[3], 64)
		if err != nil {
			return nm, errors.Errorf("score %q is not a number", cols[3])
		}
		nm.Score = &score
	}
	if cols[4] != "" {
		max, err := strconv.ParseFloat(cols[4], 64)
		if err != nil {
			return nm, errors.Errorf("max_score %q is not a number", cols[4])
		}
		nm.MaxScore = max
	}
	return nm, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func round(f float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	return v
}
