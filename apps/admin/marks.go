package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/user"
	reportsvc "github.com/trezcool/masomo/services/report"
)

var nowFunc = time.Now // mockable

func (cli *commandLine) runAddMark(args []string) error {
	cmd := cli.newFlagSet("addmark")
	studentID := cmd.String("student", "", "The student's id.")
	subjectID := cmd.String("subject", "", "The subject's id.")
	examType := cmd.String("type", "", "The exam type: quiz, midterm or final.")
	score := cmd.String("score", "", "The score obtained.")
	maxScore := cmd.Float64("max", 100, "The maximum attainable score.")
	date := cmd.String("date", "", "The exam date (YYYY-MM-DD); defaults to today.")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	usr, err := cli.authorize(user.RoleTeacher, user.RoleAdmin)
	if err != nil {
		return err
	}

	nm := school.NewMark{
		StudentID: *studentID,
		SubjectID: *subjectID,
		ExamType:  school.ExamType(*examType),
		MaxScore:  *maxScore,
		Date:      *date,
	}
	if nm.Date == "" {
		nm.Date = nowFunc().Format(core.DateLayout)
	}
	if s := strings.TrimSpace(*score); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "score", Error: "score must be a number"})
		}
		nm.Score = &f
	}

	mark, err := cli.svc.AddMarkAs(usr, nm)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Recorded %s: %s scored %s/%s in %s (%s, %s).\n",
		mark.ID, mark.StudentID, formatScore(mark.Score), formatScore(mark.MaxScore),
		cli.svc.SubjectName(mark.SubjectID), mark.ExamType, mark.Date)
	return nil
}

// runImport records every mark of a spreadsheet; rejected rows are reported and skipped.
func (cli *commandLine) runImport(args []string) error {
	cmd := cli.newFlagSet("import")
	in := cmd.String("in", "", "The xlsx file to read marks from.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		cmd.Usage()
		return errHelp
	}
	usr, err := cli.authorize(user.RoleTeacher, user.RoleAdmin)
	if err != nil {
		return err
	}

	f, err := os.Open(*in)
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer f.Close()

	rows, rowErrs, err := reportsvc.ReadMarks(f)
	if err != nil {
		return err
	}
	for _, rowErr := range rowErrs {
		fmt.Fprintf(cli.out, "%s\n", rowErr)
	}

	imported := 0
	for _, row := range rows {
		mark, err := cli.svc.AddMarkAs(usr, row.Mark)
		if err != nil {
			if errors.Cause(err) == core.ErrPermissionDenied || core.IsValidationError(err) {
				fmt.Fprintf(cli.out, "row %d: %s\n", row.Row, strings.ReplaceAll(cli.describe(err), "\n", "; "))
				continue
			}
			return errors.Wrapf(err, "importing row %d", row.Row)
		}
		fmt.Fprintf(cli.out, "row %d: recorded %s\n", row.Row, mark.ID)
		imported++
	}
	fmt.Fprintf(cli.out, "Imported %d marks, rejected %d rows.\n", imported, len(rows)+len(rowErrs)-imported)
	return nil
}

func (cli *commandLine) runExport(args []string) error {
	cmd := cli.newFlagSet("export")
	out := cmd.String("out", "", "The xlsx file to write the report to.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		cmd.Usage()
		return errHelp
	}
	if _, err := cli.authorize(user.RoleAdmin); err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err := reportsvc.WriteWorkbook(f, cli.svc, cli.engine); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	fmt.Fprintf(cli.out, "Report written to %s.\n", *out)
	return nil
}
