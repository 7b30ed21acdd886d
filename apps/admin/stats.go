package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/analytics"
	"github.com/trezcool/masomo/core/user"
)

// minSuggestionRatio is the lowest similarity for a class to be suggested.
const minSuggestionRatio = 0.6

func (cli *commandLine) runStudent(args []string) error {
	cmd := cli.newFlagSet("student")
	id := cmd.String("id", "", "The student's id; defaults to your own when signed in as a student.")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	usr, err := cli.authorize()
	if err != nil {
		return err
	}
	studentID := core.CleanString(*id)
	if usr.Role == user.RoleStudent {
		if studentID == "" {
			studentID = usr.ID
		} else if studentID != usr.ID {
			return core.ErrPermissionDenied
		}
	}
	if studentID == "" {
		cmd.Usage()
		return errHelp
	}

	stu, err := cli.svc.StudentByID(studentID)
	if err != nil {
		return err
	}
	stats, err := cli.engine.StudentPerformance(stu.ID)
	if err != nil {
		return err
	}
	rate, err := cli.engine.AttendanceRate(stu.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "%s (%s) - %s\n", stu.Name, stu.ID, stu.Class)
	fmt.Fprintf(cli.out, "average: %s (%s), exams: %d, attendance: %.0f%%\n\n",
		formatScore(stats.AverageScore), analytics.PerformanceLabel(stats.AverageScore), stats.TotalExams, rate*100)

	subjects := make([][]string, len(stats.SubjectPerformance))
	for i, s := range stats.SubjectPerformance {
		subjects[i] = []string{s.SubjectName, formatScore(s.Average), strconv.Itoa(s.ExamCount)}
	}
	if err := cli.table("SUBJECT\tAVERAGE\tEXAMS", subjects); err != nil {
		return err
	}
	fmt.Fprintln(cli.out)

	trend := make([][]string, len(stats.Trend))
	for i, p := range stats.Trend {
		trend[i] = []string{p.Date, p.SubjectName, string(p.ExamType), formatScore(p.Score)}
	}
	return cli.table("DATE\tSUBJECT\tEXAM\tSCORE", trend)
}

func (cli *commandLine) runClass(args []string) error {
	cmd := cli.newFlagSet("class")
	name := cmd.String("name", "", "The class label, e.g. \"Grade 10A\".")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if _, err := cli.authorize(user.RoleTeacher, user.RoleAdmin); err != nil {
		return err
	}
	class := core.CleanString(*name)
	if class == "" {
		cmd.Usage()
		return errHelp
	}

	stats, err := cli.engine.ClassPerformance(class)
	if err != nil {
		return err
	}
	if stats.TotalStudents == 0 {
		return cli.unknownClass(class)
	}

	fmt.Fprintf(cli.out, "%s: %d students, %d exams, average %s\n\n",
		class, stats.TotalStudents, stats.TotalExams, formatScore(stats.AverageScore))

	rankings := make([][]string, len(stats.StudentRankings))
	for i, r := range stats.StudentRankings {
		rankings[i] = []string{strconv.Itoa(i + 1), r.StudentID, r.StudentName, formatScore(r.Average), strconv.Itoa(r.ExamCount)}
	}
	if err := cli.table("RANK\tID\tNAME\tAVERAGE\tEXAMS", rankings); err != nil {
		return err
	}
	fmt.Fprintln(cli.out)

	subjects := make([][]string, len(stats.SubjectPerformance))
	for i, s := range stats.SubjectPerformance {
		subjects[i] = []string{s.SubjectName, formatScore(s.Average), strconv.Itoa(s.ExamCount)}
	}
	return cli.table("SUBJECT\tAVERAGE\tEXAMS", subjects)
}

// unknownClass reports class as having no students, suggesting the closest known class label.
func (cli *commandLine) unknownClass(class string) error {
	classes, err := cli.svc.Classes()
	if err != nil {
		return err
	}
	best, bestRatio := "", 0.0
	for _, known := range classes {
		m := difflib.NewMatcher(strings.Split(strings.ToLower(class), ""), strings.Split(strings.ToLower(known), ""))
		if ratio := m.Ratio(); ratio > bestRatio {
			best, bestRatio = known, ratio
		}
	}
	if bestRatio >= minSuggestionRatio {
		return errors.Errorf("class %q has no students, did you mean %q?", class, best)
	}
	return errors.Errorf("class %q has no students", class)
}

func (cli *commandLine) trend() error {
	if _, err := cli.authorize(user.RoleAdmin); err != nil {
		return err
	}
	points, err := cli.engine.MonthlyTrend()
	if err != nil {
		return err
	}
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{p.Month, formatScore(p.Average), strconv.Itoa(p.TotalExams)}
	}
	return cli.table("MONTH\tAVERAGE\tEXAMS", rows)
}

func (cli *commandLine) runTop(args []string) error {
	cmd := cli.newFlagSet("top")
	n := cmd.Int("n", 5, "The number of students to list.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *n <= 0 {
		cmd.Usage()
		return errHelp
	}
	if _, err := cli.authorize(user.RoleAdmin); err != nil {
		return err
	}

	rankings, err := cli.engine.TopStudents(*n)
	if err != nil {
		return err
	}
	rows := make([][]string, len(rankings))
	for i, r := range rankings {
		rows[i] = []string{strconv.Itoa(i + 1), r.StudentID, r.StudentName, formatScore(r.Average), analytics.PerformanceLabel(r.Average)}
	}
	return cli.table("RANK\tID\tNAME\tAVERAGE\tPERFORMANCE", rows)
}
