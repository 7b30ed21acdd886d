package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/analytics"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/session"
	"github.com/trezcool/masomo/storage/identity"
	"github.com/trezcool/masomo/tests"
)

const password = "password"

// setup returns a CLI over a freshly seeded school, persisting its session in a temp identity file.
func setup(t *testing.T) (*commandLine, *bytes.Buffer, string) {
	t.Helper()
	identityFile := filepath.Join(t.TempDir(), "session.json")
	cli, out := newCLI(t, testutil.NewSchoolService(t), identityFile)
	return cli, out, identityFile
}

func newCLI(t *testing.T, svc *school.Service, identityFile string) (*commandLine, *bytes.Buffer) {
	t.Helper()
	_, translator := testutil.Validator()
	auth := session.NewAuthenticator(session.SentinelVerifier{Password: password}, session.NewCannedDirectory(), 0)
	out := new(bytes.Buffer)
	return &commandLine{
		out:        out,
		svc:        svc,
		engine:     analytics.NewEngine(svc),
		session:    session.NewManager(auth, identity.NewFileStore(identityFile), testutil.NopLogger{}),
		translator: translator,
	}, out
}

func mockPassword(pwd string) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte(pwd), nil
	}
}

func login(t *testing.T, cli *commandLine, role string) {
	t.Helper()
	mockPassword(password)
	require.NoError(t, cli.run([]string{"admin", "login", "-email", role + "@example.com", "-role", role}))
}

type cliTest struct {
	name       string
	args       []string // without program name
	role       string   // signed in before running; anonymous when empty
	wantErr    error
	wantErrStr string
	wantOut    []string // substrings of the output
	notOut     []string
}

func runCLITests(t *testing.T, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out, _ := setup(t)
			if tt.role != "" {
				login(t, cli, tt.role)
				out.Reset()
			}

			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, cli.describe(err))
				}
			default:
				assert.NoError(t, err)
			}
			for _, s := range tt.wantOut {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.notOut {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:", "not kept between runs"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "help flag", args: []string{"top", "-h"}, wantErr: errHelp},
	})
}

func Test_commandLine_login(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		pwd        string
		wantErr    error
		wantErrStr string
		wantOut    string
	}{
		{name: "no args", args: []string{"login"}, pwd: password, wantErr: errHelp},
		{name: "unknown role", args: []string{"login", "-email", "a@b.c", "-role", "janitor"}, pwd: password, wantErr: errHelp},
		{name: "no password", args: []string{"login", "-email", "a@b.c", "-role", "admin"}, wantErr: errHelp},
		{name: "wrong password", args: []string{"login", "-email", "a@b.c", "-role", "admin"}, pwd: "lol", wantErrStr: "invalid credentials"},
		{
			name:    "teacher",
			args:    []string{"login", "-email", "sarah@school.cd", "-role", "teacher"},
			pwd:     password,
			wantOut: "Signed in as Dr. Sarah Wilson (teacher). Home: /teacher",
		},
		{
			name:    "role is case insensitive",
			args:    []string{"login", "-email", "admin@school.cd", "-role", "ADMIN"},
			pwd:     password,
			wantOut: "Signed in as Admin User (admin). Home: /admin",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out, _ := setup(t)
			mockPassword(tt.pwd)

			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
				assert.False(t, cli.session.IsAuthenticated())
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.True(t, core.IsAuthenticationError(err))
				assert.Equal(t, tt.wantErrStr, err.Error())
				assert.False(t, cli.session.IsAuthenticated())
			default:
				require.NoError(t, err)
				assert.Contains(t, out.String(), "Enter password:")
				assert.Contains(t, out.String(), tt.wantOut)
				assert.True(t, cli.session.IsAuthenticated())
			}
		})
	}
}

func Test_commandLine_sessionPersists(t *testing.T) {
	cli, _, identityFile := setup(t)
	login(t, cli, "student")

	// a later invocation restores the signed-in user from the identity file
	next, out := newCLI(t, cli.svc, identityFile)
	require.NoError(t, next.run([]string{"admin", "whoami"}))
	assert.Equal(t, "John Doe <student@example.com>\nid: STU001\nrole: student\n", out.String())

	out.Reset()
	require.NoError(t, next.run([]string{"admin", "logout"}))
	assert.Equal(t, "Signed out.\n", out.String())

	last, out := newCLI(t, cli.svc, identityFile)
	require.NoError(t, last.run([]string{"admin", "whoami"}))
	assert.Equal(t, "Not signed in.\n", out.String())
}

func Test_commandLine_malformedSession(t *testing.T) {
	cli, out, identityFile := setup(t)
	require.NoError(t, os.WriteFile(identityFile, []byte(`{"user": "lol"}`), 0o600))

	assert.Equal(t, errNotSignedIn, cli.run([]string{"admin", "student", "-id", "STU001"}))
	assert.Empty(t, out.String())
}

func Test_commandLine_student(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "anonymous", args: []string{"student", "-id", "STU001"}, wantErr: errNotSignedIn},
		{
			name: "own record",
			args: []string{"student"},
			role: "student",
			wantOut: []string{
				"John Doe (STU001) - Grade 10A",
				"average: 85.00 (Very Good), exams: 3, attendance: 67%",
				"Mathematics", "Physics", "English",
				"2024-04-10", "final",
			},
		},
		{name: "own record by id", args: []string{"student", "-id", "STU001"}, role: "student", wantOut: []string{"John Doe (STU001)"}},
		{name: "another student's record", args: []string{"student", "-id", "STU002"}, role: "student", wantErr: core.ErrPermissionDenied},
		{name: "staff without id", args: []string{"student"}, role: "teacher", wantErr: errHelp},
		{
			name:    "teacher",
			args:    []string{"student", "-id", "STU004"},
			role:    "teacher",
			wantOut: []string{"Emily Davis (STU004) - Grade 10B", "average: 93.00 (Excellent), exams: 2, attendance: 0%"},
		},
		{name: "unknown student", args: []string{"student", "-id", "STU999"}, role: "admin", wantErr: school.ErrNotFound},
	})
}

func Test_commandLine_class(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "student", args: []string{"class", "-name", "Grade 10A"}, role: "student", wantErr: core.ErrPermissionDenied},
		{name: "no name", args: []string{"class"}, role: "teacher", wantErr: errHelp},
		{
			name:    "class",
			args:    []string{"class", "-name", "Grade 10A"},
			role:    "teacher",
			wantOut: []string{"Grade 10A: 3 students, 7 exams, average 82.71", "STU001", "STU005", "STU003"},
			notOut:  []string{"STU002", "STU004"},
		},
		{
			name:       "suggests a close class",
			args:       []string{"class", "-name", "Grade 10C"},
			role:       "admin",
			wantErrStr: `class "Grade 10C" has no students, did you mean "Grade 10A"?`,
		},
		{
			name:       "nothing close",
			args:       []string{"class", "-name", "Physics"},
			role:       "admin",
			wantErrStr: `class "Physics" has no students`,
		},
	})
}

func Test_commandLine_adminReports(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "trend: teacher", args: []string{"trend"}, role: "teacher", wantErr: core.ErrPermissionDenied},
		{name: "trend", args: []string{"trend"}, role: "admin", wantOut: []string{"MONTH", "3/2024", "85.44", "4/2024", "86.33"}},
		{name: "top: anonymous", args: []string{"top"}, wantErr: errNotSignedIn},
		{name: "top: invalid n", args: []string{"top", "-n", "0"}, role: "admin", wantErr: errHelp},
		{
			name:    "top",
			args:    []string{"top", "-n", "2"},
			role:    "admin",
			wantOut: []string{"STU004", "93.00", "Excellent", "STU002", "87.67"},
			notOut:  []string{"STU001", "STU003", "STU005"},
		},
	})
}

func Test_commandLine_addMark(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	runCLITests(t, []cliTest{
		{name: "anonymous", args: []string{"addmark"}, wantErr: errNotSignedIn},
		{name: "student", args: []string{"addmark"}, role: "student", wantErr: core.ErrPermissionDenied},
		{
			name:    "teacher's own subject",
			args:    []string{"addmark", "-student", "STU001", "-subject", "SUB004", "-type", "Quiz", "-score", "18", "-max", "20"},
			role:    "teacher",
			wantOut: []string{"Recorded MRK013: STU001 scored 18.00/20.00 in Chemistry (quiz, 2024-05-02)."},
		},
		{
			name:    "teacher's other subject",
			args:    []string{"addmark", "-student", "STU001", "-subject", "SUB002", "-type", "quiz", "-score", "18"},
			role:    "teacher",
			wantErr: core.ErrPermissionDenied,
		},
		{
			name:       "missing fields",
			args:       []string{"addmark", "-student", "STU001"},
			role:       "admin",
			wantErrStr: "exam_type: this field is required\nscore: this field is required\nsubject_id: this field is required",
		},
		{
			name:       "score not a number",
			args:       []string{"addmark", "-student", "STU001", "-subject", "SUB001", "-type", "quiz", "-score", "lol"},
			role:       "admin",
			wantErrStr: "score: score must be a number",
		},
		{
			name:       "score above max",
			args:       []string{"addmark", "-student", "STU001", "-subject", "SUB001", "-type", "quiz", "-score", "30", "-max", "20"},
			role:       "admin",
			wantErrStr: "score: score cannot be greater than the maximum score (20)",
		},
		{
			name:       "unknown student",
			args:       []string{"addmark", "-student", "STU999", "-subject", "SUB001", "-type", "quiz", "-score", "10"},
			role:       "admin",
			wantErrStr: "student_id: unknown student",
		},
	})
}

func Test_commandLine_addMarkUpdatesStats(t *testing.T) {
	cli, out, _ := setup(t)
	login(t, cli, "admin")

	require.NoError(t, cli.run([]string{"admin", "addmark", "-student", "STU003", "-subject", "SUB003",
		"-type", "final", "-score", "63", "-date", "2024-04-12"}))

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "student", "-id", "STU003"}))
	assert.Contains(t, out.String(), "average: 73.33 (Good), exams: 3")
}

func writeMarksWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func Test_commandLine_import(t *testing.T) {
	cli, out, _ := setup(t)
	path := filepath.Join(t.TempDir(), "marks.xlsx")
	writeMarksWorkbook(t, path, [][]interface{}{
		{"student_id", "subject_id", "exam_type", "score", "max_score", "date"},
		{"STU001", "SUB001", "final", 90, 100, "2024-05-01"},
		{"STU002", "SUB002", "final", 80, 100, "2024-05-01"},
		{"STU003", "SUB001", "final", "lots", 100, "2024-05-01"},
		{"STU999", "SUB001", "final", 70, 100, "2024-05-01"},
	})

	assert.Equal(t, errNotSignedIn, cli.run([]string{"admin", "import", "-in", path}))

	login(t, cli, "teacher")
	out.Reset()
	assert.Equal(t, errHelp, cli.run([]string{"admin", "import"}))

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "import", "-in", path}))
	assert.Contains(t, out.String(), `row 4: score "lots" is not a number`)
	assert.Contains(t, out.String(), "row 2: recorded MRK013")
	assert.Contains(t, out.String(), "row 3: permission denied") // Physics is not Dr. Wilson's
	assert.Contains(t, out.String(), "row 5: student_id: unknown student")
	assert.Contains(t, out.String(), "Imported 1 marks, rejected 3 rows.")

	count, err := cli.svc.CountMarks()
	require.NoError(t, err)
	assert.Equal(t, 13, count)

	assert.Error(t, cli.run([]string{"admin", "import", "-in", filepath.Join(t.TempDir(), "missing.xlsx")}))
}

func Test_commandLine_export(t *testing.T) {
	cli, out, _ := setup(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	login(t, cli, "teacher")
	assert.Equal(t, core.ErrPermissionDenied, cli.run([]string{"admin", "export", "-out", path}))
	require.NoError(t, cli.run([]string{"admin", "logout"}))

	login(t, cli, "admin")
	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "export", "-out", path}))
	assert.Equal(t, "Report written to "+path+".\n", out.String())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Students")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}
