package main

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/analytics"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/session"
	"github.com/trezcool/masomo/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotSignedIn = errors.New("not signed in, run `admin login` first")
)

type commandLine struct {
	out        io.Writer
	svc        *school.Service
	engine     *analytics.Engine
	session    *session.Manager
	translator ut.Translator
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL -role student|teacher|admin - sign in; the password is prompted next")
	fmt.Fprintln(cli.out, "  logout - sign out")
	fmt.Fprintln(cli.out, "  whoami - print the signed-in user")
	fmt.Fprintln(cli.out, "  student [-id STUDENT_ID] - print a student's performance")
	fmt.Fprintln(cli.out, "  class -name CLASS - print a class' performance (teacher, admin)")
	fmt.Fprintln(cli.out, "  trend - print the monthly average scores (admin)")
	fmt.Fprintln(cli.out, "  top [-n 5] - print the best students (admin)")
	fmt.Fprintln(cli.out, "  addmark -student ID -subject ID -type quiz|midterm|final -score N [-max 100] [-date YYYY-MM-DD] - record a mark (teacher, admin)")
	fmt.Fprintln(cli.out, "  import -in FILE.xlsx - record the marks of a spreadsheet (teacher, admin)")
	fmt.Fprintln(cli.out, "  export -out FILE.xlsx - export the performance report (admin)")
	fmt.Fprintln(cli.out)
	fmt.Fprintln(cli.out, "Every run starts from the demo records: marks entered with addmark or import are not kept between runs.")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	cli.session.Restore()

	var err error
	switch args[1] {
	case "login":
		err = cli.runLogin(args[2:])
	case "logout":
		err = cli.logout()
	case "whoami":
		err = cli.whoami()
	case "student":
		err = cli.runStudent(args[2:])
	case "class":
		err = cli.runClass(args[2:])
	case "trend":
		err = cli.trend()
	case "top":
		err = cli.runTop(args[2:])
	case "addmark":
		err = cli.runAddMark(args[2:])
	case "import":
		err = cli.runImport(args[2:])
	case "export":
		err = cli.runExport(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
	if err == flag.ErrHelp {
		return errHelp
	}
	return err
}

// authorize returns the signed-in user when their role is one of roles; any role when none is given.
func (cli *commandLine) authorize(roles ...user.Role) (user.User, error) {
	state := cli.session.Current()
	d := session.Authorize(state, roles...)
	switch {
	case d.Allowed:
		return *state.User, nil
	case d.Redirect == session.LoginPath:
		return user.User{}, errNotSignedIn
	default:
		return user.User{}, core.ErrPermissionDenied
	}
}

// describe renders err for the terminal, one line per invalid field.
func (cli *commandLine) describe(err error) string {
	var fields map[string]string
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		fields = core.TranslateErrors(origErr, cli.translator)
	case *core.ValidationError:
		if len(origErr.Fields) == 0 {
			return origErr.Error()
		}
		fields = make(map[string]string, len(origErr.Fields))
		for _, fErr := range origErr.Fields {
			fields[fErr.Field] = fErr.Error
		}
	default:
		return err.Error()
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = name + ": " + fields[name]
	}
	return strings.Join(lines, "\n")
}

func (cli *commandLine) table(header string, rows [][]string) error {
	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func formatScore(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
