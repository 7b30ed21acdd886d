package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/user"
)

func (cli *commandLine) runLogin(args []string) error {
	cmd := cli.newFlagSet("login")
	email := cmd.String("email", "", "The email to sign in with. The password will be prompted next.")
	roleName := cmd.String("role", "", "The role to sign in as: student, teacher or admin.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	role, ok := user.ParseRole(core.CleanString(*roleName, true /* lower */))
	if *email == "" || !ok {
		cmd.Usage()
		return errHelp
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return errors.Wrap(err, "reading password")
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return errHelp
	}

	// Ctrl+C aborts the sign-in delay
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	usr, err := cli.session.Login(ctx, *email, string(pwd), role)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Signed in as %s (%s). Home: %s\n", usr.Name, usr.Role, usr.Role.Home())
	return nil
}

func (cli *commandLine) logout() error {
	if err := cli.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Signed out.")
	return nil
}

func (cli *commandLine) whoami() error {
	state := cli.session.Current()
	if !state.IsAuthenticated() {
		fmt.Fprintln(cli.out, "Not signed in.")
		return nil
	}
	usr := state.User
	fmt.Fprintf(cli.out, "%s <%s>\nid: %s\nrole: %s\n", usr.Name, usr.Email, usr.ID, usr.Role)
	return nil
}
