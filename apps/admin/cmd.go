package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/assignment"
	"github.com/joineazy/tracker/core/user"
	"github.com/joineazy/tracker/storage/database"
	"github.com/joineazy/tracker/storage/localstore"
)

var (
	readPasswordFunc   = term.ReadPassword // mockable
	migrateUpFunc      = database.Migrate  // mockable
	migrateDownFunc    = database.Rollback // mockable
	migrateVersionFunc = database.Version  // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	store  *localstore.Store
	usrSvc *user.Service
	asgSvc *assignment.Service
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL -role student|admin - register a user (password prompted)")
	_, _ = fmt.Fprintln(cli.out, "  login -email EMAIL -role student|admin - check credentials (password prompted)")
	_, _ = fmt.Fprintln(cli.out, "  users - list registered users")
	_, _ = fmt.Fprintln(cli.out, "  assignments - list assignments with their progress")
	_, _ = fmt.Fprintln(cli.out, "  seed - write the sample assignment data if there is none")
	_, _ = fmt.Fprintln(cli.out, "  migrate up|down|version - apply, revert or inspect postgres migrations")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", user.RoleStudent, "The user's role: student or admin.")

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The user's email. The password will be prompted next.")
	loginRole := loginCmd.String("role", user.RoleStudent, "The user's role: student or admin.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, pwd, *addUserRole)
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		return cli.login(*loginEmail, pwd, *loginRole)
	case "users":
		return cli.listUsers()
	case "assignments":
		return cli.listAssignments()
	case "seed":
		return cli.seed()
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readPassword() (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
