package main

import (
	"fmt"

	"github.com/joineazy/tracker/core/auth"
	"github.com/joineazy/tracker/core/session"
	"github.com/joineazy/tracker/core/user"
	inmemdb "github.com/joineazy/tracker/storage/database/inmem"
)

// addUser registers a user.User. Existing emails are rejected.
func (cli *commandLine) addUser(name, email, pwd, role string) error {
	usr, err := cli.usrSvc.Register(user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     role,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "user %s <%s> registered as %s (id: %s)\n", usr.Name, usr.Email, usr.Role, usr.ID)
	return nil
}

// login checks the credentials against a throwaway session.
func (cli *commandLine) login(email, pwd, role string) error {
	tab := inmemdb.Open()
	defer func() { _ = tab.Close() }()

	authSvc := auth.NewService(cli.usrSvc, session.NewHolder(tab))
	if _, err := authSvc.Login(user.Credentials{Email: email, Password: pwd, Role: role}); err != nil {
		return err
	}
	usr, err := authSvc.Current()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "logged in as %s <%s> (%s)\n", usr.Name, usr.Email, usr.Role)
	return authSvc.Logout()
}
