package main

import (
	"fmt"
	"text/tabwriter"
)

func (cli *commandLine) listUsers() error {
	users, err := cli.usrSvc.QueryAll()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	for _, usr := range users {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", usr.ID, usr.Name, usr.Email, usr.Role)
	}
	return w.Flush()
}

func (cli *commandLine) listAssignments() error {
	assignments, err := cli.asgSvc.Query()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tDUE\tPROGRESS")
	for _, a := range assignments {
		p := a.Progress()
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d (%d%%)\n", a.ID, a.Title, a.DueDate, p.Submitted, p.Total, p.Percent)
	}
	return w.Flush()
}
