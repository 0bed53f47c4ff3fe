package main

import (
	"fmt"
)

func (cli *commandLine) migrate(direction string) error {
	switch direction {
	case "up":
		if err := migrateUpFunc(cli.conf); err != nil {
			return err
		}
	case "down":
		if err := migrateDownFunc(cli.conf); err != nil {
			return err
		}
	case "version":
		version, dirty, err := migrateVersionFunc(cli.conf)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cli.out, "schema version: %d (dirty: %t)\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("%q: no such command", direction)
	}
	_, _ = fmt.Fprintf(cli.out, "migrate %s: done\n", direction)
	return nil
}

func (cli *commandLine) seed() error {
	seeded, err := cli.store.SeedIfEmpty()
	if err != nil {
		return err
	}
	if seeded {
		_, _ = fmt.Fprintln(cli.out, "sample assignment data written")
	} else {
		_, _ = fmt.Fprintln(cli.out, "assignment data already present, nothing to do")
	}
	return nil
}
