package main

import (
	"log"
	"os"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/assignment"
	"github.com/joineazy/tracker/core/user"
	logsvc "github.com/joineazy/tracker/services/logger"
	"github.com/joineazy/tracker/storage/database"
	"github.com/joineazy/tracker/storage/localstore"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// migrations run before the store is opened
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		cli := commandLine{conf: conf, out: os.Stdout}
		exit(cli.run(os.Args), logger)
		return
	}

	// set up DB
	kv, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	store := localstore.New(kv, logger)
	usrSvc := user.NewService(store)

	// start CLI
	cli := commandLine{
		conf:   conf,
		store:  store,
		usrSvc: usrSvc,
		asgSvc: assignment.NewService(store, usrSvc, nil, logger),
		out:    os.Stdout,
	}
	err = cli.run(os.Args)
	_ = kv.Close()
	exit(err, logger)
}

func exit(err error, logger *logsvc.RollbarLogger) {
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
