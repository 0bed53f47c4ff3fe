package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	echoapi "github.com/joineazy/tracker/apps/api/echo"
	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/assignment"
	"github.com/joineazy/tracker/core/user"
	emailsvc "github.com/joineazy/tracker/services/email"
	logsvc "github.com/joineazy/tracker/services/logger"
	"github.com/joineazy/tracker/storage/database"
	"github.com/joineazy/tracker/storage/localstore"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	kv, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()
	store := localstore.New(kv, dbLogger)

	if conf.SeedOnStart {
		if _, err := store.SeedIfEmpty(); err != nil {
			logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
		}
	}

	// set up services
	mailSvc := emailsvc.NewService(conf, logger)
	usrSvc := user.NewService(store)
	asgSvc := assignment.NewService(store, usrSvc, mailSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q (%s storage)", conf.Build, conf.Storage.Engine))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Options{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       usrSvc,
		AssignmentSvc: asgSvc,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error(fmt.Sprintf("server error: %v", err), err)
		}

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func setUpDB(conf *core.Config) (core.KVStore, error) {
	if conf.Storage.Engine == core.EnginePostgres {
		if err := database.Migrate(conf); err != nil {
			return nil, errors.Wrap(err, "migrating database")
		}
	}
	return database.Open(conf)
}
