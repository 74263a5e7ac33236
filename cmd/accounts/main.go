package main

import (
	"context"
	"database/sql"
	"fmt"
	stdLog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kuvalkin/classroom-accounts/internal/service/account"
	accountStorage "github.com/kuvalkin/classroom-accounts/internal/storage/account"
	"github.com/kuvalkin/classroom-accounts/internal/support/config"
	"github.com/kuvalkin/classroom-accounts/internal/support/database"
	"github.com/kuvalkin/classroom-accounts/internal/support/log"
	"github.com/kuvalkin/classroom-accounts/internal/support/password"
	"github.com/kuvalkin/classroom-accounts/internal/transport"
)

func main() {
	err := log.InitLogger()
	if err != nil {
		stdLog.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	defer func() {
		err = log.Logger().Sync()
		if err != nil {
			stdLog.Println(fmt.Errorf("failed to sync logger: %w", err))
		}
	}()

	conf, err := config.Resolve(os.Args[1:])
	if err != nil {
		log.Logger().Fatalw("failed to resolve config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(conf)
	if err != nil {
		log.Logger().Fatalw("failed to initialize database", "error", err)
		os.Exit(1)
	}

	defer func() {
		log.Logger().Debug("closing DB connection")

		err := db.Close()
		if err != nil {
			log.Logger().Errorw("failed to close database", "error", err)
		}
	}()

	accountService, err := initAccountService(conf, db)
	if err != nil {
		log.Logger().Fatalw("failed to initialize account service", "error", err)
		os.Exit(1)
	}

	serv := transport.NewServer(conf, &transport.Services{
		Account: accountService,
	})

	go listenAndServe(serv)

	waitForSignalAndShutdown(serv)
	log.Logger().Info("Bye :)")
}

func initDB(cnf *config.Config) (*sql.DB, error) {
	log.Logger().Debug("connecting to DB")

	ctx, cancel := context.WithTimeout(context.Background(), cnf.DatabaseTimeout)
	defer cancel()

	db, err := database.InitDB(ctx, cnf.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("init db failed: %w", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), cnf.DatabaseTimeout)
	defer cancel()

	err = database.Migrate(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("migrate failed: %w", err)
	}

	return db, nil
}

func initAccountService(conf *config.Config, db *sql.DB) (account.Service, error) {
	hasher, err := password.New(conf.PasswordHasher)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	if !conf.VerifyPassword {
		log.Logger().Warn("password verification on login is disabled, any password is accepted for a known email")
	}

	return account.NewService(
		accountStorage.NewDatabaseRepository(db, conf.DatabaseTimeout),
		&account.Options{
			Hasher:         hasher,
			VerifyPassword: conf.VerifyPassword,
		},
	)
}

func listenAndServe(serv *transport.Server) {
	err := serv.ListenAndServe()

	if err != nil {
		log.Logger().Fatalw("error starting server", "error", err)
		os.Exit(1)
	}
}

func waitForSignalAndShutdown(serv *transport.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Waiting (indefinitely) for a signal
	sig := <-stop
	log.Logger().Debugw("received signal", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := serv.Shutdown(ctx); err != nil {
		log.Logger().Errorw("failed to shutdown server", "error", err)
	}

	log.Logger().Info("server shutdown complete")
}
