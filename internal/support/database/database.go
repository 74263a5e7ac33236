package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/kuvalkin/classroom-accounts/internal/support/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

func InitDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	return db, nil
}

func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{})

	err := goose.SetDialect("pgx")
	if err != nil {
		return fmt.Errorf("could not set migrations dialect: %w", err)
	}

	err = goose.UpContext(ctx, db, "migrations")
	if err != nil {
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	return nil
}

type gooseLogger struct{}

func (g *gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Logger().Named("migrations").Fatalf(format, v...)
}

func (g *gooseLogger) Printf(format string, v ...interface{}) {
	log.Logger().Named("migrations").Debugf(format, v...)
}
