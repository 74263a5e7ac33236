package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kuvalkin/classroom-accounts/internal/service/account"
)

func NewDatabaseRepository(db *sql.DB, timeout time.Duration) account.Repository {
	return &dbRepo{db: db, timeout: timeout}
}

type dbRepo struct {
	db      *sql.DB
	timeout time.Duration
}

func (d *dbRepo) FindByEmail(ctx context.Context, email string) (*account.Account, bool, error) {
	localCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	row := d.db.QueryRowContext(
		localCtx,
		"SELECT user_id, first_name, last_name, email, role, password FROM accounts WHERE email = $1 LIMIT 1",
		email,
	)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query error: %w", err)
	}

	return acc, true, nil
}

func (d *dbRepo) Insert(ctx context.Context, acc *account.Account) (int64, error) {
	localCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var passwordHash sql.NullString
	if acc.PasswordHash != "" {
		passwordHash = sql.NullString{String: acc.PasswordHash, Valid: true}
	}

	row := d.db.QueryRowContext(
		localCtx,
		"INSERT INTO accounts (first_name, last_name, email, role, password) VALUES ($1, $2, $3, $4, $5) RETURNING user_id",
		acc.FirstName,
		acc.LastName,
		acc.Email,
		string(acc.Role),
		passwordHash,
	)

	var id int64
	err := row.Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, account.ErrEmailNotUnique
		}

		return 0, fmt.Errorf("query error: %w", err)
	}

	return id, nil
}

func (d *dbRepo) ListAll(ctx context.Context) ([]*account.Account, error) {
	localCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	rows, err := d.db.QueryContext(
		localCtx,
		"SELECT user_id, first_name, last_name, email, role, password FROM accounts ORDER BY user_id",
	)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	defer rows.Close()

	result := make([]*account.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		result = append(result, acc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*account.Account, error) {
	acc := &account.Account{}

	var role string
	var passwordHash sql.NullString

	err := s.Scan(&acc.ID, &acc.FirstName, &acc.LastName, &acc.Email, &role, &passwordHash)
	if err != nil {
		return nil, err
	}

	acc.Role = account.Role(role)
	acc.PasswordHash = passwordHash.String

	return acc, nil
}
