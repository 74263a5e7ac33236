package account

import (
	"context"
	"errors"
	"strings"
)

type Role string

func (r Role) String() string {
	return string(r)
}

const RoleTeacher = Role("teacher")
const RoleStudent = Role("student")

// AllowedRoles in the order they are reported to clients.
var AllowedRoles = []Role{RoleTeacher, RoleStudent}

// Account is a persisted row. PasswordHash is empty for accounts added without a password.
type Account struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Role         Role
	PasswordHash string
}

func (a *Account) Summary() *Summary {
	return &Summary{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}
}

// Summary is the public part of an account, without credential material.
type Summary struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Role      Role
}

type Input struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Email     string `json:"email" validate:"notblank"`
	Password  string `json:"password" validate:"notblank"`
	Role      string `json:"role"`
}

// AdminInput is accepted as is: no validation, no password.
type AdminInput struct {
	FirstName string
	LastName  string
	Email     string
	Role      string
}

var ErrValidation = errors.New("validation error")
var ErrEmailTaken = errors.New("email already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrDatastore = errors.New("database error")
var ErrInternal = errors.New("internal error")

// ValidationError matches ErrValidation with errors.Is.
type ValidationError struct {
	Reason        string
	Fields        []string
	AllowedValues []Role
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return e.Reason + ": " + strings.Join(e.Fields, ", ")
	}

	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DatastoreError matches ErrDatastore with errors.Is. Details never contain query text.
type DatastoreError struct {
	Details string
}

func (e *DatastoreError) Error() string {
	return ErrDatastore.Error() + ": " + e.Details
}

func (e *DatastoreError) Is(target error) bool {
	return target == ErrDatastore
}

type Service interface {
	Register(ctx context.Context, input *Input) (*Summary, error)
	// Login resolves an account by email. The password is only checked when verification is enabled.
	Login(ctx context.Context, email string, password string) (*Summary, error)
	List(ctx context.Context) ([]*Summary, error)
	Add(ctx context.Context, input *AdminInput) (*Summary, error)
}

var ErrEmailNotUnique = errors.New("account with this email already exists")

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, bool, error)
	// Insert stores the account and returns the assigned id. Returns ErrEmailNotUnique on duplicates.
	Insert(ctx context.Context, account *Account) (int64, error)
	ListAll(ctx context.Context) ([]*Account, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) (bool, error)
}
