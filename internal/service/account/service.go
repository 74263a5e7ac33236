package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kuvalkin/classroom-accounts/internal/support/log"
	"github.com/kuvalkin/classroom-accounts/internal/support/validation"
)

type Options struct {
	Hasher PasswordHasher
	// VerifyPassword makes Login compare the password against the stored hash.
	VerifyPassword bool
}

func NewService(repo Repository, options *Options) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}

	if options == nil || options.Hasher == nil {
		return nil, errors.New("password hasher is required")
	}

	return &service{
		repo:           repo,
		hasher:         options.Hasher,
		verifyPassword: options.VerifyPassword,
		logger:         log.Logger().Named("accountService"),
	}, nil
}

type service struct {
	repo           Repository
	hasher         PasswordHasher
	verifyPassword bool
	logger         *zap.SugaredLogger
}

func (s *service) Register(ctx context.Context, input *Input) (*Summary, error) {
	if input == nil {
		return nil, &ValidationError{Reason: "missing required field"}
	}

	localLogger := s.logger.WithLazy("email", input.Email)

	err := validation.Validator().Struct(input)
	if err != nil {
		fields := validation.FailedFields(err)
		if fields == nil {
			localLogger.Errorw("validator failed", "error", err)

			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}

		localLogger.Debugw("missing required fields", "fields", fields)

		return nil, &ValidationError{Reason: "missing required field", Fields: fields}
	}

	role, err := normalizeRole(input.Role)
	if err != nil {
		localLogger.Debugw("invalid role", "role", input.Role)

		return nil, err
	}

	// Fast path only: the unique index on email decides when two registrations race.
	_, found, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		localLogger.Errorw("can't check email uniqueness", "error", err)

		return nil, &DatastoreError{Details: err.Error()}
	}

	if found {
		localLogger.Debug("email already taken")

		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		localLogger.Errorw("can't hash password", "error", err)

		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	acc := &Account{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Role:         role,
		PasswordHash: hash,
	}

	acc.ID, err = s.repo.Insert(ctx, acc)
	if err != nil {
		if errors.Is(err, ErrEmailNotUnique) {
			localLogger.Debug("email taken by concurrent registration")

			return nil, ErrEmailTaken
		}

		localLogger.Errorw("can't insert account", "error", err)

		return nil, &DatastoreError{Details: err.Error()}
	}

	localLogger.Infow("account registered", "id", acc.ID, "role", role)

	return acc.Summary(), nil
}

func (s *service) Login(ctx context.Context, email string, password string) (*Summary, error) {
	if email == "" || password == "" {
		return nil, &ValidationError{Reason: "missing credentials"}
	}

	localLogger := s.logger.WithLazy("email", email)

	acc, found, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		localLogger.Errorw("can't find account", "error", err)

		return nil, &DatastoreError{Details: err.Error()}
	}

	if !found {
		localLogger.Debug("account not found")

		return nil, ErrInvalidCredentials
	}

	if s.verifyPassword {
		ok, err := s.hasher.Verify(acc.PasswordHash, password)
		if err != nil {
			localLogger.Errorw("can't verify password", "error", err)

			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}

		if !ok {
			localLogger.Debug("password mismatch")

			return nil, ErrInvalidCredentials
		}
	}

	return acc.Summary(), nil
}

func (s *service) List(ctx context.Context) ([]*Summary, error) {
	accounts, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Errorw("can't list accounts", "error", err)

		return nil, &DatastoreError{Details: err.Error()}
	}

	result := make([]*Summary, 0, len(accounts))
	for _, acc := range accounts {
		result = append(result, acc.Summary())
	}

	return result, nil
}

func (s *service) Add(ctx context.Context, input *AdminInput) (*Summary, error) {
	if input == nil {
		return nil, &ValidationError{Reason: "invalid account data"}
	}

	acc := &Account{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Role:      Role(input.Role),
	}

	var err error
	acc.ID, err = s.repo.Insert(ctx, acc)
	if err != nil {
		if errors.Is(err, ErrEmailNotUnique) {
			return nil, ErrEmailTaken
		}

		s.logger.Errorw("can't add account", "email", input.Email, "error", err)

		return nil, &DatastoreError{Details: err.Error()}
	}

	return acc.Summary(), nil
}

func normalizeRole(raw string) (Role, error) {
	if raw == "" {
		return RoleStudent, nil
	}

	role := Role(strings.ToLower(raw))
	for _, allowed := range AllowedRoles {
		if role == allowed {
			return role, nil
		}
	}

	return "", &ValidationError{Reason: "invalid role", AllowedValues: AllowedRoles}
}
