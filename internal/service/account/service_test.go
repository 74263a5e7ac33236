package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuvalkin/classroom-accounts/internal/support/log"
	"github.com/kuvalkin/classroom-accounts/internal/support/password"
	"github.com/kuvalkin/classroom-accounts/internal/test"
)

type fakeRepo struct {
	rows      []*Account
	inserts   int
	findErr   error
	insertErr error
	listErr   error
	// skipFind simulates a concurrent registration passing the pre-check
	skipFind bool
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*Account, bool, error) {
	if r.findErr != nil {
		return nil, false, r.findErr
	}

	if r.skipFind {
		return nil, false, nil
	}

	for _, row := range r.rows {
		if row.Email == email {
			copied := *row

			return &copied, true, nil
		}
	}

	return nil, false, nil
}

func (r *fakeRepo) Insert(_ context.Context, acc *Account) (int64, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}

	for _, row := range r.rows {
		if row.Email == acc.Email {
			return 0, ErrEmailNotUnique
		}
	}

	r.inserts++
	copied := *acc
	copied.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, &copied)

	return copied.ID, nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]*Account, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	return r.rows, nil
}

func newTestService(t *testing.T, repo Repository, verify bool) Service {
	s, err := NewService(repo, &Options{Hasher: password.NewSHA256(), VerifyPassword: verify})
	require.NoError(t, err)

	return s
}

func validInput() *Input {
	return &Input{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Password:  "pw123",
		Role:      "TEACHER",
	}
}

func TestService(t *testing.T) {
	log.InitTestLogger(t)

	t.Run("new service", testNewService)
	t.Run("register", func(t *testing.T) {
		t.Run("success", testRegisterSuccess)
		t.Run("missing fields", testRegisterMissingFields)
		t.Run("roles", testRegisterRoles)
		t.Run("email taken", testRegisterEmailTaken)
		t.Run("email taken by concurrent insert", testRegisterConcurrentInsert)
		t.Run("datastore errors", testRegisterDatastoreErrors)
	})
	t.Run("login", func(t *testing.T) {
		t.Run("without verification", testLoginWithoutVerification)
		t.Run("with verification", testLoginWithVerification)
		t.Run("missing credentials", testLoginMissingCredentials)
		t.Run("datastore error", testLoginDatastoreError)
	})
	t.Run("list", testList)
	t.Run("add", testAdd)
}

func testNewService(t *testing.T) {
	_, err := NewService(nil, &Options{Hasher: password.NewSHA256()})
	assert.Error(t, err)

	_, err = NewService(&fakeRepo{}, nil)
	assert.Error(t, err)

	_, err = NewService(&fakeRepo{}, &Options{})
	assert.Error(t, err)
}

func testRegisterSuccess(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	repo := &fakeRepo{}
	s := newTestService(t, repo, false)

	summary, err := s.Register(ctx, validInput())
	require.NoError(t, err)

	assert.Equal(t, &Summary{
		ID:        1,
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Role:      RoleTeacher,
	}, summary)

	require.Len(t, repo.rows, 1)
	stored := repo.rows[0]
	assert.Equal(t, RoleTeacher, stored.Role)
	assert.NotEqual(t, "pw123", stored.PasswordHash)

	expected, err := password.NewSHA256().Hash("pw123")
	require.NoError(t, err)
	assert.Equal(t, expected, stored.PasswordHash)
}

func testRegisterMissingFields(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	tests := []struct {
		name   string
		mutate func(in *Input)
		fields []string
	}{
		{name: "first name", mutate: func(in *Input) { in.FirstName = "" }, fields: []string{"firstName"}},
		{name: "last name whitespace", mutate: func(in *Input) { in.LastName = "  \t" }, fields: []string{"lastName"}},
		{name: "email", mutate: func(in *Input) { in.Email = "" }, fields: []string{"email"}},
		{name: "password", mutate: func(in *Input) { in.Password = " " }, fields: []string{"password"}},
		{
			name: "everything",
			mutate: func(in *Input) {
				*in = Input{}
			},
			fields: []string{"firstName", "lastName", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			s := newTestService(t, repo, false)

			in := validInput()
			tt.mutate(in)

			_, err := s.Register(ctx, in)
			require.ErrorIs(t, err, ErrValidation)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "missing required field", vErr.Reason)
			assert.Equal(t, tt.fields, vErr.Fields)
			assert.Zero(t, repo.inserts)
		})
	}

	t.Run("nil input", func(t *testing.T) {
		_, err := newTestService(t, &fakeRepo{}, false).Register(ctx, nil)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func testRegisterRoles(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	tests := []struct {
		role    string
		want    Role
		invalid bool
	}{
		{role: "", want: RoleStudent},
		{role: "student", want: RoleStudent},
		{role: "Student", want: RoleStudent},
		{role: "teacher", want: RoleTeacher},
		{role: "TeAcHeR", want: RoleTeacher},
		{role: "admin", invalid: true},
		{role: " teacher", invalid: true},
		{role: "   ", invalid: true},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			repo := &fakeRepo{}
			s := newTestService(t, repo, false)

			in := validInput()
			in.Role = tt.role

			summary, err := s.Register(ctx, in)
			if !tt.invalid {
				require.NoError(t, err)
				assert.Equal(t, tt.want, summary.Role)

				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "invalid role", vErr.Reason)
			assert.Equal(t, []Role{RoleTeacher, RoleStudent}, vErr.AllowedValues)
			assert.Zero(t, repo.inserts)
		})
	}
}

func testRegisterEmailTaken(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	repo := &fakeRepo{}
	s := newTestService(t, repo, false)

	_, err := s.Register(ctx, validInput())
	require.NoError(t, err)

	second := validInput()
	second.FirstName = "Other"
	second.Password = "another"

	_, err = s.Register(ctx, second)
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, "email already taken", err.Error())

	require.Len(t, repo.rows, 1)
	assert.Equal(t, "Ann", repo.rows[0].FirstName)

	t.Run("match is case sensitive", func(t *testing.T) {
		in := validInput()
		in.Email = "ANN@x.com"

		_, err := s.Register(ctx, in)
		assert.NoError(t, err)
	})
}

func testRegisterConcurrentInsert(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	repo := &fakeRepo{rows: []*Account{{ID: 1, Email: "ann@x.com"}}, skipFind: true}
	s := newTestService(t, repo, false)

	_, err := s.Register(ctx, validInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func testRegisterDatastoreErrors(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	t.Run("find", func(t *testing.T) {
		repo := &fakeRepo{findErr: errors.New("query error: connection refused")}
		s := newTestService(t, repo, false)

		_, err := s.Register(ctx, validInput())
		require.ErrorIs(t, err, ErrDatastore)

		var dErr *DatastoreError
		require.ErrorAs(t, err, &dErr)
		assert.Equal(t, "query error: connection refused", dErr.Details)
		assert.Zero(t, repo.inserts)
	})

	t.Run("insert", func(t *testing.T) {
		repo := &fakeRepo{insertErr: errors.New("query error: timeout")}
		s := newTestService(t, repo, false)

		_, err := s.Register(ctx, validInput())
		assert.ErrorIs(t, err, ErrDatastore)
	})
}

func testLoginWithoutVerification(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	s := newTestService(t, &fakeRepo{}, false)

	_, err := s.Register(ctx, validInput())
	require.NoError(t, err)

	summary, err := s.Login(ctx, "ann@x.com", "wrong-password")
	require.NoError(t, err)
	assert.Equal(t, &Summary{ID: 1, FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Role: RoleTeacher}, summary)

	_, err = s.Login(ctx, "unknown@x.com", "anything")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "invalid credentials", err.Error())
}

func testLoginWithVerification(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	repo := &fakeRepo{}
	s := newTestService(t, repo, true)

	_, err := s.Register(ctx, validInput())
	require.NoError(t, err)

	summary, err := s.Login(ctx, "ann@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", summary.Email)

	_, err = s.Login(ctx, "ann@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	t.Run("account without password", func(t *testing.T) {
		_, err := s.Add(ctx, &AdminInput{FirstName: "No", LastName: "Pass", Email: "nopass@x.com", Role: "student"})
		require.NoError(t, err)

		_, err = s.Login(ctx, "nopass@x.com", "anything")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func testLoginMissingCredentials(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	s := newTestService(t, &fakeRepo{}, false)

	for _, pair := range [][2]string{{"", "pw"}, {"ann@x.com", ""}, {"", ""}} {
		_, err := s.Login(ctx, pair[0], pair[1])

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "missing credentials", vErr.Reason)
	}
}

func testLoginDatastoreError(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	s := newTestService(t, &fakeRepo{findErr: errors.New("boom")}, false)

	_, err := s.Login(ctx, "ann@x.com", "pw")
	assert.ErrorIs(t, err, ErrDatastore)
}

func testList(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	repo := &fakeRepo{}
	s := newTestService(t, repo, false)

	const n = 5
	for i := 0; i < n; i++ {
		in := validInput()
		in.Email = strings.Repeat("a", i+1) + "@x.com"
		in.Role = ""

		_, err := s.Register(ctx, in)
		require.NoError(t, err)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)

	for i, summary := range list {
		assert.Equal(t, int64(i+1), summary.ID)
		assert.Equal(t, strings.Repeat("a", i+1)+"@x.com", summary.Email)
		assert.Equal(t, RoleStudent, summary.Role)
	}

	t.Run("datastore error", func(t *testing.T) {
		_, err := newTestService(t, &fakeRepo{listErr: errors.New("boom")}, false).List(ctx)
		assert.ErrorIs(t, err, ErrDatastore)
	})
}

func testAdd(t *testing.T) {
	ctx, cancel := test.Context(t)
	defer cancel()

	repo := &fakeRepo{}
	s := newTestService(t, repo, false)

	summary, err := s.Add(ctx, &AdminInput{FirstName: "", LastName: "Lee", Email: "lee@x.com", Role: "Whatever"})
	require.NoError(t, err)
	assert.Equal(t, Role("Whatever"), summary.Role)

	require.Len(t, repo.rows, 1)
	assert.Empty(t, repo.rows[0].PasswordHash)

	_, err = s.Add(ctx, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Add(ctx, &AdminInput{Email: "lee@x.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = newTestService(t, &fakeRepo{insertErr: errors.New("boom")}, false).Add(ctx, &AdminInput{})
	assert.ErrorIs(t, err, ErrDatastore)
}
