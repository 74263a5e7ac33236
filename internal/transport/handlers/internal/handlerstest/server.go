package handlerstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"

	"github.com/kuvalkin/classroom-accounts/internal/service/account"
	accountStorage "github.com/kuvalkin/classroom-accounts/internal/storage/account"
	"github.com/kuvalkin/classroom-accounts/internal/support/config"
	"github.com/kuvalkin/classroom-accounts/internal/support/password"
	"github.com/kuvalkin/classroom-accounts/internal/test"
	"github.com/kuvalkin/classroom-accounts/internal/transport"
)

func NewTestServer(t *testing.T) *httptest.Server {
	return NewTestServerWithService(t, accountService(t, false))
}

// NewVerifyingTestServer checks passwords on login.
func NewVerifyingTestServer(t *testing.T) *httptest.Server {
	return NewTestServerWithService(t, accountService(t, true))
}

func NewTestServerWithService(_ *testing.T, service account.Service) *httptest.Server {
	server := transport.NewServer(defaultTestConfig(), &transport.Services{
		Account: service,
	})

	return server.NewTestServer()
}

type RegisteredUser struct {
	Email    string
	Password string
}

func RegisterNewUser(t *testing.T, server *httptest.Server, role string) *RegisteredUser {
	user := &RegisteredUser{
		Email:    test.NewEmail(),
		Password: "pw123",
	}

	resp, err := resty.New().SetBaseURL(server.URL).R().
		SetBody(map[string]string{
			"firstName": "Ann",
			"lastName":  "Lee",
			"email":     user.Email,
			"password":  user.Password,
			"role":      role,
		}).
		Post("/api/auth/register")

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	return user
}

func accountService(t *testing.T, verify bool) account.Service {
	service, err := account.NewService(accountStorage.NewInMemoryRepository(), &account.Options{
		Hasher:         password.NewSHA256(),
		VerifyPassword: verify,
	})
	require.NoError(t, err)

	return service
}

func defaultTestConfig() *config.Config {
	return &config.Config{
		RunAddress:      "",
		DatabaseDSN:     "",
		DatabaseTimeout: time.Second,
		PasswordHasher:  config.HasherSHA256,
	}
}

func JSON(t *testing.T, payload map[string]string) string {
	buf, err := json.Marshal(payload)
	require.NoError(t, err)

	return string(buf)
}
