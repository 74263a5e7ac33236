package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("defaults with dsn flag", func(t *testing.T) {
		conf, err := Resolve([]string{"-d", "postgres://localhost/accounts"})
		require.NoError(t, err)

		assert.Equal(t, "localhost:8080", conf.RunAddress)
		assert.Equal(t, "postgres://localhost/accounts", conf.DatabaseDSN)
		assert.Equal(t, 5*time.Second, conf.DatabaseTimeout)
		assert.Equal(t, HasherSHA256, conf.PasswordHasher)
		assert.False(t, conf.VerifyPassword)
	})

	t.Run("env overrides flags", func(t *testing.T) {
		t.Setenv("RUN_ADDRESS", "127.0.0.1:9090")
		t.Setenv("DATABASE_URI", "postgres://env/accounts")
		t.Setenv("PASSWORD_HASHER", HasherArgon2id)
		t.Setenv("VERIFY_PASSWORD", "true")
		t.Setenv("DATABASE_TIMEOUT", "2s")

		conf, err := Resolve([]string{"-a", "localhost:8081", "-d", "postgres://flag/accounts"})
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9090", conf.RunAddress)
		assert.Equal(t, "postgres://env/accounts", conf.DatabaseDSN)
		assert.Equal(t, HasherArgon2id, conf.PasswordHasher)
		assert.True(t, conf.VerifyPassword)
		assert.Equal(t, 2*time.Second, conf.DatabaseTimeout)
	})

	t.Run("dsn is required", func(t *testing.T) {
		_, err := Resolve(nil)
		assert.ErrorContains(t, err, "database DSN is required")
	})

	t.Run("invalid address flag", func(t *testing.T) {
		_, err := Resolve([]string{"-a", "nope", "-d", "x"})
		assert.Error(t, err)
	})

	t.Run("unknown hasher", func(t *testing.T) {
		t.Setenv("PASSWORD_HASHER", "md5")

		_, err := Resolve([]string{"-d", "x"})
		assert.ErrorContains(t, err, "unknown password hasher")
	})
}

func TestValidateServerAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{name: "localhost", address: "localhost:8080"},
		{name: "ip", address: "10.0.0.1:80"},
		{name: "any interface", address: ":8080"},
		{name: "no port", address: "localhost", wantErr: true},
		{name: "bad ip", address: "300.0.0.1:80", wantErr: true},
		{name: "port out of range", address: "localhost:70000", wantErr: true},
		{name: "port not a number", address: "localhost:http", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateServerAddress(tt.address)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
