package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const HasherSHA256 = "sha256"
const HasherArgon2id = "argon2id"

type Config struct {
	RunAddress      string        `env:"RUN_ADDRESS"`
	DatabaseDSN     string        `env:"DATABASE_URI"`
	DatabaseTimeout time.Duration `env:"DATABASE_TIMEOUT"`
	PasswordHasher  string        `env:"PASSWORD_HASHER"`
	// VerifyPassword turns on secret checking during login. Off by default to stay
	// compatible with clients that never sent a real password.
	VerifyPassword bool `env:"VERIFY_PASSWORD"`
}

// Resolve builds the config from defaults, then command line args, then environment.
func Resolve(args []string) (*Config, error) {
	conf := &Config{
		RunAddress:      "localhost:8080",
		DatabaseDSN:     "",
		DatabaseTimeout: 5 * time.Second,
		PasswordHasher:  HasherSHA256,
		VerifyPassword:  false,
	}

	err := parseFlags(conf, args)
	if err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	err = parseEnv(conf)
	if err != nil {
		return nil, fmt.Errorf("error parsing env: %w", err)
	}

	err = checkRequiredFields(conf)
	if err != nil {
		return nil, fmt.Errorf("required fields: %w", err)
	}

	return conf, nil
}

func parseFlags(conf *Config, args []string) error {
	fs := flag.NewFlagSet("accounts", flag.ContinueOnError)

	fs.Func(
		"a",
		fmt.Sprintf("Address where server will be started, host:port (default %v)", conf.RunAddress),
		func(addr string) error {
			err := validateServerAddress(addr)
			if err != nil {
				return fmt.Errorf("invalid server address: %w", err)
			}

			conf.RunAddress = addr

			return nil
		},
	)
	fs.Func(
		"p",
		fmt.Sprintf("Password hasher, %s or %s (default %v)", HasherSHA256, HasherArgon2id, conf.PasswordHasher),
		func(name string) error {
			err := validatePasswordHasher(name)
			if err != nil {
				return err
			}

			conf.PasswordHasher = name

			return nil
		},
	)
	fs.StringVar(&conf.DatabaseDSN, "d", conf.DatabaseDSN, "Database DSN for PostgreSQL connection")
	fs.DurationVar(&conf.DatabaseTimeout, "t", conf.DatabaseTimeout, "Timeout for a single database call")
	fs.BoolVar(&conf.VerifyPassword, "verify-password", conf.VerifyPassword, "Check password on login")

	return fs.Parse(args)
}

func parseEnv(conf *Config) error {
	if err := env.Parse(conf); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	err := validateServerAddress(conf.RunAddress)
	if err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	err = validatePasswordHasher(conf.PasswordHasher)
	if err != nil {
		return err
	}

	if conf.DatabaseTimeout <= 0 {
		return errors.New("database timeout must be positive")
	}

	return nil
}

func checkRequiredFields(conf *Config) error {
	if conf.RunAddress == "" {
		return errors.New("run address is required")
	}

	if conf.DatabaseDSN == "" {
		return errors.New("database DSN is required")
	}

	return nil
}

func validatePasswordHasher(name string) error {
	switch name {
	case HasherSHA256, HasherArgon2id:
		return nil
	default:
		return fmt.Errorf("unknown password hasher: %q", name)
	}
}

func validateServerAddress(address string) error {
	parts := strings.Split(address, ":")
	if len(parts) != 2 {
		return errors.New("need address in a form host:port")
	}

	if err := validateIP(parts[0]); err != nil {
		return fmt.Errorf("invalid ip address: %w", err)
	}

	if err := validatePort(parts[1]); err != nil {
		return fmt.Errorf("invalid port in address: %w", err)
	}

	return nil
}

func validateIP(ipString string) error {
	if ipString == "localhost" || ipString == "" {
		return nil
	}

	ip := net.ParseIP(ipString)
	if ip == nil {
		return fmt.Errorf("could not parse ip: %v", ipString)
	}

	return nil
}

func validatePort(portString string) error {
	port, err := strconv.Atoi(portString)
	if err != nil {
		return fmt.Errorf("could not parse port: %w", err)
	}

	if port < 0 || port > 65535 {
		return fmt.Errorf("port out of range: %d", port)
	}

	return nil
}
