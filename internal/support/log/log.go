package log

import (
	"fmt"
	"runtime"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

var logger = zap.NewNop().Sugar()

func Logger() *zap.SugaredLogger {
	return logger
}

func IsOutputsToConsole() bool {
	// for now, we only use `zap.NewDevelopment`, which uses stderr as output
	return true
}

func IsColorOutputSupported() bool {
	if !IsOutputsToConsole() {
		return false
	}

	if runtime.GOOS == "windows" {
		return false
	}

	return true
}

func InitLogger() error {
	noSugarLogger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("logger build error: %w", err)
	}

	logger = noSugarLogger.Sugar()

	return nil
}

// InitTestLogger routes log output through t.Log until the test finishes.
func InitTestLogger(t *testing.T) {
	previous := logger
	logger = zaptest.NewLogger(t).Sugar()

	t.Cleanup(func() {
		logger = previous
	})
}
