package test

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func Context(t *testing.T) (context.Context, context.CancelFunc) {
	deadline, ok := t.Deadline()
	if !ok {
		return context.WithCancel(context.Background())
	}

	return context.WithDeadline(context.Background(), deadline)
}

// NewEmail returns an address no other test uses.
func NewEmail() string {
	return uuid.NewString() + "@example.com"
}
