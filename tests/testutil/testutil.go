// Package testutil holds helpers shared by the integration suites: fixed
// identities, a recording notification dispatcher and polling assertions.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/require"
)

var testNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NewTestUUID generates a deterministic UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(testNamespace, []byte(seed))
}

// Customer returns a non-staff caller whose identity is derived from name
func Customer(name string) shared.Caller {
	return shared.NewCaller(NewTestUUID("customer:"+name), name+"@mail.local", false)
}

// Staff returns a staff caller whose identity is derived from name
func Staff(name string) shared.Caller {
	return shared.NewCaller(NewTestUUID("staff:"+name), name+"@shop.local", true)
}

// ContextWithTimeout creates a context that is cancelled when the test ends
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually polls condition until it holds, failing the test on timeout
func RequireEventually(t *testing.T, condition func() bool, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	require.Eventually(t, condition, timeout, 20*time.Millisecond, msgAndArgs...)
}
