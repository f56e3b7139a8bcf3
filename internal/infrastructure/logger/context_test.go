package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithContext(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	ctxWithLogger := WithContext(ctx, logger)

	retrievedLogger := FromContext(ctxWithLogger)
	assert.NotNil(t, retrievedLogger)
}

func TestFromContext_NotFound(t *testing.T) {
	ctx := context.Background()
	logger := FromContext(ctx)

	// Should return a no-op logger
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	requestID := "req-123"

	newCtx, newLogger := WithRequestID(ctx, logger, requestID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, requestID, GetRequestID(newCtx))
}

func TestWithOrganizationID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	orgID := "org-456"

	newCtx, newLogger := WithOrganizationID(ctx, logger, orgID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, orgID, GetOrganizationID(newCtx))
}

func TestWithUserID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	userID := "user-789"

	newCtx, newLogger := WithUserID(ctx, logger, userID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, userID, GetUserID(newCtx))
}

func TestGetRequestID_NotFound(t *testing.T) {
	ctx := context.Background()
	requestID := GetRequestID(ctx)
	assert.Empty(t, requestID)
}

func TestGetOrganizationID_NotFound(t *testing.T) {
	ctx := context.Background()
	orgID := GetOrganizationID(ctx)
	assert.Empty(t, orgID)
}

func TestGetUserID_NotFound(t *testing.T) {
	ctx := context.Background()
	userID := GetUserID(ctx)
	assert.Empty(t, userID)
}

func TestContextChaining(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, logger, "req-1")
	ctx, _ = WithOrganizationID(ctx, logger, "org-2")
	ctx, _ = WithUserID(ctx, logger, "user-3")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "org-2", GetOrganizationID(ctx))
	assert.Equal(t, "user-3", GetUserID(ctx))
}

func TestL_NilSafe(t *testing.T) {
	// L on a bare context must not panic; it falls back to a no-op logger
	cl := L(context.Background())
	cl.Info("noop entry")
	cl.Debug("noop entry", zap.String("k", "v"))
}

func TestContextLogger_EnrichesFields(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, logger, "req-42")
	ctx, _ = WithOrganizationID(ctx, logger, "org-42")

	cl := WithLogger(ctx, logger)
	enriched := cl.Zap()
	assert.NotNil(t, enriched)

	child := cl.With(zap.String("component", "test"))
	assert.NotNil(t, child)
	child.Warn("warn entry")
}
