package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContext(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	newCtx := WithContext(ctx, logger)
	got := FromContext(newCtx)

	assert.Same(t, logger, got)
}

func TestFromContext_NotFound(t *testing.T) {
	got := FromContext(context.Background())
	assert.NotNil(t, got)
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	newCtx, newLogger := WithRequestID(ctx, logger, "req-123")

	assert.NotNil(t, newLogger)
	assert.Equal(t, "req-123", GetRequestID(newCtx))
	assert.Same(t, newLogger, FromContext(newCtx))
}

func TestWithUserID(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	newCtx, _ := WithUserID(ctx, logger, "user-1")
	assert.Equal(t, "user-1", GetUserID(newCtx))
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetUserID_NotFound(t *testing.T) {
	assert.Empty(t, GetUserID(context.Background()))
}

func TestContextKeysAreDistinct(t *testing.T) {
	assert.NotEqual(t, RequestIDKey, UserIDKey)
	assert.NotEqual(t, LoggerKey, RequestIDKey)
}
