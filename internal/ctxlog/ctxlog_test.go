package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_DefaultsToGlobal(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWithRun(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	FromContext(WithRun(ctx, "abc")).Info("hello")
	FromContext(ctx).Info("plain")

	assert.Contains(t, buf.String(), "msg=hello run_id=abc")
	assert.NotContains(t, buf.String(), "msg=plain run_id")
}
