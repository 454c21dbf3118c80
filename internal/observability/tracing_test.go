package observability

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracingDisabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, tp.Shutdown(context.Background()))
}

func TestInitTracingWritesSpansToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")

	ctx := context.Background()
	tp, err := InitTracing(ctx, TracingConfig{Enabled: true, TraceFile: path}, "test")
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(ctx, "section.run")
	span.End()
	require.NoError(t, tp.Shutdown(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "section.run")
}
