package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dagimg-dot/floww/internal/config"
)

func TestFileExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "out.jsonl")

	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "workflow.apply")
	parent.SetAttributes(attribute.String("workflow.name", "dev"))
	_, child := tracer.Start(ctx, "workflow.step")
	child.End()
	parent.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var records []spanRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec spanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)

	// Child span exports first (it ends first) and links to its parent.
	require.Equal(t, "workflow.step", records[0].Name)
	require.Equal(t, "workflow.apply", records[1].Name)
	require.Equal(t, records[1].SpanID, records[0].ParentID)
	require.Equal(t, "dev", records[1].Attributes["workflow.name"])
}

func TestSetup(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		provider, err := Setup(config.Tracing{Enabled: false}, "")
		require.NoError(t, err)
		require.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("file exporter uses default path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "traces.jsonl")
		provider, err := Setup(config.Tracing{Enabled: true, Exporter: "file"}, path)
		require.NoError(t, err)
		require.NoError(t, provider.Shutdown(context.Background()))
		_, err = os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("unknown exporter", func(t *testing.T) {
		_, err := Setup(config.Tracing{Enabled: true, Exporter: "zipkin"}, "")
		require.Error(t, err)
	})
}
