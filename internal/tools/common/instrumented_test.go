package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/drivekit/internal/instrumentation"
	"github.com/teemow/drivekit/internal/server"
)

func request(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandler_NoInstrumentation(t *testing.T) {
	sc := newServerContext(t)

	called := false
	wrapped := InstrumentedToolHandler("drive_about", true, sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := wrapped(context.Background(), request(nil))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, called)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandler_PassesErrorsThrough(t *testing.T) {
	sc := newServerContext(t)
	expectedErr := errors.New("boom")

	wrapped := InstrumentedToolHandler("drive_about", true, sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	})

	_, err := wrapped(context.Background(), request(nil))
	assert.Same(t, expectedErr, err)
}

func TestInstrumentedToolHandler_Audit(t *testing.T) {
	var buf bytes.Buffer
	audit := instrumentation.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), true)
	require.NoError(t, err)

	sc := newServerContext(t, server.WithAuditLogger(audit), server.WithMetrics(metrics))

	ok := InstrumentedToolHandler("drive_get_file", true, sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("file"), nil
	})
	_, err = ok(context.Background(), request(map[string]interface{}{"account": "work"}))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"tool_executed"`)
	assert.Contains(t, buf.String(), `"tool":"drive_get_file"`)
	assert.Contains(t, buf.String(), `"account":"work"`)

	buf.Reset()
	failing := InstrumentedToolHandler("drive_trash", false, sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("resourceIds is required"), nil
	})
	result, err := failing(context.Background(), request(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, buf.String(), `"msg":"tool_failed"`)
	assert.Contains(t, buf.String(), `"error":"resourceIds is required"`)
}

func TestResultText(t *testing.T) {
	assert.Equal(t, "bad id", resultText(mcp.NewToolResultError("bad id")))
	assert.Equal(t, "tool error", resultText(&mcp.CallToolResult{}))
}
