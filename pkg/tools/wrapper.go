package tools

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pentestreports/mcp-server/pkg/client"
	"github.com/pentestreports/mcp-server/pkg/models"
	"github.com/pentestreports/mcp-server/pkg/storage"
	"github.com/pentestreports/mcp-server/pkg/types"
)

// WrapToolHandler wraps a tool handler to add call auditing and error
// classification: every call terminates in an envelope, a ParamError or an
// InternalError. No unclassified fault reaches the transport.
func WrapToolHandler[In any](
	store storage.Storage,
	toolName string,
	handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error),
) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, any, error) {
		startTime := time.Now()

		// Get session ID from request
		sessionID := ""
		if req != nil && req.Session != nil {
			sessionID = req.Session.ID()
		}

		// Execute the actual handler
		result, output, err := handler(ctx, req, input)

		duration := time.Since(startTime)

		if err != nil {
			var paramErr *types.ParamError
			var internalErr *types.InternalError
			if !errors.As(err, &paramErr) && !errors.As(err, &internalErr) {
				err = &types.InternalError{Msg: "unhandled failure in " + toolName, Err: err}
			}
		}

		// Create audit record
		rec := &models.CallRecord{
			SessionID:  sessionID,
			ToolName:   toolName,
			InputJSON:  redactInput(input),
			DurationMs: duration.Milliseconds(),
			Success:    err == nil,
		}

		if err != nil {
			rec.ErrorMessage = err.Error()
		}
		if env, ok := output.(*client.Envelope); ok && env != nil {
			rec.Endpoint = env.Endpoint
			rec.HTTPStatus = env.Status
			// An upstream rejection is a locally successful call, but the
			// audit trail records what the API said.
			rec.Success = env.Success
		}

		// Log the call asynchronously to avoid blocking.
		// Using background context intentionally - auditing should complete even if request is cancelled.
		go func() { //nolint:contextcheck
			_ = store.CreateCallRecord(context.Background(), rec)
		}()

		return result, output, err
	}
}

// redactInput serializes the tool input with the bearer credential stripped.
// Tokens never land in the audit trail.
func redactInput(input any) string {
	data, err := json.Marshal(input)
	if err != nil {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return string(data)
	}
	if _, ok := fields["bearerToken"]; !ok {
		return string(data)
	}
	fields["bearerToken"] = json.RawMessage(`"[redacted]"`)
	redacted, err := json.Marshal(fields)
	if err != nil {
		return string(data)
	}
	return string(redacted)
}
