package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/pentestreports/mcp-server/pkg/server"
	"github.com/pentestreports/mcp-server/pkg/storage"
	"github.com/pentestreports/mcp-server/pkg/tools"
	"github.com/pentestreports/mcp-server/pkg/validate"
)

type Input struct {
	Action    string `json:"action" validate:"required,oneof=list get delete clear"`
	ID        uint   `json:"id,omitempty"`
	Tool      string `json:"tool,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Limit     int    `json:"limit,omitempty" validate:"min=0,max=100"`
	Offset    int    `json:"offset,omitempty" validate:"min=0"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	store     storage.Storage
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        "history",
		Description: "Browse and manage the bridge call audit trail. Actions: list (paginated, optionally filtered by tool or sessionId), get (by ID), delete (by ID), clear (all).",
	}

	t.store = srv.Storage()

	mcp.AddTool(&srv.Server, tool, t.HistoryHandler)
	t.logger.Debug().Msg("history tool registered")

	return nil
}

func (t *Tool) HistoryHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := validate.Struct(t.validator, input); err != nil {
		return nil, nil, err
	}

	var resultText string

	switch input.Action {
	case "list":
		limit := input.Limit
		if limit == 0 {
			limit = 10
		}
		switch {
		case input.Tool != "":
			records, err := t.store.GetCallRecordsByTool(ctx, input.Tool, limit)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to list call records: %w", err)
			}
			data, _ := json.MarshalIndent(map[string]any{
				"tool":    input.Tool,
				"limit":   limit,
				"records": records,
			}, "", "  ")
			resultText = string(data)
		case input.SessionID != "":
			records, err := t.store.GetCallRecordsBySession(ctx, input.SessionID)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to list call records: %w", err)
			}
			data, _ := json.MarshalIndent(map[string]any{
				"sessionId": input.SessionID,
				"records":   records,
			}, "", "  ")
			resultText = string(data)
		default:
			records, total, err := t.store.GetCallRecords(ctx, limit, input.Offset)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to list call records: %w", err)
			}
			data, _ := json.MarshalIndent(map[string]any{
				"total":   total,
				"limit":   limit,
				"offset":  input.Offset,
				"records": records,
			}, "", "  ")
			resultText = string(data)
		}

	case "get":
		if input.ID == 0 {
			return nil, nil, fmt.Errorf("id is required for get action")
		}
		rec, err := t.store.GetCallRecord(ctx, input.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("call record not found: %w", err)
		}
		data, _ := json.MarshalIndent(rec, "", "  ")
		resultText = string(data)

	case "delete":
		if input.ID == 0 {
			return nil, nil, fmt.Errorf("id is required for delete action")
		}
		if err := t.store.DeleteCallRecord(ctx, input.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to delete call record: %w", err)
		}
		resultText = fmt.Sprintf("Call record %d deleted successfully", input.ID)

	case "clear":
		if err := t.store.DeleteAllCallRecords(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to clear call records: %w", err)
		}
		resultText = "Call audit trail cleared"
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: resultText},
		},
	}, nil, nil
}

func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", "history").Logger(),
		validator: validate.New(),
	}
}
