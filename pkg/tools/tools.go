package tools

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pentestreports/mcp-server/pkg/client"
	"github.com/pentestreports/mcp-server/pkg/server"
)

type Tool interface {
	Register(srv *server.Server) error
}

// EnvelopeResult renders an envelope as the call's text content. Upstream
// failures ride along here with success false; they are data, not errors.
func EnvelopeResult(env *client.Envelope) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(env, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}
