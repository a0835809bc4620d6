// Package reports exposes the report operations of the backing pentest-
// reports API as MCP tools.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/pentestreports/mcp-server/pkg/client"
	"github.com/pentestreports/mcp-server/pkg/htmlfmt"
	"github.com/pentestreports/mcp-server/pkg/models"
	"github.com/pentestreports/mcp-server/pkg/server"
	"github.com/pentestreports/mcp-server/pkg/tools"
	"github.com/pentestreports/mcp-server/pkg/types"
	"github.com/pentestreports/mcp-server/pkg/validate"
)

const (
	getAllToolName = "get_all_reports"
	getToolName    = "get_report"
	createToolName = "create_report"
	updateToolName = "update_report"
)

// GetAllInput defines the get_all_reports parameters.
type GetAllInput struct {
	BearerToken string `json:"bearerToken,omitempty"`
}

// GetInput defines the get_report parameters.
type GetInput struct {
	ReportID    string `json:"reportId" validate:"required,mongoid"`
	BearerToken string `json:"bearerToken,omitempty"`
}

// CreateInput defines the create_report parameters.
type CreateInput struct {
	Title       string   `json:"title" validate:"required"`
	Platform    string   `json:"platform,omitempty"`
	TemplateID  string   `json:"templateId,omitempty" validate:"omitempty,mongoid"`
	Testers     []string `json:"testers,omitempty"`
	BearerToken string   `json:"bearerToken,omitempty"`
}

// UpdateInput defines the update_report parameters. Pointer fields keep
// "absent" distinguishable from "explicitly empty": only fields present in
// the call end up in the outgoing patch.
type UpdateInput struct {
	ReportID           string  `json:"reportId" validate:"required,mongoid"`
	Title              *string `json:"title,omitempty"`
	Platform           *string `json:"platform,omitempty"`
	Goal               *string `json:"goal,omitempty"`
	Scope              *string `json:"scope,omitempty"`
	SummaryDescription *string `json:"summaryDescription,omitempty"`
	SummaryKeyFindings *string `json:"summaryKeyFindings,omitempty"`
	Recommendations    *string `json:"recommendations,omitempty"`
	Status             *string `json:"status,omitempty" validate:"omitempty,oneof=Draft 'In Progress' Submitted Reviewed Closed"`
	BearerToken        string  `json:"bearerToken,omitempty"`
}

// Tool implements the four report operations.
type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	api       *client.Client
}

// Register registers the report tools with the MCP server.
func (t *Tool) Register(srv *server.Server) error {
	t.api = srv.API()

	mcp.AddTool(&srv.Server, &mcp.Tool{
		Name:        getAllToolName,
		Description: "List all penetration-testing reports.",
	}, tools.WrapToolHandler(srv.Storage(), getAllToolName, t.GetAllHandler))

	mcp.AddTool(&srv.Server, &mcp.Tool{
		Name:        getToolName,
		Description: "Fetch a single report by its 24-character hexadecimal id.",
	}, tools.WrapToolHandler(srv.Storage(), getToolName, t.GetHandler))

	mcp.AddTool(&srv.Server, &mcp.Tool{
		Name:        createToolName,
		Description: "Create a new report. The API assigns the report id.",
	}, tools.WrapToolHandler(srv.Storage(), createToolName, t.CreateHandler))

	mcp.AddTool(&srv.Server, &mcp.Tool{
		Name:        updateToolName,
		Description: "Partially update a report. Only supplied fields change; statuses are Draft, In Progress, Submitted, Reviewed and Closed.",
	}, tools.WrapToolHandler(srv.Storage(), updateToolName, t.UpdateHandler))

	t.logger.Debug().Msg("report tools registered")

	return nil
}

// GetAllHandler handles get_all_reports calls.
func (t *Tool) GetAllHandler(ctx context.Context, _ *mcp.CallToolRequest, input GetAllInput) (*mcp.CallToolResult, any, error) {
	env, err := t.api.Execute(ctx, http.MethodGet, "/report", input.BearerToken, nil)
	if err != nil {
		return nil, nil, err
	}
	if env.Success {
		env.Message = "Retrieved reports"
		var reports []models.Report
		if json.Unmarshal(env.Data, &reports) == nil {
			env.Message = fmt.Sprintf("Retrieved %d reports", len(reports))
		}
	}
	return tools.EnvelopeResult(env), env, nil
}

// GetHandler handles get_report calls.
func (t *Tool) GetHandler(ctx context.Context, _ *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, any, error) {
	if err := validate.Struct(t.validator, input); err != nil {
		return nil, nil, err
	}

	env, err := t.api.Execute(ctx, http.MethodGet, "/report/"+input.ReportID, input.BearerToken, nil)
	if err != nil {
		return nil, nil, err
	}
	if env.Success {
		env.Message = "Retrieved report " + input.ReportID
	}
	return tools.EnvelopeResult(env), env, nil
}

// CreateHandler handles create_report calls.
func (t *Tool) CreateHandler(ctx context.Context, _ *mcp.CallToolRequest, input CreateInput) (*mcp.CallToolResult, any, error) {
	if err := validate.Struct(t.validator, input); err != nil {
		return nil, nil, err
	}

	templateID := input.TemplateID
	if templateID == "" {
		templateID = types.DefaultTemplateID
	}
	testers := input.Testers
	if testers == nil {
		testers = []string{}
	}

	body := map[string]any{
		"title":      input.Title,
		"templateId": templateID,
		"testers":    testers,
	}
	if input.Platform != "" {
		body["platform"] = input.Platform
	}

	env, err := t.api.Execute(ctx, http.MethodPost, "/report", input.BearerToken, body)
	if err != nil {
		return nil, nil, err
	}
	if env.Success {
		env.Message = "Successfully created report"
		var report models.Report
		if json.Unmarshal(env.Data, &report) == nil && report.ID != "" {
			env.Message = "Successfully created report " + report.ID
		}
	}
	return tools.EnvelopeResult(env), env, nil
}

// UpdateHandler handles update_report calls.
func (t *Tool) UpdateHandler(ctx context.Context, _ *mcp.CallToolRequest, input UpdateInput) (*mcp.CallToolResult, any, error) {
	if err := validate.Struct(t.validator, input); err != nil {
		return nil, nil, err
	}

	patch := buildPatch(input)
	if len(patch) == 0 {
		return nil, nil, types.NewParamError("nothing to update: supply at least one report field")
	}

	env, err := t.api.Execute(ctx, http.MethodPut, "/report/"+input.ReportID, input.BearerToken, patch)
	if err != nil {
		return nil, nil, err
	}
	if env.Success {
		env.Message = "Successfully updated report " + input.ReportID
	}
	return tools.EnvelopeResult(env), env, nil
}

// buildPatch copies only the fields present in the call. The two summary
// fields accumulate into a nested summary object when at least one is
// present.
func buildPatch(input UpdateInput) map[string]any {
	patch := map[string]any{}
	if input.Title != nil {
		patch["title"] = *input.Title
	}
	if input.Platform != nil {
		patch["platform"] = *input.Platform
	}
	if input.Goal != nil {
		patch["goal"] = htmlfmt.Format(*input.Goal, htmlfmt.KindParagraph)
	}
	if input.Scope != nil {
		patch["scope"] = htmlfmt.Format(*input.Scope, htmlfmt.KindParagraph)
	}
	if input.SummaryDescription != nil || input.SummaryKeyFindings != nil {
		summary := map[string]any{}
		if input.SummaryDescription != nil {
			summary["description"] = htmlfmt.Format(*input.SummaryDescription, htmlfmt.KindParagraph)
		}
		if input.SummaryKeyFindings != nil {
			summary["keyFindings"] = htmlfmt.Format(*input.SummaryKeyFindings, htmlfmt.KindList)
		}
		patch["summary"] = summary
	}
	if input.Recommendations != nil {
		patch["recommendations"] = htmlfmt.Format(*input.Recommendations, htmlfmt.KindList)
	}
	if input.Status != nil {
		patch["status"] = *input.Status
	}
	return patch
}

// New creates the report tool set.
func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", "reports").Logger(),
		validator: validate.New(),
	}
}
