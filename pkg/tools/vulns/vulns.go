// Package vulns exposes the vulnerability operations of the backing
// pentest-reports API as MCP tools.
package vulns

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
	listToolName   = "get_vulnerabilities"
	getToolName    = "get_vulnerability"
	createToolName = "create_vulnerabilities"
	updateToolName = "update_vulnerability"
	deleteToolName = "delete_vulnerability"
)

// ListInput defines the get_vulnerabilities parameters.
type ListInput struct {
	ReportID    string `json:"reportId" validate:"required,mongoid"`
	BearerToken string `json:"bearerToken,omitempty"`
}

// GetInput defines the get_vulnerability parameters.
type GetInput struct {
	VulnerabilityID string `json:"vulnerabilityId" validate:"required,mongoid"`
	BearerToken     string `json:"bearerToken,omitempty"`
}

// VulnerabilityInput is one element of a create_vulnerabilities batch.
type VulnerabilityInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Details     *string  `json:"details,omitempty"`
	Impact      *string  `json:"impact,omitempty"`
	Remediation *string  `json:"remediation,omitempty"`
	CVSS        *string  `json:"cvss,omitempty" validate:"omitempty,startswith=CVSS:3.1/"`
	CVSSScore   *float64 `json:"cvssScore,omitempty" validate:"omitempty,min=0,max=10"`
	Severity    *string  `json:"severity,omitempty" validate:"omitempty,oneof=Informational Low Medium High Critical"`
	TaskID      *string  `json:"taskId,omitempty"`
}

// VulnerabilityList accepts either an array of vulnerabilities or a single
// object, which is coerced to a one-element batch.
type VulnerabilityList []VulnerabilityInput

func (l *VulnerabilityList) UnmarshalJSON(data []byte) error {
	var many []VulnerabilityInput
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one VulnerabilityInput
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = VulnerabilityList{one}
	return nil
}

// CreateInput defines the create_vulnerabilities parameters.
type CreateInput struct {
	ReportID        string            `json:"reportId" validate:"required,mongoid"`
	Vulnerabilities VulnerabilityList `json:"vulnerabilities" validate:"required"`
	BearerToken     string            `json:"bearerToken,omitempty"`
}

// UpdateInput defines the update_vulnerability parameters. Pointer fields
// keep "absent" distinguishable from "explicitly empty".
type UpdateInput struct {
	VulnerabilityID string   `json:"vulnerabilityId" validate:"required,mongoid"`
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Details         *string  `json:"details,omitempty"`
	Impact          *string  `json:"impact,omitempty"`
	Remediation     *string  `json:"remediation,omitempty"`
	CVSS            *string  `json:"cvss,omitempty" validate:"omitempty,startswith=CVSS:3.1/"`
	CVSSScore       *float64 `json:"cvssScore,omitempty" validate:"omitempty,min=0,max=10"`
	Severity        *string  `json:"severity,omitempty" validate:"omitempty,oneof=Informational Low Medium High Critical"`
	TaskID          *string  `json:"taskId,omitempty"`
	BearerToken     string   `json:"bearerToken,omitempty"`
}

// DeleteInput defines the delete_vulnerability parameters.
type DeleteInput struct {
	VulnerabilityID string `json:"vulnerabilityId" validate:"required,mongoid"`
	BearerToken     string `json:"bearerToken,omitempty"`
}

// Tool implements the five vulnerability operations.
type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	api       *client.Client
}

// Register registers the vulnerability tools with the MCP server.
func (t *Tool) Register(srv *server.Server) error {
	t.api = srv.API()

	mcp.AddTool(&srv.Server, &mcp.Tool{
		Name:        listToolName,
		Description: "List all vulnerabilities recorded under a report.",
	}, tools.WrapToolHandler(srv.Storage(), listToolName, t.ListHandler))

	mcp.AddTool(&srv.Server, &mcp.Tool{
		Name:        getToolName,
		Description: "Fetch a single vulnerability by its 24-character hexadecimal id.",
	}, tools.WrapToolHandler(srv.Storage(), getToolName, t.GetHandler))

	mcp.AddTool(&srv.Server, &mcp.Tool{
		Name:        createToolName,
		Description: "Create one or more vulnerabilities under a report. Each needs a title and a description; free text is normalized to HTML.",
	}, tools.WrapToolHandler(srv.Storage(), createToolName, t.CreateHandler))

	mcp.AddTool(&srv.Server, &mcp.Tool{
		Name:        updateToolName,
		Description: "Partially update a vulnerability. Only supplied fields change; severities are Informational, Low, Medium, High and Critical.",
	}, tools.WrapToolHandler(srv.Storage(), updateToolName, t.UpdateHandler))

	mcp.AddTool(&srv.Server, &mcp.Tool{
		Name:        deleteToolName,
		Description: "Delete a vulnerability by its 24-character hexadecimal id.",
	}, tools.WrapToolHandler(srv.Storage(), deleteToolName, t.DeleteHandler))

	t.logger.Debug().Msg("vulnerability tools registered")

	return nil
}

// ListHandler handles get_vulnerabilities calls.
func (t *Tool) ListHandler(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, any, error) {
	if err := validate.Struct(t.validator, input); err != nil {
		return nil, nil, err
	}

	env, err := t.api.Execute(ctx, http.MethodGet, "/vulnerability/report/"+input.ReportID, input.BearerToken, nil)
	if err != nil {
		return nil, nil, err
	}
	if env.Success {
		env.Message = "Retrieved vulnerabilities for report " + input.ReportID
		var vulns []models.Vulnerability
		if json.Unmarshal(env.Data, &vulns) == nil {
			env.Message = fmt.Sprintf("Retrieved %d vulnerabilities for report %s", len(vulns), input.ReportID)
		}
	}
	return tools.EnvelopeResult(env), env, nil
}

// GetHandler handles get_vulnerability calls.
func (t *Tool) GetHandler(ctx context.Context, _ *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, any, error) {
	if err := validate.Struct(t.validator, input); err != nil {
		return nil, nil, err
	}

	env, err := t.api.Execute(ctx, http.MethodGet, "/vulnerability/"+input.VulnerabilityID, input.BearerToken, nil)
	if err != nil {
		return nil, nil, err
	}
	if env.Success {
		env.Message = "Retrieved vulnerability " + input.VulnerabilityID
	}
	return tools.EnvelopeResult(env), env, nil
}

// CreateHandler handles create_vulnerabilities calls. The whole batch is
// validated before any request fires; one bad element aborts the call.
func (t *Tool) CreateHandler(ctx context.Context, _ *mcp.CallToolRequest, input CreateInput) (*mcp.CallToolResult, any, error) {
	if err := validate.Struct(t.validator, input); err != nil {
		return nil, nil, err
	}
	if len(input.Vulnerabilities) == 0 {
		return nil, nil, types.NewParamError("vulnerabilities must contain at least one element")
	}

	batch := make([]map[string]any, 0, len(input.Vulnerabilities))
	for i, vuln := range input.Vulnerabilities {
		if vuln.Title == "" {
			return nil, nil, types.NewParamError("vulnerability %d is missing a non-empty title", i+1)
		}
		if vuln.Description == "" {
			return nil, nil, types.NewParamError("vulnerability %d is missing a non-empty description", i+1)
		}
		if err := validate.Struct(t.validator, vuln); err != nil {
			return nil, nil, types.NewParamError("vulnerability %d: %v", i+1, err)
		}
		batch = append(batch, vulnerabilityBody(vuln))
	}

	env, err := t.api.Execute(ctx, http.MethodPost, "/vulnerability/"+input.ReportID, input.BearerToken, batch)
	if err != nil {
		return nil, nil, err
	}
	if env.Success {
		env.Message = fmt.Sprintf("Successfully created %d vulnerabilities", len(batch))
	}
	return tools.EnvelopeResult(env), env, nil
}

// UpdateHandler handles update_vulnerability calls.
func (t *Tool) UpdateHandler(ctx context.Context, _ *mcp.CallToolRequest, input UpdateInput) (*mcp.CallToolResult, any, error) {
	if err := validate.Struct(t.validator, input); err != nil {
		return nil, nil, err
	}

	patch := buildPatch(input)
	if len(patch) == 0 {
		return nil, nil, types.NewParamError("nothing to update: supply at least one vulnerability field")
	}

	env, err := t.api.Execute(ctx, http.MethodPut, "/vulnerability/"+input.VulnerabilityID, input.BearerToken, patch)
	if err != nil {
		return nil, nil, err
	}
	if env.Success {
		env.Message = "Successfully updated vulnerability " + input.VulnerabilityID
	}
	return tools.EnvelopeResult(env), env, nil
}

// DeleteHandler handles delete_vulnerability calls.
func (t *Tool) DeleteHandler(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, any, error) {
	if err := validate.Struct(t.validator, input); err != nil {
		return nil, nil, err
	}

	env, err := t.api.Execute(ctx, http.MethodDelete, "/vulnerability/"+input.VulnerabilityID, input.BearerToken, nil)
	if err != nil {
		return nil, nil, err
	}
	if env.Success {
		env.Message = "Successfully deleted vulnerability " + input.VulnerabilityID
	}
	return tools.EnvelopeResult(env), env, nil
}

// vulnerabilityBody builds one creation payload. Narrative fields are
// normalized to HTML; impact and remediation render as lists.
func vulnerabilityBody(vuln VulnerabilityInput) map[string]any {
	body := map[string]any{
		"title":       vuln.Title,
		"description": htmlfmt.Format(vuln.Description, htmlfmt.KindParagraph),
	}
	if vuln.Details != nil {
		body["details"] = htmlfmt.Format(*vuln.Details, htmlfmt.KindParagraph)
	}
	if vuln.Impact != nil {
		body["impact"] = htmlfmt.Format(*vuln.Impact, htmlfmt.KindList)
	}
	if vuln.Remediation != nil {
		body["remediation"] = htmlfmt.Format(*vuln.Remediation, htmlfmt.KindList)
	}
	if vuln.CVSS != nil {
		body["cvss"] = *vuln.CVSS
	}
	if vuln.CVSSScore != nil {
		body["cvssScore"] = *vuln.CVSSScore
	}
	if vuln.Severity != nil {
		body["severity"] = *vuln.Severity
	}
	if vuln.TaskID != nil {
		body["taskId"] = *vuln.TaskID
	}
	return body
}

// buildPatch copies only the fields present in the call.
func buildPatch(input UpdateInput) map[string]any {
	patch := map[string]any{}
	if input.Title != nil {
		patch["title"] = *input.Title
	}
	if input.Description != nil {
		patch["description"] = htmlfmt.Format(*input.Description, htmlfmt.KindParagraph)
	}
	if input.Details != nil {
		patch["details"] = htmlfmt.Format(*input.Details, htmlfmt.KindParagraph)
	}
	if input.Impact != nil {
		patch["impact"] = htmlfmt.Format(*input.Impact, htmlfmt.KindList)
	}
	if input.Remediation != nil {
		patch["remediation"] = htmlfmt.Format(*input.Remediation, htmlfmt.KindList)
	}
	if input.CVSS != nil {
		patch["cvss"] = *input.CVSS
	}
	if input.CVSSScore != nil {
		patch["cvssScore"] = *input.CVSSScore
	}
	if input.Severity != nil {
		patch["severity"] = *input.Severity
	}
	if input.TaskID != nil {
		patch["taskId"] = *input.TaskID
	}
	return patch
}

// New creates the vulnerability tool set.
func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", "vulns").Logger(),
		validator: validate.New(),
	}
}
