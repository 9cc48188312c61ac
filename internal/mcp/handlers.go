package mcp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// LoadRequest represents the arguments for studio_load.
type LoadRequest struct {
	Path   string `json:"path"`
	Alias  string `json:"alias,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// SetRequest represents the arguments for studio_set.
type SetRequest struct {
	Key      string    `json:"key"`
	Property string    `json:"property"`
	Value    flexValue `json:"value"`
}

// RenderRequest represents the arguments for studio_render.
type RenderRequest struct {
	Key string `json:"key,omitempty"`
}

// SessionRequest represents the arguments for tools addressing a session by name.
type SessionRequest struct {
	Name string `json:"name"`
}

// ListRequest represents the arguments for session_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// flexValue accepts a JSON string or number.
type flexValue string

func (v *flexValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = flexValue(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = flexValue(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Handler implementations

func (h *Handlers) HandleLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LoadRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidParameter(err.Error())), nil
	}

	result, err := h.env.Load(ops.LoadInput{
		Path:   input.Path,
		Alias:  input.Alias,
		Width:  input.Width,
		Height: input.Height,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

func (h *Handlers) HandleSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidParameter(err.Error())), nil
	}

	result, err := h.env.Set(ops.SetInput{
		Key:      input.Key,
		Property: input.Property,
		Value:    strings.TrimSpace(string(input.Value)),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RenderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidParameter(err.Error())), nil
	}

	result, err := h.env.Render(ops.RenderInput{Key: input.Key})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

func (h *Handlers) HandleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.env.Info())
}

func (h *Handlers) HandleSessionSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SessionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidParameter(err.Error())), nil
	}

	result, err := h.env.SaveSession(ctx, ops.SaveSessionInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

func (h *Handlers) HandleSessionLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SessionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidParameter(err.Error())), nil
	}

	result, err := h.env.LoadSession(ctx, ops.LoadSessionInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

func (h *Handlers) HandleSessionList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidParameter(err.Error())), nil
	}

	result, err := h.env.ListSessions(ctx, ops.ListSessionsInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

func (h *Handlers) HandleSessionDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SessionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidParameter(err.Error())), nil
	}

	result, err := h.env.DeleteSession(ctx, ops.DeleteSessionInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// INTERNAL errors never carry details.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := errors.As(err); ok {
		msg := sErr.Message
		// keep context added by fmt.Errorf wrappers
		if full := err.Error(); full != sErr.Error() {
			msg = strings.TrimSuffix(full, sErr.Error()) + sErr.Message
		}
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": msg,
			"status":  sErr.Status,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
