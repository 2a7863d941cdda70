package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/iloveparkjisung/Database-Assesment/pkg/records"
)

type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// jsonResult serializes v as the text of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the tracker MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_tracker"), nil
}

type viewInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// RegisterListViewsTool registers the list_views tool.
func RegisterListViewsTool(s *server.MCPServer, tracker *records.Tracker) {
	tool := mcp.NewTool("list_views",
		mcp.WithDescription(fmt.Sprintf("Lists the named views of the %s.", tracker.Title)),
	)
	s.AddTool(tool, listViewsHandler(tracker))
}

func listViewsHandler(tracker *records.Tracker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		views := make([]viewInfo, len(tracker.Views))
		for i, v := range tracker.Views {
			views[i] = viewInfo{Name: v.Name, Label: v.Label}
		}
		return jsonResult(views)
	}
}

// RegisterShowViewTool registers the show_view tool.
func RegisterShowViewTool(s *server.MCPServer, db *sql.DB, tracker *records.Tracker) {
	names := make([]string, len(tracker.Views))
	for i, v := range tracker.Views {
		names[i] = v.Name
	}
	tool := mcp.NewTool("show_view",
		mcp.WithDescription("Returns every row of a named view as JSON {columns, rows}."),
		mcp.WithString("view", mcp.Required(), mcp.Enum(names...), mcp.Description("Name of the view.")),
	)
	s.AddTool(tool, showViewHandler(db))
}

func showViewHandler(db *sql.DB) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, ok := request.Params.Arguments["view"].(string)
		if !ok || name == "" {
			return mcp.NewToolResultError("'view' parameter is required and must be a non-empty string."), nil
		}

		res, err := records.ViewQuery(ctx, db, name)
		if err != nil {
			if errors.Is(err, records.ErrViewNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("View '%s' not found.", name)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to show view '%s': %v", name, err)), nil
		}
		return jsonResult(res)
	}
}

// RegisterShowAllTool registers the show_all tool.
func RegisterShowAllTool(s *server.MCPServer, db *sql.DB, tracker *records.Tracker) {
	tool := mcp.NewTool("show_all",
		mcp.WithDescription(fmt.Sprintf("Lists all %s with their lookup values as JSON {columns, rows}.", tracker.Plural)),
	)
	s.AddTool(tool, showAllHandler(db, tracker))
}

func showAllHandler(db *sql.DB, tracker *records.Tracker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := tracker.ShowAll(ctx, db)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list %s: %v", tracker.Plural, err)), nil
		}
		return jsonResult(res)
	}
}

type filterInfo struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
	Hint   string `json:"hint,omitempty"`
}

// RegisterListFiltersTool registers the list_filters tool.
func RegisterListFiltersTool(s *server.MCPServer, tracker *records.Tracker) {
	tool := mcp.NewTool("list_filters",
		mcp.WithDescription("Lists the single-value filters usable with the filter tool."),
	)
	s.AddTool(tool, listFiltersHandler(tracker))
}

func listFiltersHandler(tracker *records.Tracker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filters := make([]filterInfo, len(tracker.Filters))
		for i, f := range tracker.Filters {
			filters[i] = filterInfo{Key: f.Key, Label: f.Label, Prompt: f.Prompt, Hint: f.Hint}
		}
		return jsonResult(filters)
	}
}

func filterKeys(tracker *records.Tracker) []string {
	keys := make([]string, len(tracker.Filters))
	for i, f := range tracker.Filters {
		keys[i] = f.Key
	}
	return keys
}

// RegisterFilterTool registers the filter tool.
func RegisterFilterTool(s *server.MCPServer, db *sql.DB, tracker *records.Tracker) {
	tool := mcp.NewTool("filter",
		mcp.WithDescription(fmt.Sprintf("Finds %s matching one value of a filter. An unknown value returns no rows.", tracker.Plural)),
		mcp.WithString("filter", mcp.Required(), mcp.Enum(filterKeys(tracker)...), mcp.Description("Filter key, see list_filters.")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to match. Lookup values match ignoring case.")),
	)
	s.AddTool(tool, filterHandler(db, tracker))
}

func filterHandler(db *sql.DB, tracker *records.Tracker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, keyOk := request.Params.Arguments["filter"].(string)
		value, valueOk := request.Params.Arguments["value"].(string)
		if !keyOk || key == "" {
			return mcp.NewToolResultError("'filter' parameter is required and must be a non-empty string."), nil
		}
		if !valueOk {
			return mcp.NewToolResultError("'value' parameter is required and must be a string."), nil
		}

		f, err := tracker.Filter(key)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown filter '%s'. Available filters: %s", key, strings.Join(filterKeys(tracker), ", "))), nil
		}

		res, err := tracker.FilterBy(ctx, db, f, value)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to filter %s by %s: %v", tracker.Plural, key, err)), nil
		}
		return jsonResult(res)
	}
}

// RegisterLookupValuesTool registers the lookup_values tool.
func RegisterLookupValuesTool(s *server.MCPServer, db *sql.DB, tracker *records.Tracker) {
	tool := mcp.NewTool("lookup_values",
		mcp.WithDescription("Lists the accepted values of a filter, when they are known."),
		mcp.WithString("filter", mcp.Required(), mcp.Enum(filterKeys(tracker)...), mcp.Description("Filter key, see list_filters.")),
	)
	s.AddTool(tool, lookupValuesHandler(db, tracker))
}

func lookupValuesHandler(db *sql.DB, tracker *records.Tracker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, ok := request.Params.Arguments["filter"].(string)
		if !ok || key == "" {
			return mcp.NewToolResultError("'filter' parameter is required and must be a non-empty string."), nil
		}

		f, err := tracker.Filter(key)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown filter '%s'.", key)), nil
		}

		values, err := f.Options(ctx, db)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list values for '%s': %v", key, err)), nil
		}
		if values == nil {
			values = []string{}
		}
		return jsonResult(values)
	}
}

// RegisterAddRecordTool registers the add_record tool. Its parameters are the
// fields of the tracker's form.
func RegisterAddRecordTool(s *server.MCPServer, db *sql.DB, tracker *records.Tracker) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(fmt.Sprintf("%s to the %s.", tracker.Form.Title, tracker.Title)),
	}
	for _, field := range tracker.Form.Fields {
		desc := field.Label
		if field.Kind == records.FieldInt {
			desc += fmt.Sprintf(" (whole number, %d-%d)", field.Min, field.Max)
		}
		if field.Kind == records.FieldChoice {
			desc += ". Must be one of the lookup values"
		}
		propOpts := []mcp.PropertyOption{mcp.Description(desc)}
		if field.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		opts = append(opts, mcp.WithString(field.Key, propOpts...))
	}

	tool := mcp.NewTool("add_record", opts...)
	s.AddTool(tool, addRecordHandler(db, tracker))
}

func addRecordHandler(db *sql.DB, tracker *records.Tracker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		vals := records.Values{}
		for _, field := range tracker.Form.Fields {
			switch v := request.Params.Arguments[field.Key].(type) {
			case string:
				vals[field.Key] = v
			case float64:
				// JSON numbers arrive as float64.
				if v != math.Trunc(v) {
					return mcp.NewToolResultError(fmt.Sprintf("'%s' must be a whole number, got %v.", field.Key, v)), nil
				}
				vals[field.Key] = strconv.FormatFloat(v, 'f', 0, 64)
			}
		}

		msg, err := tracker.Form.Submit(ctx, db, vals)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add record: %v", err)), nil
		}
		return mcp.NewToolResultText(msg), nil
	}
}
