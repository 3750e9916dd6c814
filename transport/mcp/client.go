package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/marsrobots/game/engine"
	"github.com/wricardo/mcp-training/marsrobots/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Martian Robots",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Martian Robots - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Robots explore a rectangular grid of Mars. Each robot starts at a position and
orientation and follows a string of L (turn left), R (turn right) and
F (forward) instructions. A robot that moves off the grid is LOST and leaves a
scent on its last position; later robots ignore a forward move that would
leave the grid from a scented position.

AVAILABLE TOOLS:
- create_session: Create a session from a preset or explicit grid bounds
- list_sessions: List all active sessions
- get_session: Get session details with a map of the grid
- dispatch_robot: Place one robot on a session grid and run its instructions
- list_scents: List scents left by lost robots in a session
- run_simulation: Run a complete input without a session
- list_presets: List available presets
- simulation_rules: Get the complete rules and input format`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new simulation session from a preset, or a blank grid with explicit bounds",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to load (optional, defaults to the sample preset)",
				},
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Upper-right x coordinate of a blank grid (0-50, requires height)",
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Upper-right y coordinate of a blank grid (0-50, requires width)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active simulation sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session, including robot reports and a map of the grid",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Robot operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "dispatch_robot",
		Description: "Place a robot on the session grid and execute its instructions. Robots run one at a time and share the session's scents.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Starting x coordinate",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Starting y coordinate",
				},
				"orientation": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"N", "E", "S", "W"},
					"description": "Starting orientation",
				},
				"instructions": map[string]interface{}{
					"type":        "string",
					"description": "Instruction string of L, R and F (at most 100 characters)",
				},
			},
			Required: []string{"session_id", "x", "y", "orientation", "instructions"},
		},
	}, c.handleDispatchRobot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scents",
		Description: "List the scents left by lost robots in a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleListScents)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_simulation",
		Description: "Run a complete input in the plain text format and return one output line per robot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"input": map[string]interface{}{
					"type":        "string",
					"description": "Grid line followed by alternating robot and instruction lines, e.g. \"5 3\\n1 1 E\\nRFRFRFRF\"",
				},
			},
			Required: []string{"input"},
		},
	}, c.handleRunSimulation)

	// Presets
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List available scenario presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulation_rules",
		Description: "Get the complete simulation rules and input format",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleSimulationRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves single JSON-RPC messages posted to it
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// Notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, reqBody, result)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if s, ok := result.(*string); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*s = string(data)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func sessionPath(sessionID string, parts ...string) string {
	p := "/api/sessions/" + url.PathEscape(sessionID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var body service.CreateSessionRequest
	body.PresetID, _ = args["preset_id"].(string)
	if w, ok := args["width"].(float64); ok {
		width := int(w)
		body.Width = &width
	}
	if h, ok := args["height"].(float64); ok {
		height := int(h)
		body.Height = &height
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\n", session.ID)
	result += formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		preset := s.PresetID
		if preset == "" {
			preset = "blank"
		}
		result += fmt.Sprintf("- %s (Preset: %s, Grid: %dx%d, Robots: %d, Lost: %d, Created: %s)\n",
			s.ID, preset, s.Bounds.MaxWidth, s.Bounds.MaxHeight, s.RobotCount, s.LostCount,
			s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)

	var grid string
	if err := c.do(ctx, "GET", sessionPath(sessionID, "map"), "", nil, &grid); err == nil {
		result += "\nMap (top row first, * = scent, lowercase = lost):\n" + grid
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDispatchRobot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	orientation, _ := args["orientation"].(string)
	instructions, _ := args["instructions"].(string)

	body := service.DispatchRequest{
		X:            int(x),
		Y:            int(y),
		Orientation:  orientation,
		Instructions: instructions,
	}

	var result service.DispatchResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "robots"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatDispatchResult(&result)), nil
}

func (c *Client) handleListScents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var response struct {
		Count  int               `json:"count"`
		Scents []engine.ScentKey `json:"scents"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "scents"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No scents yet. No robot has been lost in this session."), nil
	}

	result := fmt.Sprintf("Scents (%d):\n", response.Count)
	for _, s := range response.Scents {
		result += fmt.Sprintf("- (%d, %d) facing %s\n", s.X, s.Y, s.Orientation)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRunSimulation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, _ := request.GetArguments()["input"].(string)
	if strings.TrimSpace(input) == "" {
		return mcp.NewToolResultError("input is required"), nil
	}

	var result service.RunResult
	if err := c.do(ctx, "POST", "/api/run", "text/plain", strings.NewReader(input), &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunResult(&result)), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []service.PresetInfo
	if err := c.apiCall(ctx, "GET", "/api/presets", nil, &presets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Presets:\n\n"
	for _, p := range presets {
		result += fmt.Sprintf("• %s (%s)\n", p.PresetID, p.Name)
		if p.Description != "" {
			result += fmt.Sprintf("  %s\n", p.Description)
		}
		result += fmt.Sprintf("  Grid: %dx%d, Robots: %d\n\n", p.Width, p.Height, p.RobotCount)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSimulationRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := `Martian Robots - Simulation Rules

GRID:
• The surface is a rectangle from (0, 0) at the lower-left to (width, height)
  at the upper-right, both corners inclusive
• North is +y, east is +x
• The maximum value of any coordinate is 50

INSTRUCTIONS:
• L: turn 90 degrees left, staying on the same point
• R: turn 90 degrees right, staying on the same point
• F: move forward one point in the current orientation
• An instruction string holds at most 100 characters

LOST ROBOTS:
• A robot that moves off the grid is LOST
• Its last position on the grid is reported, followed by LOST
• It leaves a scent at that position for the orientation it was facing
• A lost robot ignores its remaining instructions

SCENTS:
• A forward move that would leave the grid from a scented position and
  orientation is ignored, and the robot stays where it is
• Scents are shared by every later robot in the same session or input
• Robots run strictly one after another

INPUT FORMAT:
5 3              <- upper-right coordinates of the grid
1 1 E            <- robot start position and orientation
RFRFRFRF         <- robot instructions
3 2 N
FRRFLLFFRRFLL
0 3 W
LLFFFLFLFL

OUTPUT:
1 1 E
3 3 N LOST
2 3 S

WORKING WITH SESSIONS:
• create_session starts from the sample preset unless you pick a preset or
  give explicit width and height for a blank grid
• dispatch_robot runs one robot at a time against the session's scents
• get_session shows every report and a map of the grid
• run_simulation runs a whole input without keeping any state`

	return mcp.NewToolResultText(rules), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	preset := session.PresetID
	if preset == "" {
		preset = "blank"
	}

	result := fmt.Sprintf("Session: %s\nPreset: %s\nGrid: %dx%d\nRobots: %d (lost: %d)\nScents: %d\n",
		session.ID, preset, session.Bounds.MaxWidth, session.Bounds.MaxHeight,
		session.RobotCount, session.LostCount, len(session.Scents))

	if len(session.Lines) > 0 {
		result += "\nReports:\n"
		for i, line := range session.Lines {
			result += fmt.Sprintf("  %d. %s\n", i+1, line)
		}
	}
	return result
}

func formatDispatchResult(result *service.DispatchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Robot %d: %s\n", result.Report.Number(), result.Line)
	if result.Report.Status == engine.StatusLost {
		b.WriteString("The robot fell off the grid.")
		if result.ScentAdded {
			fmt.Fprintf(&b, " New scent at (%d, %d) facing %s.",
				result.Report.Position.X, result.Report.Position.Y, result.Report.Orientation)
		}
		b.WriteString("\n")
	}

	suppressed := engine.CountSuppressed(result.Steps)
	if suppressed > 0 {
		fmt.Fprintf(&b, "Scents saved the robot from %d fatal move(s).\n", suppressed)
	}

	fmt.Fprintf(&b, "Commands executed: %d\n", len(result.Steps))
	fmt.Fprintf(&b, "Session scents: %d\n", len(result.Scents))
	return b.String()
}

func formatRunResult(result *service.RunResult) string {
	var b strings.Builder

	b.WriteString("Output:\n")
	for _, line := range result.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nRobots: %d, lost: %d, scents: %d, suppressed moves: %d\n",
		len(result.Reports), result.LostCount, len(result.Scents), result.Suppressed)
	return b.String()
}
