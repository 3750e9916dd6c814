// Package mcp exposes the simulator to AI agents over the Model Context
// Protocol.
//
// The Client registers MCP tools and proxies every call to the REST API, so
// agents and HTTP clients share the same sessions:
//   - create_session: Create a session from a preset or explicit bounds
//   - list_sessions: List all active sessions
//   - get_session: Session details with reports and a map of the grid
//   - dispatch_robot: Run one robot against the session's scents
//   - list_scents: List scents left by lost robots
//   - run_simulation: Run a complete plain text input without a session
//   - list_presets: List available presets
//   - simulation_rules: Rules and input format
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	router.Handle("/mcp", client.HTTPHandler())
package mcp
