// Package api provides the HTTP REST API for the Martian Robots simulator.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session from a preset or explicit bounds
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit=N)
//   - GET /api/sessions/{id} - Get a session snapshot
//   - DELETE /api/sessions/{id} - Delete a session
//
// Robots:
//   - POST /api/sessions/{id}/robots - Dispatch one robot onto the session grid
//   - GET /api/sessions/{id}/robots - List final reports in dispatch order
//   - GET /api/sessions/{id}/scents - List scents left by lost robots
//   - GET /api/sessions/{id}/map - ASCII rendering of the grid
//
// Batch:
//   - POST /api/run - Run a complete world without a session. The body is
//     the plain text input format, or a JSON world when Content-Type is
//     application/json. format=text returns the output lines only;
//     steps=true includes per-command step records.
//
// Presets:
//   - GET /api/presets - List presets
//   - GET /api/presets/{name} - Get a preset (?format=text for the plain input format)
//   - POST /api/presets - Save a preset (id query parameter, defaults to its name)
//
// Other:
//   - GET /ws?session={id} - WebSocket stream of dispatch events
//   - GET /metrics - Prometheus metrics
//   - GET /healthz - Health check
//
// Dispatch request:
//
//	{"x": 3, "y": 2, "orientation": "N", "instructions": "FRRFLLFFRRFLL"}
//
// Errors are returned as JSON:
//
//	{"error": "invalid request: start (9, 9) is off grid"}
//
// with 404 for unknown sessions or presets, 400 for invalid requests and
// input, and 500 otherwise.
package api
