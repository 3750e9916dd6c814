// Package websocket pushes live session updates to browser clients.
//
// A central Hub tracks clients per session. Every dispatched robot produces
// a robot_dispatched message carrying the robot's final report, its output
// line and the session's scents:
//
//	{"session_id":"a1b2","event":"robot_dispatched",
//	 "report":{"id":1,"position":{"x":3,"y":3},"orientation":"N","status":"LOST"},
//	 "line":"3 3 N LOST",
//	 "scents":[{"x":3,"y":3,"orientation":"N"}]}
//
// Clients connect to /ws?session=<id>. Incoming client messages are ignored.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	hub.BroadcastDispatch(sessionID, result.Report, result.Scents)
//
// Run returns when its context is done and disconnects all clients.
package websocket
