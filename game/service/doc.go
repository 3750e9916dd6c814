// Package service provides the business logic layer of the simulator.
//
// SimulationService sits between the transports (HTTP, WebSocket, MCP) and
// the engine. It owns session creation from presets or explicit bounds,
// validates robot placements before they reach the engine, serialises
// dispatches within a session and records Prometheus metrics.
//
// Core Interfaces:
//
// SimulationService is the main service interface. SessionManager stores
// sessions and ConfigManager loads presets; both are implemented by the
// session and config packages.
//
// Usage:
//
//	sessions := session.NewManager(logger)
//	presets, _ := config.NewManager("presets", logger)
//	svc := service.NewSimulationService(sessions, presets, logger)
//
//	info, err := svc.CreateSession(ctx, service.CreateSessionRequest{PresetID: "sample"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := svc.DispatchRobot(ctx, info.ID, service.DispatchRequest{
//		X: 1, Y: 1, Orientation: "E", Instructions: "RFRFRFRF",
//	})
//
// Errors wrap ErrNotFound or ErrInvalidRequest so transports can map them to
// status codes.
package service
