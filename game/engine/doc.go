// Package engine provides the core simulation logic for the Martian Robots simulator.
//
// The engine package implements:
//   - Grid bounds and off-grid detection
//   - Orientation rotation and forward movement
//   - The scent registry shared by every robot of a run
//   - Robot instruction interpretation and loss detection
//   - Sequential simulation runs and per-robot reports
//
// Core Types:
//
// Robot owns one robot's state and interprets commands against the grid
// Bounds and a ScentRegistry. Simulation owns the bounds and the registry of
// a single run and dispatches robots one at a time. Run is the batch form:
// it validates a World and dispatches every robot in input order.
//
// Usage:
//
//	world := engine.World{
//		Bounds: engine.Bounds{MaxWidth: 5, MaxHeight: 3},
//		Robots: []engine.RobotSpec{{Start: engine.Position{X: 1, Y: 1}, Orientation: engine.East}},
//		Instructions: []engine.Instructions{
//			engine.MustParseInstructions("RFRFRFRF"),
//		},
//	}
//
//	result, err := engine.Run(world)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, line := range result.Lines() {
//		fmt.Println(line)
//	}
//
// Scents:
//
// When a robot moves off the grid it keeps its last on-grid position, is
// marked LOST and leaves a scent keyed by that position and its orientation.
// A later robot standing on the same cell with the same orientation ignores
// the move-forward that would lose it. A robot on the same cell facing another
// way is not protected. Robots are never run concurrently because every robot
// depends on the scents left by the robots before it.
package engine
