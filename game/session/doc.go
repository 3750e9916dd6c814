// Package session provides in-memory session management for the simulator.
//
// A session is one simulation run on a fixed grid. It owns the scent registry
// shared by every robot dispatched into it, so a robot lost in one session
// never protects robots in another.
//
// Sessions use 4-character hex IDs generated from crypto/rand. Lookups are
// case-insensitive. The manager is safe for concurrent use; dispatches within
// one session are serialised by the session's own lock.
//
// Usage:
//
//	manager := session.NewManager(logger)
//
//	sess, err := manager.Create("", engine.Bounds{MaxWidth: 5, MaxHeight: 3}, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess.Lock()
//	d, err := sess.Simulation.Dispatch(spec, cmds)
//	sess.Unlock()
//
// Sessions are not persisted. CleanupExpiredSessions drops sessions that have
// not been accessed within a given age.
package session
