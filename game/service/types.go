package service

import (
	"time"

	"github.com/wricardo/mcp-training/marsrobots/game/engine"
)

// SessionInfo provides information about a simulation session
type SessionInfo struct {
	ID             string            `json:"id"`
	PresetID       string            `json:"preset_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Bounds         engine.Bounds     `json:"bounds"`
	RobotCount     int               `json:"robot_count"`
	LostCount      int               `json:"lost_count"`
	Reports        []engine.Report   `json:"reports"`
	Lines          []string          `json:"lines"`
	Scents         []engine.ScentKey `json:"scents"`
}

// CreateSessionRequest selects a preset or explicit bounds for a new session.
// With neither, the default preset is used.
type CreateSessionRequest struct {
	PresetID string `json:"preset_id,omitempty"`
	Width    *int   `json:"width,omitempty"`
	Height   *int   `json:"height,omitempty"`
}

// DispatchRequest places one robot on a session's grid
type DispatchRequest struct {
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Orientation  string `json:"orientation"`
	Instructions string `json:"instructions"`
}

// DispatchResult contains the outcome of one robot dispatch
type DispatchResult struct {
	SessionID  string              `json:"session_id"`
	Report     engine.Report       `json:"report"`
	Line       string              `json:"line"`
	Steps      []engine.StepResult `json:"steps"`
	ScentAdded bool                `json:"scent_added"`
	Scents     []engine.ScentKey   `json:"scents"`
}

// RunResult contains the outcome of a stateless batch run
type RunResult struct {
	Reports    []engine.Report       `json:"reports"`
	Lines      []string              `json:"lines"`
	Scents     []engine.ScentKey     `json:"scents"`
	Steps      [][]engine.StepResult `json:"steps,omitempty"`
	LostCount  int                   `json:"lost_count"`
	Suppressed int                   `json:"suppressed_moves"`
}

// PresetInfo provides information about a scenario preset
type PresetInfo struct {
	Filename    string `json:"filename"`
	PresetID    string `json:"preset_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	RobotCount  int    `json:"robot_count"`
}
