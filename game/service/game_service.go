package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/marsrobots/game/engine"
)

// SimulationService defines all simulation operations
type SimulationService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Robot Operations
	DispatchRobot(ctx context.Context, sessionID string, req DispatchRequest) (*DispatchResult, error)
	GetScents(ctx context.Context, sessionID string) ([]engine.ScentKey, error)
	GetReports(ctx context.Context, sessionID string) ([]engine.Report, error)

	// Batch
	Run(ctx context.Context, world engine.World) (*RunResult, error)

	// Presets
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
	LoadPreset(ctx context.Context, name string) (*engine.Scenario, error)
	SavePreset(ctx context.Context, name string, scenario *engine.Scenario) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, bounds engine.Bounds, presetID string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles preset loading
type ConfigManager interface {
	LoadPreset(name string) (*engine.Scenario, error)
	ListPresets() ([]*PresetInfo, error)
	GetDefault() *engine.Scenario
	SavePreset(name string, scenario *engine.Scenario) error
}

// Session is one simulation run: a grid, its scent registry and the robots
// dispatched onto it so far
type Session struct {
	ID             string
	PresetID       string
	Simulation     *engine.Simulation
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Lock serialises dispatches within the session
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock
func (s *Session) Unlock() { s.mu.Unlock() }
