package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/marsrobots/game/engine"
	"github.com/wricardo/mcp-training/marsrobots/game/metrics"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")

	// ErrPresetNotFound is wrapped by ConfigManager implementations when a
	// preset does not exist
	ErrPresetNotFound = errors.New("preset not found")
)

// simulationServiceImpl implements the SimulationService interface
type simulationServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
}

// NewSimulationService creates a new simulation service instance
func NewSimulationService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) SimulationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &simulationServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger.Named("service"),
	}
}

// CreateSession creates a new simulation session. A preset's robots are
// dispatched in order before the session is returned.
func (s *simulationServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	if (req.Width == nil) != (req.Height == nil) {
		return nil, fmt.Errorf("%w: width and height must be given together", ErrInvalidRequest)
	}

	if req.Width != nil {
		if req.PresetID != "" {
			return nil, fmt.Errorf("%w: give either a preset or explicit bounds", ErrInvalidRequest)
		}
		bounds := engine.Bounds{MaxWidth: *req.Width, MaxHeight: *req.Height}
		if err := engine.ValidateBounds(bounds); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		session, err := s.sessions.Create("", bounds, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		return s.sessionInfo(session), nil
	}

	scenario, presetID, err := s.resolvePreset(req.PresetID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create("", scenario.Bounds(), presetID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	info, err := s.dispatchScenario(session, scenario)
	if err != nil {
		s.sessions.Delete(session.ID)
		return nil, fmt.Errorf("preset %s: %w", presetID, err)
	}
	return info, nil
}

// dispatchScenario runs a preset's robots in order on a new session
func (s *simulationServiceImpl) dispatchScenario(session *Session, scenario *engine.Scenario) (*SessionInfo, error) {
	session.Lock()
	defer session.Unlock()

	for i, r := range scenario.Robots {
		spec := engine.RobotSpec{Start: engine.Position{X: r.X, Y: r.Y}, Orientation: r.Orientation}
		if _, err := s.dispatch(session, spec, r.Instructions); err != nil {
			return nil, fmt.Errorf("robot %d: %w", i+1, err)
		}
	}
	return s.sessionInfo(session), nil
}

// resolvePreset loads the named preset or the default one
func (s *simulationServiceImpl) resolvePreset(name string) (*engine.Scenario, string, error) {
	if name == "" {
		scenario := s.configs.GetDefault()
		if scenario == nil {
			return nil, "", fmt.Errorf("%w: no default preset", ErrNotFound)
		}
		return scenario, scenario.Name, nil
	}

	scenario, err := s.configs.LoadPreset(name)
	if err != nil {
		if errors.Is(err, ErrPresetNotFound) {
			// Provide helpful error message with available options
			available, listErr := s.configs.ListPresets()
			if listErr == nil && len(available) > 0 {
				ids := make([]string, 0, len(available))
				for _, p := range available {
					ids = append(ids, p.PresetID)
				}
				return nil, "", fmt.Errorf("%w: preset '%s' not found. Available presets: %v", ErrNotFound, name, ids)
			}
			return nil, "", fmt.Errorf("%w: preset '%s' not found. Use /api/presets to list available presets", ErrNotFound, name)
		}
		return nil, "", fmt.Errorf("failed to load preset %s: %w", name, err)
	}
	return scenario, name, nil
}

// GetSession retrieves session information
func (s *simulationServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *simulationServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		sess.Lock()
		result = append(result, s.sessionInfo(sess))
		sess.Unlock()
	}

	return result, nil
}

// DeleteSession removes a session
func (s *simulationServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: session %s: %v", ErrNotFound, sessionID, err)
	}
	return nil
}

// DispatchRobot places one robot on the session's grid and runs its
// instructions against the session's scents
func (s *simulationServiceImpl) DispatchRobot(ctx context.Context, sessionID string, req DispatchRequest) (*DispatchResult, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	o, err := engine.ParseOrientation(req.Orientation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	cmds, err := engine.ParseInstructions(strings.TrimSpace(req.Instructions))
	if err != nil {
		return nil, fmt.Errorf("%w: instructions: %v", ErrInvalidRequest, err)
	}
	spec := engine.RobotSpec{Start: engine.Position{X: req.X, Y: req.Y}, Orientation: o}

	session.Lock()
	defer session.Unlock()

	d, err := s.dispatch(session, spec, cmds)
	if err != nil {
		return nil, err
	}

	return &DispatchResult{
		SessionID:  session.ID,
		Report:     d.Report,
		Line:       d.Report.String(),
		Steps:      d.Steps,
		ScentAdded: d.ScentAdded,
		Scents:     session.Simulation.Scents(),
	}, nil
}

// dispatch validates and runs one robot. The caller holds the session lock.
func (s *simulationServiceImpl) dispatch(session *Session, spec engine.RobotSpec, cmds engine.Instructions) (*engine.Dispatch, error) {
	if err := engine.ValidatePlacement(session.Simulation.Bounds(), spec, cmds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	start := time.Now()
	d, err := session.Simulation.Dispatch(spec, cmds)
	if err != nil {
		return nil, fmt.Errorf("dispatch failed: %w", err)
	}
	metrics.RunDuration.WithLabelValues("dispatch").Observe(time.Since(start).Seconds())
	metrics.ObserveReport(d.Report.Status == engine.StatusLost, d.ScentAdded, engine.CountSuppressed(d.Steps))

	s.logger.Debug("Robot dispatched",
		zap.String("session", session.ID),
		zap.Int("robot", d.Report.ID),
		zap.String("report", d.Report.String()))

	return d, nil
}

// GetScents returns the session's scents in insertion order
func (s *simulationServiceImpl) GetScents(ctx context.Context, sessionID string) ([]engine.ScentKey, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()
	return session.Simulation.Scents(), nil
}

// GetReports returns the final report of every robot dispatched so far
func (s *simulationServiceImpl) GetReports(ctx context.Context, sessionID string) ([]engine.Report, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()
	return session.Simulation.Reports(), nil
}

// Run executes a whole world on a fresh scent registry
func (s *simulationServiceImpl) Run(ctx context.Context, world engine.World) (*RunResult, error) {
	if err := engine.ValidateBounds(world.Bounds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(world.Robots) != len(world.Instructions) {
		return nil, fmt.Errorf("%w: %w: %d robots, %d instruction sets", ErrInvalidRequest,
			engine.ErrRobotCountMismatch, len(world.Robots), len(world.Instructions))
	}
	for i, spec := range world.Robots {
		if err := engine.ValidatePlacement(world.Bounds, spec, world.Instructions[i]); err != nil {
			return nil, fmt.Errorf("%w: robot %d: %v", ErrInvalidRequest, i+1, err)
		}
	}

	start := time.Now()
	result, err := engine.Run(world, engine.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("run failed: %w", err)
	}
	metrics.RunDuration.WithLabelValues("run").Observe(time.Since(start).Seconds())

	suppressed := 0
	for i, steps := range result.Steps {
		n := engine.CountSuppressed(steps)
		suppressed += n
		metrics.ObserveReport(result.Reports[i].Status == engine.StatusLost, scentAdded(steps), n)
	}

	s.logger.Info("Simulation run",
		zap.Int("robots", len(result.Reports)),
		zap.Int("lost", engine.CountLost(result.Reports)),
		zap.Int("scents", len(result.Scents)))

	return &RunResult{
		Reports:    result.Reports,
		Lines:      result.Lines(),
		Scents:     result.Scents,
		Steps:      result.Steps,
		LostCount:  engine.CountLost(result.Reports),
		Suppressed: suppressed,
	}, nil
}

func scentAdded(steps []engine.StepResult) bool {
	return len(steps) > 0 && steps[len(steps)-1].ScentAdded
}

// ListPresets returns available presets
func (s *simulationServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	return s.configs.ListPresets()
}

// LoadPreset loads a preset by name
func (s *simulationServiceImpl) LoadPreset(ctx context.Context, name string) (*engine.Scenario, error) {
	scenario, _, err := s.resolvePreset(name)
	return scenario, err
}

// SavePreset saves a preset
func (s *simulationServiceImpl) SavePreset(ctx context.Context, name string, scenario *engine.Scenario) error {
	if scenario == nil {
		return fmt.Errorf("%w: preset body is required", ErrInvalidRequest)
	}
	if err := engine.ValidateScenario(scenario); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return s.configs.SavePreset(name, scenario)
}

func (s *simulationServiceImpl) getSession(sessionID string) (*Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session %s: %v", ErrNotFound, sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return session, nil
}

// sessionInfo snapshots a session. The caller holds the session lock.
func (s *simulationServiceImpl) sessionInfo(session *Session) *SessionInfo {
	reports := session.Simulation.Reports()
	lines := make([]string, len(reports))
	for i, r := range reports {
		lines[i] = r.String()
	}

	return &SessionInfo{
		ID:             session.ID,
		PresetID:       session.PresetID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Bounds:         session.Simulation.Bounds(),
		RobotCount:     len(reports),
		LostCount:      engine.CountLost(reports),
		Reports:        reports,
		Lines:          lines,
		Scents:         session.Simulation.Scents(),
	}
}
