package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrRobotCountMismatch = errors.New("robot and instruction counts differ")

// Option configures a Simulation
type Option func(*Simulation)

// WithLogger sets the logger used for step and loss logging
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Dispatch is the outcome of running a single robot
type Dispatch struct {
	Report     Report       `json:"report"`
	Steps      []StepResult `json:"steps"`
	ScentAdded bool         `json:"scent_added"`
}

// Simulation owns the bounds and the scent registry of one run and runs
// robots strictly one after another
type Simulation struct {
	bounds  Bounds
	scents  *ScentRegistry
	reports []Report
	logger  *zap.Logger
}

// NewSimulation creates an empty run over the given bounds
func NewSimulation(bounds Bounds, opts ...Option) *Simulation {
	s := &Simulation{
		bounds: bounds,
		scents: NewScentRegistry(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bounds returns the grid bounds of the run
func (s *Simulation) Bounds() Bounds {
	return s.bounds
}

// Dispatch runs the next robot. Its id is the number of robots dispatched before it.
func (s *Simulation) Dispatch(spec RobotSpec, cmds Instructions) (*Dispatch, error) {
	id := len(s.reports)
	robot := NewRobot(id, spec, s.bounds, s.logger)

	steps, err := robot.ExecuteInstructions(cmds, s.scents)
	if err != nil {
		return nil, err
	}

	d := &Dispatch{
		Report: robot.Report(),
		Steps:  steps,
	}
	if n := len(steps); n > 0 && steps[n-1].ScentAdded {
		d.ScentAdded = true
	}

	s.reports = append(s.reports, d.Report)
	return d, nil
}

// Reports returns the reports of every robot dispatched so far, in order
func (s *Simulation) Reports() []Report {
	reports := make([]Report, len(s.reports))
	copy(reports, s.reports)
	return reports
}

// Scents returns the scents left so far, in the order they were left
func (s *Simulation) Scents() []ScentKey {
	return s.scents.Keys()
}

// RobotCount returns the number of robots dispatched so far
func (s *Simulation) RobotCount() int {
	return len(s.reports)
}

// RunResult is the outcome of a batch run
type RunResult struct {
	Reports []Report       `json:"reports"`
	Steps   [][]StepResult `json:"steps"`
	Scents  []ScentKey     `json:"scents"`
}

// Lines formats one output line per robot, in input order
func (r *RunResult) Lines() []string {
	lines := make([]string, len(r.Reports))
	for i, report := range r.Reports {
		lines[i] = report.String()
	}
	return lines
}

// Run validates the world and runs every robot in input order against a
// single shared scent registry. On error no result is returned.
func Run(world World, opts ...Option) (*RunResult, error) {
	if len(world.Robots) != len(world.Instructions) {
		return nil, fmt.Errorf("%w: %d robots, %d instruction sets",
			ErrRobotCountMismatch, len(world.Robots), len(world.Instructions))
	}

	sim := NewSimulation(world.Bounds, opts...)
	result := &RunResult{
		Steps: make([][]StepResult, 0, len(world.Robots)),
	}

	for i, spec := range world.Robots {
		d, err := sim.Dispatch(spec, world.Instructions[i])
		if err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, d.Steps)
	}

	result.Reports = sim.Reports()
	result.Scents = sim.Scents()
	return result, nil
}
