package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrUnknownCommand = errors.New("unknown command")

// Robot holds one robot's state and interprets commands against the grid
type Robot struct {
	state  RobotState
	bounds Bounds
	logger *zap.Logger
}

// NewRobot places a robot with the given id on the grid
func NewRobot(id int, spec RobotSpec, bounds Bounds, logger *zap.Logger) *Robot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Robot{
		state: RobotState{
			ID:          id,
			Position:    spec.Start,
			Orientation: spec.Orientation,
			Status:      StatusOK,
		},
		bounds: bounds,
		logger: logger.With(zap.Int("robot", id)),
	}
}

// State returns a copy of the robot's current state
func (r *Robot) State() RobotState {
	return r.state
}

// Lost reports whether the robot has fallen off the grid
func (r *Robot) Lost() bool {
	return r.state.Status == StatusLost
}

// Report returns the robot's final report
func (r *Robot) Report() Report {
	return Report{
		ID:          r.state.ID,
		Position:    r.state.Position,
		Orientation: r.state.Orientation,
		Status:      r.state.Status,
	}
}

// ExecuteCommand applies exactly one command. The scent registry is only
// written when a move-forward loses the robot.
func (r *Robot) ExecuteCommand(cmd Command, scents *ScentRegistry) (StepResult, error) {
	step := StepResult{
		Command:           cmd,
		From:              r.state.Position,
		To:                r.state.Position,
		OrientationBefore: r.state.Orientation,
		OrientationAfter:  r.state.Orientation,
		Status:            r.state.Status,
	}

	if r.Lost() {
		step.Outcome = OutcomeHalted
		return step, nil
	}
	if !r.state.Orientation.Valid() {
		return step, fmt.Errorf("robot %d: %w: %d", r.state.ID, ErrUnknownOrientation, int(r.state.Orientation))
	}

	switch cmd {
	case RotateLeft:
		r.state.Orientation = r.state.Orientation.RotateLeft()
		step.Outcome = OutcomeRotated
	case RotateRight:
		r.state.Orientation = r.state.Orientation.RotateRight()
		step.Outcome = OutcomeRotated
	case MoveForward:
		if err := r.moveForward(&step, scents); err != nil {
			return step, err
		}
	default:
		return step, fmt.Errorf("robot %d: %w: %d", r.state.ID, ErrUnknownCommand, int(cmd))
	}

	step.To = r.state.Position
	step.OrientationAfter = r.state.Orientation
	step.Status = r.state.Status
	return step, nil
}

// moveForward checks the scent before computing the candidate position
func (r *Robot) moveForward(step *StepResult, scents *ScentRegistry) error {
	pos, o := r.state.Position, r.state.Orientation

	if scents.Contains(pos.X, pos.Y, o) {
		step.Outcome = OutcomeSuppressed
		r.logger.Debug("Move suppressed by scent",
			zap.Int("x", pos.X), zap.Int("y", pos.Y), zap.Stringer("orientation", o))
		return nil
	}

	next, err := Forward(pos, o)
	if err != nil {
		return fmt.Errorf("robot %d: %w", r.state.ID, err)
	}

	if r.bounds.OffGrid(next) {
		r.state.Status = StatusLost
		step.ScentAdded = scents.Add(pos.X, pos.Y, o)
		step.Outcome = OutcomeLost
		r.logger.Info("Robot lost",
			zap.Int("x", pos.X), zap.Int("y", pos.Y), zap.Stringer("orientation", o),
			zap.Int("attempted_x", next.X), zap.Int("attempted_y", next.Y))
		return nil
	}

	r.state.Position = next
	step.Outcome = OutcomeMoved
	return nil
}

// ExecuteInstructions applies cmds in order and stops as soon as the robot is
// lost. It returns one result per executed command.
func (r *Robot) ExecuteInstructions(cmds Instructions, scents *ScentRegistry) ([]StepResult, error) {
	steps := make([]StepResult, 0, len(cmds))

	for i, cmd := range cmds {
		if r.Lost() {
			break
		}

		step, err := r.ExecuteCommand(cmd, scents)
		if err != nil {
			return steps, err
		}
		step.Index = i
		steps = append(steps, step)

		r.logger.Debug("Executed command",
			zap.Int("idx", i),
			zap.Stringer("command", cmd),
			zap.String("outcome", string(step.Outcome)),
			zap.Int("x", step.To.X), zap.Int("y", step.To.Y),
			zap.Stringer("orientation", step.OrientationAfter))
	}

	return steps, nil
}
