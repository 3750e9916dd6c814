package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Orientation is the heading of a robot on the grid
type Orientation int

const (
	North Orientation = iota
	East
	South
	West
)

// Command is a single robot instruction
type Command int

const (
	RotateLeft Command = iota
	RotateRight
	MoveForward
)

// Status is the lifecycle status of a robot. StatusLost is terminal.
type Status int

const (
	StatusOK Status = iota
	StatusLost
)

const (
	// Validation constants
	MaxCoordinate        = 50
	MaxInstructionLength = 100
)

var (
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidCommand     = errors.New("invalid command")
)

var orientationNames = [...]string{North: "N", East: "E", South: "S", West: "W"}

// Orientations lists every orientation in rotation order
var Orientations = []Orientation{North, East, South, West}

// Valid reports whether o is one of the four known orientations
func (o Orientation) Valid() bool {
	return o >= North && o <= West
}

func (o Orientation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// MarshalText encodes the orientation as its single-letter form
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrientation, int(o))
	}
	return []byte(orientationNames[o]), nil
}

// UnmarshalText decodes the single-letter form of an orientation
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOrientation parses N, E, S or W (case-insensitive)
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N":
		return North, nil
	case "E":
		return East, nil
	case "S":
		return South, nil
	case "W":
		return West, nil
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidOrientation, s)
}

func (c Command) String() string {
	switch c {
	case RotateLeft:
		return "L"
	case RotateRight:
		return "R"
	case MoveForward:
		return "F"
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand parses a single instruction letter
func ParseCommand(r rune) (Command, error) {
	switch r {
	case 'L':
		return RotateLeft, nil
	case 'R':
		return RotateRight, nil
	case 'F':
		return MoveForward, nil
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidCommand, r)
}

// Instructions is an ordered list of commands for one robot
type Instructions []Command

// ParseInstructions parses an instruction line such as "FRRFLLFFRRFLL"
func ParseInstructions(s string) (Instructions, error) {
	cmds := make(Instructions, 0, len(s))
	for i, r := range s {
		cmd, err := ParseCommand(r)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i+1, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// MustParseInstructions is like ParseInstructions but panics on error
func MustParseInstructions(s string) Instructions {
	cmds, err := ParseInstructions(s)
	if err != nil {
		panic(err)
	}
	return cmds
}

func (in Instructions) String() string {
	var b strings.Builder
	for _, c := range in {
		b.WriteString(c.String())
	}
	return b.String()
}

// MarshalText encodes the instructions as a single line
func (in Instructions) MarshalText() ([]byte, error) {
	return []byte(in.String()), nil
}

// UnmarshalText decodes an instruction line
func (in *Instructions) UnmarshalText(text []byte) error {
	parsed, err := ParseInstructions(string(text))
	if err != nil {
		return err
	}
	*in = parsed
	return nil
}

func (s Status) String() string {
	if s == StatusLost {
		return "LOST"
	}
	return "OK"
}

// MarshalText encodes the status as OK or LOST
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes OK or LOST
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "OK", "":
		*s = StatusOK
	case "LOST":
		*s = StatusLost
	default:
		return fmt.Errorf("invalid status %q", text)
	}
	return nil
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Bounds is the inclusive rectangle [0, MaxWidth] x [0, MaxHeight]
type Bounds struct {
	MaxWidth  int `json:"max_width" yaml:"max_width"`
	MaxHeight int `json:"max_height" yaml:"max_height"`
}

// OffGrid reports whether p lies outside the bounds
func (b Bounds) OffGrid(p Position) bool {
	return p.X > b.MaxWidth || p.X < 0 || p.Y > b.MaxHeight || p.Y < 0
}

// Contains reports whether p lies inside the bounds
func (b Bounds) Contains(p Position) bool {
	return !b.OffGrid(p)
}

// RobotState is the mutable state owned by a Robot
type RobotState struct {
	ID          int         `json:"id"`
	Position    Position    `json:"position"`
	Orientation Orientation `json:"orientation"`
	Status      Status      `json:"status"`
}

// RobotSpec is the starting placement of one input robot
type RobotSpec struct {
	Start       Position    `json:"start"`
	Orientation Orientation `json:"orientation"`
}

// World is the complete input of a batch run. Robots[i] pairs with Instructions[i].
type World struct {
	Bounds       Bounds         `json:"bounds"`
	Robots       []RobotSpec    `json:"robots"`
	Instructions []Instructions `json:"instructions"`
}

// Outcome describes what a single executed command did
type Outcome string

const (
	OutcomeRotated    Outcome = "rotated"
	OutcomeMoved      Outcome = "moved"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeLost       Outcome = "lost"
	OutcomeHalted     Outcome = "halted"
)

// StepResult records one executed command
type StepResult struct {
	Index             int         `json:"idx"`
	Command           Command     `json:"command"`
	From              Position    `json:"from"`
	To                Position    `json:"to"`
	OrientationBefore Orientation `json:"orientation_before"`
	OrientationAfter  Orientation `json:"orientation_after"`
	Status            Status      `json:"status"`
	Outcome           Outcome     `json:"outcome"`
	ScentAdded        bool        `json:"scent_added,omitempty"`
}

// MarshalText encodes the command as its instruction letter
func (c Command) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a single instruction letter
func (c *Command) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return fmt.Errorf("%w %q", ErrInvalidCommand, text)
	}
	parsed, err := ParseCommand(rune(text[0]))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Report is the final state of one robot
type Report struct {
	ID          int         `json:"id"`
	Position    Position    `json:"position"`
	Orientation Orientation `json:"orientation"`
	Status      Status      `json:"status"`
}

// Number is the robot's 1-based position in input order, used in text meant
// for people. ID stays 0-based.
func (r Report) Number() int {
	return r.ID + 1
}

// String formats the report as "<x> <y> <o>" with a trailing LOST when lost
func (r Report) String() string {
	line := fmt.Sprintf("%d %d %s", r.Position.X, r.Position.Y, r.Orientation)
	if r.Status == StatusLost {
		line += " LOST"
	}
	return line
}
