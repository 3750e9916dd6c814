package engine

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenarioRobot is one robot of a scenario
type ScenarioRobot struct {
	X            int          `json:"x" yaml:"x"`
	Y            int          `json:"y" yaml:"y"`
	Orientation  Orientation  `json:"orientation" yaml:"orientation"`
	Instructions Instructions `json:"instructions" yaml:"instructions"`
}

// Scenario is a named world loaded from a preset file
type Scenario struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Width       int             `json:"width" yaml:"width"`
	Height      int             `json:"height" yaml:"height"`
	Robots      []ScenarioRobot `json:"robots" yaml:"robots"`
}

// Bounds returns the grid bounds of the scenario
func (s *Scenario) Bounds() Bounds {
	return Bounds{MaxWidth: s.Width, MaxHeight: s.Height}
}

// World converts the scenario into the input of a batch run
func (s *Scenario) World() World {
	world := World{
		Bounds:       s.Bounds(),
		Robots:       make([]RobotSpec, 0, len(s.Robots)),
		Instructions: make([]Instructions, 0, len(s.Robots)),
	}
	for _, r := range s.Robots {
		world.Robots = append(world.Robots, RobotSpec{
			Start:       Position{X: r.X, Y: r.Y},
			Orientation: r.Orientation,
		})
		world.Instructions = append(world.Instructions, r.Instructions)
	}
	return world
}

// ScenarioFromWorld wraps a world in a scenario. Extra robots or instruction
// sets without a partner are dropped.
func ScenarioFromWorld(name, description string, world World) *Scenario {
	s := &Scenario{
		Name:        name,
		Description: description,
		Width:       world.Bounds.MaxWidth,
		Height:      world.Bounds.MaxHeight,
	}
	for i, spec := range world.Robots {
		if i >= len(world.Instructions) {
			break
		}
		s.Robots = append(s.Robots, ScenarioRobot{
			X:            spec.Start.X,
			Y:            spec.Start.Y,
			Orientation:  spec.Orientation,
			Instructions: world.Instructions[i],
		})
	}
	return s
}

// ValidateBounds checks that grid dimensions are within 0..MaxCoordinate
func ValidateBounds(b Bounds) error {
	if b.MaxWidth < 0 || b.MaxWidth > MaxCoordinate {
		return fmt.Errorf("width must be between 0 and %d, got %d", MaxCoordinate, b.MaxWidth)
	}
	if b.MaxHeight < 0 || b.MaxHeight > MaxCoordinate {
		return fmt.Errorf("height must be between 0 and %d, got %d", MaxCoordinate, b.MaxHeight)
	}
	return nil
}

// ValidatePlacement checks a robot's start and instructions against the bounds
func ValidatePlacement(b Bounds, spec RobotSpec, cmds Instructions) error {
	if !spec.Orientation.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOrientation, int(spec.Orientation))
	}
	if b.OffGrid(spec.Start) {
		return fmt.Errorf("start (%d,%d) is outside the %dx%d grid",
			spec.Start.X, spec.Start.Y, b.MaxWidth, b.MaxHeight)
	}
	if len(cmds) == 0 {
		return fmt.Errorf("instructions are required")
	}
	if len(cmds) > MaxInstructionLength {
		return fmt.Errorf("instructions must be at most %d commands, got %d", MaxInstructionLength, len(cmds))
	}
	return nil
}

// ValidateScenario validates a scenario for correctness
func ValidateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario validation: name is required")
	}
	if err := ValidateBounds(s.Bounds()); err != nil {
		return fmt.Errorf("scenario validation: %v", err)
	}
	for i, r := range s.Robots {
		spec := RobotSpec{Start: Position{X: r.X, Y: r.Y}, Orientation: r.Orientation}
		if err := ValidatePlacement(s.Bounds(), spec, r.Instructions); err != nil {
			return fmt.Errorf("scenario validation: robot %d: %v", i+1, err)
		}
	}
	return nil
}

// LoadScenario loads and validates a scenario from a YAML file
func LoadScenario(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return DecodeScenario(data)
}

// DecodeScenario parses and validates a YAML scenario
func DecodeScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := ValidateScenario(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultScenario returns the canonical three-robot sample on a 5x3 grid
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:        "sample",
		Description: "Three robots on a 5x3 grid; the second is lost and its scent saves the third",
		Width:       5,
		Height:      3,
		Robots: []ScenarioRobot{
			{X: 1, Y: 1, Orientation: East, Instructions: MustParseInstructions("RFRFRFRF")},
			{X: 3, Y: 2, Orientation: North, Instructions: MustParseInstructions("FRRFLLFFRRFLL")},
			{X: 0, Y: 3, Orientation: West, Instructions: MustParseInstructions("LLFFFLFLFL")},
		},
	}
}

// EncodeScenario renders a scenario as YAML
func EncodeScenario(s *Scenario) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
