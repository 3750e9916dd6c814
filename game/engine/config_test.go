package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `name: sample
description: canonical sample
width: 5
height: 3
robots:
  - x: 1
    y: 1
    orientation: E
    instructions: RFRFRFRF
  - x: 3
    y: 2
    orientation: N
    instructions: FRRFLLFFRRFLL
  - x: 0
    y: 3
    orientation: W
    instructions: LLFFFLFLFL
`

func TestDecodeScenario(t *testing.T) {
	s, err := DecodeScenario([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "sample", s.Name)
	assert.Equal(t, Bounds{MaxWidth: 5, MaxHeight: 3}, s.Bounds())
	require.Len(t, s.Robots, 3)
	assert.Equal(t, North, s.Robots[1].Orientation)
	assert.Equal(t, "FRRFLLFFRRFLL", s.Robots[1].Instructions.String())

	result, err := Run(s.World())
	require.NoError(t, err)
	assert.Equal(t, []string{"1 1 E", "3 3 N LOST", "2 3 S"}, result.Lines())
}

func TestDecodeScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "width: 5\nheight: 3\n"},
		{"width too large", "name: x\nwidth: 51\nheight: 3\n"},
		{"negative height", "name: x\nwidth: 5\nheight: -1\n"},
		{"bad orientation", "name: x\nwidth: 5\nheight: 3\nrobots:\n  - x: 1\n    y: 1\n    orientation: Q\n    instructions: F\n"},
		{"bad instruction", "name: x\nwidth: 5\nheight: 3\nrobots:\n  - x: 1\n    y: 1\n    orientation: N\n    instructions: FX\n"},
		{"start off grid", "name: x\nwidth: 5\nheight: 3\nrobots:\n  - x: 6\n    y: 1\n    orientation: N\n    instructions: F\n"},
		{"empty instructions", "name: x\nwidth: 5\nheight: 3\nrobots:\n  - x: 1\n    y: 1\n    orientation: N\n    instructions: \"\"\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeScenario([]byte(test.yaml))
			assert.Error(t, err)
		})
	}
}

func TestEncodeScenario_RoundTrip(t *testing.T) {
	data, err := EncodeScenario(DefaultScenario())
	require.NoError(t, err)
	assert.Contains(t, string(data), "instructions: FRRFLLFFRRFLL")
	assert.Contains(t, string(data), "orientation: W")

	decoded, err := DecodeScenario(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), decoded)
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, s.Robots, 3)

	_, err = LoadScenario(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestScenarioFromWorld(t *testing.T) {
	world := DefaultScenario().World()
	world.Robots = append(world.Robots, RobotSpec{Start: Position{0, 0}, Orientation: North})

	s := ScenarioFromWorld("copy", "copied", world)
	assert.Equal(t, 5, s.Width)
	assert.Equal(t, 3, s.Height)
	assert.Len(t, s.Robots, 3)
}

func TestValidatePlacement(t *testing.T) {
	b := Bounds{MaxWidth: 5, MaxHeight: 3}
	spec := RobotSpec{Start: Position{1, 1}, Orientation: North}

	assert.NoError(t, ValidatePlacement(b, spec, MustParseInstructions("F")))
	assert.Error(t, ValidatePlacement(b, spec, nil))

	long := make(Instructions, MaxInstructionLength+1)
	assert.Error(t, ValidatePlacement(b, spec, long))

	assert.Error(t, ValidatePlacement(b, RobotSpec{Start: Position{1, 4}, Orientation: North}, MustParseInstructions("F")))
	assert.Error(t, ValidatePlacement(b, RobotSpec{Start: Position{1, 1}, Orientation: Orientation(4)}, MustParseInstructions("F")))
}
