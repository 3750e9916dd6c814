package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/marsrobots/game/engine"
)

const sampleInput = `5 3
1 1 E
RFRFRFRF

3 2 N
FRRFLLFFRRFLL

0 3 W
LLFFFLFLFL
`

func TestParse_Sample(t *testing.T) {
	world, err := ParseString(sampleInput)
	require.NoError(t, err)

	want := engine.DefaultScenario().World()
	if diff := cmp.Diff(want, *world); diff != "" {
		t.Errorf("world mismatch (-want +got):\n%s", diff)
	}

	result, err := engine.Run(*world)
	require.NoError(t, err)
	assert.Equal(t, []string{"1 1 E", "3 3 N LOST", "2 3 S"}, result.Lines())
}

func TestParse_WindowsLineEndings(t *testing.T) {
	world, err := ParseString("5 3\r\n1 1 E\r\nRFRFRFRF\r\n")
	require.NoError(t, err)
	assert.Len(t, world.Robots, 1)
	assert.Equal(t, "RFRFRFRF", world.Instructions[0].String())
}

func TestParse_ExtraWhitespace(t *testing.T) {
	world, err := ParseString("\n\n  5   3  \n\t1 1   E\nF\n\n")
	require.NoError(t, err)
	assert.Equal(t, engine.Bounds{MaxWidth: 5, MaxHeight: 3}, world.Bounds)
	assert.Equal(t, engine.RobotSpec{Start: engine.Position{X: 1, Y: 1}, Orientation: engine.East}, world.Robots[0])
}

func TestParse_GridOnly(t *testing.T) {
	world, err := ParseString("0 0\n")
	require.NoError(t, err)
	assert.Empty(t, world.Robots)
	assert.Empty(t, world.Instructions)
}

func TestParse_TrailingRobotWithoutInstructions(t *testing.T) {
	world, err := ParseString("5 3\n1 1 E\nF\n2 2 N\n")
	require.NoError(t, err)
	assert.Len(t, world.Robots, 2)
	assert.Len(t, world.Instructions, 1)

	_, err = engine.Run(*world)
	assert.True(t, errors.Is(err, engine.ErrRobotCountMismatch))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty", "", "missing grid dimensions"},
		{"blank lines only", "\n \n", "missing grid dimensions"},
		{"grid with orientation", "5 3 N\n", "line 1"},
		{"grid single number", "5\n", "line 1"},
		{"grid too wide", "51 3\n", "width must be between 0 and 50"},
		{"negative grid", "-1 3\n", "line 1"},
		{"bad orientation", "5 3\n1 1 Q\nF\n", "line 2"},
		{"lowercase orientation", "5 3\n1 1 n\nF\n", "line 2"},
		{"missing orientation", "5 3\n1 1\nF\n", "line 2"},
		{"start off grid", "5 3\n6 1 N\nF\n", "outside the 5x3 grid"},
		{"coordinate above limit", "5 3\n60 1 N\nF\n", "at most 50"},
		{"bad instruction", "5 3\n1 1 N\nFX\n", "line 3"},
		{"instructions in position slot", "5 3\nFRF\n", "line 2"},
		{"position in instruction slot", "5 3\n1 1 N\n2 2 E\n", "line 3"},
		{"instructions on position line", "5 3\n1 1 N FRF\n", "line 2"},
		{"unexpected character", "5 3\n1 1 N\nF-F\n", "line 3"},
		{"instructions too long", "5 3\n1 1 N\n" + strings.Repeat("F", 101) + "\n", "at most 100"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseString(test.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), test.wantMsg)
		})
	}
}

func TestParse_MaxLengthInstructions(t *testing.T) {
	world, err := ParseString("50 50\n0 0 N\n" + strings.Repeat("F", 100) + "\n")
	require.NoError(t, err)
	assert.Len(t, world.Instructions[0], 100)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleInput), 0644))

	world, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, world.Robots, 3)

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("5 3\n1 1 Q\nF\n"), 0644))
	_, err = ParseFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.txt")

	_, err = ParseFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestFormat_RoundTrip(t *testing.T) {
	world := engine.DefaultScenario().World()

	text := Format(world)
	assert.True(t, strings.HasPrefix(text, "5 3\n1 1 E\nRFRFRFRF\n"))

	parsed, err := ParseString(text)
	require.NoError(t, err)
	if diff := cmp.Diff(world, *parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat_SkipsRobotsWithoutInstructions(t *testing.T) {
	world := engine.World{
		Bounds: engine.Bounds{MaxWidth: 5, MaxHeight: 3},
		Robots: []engine.RobotSpec{
			{Start: engine.Position{X: 1, Y: 1}, Orientation: engine.East},
			{Start: engine.Position{X: 2, Y: 2}, Orientation: engine.North},
			{Start: engine.Position{X: 3, Y: 3}, Orientation: engine.South},
		},
		Instructions: []engine.Instructions{
			{},
			engine.MustParseInstructions("FF"),
		},
	}

	text := Format(world)
	assert.Equal(t, "5 3\n2 2 N\nFF\n", text)

	parsed, err := ParseString(text)
	require.NoError(t, err)
	require.Len(t, parsed.Robots, 1)
	require.Len(t, parsed.Instructions, 1)
	assert.Equal(t, engine.North, parsed.Robots[0].Orientation)
	assert.Equal(t, "FF", parsed.Instructions[0].String())
}
