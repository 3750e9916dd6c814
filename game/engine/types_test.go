package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationConstants(t *testing.T) {
	tests := []struct {
		name     string
		actual   int
		expected int
	}{
		{"MaxCoordinate", MaxCoordinate, 50},
		{"MaxInstructionLength", MaxInstructionLength, 100},
	}

	for _, test := range tests {
		if test.actual != test.expected {
			t.Errorf("%s: expected %d, got %d", test.name, test.expected, test.actual)
		}
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		input    string
		expected Orientation
	}{
		{"N", North},
		{"E", East},
		{"S", South},
		{"W", West},
		{"n", North},
		{" w ", West},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			o, err := ParseOrientation(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, o)
		})
	}

	_, err := ParseOrientation("Q")
	assert.True(t, errors.Is(err, ErrInvalidOrientation))
}

func TestOrientationString(t *testing.T) {
	assert.Equal(t, "N", North.String())
	assert.Equal(t, "E", East.String())
	assert.Equal(t, "S", South.String())
	assert.Equal(t, "W", West.String())
	assert.Equal(t, "Orientation(7)", Orientation(7).String())
	assert.False(t, Orientation(7).Valid())
	assert.False(t, Orientation(-1).Valid())
}

func TestParseInstructions(t *testing.T) {
	cmds, err := ParseInstructions("LRF")
	require.NoError(t, err)
	assert.Equal(t, Instructions{RotateLeft, RotateRight, MoveForward}, cmds)
	assert.Equal(t, "LRF", cmds.String())

	_, err = ParseInstructions("LRFP")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCommand))
	assert.Contains(t, err.Error(), "position 4")
}

func TestMustParseInstructions_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseInstructions("X") })
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "OK", StatusOK.String())
	assert.Equal(t, "LOST", StatusLost.String())
}

func TestBoundsOffGrid(t *testing.T) {
	b := Bounds{MaxWidth: 5, MaxHeight: 3}

	tests := []struct {
		name     string
		pos      Position
		expected bool
	}{
		{"origin", Position{0, 0}, false},
		{"top right corner", Position{5, 3}, false},
		{"x too large", Position{6, 0}, true},
		{"x negative", Position{-1, 0}, true},
		{"y too large", Position{0, 4}, true},
		{"y negative", Position{0, -1}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, b.OffGrid(test.pos))
			assert.Equal(t, !test.expected, b.Contains(test.pos))
		})
	}
}

func TestReportString(t *testing.T) {
	ok := Report{ID: 0, Position: Position{1, 1}, Orientation: East, Status: StatusOK}
	lost := Report{ID: 1, Position: Position{3, 3}, Orientation: North, Status: StatusLost}

	assert.Equal(t, "1 1 E", ok.String())
	assert.Equal(t, "3 3 N LOST", lost.String())
}

func TestReportNumber(t *testing.T) {
	assert.Equal(t, 1, Report{ID: 0}.Number())
	assert.Equal(t, 3, Report{ID: 2}.Number())
}

func TestWorldJSONRoundTrip(t *testing.T) {
	data := `{
		"bounds": {"max_width": 5, "max_height": 3},
		"robots": [{"start": {"x": 1, "y": 1}, "orientation": "E"}],
		"instructions": ["RFRFRFRF"]
	}`

	var world World
	require.NoError(t, json.Unmarshal([]byte(data), &world))

	assert.Equal(t, Bounds{MaxWidth: 5, MaxHeight: 3}, world.Bounds)
	require.Len(t, world.Robots, 1)
	assert.Equal(t, East, world.Robots[0].Orientation)
	require.Len(t, world.Instructions, 1)
	assert.Equal(t, "RFRFRFRF", world.Instructions[0].String())

	out, err := json.Marshal(world)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"orientation":"E"`)
	assert.Contains(t, string(out), `"RFRFRFRF"`)
}

func TestReportJSONMarshaling(t *testing.T) {
	report := Report{ID: 2, Position: Position{2, 3}, Orientation: South, Status: StatusLost}

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2,"position":{"x":2,"y":3},"orientation":"S","status":"LOST"}`, string(data))
}

func TestOrientationMarshalText_Invalid(t *testing.T) {
	_, err := Orientation(9).MarshalText()
	assert.True(t, errors.Is(err, ErrInvalidOrientation))
}
