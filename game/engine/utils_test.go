package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountLost(t *testing.T) {
	result, err := Run(sampleWorld())
	require.NoError(t, err)

	assert.Equal(t, 1, CountLost(result.Reports))
	assert.Equal(t, 0, CountLost(nil))
}

func TestCountSuppressed(t *testing.T) {
	result, err := Run(sampleWorld())
	require.NoError(t, err)

	assert.Equal(t, 0, CountSuppressed(result.Steps[0]))
	assert.Equal(t, 0, CountSuppressed(result.Steps[1]))
	assert.Equal(t, 1, CountSuppressed(result.Steps[2]))
}

func TestRenderMap(t *testing.T) {
	result, err := Run(sampleWorld())
	require.NoError(t, err)

	rows := RenderMap(Bounds{MaxWidth: 5, MaxHeight: 3}, result.Reports, result.Scents)

	assert.Equal(t, []string{
		"..Sn..",
		"......",
		".E....",
		"......",
	}, rows)
}

func TestRenderMap_ScentWithoutRobot(t *testing.T) {
	rows := RenderMap(Bounds{MaxWidth: 1, MaxHeight: 0}, nil, []ScentKey{{X: 1, Y: 0, Orientation: East}})
	assert.Equal(t, []string{".*"}, rows)
}
