package main

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/marsrobots/api"
	"github.com/wricardo/mcp-training/marsrobots/game/config"
	"github.com/wricardo/mcp-training/marsrobots/game/service"
	"github.com/wricardo/mcp-training/marsrobots/game/session"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir(), nil)
	require.NoError(t, err)

	svc := service.NewSimulationService(session.NewManager(nil), configs, nil)
	server := httptest.NewServer(api.NewServer(svc, nil, nil))
	t.Cleanup(server.Close)
	return server
}

func TestPerimeterProbes(t *testing.T) {
	probes := perimeterProbes(5, 3)
	// Six columns top and bottom, four rows left and right
	assert.Len(t, probes, 2*6+2*4)

	assert.Len(t, perimeterProbes(0, 0), 4)

	for _, p := range probes {
		assert.True(t, p.X == 0 || p.X == 5 || p.Y == 0 || p.Y == 3, "probe %+v is not on an edge", p)
		assert.Equal(t, "F", p.Instructions)
	}
}

func TestExplore(t *testing.T) {
	server := startServer(t)

	result, err := explore(context.Background(), NewClient(server.URL), 5, 3)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Probes)
	assert.Equal(t, 20, result.Lost)
	assert.Equal(t, 20, result.Scents)
	assert.Equal(t, 20, result.Survived)
	assert.True(t, result.OK())
}

func TestExploreAll(t *testing.T) {
	server := startServer(t)

	results, err := exploreAll(context.Background(), NewClient(server.URL), 6, 3, 2, 2)
	require.NoError(t, err)
	require.Len(t, results, 6)

	ids := make(map[string]bool)
	for _, r := range results {
		assert.True(t, r.OK(), "session %s: %+v", r.SessionID, r)
		ids[r.SessionID] = true
	}
	assert.Len(t, ids, 6, "every run uses its own session")
}

func TestExploreInvalidBounds(t *testing.T) {
	server := startServer(t)

	_, err := explore(context.Background(), NewClient(server.URL), 60, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
