// Command explorer drives a running server over its REST API. For each of
// a number of blank sessions it sends a robot off every edge of the grid,
// then replays the same robots to check that the scents they left keep every
// one of them on the grid.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/marsrobots/game/engine"
	"github.com/wricardo/mcp-training/marsrobots/game/service"
)

// Client calls the simulator REST API
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST %s failed: %s - %s", path, resp.Status, bytes.TrimSpace(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// CreateSession creates a blank session with the given bounds
func (c *Client) CreateSession(ctx context.Context, width, height int) (*service.SessionInfo, error) {
	var session service.SessionInfo
	req := service.CreateSessionRequest{Width: &width, Height: &height}
	if err := c.post(ctx, "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

// Dispatch sends one robot into a session
func (c *Client) Dispatch(ctx context.Context, sessionID string, req service.DispatchRequest) (*service.DispatchResult, error) {
	var result service.DispatchResult
	if err := c.post(ctx, "/api/sessions/"+sessionID+"/robots", req, &result); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	return &result, nil
}

// perimeterProbes returns one outward-facing single-step robot for every
// edge cell and direction that leaves the grid. Corner cells get two.
func perimeterProbes(width, height int) []service.DispatchRequest {
	var probes []service.DispatchRequest
	add := func(x, y int, o string) {
		probes = append(probes, service.DispatchRequest{X: x, Y: y, Orientation: o, Instructions: "F"})
	}

	for x := 0; x <= width; x++ {
		add(x, height, "N")
		add(x, 0, "S")
	}
	for y := 0; y <= height; y++ {
		add(width, y, "E")
		add(0, y, "W")
	}
	return probes
}

// Result summarises one explored session
type Result struct {
	SessionID string
	Probes    int
	Lost      int
	Scents    int
	Survived  int
}

// OK reports whether every first-pass probe was lost and every replay survived
func (r Result) OK() bool {
	return r.Lost == r.Probes && r.Scents == r.Probes && r.Survived == r.Probes
}

// explore runs both passes against a fresh session
func explore(ctx context.Context, client *Client, width, height int) (*Result, error) {
	session, err := client.CreateSession(ctx, width, height)
	if err != nil {
		return nil, err
	}

	probes := perimeterProbes(width, height)
	result := &Result{SessionID: session.ID, Probes: len(probes)}

	for _, probe := range probes {
		d, err := client.Dispatch(ctx, session.ID, probe)
		if err != nil {
			return nil, err
		}
		if d.Report.Status == engine.StatusLost {
			result.Lost++
		}
		result.Scents = len(d.Scents)
	}

	for _, probe := range probes {
		d, err := client.Dispatch(ctx, session.ID, probe)
		if err != nil {
			return nil, err
		}
		if d.Report.Status == engine.StatusOK &&
			d.Report.Position == (engine.Position{X: probe.X, Y: probe.Y}) {
			result.Survived++
		}
	}

	return result, nil
}

// exploreAll explores the given number of sessions, at most parallel at a time
func exploreAll(ctx context.Context, client *Client, sessions, parallel, width, height int) ([]*Result, error) {
	results := make([]*Result, sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := 0; i < sessions; i++ {
		g.Go(func() error {
			r, err := explore(ctx, client, width, height)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "explorer",
		Usage: "probe every grid edge through the REST API and check scent protection",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "server URL", Sources: cli.EnvVars("API_URL")},
			&cli.IntFlag{Name: "width", Value: 5, Usage: "grid upper-right x"},
			&cli.IntFlag{Name: "height", Value: 3, Usage: "grid upper-right y"},
			&cli.IntFlag{Name: "sessions", Value: 1, Usage: "number of sessions to explore"},
			&cli.IntFlag{Name: "parallel", Value: 4, Usage: "sessions explored at the same time"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := NewClient(cmd.String("url"))
			results, err := exploreAll(ctx, client,
				int(cmd.Int("sessions")), int(cmd.Int("parallel")),
				int(cmd.Int("width")), int(cmd.Int("height")))
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				status := "✅"
				if !r.OK() {
					status = "❌"
					failed++
				}
				fmt.Printf("%s session %s: %d probes, %d lost, %d scents, %d survived replay\n",
					status, r.SessionID, r.Probes, r.Lost, r.Scents, r.Survived)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sessions failed", failed, len(results))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
