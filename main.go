// Command marsrobots runs the Martian Robots simulator.
//
// It supports three commands:
//  1. "run" – reads an input file (or stdin), runs every robot in order and prints one line per robot
//  2. "serve" – runs the HTTP server exposing REST API, WebSocket, metrics and an /mcp HTTP endpoint
//  3. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, the preset directory, debug logging and optional
// ngrok tunneling for easy external access during development. Every flag
// can also be set from the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/marsrobots/api"
	"github.com/wricardo/mcp-training/marsrobots/game/config"
	"github.com/wricardo/mcp-training/marsrobots/game/engine"
	"github.com/wricardo/mcp-training/marsrobots/game/input"
	"github.com/wricardo/mcp-training/marsrobots/game/service"
	"github.com/wricardo/mcp-training/marsrobots/game/session"
	"github.com/wricardo/mcp-training/marsrobots/logging"
	"github.com/wricardo/mcp-training/marsrobots/transport/mcp"
	"github.com/wricardo/mcp-training/marsrobots/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Martian Robots"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "marsrobots",
		Usage:   "simulate robots exploring a rectangular grid of Mars",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging (also DEBUG=true)",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "human-readable console logs",
			},
			&cli.StringFlag{
				Name:    "preset-dir",
				Value:   "presets",
				Usage:   "directory containing scenario presets",
				Sources: cli.EnvVars("PRESET_DIR"),
			},
			&cli.StringFlag{
				Name:    "default-preset",
				Usage:   "preset used for sessions created without one (default \"sample\")",
				Sources: cli.EnvVars("DEFAULT_PRESET"),
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run an input file (or stdin) and print one line per robot",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "preset",
				Usage: "run a preset instead of an input file",
			},
			&cli.BoolFlag{
				Name:  "map",
				Usage: "render the final grid after the output lines",
			},
		},
		Action: runAction,
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server with REST API, WebSocket, metrics and MCP endpoint",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   24 * time.Hour,
				Usage:   "remove sessions not accessed for this long",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: serveAction,
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "run an MCP stdio server backed by the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:8080",
				Usage:   "REST API to use when it is reachable; otherwise an internal server is started",
				Sources: cli.EnvVars("API_URL"),
			},
		},
		Action: mcpAction,
	}
}

// newLogger builds the process logger from the global flags
func newLogger(cmd *cli.Command) (*zap.Logger, error) {
	debug := cmd.Bool("debug") || logging.DebugFromEnv()
	return logging.New(logging.Level(debug), cmd.Bool("dev"))
}

// runAction executes a world from a file, stdin or a preset
func runAction(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	world, err := loadWorld(cmd)
	if err != nil {
		return err
	}

	result, err := engine.Run(*world, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	for _, line := range result.Lines() {
		fmt.Fprintln(out, line)
	}

	if cmd.Bool("map") {
		fmt.Fprintln(out)
		rows := engine.RenderMap(world.Bounds, result.Reports, result.Scents)
		fmt.Fprintln(out, strings.Join(rows, "\n"))
	}
	return nil
}

// loadWorld reads the world selected by the run command's arguments
func loadWorld(cmd *cli.Command) (*engine.World, error) {
	if preset := cmd.String("preset"); preset != "" {
		manager, err := config.NewManager(cmd.String("preset-dir"), nil)
		if err != nil {
			return nil, err
		}
		scenario, err := manager.LoadPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", preset, err)
		}
		world := scenario.World()
		return &world, nil
	}

	path := cmd.Args().First()
	if path == "" || path == "-" {
		var in io.Reader = os.Stdin
		if cmd.Root().Reader != nil {
			in = cmd.Root().Reader
		}
		return input.Parse(in)
	}
	return input.ParseFile(path)
}

// serveAction starts the HTTP server with REST API, WebSocket hub, metrics and an
// /mcp proxy endpoint. If ngrok is enabled it also provisions a public tunnel.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc, sessions, configs, err := initializeServices(cmd.String("preset-dir"), cmd.String("default-preset"), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	hub := websocket.NewHub(logger)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		return configs.Watch(ctx)
	})

	g.Go(func() error {
		sessionCleanupRoutine(ctx, sessions, cmd.Duration("session-ttl"), logger)
		return nil
	})

	host := cmd.String("host")
	addr := net.JoinHostPort(host, strconv.Itoa(int(cmd.Int("port"))))

	apiServer := api.NewServer(svc, hub, logger)
	mcpClient := mcp.NewClient("http://" + net.JoinHostPort(loopbackHost(host), strconv.Itoa(int(cmd.Int("port")))))
	apiServer.Mount("/mcp", mcpClient.HTTPHandler())

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      apiServer,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", fmt.Sprintf("http://%s/api", addr)),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)),
			zap.String("version", Version))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cmd.Bool("ngrok") {
		g.Go(func() error {
			return serveNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), apiServer, logger)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// serveNgrok serves handler through an ngrok tunnel until ctx is done. A
// missing auth token disables the tunnel with a warning.
func serveNgrok(ctx context.Context, authToken, domain string, handler http.Handler, logger *zap.Logger) error {
	if authToken == "" {
		logger.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return nil
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("Failed to start ngrok tunnel", zap.Error(err))
		return nil
	}

	ngrokURL := tun.URL()
	logger.Info("Ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("api", ngrokURL+"/api"),
		zap.String("mcp", ngrokURL+"/mcp"))

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("Ngrok server error", zap.Error(err))
	}
	logger.Info("Ngrok tunnel closed")
	return nil
}

// mcpAction runs an MCP stdio server. It reuses the REST API at --api-url
// when it answers; otherwise it starts an internal HTTP API bound to a random
// loopback port and targets that.
func mcpAction(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	baseURL := strings.TrimSuffix(cmd.String("api-url"), "/")
	if !apiAvailable(baseURL) {
		logger.Info("No external API server found, starting internal HTTP server", zap.String("checked", baseURL))

		svc, _, _, err := initializeServices(cmd.String("preset-dir"), cmd.String("default-preset"), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hubCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		hub := websocket.NewHub(logger)
		go hub.Run(hubCtx)

		httpServer := &http.Server{Handler: api.NewServer(svc, hub, logger)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	mcpClient := mcp.NewClient(baseURL)
	return server.ServeStdio(mcpClient.GetMCPServer())
}

// apiAvailable reports whether a REST API answers at baseURL
func apiAvailable(baseURL string) bool {
	if baseURL == "" {
		return false
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// loopbackHost maps wildcard listen hosts to an address the in-process MCP
// client can dial
func loopbackHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "127.0.0.1"
	}
	return host
}

// initializeServices wires the session and preset managers into the
// simulation service
func initializeServices(presetDir, defaultPreset string, logger *zap.Logger) (service.SimulationService, *session.Manager, *config.Manager, error) {
	configManager, err := config.NewManager(presetDir, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create preset manager: %w", err)
	}
	if defaultPreset != "" {
		if err := configManager.SetDefault(defaultPreset); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to set default preset %s: %w", defaultPreset, err)
		}
	}

	sessionManager := session.NewManager(logger)
	svc := service.NewSimulationService(sessionManager, configManager, logger)

	return svc, sessionManager, configManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within maxAge. It returns when ctx is done.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, maxAge time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				logger.Info("Cleaned up expired sessions", zap.Int("removed", removed))
			}
		}
	}
}
