// Command pongserver runs the authoritative Pong match server.
//
// It supports two modes:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags (each also read from the environment) control host/port, the arena
// profile directory and active arena, debug logging, and optional ngrok
// tunneling for easy external access during development.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/exp/rand"

	"github.com/wricardo/mcp-training/pongserver/api"
	"github.com/wricardo/mcp-training/pongserver/game/config"
	"github.com/wricardo/mcp-training/pongserver/game/session"
	"github.com/wricardo/mcp-training/pongserver/transport/mcp"
	"github.com/wricardo/mcp-training/pongserver/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Pong Match Server"
)

// externalURL is where the mcp mode looks for an already running server
const externalURL = "http://localhost:8080"

// main loads .env, then hands the command line to the command tree.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		// Only log if it's not a "file not found" error
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newCommand builds the command tree. Flags live on the root so both modes share them.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "pongserver",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing arena profiles", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "arena", Usage: "Arena profile to play (default: classic)", Sources: cli.EnvVars("ARENA")},
			&cli.Uint64Flag{Name: "seed", Usage: "Seed for serve directions (0: time based)", Sources: cli.EnvVars("SEED")},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("DEBUG")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// Setup logging
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runHTTPServer,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  runHTTPServer,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  runStdioMCP,
			},
		},
	}
}

// services is everything one match needs
type services struct {
	configs *config.Manager
	hub     *websocket.Hub
	match   *session.Manager
}

// initializeServices loads the arena and wires the hub and the match manager.
// Nothing runs until start is called.
func initializeServices(configDir, arenaName string, seed uint64) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	if arenaName != "" {
		if err := configManager.SetDefault(arenaName); err != nil {
			return nil, fmt.Errorf("failed to select arena %q: %w", arenaName, err)
		}
	}
	arena := configManager.GetDefault()

	var opts []session.Option
	if seed != 0 {
		opts = append(opts, session.WithCoin(rand.New(rand.NewSource(seed))))
	}

	hub := websocket.NewHub()
	return &services{
		configs: configManager,
		hub:     hub,
		match:   session.NewManager(arena, hub, opts...),
	}, nil
}

// start runs the hub and the match manager until ctx is cancelled
func (s *services) start(ctx context.Context) {
	go s.hub.Run(ctx)
	go s.match.Run(ctx)
}

// apiHandler is the REST API with the player WebSocket endpoint mounted
func (s *services) apiHandler() http.Handler {
	return api.NewServer(s.match, s.configs, websocket.NewHandler(s.hub, s.match))
}

// newRouter combines the API and the /mcp endpoint
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpClient.HTTPHandler())
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	svc, err := initializeServices(cmd.String("config-dir"), cmd.String("arena"), cmd.Uint64("seed"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	log.Printf("Starting %s v%s (arena: %s)", AppName, Version, svc.match.Arena().Name)

	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc.start(ctx)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mainRouter := newRouter(svc.apiHandler(), mcp.NewClient(fmt.Sprintf("http://%s", addr)))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api/match", addr)
		log.Printf("WebSocket: ws://%s/ws", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	// Wait for shutdown signal
	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Wait for all goroutines to finish
	wg.Wait()
	<-svc.match.Done()
	log.Println("Server stopped")
	return nil
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(authToken),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	// http.Serve only returns once the listener is closed
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api/match", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)
	log.Printf("  Game UI (ngrok): %s/", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server stopped: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// serverAvailable reports whether a pong server answers at baseURL
func serverAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/healthz")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts an internal server (match included) bound to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := externalURL
	log.Printf("Checking for external API server at %s...", externalURL)

	if serverAvailable(externalURL) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		svc, err := initializeServices(cmd.String("config-dir"), cmd.String("arena"), cmd.Uint64("seed"))
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		svc.start(ctx)

		// Start internal HTTP server on a random available port
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		httpServer := &http.Server{Handler: svc.apiHandler()}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
