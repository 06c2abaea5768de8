package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/talk-box/cliparse"
	"github.com/danielhkuo/talk-box/contest"
	"github.com/danielhkuo/talk-box/embeddings"
	"github.com/danielhkuo/talk-box/middleware"
	"github.com/danielhkuo/talk-box/router"
	"github.com/danielhkuo/talk-box/store"
)

func main() {
	var err error

	// A missing .env is fine; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect, verify, and create schema
	dbConn, err := store.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database setup failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Embedding provider behind the gateway
	gateway, err := embeddings.OpenGateway(ctx, embeddings.Config{
		Provider:    cfg.EmbedProvider,
		BaseURL:     cfg.EmbedURL,
		Model:       cfg.EmbedModel,
		APIKey:      cfg.EmbedAPIKey,
		Dimension:   cfg.EmbedDimension,
		Timeout:     cfg.EmbedTimeout,
		Concurrency: cfg.EmbedConcurrency,
	})
	if err != nil {
		slog.Error("embedding provider setup failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Embedding provider ready", "provider", gateway.Name(), "dimension", gateway.Dimension())

	svc := contest.NewService(
		store.NewSubmissions(dbConn),
		store.NewSettings(dbConn),
		gateway,
		contest.Config{
			TargetPhrase: cfg.TargetPhrase,
			WinnerCount:  cfg.WinnerCount,
			WinnerLabel:  cfg.WinnerLabel,
			GoodsCount:   cfg.GoodsCount,
		},
	)

	// Create router
	mux := router.NewRouter(svc, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("listen failed", "addr", server.Addr, "error", err)
		return
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = serve(&server, ln, ctrlc, cfg.EmbedTimeout+5*time.Second)
	if err != nil {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

// serve runs server on ln until stop fires, then waits up to grace for
// in-flight requests before returning. Callers may release shared resources
// such as the database once serve returns.
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal, grace time.Duration) error {
	drained := make(chan error, 1)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		drained <- server.Shutdown(ctx)
	}()

	if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// Serve returns as soon as Shutdown closes the listener; wait for the drain
	return <-drained
}
