/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the sound-scouting document server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize the storage backend (SQLite or JSON file)
  3. Create the document store with a zap diagnostic sink
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -backend  Storage backend: "sqlite" or "file" (default: sqlite)
  -db       SQLite database path (default: scout.db)
            Use ":memory:" for an in-memory database
  -data     JSON document path for the file backend (default: scout.json)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the backend
  4. Exit

EXAMPLES:
  # Run with the SQLite backend
  ./scoutd -db="./data/scout.db"

  # Run against a plain JSON file
  ./scoutd -backend=file -data="./data/scout.json"

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Durable backend
  - store/file/file.go: File backend
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/scout-engine/api"
	"github.com/warp/scout-engine/scouting"
	"github.com/warp/scout-engine/store/file"
	"github.com/warp/scout-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	backendKind := flag.String("backend", "sqlite", `storage backend: "sqlite" or "file"`)
	dbPath := flag.String("db", "scout.db", "SQLite database path")
	dataPath := flag.String("data", "scout.json", "JSON document path for the file backend")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Initialize backend
	var backend scouting.Backend
	switch *backendKind {
	case "sqlite":
		store, err := sqlite.New(*dbPath)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer store.Close()
		backend = store
	case "file":
		backend = file.New(*dataPath)
	default:
		logger.Fatal("Unknown backend", zap.String("backend", *backendKind))
	}

	// Document store and handler
	docs := scouting.New(backend, scouting.WithSink(scouting.ZapSink{Logger: logger}))
	handler := api.NewHandler(docs)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", zap.Int("port", *port), zap.String("backend", *backendKind))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
