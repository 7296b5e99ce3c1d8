package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-relay/domain"
	"chat-relay/infrastructure/ws"
	"chat-relay/internal"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime/workers"
	"chat-relay/services"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the relay lifecycle, and
// centralizes error reporting, so deferred cleanup always executes and
// the entry point stays testable.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.NewLogger(config.LogLevel)
	log.Info("Starting relay")

	// 2. Stores. Both are owned here and handed to workers as read or
	// append capabilities only. A bad credential table or a corrupt
	// message log aborts startup; a missing message log does not.
	credentials, err := repositories.LoadCredentialStore(config.UsersFilepath, log)
	if err != nil {
		return err
	}
	messageLog, err := repositories.LoadMessageLog(config.MessagesFilepath, log)
	if err != nil {
		return err
	}

	// 3. Pipeline: ingest endpoint -> inbound -> ingest worker ->
	// stamped -> broadcaster -> subscribers.
	stats := observability.NewStatsManager()
	inbound := make(chan []byte, config.IngestBufferSize)
	stamped := make(chan domain.ChatMessage, config.IngestBufferSize)

	broadcaster := workers.NewBroadcaster(log, stamped, config.SubscriberBufferSize, stats)
	ingestWorker := workers.NewIngest(log,
		services.NewIngestService(messageLog, log, stats), inbound, stamped)
	statsWorker := workers.NewStats(log, stats, config.StatsInterval)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(ingestWorker, broadcaster, statsWorker)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 5. Channel endpoints
	authService := services.NewAuthService(credentials, messageLog, config.SnapshotSize, log, stats)

	loginServer := ws.NewServer(config.LoginPort, ws.NewLoginServer(log, authService).Handler())
	ingestServer := ws.NewServer(config.IngestPort, ws.NewIngestServer(log, inbound).Handler())
	broadcastServer := ws.NewServer(config.BroadcastPort, ws.NewBroadcastServer(log, broadcaster).Handler())

	errChan := make(chan error, 3)
	ws.Serve(loginServer, log, "login", errChan)
	ws.Serve(ingestServer, log, "ingest", errChan)
	ws.Serve(broadcastServer, log, "broadcast", errChan)

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final Cleanup
	_ = ws.Shutdown(loginServer, shutdownTimeout)
	_ = ws.Shutdown(ingestServer, shutdownTimeout)
	_ = ws.Shutdown(broadcastServer, shutdownTimeout)
	sup.Stop()
	<-supDone
	log.Info("Relay stopped cleanly")

	return nil
}
