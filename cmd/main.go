package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"relay-lab/infrastructure/ws"
	"relay-lab/moderation"
	"relay-lab/repositories"
	"relay-lab/runtime"
	"relay-lab/runtime/workers"
	"relay-lab/search"
	"relay-lab/sink"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Volatile storage. Both the journal and the search index are opened
	// in memory: the relay keeps nothing across restarts.
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("journal opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing journal...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = blugeWriter.Close()
	}()

	// 3. Moderation
	var moderator *moderation.Moderator
	if config.EnableModeration {
		wordList, err := moderation.LoadWordLists()
		if err != nil {
			return fmt.Errorf("censored word lists: %w", err)
		}
		log.Info(fmt.Sprintf("%d censored words loaded [%s]",
			len(wordList.Words), strings.Join(wordList.Languages, ",")))

		replacement := []rune(config.ModerationCharReplacement)
		if len(replacement) != 1 {
			return fmt.Errorf("MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
				config.ModerationCharReplacement)
		}
		moderator, err = moderation.NewModerator(wordList.Words, replacement[0])
		if err != nil {
			return fmt.Errorf("moderator build failed: %w", err)
		}
	}

	// 4. Core: registry, router, archive pipeline
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, registry, moderator, config.InvitationTTL, config.ArchiveBufferSize)

	journal := repositories.NewJournal(db, log, config.LimitMessages)
	index := search.NewIndex(blugeWriter, log)

	archiveWorker := workers.NewArchiveWorker(log, router.Archive(), config.SinkTimeout,
		sink.NewJournalSink(journal, log),
		sink.NewIndexSink(index),
	)

	// 5. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(archiveWorker)
	sup.Add(workers.NewSweeperWorker(router, config.SweepInterval, log))
	sup.Add(workers.NewTelemetryWorker(log, router, config.TelemetryInterval))

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)

	// 7. Transport
	server := ws.NewServer(log, router, journal, index,
		config.KeepAliveInterval, config.ConnectionBufferSize)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting relay server", "host", config.Host, "port", config.Port)
		if err := server.Run(ctx, config.Host, config.Port); err != nil {
			errChan <- err
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	sup.Stop()
	log.Info("Program stopped cleanly")
	return nil
}
