package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/adapters/mastodonapi"
	"github.com/mikey/avatar-blocker/internal/config"
	"github.com/mikey/avatar-blocker/internal/core"
	"github.com/mikey/avatar-blocker/internal/di"
	"github.com/mikey/avatar-blocker/internal/factory"
	"github.com/mikey/avatar-blocker/internal/metrics"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	client *mastodonapi.Client,
	sourceFactory *factory.SourceFactory,
	dispatcher *core.Dispatcher,
	journal core.Journal,
) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// No judgment can happen without an authenticated session
	acct, err := client.VerifyCredentials(ctx)
	if err != nil {
		logger.Error("Failed to log into Mastodon", zap.Error(err))
		return err
	}
	logger.Info("Logged into Mastodon", zap.String("acct", "@"+acct))

	if addr := cfg.GetString("metrics.listen_address"); addr != "" {
		go metrics.ListenAndServe(addr, logger)
	}

	sources := sourceFactory.CreateSources()
	if len(sources) == 0 {
		return errors.New("no event sources configured: every stream is disabled and no hashtags are watched")
	}

	err = dispatcher.Run(ctx, sources)

	logger.Info("Shutting down...")
	if journal != nil {
		if cerr := journal.Close(); cerr != nil {
			logger.Error("Failed to close journal", zap.Error(cerr))
		}
	}

	if errors.Is(err, context.Canceled) {
		logger.Info("Shutdown complete")
		return nil
	}
	return err
}
