package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/cache"
	"github.com/mikey/avatar-blocker/internal/core"
	"github.com/mikey/avatar-blocker/internal/di"
	"github.com/mikey/avatar-blocker/internal/utils"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run judges one avatar and prints the verdict with its supporting labels
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	classifier core.Classifier,
	policy core.PolicyConfig,
) error {
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	avatar, err := loadAvatar(ctx, flags, logger)
	if err != nil {
		return err
	}

	if avatar.Unavailable {
		fmt.Println("verdict: indeterminate (no usable avatar)")
		return nil
	}

	labels, err := classifier.Classify(ctx, avatar)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	badLabels := make(map[string]struct{}, len(policy.BadLabels))
	for _, label := range policy.BadLabels {
		badLabels[label] = struct{}{}
	}
	verdict := core.EvaluateLabels(labels, badLabels, policy.MinimumScore)

	for _, label := range labels {
		fmt.Printf("%-40s %.4f\n", label.Name, label.Score)
	}
	fmt.Printf("verdict: %s\n", verdict)
	return nil
}

// loadAvatar normalizes the input image, from a local file or a URL
func loadAvatar(ctx context.Context, flags *di.CLIFlags, logger *zap.Logger) (*core.Avatar, error) {
	switch {
	case flags.ImageFile != "":
		data, err := os.ReadFile(flags.ImageFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read image file: %w", err)
		}
		avatar, err := core.NormalizeImage(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return avatar, nil
	case flags.AvatarURL != "":
		store := cache.NewTTLStore[*core.Avatar](time.Minute, 4, 0, nil)
		defer store.Stop()
		fetcher := core.NewAvatarFetcher(
			utils.RobustHTTPClient(30*time.Second, logger),
			store,
			utils.DefaultUserAgent(),
			logger,
		)
		id := core.AccountID(flags.AccountID)
		if id == "" {
			id = "cli"
		}
		return fetcher.Fetch(ctx, id, flags.AvatarURL), nil
	default:
		return nil, fmt.Errorf("either -file or -avatar-url is required")
	}
}
