package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/contacts/internal/ports/primary"
	"github.com/example/contacts/internal/ports/secondary"
)

// DefaultPollInterval is how often PollExternalChanges checks the store.
const DefaultPollInterval = 500 * time.Millisecond

// PollExternalChanges refreshes service whenever detector reports a commit
// made outside this process, until ctx is done or the service closes.
func PollExternalChanges(ctx context.Context, detector secondary.ChangeDetector, service primary.ContactService, interval time.Duration, logger *slog.Logger) error {
	logger = logger.With(slog.String("component", "poller"))

	last, err := detector.DataVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to start change polling: %w", err)
	}

	// Covers commits between the service's initial load and the first read above.
	refreshed := func() bool {
		res, err := service.Refresh(ctx).Wait(ctx)
		switch {
		case errors.Is(err, primary.ErrServiceClosed), ctx.Err() != nil:
			return false
		case err != nil:
			logger.Warn("refresh failed", slog.String("error", err.Error()))
		case res.Applied:
			logger.Debug("picked up external changes", slog.Int64("data_version", last))
		}
		return true
	}
	if !refreshed() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		version, err := detector.DataVersion(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("could not read data version", slog.String("error", err.Error()))
			continue
		}
		if version == last {
			continue
		}
		last = version

		if !refreshed() {
			return nil
		}
	}
}
