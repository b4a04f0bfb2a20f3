// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/example/contacts/internal/core/contact"
	"github.com/example/contacts/internal/core/effects"
	"github.com/example/contacts/internal/logging"
	"github.com/example/contacts/internal/metrics"
	"github.com/example/contacts/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor with real I/O.
type DefaultEffectExecutor struct {
	contactRepo secondary.ContactRepository
	photos      secondary.PhotoStore
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(contactRepo secondary.ContactRepository, photos secondary.PhotoStore, m *metrics.Metrics, logger *slog.Logger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		contactRepo: contactRepo,
		photos:      photos,
		metrics:     m,
		logger:      logger.With(slog.String("component", "effects")),
	}
}

// Execute processes a slice of effects, executing each in sequence.
// It stops at the first failing effect; best-effort file effects never fail.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.FileEffect:
		return e.executeFile(ctx, typed)
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Entity {
	case contact.EntityContact:
		return e.executeContactOp(ctx, eff)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
}

func (e *DefaultEffectExecutor) executeContactOp(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Operation {
	case "delete":
		id, ok := eff.Data.(int64)
		if !ok {
			return fmt.Errorf("invalid contact delete data type: %T", eff.Data)
		}
		_, err := e.contactRepo.Delete(ctx, id)
		return err
	default:
		return fmt.Errorf("unknown contact operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executeFile(ctx context.Context, eff effects.FileEffect) error {
	switch eff.Operation {
	case "remove":
		err := e.photos.Remove(ctx, eff.Path)
		switch {
		case err == nil:
			e.metrics.PhotoRemoval(metrics.PhotoRemoved)
			e.logger.Debug("photo removed", slog.String("path", eff.Path))
			return nil
		case errors.Is(err, fs.ErrNotExist):
			e.metrics.PhotoRemoval(metrics.PhotoMissing)
			if eff.BestEffort {
				e.logger.Info("photo already gone", slog.String("path", eff.Path))
				return nil
			}
		default:
			e.metrics.PhotoRemoval(metrics.PhotoFailed)
			if eff.BestEffort {
				e.logger.Warn("could not remove photo",
					slog.String("path", eff.Path),
					slog.String("error", err.Error()),
				)
				return nil
			}
		}
		return err
	default:
		return fmt.Errorf("unknown file operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	attrs := make([]any, 0, len(eff.Fields))
	for k, v := range eff.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	e.logger.Log(ctx, logging.ParseLevel(eff.Level), eff.Message, attrs...)
}
