package bootstrap

import (
	"context"
	"log/slog"

	"github.com/strayline/casevault/internal/event"
	"github.com/strayline/casevault/internal/opening"
	"github.com/strayline/casevault/internal/scheduler"
	"github.com/strayline/casevault/internal/server"
	"github.com/strayline/casevault/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	OpeningService     opening.Service
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops the application in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Opening service (drain post-debit follow-up tasks)
// 3. Event publisher (flush pending retries)
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.OpeningService != nil {
		if err := components.OpeningService.Shutdown(ctx); err != nil {
			slog.Error(ServiceNameOpening+LogMsgServiceShutdownFailed, "error", err)
		}
	}

	// Scheduler before pool so no new jobs land in a closing queue
	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if components.ResilientPublisher != nil {
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
