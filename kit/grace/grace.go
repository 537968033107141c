// Package grace runs a blocking service until it returns or the process
// receives a shutdown signal, then runs its cleanup with a deadline.
package grace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/betterhelper/docsite/kit/colorlog"
)

func defaultSignals() []os.Signal {
	if runtime.GOOS == "windows" {
		return []os.Signal{os.Interrupt}
	}
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}

type OrchestrateOptions struct {
	ShutdownTimeout time.Duration // Default: 10 seconds
	Signals         []os.Signal   // Default: SIGHUP, SIGINT, SIGTERM, SIGQUIT
	Logger          *slog.Logger

	// StartupCallback runs the service and blocks until it stops. The
	// context is cancelled once a signal arrives. Returning
	// http.ErrServerClosed (or any error wrapping context.Canceled) counts as
	// a clean stop.
	StartupCallback func(context.Context) error

	// ShutdownCallback runs cleanup with a context bounded by ShutdownTimeout.
	ShutdownCallback func(context.Context) error
}

// Orchestrate runs StartupCallback and ShutdownCallback around signal
// handling. It returns the startup error, if any, joined with the shutdown
// error.
func Orchestrate(ctx context.Context, options OrchestrateOptions) error {
	if options.Logger == nil {
		options.Logger = colorlog.New("grace")
	}
	if options.ShutdownTimeout == 0 {
		options.ShutdownTimeout = 10 * time.Second
	}
	if len(options.Signals) == 0 {
		options.Signals = defaultSignals()
	}

	runCtx, stop := signal.NotifyContext(ctx, options.Signals...)
	defer stop()

	startupErr := make(chan error, 1)
	go func() {
		if options.StartupCallback == nil {
			<-runCtx.Done()
			startupErr <- nil
			return
		}
		startupErr <- options.StartupCallback(runCtx)
	}()

	var errStart error
	select {
	case <-runCtx.Done():
		options.Logger.Info("[shutdown] Signal received, initiating graceful shutdown")
	case errStart = <-startupErr:
		if errStart != nil && !isCleanStop(errStart) {
			options.Logger.Error("[startup] Error", "error", errStart)
		} else {
			errStart = nil
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), options.ShutdownTimeout)
	defer cancel()

	var errShutdown error
	if options.ShutdownCallback != nil {
		errShutdown = options.ShutdownCallback(shutdownCtx)
		if errShutdown != nil {
			options.Logger.Error("[shutdown] Cleanup error", "error", errShutdown)
		}
	}
	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		options.Logger.Warn("[shutdown] Graceful shutdown timed out")
	}

	return errors.Join(errStart, errShutdown)
}

func isCleanStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed)
}
