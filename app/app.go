// Package app assembles the overlay session and runs its background parts:
// the tick loop, the settings server, the keyboard hook and debug loggers.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/soocke/pixel-overlay-go/debug"
)

const shutdownTimeout = 3 * time.Second

type App struct {
	C *Container

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(c *Container) *App {
	return &App{C: c}
}

// Start launches the background parts and returns. They stop when ctx is
// cancelled or Shutdown is called.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	c := a.C
	log := c.Logger

	if c.Config.Debug {
		iv := time.Duration(c.Config.MemLogIntervalSec) * time.Second
		debug.StartMemLogger(ctx, iv, log, c.Metrics)
		debug.StartGoroutineLogger(ctx, iv, log)
	}
	if c.Server != nil {
		c.Server.Start()
	}
	if c.Hook != nil {
		c.Hook.Start(ctx)
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		log.Info("overlay loop starting",
			"region", c.Region.String(),
			"period", c.Driver.Period(),
			"detector", c.Detector.Name(),
			"dry_run", c.Config.DryRun)
		if err := c.Driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("overlay loop stopped", "error", err)
		}
	}()
}

// Shutdown stops everything started by Start and releases the container.
func (a *App) Shutdown() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	c := a.C
	var err error
	if c.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err = c.Server.Shutdown(ctx)
		cancel()
	}
	if c.Hook != nil {
		c.Hook.Stop()
		select {
		case <-c.Hook.Done():
		case <-time.After(shutdownTimeout):
			c.Logger.Warn("keyboard hook did not stop in time")
		}
	}
	c.Close()
	c.Logger.Info("overlay stopped", "ticks", c.Driver.Stats().Ticks, "failures", c.Driver.Stats().Failures)
	return err
}

// Run is the headless mode: it runs until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.Start(ctx)
	<-ctx.Done()
	return a.Shutdown()
}
