package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/pixel-overlay-go/config"
	"github.com/soocke/pixel-overlay-go/domain/action"
	"github.com/soocke/pixel-overlay-go/domain/capture"
	"github.com/soocke/pixel-overlay-go/domain/detect"
	"github.com/soocke/pixel-overlay-go/domain/input"
	"github.com/soocke/pixel-overlay-go/domain/loop"
	"github.com/soocke/pixel-overlay-go/domain/metrics"
	"github.com/soocke/pixel-overlay-go/domain/overlay"
	"github.com/soocke/pixel-overlay-go/domain/settings"
	"github.com/soocke/pixel-overlay-go/domain/trigger"
	"github.com/soocke/pixel-overlay-go/server"
	"github.com/soocke/pixel-overlay-go/ui/images"
	"github.com/soocke/pixel-overlay-go/ui/presenter"
)

// Container holds every long-lived component of one session.
type Container struct {
	Config  *config.Config
	CfgPath string
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Region     capture.Region
	Source     capture.Source
	Detector   *detect.Adapter
	Settings   *settings.Store
	Flags      *trigger.Flags
	Keymap     *input.Keymap
	Hook       *input.HookListener
	Pointer    action.Pointer
	Dispatcher *trigger.Dispatcher
	Renderer   *overlay.Renderer
	Driver     *loop.Driver
	Server     *server.Server

	// Exactly one of Slot (windowed) and Memory (headless) is set.
	Slot   *presenter.FrameSlot
	Memory *overlay.MemorySurface

	closers []func()
}

// BuildContainer constructs all components. Nothing runs until App.Run.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*Container, error) {
	grabber, err := capture.NewGrabber(cfg.CaptureBackend)
	if err != nil {
		return nil, err
	}
	return buildContainer(cfg, cfgPath, logger, grabber)
}

func buildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger, grabber capture.Grabber) (c *Container, err error) {
	c = &Container{Config: cfg, CfgPath: cfgPath, Logger: logger, Metrics: metrics.New()}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	c.Source = capture.NewSource(logger, grabber)
	c.closers = append(c.closers, func() { _ = c.Source.Close() })

	if c.Region, err = resolveRegion(cfg, grabber); err != nil {
		return c, err
	}

	if c.Detector, err = NewDetector(logger, cfg); err != nil {
		return c, err
	}
	c.closers = append(c.closers, func() { _ = c.Detector.Close() })

	c.Settings = settings.NewStore(logger, cfg.Overlay, cfg.Bindings)
	c.Flags = trigger.NewFlags()
	if c.Keymap, err = input.NewKeymap(c.Settings.Snapshot().Bindings); err != nil {
		return c, err
	}
	c.closers = append(c.closers, c.Keymap.Follow(logger, c.Settings))

	var poller input.Poller
	switch cfg.InputSource {
	case config.InputHook:
		c.Hook = input.NewHookListener(logger, c.Flags, c.Keymap)
	case config.InputPoll:
		if poller, err = input.NewAsyncKeyPoller(logger, c.Flags, c.Keymap); err != nil {
			return c, err
		}
	}

	if cfg.DryRun {
		c.Pointer = action.NewNoopPointer(logger)
	} else if c.Pointer, err = action.NewPointer(logger, cfg.PointerBackend); err != nil {
		return c, err
	}
	c.Dispatcher = trigger.NewDispatcher(logger, c.Flags, c.Pointer)
	c.Renderer = overlay.NewRenderer(c.Region.Width, c.Region.Height)

	var surface overlay.Surface
	if cfg.Headless {
		c.Memory = overlay.NewMemorySurface()
		surface = c.Memory
	} else {
		c.Slot = presenter.NewFrameSlot(images.TransparentKey)
		surface = c.Slot
	}

	c.Driver, err = loop.New(logger, c.Region, time.Duration(cfg.TickMillis)*time.Millisecond, loop.Deps{
		Source:     c.Source,
		Detector:   c.Detector,
		Settings:   c.Settings,
		Dispatcher: c.Dispatcher,
		Renderer:   c.Renderer,
		Surface:    surface,
		Poller:     poller,
		Metrics:    c.Metrics,
	})
	if err != nil {
		return c, err
	}

	if cfg.Listen != "" {
		c.Server = server.New(logger, cfg.Listen, server.Deps{
			Settings: c.Settings,
			Flags:    c.Flags,
			Loop:     c.Driver,
			Metrics:  c.Metrics,
		})
	}
	return c, nil
}

// resolveRegion picks the explicit region from config, else the whole
// configured monitor. The region must lie inside the grabber's screen.
func resolveRegion(cfg *config.Config, grabber capture.Grabber) (capture.Region, error) {
	var (
		r   capture.Region
		err error
	)
	if cfg.HasExplicitRegion() {
		r = capture.Region{Left: cfg.RegionX, Top: cfg.RegionY, Width: cfg.RegionW, Height: cfg.RegionH}
	} else if r, err = capture.DisplayRegion(cfg.Monitor); err != nil {
		return r, fmt.Errorf("resolve capture region: %w", err)
	}
	screen, err := grabber.Bounds()
	if err != nil {
		return r, fmt.Errorf("resolve capture region: %w", err)
	}
	if err := r.Validate(screen); err != nil {
		return r, fmt.Errorf("resolve capture region: %w", err)
	}
	return r, nil
}

// Persist writes snap's overlay and bindings back to the config file, if
// one was given. The rest of the file is kept as it is on disk, so flag and
// environment overrides of this run are not saved.
func (c *Container) Persist(snap settings.Snapshot) error {
	if c.CfgPath == "" {
		return errors.New("no config file to persist to")
	}
	onDisk, err := config.Load(c.CfgPath)
	if err != nil {
		return err
	}
	onDisk.Overlay = snap.Overlay
	onDisk.Bindings = snap.Bindings
	return onDisk.Save(c.CfgPath)
}

// Close releases components in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
