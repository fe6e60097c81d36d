// Package server exposes the settings store, trigger flags and loop health
// over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soocke/pixel-overlay-go/domain/input"
	"github.com/soocke/pixel-overlay-go/domain/loop"
	"github.com/soocke/pixel-overlay-go/domain/metrics"
	"github.com/soocke/pixel-overlay-go/domain/settings"
	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

// LoopStatus is the part of the loop driver reported by /healthz.
type LoopStatus interface {
	Stats() loop.Stats
	Current() loop.State
}

// Deps are the collaborators served over HTTP. Loop and Metrics are optional.
type Deps struct {
	Settings *settings.Store
	Flags    *trigger.Flags
	Loop     LoopStatus
	Metrics  *metrics.Metrics
}

type Server struct {
	deps   Deps
	logger *slog.Logger
	engine *gin.Engine
	http   *http.Server
	start  time.Time
}

// overlayPatch carries a partial overlay update; nil fields keep their
// current value.
type overlayPatch struct {
	DetectionConfidence *float64                `json:"detection_confidence"`
	LineThickness       *int                    `json:"line_thickness"`
	LevelOfDetail       *settings.LevelOfDetail `json:"level_of_detail"`
}

type bindingsPatch struct {
	SnapBodyKey *string `json:"snap_body_key"`
	SnapHeadKey *string `json:"snap_head_key"`
}

func New(logger *slog.Logger, addr string, deps Deps) *Server {
	s := &Server{deps: deps, logger: logger, start: time.Now()}
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/healthz", s.health)
	r.GET("/settings", s.getSettings)
	r.PUT("/settings/overlay", s.putOverlay)
	r.PUT("/settings/bindings", s.putBindings)
	r.POST("/triggers/:kind", s.setTrigger)
	r.DELETE("/triggers/:kind", s.clearTrigger)
	r.GET("/triggers", s.listTriggers)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	s.engine = r
	s.http = &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(began))
	}
}

func (s *Server) health(c *gin.Context) {
	body := gin.H{
		"status":           "ok",
		"uptime_seconds":   int(time.Since(s.start).Seconds()),
		"settings_version": s.deps.Settings.Version(),
	}
	if s.deps.Loop != nil {
		st := s.deps.Loop.Stats()
		body["state"] = s.deps.Loop.Current().String()
		body["ticks"] = st.Ticks
		body["failures"] = st.Failures
		if !st.LastTick.IsZero() {
			body["last_tick"] = st.LastTick.UTC().Format(time.RFC3339Nano)
		}
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Settings.Snapshot())
}

func (s *Server) putOverlay(c *gin.Context) {
	var p overlayPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := s.deps.Settings.Update(func(sn *settings.Snapshot) {
		if p.DetectionConfidence != nil {
			sn.Overlay.DetectionConfidence = *p.DetectionConfidence
		}
		if p.LineThickness != nil {
			sn.Overlay.LineThickness = *p.LineThickness
		}
		if p.LevelOfDetail != nil {
			sn.Overlay.LevelOfDetail = *p.LevelOfDetail
		}
	})
	c.JSON(http.StatusOK, snap)
}

func (s *Server) putBindings(c *gin.Context) {
	var p bindingsPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, k := range []*string{p.SnapBodyKey, p.SnapHeadKey} {
		if k == nil {
			continue
		}
		if _, ok := input.ParseVK(*k); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown key " + *k})
			return
		}
	}
	snap := s.deps.Settings.Update(func(sn *settings.Snapshot) {
		if p.SnapBodyKey != nil {
			sn.Bindings.SnapBodyKey = *p.SnapBodyKey
		}
		if p.SnapHeadKey != nil {
			sn.Bindings.SnapHeadKey = *p.SnapHeadKey
		}
	})
	c.JSON(http.StatusOK, snap)
}

func (s *Server) setTrigger(c *gin.Context) {
	k, err := trigger.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.deps.Flags.Set(k)
	s.logger.Info("trigger set over http", "trigger", trigger.Name(k))
	c.JSON(http.StatusAccepted, gin.H{"trigger": trigger.Name(k), "pending": true})
}

func (s *Server) clearTrigger(c *gin.Context) {
	k, err := trigger.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.deps.Flags.Clear(k)
	c.JSON(http.StatusOK, gin.H{"trigger": trigger.Name(k), "pending": false})
}

func (s *Server) listTriggers(c *gin.Context) {
	out := gin.H{}
	for _, k := range trigger.Kinds {
		out[trigger.Name(k)] = s.deps.Flags.IsSet(k)
	}
	c.JSON(http.StatusOK, out)
}
