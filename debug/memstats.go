package debug

// Memory/RSS periodic logger enabled when config.Debug is true.
// Logs process RSS and CPU alongside Go heap stats to correlate native vs heap
// growth (onnxruntime and gocv allocate outside the Go heap).

import (
	"context"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/soocke/pixel-overlay-go/domain/metrics"
)

// ProcSample is one reading of the process counters.
type ProcSample struct {
	RSSMegabytes float64
	CPUPercent   float64
}

// Sampler reads process counters for the current process.
type Sampler struct {
	proc *process.Process
}

func NewSampler() (*Sampler, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Sampler{proc: p}, nil
}

func (s *Sampler) Sample(ctx context.Context) (ProcSample, error) {
	mi, err := s.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return ProcSample{}, err
	}
	cpu, err := s.proc.CPUPercentWithContext(ctx)
	if err != nil {
		return ProcSample{}, err
	}
	return ProcSample{
		RSSMegabytes: float64(mi.RSS) / 1024 / 1024,
		CPUPercent:   math.Round(cpu*100) / 100,
	}, nil
}

// StartMemLogger logs memory stats every interval until ctx is done and,
// when m is non-nil, mirrors RSS and CPU into its gauges. Failures to read
// process counters are logged once and suppressed.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger, m *metrics.Metrics) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	sampler, err := NewSampler()
	if err != nil {
		logger.Warn("memlog: process lookup failed", "error", err)
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var procErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			var ps ProcSample
			if sampler != nil {
				ps, err = sampler.Sample(ctx)
				if err != nil && !procErrLogged {
					logger.Warn("memlog: process sample failed", "error", err)
					procErrLogged = true
				}
			}
			if m != nil {
				m.ProcessRSS.Set(ps.RSSMegabytes)
				m.ProcessCPU.Set(ps.CPUPercent)
			}
			logger.Info("memstats",
				slog.Int("goroutines", runtime.NumGoroutine()),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("heap_sys", ms.HeapSys),
				slog.Uint64("next_gc", ms.NextGC),
				slog.Float64("rss_mb", ps.RSSMegabytes),
				slog.Float64("cpu_percent", ps.CPUPercent),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}
