package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu/halgpu"
	"github.com/gallus-engine/gallus/logging"
	"github.com/gallus-engine/gallus/render"
	"github.com/gallus-engine/gallus/swapchain"
	"github.com/gogpu/gputypes"
	"github.com/pkg/profile"

	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func init() {
	// glfw must only be called from the main thread
	runtime.LockOSThread()
}

type config struct {
	backend    string
	width      int
	height     int
	buffers    int
	vsync      bool
	tearing    bool
	stats      time.Duration
	cpuProfile string
	debug      bool
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.backend, "backend", "auto", "graphics backend: auto, vulkan, metal, dx12, gl, primary or noop")
	flag.IntVar(&cfg.width, "width", 1280, "initial window width in points")
	flag.IntVar(&cfg.height, "height", 720, "initial window height in points")
	flag.IntVar(&cfg.buffers, "buffers", 3, "number of swap chain back buffers")
	flag.BoolVar(&cfg.vsync, "vsync", true, "wait for vertical blank when presenting")
	flag.BoolVar(&cfg.tearing, "tearing", false, "allow tearing when vsync is off")
	flag.DurationVar(&cfg.stats, "stats", 0, "log renderer statistics at this interval, 0 disables")
	flag.StringVar(&cfg.cpuProfile, "cpuprofile", "", "write a CPU profile into this directory")
	flag.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	flag.Parse()

	return cfg
}

func main() {
	cfg := parseFlags()

	level := slog.LevelInfo
	if cfg.debug {
		level = slog.LevelDebug
	}
	handler := logging.NewAsyncHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}), 0)
	if err := handler.Start(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "start logging:", err)
		os.Exit(1)
	}
	logger := slog.New(handler).With(logging.Category(logging.CategoryEditor))

	err := run(logger, cfg)
	if err != nil {
		logger.Error("viewer failed", slog.Any("error", err))
	}

	if stopErr := handler.Stop(); stopErr != nil {
		fmt.Fprintln(os.Stderr, "stop logging:", stopErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg config) error {
	if cfg.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.cpuProfile), profile.NoShutdownHook).Stop()
	}

	backends, err := halgpu.ParseBackends(cfg.backend)
	if err != nil {
		return err
	}

	window, err := newGLFWWindow(cfg.width, cfg.height, "gallus")
	if err != nil {
		return err
	}
	defer window.Destroy()

	device, err := halgpu.Open(logger, halgpu.CreateOptions{
		Backends: backends,
		Label:    "viewer",
	})
	if err != nil {
		return errors.Wrap(err, "open graphics device")
	}
	defer device.Release()

	renderSystem := render.NewSystem(logger, device, window, render.CreateOptions{
		SwapChain: swapchain.CreateOptions{
			BufferCount:  cfg.buffers,
			VSync:        cfg.vsync,
			AllowTearing: cfg.tearing,
			ClearColor:   gputypes.Color{R: 0.1, G: 0.1, B: 0.15, A: 1},
		},
	})

	renderSystem.OnRender.Subscribe(func(frame render.Frame) {
		// Fade the background through the frame counter so presentation pacing is visible
		phase := float64(frame.Context.CommandQueue(frame.List.Type()).LastSignaledValue()%240) / 240
		frame.List.ClearRenderTarget(frame.RenderTarget, gputypes.Color{
			R: 0.1 + 0.2*phase,
			G: 0.1,
			B: 0.15 + 0.2*(1-phase),
			A: 1,
		})
	})
	renderSystem.OnFPS.Set(func(stats render.FPSStats) {
		logger.Debug("frame rate", slog.Float64("fps", stats.FPS), slog.Uint64("frames", stats.TotalFrames))
	})

	if err := renderSystem.Start(context.Background(), true); err != nil {
		return errors.Wrap(err, "start render system")
	}

	window.onResize = func(width, height int) {
		if width == 0 || height == 0 {
			return
		}

		if err := renderSystem.Resize(uint32(width), uint32(height)); err != nil {
			logger.Error("resize", slog.Any("error", err))
		}
	}

	var statsTicker <-chan time.Time
	if cfg.stats > 0 {
		ticker := time.NewTicker(cfg.stats)
		defer ticker.Stop()
		statsTicker = ticker.C
	}

	for !window.ShouldClose() {
		window.WaitEvents(10 * time.Millisecond)

		select {
		case <-renderSystem.Done():
			return errors.Wrap(renderSystem.Thread().Err(), "render system stopped")
		case <-statsTicker:
			if renderContext := renderSystem.Context(); renderContext != nil {
				logger.Info("renderer statistics", slog.String("stats", renderContext.BuildStatsString(false)))
			}
		default:
		}
	}

	return renderSystem.Stop()
}
