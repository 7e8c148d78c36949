package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"learn-gl/internal/assets/shadersrc"
	"learn-gl/internal/camera"
	"learn-gl/internal/graphics"
	"learn-gl/internal/graphics/glbackend"
	"learn-gl/internal/loop"
	"learn-gl/internal/platform"
)

// slowFrame is the tracked frame time above which the loop logs a breakdown.
const slowFrame = 50 * time.Millisecond

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// run opens a window, builds scene name and drives it until the window closes.
func run(name string, src sceneSources, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)
	src.Texture = cfg.Assets.Texture

	if err := platform.Init(); err != nil {
		return err
	}
	defer platform.Terminate()

	// until the loop owns teardown, undo setup here on failure
	var undo []func()
	handedOff := false
	defer func() {
		if handedOff {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}()

	win, err := platform.NewWindow(cfg.Window, cfg.Bindings, log)
	if err != nil {
		return err
	}
	undo = append(undo, win.Destroy)

	gpu, err := glbackend.New()
	if err != nil {
		return err
	}
	log.Info("OpenGL context ready", "version", gpu.Version())
	c := cfg.Render.ClearColor
	gpu.SetClearColor(c[0], c[1], c[2], c[3])
	win.OnResize(gpu.Viewport)

	loader := shadersrc.Loader{Dir: cfg.Assets.ShaderDir, Logger: log}
	sources, err := loader.Load(name)
	if err != nil {
		return err
	}
	program, err := graphics.Compile(gpu, sources.Vertex, sources.Fragment)
	program.Logger = log
	if err != nil {
		if opts.strict {
			return fmt.Errorf("shader program %q: %w", name, err)
		}
		log.Error("shader program failed, frames will be empty until it is fixed", "program", name, "error", err)
	}
	undo = append(undo, program.Destroy)

	scene, err := loadScene(name, src, log)
	if err != nil {
		return err
	}
	undo = append(undo, scene.Release)

	var reloads <-chan graphics.Sources
	if opts.watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		// the watcher goroutine never touches GL, so it is safe to stop from a signal
		closer.Bind(cancel)

		if reloads, err = loader.Watch(ctx, name); err != nil {
			log.Warn("shader hot reload disabled", "error", err)
		} else {
			log.Info("watching shader sources", "program", name, "dir", cfg.Assets.ShaderDir)
		}
	}

	cam := camera.New(
		mgl32.Vec3(cfg.Camera.Position),
		camera.Perspective(cfg.Camera.FOV, cfg.AspectRatio(), cfg.Camera.Near, cfg.Camera.Far),
	)
	cam.SetSpeed(cfg.Camera.Speed)
	cam.SetSensitivity(cfg.Camera.Sensitivity)

	l := loop.New(win, gpu, cam, program, scene.Drawables, loop.Options{
		MaxFPS:        cfg.Render.MaxFPS,
		SlowFrame:     slowFrame,
		Reloads:       reloads,
		FrameUniforms: scene.FrameUniforms,
		Wireframe:     cfg.Render.Wireframe,
		Logger:        log,
	})
	// hooks run in reverse: GPU objects go before the context does
	l.OnClose(win.Destroy)
	l.OnClose(scene.Release)
	handedOff = true

	log.Info("running", "scene", name)
	l.Run()
	log.Info("closed", "scene", name)
	return nil
}
