package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/Carmen-Shannon/oxy-ring/bridge"
	"github.com/Carmen-Shannon/oxy-ring/config"
	"github.com/Carmen-Shannon/oxy-ring/engine"
	"github.com/Carmen-Shannon/oxy-ring/engine/loader"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ring/engine/window"
	"github.com/Carmen-Shannon/oxy-ring/ring"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	configFile := flag.String("config", "", "Path to a ring config file (.yaml, .toml or .json)")
	watch := flag.Bool("watch", false, "Reload the config file when it changes")
	bridgeAddr := flag.String("bridge", "", "Serve the websocket bridge on this address, e.g. :8787")
	width := flag.Int("width", 1280, "Window width in pixels")
	height := flag.Int("height", 800, "Window height in pixels")
	workers := flag.Int("workers", 0, "Image decode workers (default: NumCPU)")
	profile := flag.Bool("profile", false, "Log frame timings")
	flag.Parse()

	cfg := ring.DefaultConfig()
	baseDir := "."
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
		baseDir = filepath.Dir(*configFile)
	}

	// ── Window + Engine ─────────────────────────────────────────────────
	// Escape belongs to the ring, which uses it to leave focus.
	win, err := window.NewWindow(
		window.WithTitle("oxy ring"),
		window.WithWidth(*width),
		window.WithHeight(*height),
		window.WithMinWidth(320),
		window.WithMinHeight(240),
		window.WithCloseOnEscape(false),
	)
	if err != nil {
		log.Fatalf("Failed to open window: %v", err)
	}
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiling(*profile),
	)

	// ── Texture loader ──────────────────────────────────────────────────
	loaderOpts := []loader.LoaderBuilderOption{loader.WithBaseDir(baseDir)}
	if *workers > 0 {
		loaderOpts = append(loaderOpts, loader.WithWorkers(*workers))
	}
	ld := loader.NewLoader(loaderOpts...)
	defer ld.Close()

	// ── Bridge ──────────────────────────────────────────────────────────
	var br bridge.Bridge
	var srv *http.Server
	if *bridgeAddr != "" {
		br = bridge.New()
		mux := http.NewServeMux()
		mux.Handle("/ring", br)
		srv = &http.Server{Addr: *bridgeAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[ringview] bridge stopped: %v", err)
			}
		}()
		log.Printf("[ringview] bridge listening on ws://%s/ring", *bridgeAddr)
	}

	// ── Controller ──────────────────────────────────────────────────────
	newRenderer := func(w, h int) (ring.Renderer, error) {
		r, err := renderer.NewRenderer(
			renderer.BackendTypeWGPU,
			renderer.WithSurfaceDescriptor(win.SurfaceDescriptor()),
			renderer.WithSize(w, h),
			renderer.WithMSAA(renderer.MSAA4x),
		)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	onOverlay := func(st ring.OverlayState) {
		if st.Visible {
			log.Printf("[ringview] %s: %s", st.Mode, st.Item.Label)
		}
		if br != nil {
			br.PublishOverlay(st)
		}
	}

	ctrl, err := ring.New(win, cfg,
		ring.WithScheduler(eng),
		ring.WithTextureLoader(ld),
		ring.WithRendererFactory(newRenderer),
		ring.WithOnOverlay(onOverlay),
	)
	if err != nil {
		log.Fatalf("Failed to start ring: %v", err)
	}
	if br != nil {
		br.Attach(ctrl)
	}

	// ── Hot reload ──────────────────────────────────────────────────────
	if *watch && *configFile != "" {
		w, err := config.Watch(*configFile, ctrl.Update)
		if err != nil {
			log.Printf("[ringview] not watching config: %v", err)
		} else {
			defer w.Close()
		}
	}

	eng.Run()

	ctrl.Destroy()
	if br != nil {
		br.Close()
		srv.Close()
	}
}
