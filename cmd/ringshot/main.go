// Command ringshot renders a ring offscreen and writes one frame as a WebP image.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"github.com/Carmen-Shannon/oxy-ring/config"
	"github.com/Carmen-Shannon/oxy-ring/engine"
	"github.com/Carmen-Shannon/oxy-ring/engine/loader"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ring/ring"
)

const frame = float32(1.0 / 60)

func main() {
	configFile := flag.String("config", "", "Path to a ring config file (.yaml, .toml or .json)")
	out := flag.String("out", "ring.webp", "Output WebP file")
	width := flag.Int("width", 800, "Image width in pixels")
	height := flag.Int("height", 600, "Image height in pixels")
	frames := flag.Int("frames", 60, "Frames to simulate before the capture")
	click := flag.String("click", "", "Click at x,y after the first frames, e.g. 400,300")
	timeout := flag.Duration("timeout", 30*time.Second, "How long to wait for images")
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

	// ── Headless host ───────────────────────────────────────────────────
	host := &headless{width: *width, height: *height}
	eng := engine.NewEngine()
	ld := loader.NewLoader(loader.WithBaseDir(baseDir))
	defer ld.Close()
	loads := newTracker(ld)

	var captured renderer.Renderer
	newRenderer := func(w, h int) (ring.Renderer, error) {
		r, err := renderer.NewRenderer(renderer.BackendTypeSoftware, renderer.WithSize(w, h))
		if err != nil {
			return nil, err
		}
		captured = r
		return r, nil
	}

	ctrl, err := ring.New(host, cfg,
		ring.WithScheduler(eng),
		ring.WithTextureLoader(loads),
		ring.WithRendererFactory(newRenderer),
		ring.WithOnRenderError(func(err error) { log.Printf("[ringshot] render: %v", err) }),
	)
	if err != nil {
		log.Fatalf("Failed to start ring: %v", err)
	}
	defer ctrl.Destroy()

	// ── Simulate ────────────────────────────────────────────────────────
	if !loads.wait(*timeout) {
		log.Printf("[ringshot] images still loading after %s", *timeout)
	}
	for i := 0; i < *frames; i++ {
		eng.Step(frame)
	}
	if *click != "" {
		x, y, err := parsePoint(*click)
		if err != nil {
			log.Fatalf("Invalid -click: %v", err)
		}
		host.click(x, y)
		for i := 0; i < *frames; i++ {
			eng.Step(frame)
		}
	}
	st := ctrl.State()
	log.Printf("[ringshot] %s, spin %.3f, %d cards", st.Focus, st.Spin, st.Cards)

	// ── Capture ─────────────────────────────────────────────────────────
	if captured == nil {
		log.Fatalf("No frame was rendered")
	}
	img := captured.Snapshot()
	if img == nil {
		log.Fatalf("No frame was rendered")
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		log.Fatalf("Failed to encode %s: %v", *out, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("[ringshot] wrote %s (%dx%d)", *out, img.Bounds().Dx(), img.Bounds().Dy())
}
