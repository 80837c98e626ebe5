// Command hellotriangle renders the color-managed triangle headlessly for
// a number of frames and reports the frame counters.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/hellotriangle"

	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	var (
		configPath  = flag.String("config", "", "TOML config file")
		backend     = flag.String("backend", "", "backend: auto, vulkan, metal, dx12, gl, empty")
		width       = flag.Uint("width", 800, "surface width in pixels")
		height      = flag.Uint("height", 600, "surface height in pixels")
		frames      = flag.Int("frames", 60, "frames to render")
		resizeEvery = flag.Int("resize-every", 0, "grow the surface by 16px every N frames (0 disables)")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	hellotriangle.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var opts []hellotriangle.Option
	if *configPath != "" {
		cfg, err := hellotriangle.LoadConfigFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if opts, err = cfg.Options(); err != nil {
			log.Fatalf("Invalid config %s: %v", *configPath, err)
		}
	}
	if *backend != "" {
		backends, err := hellotriangle.ParseBackend(*backend)
		if err != nil {
			log.Fatalf("Invalid -backend: %v", err)
		}
		if backends != nil {
			opts = append(opts, hellotriangle.WithBackend(backends...))
		}
	}

	r, err := hellotriangle.Initialize(hellotriangle.SurfaceHandle{}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer r.Close()

	info := r.Pipeline()
	log.Printf("Adapter %q, color format %v", info.Adapter, info.ColorFormat)

	size := hellotriangle.Size{Width: uint32(*width), Height: uint32(*height)}
	r.OnResize(size)
	for i := 1; i <= *frames; i++ {
		r.RenderFrame()
		if *resizeEvery > 0 && i%*resizeEvery == 0 {
			size.Width += 16
			size.Height += 16
			r.OnResize(size)
		}
	}

	s := r.Stats()
	log.Printf("Rendered %d frames: %d submitted, %d skipped, %d idle\n",
		*frames, s.Submitted, s.Skipped, s.Idle)
}
