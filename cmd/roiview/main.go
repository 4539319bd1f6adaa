// Command roiview edits a region of interest over an image in the terminal
// and shows the extracted region as it changes.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"honnef.co/go/roi"
	"honnef.co/go/roi/internal/config"
	"honnef.co/go/roi/internal/imageio"
	"honnef.co/go/roi/internal/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON configuration file")
		in         = flag.String("in", "", "image to view; a synthetic pattern if empty")
		width      = flag.Int("width", 40, "width of the synthetic pattern")
		height     = flag.Int("height", 20, "height of the synthetic pattern")
		kind       = flag.String("kind", "rect", "initial shape: rect, ellipse or polyline")
		logPath    = flag.String("log", "", "write debug logs to this file")
	)
	flag.Parse()

	// A missing file yields the defaults.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	ex, err := cfg.Extractor()
	if err != nil {
		log.Fatal(err)
	}

	// The terminal belongs to the viewer, so logs only go to a file.
	logger := slog.New(slog.DiscardHandler)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		roi.SetLogger(logger)
	}

	var src *roi.Array
	if *in != "" {
		src, err = imageio.Load(*in)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		src, err = tui.Synthetic(*width, *height)
		if err != nil {
			log.Fatal(err)
		}
	}

	k, err := roi.ParseKind(*kind)
	if err != nil {
		log.Fatal(err)
	}
	shape, err := tui.NewShape(src, k, cfg.ShapeOptions()...)
	if err != nil {
		log.Fatal(err)
	}
	m, err := tui.New(src, shape, ex, logger, cfg.ShapeOptions()...)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
