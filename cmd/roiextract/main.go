// Command roiextract extracts the region covered by a shape from an image.
//
// The shape is given either by flags or by a state file as written by
// -dump-state:
//
//	roiextract -in scan.tiff -out crop.png -kind ellipse -pos 10,20 -size 64,32 -angle 30
//	roiextract -in scan.tiff -out crop.png -state roi.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"honnef.co/go/roi"
	"honnef.co/go/roi/internal/config"
	"honnef.co/go/roi/internal/imageio"
)

// document is the on-disk form of a shape.
type document struct {
	Kind  string    `json:"kind"`
	State roi.State `json:"state"`
}

type options struct {
	configPath string
	in, out    string
	statePath  string
	dumpState  string
	preview    string

	kind   string
	pos    string
	size   string
	angle  float64
	points string
	closed bool

	frame    string
	interp   string
	zoom     int
	logLevel string
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "JSON configuration file")
	flag.StringVar(&o.in, "in", "", "input image")
	flag.StringVar(&o.out, "out", "", "output image (png or tiff)")
	flag.StringVar(&o.statePath, "state", "", "read the shape from this state file")
	flag.StringVar(&o.dumpState, "dump-state", "", "write the shape's state to this file, - for stdout")
	flag.StringVar(&o.preview, "preview", "", "write the region's grid without the shape mask to this image")
	flag.StringVar(&o.kind, "kind", "rect", "shape kind: rect, ellipse or polyline")
	flag.StringVar(&o.pos, "pos", "0,0", "shape position x,y")
	flag.StringVar(&o.size, "size", "", "shape size w,h")
	flag.Float64Var(&o.angle, "angle", 0, "shape rotation in degrees")
	flag.StringVar(&o.points, "points", "", "polyline vertices x,y;x,y;...")
	flag.BoolVar(&o.closed, "closed", true, "close the polyline")
	flag.StringVar(&o.frame, "frame", "", "output frame: array or shape (overrides config)")
	flag.StringVar(&o.interp, "interp", "", "interpolation: bilinear or nearest (overrides config)")
	flag.IntVar(&o.zoom, "zoom", 0, "enlarge the output image (overrides config)")
	flag.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, "roiextract:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return err
		}
	}
	if err := applyFlags(cfg, o); err != nil {
		return err
	}

	logger := NewLogger(cfg.Level())
	roi.SetLogger(logger)

	ex, err := cfg.Extractor()
	if err != nil {
		return err
	}
	shape, err := buildShape(o, cfg.ShapeOptions())
	if err != nil {
		return err
	}
	if o.dumpState != "" {
		if err := dumpState(o.dumpState, shape); err != nil {
			return err
		}
	}
	if o.in == "" {
		if o.dumpState == "" {
			return errors.New("no input image")
		}
		return nil
	}

	src, err := imageio.Load(o.in)
	if err != nil {
		return err
	}
	logger.Info("loaded image", "path", o.in, "shape", src.Shape())

	rgn, err := ex.Extract(src, cfg.Axes, roi.Identity, shape)
	if err != nil {
		return err
	}
	logger.Info("extracted region",
		"kind", shape.Kind().String(),
		"bounds", rgn.Bounds,
		"clipped", rgn.Clipped,
		"padding_before", rgn.Padding.Before,
		"padding_after", rgn.Padding.After,
		"shape", rgn.Data.Shape())

	smooth := ex.Interpolation == roi.Bilinear
	if o.preview != "" {
		srcImg, err := imageio.Image(src)
		if err != nil {
			return err
		}
		n0, n1 := rgn.Size()
		img, err := imageio.Warp(srcImg, rgn.Mapping, image.Pt(n0, n1), smooth)
		if err != nil {
			return err
		}
		if err := writeImage(logger, o.preview, imageio.Scale(img, cfg.Zoom, smooth), cfg.OutputFormat); err != nil {
			return err
		}
	}
	if o.out == "" {
		return nil
	}
	img, err := imageio.Image(rgn.Data)
	if err != nil {
		return err
	}
	return writeImage(logger, o.out, imageio.Scale(img, cfg.Zoom, smooth), cfg.OutputFormat)
}

// writeImage saves img in the format named by the path's extension, or
// format if the extension names none.
func writeImage(logger *slog.Logger, path string, img image.Image, format string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".tif", ".tiff":
		format = "tiff"
	}
	if err := imageio.Save(path, img, format); err != nil {
		return err
	}
	logger.Info("wrote image", "path", path, "format", format, "bounds", img.Bounds())
	return nil
}

func applyFlags(cfg *config.Config, o options) error {
	if o.frame != "" {
		cfg.Frame = o.frame
	}
	if o.interp != "" {
		cfg.Interpolation = o.interp
	}
	if o.zoom != 0 {
		cfg.Zoom = o.zoom
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg.Validate()
}

func buildShape(o options, opts []roi.Option) (roi.Shape, error) {
	if o.statePath != "" {
		b, err := os.ReadFile(o.statePath)
		if err != nil {
			return nil, err
		}
		var doc document
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("reading %s: %w", o.statePath, err)
		}
		kind, err := roi.ParseKind(doc.Kind)
		if err != nil {
			return nil, err
		}
		return roi.NewShapeFromState(kind, doc.State, opts...)
	}

	kind, err := roi.ParseKind(o.kind)
	if err != nil {
		return nil, err
	}
	pos, err := parsePair(o.pos)
	if err != nil {
		return nil, fmt.Errorf("-pos: %w", err)
	}
	st := roi.State{
		Pos:   roi.Point(pos),
		Angle: o.angle * math.Pi / 180,
	}
	if kind == roi.KindPolyLine {
		st.Points, err = parsePoints(o.points)
		if err != nil {
			return nil, fmt.Errorf("-points: %w", err)
		}
		p, err := roi.NewShapeFromState(kind, st, opts...)
		if err != nil {
			return nil, err
		}
		p.(*roi.PolyLine).SetClosed(o.closed)
		return p, nil
	}
	size, err := parsePair(o.size)
	if err != nil {
		return nil, fmt.Errorf("-size: %w", err)
	}
	st.Size = roi.Sz(size.X, size.Y)
	return roi.NewShapeFromState(kind, st, opts...)
}

func dumpState(path string, shape roi.Shape) error {
	b, err := json.MarshalIndent(document{Kind: shape.Kind().String(), State: shape.State()}, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func parsePair(s string) (roi.Vec2, error) {
	x, y, ok := strings.Cut(s, ",")
	if !ok {
		return roi.Vec2{}, fmt.Errorf("%q is not of the form x,y: %w", s, roi.ErrInvalidArgument)
	}
	fx, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
	if err != nil {
		return roi.Vec2{}, err
	}
	fy, err := strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err != nil {
		return roi.Vec2{}, err
	}
	return roi.Vec(fx, fy), nil
}

func parsePoints(s string) ([]roi.Point, error) {
	pts := []roi.Point{}
	if strings.TrimSpace(s) == "" {
		return pts, nil
	}
	for _, f := range strings.Split(s, ";") {
		v, err := parsePair(f)
		if err != nil {
			return nil, err
		}
		pts = append(pts, roi.Point(v))
	}
	return pts, nil
}
