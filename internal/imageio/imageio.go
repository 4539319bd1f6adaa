// Package imageio converts between image files and [roi.Array] values.
//
// Images decode to arrays of shape (width, height, channels): x runs along
// axis 0 and y along axis 1, matching the way shapes are placed on an image
// whose pixels have unit size. Gray images have one channel, everything else
// has four (red, green, blue, alpha), with samples in the range 0..65535.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	// Registered for image.Decode.
	_ "golang.org/x/image/bmp"
	_ "image/gif"
	_ "image/jpeg"

	"honnef.co/go/roi"
)

// ErrUnsupportedFormat is returned when encoding to an unknown format.
var ErrUnsupportedFormat = errors.New("imageio: unsupported format")

// Load decodes the image at path.
func Load(path string) (*roi.Array, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	a, _, err := Decode(f)
	return a, err
}

// Decode decodes an image in any registered format and returns it together
// with the format's name.
func Decode(r io.Reader) (*roi.Array, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	return FromImage(img), format, nil
}

// FromImage copies img into a new array.
func FromImage(img image.Image) *roi.Array {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		a, _ := roi.NewArray(w, h, 1)
		for y := range h {
			for x := range w {
				g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				a.Set(float64(g.Y), x, y, 0)
			}
		}
		return a
	default:
		a, _ := roi.NewArray(w, h, 4)
		for y := range h {
			for x := range w {
				c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
				a.Set(float64(c.R), x, y, 0)
				a.Set(float64(c.G), x, y, 1)
				a.Set(float64(c.B), x, y, 2)
				a.Set(float64(c.A), x, y, 3)
			}
		}
		return a
	}
}

// Plane renders the plane spanned by axes as a gray image, stretching the
// plane's values over the full gray range. fixed holds the index along each
// remaining axis, in increasing axis order. A constant plane renders black.
func Plane(a *roi.Array, axes [2]int, fixed []int) (*image.Gray16, error) {
	rank := a.Rank()
	if axes[0] == axes[1] || min(axes[0], axes[1]) < 0 || max(axes[0], axes[1]) >= rank {
		return nil, fmt.Errorf("imageio: axes %v for rank %d: %w", axes, rank, roi.ErrInvalidArgument)
	}
	if len(fixed) != rank-2 {
		return nil, fmt.Errorf("imageio: %d fixed indices for rank %d: %w", len(fixed), rank, roi.ErrInvalidArgument)
	}
	idx := make([]int, rank)
	k := 0
	for i := range rank {
		if i == axes[0] || i == axes[1] {
			continue
		}
		if fixed[k] < 0 || fixed[k] >= a.Dim(i) {
			return nil, fmt.Errorf("imageio: index %d on axis %d of length %d: %w", fixed[k], i, a.Dim(i), roi.ErrInvalidArgument)
		}
		idx[i] = fixed[k]
		k++
	}

	w, h := a.Dim(axes[0]), a.Dim(axes[1])
	at := func(x, y int) float64 {
		idx[axes[0]], idx[axes[1]] = x, y
		return a.At(idx...)
	}
	lo, hi := 0.0, 0.0
	for x := range w {
		for y := range h {
			v := at(x, y)
			if x == 0 && y == 0 {
				lo, hi = v, v
			}
			lo, hi = min(lo, v), max(hi, v)
		}
	}

	img := image.NewGray16(image.Rect(0, 0, w, h))
	if hi == lo {
		return img, nil
	}
	scale := 0xffff / (hi - lo)
	for x := range w {
		for y := range h {
			img.SetGray16(x, y, color.Gray16{Y: uint16((at(x, y)-lo)*scale + 0.5)})
		}
	}
	return img, nil
}

// RGBA converts an array of shape (width, height, 4) to an image. Samples
// are clamped to 0..65535.
func RGBA(a *roi.Array) (*image.NRGBA64, error) {
	if a.Rank() != 3 || a.Dim(2) != 4 {
		return nil, fmt.Errorf("imageio: array of shape %v is not RGBA: %w", a.Shape(), roi.ErrInvalidArgument)
	}
	w, h := a.Dim(0), a.Dim(1)
	img := image.NewNRGBA64(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: sample16(a.At(x, y, 0)),
				G: sample16(a.At(x, y, 1)),
				B: sample16(a.At(x, y, 2)),
				A: sample16(a.At(x, y, 3)),
			})
		}
	}
	return img, nil
}

func sample16(v float64) uint16 {
	switch {
	case !(v > 0):
		return 0
	case v >= 0xffff:
		return 0xffff
	default:
		return uint16(v + 0.5)
	}
}

// Image converts an extracted region to an image. Single-channel data is
// stretched to the gray range like [Plane]; four-channel data is converted
// with [RGBA].
func Image(a *roi.Array) (image.Image, error) {
	switch {
	case a.Rank() == 2:
		return Plane(a, [2]int{0, 1}, nil)
	case a.Rank() == 3 && a.Dim(2) == 1:
		return Plane(a, [2]int{0, 1}, []int{0})
	case a.Rank() == 3 && a.Dim(2) == 4:
		return RGBA(a)
	default:
		return nil, fmt.Errorf("imageio: array of shape %v is not an image: %w", a.Shape(), roi.ErrInvalidArgument)
	}
}

// Encode writes img to w in the given format, png or tiff.
func Encode(w io.Writer, img image.Image, format string) error {
	switch normalizeFormat(format) {
	case "png":
		return png.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func normalizeFormat(format string) string {
	switch f := strings.ToLower(format); f {
	case "tif":
		return "tiff"
	default:
		return f
	}
}

// Save writes img to path. An empty format is taken from the file
// extension.
func Save(path string, img image.Image, format string) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	if f := normalizeFormat(format); f != "png" && f != "tiff" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}
	if err := Encode(f, img, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Scale enlarges img by an integer factor, with blocky pixels unless smooth
// is set.
func Scale(img image.Image, factor int, smooth bool) image.Image {
	if factor <= 1 {
		return img
	}
	sr := img.Bounds()
	dst := newLike(img, image.Rect(0, 0, sr.Dx()*factor, sr.Dy()*factor))
	var s draw.Scaler = draw.NearestNeighbor
	if smooth {
		s = draw.BiLinear
	}
	s.Scale(dst, dst.Bounds(), img, sr, draw.Src, nil)
	return dst
}

// Warp renders img onto a new image of the given size. mapping maps the new
// image's pixel space to img's, relative to the top left corner of img's
// bounds; the Mapping of a [roi.Region] extracted from img is one such
// transform. Pixels that map outside img are transparent or black.
func Warp(img image.Image, mapping roi.Affine, size image.Point, smooth bool) (image.Image, error) {
	toDst, err := mapping.Invert()
	if err != nil {
		return nil, fmt.Errorf("imageio: warp: %w", err)
	}
	sr := img.Bounds()
	s2d := toDst.Mul(roi.Translate(roi.Vec(-float64(sr.Min.X), -float64(sr.Min.Y))))
	dst := newLike(img, image.Rectangle{Max: size})
	var t draw.Transformer = draw.NearestNeighbor
	if smooth {
		t = draw.BiLinear
	}
	t.Transform(dst, s2d.Aff3(), img, sr, draw.Src, nil)
	return dst, nil
}

func newLike(img image.Image, r image.Rectangle) draw.Image {
	if _, ok := img.(*image.Gray16); ok {
		return image.NewGray16(r)
	}
	return image.NewNRGBA64(r)
}
