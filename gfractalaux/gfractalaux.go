package gfractalaux

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	math "github.com/chewxy/math32"
	"github.com/soypat/gfractal/render"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Format is an image file format.
type Format uint8

const (
	FormatPNG Format = iota
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatBMP:
		return "BMP"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// FormatFromFilename returns the image format matching filename's extension.
func FormatFromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	}
	return 0, fmt.Errorf("unsupported image extension in %q", filename)
}

type RenderConfig struct {
	Output io.Writer
	Format Format
	// Antialiasing is the side of the per pixel sample grid. Zero renders one sample per pixel.
	Antialiasing int
	// Caption is drawn over the top left corner of the image when not empty.
	// Lines are separated by newlines.
	Caption string
	Silent  bool
}

// Render is an auxiliary function that renders r's current scene and encodes the
// result to cfg.Output. Progress is printed to standard output unless cfg.Silent is set.
func Render(r *render.Renderer, cfg RenderConfig) (stats render.RenderStats, err error) {
	if cfg.Output == nil {
		return stats, errors.New("Render requires output parameter in config")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	aa := cfg.Antialiasing
	if aa == 0 {
		aa = 1
	}
	watch := stopwatch()
	fb, err := r.Render(aa)
	if err != nil {
		return stats, err
	}
	stats = r.LastStats()
	log("rendered", r.Field(), stats.Width, "x", stats.Height, "at", aa, "x", aa, "samples per pixel with", stats.Workers, "workers in", watch())
	log("evaluated distance estimate", stats.Evaluations, "times,", percentUint64(stats.Hits, stats.Hits+stats.Misses), "percent of rays hit the surface")

	watch = stopwatch()
	img := Image(fb)
	if cfg.Caption != "" {
		err = DrawCaption(img, cfg.Caption)
		if err != nil {
			return stats, fmt.Errorf("drawing caption: %w", err)
		}
	}
	switch cfg.Format {
	case FormatPNG:
		err = png.Encode(cfg.Output, img)
	case FormatBMP:
		err = bmp.Encode(cfg.Output, img)
	default:
		err = fmt.Errorf("unknown format %v", cfg.Format)
	}
	if err != nil {
		return stats, fmt.Errorf("encoding %v: %w", cfg.Format, err)
	}
	filename := cfg.Format.String()
	if fp, ok := cfg.Output.(*os.File); ok {
		filename = fp.Name()
	}
	log("wrote", filename, "in", watch())
	return stats, nil
}

// RenderFile renders r's current scene to a new file with said filename. The image
// format is chosen from the filename extension and cfg.Output is ignored.
func RenderFile(filename string, r *render.Renderer, cfg RenderConfig) (render.RenderStats, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return render.RenderStats{}, err
	}
	fp, err := os.Create(filename)
	if err != nil {
		return render.RenderStats{}, err
	}
	defer fp.Close()
	cfg.Output = fp
	cfg.Format = format
	stats, err := Render(r, cfg)
	if err != nil {
		return stats, err
	}
	return stats, fp.Sync()
}

// Image converts a framebuffer to an RGBA image.
func Image(fb *render.Framebuffer) *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	draw.Draw(img, img.Bounds(), fb, image.Point{}, draw.Src)
	return img
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

func percentUint64(num, denom uint64) float32 {
	if denom == 0 {
		return 0
	}
	return math.Trunc(10000*float32(num)/float32(denom)) / 100
}
