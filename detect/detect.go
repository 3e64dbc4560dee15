// Package detect defines the per-frame disc presence capability the decoder
// consumes, the fixed per-channel screen geometry, and a reference
// color-threshold implementation over image.Image.
package detect

import (
	"fmt"
	"image"
	"image/color"

	"github.com/jrwynneiii/morsecast/config"
	"github.com/jrwynneiii/morsecast/mux"
)

// Point is a disc center in frame coordinates.
type Point struct {
	X, Y int
}

// Region is one channel's pair of disc positions. Discs are drawn on both
// edges of the frame; a channel reads as on only when both sides detect,
// which rejects single-sided artifacts.
type Region struct {
	Left  Point
	Right Point
	// Reach is the half-width of the square ROI sampled around each center.
	Reach int
}

// Regions derives the fixed per-channel geometry from the disc config and
// frame dimensions: four rows spread over the frame height, discs hugging the
// left and right edges at the configured margin.
func Regions(disc config.DiscConf) [mux.NumChannels]Region {
	w, h := disc.Width, disc.Height
	rows := [mux.NumChannels]int{
		h / 4,
		h/2 - h/8,
		h/2 + h/8,
		3 * h / 4,
	}
	var regions [mux.NumChannels]Region
	for i, y := range rows {
		regions[i] = Region{
			Left:  Point{X: disc.Margin, Y: y},
			Right: Point{X: w - disc.Margin, Y: y},
			Reach: disc.Radius + 3,
		}
	}
	return regions
}

// Detector is the boundary to the video subsystem: a possibly-noisy per-frame,
// per-channel presence test. The reconstructor tolerates single-frame false
// reads in either direction.
type Detector interface {
	Detect(frame image.Image, region Region) bool
}

// ColorDetector is the reference Detector: a channel disc is present when the
// fraction of ROI pixels within Tolerance of the disc color exceeds
// MinFraction on both sides of the frame.
type ColorDetector struct {
	Color color.RGBA
	// Tolerance is the max per-component distance to still count a pixel.
	Tolerance uint8
	// MinFraction of matching ROI pixels required for a positive read.
	MinFraction float64
}

// NewColorDetector builds a detector for the configured disc color. The
// fraction threshold matches the reference implementation's 12%.
func NewColorDetector(disc config.DiscConf) (*ColorDetector, error) {
	c, err := ParseColor(disc.Color)
	if err != nil {
		return nil, err
	}
	return &ColorDetector{
		Color:       c,
		Tolerance:   60,
		MinFraction: 0.12,
	}, nil
}

// ParseColor parses a #rrggbb hex color.
func ParseColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("bad disc color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func (d *ColorDetector) Detect(frame image.Image, region Region) bool {
	return d.sample(frame, region.Left, region.Reach) &&
		d.sample(frame, region.Right, region.Reach)
}

func (d *ColorDetector) sample(frame image.Image, center Point, reach int) bool {
	bounds := frame.Bounds()
	x1 := max(bounds.Min.X, center.X-reach)
	x2 := min(bounds.Max.X, center.X+reach)
	y1 := max(bounds.Min.Y, center.Y-reach)
	y2 := min(bounds.Max.Y, center.Y+reach)
	if x1 >= x2 || y1 >= y2 {
		return false
	}

	matched, total := 0, 0
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			r, g, b, _ := frame.At(x, y).RGBA()
			if d.match(uint8(r>>8), uint8(g>>8), uint8(b>>8)) {
				matched++
			}
			total++
		}
	}
	return float64(matched)/float64(total) > d.MinFraction
}

func (d *ColorDetector) match(r, g, b uint8) bool {
	return absDiff(r, d.Color.R) <= d.Tolerance &&
		absDiff(g, d.Color.G) <= d.Tolerance &&
		absDiff(b, d.Color.B) <= d.Tolerance
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
