package detect

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrwynneiii/morsecast/config"
)

func testDisc() config.DiscConf {
	d := config.DiscConf{}
	d.ApplyDefaults()
	return d
}

// blankFrame is a black frame at the configured dimensions.
func blankFrame(disc config.DiscConf) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, disc.Width, disc.Height))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return frame
}

// paintDisc fills a square around the center, plenty to clear the ROI fraction.
func paintDisc(frame *image.RGBA, center Point, radius int, c color.RGBA) {
	r := image.Rect(center.X-radius, center.Y-radius, center.X+radius, center.Y+radius)
	draw.Draw(frame, r.Intersect(frame.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func TestRegionsGeometry(t *testing.T) {
	disc := testDisc()
	regions := Regions(disc)

	for i, region := range regions {
		assert.Equal(t, disc.Margin, region.Left.X, "channel %d", i)
		assert.Equal(t, disc.Width-disc.Margin, region.Right.X, "channel %d", i)
		assert.Equal(t, region.Left.Y, region.Right.Y, "channel %d", i)
		assert.Equal(t, disc.Radius+3, region.Reach, "channel %d", i)
	}
	// rows descend the frame and never collide
	for i := 1; i < len(regions); i++ {
		assert.Greater(t, regions[i].Left.Y, regions[i-1].Left.Y)
	}
}

func TestColorDetectorBothSides(t *testing.T) {
	disc := testDisc()
	det, err := NewColorDetector(disc)
	require.NoError(t, err)
	regions := Regions(disc)

	frame := blankFrame(disc)
	paintDisc(frame, regions[1].Left, disc.Radius, det.Color)
	paintDisc(frame, regions[1].Right, disc.Radius, det.Color)

	assert.True(t, det.Detect(frame, regions[1]))
	assert.False(t, det.Detect(frame, regions[0]))
	assert.False(t, det.Detect(frame, regions[2]))
}

func TestColorDetectorRejectsSingleSide(t *testing.T) {
	disc := testDisc()
	det, err := NewColorDetector(disc)
	require.NoError(t, err)
	regions := Regions(disc)

	frame := blankFrame(disc)
	paintDisc(frame, regions[0].Left, disc.Radius, det.Color)

	assert.False(t, det.Detect(frame, regions[0]))
}

func TestColorDetectorToleratesShade(t *testing.T) {
	disc := testDisc()
	det, err := NewColorDetector(disc)
	require.NoError(t, err)
	regions := Regions(disc)

	// default disc color is red; a darker, slightly washed-out red still reads
	near := color.RGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff}

	frame := blankFrame(disc)
	paintDisc(frame, regions[3].Left, disc.Radius, near)
	paintDisc(frame, regions[3].Right, disc.Radius, near)

	assert.True(t, det.Detect(frame, regions[3]))
}

func TestColorDetectorIgnoresWrongColor(t *testing.T) {
	disc := testDisc()
	disc.Color = "#ff0000"
	det, err := NewColorDetector(disc)
	require.NoError(t, err)
	regions := Regions(disc)

	frame := blankFrame(disc)
	blue := color.RGBA{B: 0xff, A: 0xff}
	paintDisc(frame, regions[2].Left, disc.Radius, blue)
	paintDisc(frame, regions[2].Right, disc.Radius, blue)

	assert.False(t, det.Detect(frame, regions[2]))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, c)

	_, err = ParseColor("red")
	assert.Error(t, err)
	_, err = ParseColor("")
	assert.Error(t, err)
}
