// Package trail renders a recorded pointer path as a PNG image.
package trail

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
)

// Size limits in pixels.
const (
	MinSize     = 64
	MaxSize     = 2048
	DefaultSize = 480
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("trail has no points")

var (
	background = gocv.NewScalar(255, 255, 255, 0)
	rawColor   = color.RGBA{R: 170, G: 170, B: 170, A: 255}
	pathColor  = color.RGBA{R: 33, G: 99, B: 235, A: 255}
	startColor = color.RGBA{R: 22, G: 163, B: 74, A: 255}
	endColor   = color.RGBA{R: 220, G: 38, B: 38, A: 255}
)

// Render draws the raw samples in grey and the simplified path on top,
// scaled to fit a size x size square. Start and end are marked green and red.
func Render(raw, simplified []gesture.Point, size int) ([]byte, error) {
	if len(raw) == 0 && len(simplified) == 0 {
		return nil, ErrEmpty
	}
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("trail size %d out of range [%d, %d]", size, MinSize, MaxSize)
	}

	img := gocv.NewMatWithSizeFromScalar(background, size, size, gocv.MatTypeCV8UC3)
	defer img.Close()

	margin := size / 12
	proj := newProjection(append(append([]gesture.Point(nil), raw...), simplified...), size, margin)

	rawPx := proj.apply(raw)
	polyline(&img, rawPx, rawColor, 1)

	pathPx := proj.apply(simplified)
	polyline(&img, pathPx, pathColor, 3)
	for _, p := range pathPx {
		gocv.Circle(&img, p, 4, pathColor, -1)
	}

	ends := rawPx
	if len(ends) == 0 {
		ends = pathPx
	}
	gocv.Circle(&img, ends[0], 7, startColor, -1)
	gocv.Circle(&img, ends[len(ends)-1], 7, endColor, 2)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trail: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

func polyline(img *gocv.Mat, pts []image.Point, c color.RGBA, thickness int) {
	for i := 1; i < len(pts); i++ {
		gocv.Line(img, pts[i-1], pts[i], c, thickness)
	}
}

// projection maps path coordinates onto image pixels with a uniform scale.
type projection struct {
	minX, minY float64
	scale      float64
	offX, offY float64
}

func newProjection(points []gesture.Point, size, margin int) projection {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	inner := float64(size - 2*margin)
	span := math.Max(maxX-minX, maxY-minY)
	scale := 1.0
	if span > 0 {
		scale = inner / span
	}

	return projection{
		minX:  minX,
		minY:  minY,
		scale: scale,
		offX:  float64(margin) + (inner-(maxX-minX)*scale)/2,
		offY:  float64(margin) + (inner-(maxY-minY)*scale)/2,
	}
}

func (pr projection) apply(points []gesture.Point) []image.Point {
	out := make([]image.Point, len(points))
	for i, p := range points {
		out[i] = image.Point{
			X: int(math.Round(pr.offX + (p.X-pr.minX)*pr.scale)),
			Y: int(math.Round(pr.offY + (p.Y-pr.minY)*pr.scale)),
		}
	}
	return out
}
