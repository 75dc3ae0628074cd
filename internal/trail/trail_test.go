package trail

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/testdata"
)

func TestProjection(t *testing.T) {
	tests := []struct {
		name   string
		points []gesture.Point
		want   []image.Point
	}{
		{
			name:   "horizontal line is centered vertically",
			points: []gesture.Point{{X: 0, Y: 0}, {X: 100, Y: 0}},
			want:   []image.Point{{X: 10, Y: 60}, {X: 110, Y: 60}},
		},
		{
			name:   "square fills the inner box",
			points: []gesture.Point{{X: -50, Y: -50}, {X: 50, Y: 50}},
			want:   []image.Point{{X: 10, Y: 10}, {X: 110, Y: 110}},
		},
		{
			name:   "tall shape keeps aspect ratio",
			points: []gesture.Point{{X: 0, Y: 0}, {X: 10, Y: 200}},
			want:   []image.Point{{X: 58, Y: 10}, {X: 63, Y: 110}},
		},
		{
			name:   "single point lands in the middle",
			points: []gesture.Point{{X: 7, Y: 7}},
			want:   []image.Point{{X: 60, Y: 60}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newProjection(tt.points, 120, 10).apply(tt.points)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("projection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	zigzag := testdata.MustLoadPath("zigzag")
	simplified := []gesture.Point{zigzag.Points[0], zigzag.Points[len(zigzag.Points)-1]}

	data, err := Render(zigzag.Points, simplified, 200)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("expected 200x200 image, got %dx%d", b.Dx(), b.Dy())
	}

	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("expected white corner, got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render(nil, nil, DefaultSize); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}

	pts := []gesture.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	for _, size := range []int{MinSize - 1, MaxSize + 1} {
		if _, err := Render(pts, nil, size); err == nil {
			t.Errorf("expected error for size %d", size)
		}
	}
}
