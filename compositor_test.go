package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeRasterizer returns blank PNGs of fixed pixel heights, one per block in order
type fakeRasterizer struct {
	width   int
	heights []int
	failAt  int // Block index that fails; -1 for none
	calls   int
	opts    []RasterOptions
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, block Block, opts RasterOptions) (RasterImage, error) {
	i := f.calls
	f.calls++
	f.opts = append(f.opts, opts)
	if i == f.failAt {
		return RasterImage{}, errors.New("renderer crashed")
	}
	return testPNG(f.width, f.heights[i])
}

func testPNG(w, h int) (RasterImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		return RasterImage{}, err
	}
	return decodeRaster(buf.Bytes())
}

// testGeometry makes one image pixel equal one millimetre on the page
func testGeometry() ReportConfig {
	return ReportConfig{
		PageWidth:   100,
		PageHeight:  800,
		BlockGap:    10,
		RenderWidth: 600,
		RenderScale: 3,
	}
}

func testBlocks(n int) []Block {
	blocks := make([]Block, n)
	for i := range blocks {
		blocks[i] = Block{ID: "b", Kind: BlockSection}
	}
	return blocks
}

// layoutShape lists the block indices and y offsets per page
func layoutShape(layout *PageLayout) [][][2]float64 {
	var pages [][][2]float64
	for _, p := range layout.Pages {
		var placed [][2]float64
		for _, pl := range p.Placements {
			placed = append(placed, [2]float64{float64(pl.BlockIndex), pl.Y})
		}
		pages = append(pages, placed)
	}
	return pages
}

func TestCompose_Pagination(t *testing.T) {
	tests := []struct {
		name    string
		heights []int
		want    [][][2]float64
	}{
		{
			name:    "third block breaks the page",
			heights: []int{300, 400, 500},
			want:    [][][2]float64{{{0, 0}, {1, 310}}, {{2, 0}}},
		},
		{
			name:    "oversized single block stays on the first page",
			heights: []int{900},
			want:    [][][2]float64{{{0, 0}}},
		},
		{
			name:    "oversized block after another starts a new page",
			heights: []int{300, 900},
			want:    [][][2]float64{{{0, 0}}, {{1, 0}}},
		},
		{
			name:    "block after an oversized block starts a new page",
			heights: []int{300, 900, 100},
			want:    [][][2]float64{{{0, 0}}, {{1, 0}}, {{2, 0}}},
		},
		{
			name:    "exact fit including gap",
			heights: []int{390, 390},
			want:    [][][2]float64{{{0, 0}, {1, 400}}},
		},
	}

	for _, tc := range tests {
		raster := &fakeRasterizer{width: 100, heights: tc.heights, failAt: -1}
		layout, err := NewCompositor(raster, testGeometry(), nil).Compose(context.Background(), testBlocks(len(tc.heights)))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if diff := cmp.Diff(tc.want, layoutShape(layout)); diff != "" {
			t.Errorf("%s: layout (-want +got):\n%s", tc.name, diff)
		}
		if layout.BlockCount() != len(tc.heights) {
			t.Errorf("%s: %d blocks placed, want %d", tc.name, layout.BlockCount(), len(tc.heights))
		}
	}
}

func TestCompose_MarginsAndScaling(t *testing.T) {
	rc := ReportConfig{
		PageWidth: 210, PageHeight: 297,
		MarginTop: 15, MarginBottom: 15, MarginLeft: 15, MarginRight: 15,
		BlockGap: 5, RenderWidth: 600, RenderScale: 3,
	}
	// 1800px wide at scale 3 is the 600px render width; 900px tall maps to 90mm
	raster := &fakeRasterizer{width: 1800, heights: []int{900, 900, 900}, failAt: -1}

	layout, err := NewCompositor(raster, rc, nil).Compose(context.Background(), testBlocks(3))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	first := layout.Pages[0].Placements[0]
	if first.X != 15 || first.Y != 15 || first.Width != 180 || first.Height != 90 {
		t.Errorf("first placement = %+v", first)
	}
	// 15 + 95 + 95 = 205; the third block needs 205+90+5 = 300 > 282
	if len(layout.Pages) != 2 || len(layout.Pages[0].Placements) != 2 {
		t.Errorf("unexpected pagination %v", layoutShape(layout))
	}
	if layout.PageWidth != 210 || layout.PageHeight != 297 {
		t.Errorf("page size = %vx%v", layout.PageWidth, layout.PageHeight)
	}
	for _, opts := range raster.opts {
		if opts.Width != 600 || opts.Scale != 3 {
			t.Errorf("raster options = %+v", opts)
		}
	}
}

func TestCompose_FailureAborts(t *testing.T) {
	raster := &fakeRasterizer{width: 100, heights: []int{100, 100, 100}, failAt: 1}

	layout, err := NewCompositor(raster, testGeometry(), nil).Compose(context.Background(), testBlocks(3))
	if layout != nil {
		t.Error("no partial layout may be returned")
	}
	if kind, ok := ErrorKindOf(err); !ok || kind != KindComposition {
		t.Fatalf("expected composition error, got %v", err)
	}
	if raster.calls != 2 {
		t.Errorf("rasterizer called %d times, want 2", raster.calls)
	}
}

func TestCompose_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	raster := &fakeRasterizer{width: 100, heights: []int{100}, failAt: -1}
	_, err := NewCompositor(raster, testGeometry(), nil).Compose(ctx, testBlocks(1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
	if raster.calls != 0 {
		t.Error("nothing should be rasterized after cancellation")
	}
}

func TestCompose_Empty(t *testing.T) {
	layout, err := NewCompositor(&fakeRasterizer{failAt: -1}, testGeometry(), nil).Compose(context.Background(), nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(layout.Pages) != 0 {
		t.Errorf("expected no pages, got %d", len(layout.Pages))
	}
}

func TestDecodeRaster(t *testing.T) {
	img, err := testPNG(40, 20)
	if err != nil {
		t.Fatalf("testPNG: %v", err)
	}
	if img.Width != 40 || img.Height != 20 || len(img.Data) == 0 {
		t.Errorf("decoded %dx%d with %d bytes", img.Width, img.Height, len(img.Data))
	}

	if _, err := decodeRaster([]byte("not an image")); err == nil {
		t.Error("garbage should not decode")
	}
}
