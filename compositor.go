package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BlockKind says what a report block shows
type BlockKind int

const (
	BlockSnapshot BlockKind = iota
	BlockSection
	BlockDisclaimer
)

func (k BlockKind) String() string {
	switch k {
	case BlockSnapshot:
		return "snapshot"
	case BlockSection:
		return "section"
	case BlockDisclaimer:
		return "disclaimer"
	default:
		return "unknown"
	}
}

// Block is one independently rendered unit of the report
type Block struct {
	ID   string
	Kind BlockKind
	HTML string // Fragment placed inside the capture document
}

// Placement is one image positioned on a page (mm)
type Placement struct {
	BlockIndex int
	Image      RasterImage
	X, Y       float64
	Width      float64
	Height     float64
}

// Page is an ordered list of placements
type Page struct {
	Placements []Placement
}

// PageLayout is the result of composition. Blocks appear in input order and
// are never split across pages.
type PageLayout struct {
	PageWidth  float64
	PageHeight float64
	Pages      []Page
}

// BlockCount returns the number of placed blocks
func (l *PageLayout) BlockCount() int {
	n := 0
	for _, p := range l.Pages {
		n += len(p.Placements)
	}
	return n
}

// Compositor lays rasterized blocks out on fixed-size pages
type Compositor struct {
	raster Rasterizer
	report ReportConfig
	logger *zap.Logger
}

// NewCompositor creates a compositor for the given page geometry
func NewCompositor(raster Rasterizer, report ReportConfig, logger *zap.Logger) *Compositor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compositor{raster: raster, report: report, logger: logger}
}

// Compose rasterizes blocks one at a time in order and places them top-down.
// A block that does not fit starts a new page unless the page is empty; a
// block taller than the page is placed alone and overflows. Any rasterization
// failure aborts the composition.
func (c *Compositor) Compose(ctx context.Context, blocks []Block) (*PageLayout, error) {
	rc := c.report
	contentWidth := rc.ContentWidth()
	limit := rc.PageHeight - rc.MarginBottom
	opts := RasterOptions{Scale: rc.RenderScale, Width: rc.RenderWidth}

	layout := &PageLayout{PageWidth: rc.PageWidth, PageHeight: rc.PageHeight}
	current := Page{}
	cursor := rc.MarginTop

	for i, block := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, &PlanError{Kind: KindComposition, Op: "compose report", Err: err}
		}

		img, err := c.raster.Rasterize(ctx, block, opts)
		if err != nil {
			return nil, &PlanError{Kind: KindComposition, Op: fmt.Sprintf("rasterize block %d (%s)", i, block.ID), Err: err}
		}
		if img.Width <= 0 || img.Height <= 0 {
			return nil, &PlanError{Kind: KindComposition, Op: fmt.Sprintf("rasterize block %d (%s)", i, block.ID), Err: fmt.Errorf("empty image %dx%d", img.Width, img.Height)}
		}

		h := float64(img.Height) * contentWidth / float64(img.Width)

		if cursor+h+rc.BlockGap > limit && len(current.Placements) > 0 {
			layout.Pages = append(layout.Pages, current)
			current = Page{}
			cursor = rc.MarginTop
		}

		current.Placements = append(current.Placements, Placement{
			BlockIndex: i,
			Image:      img,
			X:          rc.MarginLeft,
			Y:          cursor,
			Width:      contentWidth,
			Height:     h,
		})
		cursor += h + rc.BlockGap
	}

	if len(current.Placements) > 0 {
		layout.Pages = append(layout.Pages, current)
	}

	c.logger.Debug("report composed", zap.Int("blocks", len(blocks)), zap.Int("pages", len(layout.Pages)))
	return layout, nil
}
