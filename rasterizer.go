package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// RasterOptions controls how a block is captured
type RasterOptions struct {
	Scale float64 // Device scale factor
	Width int     // Virtual CSS width in pixels
}

// RasterImage is a captured block as PNG bytes with its pixel size
type RasterImage struct {
	Width  int
	Height int
	Data   []byte
}

// Rasterizer captures a visual block as an image
type Rasterizer interface {
	Rasterize(ctx context.Context, block Block, opts RasterOptions) (RasterImage, error)
}

// blockSelector is the id of the element wrapping each block in its capture document
const blockSelector = "#block"

// RodRasterizer renders blocks in headless Chrome. The browser is started on
// first use and reused until Close.
type RodRasterizer struct {
	bin    string
	logger *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodRasterizer creates a rasterizer; bin may be empty to use the launcher's browser
func NewRodRasterizer(bin string, logger *zap.Logger) *RodRasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RodRasterizer{bin: bin, logger: logger}
}

func (r *RodRasterizer) connect(ctx context.Context) (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	launch := launcher.New().Headless(true)
	if r.bin != "" {
		launch = launch.Bin(r.bin)
	}
	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	r.logger.Debug("headless browser started", zap.String("control_url", controlURL))

	r.browser = browser
	return browser, nil
}

// Rasterize renders the block at opts.Width CSS pixels and captures it at opts.Scale
func (r *RodRasterizer) Rasterize(ctx context.Context, block Block, opts RasterOptions) (RasterImage, error) {
	if opts.Width <= 0 || opts.Scale <= 0 {
		return RasterImage{}, fmt.Errorf("invalid raster options %+v", opts)
	}

	browser, err := r.connect(ctx)
	if err != nil {
		return RasterImage{}, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return RasterImage{}, fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	metrics := proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            800,
		DeviceScaleFactor: opts.Scale,
	}
	if err := metrics.Call(page); err != nil {
		return RasterImage{}, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(BlockDocument(block, opts.Width)); err != nil {
		return RasterImage{}, fmt.Errorf("load block %s: %w", block.ID, err)
	}
	if err := page.WaitLoad(); err != nil {
		return RasterImage{}, fmt.Errorf("load block %s: %w", block.ID, err)
	}

	// Grow the viewport so tall blocks are captured whole
	res, err := page.Eval(`() => document.documentElement.scrollHeight`)
	if err != nil {
		return RasterImage{}, fmt.Errorf("measure block %s: %w", block.ID, err)
	}
	if h := res.Value.Int(); h > metrics.Height {
		metrics.Height = h
		if err := metrics.Call(page); err != nil {
			return RasterImage{}, fmt.Errorf("resize viewport: %w", err)
		}
	}

	el, err := page.Element(blockSelector)
	if err != nil {
		return RasterImage{}, fmt.Errorf("find block %s: %w", block.ID, err)
	}
	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return RasterImage{}, fmt.Errorf("capture block %s: %w", block.ID, err)
	}

	return decodeRaster(data)
}

// Close shuts the browser down
func (r *RodRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

// decodeRaster reads the pixel size from PNG data
func decodeRaster(data []byte) (RasterImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return RasterImage{}, fmt.Errorf("decode capture: %w", err)
	}
	if format != "png" {
		return RasterImage{}, fmt.Errorf("capture is %s, not png", format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return RasterImage{}, errors.New("capture is empty")
	}
	return RasterImage{Width: cfg.Width, Height: cfg.Height, Data: data}, nil
}
