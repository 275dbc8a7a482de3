package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// reportFilePrefix starts every downloaded report name
const reportFilePrefix = "FinanceBuddyGPT_Plan_"

// ReportFilename builds the download name for a user's report. Runs of
// characters other than letters and digits become "_"; an empty name is "user".
func ReportFilename(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	safe := b.String()
	if safe == "" {
		safe = "user"
	}
	return reportFilePrefix + safe + ".pdf"
}

// PDFMeta is document metadata written into the PDF
type PDFMeta struct {
	ID     string
	Title  string
	Author string
}

// WritePDF renders a composed layout as a PDF with one image per placement
func WritePDF(layout *PageLayout, meta PDFMeta, w io.Writer) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator("FinanceBuddyGPT", true)
	pdf.SetSubject("report "+meta.ID, true)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for _, page := range layout.Pages {
		pdf.AddPage()
		for _, p := range page.Placements {
			name := fmt.Sprintf("block-%d", p.BlockIndex)
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(p.Image.Data))
			pdf.ImageOptions(name, p.X, p.Y, p.Width, p.Height, false, opts, 0, "")
		}
	}
	if len(layout.Pages) == 0 {
		pdf.AddPage()
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

// ReportBuilder turns a parsed plan into a paginated PDF
type ReportBuilder struct {
	compositor *Compositor
	logger     *zap.Logger
}

// NewReportBuilder creates a report builder
func NewReportBuilder(compositor *Compositor, logger *zap.Logger) *ReportBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportBuilder{compositor: compositor, logger: logger}
}

// Build composes the report blocks and returns the PDF bytes. No partial
// document is returned on failure.
func (rb *ReportBuilder) Build(ctx context.Context, profile *FinancialProfile, plan *ParsedPlan, lang Language) ([]byte, error) {
	id := uuid.NewString()
	blocks := BuildReportBlocks(profile, plan, lang)

	layout, err := rb.compositor.Compose(ctx, blocks)
	if err != nil {
		rb.logger.Warn("report composition failed", zap.String("report_id", id), zap.Error(err))
		return nil, err
	}

	var buf bytes.Buffer
	meta := PDFMeta{
		ID:     id,
		Title:  fmt.Sprintf("%s: %s", labelsFor(lang).ReportTitle, profile.Name),
		Author: profile.Name,
	}
	if err := WritePDF(layout, meta, &buf); err != nil {
		return nil, &PlanError{Kind: KindComposition, Op: "write pdf", Err: err}
	}

	rb.logger.Info("report built",
		zap.String("report_id", id),
		zap.Stringer("language", lang),
		zap.Int("blocks", len(blocks)),
		zap.Int("pages", len(layout.Pages)),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Save builds the report and writes it into dir under ReportFilename
func (rb *ReportBuilder) Save(ctx context.Context, fs afero.Fs, dir string, profile *FinancialProfile, plan *ParsedPlan, lang Language) (string, error) {
	data, err := rb.Build(ctx, profile, plan, lang)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", &PlanError{Kind: KindComposition, Op: "create output directory", Err: err}
	}
	path := filepath.Join(dir, ReportFilename(profile.Name))
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return "", &PlanError{Kind: KindComposition, Op: "write report", Err: err}
	}
	return path, nil
}

// reportTimestamp is used when a dated output folder is requested
func reportTimestamp() string {
	return time.Now().Format("2006-01-02_1504")
}
