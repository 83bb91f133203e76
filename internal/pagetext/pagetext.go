// Package pagetext turns documents into the ordered, contiguous page
// sequence the section index works on.
package pagetext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/itsmostafa/specindex/internal/output"
	"github.com/itsmostafa/specindex/internal/specindex"
)

// ErrUnsupported is returned for file types the extractor cannot read.
var ErrUnsupported = errors.New("unsupported document type")

// Extractor reads per-page text from PDF, plain-text and JSONL documents.
type Extractor struct {
	// PreferPdftotext uses the pdftotext binary when it is installed.
	// Its -layout output keeps ToC leaders and columns on one line.
	PreferPdftotext bool

	log *zap.Logger
}

// NewExtractor creates an Extractor. A nil logger discards output.
func NewExtractor(preferPdftotext bool, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{PreferPdftotext: preferPdftotext, log: log}
}

// Pages extracts the pages of the document at path, dispatching on its extension.
func (e *Extractor) Pages(ctx context.Context, path string) ([]specindex.Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.pdfPages(ctx, path)
	case ".txt", ".text":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadText(f)
	case ".jsonl", ".ndjson":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadJSONL(f)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

// ReadText reads plain text whose pages are separated by form feeds, the
// format pdftotext writes.
func ReadText(r io.Reader) ([]specindex.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromTexts(splitPages(string(data)), 0), nil
}

// MaxJSONLPage is the highest page number ReadJSONL accepts.
const MaxJSONLPage = 100000

// ReadJSONL reads {"page": n, "text": "..."} records. Records may arrive in
// any order; missing page numbers become empty pages.
func ReadJSONL(r io.Reader) ([]specindex.Page, error) {
	records, err := output.ReadJSONL[specindex.Page](r)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Number < records[j].Number })

	last := 0
	byNumber := make(map[int]string, len(records))
	for _, rec := range records {
		if rec.Number < 1 || rec.Number > MaxJSONLPage {
			return nil, fmt.Errorf("page number %d out of range 1-%d", rec.Number, MaxJSONLPage)
		}
		if _, dup := byNumber[rec.Number]; dup {
			return nil, fmt.Errorf("page %d appears twice", rec.Number)
		}
		byNumber[rec.Number] = rec.Text
		last = rec.Number
	}

	texts := make([]string, last)
	for n, text := range byNumber {
		texts[n-1] = text
	}
	return FromTexts(texts, 0), nil
}

// FromTexts numbers texts from 1. When pageCount is larger, the sequence is
// padded with empty pages; when smaller, surplus texts are dropped.
func FromTexts(texts []string, pageCount int) []specindex.Page {
	n := len(texts)
	if pageCount > 0 {
		n = pageCount
	}
	pages := make([]specindex.Page, n)
	for i := range pages {
		pages[i].Number = i + 1
		if i < len(texts) {
			pages[i].Text = texts[i]
		}
	}
	return pages
}

// splitPages splits pdftotext output on form feeds. The trailing form feed
// after the last page does not start a new page.
func splitPages(text string) []string {
	text = strings.TrimSuffix(text, "\f")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\f")
}

func (e *Extractor) pdfPages(ctx context.Context, path string) ([]specindex.Page, error) {
	count, err := pageCount(path)
	if err != nil {
		e.log.Warn("page count unavailable, using text extractor count", zap.String("file", path), zap.Error(err))
		count = 0
	}

	if e.PreferPdftotext {
		if _, lookErr := exec.LookPath("pdftotext"); lookErr == nil {
			text, err := runPdftotext(ctx, path)
			if err == nil {
				e.log.Debug("extracted with pdftotext", zap.String("file", path), zap.Int("pages", count))
				return FromTexts(splitPages(text), count), nil
			}
			e.log.Warn("pdftotext failed, falling back", zap.Error(err))
		}
	}

	texts, err := e.libraryTexts(path)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	if len(texts) == 0 && count == 0 {
		return nil, fmt.Errorf("extract pdf text: %w", specindex.ErrNoPages)
	}
	return FromTexts(texts, count), nil
}

// pageCount reads the authoritative page count.
func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(f, conf)
}

// libraryTexts extracts plain text page by page. Unreadable pages are empty.
func (e *Extractor) libraryTexts(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	texts := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.log.Debug("page text unavailable", zap.Int("page", i), zap.Error(err))
			continue
		}
		texts[i-1] = text
	}
	return texts, nil
}

func runPdftotext(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
