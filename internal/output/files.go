package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/itsmostafa/specindex/internal/specindex"
)

// Names holds the output file paths of one run.
type Names struct {
	TOC           string
	Sections      string
	Spec          string
	Metadata      string
	Validation    string
	ValidationCSV string
}

// All returns every path in a stable order.
func (n Names) All() []string {
	return []string{n.TOC, n.Sections, n.Spec, n.Metadata, n.Validation, n.ValidationCSV}
}

// BaseName derives the file name stem from the document title, or from the
// source file name when the title is empty.
func BaseName(docTitle, source string) string {
	base := slug.Make(docTitle)
	if base == "" {
		base = slug.Make(strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)))
	}
	if base == "" {
		base = "document"
	}
	return base
}

// NamesFor returns the output paths for base inside dir.
func NamesFor(dir, base string) Names {
	join := func(suffix string) string { return filepath.Join(dir, base+suffix) }
	return Names{
		TOC:           join("-toc.jsonl"),
		Sections:      join("-sections.jsonl"),
		Spec:          join("-spec.jsonl"),
		Metadata:      join("-metadata.json"),
		Validation:    join("-validation.json"),
		ValidationCSV: join("-validation.csv"),
	}
}

// WriteAll writes every output file of a run into dir.
func WriteAll(dir string, meta Metadata, result *specindex.Result) (Names, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Names{}, fmt.Errorf("creating output directory: %w", err)
	}
	names := NamesFor(dir, BaseName(meta.DocTitle, meta.Source))

	steps := []struct {
		path  string
		write func() error
	}{
		{names.TOC, func() error { return WriteJSONLFile(names.TOC, result.TOC) }},
		{names.Sections, func() error { return WriteJSONLFile(names.Sections, result.Sections) }},
		{names.Spec, func() error {
			return writeFile(names.Spec, func(w io.Writer) error {
				return WriteSpec(w, meta, result.TOC, result.Sections)
			})
		}},
		{names.Metadata, func() error { return writeJSONFile(names.Metadata, meta) }},
		{names.Validation, func() error {
			return writeFile(names.Validation, func(w io.Writer) error {
				return WriteValidationJSON(w, result.Report)
			})
		}},
		{names.ValidationCSV, func() error {
			return writeFile(names.ValidationCSV, func(w io.Writer) error {
				return WriteValidationCSV(w, result.Report)
			})
		}},
	}

	for _, step := range steps {
		if err := step.write(); err != nil {
			return names, fmt.Errorf("writing %s: %w", filepath.Base(step.path), err)
		}
	}
	return names, nil
}
