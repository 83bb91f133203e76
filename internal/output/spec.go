package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/itsmostafa/specindex/internal/specindex"
)

// Record types of the merged spec file.
const (
	TypeMetadata = "metadata"
	TypeTOC      = "toc"
	TypeSection  = "section"
)

type metadataRecord struct {
	Type string `json:"type"`
	Metadata
}

type tocRecord struct {
	Type string `json:"type"`
	specindex.TocEntry
}

type sectionRecord struct {
	Type string `json:"type"`
	specindex.Section
}

// WriteSpec writes the merged spec file: one metadata line, then every ToC
// entry, then every section, each tagged with its record type.
func WriteSpec(w io.Writer, meta Metadata, toc []specindex.TocEntry, sections []specindex.Section) error {
	records := make([]any, 0, 1+len(toc)+len(sections))
	records = append(records, metadataRecord{Type: TypeMetadata, Metadata: meta})
	for _, e := range toc {
		records = append(records, tocRecord{Type: TypeTOC, TocEntry: e})
	}
	for _, s := range sections {
		records = append(records, sectionRecord{Type: TypeSection, Section: s})
	}
	return WriteJSONL(w, records)
}

// Spec is the content of a merged spec file.
type Spec struct {
	Metadata Metadata
	TOC      []specindex.TocEntry
	Sections []specindex.Section
}

// ReadSpec parses a merged spec file.
func ReadSpec(r io.Reader) (*Spec, error) {
	raw, err := ReadJSONL[json.RawMessage](r)
	if err != nil {
		return nil, err
	}

	spec := &Spec{}
	for i, line := range raw {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(line, &head); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}

		switch head.Type {
		case TypeMetadata:
			var rec metadataRecord
			err = json.Unmarshal(line, &rec)
			spec.Metadata = rec.Metadata
		case TypeTOC:
			var rec tocRecord
			err = json.Unmarshal(line, &rec)
			spec.TOC = append(spec.TOC, rec.TocEntry)
		case TypeSection:
			var rec sectionRecord
			err = json.Unmarshal(line, &rec)
			spec.Sections = append(spec.Sections, rec.Section)
		default:
			err = fmt.Errorf("unknown record type %q", head.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return spec, nil
}
