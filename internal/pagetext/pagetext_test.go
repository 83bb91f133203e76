package pagetext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/itsmostafa/specindex/internal/specindex"
)

func TestReadText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []specindex.Page
	}{
		{
			name:  "form feed pages",
			input: "cover\fcontents\fbody\f",
			want:  []specindex.Page{{Number: 1, Text: "cover"}, {Number: 2, Text: "contents"}, {Number: 3, Text: "body"}},
		},
		{
			name:  "single page",
			input: "only page",
			want:  []specindex.Page{{Number: 1, Text: "only page"}},
		},
		{
			name:  "blank page kept",
			input: "one\f\fthree",
			want:  []specindex.Page{{Number: 1, Text: "one"}, {Number: 2}, {Number: 3, Text: "three"}},
		},
		{
			name:  "empty",
			input: "",
			want:  []specindex.Page{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadText(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadText failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadText = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadJSONL(t *testing.T) {
	input := `{"page": 3, "text": "third"}
{"page": 1, "text": "first"}
`
	got, err := ReadJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSONL failed: %v", err)
	}
	want := []specindex.Page{{Number: 1, Text: "first"}, {Number: 2}, {Number: 3, Text: "third"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadJSONL = %+v, want %+v", got, want)
	}

	for name, bad := range map[string]string{
		"duplicate":  `{"page": 1, "text": "a"}` + "\n" + `{"page": 1, "text": "b"}`,
		"zero page":  `{"page": 0, "text": "a"}`,
		"malformed":  `{"page": `,
		"huge page":  `{"page": 2000000000, "text": "a"}`,
		"past limit": `{"page": 1, "text": "a"}` + "\n" + `{"page": 100001, "text": "b"}`,
		"negative":   `{"page": -4, "text": "a"}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadJSONL(strings.NewReader(bad)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestReadJSONLPageLimit(t *testing.T) {
	input := fmt.Sprintf(`{"page": %d, "text": "last"}`, MaxJSONLPage)
	got, err := ReadJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSONL failed: %v", err)
	}
	if len(got) != MaxJSONLPage || got[MaxJSONLPage-1].Text != "last" {
		t.Errorf("got %d pages, want %d ending in %q", len(got), MaxJSONLPage, "last")
	}
}

func TestFromTexts(t *testing.T) {
	padded := FromTexts([]string{"a"}, 3)
	if len(padded) != 3 || padded[0].Text != "a" || padded[2].Number != 3 || padded[2].Text != "" {
		t.Errorf("padded = %+v", padded)
	}

	truncated := FromTexts([]string{"a", "b", "c"}, 2)
	if len(truncated) != 2 || truncated[1].Text != "b" {
		t.Errorf("truncated = %+v", truncated)
	}
}

func TestExtractorPages(t *testing.T) {
	dir := t.TempDir()
	ext := NewExtractor(false, zaptest.NewLogger(t))
	ctx := context.Background()

	txt := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(txt, []byte("1 Scope\fbody"), 0o644); err != nil {
		t.Fatal(err)
	}
	pages, err := ext.Pages(ctx, txt)
	if err != nil {
		t.Fatalf("Pages(txt) failed: %v", err)
	}
	if len(pages) != 2 || pages[0].Text != "1 Scope" {
		t.Errorf("txt pages = %+v", pages)
	}

	jsonl := filepath.Join(dir, "doc.jsonl")
	if err := os.WriteFile(jsonl, []byte(`{"page":1,"text":"x"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if pages, err := ext.Pages(ctx, jsonl); err != nil || len(pages) != 1 {
		t.Errorf("Pages(jsonl) = %+v, %v", pages, err)
	}

	if _, err := ext.Pages(ctx, filepath.Join(dir, "doc.docx")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}

	bogus := filepath.Join(dir, "bogus.pdf")
	if err := os.WriteFile(bogus, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ext.Pages(ctx, bogus); err == nil {
		t.Error("expected an error for an invalid pdf")
	}
}
