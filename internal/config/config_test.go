package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/itsmostafa/specindex/internal/specindex"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v\nwant %+v", cfg, Default())
	}

	parser := cfg.ToParserConfig()
	want := specindex.DefaultConfig()
	if !reflect.DeepEqual(parser, want) {
		t.Errorf("ToParserConfig() = %+v, want %+v", parser, want)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `parser:
  page_tolerance: 4
  doc_title: USB PD
tags:
  thermal: [temperature, thermal]
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Parser.PageTolerance != 4 || cfg.Parser.DocTitle != "USB PD" {
		t.Errorf("parser = %+v", cfg.Parser)
	}
	if cfg.Parser.MaxTOCPages != 20 {
		t.Errorf("unset key lost its default: max_toc_pages = %d", cfg.Parser.MaxTOCPages)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q", cfg.Logging.Level)
	}

	tags := cfg.ToParserConfig().Tags
	if !reflect.DeepEqual(tags["thermal"], []string{"temperature", "thermal"}) {
		t.Errorf("thermal tags = %v", tags["thermal"])
	}
	if _, ok := tags["power"]; !ok {
		t.Error("default power category missing")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("SPECINDEX_PARSER_PAGE_TOLERANCE", "7")
	t.Setenv("SPECINDEX_EXTRACT_PREFER_PDFTOTEXT", "false")
	t.Setenv("SPECINDEX_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Parser.PageTolerance != 7 {
		t.Errorf("page_tolerance = %d, want 7", cfg.Parser.PageTolerance)
	}
	if cfg.Extract.PreferPdftotext {
		t.Error("prefer_pdftotext should be false")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "parser: [", "error reading config file"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad ratio", "parser:\n  title_similarity: 1.5\n", "parser.title_similarity"},
		{"bad toc range", "parser:\n  toc_page_start: 5\n  toc_page_end: 2\n", "toc_page_start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "-")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "# specindex configuration") {
		t.Errorf("missing header:\n%s", text)
	}
	if !strings.Contains(text, "# Page drift accepted by the validator") {
		t.Errorf("missing key description:\n%s", text)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(written default) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("written default loads as %+v", cfg)
	}

	if err := WriteDefault(path); err == nil {
		t.Error("expected an error when the file exists")
	}
}
