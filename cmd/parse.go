package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itsmostafa/specindex/internal/logging"
	"github.com/itsmostafa/specindex/internal/output"
	"github.com/itsmostafa/specindex/internal/pagetext"
	"github.com/itsmostafa/specindex/internal/render"
	"github.com/itsmostafa/specindex/internal/specindex"
)

var outDir string
var docTitle string
var tocStart int
var tocEnd int
var noFallback bool
var showTree bool
var treeDepth int

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a specification into ToC and section records",
	Long: `Parse a PDF, form-feed separated text file or page JSONL file and write the
ToC, sections, merged spec, metadata and validation report to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		source := args[0]
		if cmd.Flags().Changed("out") {
			cfg.Output.Dir = outDir
		}
		pcfg := cfg.ToParserConfig()
		if docTitle != "" {
			pcfg.DocTitle = docTitle
		}
		if pcfg.DocTitle == "" {
			pcfg.DocTitle = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		}
		if cmd.Flags().Changed("toc-start") || cmd.Flags().Changed("toc-end") {
			if tocStart < 1 || tocEnd < tocStart {
				return fmt.Errorf("invalid ToC page range %d-%d", tocStart, tocEnd)
			}
			pcfg.TOCPageStart, pcfg.TOCPageEnd = tocStart, tocEnd
		}
		if noFallback {
			pcfg.FallbackToHeadings = false
		}

		pages, err := pagetext.NewExtractor(cfg.Extract.PreferPdftotext, log).Pages(cmd.Context(), source)
		if err != nil {
			return fmt.Errorf("reading %s: %w", source, err)
		}

		out := cmd.OutOrStdout()
		render.FormatHeader(out, source, pcfg.DocTitle, len(pages))

		result, err := specindex.NewProcessor(pcfg, logging.NewObserver(log)).Process(cmd.Context(), pages)
		if err != nil {
			return err
		}

		meta := output.NewMetadata(pcfg.DocTitle, source, len(pages), result)
		names, err := output.WriteAll(cfg.Output.Dir, meta, result)
		if err != nil {
			return err
		}
		log.Debug("outputs written", zap.String("dir", cfg.Output.Dir), zap.String("run_id", meta.RunID))

		render.FormatSummary(out, meta, names)
		if showTree {
			render.FormatTree(out, specindex.BuildTree(result.Sections), treeDepth)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&outDir, "out", "o", "out", "Output directory (overrides output.dir)")
	parseCmd.Flags().StringVarP(&docTitle, "title", "t", "", "Document title (defaults to parser.doc_title, then the file name)")
	parseCmd.Flags().IntVar(&tocStart, "toc-start", 0, "First page of the table of contents")
	parseCmd.Flags().IntVar(&tocEnd, "toc-end", 0, "Last page of the table of contents")
	parseCmd.Flags().BoolVar(&noFallback, "no-fallback", false, "Do not build the ToC from headings when none is found")
	parseCmd.Flags().BoolVar(&showTree, "tree", false, "Print the section tree")
	parseCmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum tree depth to print (0 = all)")

	rootCmd.AddCommand(parseCmd)
}
