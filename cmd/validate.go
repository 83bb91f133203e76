package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itsmostafa/specindex/internal/output"
	"github.com/itsmostafa/specindex/internal/render"
	"github.com/itsmostafa/specindex/internal/specindex"
)

var reportPaths []string
var maxIssues int
var strict bool

var validateCmd = &cobra.Command{
	Use:   "validate <spec.jsonl> | <toc.jsonl> <sections.jsonl>",
	Short: "Validate parsed sections against their table of contents",
	Long: `Re-run validation on existing output: either a merged spec file, or a ToC
file and a sections file. Reports can be written as JSON or CSV with --report.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		toc, sections, err := readParsed(args)
		if err != nil {
			return err
		}
		log.Debug("loaded records", zap.Int("toc", len(toc)), zap.Int("sections", len(sections)))

		report := specindex.NewValidator(cfg.ToParserConfig()).Validate(toc, sections)
		render.FormatReport(cmd.OutOrStdout(), *report, maxIssues)

		for _, p := range reportPaths {
			if err := output.WriteValidationFile(p, report); err != nil {
				return err
			}
			log.Info("report written", zap.String("path", p))
		}

		if strict && !report.Passed {
			return fmt.Errorf("validation failed: quality score %.2f below %.2f",
				report.QualityScore, cfg.Parser.MinQualityScore)
		}
		return nil
	},
}

func readParsed(args []string) ([]specindex.TocEntry, []specindex.Section, error) {
	if len(args) == 2 {
		toc, err := output.ReadJSONLFile[specindex.TocEntry](args[0])
		if err != nil {
			return nil, nil, err
		}
		sections, err := output.ReadJSONLFile[specindex.Section](args[1])
		if err != nil {
			return nil, nil, err
		}
		return toc, sections, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	spec, err := output.ReadSpec(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", args[0], err)
	}
	return spec.TOC, spec.Sections, nil
}

func init() {
	validateCmd.Flags().StringSliceVarP(&reportPaths, "report", "r", nil, "Write the report to these files (.json or .csv)")
	validateCmd.Flags().IntVar(&maxIssues, "max-issues", 20, "Maximum issues to print (0 = all)")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when the report does not pass")

	rootCmd.AddCommand(validateCmd)
}
