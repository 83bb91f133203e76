package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/specindex/internal/output"
	"github.com/itsmostafa/specindex/internal/render"
)

var checkCmd = &cobra.Command{
	Use:   "check <file|dir>...",
	Short: "Check output files against their JSON schemas",
	Long: `Check ToC, section, merged spec, metadata and validation files against the
embedded JSON schemas. Directories are expanded to the output files they contain.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandOutputs(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no output files found in %v", args)
		}

		checker, err := output.NewChecker()
		if err != nil {
			return err
		}

		var results []*output.CheckResult
		failed := 0
		for _, p := range paths {
			res, err := checker.CheckFile(p)
			if err != nil {
				return err
			}
			if !res.OK() {
				failed++
			}
			results = append(results, res)
		}

		render.FormatCheck(cmd.OutOrStdout(), results)
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed the schema check", failed, len(results))
		}
		return nil
	},
}

// expandOutputs replaces directories with the recognised output files inside them.
func expandOutputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			p := filepath.Join(arg, entry.Name())
			if _, err := output.SchemaForPath(p); err == nil {
				paths = append(paths, p)
			}
		}
	}
	return paths, nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
