package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/diagfmt"
	"avlint/internal/driver"
	"avlint/internal/rules"
	"avlint/internal/version"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <unit.avu|directory>",
	Short: "Run the guideline catalog over unit snapshots",
	Long:  `Analyze a single compilation-unit snapshot or every *.avu snapshot within a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	analyzeCmd.Flags().String("config", "", "path to avlint.toml (default: discovered from the target)")
	analyzeCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	analyzeCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
	analyzeCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	analyzeCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	analyzeCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// runAnalyze executes the "analyze" command: it resolves flags and the rule
// configuration, analyzes the target path (single snapshot or directory),
// renders the merged report in the chosen format, and exits non-zero when any
// error-severity diagnostics remain.
func runAnalyze(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	startDir := target
	if !st.IsDir() {
		startDir = filepath.Dir(target)
	}

	reg := analysis.NewRegistry()
	if err := rules.RegisterBuiltin(reg); err != nil {
		return err
	}
	ruleOpts, _, err := loadRuleOptions(configPath, startDir, reg)
	if err != nil {
		return err
	}
	set := reg.Freeze()

	opts := driver.Options{
		Rules:            ruleOpts,
		IgnoreWarnings:   noWarnings,
		WarningsAsErrors: warningsAsErrors,
		FullPath:         fullPath,
		EnableTimings:    showTimings,
	}

	var results []driver.UnitResult
	if st.IsDir() {
		useTUI := shouldUseTUI(mode) && format == "pretty"
		if useTUI {
			units, listErr := driver.ListUnits(target)
			if listErr != nil {
				return listErr
			}
			results, err = runAnalyzeDirWithUI(cmd.Context(), "analyzing "+target, target, units, set, opts, jobs)
		} else {
			results, err = driver.AnalyzeDir(cmd.Context(), target, set, opts, jobs)
		}
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
	} else {
		res := driver.AnalyzeFile(cmd.Context(), target, set, opts)
		if res.Err != nil {
			return fmt.Errorf("analysis failed: %w", res.Err)
		}
		results = []driver.UnitResult{res}
	}

	records, incomplete := collectRecords(results)
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, records, diagfmt.PrettyOpts{Color: useColor, Max: maxDiagnostics})
		if !quiet {
			printSummary(os.Stdout, records, incomplete)
		}
	case "short":
		if output := diagfmt.Short(truncateRecords(records, maxDiagnostics)); output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, records, diagfmt.JSONOpts{Incomplete: incomplete, Max: maxDiagnostics}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{ToolName: "avlint", ToolVersion: version.Plain}
		if err := diagfmt.Sarif(os.Stdout, records, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if showTimings && !quiet {
		printTimings(os.Stdout, results)
	}

	if hasErrorRecords(records) {
		// Suppress cobra usage output on diagnostic errors.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error, diagnostics already printed
	}
	return nil
}

// collectRecords merges per-unit records and converts load failures into
// fault records so broken snapshots surface in every output format.
func collectRecords(results []driver.UnitResult) (records []diagfmt.Record, incomplete bool) {
	for _, res := range results {
		if res.Err != nil {
			records = append(records, diagfmt.Record{
				Rule:     "avlint",
				Severity: diag.SevError,
				Message:  fmt.Sprintf("failed to load unit %s: %v", res.Path, res.Err),
				Path:     res.Path,
				Fault:    true,
			})
			continue
		}
		if res.Run.Incomplete {
			incomplete = true
		}
		records = append(records, res.Records...)
	}
	diagfmt.Sort(records)
	return records, incomplete
}

func truncateRecords(records []diagfmt.Record, max int) []diagfmt.Record {
	if max > 0 && max < len(records) {
		return records[:max]
	}
	return records
}

func hasErrorRecords(records []diagfmt.Record) bool {
	for _, rec := range records {
		if rec.Severity == diag.SevError {
			return true
		}
	}
	return false
}

func printSummary(w *os.File, records []diagfmt.Record, incomplete bool) {
	errors, warnings, infos := 0, 0, 0
	for _, rec := range records {
		switch rec.Severity {
		case diag.SevError:
			errors++
		case diag.SevWarning:
			warnings++
		default:
			infos++
		}
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "no issues found")
	} else {
		fmt.Fprintf(w, "%d issues (%d errors, %d warnings, %d info)\n", len(records), errors, warnings, infos)
	}
	if incomplete {
		fmt.Fprintln(w, "analysis was cancelled before completion; results are partial")
	}
}

func printTimings(w *os.File, results []driver.UnitResult) {
	for _, res := range results {
		if res.Timing == nil {
			continue
		}
		fmt.Fprintf(w, "%s:\n", res.Path)
		for _, phase := range res.Timing.Phases {
			fmt.Fprintf(w, "  %-12s %7.2f ms\n", phase.Name, phase.DurationMS)
		}
		fmt.Fprintf(w, "  %-12s %7.2f ms\n", "total", res.Timing.TotalMS)
	}
}
