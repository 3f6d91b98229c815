package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the builtin rule catalog",
	Long:  `List every builtin rule with its effective severity, honoring any discovered avlint.toml`,
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("config", "", "path to avlint.toml (default: discovered from the working directory)")
}

func runRules(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	reg := analysis.NewRegistry()
	if err := rules.RegisterBuiltin(reg); err != nil {
		return err
	}
	opts, manifest, err := loadRuleOptions(configPath, ".", reg)
	if err != nil {
		return err
	}

	if manifest != "" {
		fmt.Fprintf(os.Stdout, "using %s\n\n", manifest)
	}
	for _, rule := range reg.Rules() {
		id := rule.ID()
		label := effectiveSeverity(id, rule.DefaultSeverity(), opts)
		fmt.Fprintf(os.Stdout, "%s  %-8s  %s\n", id, severityLabel(label, useColor), rule.Description())
	}
	return nil
}

func effectiveSeverity(id string, def diag.Severity, opts analysis.Options) string {
	if opts.Disabled != nil && opts.Disabled[id] {
		return "none"
	}
	if opts.Severity != nil {
		if override, ok := opts.Severity[id]; ok {
			return override.Name()
		}
	}
	return def.Name()
}

func severityLabel(name string, useColor bool) string {
	if !useColor {
		return name
	}
	switch name {
	case "error":
		return color.New(color.FgRed, color.Bold).Sprint(name)
	case "warning":
		return color.New(color.FgYellow).Sprint(name)
	case "none":
		return color.New(color.Faint).Sprint(name)
	default:
		return color.New(color.FgCyan).Sprint(name)
	}
}
