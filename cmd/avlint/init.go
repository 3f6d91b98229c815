package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"avlint/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter avlint.toml",
	Long: `Create an avlint.toml manifest in the given directory (or the current
directory when omitted). The manifest maps rule IDs to severity overrides.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInitCmd,
}

// runInitCmd resolves the target directory, creates it if needed, and writes
// the starter manifest. It refuses to overwrite an existing avlint.toml.
func runInitCmd(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, config.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("already configured: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(config.Template), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	rel := manifestPath
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, manifestPath); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", rel)
	return nil
}
