// Package cli implements the command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prefabmig/prefabmig/internal/config"
	"github.com/prefabmig/prefabmig/internal/rules"
	"github.com/prefabmig/prefabmig/internal/ui"
)

var (
	// Global flags
	configPathFlag   string
	rulesPathFlag    string
	sourceAssetsFlag string
	targetAssetsFlag string

	// Resolved values
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pfm",
	Short: "pfm - prefab migration between editor versions",
	Long: `pfm migrates serialized prefab assets produced by one editor version into
the equivalent assets understood by another, preserving node hierarchy,
component data, and internal cross-references.

Nodes are matched across versions by their root-relative path; a rule file
drives field transfers, component-type replacement, component removal, and
global asset-identifier substitution.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "docs", "help", "completion":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		if configPathFlag != "" {
			cfg, err = config.LoadFrom(configPathFlag)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "path to config.toml")
	rootCmd.PersistentFlags().StringVar(&rulesPathFlag, "rules", "", "path to the YAML rule tables")
	rootCmd.PersistentFlags().StringVar(&sourceAssetsFlag, "source-assets", "", "path to the source identifier-to-path table")
	rootCmd.PersistentFlags().StringVar(&targetAssetsFlag, "target-assets", "", "path to the target identifier-to-path table")
}

// loadRules resolves the rule tables from flags and config and derives the
// substitution list from whichever asset tables are available.
func loadRules() (*rules.Config, error) {
	path := rulesPathFlag
	if path == "" {
		path = cfg.Rules
	}

	var (
		rc  *rules.Config
		err error
	)
	if path == "" {
		rc = &rules.Config{
			Transforms: map[string][]rules.Transform{},
			Removals:   map[string]bool{},
			Whitelist:  map[string]map[string]bool{},
			Scripts:    map[string]rules.ScriptRemap{},
		}
	} else {
		rc, err = rules.Load(path)
		if err != nil {
			return nil, err
		}
	}

	sourceTable := sourceAssetsFlag
	if sourceTable == "" {
		sourceTable = cfg.SourceAssets
	}
	targetTable := targetAssetsFlag
	if targetTable == "" {
		targetTable = cfg.TargetAssets
	}
	var source, target map[string]string
	if sourceTable != "" {
		if source, err = rules.LoadAssetTable(sourceTable); err != nil {
			return nil, err
		}
	}
	if targetTable != "" {
		if target, err = rules.LoadAssetTable(targetTable); err != nil {
			return nil, err
		}
	}
	// Built even without tables: the fixed asset-type rename always runs.
	rc.Substitutions = rules.BuildSubstitutions(source, target)

	return rc, nil
}
