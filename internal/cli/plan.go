package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/prefabmig/prefabmig/internal/atomicfile"
	"github.com/prefabmig/prefabmig/internal/migrate"
	"github.com/prefabmig/prefabmig/internal/plan"
	"github.com/prefabmig/prefabmig/internal/prefab"
	"github.com/prefabmig/prefabmig/internal/rules"
	"github.com/prefabmig/prefabmig/internal/tree"
	"github.com/prefabmig/prefabmig/internal/ui"
)

var (
	planDebug     bool
	planExportDir string
	planExt       string
)

// planView is the JSON shape written by --export.
type planView struct {
	File         string   `json:"file"`
	Instructions []string `json:"instructions"`
	Replacements []string `json:"replacements,omitempty"`
	Unmatched    []string `json:"unmatched,omitempty"`
	Diags        []string `json:"diags,omitempty"`
}

var planCmd = &cobra.Command{
	Use:   "plan <source> <target>",
	Short: "Compile the migration plan without applying it",
	Long: `Compile and print the migration instructions for a file pair, or for every
paired file when both arguments are directories. Nothing is written unless
--export is given, and even then only plan files, never prefabs.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, target := args[0], args[1]

		rc, err := loadRules()
		if err != nil {
			return err
		}

		srcInfo, err := os.Stat(source)
		if err != nil {
			return fmt.Errorf("not found: %s", source)
		}

		var items []migrate.Item
		if srcInfo.IsDir() {
			ext := planExt
			if ext == "" {
				ext = cfg.GetExtension()
			}
			var missing []string
			items, missing, err = migrate.Pairs(source, target, ext)
			if err != nil {
				return err
			}
			for _, m := range missing {
				fmt.Fprintln(os.Stderr, ui.Warningf("no target counterpart for %s, skipped", m))
			}
		} else {
			items = []migrate.Item{{Source: source, Target: target, Relative: filepath.Base(target)}}
		}

		for _, item := range items {
			if err := planOne(item, rc); err != nil {
				fmt.Println(ui.Errorf("%s: %v", item.Relative, err))
			}
		}
		return nil
	},
}

func planOne(item migrate.Item, rc *rules.Config) error {
	sourceDoc, err := prefab.Load(item.Source)
	if err != nil {
		return err
	}
	targetDoc, err := prefab.Load(item.Target)
	if err != nil {
		return err
	}

	srcRoot, err := tree.Project(sourceDoc)
	if err != nil {
		return err
	}
	dstRoot, err := tree.Project(targetDoc)
	if err != nil {
		return err
	}

	res := plan.Compile(tree.PathMap(srcRoot), tree.PathMap(dstRoot), rc)

	fmt.Printf("%s %s\n", ui.Header(item.Relative), ui.Count(len(res.Instructions)+len(res.ScriptReplacements), "instruction", "instructions"))
	for _, in := range res.Instructions {
		fmt.Println("  " + in.Describe())
	}
	for _, in := range res.ScriptReplacements {
		fmt.Println("  " + in.Describe())
	}
	for _, diag := range res.Diags {
		fmt.Println("  " + ui.Warning(diag))
	}

	if planDebug {
		spew.Fdump(os.Stderr, res)
	}

	if planExportDir != "" {
		if err := exportPlan(item, srcRoot.Name, res); err != nil {
			return err
		}
	}
	return nil
}

// exportPlan writes the compiled plan as JSON, named after the prefab's
// root node with the relative path as a disambiguating prefix.
func exportPlan(item migrate.Item, rootName string, res *plan.Result) error {
	view := planView{
		File:      filepath.ToSlash(item.Relative),
		Unmatched: res.Unmatched,
		Diags:     res.Diags,
	}
	for _, in := range res.Instructions {
		view.Instructions = append(view.Instructions, in.Describe())
	}
	for _, in := range res.ScriptReplacements {
		view.Replacements = append(view.Replacements, in.Describe())
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(planExportDir, 0755); err != nil {
		return err
	}
	name := slug.Make(strings.TrimSuffix(filepath.ToSlash(item.Relative), filepath.Ext(item.Relative)) + "-" + rootName)
	path := filepath.Join(planExportDir, name+".json")
	return atomicfile.WriteFile(path, append(data, '\n'), 0644)
}

func init() {
	planCmd.Flags().BoolVar(&planDebug, "debug", false, "dump the raw plan structures to stderr")
	planCmd.Flags().StringVar(&planExportDir, "export", "", "write per-file plan JSON into this directory")
	planCmd.Flags().StringVar(&planExt, "ext", "", "prefab file extension (default from config, '.prefab')")
	rootCmd.AddCommand(planCmd)
}
