package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prefabmig/prefabmig/internal/prefab"
	"github.com/prefabmig/prefabmig/internal/tree"
	"github.com/prefabmig/prefabmig/internal/ui"
)

var inspectPaths bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Project a prefab and print its node tree",
	Long: `Project one prefab's flat record array into its node tree and print it,
with component kinds and originating slot numbers. Useful for debugging why
two versions of an asset fail to match structurally.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := prefab.Load(args[0])
		if err != nil {
			return err
		}
		root, err := tree.Project(doc)
		if err != nil {
			return err
		}

		if inspectPaths {
			paths := tree.PathMap(root)
			keys := make([]string, 0, len(paths))
			for k := range paths {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("%s %s\n", ui.FilePath(k), ui.Slot(paths[k].Slot))
			}
			return nil
		}

		printNode(root, 0)
		return nil
	},
}

func printNode(n *tree.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %s\n", indent, ui.Header(n.Name), ui.Slot(n.Slot))

	for _, kind := range sortedKeys(n.Components) {
		c := n.Components[kind]
		fmt.Printf("%s  %s %s %s\n", indent, ui.Kind(kind), ui.Slot(c.Slot),
			ui.Hint(ui.Count(len(c.Fields), "field", "fields")))
	}
	for _, name := range sortedNodeKeys(n.Children) {
		printNode(n.Children[name], depth+1)
	}
}

func sortedKeys(m map[string]*tree.Component) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedNodeKeys(m map[string]*tree.Node) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectPaths, "paths", false, "print the flat path map instead of the tree")
	rootCmd.AddCommand(inspectCmd)
}
